package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainClassifier_Classify(t *testing.T) {
	c := DefaultDomainClassifier()

	tests := []struct {
		host string
		want DomainClass
	}{
		{"github.com", DomainAllow},
		{"sub.github.com", DomainAllow},
		{"GitHub.com", DomainAllow},
		{"developer.mozilla.org", DomainAllow},
		{"tiktok.com", DomainBlock},
		{"www.tiktok.com", DomainBlock},
		{"youtube.com", DomainBlock},
		{"notgithub.com", DomainUnknown},
		{"github.com.evil.example", DomainUnknown},
		{"example.com", DomainUnknown},
		{"", DomainUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.host, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Classify(tc.host))
		})
	}
}

func TestDomainClassifier_AllowWins(t *testing.T) {
	c := NewDomainClassifier([]string{"example.com"}, []string{"example.com"})
	assert.Equal(t, DomainAllow, c.Classify("example.com"))
	assert.Equal(t, "allow", c.Classify("a.example.com").String())
}
