package moderation

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLGuard_Validate(t *testing.T) {
	g := URLGuard{}

	rejected := []string{
		"",
		"   ",
		"ftp://example.com/file",
		"javascript:alert(1)",
		"http://",
		"http://localhost:8080/admin",
		"http://app.localhost/",
		"http://127.0.0.1/",
		"http://10.0.0.5/",
		"http://172.16.0.1/",
		"http://172.31.255.255/",
		"http://192.168.1.1/",
		"http://169.254.169.254/latest/meta-data",
		"http://0.0.0.0/",
		"http://[::1]/",
		"http://[fe80::1]/",
		"http://[::ffff:127.0.0.1]/",
		"http://free-stuff.tk/",
		"http://site.ml/",
		"http://site.cf/",
		"http://hidden.onion/",
		"http://localhost./admin",
		"http://foo.localhost./",
		"http://evil.tk./",
		"http://127.0.0.1./",
		"https://example.com/" + strings.Repeat("a", DefaultMaxURLLength),
	}
	for _, raw := range rejected {
		_, err := g.Validate(raw)
		assert.Error(t, err, raw)
	}

	accepted := []string{
		"https://example.com/page",
		"http://172.32.0.1/",
		"https://go.dev/doc/tutorial/getting-started",
	}
	for _, raw := range accepted {
		u, err := g.Validate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, u.String())
	}
}

func TestURLGuard_MaxLength(t *testing.T) {
	g := URLGuard{MaxLength: 30}
	_, err := g.Validate("https://example.com/abcdefghijklmnop")
	assert.ErrorIs(t, err, errURLTooLong)
}

func TestURLGuard_CheckURL(t *testing.T) {
	g := URLGuard{}
	u, _ := url.Parse("http://169.254.10.10/")
	assert.ErrorIs(t, g.CheckURL(u), errPrivateHost)

	u, _ = url.Parse("https://example.org/next")
	assert.NoError(t, g.CheckURL(u))
}
