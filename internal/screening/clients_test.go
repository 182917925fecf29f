package screening

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeBrowsing_IsSafe(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"no matches", `{}`, true},
		{"match", `{"matches":[{"threatType":"MALWARE"}]}`, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "k", r.URL.Query().Get("key"))

				var req threatRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				if assert.Len(t, req.ThreatInfo.ThreatEntries, 1) {
					assert.Equal(t, "https://example.com", req.ThreatInfo.ThreatEntries[0].URL)
				}
				assert.Contains(t, req.ThreatInfo.ThreatTypes, "SOCIAL_ENGINEERING")

				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			ok, err := NewSafeBrowsing(srv.URL, "k", 0).IsSafe(context.Background(), "https://example.com")
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestSafeBrowsing_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusBadRequest)
	}))
	defer srv.Close()

	ok, err := NewSafeBrowsing(srv.URL, "k", 0).IsSafe(context.Background(), "https://example.com")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestPerspective_Toxicity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello there", req.Comment.Text)
		assert.Contains(t, req.RequestedAttributes, "TOXICITY")
		_, _ = w.Write([]byte(`{"attributeScores":{"TOXICITY":{"summaryScore":{"value":0.83,"type":"PROBABILITY"}}}}`))
	}))
	defer srv.Close()

	score, err := NewPerspective(srv.URL, "k", 0).Toxicity(context.Background(), "hello there")
	require.NoError(t, err)
	assert.InDelta(t, 0.83, score, 1e-9)
}

func TestPerspective_MissingScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"attributeScores":{}}`))
	}))
	defer srv.Close()

	_, err := NewPerspective(srv.URL, "k", 0).Toxicity(context.Background(), "x")
	assert.Error(t, err)
}
