package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideo(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		want    *Video
	}{
		{
			name:   "found",
			status: http.StatusOK,
			body:   `{"items":[{"id":"abc123","snippet":{"title":"React Hooks Crash Course","description":"Learn hooks","tags":["react","gameplay"]}}]}`,
			want:   &Video{ID: "abc123", Title: "React Hooks Crash Course", Description: "Learn hooks", Tags: []string{"react", "gameplay"}},
		},
		{name: "empty items", status: http.StatusOK, body: `{"items":[]}`, wantErr: ErrVideoNotFound},
		{name: "404", status: http.StatusNotFound, body: `{}`, wantErr: ErrVideoNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/videos", r.URL.Path)
				assert.Equal(t, "snippet", r.URL.Query().Get("part"))
				assert.Equal(t, "abc123", r.URL.Query().Get("id"))
				assert.Equal(t, "k", r.URL.Query().Get("key"))
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			v, err := NewClient(srv.URL, "k", 0, nil).Video(context.Background(), "abc123")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, v)
		})
	}
}

func TestVideo_ServerErrorIsNotNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k", 0, nil).Video(context.Background(), "abc123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrVideoNotFound)
	assert.Contains(t, err.Error(), "403")
}

func TestVideo_NoAPIKey(t *testing.T) {
	_, err := NewClient("http://unused", "", 0, nil).Video(context.Background(), "abc123")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestVideo_TruncatedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "200")
		_, _ = w.Write([]byte(`{"items":[{"id":"abc123",`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k", 0, nil).Video(context.Background(), "abc123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "读取响应失败")
	assert.NotContains(t, err.Error(), "解析响应失败")
}
