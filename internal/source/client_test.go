package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/codequest-platform/backend/internal/domain"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&Config{
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
	}, zap.NewNop())
}

func TestClient_FetchProblems(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/problems", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"problems":[
				{"id":"two-sum","title":"Two Sum","statement":"Find two numbers...","rating":900,"tags":["arrays"]},
				{"id":"","title":"Broken","statement":"","rating":100}
			]}`))
		}))
		defer server.Close()

		problems, err := newTestClient(server.URL).FetchProblems(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, problems, 2)
		assert.True(t, problems[0].WellFormed())
		assert.False(t, problems[1].WellFormed())
		assert.Equal(t, "two-sum", problems[0].ID)
		assert.Equal(t, 900, problems[0].Rating)
	})

	t.Run("CategoryFilterPassedAsQuery", func(t *testing.T) {
		var gotTag string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotTag = r.URL.Query().Get("tag")
			w.Write([]byte(`{"problems":[]}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchProblems(context.Background(), "dynamic programming")
		require.NoError(t, err)
		assert.Equal(t, "dynamic programming", gotTag)
	})

	t.Run("NonOKStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchProblems(context.Background(), "")
		assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"problems": [not json`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchProblems(context.Background(), "")
		assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	})

	t.Run("Unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // refuse connections

		_, err := newTestClient(server.URL).FetchProblems(context.Background(), "")
		assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	})

	t.Run("ContextCancelled", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(`{"problems":[]}`))
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := newTestClient(server.URL).FetchProblems(ctx, "")
		assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	})
}
