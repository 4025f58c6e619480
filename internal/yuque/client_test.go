package yuque

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(server *httptest.Server, catalogUUID string) *Client {
	return NewClient(Config{
		Token:       "token123",
		Namespace:   "me/books",
		CatalogUUID: catalogUUID,
		APIURL:      server.URL,
	})
}

func TestGetUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		assert.Equal(t, "token123", r.Header.Get("X-Auth-Token"))
		w.Write([]byte(`{"data":{"id":1,"login":"me","name":"Me"}}`))
	}))
	defer server.Close()

	user, err := newTestClient(server, "").GetUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "me", user.Login)
}

func TestGetUserInvalidToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(server, "").GetUser(context.Background())
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGetCatalogs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/me/books/toc", r.URL.Path)
		w.Write([]byte(`{"data":[
			{"id":1,"title":"Reading","type":"TITLE","uuid":"cat-1"},
			{"id":2,"title":"Some Doc","type":"DOC","uuid":"doc-1"}
		]}`))
	}))
	defer server.Close()

	catalogs, err := newTestClient(server, "").GetCatalogs(context.Background())
	require.NoError(t, err)
	require.Len(t, catalogs, 1)
	assert.Equal(t, "Reading", catalogs[0].Title)
	assert.Equal(t, "cat-1", catalogs[0].UUID)
}

func TestGetDocument(t *testing.T) {
	t.Run("missing document is nil, not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		doc, err := newTestClient(server, "").GetDocument(context.Background(), "b1")
		require.NoError(t, err)
		assert.Nil(t, doc)
	})
}

// publishRecorder simulates the document endpoints well enough to follow
// the upsert flow.
type publishRecorder struct {
	existing     *Document
	updateStatus int
	calls        []string
}

func (p *publishRecorder) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		p.calls = append(p.calls, key)

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/repos/me/books/docs/b1":
			if p.existing == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"data": p.existing})

		case r.Method == http.MethodPost && r.URL.Path == "/repos/me/books/docs":
			json.NewEncoder(w).Encode(map[string]any{"data": Document{ID: 42, Slug: "b1"}})

		case r.Method == http.MethodPut && r.URL.Path == "/repos/me/books/toc":
			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "appendByDocs", payload["action"])
			w.Write([]byte(`{"data":[]}`))

		case r.Method == http.MethodPut && r.URL.Path == "/repos/me/books/docs/7":
			status := p.updateStatus
			if status == 0 {
				status = http.StatusOK
			}
			w.WriteHeader(status)
			if status == http.StatusOK {
				w.Write([]byte(`{"data":{}}`))
			}

		case r.Method == http.MethodDelete && r.URL.Path == "/repos/me/books/docs/7":
			w.Write([]byte(`{"data":{}}`))

		default:
			t.Errorf("unexpected request: %s", key)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}

func TestPublish(t *testing.T) {
	t.Run("creates when the document does not exist", func(t *testing.T) {
		rec := &publishRecorder{}
		server := httptest.NewServer(rec.handler(t))
		defer server.Close()

		err := newTestClient(server, "cat-1").Publish(context.Background(), "b1", "A Book", "# body")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"GET /repos/me/books/docs/b1",
			"POST /repos/me/books/docs",
			"PUT /repos/me/books/toc",
		}, rec.calls)
	})

	t.Run("updates in place when the document exists", func(t *testing.T) {
		rec := &publishRecorder{existing: &Document{ID: 7, Slug: "b1"}}
		server := httptest.NewServer(rec.handler(t))
		defer server.Close()

		err := newTestClient(server, "").Publish(context.Background(), "b1", "A Book", "# body")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"GET /repos/me/books/docs/b1",
			"PUT /repos/me/books/docs/7",
		}, rec.calls)
	})

	t.Run("recreates the document when the update is rejected with 400", func(t *testing.T) {
		rec := &publishRecorder{
			existing:     &Document{ID: 7, Slug: "b1"},
			updateStatus: http.StatusBadRequest,
		}
		server := httptest.NewServer(rec.handler(t))
		defer server.Close()

		err := newTestClient(server, "").Publish(context.Background(), "b1", "A Book", "# body")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"GET /repos/me/books/docs/b1",
			"PUT /repos/me/books/docs/7",
			"DELETE /repos/me/books/docs/7",
			"POST /repos/me/books/docs",
			"PUT /repos/me/books/toc",
		}, rec.calls)
	})
}
