package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/manga", r.URL.Path)
		assert.Equal(t, "naruto", r.URL.Query().Get("title"))
		w.Write([]byte(`{"result":"ok"}`))
	}))
	defer server.Close()

	var out struct {
		Result string `json:"result"`
	}
	err := NewAPI(server.URL).Get(context.Background(), "/manga", url.Values{"title": {"naruto"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Result)
}

func TestAPIPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"echo":"` + body["query"] + `"}`))
	}))
	defer server.Close()

	var out struct {
		Echo string `json:"echo"`
	}
	err := NewAPI(server.URL).Post(context.Background(), "/graphql", map[string]string{"query": "q"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "q", out.Echo)
}

func TestAPIBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	var out map[string]any
	err := NewAPI(server.URL).Get(context.Background(), "/missing", nil, &out)
	assert.ErrorContains(t, err, "404")
}
