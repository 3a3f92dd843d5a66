package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenAPIDocument(t *testing.T) {
	req := require.New(t)

	body, err := OpenAPIDocument("/api/v1")
	req.NoError(err)

	var doc map[string]any
	req.NoError(json.Unmarshal(body, &doc))
	req.Equal("3.0.3", doc["openapi"])
	req.Equal([]any{map[string]any{"url": "/api/v1"}}, doc["servers"])

	paths := doc["paths"].(map[string]any)
	for _, p := range []string{"/healthcheck", "/messages", "/messages/{id}"} {
		req.Contains(paths, p)
	}

	item := paths["/messages/{id}"].(map[string]any)
	responses := item["delete"].(map[string]any)["responses"].(map[string]any)
	req.Contains(responses, "204")
}

func TestStringKeys(t *testing.T) {
	in := map[string]any{
		"responses": map[any]any{200: "ok", "default": []any{map[any]any{true: 1}}},
	}
	out := stringKeys(in)

	_, err := json.Marshal(out)
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"responses": map[string]any{"200": "ok", "default": []any{map[string]any{"true": 1}}},
	}, out)
}

func TestSwaggerEndpoints(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	w := ts.do(http.MethodGet, "/api/v1/swagger.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "application/json")
	require.True(t, json.Valid(w.Body.Bytes()))

	w = ts.do(http.MethodGet, "/api/v1/docs", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/html")
	require.Contains(t, w.Body.String(), `"/api/v1/swagger.json"`)
}
