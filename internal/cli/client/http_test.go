package client

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClient_Get_DecodesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/files/doc-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":"hello"}`))
	}))
	defer server.Close()

	api := NewAPIClientWithConfig(server.URL)

	var resp ContentAPIResponse
	err := api.Get("/api/files/doc-1", &resp)
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
}

func TestAPIClient_Post_SendsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"success":true,"node":{"id":"n-1","parentId":null,"title":"Notes","type":"kb","createdAt":1}}`))
	}))
	defer server.Close()

	api := NewAPIClientWithConfig(server.URL)

	var resp NodeSuccessAPIResponse
	err := api.Post("/api/create", CreateAPIRequest{Title: "Notes", Type: "kb"}, &resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "n-1", resp.Node.ID)
}

func TestAPIClient_ErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"node not found"}`))
	}))
	defer server.Close()

	api := NewAPIClientWithConfig(server.URL)

	err := api.Get("/api/files/ghost", nil)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "node not found", apiErr.Message)
}

func TestAPIClient_ErrorResponse_NonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	api := NewAPIClientWithConfig(server.URL)

	err := api.Get("/api/kb", nil)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestNewAPIClientWithCmd_EnvFallback(t *testing.T) {
	t.Setenv(envAPIURL, "http://example.test:9000")

	api, err := NewAPIClientWithCmd(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://example.test:9000", api.baseURL)
}

func TestNewAPIClientWithCmd_Default(t *testing.T) {
	t.Setenv(envAPIURL, "")

	api, err := NewAPIClientWithCmd(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultAPIURL, api.baseURL)
}

func TestNodePath_EscapesSegmentsKeepsSlashes(t *testing.T) {
	assert.Equal(t, "/api/files/guides/intro.md", nodePath("/api/files", "guides/intro.md"))
	assert.Equal(t, "/api/files/my%20kb/first%20doc.md", nodePath("/api/files", "my kb/first doc.md"))
}
