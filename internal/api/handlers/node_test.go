package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lorekeep/lorekeep/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNodeStore struct {
	mock.Mock
}

func (m *MockNodeStore) GetTree(ctx context.Context) ([]*domain.NodeView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.NodeView), args.Error(1)
}

func (m *MockNodeStore) ReadContent(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockNodeStore) SaveContent(ctx context.Context, id, content string) error {
	args := m.Called(ctx, id, content)
	return args.Error(0)
}

func (m *MockNodeStore) Create(ctx context.Context, parentID string, nodeType domain.NodeType, title string) (*domain.Node, error) {
	args := m.Called(ctx, parentID, nodeType, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Node), args.Error(1)
}

func (m *MockNodeStore) Rename(ctx context.Context, id, title string) (*domain.Node, error) {
	args := m.Called(ctx, id, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Node), args.Error(1)
}

func (m *MockNodeStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNodeStore) Search(ctx context.Context, query string) ([]*domain.Node, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Node), args.Error(1)
}

func requestWithNodeID(method, url, id string, body []byte) *http.Request {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("*", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func strPtr(s string) *string {
	return &s
}

func TestNodeHandler_Tree(t *testing.T) {
	mockStore := new(MockNodeStore)
	handler := NewNodeHandler(mockStore)

	parentID := "kb-1"
	forest := []*domain.NodeView{
		{
			ID: "kb-1", Title: "Root", Type: domain.NodeTypeKB, CreatedAt: 1000,
			Children: []*domain.NodeView{
				{ID: "doc-1", ParentID: &parentID, Title: "Page", Type: domain.NodeTypeDoc, CreatedAt: 2000},
			},
		},
	}
	mockStore.On("GetTree", mock.Anything).Return(forest, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/kb", nil)
	w := httptest.NewRecorder()
	handler.Tree(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "kb-1", decoded[0]["id"])
	children, ok := decoded[0]["children"].([]interface{})
	require.True(t, ok)
	require.Len(t, children, 1)
}

func TestNodeHandler_Tree_StoreError(t *testing.T) {
	mockStore := new(MockNodeStore)
	handler := NewNodeHandler(mockStore)

	mockStore.On("GetTree", mock.Anything).Return(nil, assert.AnError)

	w := httptest.NewRecorder()
	handler.Tree(w, httptest.NewRequest(http.MethodGet, "/api/kb", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestNodeHandler_ReadContent(t *testing.T) {
	mockStore := new(MockNodeStore)
	handler := NewNodeHandler(mockStore)

	mockStore.On("ReadContent", mock.Anything, "doc-1").Return("hello", nil)

	w := httptest.NewRecorder()
	handler.ReadContent(w, requestWithNodeID(http.MethodGet, "/api/files/doc-1", "doc-1", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp ContentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "hello", resp.Content)
}

func TestNodeHandler_ReadContent_NotFound(t *testing.T) {
	mockStore := new(MockNodeStore)
	handler := NewNodeHandler(mockStore)

	mockStore.On("ReadContent", mock.Anything, "ghost").Return("", domain.ErrNodeNotFound)

	w := httptest.NewRecorder()
	handler.ReadContent(w, requestWithNodeID(http.MethodGet, "/api/files/ghost", "ghost", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNodeHandler_SaveContent(t *testing.T) {
	mockStore := new(MockNodeStore)
	handler := NewNodeHandler(mockStore)

	mockStore.On("SaveContent", mock.Anything, "doc-1", "new body").Return(nil)

	body := `{"content":"new body"}`
	w := httptest.NewRecorder()
	handler.SaveContent(w, requestWithNodeID(http.MethodPost, "/api/files/doc-1", "doc-1", []byte(body)))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestNodeHandler_SaveContent_InvalidBody(t *testing.T) {
	mockStore := new(MockNodeStore)
	handler := NewNodeHandler(mockStore)

	w := httptest.NewRecorder()
	handler.SaveContent(w, requestWithNodeID(http.MethodPost, "/api/files/doc-1", "doc-1", []byte("{not json")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockStore.AssertNotCalled(t, "SaveContent")
}

func TestNodeHandler_Create(t *testing.T) {
	mockStore := new(MockNodeStore)
	handler := NewNodeHandler(mockStore)

	created := &domain.Node{
		ID: "new-id", ParentID: "kb-1", Type: domain.NodeTypeDoc,
		Title: "Page", Content: strPtr(""), CreatedAt: 1700000000000,
	}
	mockStore.On("Create", mock.Anything, "kb-1", domain.NodeTypeDoc, "Page").Return(created, nil)

	body := `{"parentId":"kb-1","title":"Page","type":"doc"}`
	req := httptest.NewRequest(http.MethodPost, "/api/create", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()
	handler.Create(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp NodeSuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Node)
	assert.Equal(t, "new-id", resp.Node.ID)
	require.NotNil(t, resp.Node.ParentID)
	assert.Equal(t, "kb-1", *resp.Node.ParentID)
	assert.Equal(t, int64(1700000000000), resp.Node.CreatedAt)
}

func TestNodeHandler_Create_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing title", body: `{"type":"doc"}`},
		{name: "missing type", body: `{"title":"Page"}`},
		{name: "invalid type", body: `{"title":"Page","type":"page"}`},
		{name: "malformed body", body: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := new(MockNodeStore)
			handler := NewNodeHandler(mockStore)

			req := httptest.NewRequest(http.MethodPost, "/api/create", bytes.NewReader([]byte(tt.body)))
			w := httptest.NewRecorder()
			handler.Create(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			mockStore.AssertNotCalled(t, "Create")
		})
	}
}

func TestNodeHandler_Rename(t *testing.T) {
	mockStore := new(MockNodeStore)
	handler := NewNodeHandler(mockStore)

	renamed := &domain.Node{ID: "n1", Type: domain.NodeTypeFolder, Title: "Renamed", CreatedAt: 5}
	mockStore.On("Rename", mock.Anything, "n1", "Renamed").Return(renamed, nil)

	body := `{"title":"Renamed"}`
	w := httptest.NewRecorder()
	handler.Rename(w, requestWithNodeID(http.MethodPost, "/api/rename/n1", "n1", []byte(body)))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp NodeSuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Renamed", resp.Node.Title)
	assert.Nil(t, resp.Node.ParentID)
}

func TestNodeHandler_Rename_NotFound(t *testing.T) {
	mockStore := new(MockNodeStore)
	handler := NewNodeHandler(mockStore)

	mockStore.On("Rename", mock.Anything, "ghost", "x").Return(nil, domain.ErrNodeNotFound)

	body := `{"title":"x"}`
	w := httptest.NewRecorder()
	handler.Rename(w, requestWithNodeID(http.MethodPost, "/api/rename/ghost", "ghost", []byte(body)))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNodeHandler_Delete(t *testing.T) {
	mockStore := new(MockNodeStore)
	handler := NewNodeHandler(mockStore)

	mockStore.On("Delete", mock.Anything, "n1").Return(nil)

	w := httptest.NewRecorder()
	handler.Delete(w, requestWithNodeID(http.MethodPost, "/api/delete/n1", "n1", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestNodeHandler_Delete_AccessDenied(t *testing.T) {
	mockStore := new(MockNodeStore)
	handler := NewNodeHandler(mockStore)

	mockStore.On("Delete", mock.Anything, "../escape").Return(domain.ErrAccessDenied)

	w := httptest.NewRecorder()
	handler.Delete(w, requestWithNodeID(http.MethodPost, "/api/delete/..%2Fescape", "../escape", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestNodeHandler_Search(t *testing.T) {
	mockStore := new(MockNodeStore)
	handler := NewNodeHandler(mockStore)

	results := []*domain.Node{
		{ID: "d1", ParentID: "kb-1", Type: domain.NodeTypeDoc, Title: "Test Doc", Content: strPtr("hello world"), CreatedAt: 9},
	}
	mockStore.On("Search", mock.Anything, "world").Return(results, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=world", nil)
	w := httptest.NewRecorder()
	handler.Search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []*NodeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "d1", resp[0].ID)
	require.NotNil(t, resp[0].Content)
	assert.Equal(t, "hello world", *resp[0].Content)
}

func TestNodeHandler_Search_EmptyQuery(t *testing.T) {
	mockStore := new(MockNodeStore)
	handler := NewNodeHandler(mockStore)

	mockStore.On("Search", mock.Anything, "").Return([]*domain.Node{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	w := httptest.NewRecorder()
	handler.Search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}
