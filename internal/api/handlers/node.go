package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorekeep/lorekeep/internal/api"
	"github.com/lorekeep/lorekeep/internal/domain"
)

// NodeStore is the node lifecycle surface the HTTP layer calls. It is
// satisfied by both the record-store service and the filesystem store.
type NodeStore interface {
	GetTree(ctx context.Context) ([]*domain.NodeView, error)
	ReadContent(ctx context.Context, id string) (string, error)
	SaveContent(ctx context.Context, id, content string) error
	Create(ctx context.Context, parentID string, nodeType domain.NodeType, title string) (*domain.Node, error)
	Rename(ctx context.Context, id, title string) (*domain.Node, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]*domain.Node, error)
}

type NodeHandler struct {
	store NodeStore
}

func NewNodeHandler(store NodeStore) *NodeHandler {
	return &NodeHandler{store: store}
}

type CreateNodeRequest struct {
	ParentID string `json:"parentId"`
	Title    string `json:"title"`
	Type     string `json:"type"`
}

type RenameNodeRequest struct {
	Title string `json:"title"`
}

type SaveContentRequest struct {
	Content string `json:"content"`
}

type ContentResponse struct {
	Content string `json:"content"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type NodeResponse struct {
	ID        string  `json:"id"`
	ParentID  *string `json:"parentId"`
	Title     string  `json:"title"`
	Type      string  `json:"type"`
	Content   *string `json:"content,omitempty"`
	CreatedAt int64   `json:"createdAt"`
}

type NodeSuccessResponse struct {
	Success bool          `json:"success"`
	Node    *NodeResponse `json:"node"`
}

func nodeToResponse(n *domain.Node) *NodeResponse {
	resp := &NodeResponse{
		ID:        n.ID,
		Title:     n.Title,
		Type:      string(n.Type),
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
	}
	if n.ParentID != "" {
		parentID := n.ParentID
		resp.ParentID = &parentID
	}
	return resp
}

// Tree returns the full nested forest.
func (h *NodeHandler) Tree(w http.ResponseWriter, r *http.Request) {
	forest, err := h.store.GetTree(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, forest)
}

// ReadContent returns a node's content.
func (h *NodeHandler) ReadContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "*")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	content, err := h.store.ReadContent(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, ContentResponse{Content: content})
}

// SaveContent overwrites a node's content.
func (h *NodeHandler) SaveContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "*")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	var req SaveContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.store.SaveContent(r.Context(), id, req.Content); err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// Create adds a new node under the given parent.
func (h *NodeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" {
		api.Error(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Type == "" {
		api.Error(w, http.StatusBadRequest, "type is required")
		return
	}

	nodeType := domain.NodeType(req.Type)
	if !domain.IsValidNodeType(nodeType) {
		api.Error(w, http.StatusBadRequest, "invalid node type")
		return
	}

	node, err := h.store.Create(r.Context(), req.ParentID, nodeType, req.Title)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, NodeSuccessResponse{Success: true, Node: nodeToResponse(node)})
}

// Rename overwrites a node's title.
func (h *NodeHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "*")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	var req RenameNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" {
		api.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	node, err := h.store.Rename(r.Context(), id, req.Title)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, NodeSuccessResponse{Success: true, Node: nodeToResponse(node)})
}

// Delete removes a node and its subtree.
func (h *NodeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "*")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// Search returns flat nodes matching the query substring.
func (h *NodeHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	nodes, err := h.store.Search(r.Context(), query)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*NodeResponse, 0, len(nodes))
	for _, n := range nodes {
		responses = append(responses, nodeToResponse(n))
	}

	api.JSON(w, http.StatusOK, responses)
}
