package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lorekeep/lorekeep/internal/domain"
	"github.com/lorekeep/lorekeep/internal/telemetry"
)

// NodeRepositoryInterface defines the repository interface for node persistence
type NodeRepositoryInterface interface {
	Create(ctx context.Context, n *domain.Node) error
	GetByID(ctx context.Context, id string) (*domain.Node, error)
	ListAll(ctx context.Context) ([]*domain.Node, error)
	UpdateContent(ctx context.Context, id, content string) error
	UpdateTitle(ctx context.Context, id, title string) error
	DeleteByIDs(ctx context.Context, ids []string) error
	Search(ctx context.Context, query string) ([]*domain.Node, error)
}

// TxRepositories exposes repositories bound to a single transaction.
type TxRepositories interface {
	Nodes() NodeRepositoryInterface
}

// TxRunnerInterface runs a function inside a store transaction.
type TxRunnerInterface interface {
	WithTx(ctx context.Context, fn func(repos TxRepositories) error) error
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// NodeService orchestrates the node lifecycle: tree queries, content
// read/write, create, rename, cascading delete, and search. It holds no
// state between calls; every operation re-reads from the store.
type NodeService struct {
	nodeRepo NodeRepositoryInterface
	txRunner TxRunnerInterface
	uuidGen  UUIDGenerator
}

// NewNodeService creates a new NodeService instance
func NewNodeService(nodeRepo NodeRepositoryInterface, txRunner TxRunnerInterface) *NodeService {
	return &NodeService{
		nodeRepo: nodeRepo,
		txRunner: txRunner,
		uuidGen:  &DefaultUUIDGenerator{},
	}
}

// NewNodeServiceWithUUIDGen creates a new NodeService with custom UUID generator (for testing)
func NewNodeServiceWithUUIDGen(nodeRepo NodeRepositoryInterface, txRunner TxRunnerInterface, uuidGen UUIDGenerator) *NodeService {
	return &NodeService{
		nodeRepo: nodeRepo,
		txRunner: txRunner,
		uuidGen:  uuidGen,
	}
}

// GetTree reconstructs the nested forest from a fresh full scan.
func (s *NodeService) GetTree(ctx context.Context) ([]*domain.NodeView, error) {
	ctx, span := telemetry.StartSpan(ctx, "NodeService.GetTree", telemetry.SpanAttributes{
		Operation: "tree",
	})
	defer span.End()

	nodes, err := s.nodeRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	return domain.BuildForest(nodes), nil
}

// ReadContent returns the content of a node. Containers and docs whose
// content was never set read as the empty string.
func (s *NodeService) ReadContent(ctx context.Context, id string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "NodeService.ReadContent", telemetry.SpanAttributes{
		NodeID:    id,
		Operation: "read",
	})
	defer span.End()

	node, err := s.nodeRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if node.Content == nil {
		return "", nil
	}
	return *node.Content, nil
}

// SaveContent overwrites a node's content unconditionally. There is no type
// check: writing content to a container is accepted, matching the store
// semantics the frontend relies on.
func (s *NodeService) SaveContent(ctx context.Context, id, content string) error {
	ctx, span := telemetry.StartSpan(ctx, "NodeService.SaveContent", telemetry.SpanAttributes{
		NodeID:    id,
		Operation: "save",
	})
	defer span.End()

	return s.nodeRepo.UpdateContent(ctx, id, content)
}

// Create persists a new node with a generated id and a created-at timestamp
// in epoch milliseconds. Docs start with empty content; containers carry
// none. The parent is not validated: referential integrity is maintained by
// callers only ever passing ids of existing containers.
func (s *NodeService) Create(ctx context.Context, parentID string, nodeType domain.NodeType, title string) (*domain.Node, error) {
	ctx, span := telemetry.StartSpan(ctx, "NodeService.Create", telemetry.SpanAttributes{
		ParentID:  parentID,
		Operation: "create",
	})
	defer span.End()

	var content *string
	if nodeType == domain.NodeTypeDoc {
		empty := ""
		content = &empty
	}

	node := domain.NewNode(s.uuidGen.NewString(), parentID, nodeType, title, content, time.Now().UnixMilli())

	if err := domain.ValidateNode(node); err != nil {
		return nil, err
	}

	if err := s.nodeRepo.Create(ctx, node); err != nil {
		return nil, err
	}

	return node, nil
}

// Rename overwrites a node's title and returns the updated node.
func (s *NodeService) Rename(ctx context.Context, id, title string) (*domain.Node, error) {
	ctx, span := telemetry.StartSpan(ctx, "NodeService.Rename", telemetry.SpanAttributes{
		NodeID:    id,
		Operation: "rename",
	})
	defer span.End()

	if err := s.nodeRepo.UpdateTitle(ctx, id, title); err != nil {
		return nil, err
	}

	return s.nodeRepo.GetByID(ctx, id)
}

// Delete removes the node and its entire subtree. The closure is computed
// over a full scan and removed within a single transaction, so the store
// never exposes a partially deleted subtree. Deleting an absent id is a
// no-op, which makes the operation idempotent.
func (s *NodeService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "NodeService.Delete", telemetry.SpanAttributes{
		NodeID:    id,
		Operation: "delete",
	})
	defer span.End()

	return s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
		nodes, err := repos.Nodes().ListAll(ctx)
		if err != nil {
			return err
		}

		idSet := domain.SubtreeIDs(nodes, id)
		ids := make([]string, 0, len(idSet))
		for nodeID := range idSet {
			ids = append(ids, nodeID)
		}

		return repos.Nodes().DeleteByIDs(ctx, ids)
	})
}

// Search returns flat nodes whose title or content contains query as a
// case-sensitive substring. An empty query returns no results.
func (s *NodeService) Search(ctx context.Context, query string) ([]*domain.Node, error) {
	ctx, span := telemetry.StartSpan(ctx, "NodeService.Search", telemetry.SpanAttributes{
		Operation: "search",
	})
	defer span.End()

	if query == "" {
		return []*domain.Node{}, nil
	}

	return s.nodeRepo.Search(ctx, query)
}
