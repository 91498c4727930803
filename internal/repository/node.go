package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorekeep/lorekeep/internal/domain"
)

// dbtx is the subset of pgx operations shared by *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NodeRepository persists Node records in the nodes table.
type NodeRepository struct {
	db dbtx
}

func NewNodeRepository(pool *pgxpool.Pool) *NodeRepository {
	return &NodeRepository{db: pool}
}

func NewNodeRepositoryWithTx(tx pgx.Tx) *NodeRepository {
	return &NodeRepository{db: tx}
}

func (r *NodeRepository) Create(ctx context.Context, n *domain.Node) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO nodes (id, parent_id, type, title, content, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, nullableString(n.ParentID), n.Type, n.Title, n.Content, n.CreatedAt,
	)
	return err
}

func (r *NodeRepository) GetByID(ctx context.Context, id string) (*domain.Node, error) {
	var n domain.Node
	var parentID *string
	err := r.db.QueryRow(ctx,
		`SELECT id, parent_id, type, title, content, created_at
		 FROM nodes WHERE id = $1`,
		id,
	).Scan(&n.ID, &parentID, &n.Type, &n.Title, &n.Content, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNodeNotFound
		}
		return nil, err
	}
	if parentID != nil {
		n.ParentID = *parentID
	}
	return &n, nil
}

// ListAll returns the full record set ordered by (created_at, id), the scan
// order tree construction and search results follow.
func (r *NodeRepository) ListAll(ctx context.Context) ([]*domain.Node, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, parent_id, type, title, content, created_at
		 FROM nodes ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNodeRows(rows)
}

func (r *NodeRepository) UpdateContent(ctx context.Context, id, content string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE nodes SET content = $1 WHERE id = $2`,
		content, id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrNodeNotFound
	}
	return nil
}

func (r *NodeRepository) UpdateTitle(ctx context.Context, id, title string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE nodes SET title = $1 WHERE id = $2`,
		title, id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrNodeNotFound
	}
	return nil
}

// DeleteByIDs removes every listed id. Ids absent from the table are
// tolerated silently, so a repeated delete of the same subtree is a no-op.
func (r *NodeRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx,
		`DELETE FROM nodes WHERE id = ANY($1)`,
		ids,
	)
	return err
}

// Search returns nodes whose title or content contains query as a
// case-sensitive substring, in (created_at, id) order.
func (r *NodeRepository) Search(ctx context.Context, query string) ([]*domain.Node, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, parent_id, type, title, content, created_at
		 FROM nodes
		 WHERE strpos(title, $1) > 0 OR (content IS NOT NULL AND strpos(content, $1) > 0)
		 ORDER BY created_at, id`,
		query,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNodeRows(rows)
}

func scanNodeRows(rows pgx.Rows) ([]*domain.Node, error) {
	results := make([]*domain.Node, 0)
	for rows.Next() {
		var n domain.Node
		var parentID *string
		if err := rows.Scan(&n.ID, &parentID, &n.Type, &n.Title, &n.Content, &n.CreatedAt); err != nil {
			return nil, err
		}
		if parentID != nil {
			n.ParentID = *parentID
		}
		results = append(results, &n)
	}
	return results, rows.Err()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
