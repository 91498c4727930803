// Package storage provides the filesystem-backed node store: a plain
// directory tree mirroring the knowledge-base forest, where a node's id is
// its path relative to the configured root.
package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/lorekeep/lorekeep/internal/domain"
	"github.com/lorekeep/lorekeep/internal/telemetry"
)

const docExtension = ".md"

// FileSystemStore serves the node lifecycle from a directory tree instead of
// the record store. Top-level directories are knowledge bases, nested
// directories are folders, and *.md files are docs. Every operation re-scans
// the filesystem; no state is cached between calls.
type FileSystemStore struct {
	root string
}

// NewFileSystemStore creates the store rooted at root, creating the
// directory if it does not exist.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %q: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create root %q: %w", abs, err)
	}
	return &FileSystemStore{root: abs}, nil
}

// resolve maps a node id (slash-separated relative path) to an absolute path
// under the root. Paths escaping the root are a security violation.
func (s *FileSystemStore) resolve(id string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(id))
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", domain.ErrAccessDenied
	}
	return full, nil
}

// GetTree scans the directory tree and returns the nested forest. Entries
// whose name starts with a dot are skipped; sibling order is directory name
// order.
func (s *FileSystemStore) GetTree(ctx context.Context) ([]*domain.NodeView, error) {
	_, span := telemetry.StartSpan(ctx, "FileSystemStore.GetTree", telemetry.SpanAttributes{
		Operation: "tree",
		Backend:   "filesystem",
	})
	defer span.End()

	return s.scanDirectory(s.root, "")
}

func (s *FileSystemStore) scanDirectory(dir, parentID string) ([]*domain.NodeView, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %q: %w", dir, err)
	}

	views := make([]*domain.NodeView, 0)
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		id := path.Join(parentID, entry.Name())
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", id, err)
		}

		view := &domain.NodeView{
			ID:        id,
			ParentID:  nullableID(parentID),
			CreatedAt: info.ModTime().UnixMilli(),
		}

		switch {
		case entry.IsDir():
			view.Title = entry.Name()
			// Top-level directories are knowledge bases
			if parentID == "" {
				view.Type = domain.NodeTypeKB
			} else {
				view.Type = domain.NodeTypeFolder
			}
			children, err := s.scanDirectory(filepath.Join(dir, entry.Name()), id)
			if err != nil {
				return nil, err
			}
			view.Children = children
		case strings.HasSuffix(entry.Name(), docExtension):
			view.Title = strings.TrimSuffix(entry.Name(), docExtension)
			view.Type = domain.NodeTypeDoc
		default:
			continue
		}

		views = append(views, view)
	}
	return views, nil
}

// ReadContent returns a doc's file content. Directories read as the empty
// string, matching container semantics of the record store.
func (s *FileSystemStore) ReadContent(ctx context.Context, id string) (string, error) {
	_, span := telemetry.StartSpan(ctx, "FileSystemStore.ReadContent", telemetry.SpanAttributes{
		NodeID:    id,
		Operation: "read",
		Backend:   "filesystem",
	})
	defer span.End()

	full, err := s.resolve(id)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(full)
	if os.IsNotExist(err) {
		return "", domain.ErrNodeNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat %q: %w", id, err)
	}
	if info.IsDir() {
		return "", nil
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", id, err)
	}
	return string(data), nil
}

// SaveContent overwrites a doc's file content.
func (s *FileSystemStore) SaveContent(ctx context.Context, id, content string) error {
	_, span := telemetry.StartSpan(ctx, "FileSystemStore.SaveContent", telemetry.SpanAttributes{
		NodeID:    id,
		Operation: "save",
		Backend:   "filesystem",
	})
	defer span.End()

	full, err := s.resolve(id)
	if err != nil {
		return err
	}

	if _, err := os.Stat(full); os.IsNotExist(err) {
		return domain.ErrNodeNotFound
	}

	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", id, err)
	}
	return nil
}

// Create makes a directory for containers or an empty *.md file for docs.
// The new node's id is its relative path, so identity and location are the
// same string.
func (s *FileSystemStore) Create(ctx context.Context, parentID string, nodeType domain.NodeType, title string) (*domain.Node, error) {
	_, span := telemetry.StartSpan(ctx, "FileSystemStore.Create", telemetry.SpanAttributes{
		ParentID:  parentID,
		Operation: "create",
		Backend:   "filesystem",
	})
	defer span.End()

	if !domain.IsValidNodeType(nodeType) {
		return nil, domain.ErrInvalidNodeType
	}
	if title == "" {
		return nil, domain.ErrMissingRequiredField
	}

	name := title
	if nodeType == domain.NodeTypeDoc && !strings.HasSuffix(name, docExtension) {
		name += docExtension
	}
	id := path.Join(parentID, name)

	full, err := s.resolve(id)
	if err != nil {
		return nil, err
	}

	var content *string
	if nodeType == domain.NodeTypeDoc {
		if err := os.WriteFile(full, nil, 0o644); err != nil {
			return nil, fmt.Errorf("failed to create doc %q: %w", id, err)
		}
		empty := ""
		content = &empty
	} else {
		if err := os.MkdirAll(full, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create container %q: %w", id, err)
		}
	}

	info, err := os.Stat(full)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", id, err)
	}

	return domain.NewNode(id, parentID, nodeType, title, content, info.ModTime().UnixMilli()), nil
}

// Rename moves the entry to a sibling path carrying the new title. Since ids
// are paths, renaming changes the node's id (and its descendants' ids).
func (s *FileSystemStore) Rename(ctx context.Context, id, title string) (*domain.Node, error) {
	_, span := telemetry.StartSpan(ctx, "FileSystemStore.Rename", telemetry.SpanAttributes{
		NodeID:    id,
		Operation: "rename",
		Backend:   "filesystem",
	})
	defer span.End()

	full, err := s.resolve(id)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(full)
	if os.IsNotExist(err) {
		return nil, domain.ErrNodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", id, err)
	}

	name := title
	nodeType := s.typeOf(id, info.IsDir())
	if nodeType == domain.NodeTypeDoc && !strings.HasSuffix(name, docExtension) {
		name += docExtension
	}

	parentID := path.Dir(id)
	if parentID == "." {
		parentID = ""
	}
	newID := path.Join(parentID, name)

	newFull, err := s.resolve(newID)
	if err != nil {
		return nil, err
	}
	if err := os.Rename(full, newFull); err != nil {
		return nil, fmt.Errorf("failed to rename %q: %w", id, err)
	}

	var content *string
	if nodeType == domain.NodeTypeDoc {
		data, err := os.ReadFile(newFull)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", newID, err)
		}
		body := string(data)
		content = &body
	}

	return domain.NewNode(newID, parentID, nodeType, title, content, info.ModTime().UnixMilli()), nil
}

// Delete removes the entry and, for directories, everything beneath it: the
// directory tree is the cascade. Deleting an absent id is a no-op. The root
// itself is never a node and cannot be deleted.
func (s *FileSystemStore) Delete(ctx context.Context, id string) error {
	_, span := telemetry.StartSpan(ctx, "FileSystemStore.Delete", telemetry.SpanAttributes{
		NodeID:    id,
		Operation: "delete",
		Backend:   "filesystem",
	})
	defer span.End()

	if id == "" || id == "." {
		return domain.ErrAccessDenied
	}

	full, err := s.resolve(id)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(full); err != nil {
		return fmt.Errorf("failed to delete %q: %w", id, err)
	}
	return nil
}

// Search walks the tree and returns flat nodes whose title or content
// contains query as a case-sensitive substring. An empty query returns no
// results. Results follow lexical walk order.
func (s *FileSystemStore) Search(ctx context.Context, query string) ([]*domain.Node, error) {
	_, span := telemetry.StartSpan(ctx, "FileSystemStore.Search", telemetry.SpanAttributes{
		Operation: "search",
		Backend:   "filesystem",
	})
	defer span.End()

	results := make([]*domain.Node, 0)
	if query == "" {
		return results, nil
	}

	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == s.root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		node, err := s.nodeAt(p, d)
		if err != nil {
			return err
		}
		if node != nil && node.MatchesQuery(query) {
			results = append(results, node)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	return results, nil
}

// nodeAt materializes the flat node record for a filesystem entry, reading
// content for docs. Non-markdown files are not nodes.
func (s *FileSystemStore) nodeAt(p string, d fs.DirEntry) (*domain.Node, error) {
	rel, err := filepath.Rel(s.root, p)
	if err != nil {
		return nil, err
	}
	id := filepath.ToSlash(rel)

	parentID := path.Dir(id)
	if parentID == "." {
		parentID = ""
	}

	info, err := d.Info()
	if err != nil {
		return nil, err
	}

	if d.IsDir() {
		nodeType := domain.NodeTypeFolder
		if parentID == "" {
			nodeType = domain.NodeTypeKB
		}
		return domain.NewNode(id, parentID, nodeType, d.Name(), nil, info.ModTime().UnixMilli()), nil
	}

	if !strings.HasSuffix(d.Name(), docExtension) {
		return nil, nil
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	body := string(data)
	title := strings.TrimSuffix(d.Name(), docExtension)
	return domain.NewNode(id, parentID, domain.NodeTypeDoc, title, &body, info.ModTime().UnixMilli()), nil
}

func (s *FileSystemStore) typeOf(id string, isDir bool) domain.NodeType {
	if !isDir {
		return domain.NodeTypeDoc
	}
	if !strings.Contains(id, "/") {
		return domain.NodeTypeKB
	}
	return domain.NodeTypeFolder
}

func nullableID(parentID string) *string {
	if parentID == "" {
		return nil
	}
	return &parentID
}
