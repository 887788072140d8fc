// Package walker enumerates a directory tree into an in-memory description
// with no side effects; persistence happens in a later phase.
package walker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/kirillkom/docsight/internal/core/domain"
	"github.com/kirillkom/docsight/internal/core/ports"
)

// Names that are OS litter rather than user documents.
var skippedNames = map[string]struct{}{
	".DS_Store":   {},
	"Thumbs.db":   {},
	"desktop.ini": {},
}

type Walker struct{}

func New() *Walker {
	return &Walker{}
}

// Walk enumerates root depth-first in lexicographic per-directory order.
// Hidden entries, OS artifacts and symlinks are skipped. A failure on one
// entry is logged and skipped; only a missing or unreadable root aborts.
func (w *Walker) Walk(ctx context.Context, root string) (*ports.WalkedFolder, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.WrapError(domain.ErrFolderNotFound, "stat scan root", err)
		}
		return nil, fmt.Errorf("stat scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "walk", fmt.Errorf("%s is not a directory", root))
	}
	return w.walkDir(ctx, root)
}

func (w *Walker) walkDir(ctx context.Context, dir string) (*ports.WalkedFolder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	node := &ports.WalkedFolder{
		Name: filepath.Base(dir),
		Path: dir,
	}

	// os.ReadDir returns entries sorted by name, which pins the
	// deterministic order per run.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if skipEntry(name) {
			continue
		}
		entryPath := filepath.Join(dir, name)

		// DirEntry types come from lstat, so symlinks are neither
		// regular files nor directories here and fall through.
		switch {
		case entry.IsDir():
			sub, err := w.walkDir(ctx, entryPath)
			if err != nil {
				if ctx.Err() != nil {
					return nil, err
				}
				slog.Warn("walk_subfolder_skipped", "path", entryPath, "error", err)
				continue
			}
			node.Subfolders = append(node.Subfolders, sub)
		case entry.Type().IsRegular():
			file, err := fileEntry(entryPath, name, entry)
			if err != nil {
				slog.Warn("walk_entry_skipped", "path", entryPath, "error", err)
				continue
			}
			node.Files = append(node.Files, file)
		default:
			slog.Debug("walk_irregular_entry_skipped", "path", entryPath, "mode", entry.Type().String())
		}
	}
	return node, nil
}

func fileEntry(path, name string, entry os.DirEntry) (ports.FileEntry, error) {
	info, err := entry.Info()
	if err != nil {
		return ports.FileEntry{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return ports.FileEntry{
		Name:       name,
		Path:       path,
		Size:       info.Size(),
		CreatedAt:  createdAt(info),
		ModifiedAt: info.ModTime().UTC(),
	}, nil
}

func skipEntry(name string) bool {
	if len(name) > 0 && name[0] == '.' {
		return true
	}
	_, skip := skippedNames[name]
	return skip
}

// createdAt falls back to the modification time on filesystems that do not
// expose a birth time.
func createdAt(info fs.FileInfo) time.Time {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		ctime := time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec)
		if !ctime.IsZero() {
			return ctime.UTC()
		}
	}
	return info.ModTime().UTC()
}
