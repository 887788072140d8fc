package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kirillkom/docsight/internal/core/domain"
)

const getFolderByPathQuery = `
SELECT id, name, path, parent_id, created_at, modified_at
FROM folders
WHERE path = $1`

const folderSubtreeQuery = `
WITH RECURSIVE subtree AS (
	SELECT id, 0 AS depth FROM folders WHERE id = $1
	UNION ALL
	SELECT f.id, s.depth + 1 FROM folders f JOIN subtree s ON f.parent_id = s.id
)
SELECT id FROM subtree ORDER BY depth DESC`

func (s *Store) GetFolderByPath(ctx context.Context, path string) (*domain.Folder, error) {
	var (
		folder   domain.Folder
		parentID sql.NullString
	)
	err := s.db.QueryRowContext(ctx, getFolderByPathQuery, path).Scan(
		&folder.ID, &folder.Name, &folder.Path, &parentID,
		&folder.CreatedAt, &folder.ModifiedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.WrapError(domain.ErrFolderNotFound, "get folder by path "+path, err)
	}
	if err != nil {
		return nil, domain.WrapError(domain.ErrTemporary, "get folder by path "+path, err)
	}
	if parentID.Valid {
		folder.ParentID = &parentID.String
	}
	return &folder, nil
}

// DeleteFolder removes a folder together with its whole subtree and every
// document inside it. Children go before parents so the self-referencing
// foreign key is never violated mid-transaction.
func (s *Store) DeleteFolder(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.WrapError(domain.ErrTemporary, "begin folder delete tx", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(ctx, folderSubtreeQuery, id)
	if err != nil {
		return domain.WrapError(domain.ErrTemporary, "collect folder subtree "+id, err)
	}

	var subtree []string
	for rows.Next() {
		var folderID string
		if err := rows.Scan(&folderID); err != nil {
			rows.Close()
			return domain.WrapError(domain.ErrTemporary, "scan subtree row", err)
		}
		subtree = append(subtree, folderID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return domain.WrapError(domain.ErrTemporary, "iterate subtree rows", err)
	}
	rows.Close()

	if len(subtree) == 0 {
		return domain.WrapError(domain.ErrFolderNotFound, "delete folder "+id, sql.ErrNoRows)
	}

	for _, folderID := range subtree {
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE folder_id = $1`, folderID); err != nil {
			return domain.WrapError(domain.ErrTemporary, "delete documents in "+folderID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE id = $1`, folderID); err != nil {
			return domain.WrapError(domain.ErrTemporary, "delete folder "+folderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(domain.ErrTemporary, "commit folder delete tx", err)
	}
	return nil
}
