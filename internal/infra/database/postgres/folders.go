package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/srirampandi55/Cloudify/internal/domain"
)

const folderColumns = "id, owner_id, name, path, created_at"

func scanFolder(row pgx.Row) (domain.Folder, error) {
	var f domain.Folder
	err := row.Scan(&f.ID, &f.OwnerID, &f.Name, &f.Path, &f.CreatedAt)
	return f, err
}

func (r *PGRepo) CreateFolder(ctx context.Context, f domain.Folder) (domain.Folder, error) {
	q := r.qb().Insert(fmt.Sprintf("%s.folders", r.schema)).
		Columns("id", "owner_id", "name", "path").
		Values(f.ID, f.OwnerID, f.Name, f.Path).
		Suffix("RETURNING " + folderColumns)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateFolder", sqlStr, args)

	start := time.Now()
	out, err := scanFolder(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateFolder scan error after %s: %v", time.Since(start), err)
		return domain.Folder{}, err
	}
	r.logger.Printf("CreateFolder ok in %s id=%s path=%q", time.Since(start), out.ID, out.Path)
	return out, nil
}

func (r *PGRepo) FolderByID(ctx context.Context, id domain.FolderID) (domain.Folder, error) {
	q := r.qb().Select(folderColumns).
		From(fmt.Sprintf("%s.folders", r.schema)).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("FolderByID", sqlStr, args)

	f, err := scanFolder(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Folder{}, domain.ErrNotFound
		}
		return domain.Folder{}, err
	}
	return f, nil
}

func (r *PGRepo) FolderByPath(ctx context.Context, owner domain.UserID, path string) (domain.Folder, error) {
	q := r.qb().Select(folderColumns).
		From(fmt.Sprintf("%s.folders", r.schema)).
		Where(sq.Eq{"owner_id": owner, "path": path})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("FolderByPath", sqlStr, args)

	f, err := scanFolder(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Folder{}, domain.ErrNotFound
		}
		return domain.Folder{}, err
	}
	return f, nil
}

func (r *PGRepo) FoldersByOwner(ctx context.Context, owner domain.UserID) ([]domain.Folder, error) {
	q := r.qb().Select(folderColumns).
		From(fmt.Sprintf("%s.folders", r.schema)).
		Where(sq.Eq{"owner_id": owner}).
		OrderBy("path ASC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("FoldersByOwner", sqlStr, args)

	start := time.Now()
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("FoldersByOwner query error after %s: %v", time.Since(start), err)
		return nil, err
	}
	defer rows.Close()

	var res []domain.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			r.logger.Printf("FoldersByOwner scan error: %v", err)
			return nil, err
		}
		res = append(res, f)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("FoldersByOwner rows error: %v", err)
		return nil, err
	}
	r.logger.Printf("FoldersByOwner ok in %s count=%d", time.Since(start), len(res))
	return res, nil
}
