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

const fileColumns = "id, owner_id, name, mime_type, size_bytes, folder_id, access, share_token, storage_path, created_at, updated_at"

func scanFile(row pgx.Row) (domain.File, error) {
	var f domain.File
	err := row.Scan(
		&f.ID, &f.OwnerID, &f.Name, &f.MIME, &f.SizeBytes, &f.FolderID,
		&f.Access, &f.ShareToken, &f.StoragePath, &f.CreatedAt, &f.UpdatedAt,
	)
	return f, err
}

func (r *PGRepo) CreateFile(ctx context.Context, f domain.File) (domain.File, error) {
	q := r.qb().Insert(fmt.Sprintf("%s.files", r.schema)).
		Columns("id", "owner_id", "name", "mime_type", "size_bytes", "folder_id", "access", "storage_path").
		Values(f.ID, f.OwnerID, f.Name, f.MIME, f.SizeBytes, f.FolderID, f.Access, f.StoragePath).
		Suffix("RETURNING " + fileColumns)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateFile", sqlStr, args)

	start := time.Now()
	out, err := scanFile(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateFile scan error after %s: %v", time.Since(start), err)
		return domain.File{}, err
	}
	r.logger.Printf("CreateFile ok in %s id=%s name=%q", time.Since(start), out.ID, out.Name)
	return out, nil
}

func (r *PGRepo) FileByID(ctx context.Context, id domain.FileID) (domain.File, error) {
	q := r.qb().Select(fileColumns).
		From(fmt.Sprintf("%s.files", r.schema)).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("FileByID", sqlStr, args)

	start := time.Now()
	f, err := scanFile(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.File{}, domain.ErrNotFound
		}
		r.logger.Printf("FileByID scan error after %s: %v", time.Since(start), err)
		return domain.File{}, err
	}
	if f.SharedWith, err = r.sharedWith(ctx, f.ID); err != nil {
		return domain.File{}, err
	}
	r.logger.Printf("FileByID ok in %s id=%s", time.Since(start), f.ID)
	return f, nil
}

func (r *PGRepo) FilesByOwner(ctx context.Context, owner domain.UserID) ([]domain.File, error) {
	q := r.qb().Select(fileColumns).
		From(fmt.Sprintf("%s.files", r.schema)).
		Where(sq.Eq{"owner_id": owner}).
		OrderBy("created_at DESC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("FilesByOwner", sqlStr, args)

	start := time.Now()
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("FilesByOwner query error after %s: %v", time.Since(start), err)
		return nil, err
	}
	defer rows.Close()

	var res []domain.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			r.logger.Printf("FilesByOwner scan error: %v", err)
			return nil, err
		}
		res = append(res, f)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("FilesByOwner rows error: %v", err)
		return nil, err
	}
	for i := range res {
		if res[i].SharedWith, err = r.sharedWith(ctx, res[i].ID); err != nil {
			return nil, err
		}
	}
	r.logger.Printf("FilesByOwner ok in %s count=%d", time.Since(start), len(res))
	return res, nil
}

// UpdateFile применяет частичное обновление одной транзакцией: строка файла
// и, если меняется режим доступа, полная замена набора грантов. Другие
// запросы не видят промежуточных состояний.
func (r *PGRepo) UpdateFile(ctx context.Context, id domain.FileID, upd domain.FileUpdate) (domain.File, error) {
	set := map[string]any{"updated_at": sq.Expr("now()")}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.StoragePath != nil {
		set["storage_path"] = *upd.StoragePath
	}
	if upd.FolderID != nil {
		set["folder_id"] = *upd.FolderID
	}
	if upd.Access != nil {
		set["access"] = *upd.Access
	}
	if upd.ShareToken != nil {
		set["share_token"] = *upd.ShareToken
	}

	q := r.qb().Update(fmt.Sprintf("%s.files", r.schema)).
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + fileColumns)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateFile", sqlStr, args)

	start := time.Now()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.File{}, err
	}
	defer tx.Rollback(ctx)

	out, err := scanFile(tx.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.File{}, domain.ErrNotFound
		}
		r.logger.Printf("UpdateFile scan error after %s: %v", time.Since(start), err)
		return domain.File{}, err
	}

	if upd.Access != nil {
		if err := r.replaceShares(ctx, tx, id, upd.SharedWith); err != nil {
			r.logger.Printf("UpdateFile shares error after %s: %v", time.Since(start), err)
			return domain.File{}, err
		}
		out.SharedWith = upd.SharedWith
	} else {
		if out.SharedWith, err = r.sharedWithTx(ctx, tx, id); err != nil {
			return domain.File{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.File{}, err
	}
	r.logger.Printf("UpdateFile ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

func (r *PGRepo) DeleteFile(ctx context.Context, id domain.FileID) error {
	q := r.qb().Delete(fmt.Sprintf("%s.files", r.schema)).
		Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeleteFile", sqlStr, args)

	start := time.Now()
	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("DeleteFile exec error after %s: %v", time.Since(start), err)
		return err
	}
	if tag.RowsAffected() == 0 {
		r.logger.Printf("DeleteFile no rows affected in %s", time.Since(start))
		return domain.ErrNotFound
	}
	r.logger.Printf("DeleteFile ok in %s id=%s", time.Since(start), id)
	return nil
}

// ---------- SHARES ----------

func (r *PGRepo) sharedWith(ctx context.Context, id domain.FileID) ([]domain.UserID, error) {
	q := r.qb().Select("user_id").
		From(fmt.Sprintf("%s.file_shares", r.schema)).
		Where(sq.Eq{"file_id": id})
	sqlStr, args, _ := q.ToSql()

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUserIDs(rows)
}

func (r *PGRepo) sharedWithTx(ctx context.Context, tx pgx.Tx, id domain.FileID) ([]domain.UserID, error) {
	q := r.qb().Select("user_id").
		From(fmt.Sprintf("%s.file_shares", r.schema)).
		Where(sq.Eq{"file_id": id})
	sqlStr, args, _ := q.ToSql()

	rows, err := tx.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUserIDs(rows)
}

func collectUserIDs(rows pgx.Rows) ([]domain.UserID, error) {
	var out []domain.UserID
	for rows.Next() {
		var uid domain.UserID
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		out = append(out, uid)
	}
	return out, rows.Err()
}

// Полная замена набора грантов файла (не merge) — семантика share.
func (r *PGRepo) replaceShares(ctx context.Context, tx pgx.Tx, id domain.FileID, grantees []domain.UserID) error {
	del := r.qb().Delete(fmt.Sprintf("%s.file_shares", r.schema)).
		Where(sq.Eq{"file_id": id})
	sqlStr, args, _ := del.ToSql()
	if _, err := tx.Exec(ctx, sqlStr, args...); err != nil {
		return err
	}

	if len(grantees) == 0 {
		return nil
	}
	ins := r.qb().Insert(fmt.Sprintf("%s.file_shares", r.schema)).
		Columns("file_id", "user_id")
	for _, uid := range grantees {
		ins = ins.Values(id, uid)
	}
	sqlStr, args, _ = ins.ToSql()
	_, err := tx.Exec(ctx, sqlStr, args...)
	return err
}
