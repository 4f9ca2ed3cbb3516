package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/realtime-chat/internal/model"
	"github.com/iliyamo/realtime-chat/internal/utils"
)

// UserRepo provides access to the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,full_name,email,password_hash,profile_pic,created_at,updated_at"

// Create hashes the password and inserts the user, returning its ID.
// A duplicate email maps to ErrEmailExists (MySQL error 1062 from the
// unique index on users.email). Emails are stored exactly as given; the
// column's binary collation keeps both the index and lookups
// case-sensitive.
func (r *UserRepo) Create(ctx context.Context, fullName, email, password string, cost int) (uint64, error) {
	email = strings.TrimSpace(email)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (full_name, email, password_hash) VALUES (?,?,?)",
		fullName, email, hash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by the exact email string.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.TrimSpace(email)
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// Exists reports whether a user with the given id is present.
func (r *UserRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE id=? LIMIT 1", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateProfilePic stores the hosted avatar URL and returns the updated row.
func (r *UserRepo) UpdateProfilePic(ctx context.Context, id uint64, url string) (model.User, error) {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE users SET profile_pic=? WHERE id=?", url, id); err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// ListOthers returns every user except the caller, ordered by name. This is
// an unbounded scan; acceptable at the scale this service targets.
func (r *UserRepo) ListOthers(ctx context.Context, callerID uint64) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id<>? ORDER BY full_name, id", callerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListByIDs resolves a set of user ids to their records. Unknown ids are
// silently skipped (a partner may have been removed since messaging).
func (r *UserRepo) ListByIDs(ctx context.Context, ids []uint64) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id IN ("+placeholders+") ORDER BY full_name, id",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	var pic sql.NullString
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &pic, &u.CreatedAt, &u.UpdatedAt)
	u.ProfilePic = pic.String
	return u, err
}

func (r *UserRepo) scanAll(rows *sql.Rows) ([]model.User, error) {
	out := []model.User{}
	for rows.Next() {
		var u model.User
		var pic sql.NullString
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &pic, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.ProfilePic = pic.String
		out = append(out, u)
	}
	return out, rows.Err()
}
