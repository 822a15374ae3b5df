package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/Haswanth2005/wissen/internal/model"
)

// UserRepo provides CRUD operations for application users. Passwords
// arrive here already hashed; this layer never sees plaintext.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user. On success the generated ID is populated
// on the provided record. A duplicate email returns ErrEmailTaken.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `INSERT INTO users (name, email, password_hash, role, batch, squad)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, u.Name, u.Email, u.PasswordHash, u.Role, u.Batch, u.Squad)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry {
			return ErrEmailTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// ByEmail retrieves a user by email address. Returns ErrUserNotFound
// when no such user exists.
func (r *UserRepo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT id, name, email, password_hash, role, batch, squad, created_at, updated_at
	           FROM users WHERE email = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, email))
}

// ByID retrieves a user by primary key. Returns ErrUserNotFound when
// no such user exists.
func (r *UserRepo) ByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = `SELECT id, name, email, password_hash, role, batch, squad, created_at, updated_at
	           FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// List returns all users ordered by name, for the admin screen.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	const q = `SELECT id, name, email, password_hash, role, batch, squad, created_at, updated_at
	           FROM users ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Batch, &u.Squad, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update rewrites a user's profile fields (name, email, role, batch,
// squad). The password hash is untouched; use UpdatePassword for that.
// Returns ErrUserNotFound when the id does not exist and ErrEmailTaken
// when the new email collides with another account.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	const q = `UPDATE users
	           SET name = ?, email = ?, role = ?, batch = ?, squad = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, u.Name, u.Email, u.Role, u.Batch, u.Squad, u.ID)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry {
			return ErrEmailTaken
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePassword replaces a user's password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	const q = `UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, hash, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes a user. The bookings FK is ON DELETE CASCADE, so an
// account's bookings go with it and its seats free up immediately.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM users WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) scanOne(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Batch, &u.Squad, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
