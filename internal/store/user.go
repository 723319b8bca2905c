package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var userColumns = []string{"id", "email", "name", "password_hash", "created_at", "updated_at"}

// userRepo implements UserRepo.
type userRepo struct {
	db *sql.DB
}

func (r *userRepo) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = u.CreatedAt
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	ins := builder.Insert(usersTable).
		Columns(userColumns...).
		Values(u.ID, u.Email, u.Name, u.PasswordHash, toUnix(u.CreatedAt), toUnix(u.UpdatedAt))
	if _, err := exec(ctx, r.db, ins); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getOne(ctx, entsql.EQ("id", id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, entsql.EQ("email", strings.ToLower(strings.TrimSpace(email))))
}

func (r *userRepo) getOne(ctx context.Context, p *entsql.Predicate) (*User, error) {
	sel := builder.Select(userColumns...).From(builder.Table(usersTable)).Where(p).Limit(1)
	q, args := sel.Query()

	var (
		u                User
		created, updated int64
	)
	err := r.db.QueryRowContext(ctx, q, args...).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	u.CreatedAt = fromUnix(created)
	u.UpdatedAt = fromUnix(updated)
	return &u, nil
}

func (r *userRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, builder.Select().Count().From(builder.Table(usersTable)))
}

func countRows(ctx context.Context, db *sql.DB, sel *entsql.Selector) (int, error) {
	q, args := sel.Query()
	var n int
	if err := db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
