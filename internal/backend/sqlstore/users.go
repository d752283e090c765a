package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/leeozaka/achados/internal/backend"
	"github.com/leeozaka/achados/internal/models"
)

const userColumns = `id, name, email, role, admin, blocked, password_hash, created_at`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var (
		u       models.User
		role    string
		admin   int
		blocked int
		created string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &admin, &blocked, &u.PasswordHash, &created); err != nil {
		return u, err
	}
	u.Role = models.Role(role)
	u.Admin = admin != 0
	u.Blocked = blocked != 0
	u.CreatedAt = parseStamp(created)
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if _, err := s.UserByEmail(ctx, u.Email); err == nil {
		return models.User{}, fmt.Errorf("user %s: %w", u.Email, backend.ErrConflict)
	} else if !errors.Is(err, backend.ErrNotFound) {
		return models.User{}, err
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	_, err := s.exec(ctx, s.db, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, string(u.Role), boolInt(u.Admin), boolInt(u.Blocked), u.PasswordHash, s.stamp(u.CreatedAt))
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *Store) userBy(ctx context.Context, column, value string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`), value)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return u, fmt.Errorf("user %s: %w", value, backend.ErrNotFound)
	}
	return u, err
}

func (s *Store) UserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.userBy(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

func (s *Store) UserByID(ctx context.Context, id string) (models.User, error) {
	return s.userBy(ctx, "id", id)
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) SetBlocked(ctx context.Context, id string, blocked bool) error {
	res, err := s.exec(ctx, s.db, `UPDATE users SET blocked = ? WHERE id = ?`, boolInt(blocked), id)
	if err != nil {
		return fmt.Errorf("set blocked: %w", err)
	}
	return mustAffect(res, "user", id)
}
