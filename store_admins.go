package portfolio

import (
	"context"
	"fmt"

	"github.com/eringen/portfolio/models"
)

type adminRow struct {
	ID           string `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	CreatedAt    int64  `db:"created_at"`
}

// GetAdminByUsername returns the credential stored for username or ErrNotFound.
func (s *Store) GetAdminByUsername(ctx context.Context, username string) (models.AdminCredential, error) {
	var row adminRow
	err := s.getOne(ctx, &row, `SELECT id, username, password_hash, created_at FROM admins WHERE username = ?`, username)
	if err != nil {
		return models.AdminCredential{}, fmt.Errorf("get admin %s: %w", username, err)
	}
	return models.AdminCredential{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		CreatedAt:    fromMicros(row.CreatedAt),
	}, nil
}

// CreateAdmin stores a new credential. passwordHash must already be a bcrypt hash.
func (s *Store) CreateAdmin(ctx context.Context, username, passwordHash string) (models.AdminCredential, error) {
	cred := models.AdminCredential{
		ID:           newID(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    s.timestamp(),
	}
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO admins (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`),
		cred.ID, cred.Username, cred.PasswordHash, toMicros(cred.CreatedAt))
	if err != nil {
		return models.AdminCredential{}, fmt.Errorf("create admin %s: %w", username, err)
	}
	return cred, nil
}

// SetAdminPassword replaces the hash of an existing credential.
func (s *Store) SetAdminPassword(ctx context.Context, username, passwordHash string) error {
	if err := s.execOne(ctx, `UPDATE admins SET password_hash = ? WHERE username = ?`, passwordHash, username); err != nil {
		return fmt.Errorf("set admin password %s: %w", username, err)
	}
	return nil
}

// CountAdmins returns the number of stored credentials.
func (s *Store) CountAdmins(ctx context.Context) (int, error) {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM admins`)
	if err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}
