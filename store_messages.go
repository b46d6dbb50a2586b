package portfolio

import (
	"context"
	"fmt"

	"github.com/eringen/portfolio/models"
)

type messageRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Subject   string `db:"subject"`
	Message   string `db:"message"`
	Read      bool   `db:"is_read"`
	CreatedAt int64  `db:"created_at"`
}

func (r messageRow) model() models.Message {
	return models.Message{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Subject:   r.Subject,
		Message:   r.Message,
		Read:      r.Read,
		CreatedAt: fromMicros(r.CreatedAt),
	}
}

const messageColumns = `id, name, email, subject, message, is_read, created_at`

// ListMessages returns every contact message newest first.
func (s *Store) ListMessages(ctx context.Context) ([]models.Message, error) {
	var rows []messageRow
	if err := s.db.SelectContext(ctx, &rows, s.q(`SELECT `+messageColumns+` FROM messages`+s.newestFirst())); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	out := make([]models.Message, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}

// GetMessage returns the message with id or ErrNotFound.
func (s *Store) GetMessage(ctx context.Context, id string) (models.Message, error) {
	var row messageRow
	if err := s.getOne(ctx, &row, `SELECT `+messageColumns+` FROM messages WHERE id = ?`, id); err != nil {
		return models.Message{}, fmt.Errorf("get message %s: %w", id, err)
	}
	return row.model(), nil
}

// CreateMessage stores a new unread message.
func (s *Store) CreateMessage(ctx context.Context, m models.Message) (models.Message, error) {
	m.ID = newID()
	m.CreatedAt = s.timestamp()
	m.Read = false
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO messages (`+messageColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`),
		m.ID, m.Name, m.Email, m.Subject, m.Message, m.Read, toMicros(m.CreatedAt))
	if err != nil {
		return models.Message{}, fmt.Errorf("create message: %w", err)
	}
	return m, nil
}

// MarkMessageRead sets the read flag. Marking an already read message succeeds.
func (s *Store) MarkMessageRead(ctx context.Context, id string) error {
	if err := s.execOne(ctx, `UPDATE messages SET is_read = ? WHERE id = ?`, true, id); err != nil {
		return fmt.Errorf("mark message %s read: %w", id, err)
	}
	return nil
}

// DeleteMessage removes the message with id. Missing messages are ignored.
func (s *Store) DeleteMessage(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, s.q(`DELETE FROM messages WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete message %s: %w", id, err)
	}
	return nil
}

// CountMessages returns the total and unread message counts.
func (s *Store) CountMessages(ctx context.Context) (total, unread int, err error) {
	var row struct {
		Total  int `db:"total"`
		Unread int `db:"unread"`
	}
	err = s.db.GetContext(ctx, &row, s.q(`SELECT COUNT(*) AS total, COALESCE(SUM(CASE WHEN is_read = ? THEN 0 ELSE 1 END), 0) AS unread FROM messages`), true)
	if err != nil {
		return 0, 0, fmt.Errorf("count messages: %w", err)
	}
	return row.Total, row.Unread, nil
}
