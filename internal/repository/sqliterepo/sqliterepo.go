package sqliterepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/mrled/suns/msgsvc/internal/model"
)

// InMemory opens a private in-memory database
const InMemory = ":memory:"

var migrations = []string{
	`
CREATE TABLE IF NOT EXISTS messages (
  id            TEXT PRIMARY KEY,
  content       TEXT NOT NULL CHECK(length(content) BETWEEN 1 AND 255),
  date_created  INTEGER NOT NULL,
  date_modified INTEGER NOT NULL,
  palindrome    INTEGER NOT NULL DEFAULT 0,
  length        INTEGER NOT NULL
);
`,
	`
CREATE INDEX IF NOT EXISTS idx_messages_created
ON messages (date_created, id);
`,
}

const selectColumns = `id, content, date_created, date_modified, palindrome, length`

// SQLiteRepository is a SQLite implementation of MessageRepository.
// Timestamps are stored as Unix nanoseconds so creation order is exact.
type SQLiteRepository struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies migrations
func Open(path string) (*SQLiteRepository, error) {
	if path != InMemory {
		if strings.HasPrefix(path, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(home, path[1:])
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	repo := &SQLiteRepository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) migrate() error {
	for i, stmt := range migrations {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}

// Close releases the database handle
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Store saves a new message
func (r *SQLiteRepository) Store(ctx context.Context, msg *model.Message) error {
	if msg == nil {
		return errors.New("message cannot be nil")
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (`+selectColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID,
		msg.Content,
		msg.DateCreated.UnixNano(),
		msg.DateModified.UnixNano(),
		boolToInt(msg.Properties.Palindrome),
		msg.Properties.Length,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return model.ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// Get retrieves a message by ID
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*model.Message, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM messages WHERE id = ?`, id)
	msg, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return msg, nil
}

// Update replaces an existing message
func (r *SQLiteRepository) Update(ctx context.Context, msg *model.Message) error {
	if msg == nil {
		return errors.New("message cannot be nil")
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE messages SET content = ?, date_modified = ?, palindrome = ?, length = ? WHERE id = ?`,
		msg.Content,
		msg.DateModified.UnixNano(),
		boolToInt(msg.Properties.Palindrome),
		msg.Properties.Length,
		msg.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}
	return requireOneRow(res)
}

// Delete removes a message by ID
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return requireOneRow(res)
}

// List retrieves all messages in creation order
func (r *SQLiteRepository) List(ctx context.Context) ([]*model.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM messages ORDER BY date_created, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return scanMessages(rows)
}

// Page retrieves one page of messages in creation order
func (r *SQLiteRepository) Page(ctx context.Context, number, size int) (*model.Page, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM messages ORDER BY date_created, id LIMIT ? OFFSET ?`,
		size, model.Offset(number, size))
	if err != nil {
		return nil, fmt.Errorf("failed to page messages: %w", err)
	}
	items, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}
	return model.NewPage(items, number, size, total), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(s scanner) (*model.Message, error) {
	var (
		msg                   model.Message
		created, modified     int64
		palindrome, charCount int
	)
	if err := s.Scan(&msg.ID, &msg.Content, &created, &modified, &palindrome, &charCount); err != nil {
		return nil, err
	}
	msg.DateCreated = time.Unix(0, created).UTC()
	msg.DateModified = time.Unix(0, modified).UTC()
	msg.Properties = model.Properties{Palindrome: palindrome != 0, Length: charCount}
	return &msg, nil
}

func scanMessages(rows *sql.Rows) ([]*model.Message, error) {
	defer rows.Close()

	msgs := []*model.Message{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}
	return msgs, nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
