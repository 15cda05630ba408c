package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"dubexpo/internal/model"
	"dubexpo/internal/store"
)

// Fixed-width timestamp so ORDER BY date compares chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
	CREATE TABLE IF NOT EXISTS registrations (
		id            TEXT PRIMARY KEY,
		first_name    TEXT NOT NULL,
		last_name     TEXT NOT NULL,
		email         TEXT NOT NULL,
		phone         TEXT NOT NULL,
		company       TEXT NOT NULL,
		role          TEXT NOT NULL,
		selected_pack TEXT NOT NULL DEFAULT '',
		needs_visa    INTEGER NOT NULL DEFAULT 0,
		message       TEXT NOT NULL DEFAULT '',
		date          TEXT NOT NULL,
		status        TEXT NOT NULL DEFAULT 'pending'
	);
`

// Store is the embedded file-backed backend. The database file at path is
// the durable snapshot; a shipped baseline file seeds it on first start.
type Store struct {
	db   *sql.DB
	path string
	log  *zerolog.Logger
}

// New opens the registration database with the startup precedence of the
// original deployment: existing working copy, then shipped baseline copied
// into place, then a fresh empty database.
func New(path, baseline string, log *zerolog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if baseline != "" {
			if err := copyFile(baseline, path); err == nil {
				log.Info().Str("baseline", baseline).Msg("seeded database from baseline file")
			} else {
				log.Info().Err(err).Msg("no usable baseline file, creating a fresh database")
			}
		}
	}

	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db, path: path, log: log}, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) List(ctx context.Context) ([]model.Registration, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, company, role,
		       selected_pack, needs_visa, message, date, status
		FROM registrations
		ORDER BY date DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		var (
			r         model.Registration
			needsVisa int
			date      string
		)
		if err := rows.Scan(
			&r.ID,
			&r.FirstName,
			&r.LastName,
			&r.Email,
			&r.Phone,
			&r.Company,
			&r.Role,
			&r.SelectedPack,
			&needsVisa,
			&r.Message,
			&date,
			&r.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		r.NeedsVisa = needsVisa == 1
		if t, err := time.Parse(time.RFC3339Nano, date); err == nil {
			r.Date = t
		}
		regs = append(regs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read registrations: %w", err)
	}

	return regs, nil
}

func (s *Store) Create(ctx context.Context, in model.RegistrationInput) (string, error) {
	id := uuid.NewString()
	date := time.Now().UTC().Format(timeLayout)
	needsVisa := 0
	if in.NeedsVisa {
		needsVisa = 1
	}

	query := `
		INSERT INTO registrations
			(id, first_name, last_name, email, phone, company, role,
			 selected_pack, needs_visa, message, date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		id, in.FirstName, in.LastName, in.Email, in.Phone, in.Company, in.Role,
		in.SelectedPack, needsVisa, in.Message, date, model.StatusPending,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert registration: %w", err)
	}

	s.log.Info().Str("registration_id", id).Msg("registration stored")
	return id, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE registrations SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s.log.Debug().Str("registration_id", id).Msg("status update matched no registration")
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM registrations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}
	return nil
}

// Snapshot returns the raw database file for the admin download. The file on
// disk is consistent between statements because the journal is rolled back
// into the main file on commit.
func (s *Store) Snapshot() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read database file: %w", err)
	}
	return data, nil
}

func (s *Store) Wipe(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM registrations`); err != nil {
		return fmt.Errorf("failed to wipe registrations: %w", err)
	}
	s.log.Info().Msg("all registrations wiped")
	return nil
}

var _ store.Store = (*Store)(nil)
var _ store.Maintainer = (*Store)(nil)
