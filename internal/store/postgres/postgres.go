package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"dubexpo/internal/model"
	"dubexpo/internal/store"
)

// insufficient_privilege, what a row-level access policy rejection on the
// registrations table comes back as.
const sqlstatePermissionDenied = "42501"

type Store struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func New(db *dbpg.DB, log *zerolog.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := s.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	s.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

func (s *Store) MigrateDown(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read rollback files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read rollback file %s: %w", file, err)
		}

		if _, err := s.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", file, err)
		}
	}

	s.log.Info().Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
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
		var r model.Registration
		if err := rows.Scan(
			&r.ID,
			&r.FirstName,
			&r.LastName,
			&r.Email,
			&r.Phone,
			&r.Company,
			&r.Role,
			&r.SelectedPack,
			&r.NeedsVisa,
			&r.Message,
			&r.Date,
			&r.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
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

	query := `
		INSERT INTO registrations
			(id, first_name, last_name, email, phone, company, role,
			 selected_pack, needs_visa, message, date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, query,
		id, in.FirstName, in.LastName, in.Email, in.Phone, in.Company, in.Role,
		in.SelectedPack, in.NeedsVisa, in.Message, time.Now().UTC(), model.StatusPending,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == sqlstatePermissionDenied {
			return "", store.ErrPermissionDenied
		}
		return "", fmt.Errorf("failed to insert registration: %w", err)
	}

	s.log.Info().Str("registration_id", id).Msg("registration stored")
	return id, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE registrations SET status = $1 WHERE id = $2`, status, id)
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
		`DELETE FROM registrations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Master.Close()
}

var _ store.Store = (*Store)(nil)
