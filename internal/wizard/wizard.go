package wizard

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dubexpo/internal/model"
	"dubexpo/internal/store"
)

var (
	ErrDraftNotFound = errors.New("draft not found")
	ErrPackRequired  = errors.New("a pack must be selected")
	ErrNotConfirmed  = errors.New("draft has not reached the confirmation step")
)

const (
	StepPersonal = 1
	StepProgram  = 2
	StepConfirm  = 3
)

// Draft is one applicant's in-flight registration. Collected fields survive
// back-navigation; only Submit clears the draft, and only when the store
// accepts the record.
type Draft struct {
	Token string                  `json:"token"`
	Step  int                     `json:"step"`
	Data  model.RegistrationInput `json:"data"`
}

type PersonalInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Company   string
	Role      string
}

type ProgramInput struct {
	SelectedPack string
	NeedsVisa    bool
	Message      string
}

// Manager owns the draft table and drives the three-step flow against the
// store. requirePack gates leaving the program step without a pack; the
// earlier deployment of this form allowed it, so the permissive behavior
// stays reachable through configuration.
type Manager struct {
	mu          sync.Mutex
	drafts      map[string]*Draft
	store       store.Store
	requirePack bool
	log         *zerolog.Logger
}

func NewManager(st store.Store, requirePack bool, log *zerolog.Logger) *Manager {
	return &Manager{
		drafts:      make(map[string]*Draft),
		store:       st,
		requirePack: requirePack,
		log:         log,
	}
}

// Start opens a new draft on the personal step. A pack variant coming from
// the landing page's pricing section preselects the program choice.
func (m *Manager) Start(initialPack string) Draft {
	d := &Draft{
		Token: uuid.NewString(),
		Step:  StepPersonal,
		Data: model.RegistrationInput{
			NeedsVisa: true,
		},
	}
	if model.ValidPack(initialPack) {
		d.Data.SelectedPack = initialPack
	}

	m.mu.Lock()
	m.drafts[d.Token] = d
	m.mu.Unlock()

	return *d
}

func (m *Manager) SubmitPersonal(token string, in PersonalInput) (Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drafts[token]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}

	d.Data.FirstName = in.FirstName
	d.Data.LastName = in.LastName
	d.Data.Email = in.Email
	d.Data.Phone = in.Phone
	d.Data.Company = in.Company
	d.Data.Role = in.Role
	if d.Step == StepPersonal {
		d.Step = StepProgram
	}

	return *d, nil
}

func (m *Manager) SubmitProgram(token string, in ProgramInput) (Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drafts[token]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}

	d.Data.SelectedPack = in.SelectedPack
	d.Data.NeedsVisa = in.NeedsVisa
	d.Data.Message = in.Message

	if m.requirePack && d.Data.SelectedPack == "" {
		// Stay on the program step; the choices made so far are kept.
		return *d, ErrPackRequired
	}
	if d.Step <= StepProgram {
		d.Step = StepConfirm
	}

	return *d, nil
}

func (m *Manager) Back(token string) (Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drafts[token]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	if d.Step > StepPersonal {
		d.Step--
	}

	return *d, nil
}

func (m *Manager) Review(token string) (Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drafts[token]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	return *d, nil
}

// Submit writes the draft through the store. A failed create keeps the
// draft on the confirmation step so nothing the applicant typed is lost.
func (m *Manager) Submit(ctx context.Context, token string) (string, error) {
	m.mu.Lock()
	d, ok := m.drafts[token]
	m.mu.Unlock()

	if !ok {
		return "", ErrDraftNotFound
	}
	if d.Step != StepConfirm {
		return "", ErrNotConfirmed
	}

	id, err := m.store.Create(ctx, d.Data)
	if err != nil {
		m.log.Error().Err(err).Msg("failed to submit registration draft")
		return "", err
	}

	m.mu.Lock()
	delete(m.drafts, token)
	m.mu.Unlock()

	m.log.Info().Str("registration_id", id).Msg("registration draft submitted")
	return id, nil
}
