package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"dubexpo/internal/model"
)

type fakeStore struct {
	created   []model.RegistrationInput
	createErr error
}

func (f *fakeStore) List(ctx context.Context) ([]model.Registration, error) { return nil, nil }

func (f *fakeStore) Create(ctx context.Context, in model.RegistrationInput) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, in)
	return "reg-1", nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id, status string) error { return nil }
func (f *fakeStore) Delete(ctx context.Context, id string) error               { return nil }
func (f *fakeStore) Close() error                                              { return nil }

func newTestManager(t *testing.T, requirePack bool) (*Manager, *fakeStore) {
	t.Helper()
	st := &fakeStore{}
	log := zerolog.Nop()
	return NewManager(st, requirePack, &log), st
}

func personal() PersonalInput {
	return PersonalInput{
		FirstName: "Awa",
		LastName:  "Koné",
		Email:     "a@x.com",
		Phone:     "+971500000",
		Company:   "TechAfrica",
		Role:      "CEO",
	}
}

func TestStartDefaults(t *testing.T) {
	m, _ := newTestManager(t, true)

	d := m.Start("")
	require.Equal(t, StepPersonal, d.Step)
	require.True(t, d.Data.NeedsVisa)
	require.Empty(t, d.Data.SelectedPack)
}

func TestStartWithInitialPack(t *testing.T) {
	m, _ := newTestManager(t, true)

	d := m.Start(model.PackPremium)
	require.Equal(t, model.PackPremium, d.Data.SelectedPack)
}

func TestPersonalAdvancesToProgram(t *testing.T) {
	m, _ := newTestManager(t, true)
	d := m.Start("")

	d, err := m.SubmitPersonal(d.Token, personal())
	require.NoError(t, err)
	require.Equal(t, StepProgram, d.Step)
	require.Equal(t, "Awa", d.Data.FirstName)
}

func TestProgramRequiresPack(t *testing.T) {
	m, _ := newTestManager(t, true)
	d := m.Start("")
	d, err := m.SubmitPersonal(d.Token, personal())
	require.NoError(t, err)

	d, err = m.SubmitProgram(d.Token, ProgramInput{NeedsVisa: true})
	require.ErrorIs(t, err, ErrPackRequired)
	require.Equal(t, StepProgram, d.Step)
	// Nothing entered on the first step is lost.
	require.Equal(t, "Koné", d.Data.LastName)
	require.Equal(t, "TechAfrica", d.Data.Company)
}

func TestProgramWithoutPackAllowedWhenPermissive(t *testing.T) {
	m, _ := newTestManager(t, false)
	d := m.Start("")
	_, err := m.SubmitPersonal(d.Token, personal())
	require.NoError(t, err)

	d, err = m.SubmitProgram(d.Token, ProgramInput{NeedsVisa: true})
	require.NoError(t, err)
	require.Equal(t, StepConfirm, d.Step)
}

func TestBackNavigationPreservesEveryField(t *testing.T) {
	m, _ := newTestManager(t, true)
	d := m.Start("")
	_, err := m.SubmitPersonal(d.Token, personal())
	require.NoError(t, err)
	d, err = m.SubmitProgram(d.Token, ProgramInput{
		SelectedPack: model.PackPremium,
		NeedsVisa:    true,
		Message:      "looking forward",
	})
	require.NoError(t, err)
	require.Equal(t, StepConfirm, d.Step)

	d, err = m.Back(d.Token)
	require.NoError(t, err)
	require.Equal(t, StepProgram, d.Step)
	d, err = m.Back(d.Token)
	require.NoError(t, err)
	require.Equal(t, StepPersonal, d.Step)

	// Walk forward again; every field must be exactly as entered.
	d, err = m.SubmitPersonal(d.Token, personal())
	require.NoError(t, err)
	require.Equal(t, model.PackPremium, d.Data.SelectedPack)
	d, err = m.SubmitProgram(d.Token, ProgramInput{
		SelectedPack: d.Data.SelectedPack,
		NeedsVisa:    d.Data.NeedsVisa,
		Message:      d.Data.Message,
	})
	require.NoError(t, err)
	require.Equal(t, StepConfirm, d.Step)
	require.Equal(t, "looking forward", d.Data.Message)
	require.True(t, d.Data.NeedsVisa)
}

func TestBackStopsAtFirstStep(t *testing.T) {
	m, _ := newTestManager(t, true)
	d := m.Start("")

	d, err := m.Back(d.Token)
	require.NoError(t, err)
	require.Equal(t, StepPersonal, d.Step)
}

func TestSubmitWritesDraftAndClearsIt(t *testing.T) {
	m, st := newTestManager(t, true)
	d := m.Start("")
	_, err := m.SubmitPersonal(d.Token, personal())
	require.NoError(t, err)
	_, err = m.SubmitProgram(d.Token, ProgramInput{SelectedPack: model.PackPremium, NeedsVisa: true})
	require.NoError(t, err)

	id, err := m.Submit(context.Background(), d.Token)
	require.NoError(t, err)
	require.Equal(t, "reg-1", id)

	require.Len(t, st.created, 1)
	require.Equal(t, "a@x.com", st.created[0].Email)
	require.Equal(t, model.PackPremium, st.created[0].SelectedPack)

	_, err = m.Review(d.Token)
	require.ErrorIs(t, err, ErrDraftNotFound)
}

func TestSubmitBeforeConfirmStepFails(t *testing.T) {
	m, st := newTestManager(t, true)
	d := m.Start("")

	_, err := m.Submit(context.Background(), d.Token)
	require.ErrorIs(t, err, ErrNotConfirmed)
	require.Empty(t, st.created)
}

func TestFailedSubmitKeepsDraftIntact(t *testing.T) {
	m, st := newTestManager(t, true)
	d := m.Start("")
	_, err := m.SubmitPersonal(d.Token, personal())
	require.NoError(t, err)
	_, err = m.SubmitProgram(d.Token, ProgramInput{SelectedPack: model.PackElite, NeedsVisa: false})
	require.NoError(t, err)

	st.createErr = errors.New("backend unreachable")
	_, err = m.Submit(context.Background(), d.Token)
	require.Error(t, err)

	d, err = m.Review(d.Token)
	require.NoError(t, err)
	require.Equal(t, StepConfirm, d.Step)
	require.Equal(t, "Awa", d.Data.FirstName)
	require.Equal(t, model.PackElite, d.Data.SelectedPack)

	// Retry succeeds once the backend is back.
	st.createErr = nil
	_, err = m.Submit(context.Background(), d.Token)
	require.NoError(t, err)
}

func TestUnknownTokenIsRejectedEverywhere(t *testing.T) {
	m, _ := newTestManager(t, true)

	_, err := m.SubmitPersonal("nope", personal())
	require.ErrorIs(t, err, ErrDraftNotFound)
	_, err = m.SubmitProgram("nope", ProgramInput{})
	require.ErrorIs(t, err, ErrDraftNotFound)
	_, err = m.Back("nope")
	require.ErrorIs(t, err, ErrDraftNotFound)
	_, err = m.Review("nope")
	require.ErrorIs(t, err, ErrDraftNotFound)
	_, err = m.Submit(context.Background(), "nope")
	require.ErrorIs(t, err, ErrDraftNotFound)
}
