package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/ginext"

	"dubexpo/internal/api/api"
	"dubexpo/internal/auth"
	"dubexpo/internal/metrics"
	"dubexpo/internal/model"
	"dubexpo/internal/service"
	"dubexpo/internal/store"
	"dubexpo/internal/wizard"
)

// Shared across tests: promauto registers on the default registry and a
// second New would panic.
var testMetrics = metrics.New()

type fakeStore struct {
	regs      []model.Registration
	created   []model.RegistrationInput
	updated   map[string]string
	deleted   []string
	createErr error
	listErr   error
}

func (f *fakeStore) List(ctx context.Context) ([]model.Registration, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.regs, nil
}

func (f *fakeStore) Create(ctx context.Context, in model.RegistrationInput) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, in)
	return fmt.Sprintf("reg-%d", len(f.created)), nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id, status string) error {
	if f.updated == nil {
		f.updated = make(map[string]string)
	}
	f.updated[id] = status
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) Close() error { return nil }

type fakeMaintainedStore struct {
	fakeStore
	snapshot []byte
	wiped    bool
}

func (f *fakeMaintainedStore) Snapshot() ([]byte, error) { return f.snapshot, nil }
func (f *fakeMaintainedStore) Wipe(ctx context.Context) error {
	f.wiped = true
	return nil
}

func newTestRouter(t *testing.T, st store.Store) *ginext.Engine {
	t.Helper()
	log := zerolog.Nop()
	wiz := wizard.NewManager(st, true, &log)
	authSvc := auth.NewService("admin123", "test-signing-key", "dubexpo", time.Hour)
	svc := service.NewService(st, wiz, authSvc, &log, nil, testMetrics)
	return api.NewRouters(&api.Routers{Service: svc})
}

type envelope struct {
	Status string `json:"status"`
	Error  *struct {
		Code string `json:"code"`
		Desc string `json:"desc"`
	} `json:"error"`
	Data json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "application/x-sqlite3" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func login(t *testing.T, router http.Handler) string {
	t.Helper()
	w, env := doJSON(t, router, http.MethodPost, "/v1/admin/login", "", map[string]string{"password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func sampleRegistration(id, lastName, company, pack string) model.Registration {
	return model.Registration{
		ID:           id,
		FirstName:    "Awa",
		LastName:     lastName,
		Email:        "a@x.com",
		Phone:        "+971500000",
		Company:      company,
		Role:         "CEO",
		SelectedPack: pack,
		NeedsVisa:    true,
		Date:         time.Now(),
		Status:       model.StatusPending,
	}
}

func TestCreateRegistration(t *testing.T) {
	st := &fakeStore{}
	router := newTestRouter(t, st)

	w, env := doJSON(t, router, http.MethodPost, "/v1/registrations", "", map[string]any{
		"firstName":    "Awa",
		"lastName":     "Koné",
		"email":        "a@x.com",
		"phone":        "+971500000",
		"company":      "TechAfrica",
		"role":         "CEO",
		"selectedPack": "premium",
		"needsVisa":    true,
		"message":      "",
		// A caller-supplied status never reaches the store.
		"status": "approved",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "ok", env.Status)

	require.Len(t, st.created, 1)
	require.Equal(t, "TechAfrica", st.created[0].Company)
	require.Equal(t, model.PackPremium, st.created[0].SelectedPack)
}

func TestCreateRegistrationRejectsBadInput(t *testing.T) {
	st := &fakeStore{}
	router := newTestRouter(t, st)

	w, env := doJSON(t, router, http.MethodPost, "/v1/registrations", "", map[string]any{
		"firstName": "Awa",
		"lastName":  "Koné",
		"email":     "not-an-email",
		"phone":     "+971500000",
		"company":   "TechAfrica",
		"role":      "CEO",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "FIELD_INCORRECT", env.Error.Code)
	require.Empty(t, st.created)
}

func TestCreateRegistrationPermissionDenied(t *testing.T) {
	st := &fakeStore{createErr: store.ErrPermissionDenied}
	router := newTestRouter(t, st)

	w, env := doJSON(t, router, http.MethodPost, "/v1/registrations", "", map[string]any{
		"firstName": "Awa",
		"lastName":  "Koné",
		"email":     "a@x.com",
		"phone":     "+971500000",
		"company":   "TechAfrica",
		"role":      "CEO",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "PERMISSION_DENIED", env.Error.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t, &fakeStore{})

	w, env := doJSON(t, router, http.MethodGet, "/v1/admin/registrations", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "UNAUTHORIZED", env.Error.Code)

	w, _ = doJSON(t, router, http.MethodGet, "/v1/admin/registrations", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminLoginWrongPassword(t *testing.T) {
	router := newTestRouter(t, &fakeStore{})

	w, env := doJSON(t, router, http.MethodPost, "/v1/admin/login", "", map[string]string{"password": "nope"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestAdminListWithRevenue(t *testing.T) {
	st := &fakeStore{regs: []model.Registration{
		sampleRegistration("r1", "Koné", "TechAfrica", model.PackPremium),
		sampleRegistration("r2", "Diallo", "AgriCorp", model.PackElite),
	}}
	router := newTestRouter(t, st)
	token := login(t, router)

	w, env := doJSON(t, router, http.MethodGet, "/v1/admin/registrations", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Registrations []model.Registration `json:"registrations"`
		Total         int                  `json:"total"`
		TotalRevenue  int                  `json:"totalRevenue"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.Equal(t, 2, resp.Total)
	require.Equal(t, 12500, resp.TotalRevenue)
}

func TestAdminSearchIsCaseInsensitive(t *testing.T) {
	st := &fakeStore{regs: []model.Registration{
		sampleRegistration("r1", "Koné", "TechAfrica", model.PackPremium),
		sampleRegistration("r2", "Diallo", "AgriCorp", model.PackElite),
	}}
	router := newTestRouter(t, st)
	token := login(t, router)

	_, env := doJSON(t, router, http.MethodGet, "/v1/admin/registrations?search=techafrica", token, nil)
	var resp struct {
		Registrations []model.Registration `json:"registrations"`
		TotalRevenue  int                  `json:"totalRevenue"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.Len(t, resp.Registrations, 1)
	require.Equal(t, "TechAfrica", resp.Registrations[0].Company)
	require.Equal(t, 4500, resp.TotalRevenue)

	_, env = doJSON(t, router, http.MethodGet, "/v1/admin/registrations?search=zzz", token, nil)
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.Empty(t, resp.Registrations)
	require.Zero(t, resp.TotalRevenue)
}

func TestAdminListDegradesToEmptyOnReadFailure(t *testing.T) {
	st := &fakeStore{listErr: errors.New("backend unreachable")}
	router := newTestRouter(t, st)
	token := login(t, router)

	w, env := doJSON(t, router, http.MethodGet, "/v1/admin/registrations", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Registrations []model.Registration `json:"registrations"`
		Total         int                  `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.Empty(t, resp.Registrations)
	require.Zero(t, resp.Total)
}

func TestAdminUpdateStatus(t *testing.T) {
	st := &fakeStore{regs: []model.Registration{
		sampleRegistration("r1", "Koné", "TechAfrica", model.PackPremium),
	}}
	router := newTestRouter(t, st)
	token := login(t, router)

	w, env := doJSON(t, router, http.MethodPatch, "/v1/admin/registrations/r1/status", token,
		map[string]string{"status": "colorful"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "FIELD_INCORRECT", env.Error.Code)

	w, _ = doJSON(t, router, http.MethodPatch, "/v1/admin/registrations/r1/status", token,
		map[string]string{"status": model.StatusApproved})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, model.StatusApproved, st.updated["r1"])
}

func TestAdminDelete(t *testing.T) {
	st := &fakeStore{}
	router := newTestRouter(t, st)
	token := login(t, router)

	w, _ := doJSON(t, router, http.MethodDelete, "/v1/admin/registrations/r1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"r1"}, st.deleted)
}

func TestExportAndWipeNeedEmbeddedBackend(t *testing.T) {
	router := newTestRouter(t, &fakeStore{})
	token := login(t, router)

	w, env := doJSON(t, router, http.MethodGet, "/v1/admin/export", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "BACKEND_UNSUPPORTED", env.Error.Code)

	w, env = doJSON(t, router, http.MethodPost, "/v1/admin/wipe", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "BACKEND_UNSUPPORTED", env.Error.Code)
}

func TestExportAndWipeOnEmbeddedBackend(t *testing.T) {
	st := &fakeMaintainedStore{snapshot: []byte("SQLite format 3")}
	router := newTestRouter(t, st)
	token := login(t, router)

	w, _ := doJSON(t, router, http.MethodGet, "/v1/admin/export", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/x-sqlite3", w.Header().Get("Content-Type"))
	require.Contains(t, w.Header().Get("Content-Disposition"), "database.sqlite")
	require.Equal(t, "SQLite format 3", w.Body.String())

	w, _ = doJSON(t, router, http.MethodPost, "/v1/admin/wipe", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, st.wiped)
}

func TestWizardFlowOverHTTP(t *testing.T) {
	st := &fakeStore{}
	router := newTestRouter(t, st)

	w, env := doJSON(t, router, http.MethodPost, "/v1/wizard", "", map[string]string{})
	require.Equal(t, http.StatusCreated, w.Code)

	var draft struct {
		Token string                  `json:"token"`
		Step  int                     `json:"step"`
		Data  model.RegistrationInput `json:"data"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &draft))
	require.Equal(t, 1, draft.Step)
	require.True(t, draft.Data.NeedsVisa)
	token := draft.Token

	w, env = doJSON(t, router, http.MethodPut, "/v1/wizard/"+token+"/personal", "", map[string]string{
		"firstName": "Awa",
		"lastName":  "Koné",
		"email":     "a@x.com",
		"phone":     "+971500000",
		"company":   "TechAfrica",
		"role":      "CEO",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &draft))
	require.Equal(t, 2, draft.Step)

	// No pack selected: stay on step 2.
	w, env = doJSON(t, router, http.MethodPut, "/v1/wizard/"+token+"/program", "", map[string]any{
		"needsVisa": true,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "PACK_REQUIRED", env.Error.Code)

	w, env = doJSON(t, router, http.MethodPut, "/v1/wizard/"+token+"/program", "", map[string]any{
		"selectedPack": "premium",
		"needsVisa":    true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &draft))
	require.Equal(t, 3, draft.Step)

	w, env = doJSON(t, router, http.MethodPost, "/v1/wizard/"+token+"/back", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &draft))
	require.Equal(t, 2, draft.Step)
	require.Equal(t, "Awa", draft.Data.FirstName)

	w, env = doJSON(t, router, http.MethodPut, "/v1/wizard/"+token+"/program", "", map[string]any{
		"selectedPack": "premium",
		"needsVisa":    true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, router, http.MethodPost, "/v1/wizard/"+token+"/submit", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, st.created, 1)
	require.Equal(t, "a@x.com", st.created[0].Email)

	w, env = doJSON(t, router, http.MethodGet, "/v1/wizard/"+token, "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "DRAFT_NOT_FOUND", env.Error.Code)
}

func TestContentEndpoints(t *testing.T) {
	router := newTestRouter(t, &fakeStore{})

	w, env := doJSON(t, router, http.MethodGet, "/v1/content/en", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var c struct {
		Language string       `json:"language"`
		Packs    []model.Pack `json:"packs"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &c))
	require.Equal(t, "en", c.Language)
	require.Len(t, c.Packs, 3)

	w, env = doJSON(t, router, http.MethodGet, "/v1/packs", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var packs []model.Pack
	require.NoError(t, json.Unmarshal(env.Data, &packs))
	require.Len(t, packs, 3)
	require.Equal(t, 4500, packs[1].PriceValue)
}
