package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"dubexpo/internal/auth"
	"dubexpo/internal/content"
	"dubexpo/internal/dto"
	"dubexpo/internal/metrics"
	"dubexpo/internal/model"
	"dubexpo/internal/rabbit"
	"dubexpo/internal/store"
	"dubexpo/internal/wizard"
	"dubexpo/pkg/validator"
)

type Service interface {
	GetContent(ctx *ginext.Context)
	GetPacks(ctx *ginext.Context)
	CreateRegistration(ctx *ginext.Context)

	StartWizard(ctx *ginext.Context)
	WizardPersonal(ctx *ginext.Context)
	WizardProgram(ctx *ginext.Context)
	WizardBack(ctx *ginext.Context)
	WizardReview(ctx *ginext.Context)
	WizardSubmit(ctx *ginext.Context)

	AdminLogin(ctx *ginext.Context)
	AdminAuth() func(ctx *ginext.Context)
	AdminList(ctx *ginext.Context)
	AdminUpdateStatus(ctx *ginext.Context)
	AdminDelete(ctx *ginext.Context)
	AdminExport(ctx *ginext.Context)
	AdminWipe(ctx *ginext.Context)
}

type service struct {
	store   store.Store
	wiz     *wizard.Manager
	auth    *auth.Service
	log     *zerolog.Logger
	rbt     *rabbit.Client
	metrics *metrics.Metrics
}

// NewService wires handlers over the selected backend. rbt may be nil when
// no broker is configured; notification publishing is then skipped.
func NewService(st store.Store, wiz *wizard.Manager, authSvc *auth.Service, logger *zerolog.Logger, rbt *rabbit.Client, m *metrics.Metrics) Service {
	return &service{
		store:   st,
		wiz:     wiz,
		auth:    authSvc,
		log:     logger,
		rbt:     rbt,
		metrics: m,
	}
}

func (s *service) GetContent(ctx *ginext.Context) {
	dto.SuccessResponse(ctx, content.ForLanguage(ctx.Param("lang")))
}

func (s *service) GetPacks(ctx *ginext.Context) {
	dto.SuccessResponse(ctx, content.ForLanguage(ctx.Query("lang")).Packs)
}

func (s *service) CreateRegistration(ctx *ginext.Context) {
	var req dto.CreateRegistrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	// Whatever status the caller sent is dropped here.
	input := model.RegistrationInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Company:      req.Company,
		Role:         req.Role,
		SelectedPack: req.SelectedPack,
		NeedsVisa:    req.NeedsVisa,
		Message:      req.Message,
	}

	id, err := s.store.Create(ctx.Request.Context(), input)
	if err != nil {
		s.failCreate(ctx, err)
		return
	}

	s.metrics.IncrementRegistrations()
	s.log.Info().Str("registration_id", id).Msg("registration created")
	s.publishNotification(id, input.Email, input.FirstName, model.StatusPending)

	dto.SuccessCreatedResponse(ctx, dto.CreatedResponse{ID: id})
}

func (s *service) failCreate(ctx *ginext.Context, err error) {
	if errors.Is(err, store.ErrPermissionDenied) {
		s.log.Error().Err(err).Msg("registration insert rejected by storage policy")
		dto.PermissionDeniedError(ctx)
		return
	}
	s.log.Error().Err(err).Msg("failed to create registration")
	dto.InternalServerError(ctx)
}

func (s *service) StartWizard(ctx *ginext.Context) {
	var req dto.WizardStartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && ctx.Request.ContentLength > 0 {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	d := s.wiz.Start(req.InitialPack)
	dto.SuccessCreatedResponse(ctx, dto.NewDraftResponse(d))
}

func (s *service) WizardPersonal(ctx *ginext.Context) {
	var req dto.WizardPersonalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	d, err := s.wiz.SubmitPersonal(ctx.Param("token"), wizard.PersonalInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		Role:      req.Role,
	})
	if err != nil {
		dto.DraftNotFoundError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.NewDraftResponse(d))
}

func (s *service) WizardProgram(ctx *ginext.Context) {
	var req dto.WizardProgramRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	d, err := s.wiz.SubmitProgram(ctx.Param("token"), wizard.ProgramInput{
		SelectedPack: req.SelectedPack,
		NeedsVisa:    req.NeedsVisa,
		Message:      req.Message,
	})
	switch {
	case errors.Is(err, wizard.ErrDraftNotFound):
		dto.DraftNotFoundError(ctx)
		return
	case errors.Is(err, wizard.ErrPackRequired):
		dto.PackRequiredError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.NewDraftResponse(d))
}

func (s *service) WizardBack(ctx *ginext.Context) {
	d, err := s.wiz.Back(ctx.Param("token"))
	if err != nil {
		dto.DraftNotFoundError(ctx)
		return
	}
	dto.SuccessResponse(ctx, dto.NewDraftResponse(d))
}

func (s *service) WizardReview(ctx *ginext.Context) {
	d, err := s.wiz.Review(ctx.Param("token"))
	if err != nil {
		dto.DraftNotFoundError(ctx)
		return
	}
	dto.SuccessResponse(ctx, dto.NewDraftResponse(d))
}

func (s *service) WizardSubmit(ctx *ginext.Context) {
	token := ctx.Param("token")
	draft, _ := s.wiz.Review(token)

	id, err := s.wiz.Submit(ctx.Request.Context(), token)
	if err != nil {
		s.metrics.IncrementWizardSubmissions("error")
		switch {
		case errors.Is(err, wizard.ErrDraftNotFound):
			dto.DraftNotFoundError(ctx)
		case errors.Is(err, wizard.ErrNotConfirmed):
			dto.BadResponseError(ctx, dto.FieldIncorrect, "Draft has not reached the confirmation step")
		default:
			s.failCreate(ctx, err)
		}
		return
	}

	s.metrics.IncrementWizardSubmissions("ok")
	s.metrics.IncrementRegistrations()
	s.publishNotification(id, draft.Data.Email, draft.Data.FirstName, model.StatusPending)

	dto.SuccessCreatedResponse(ctx, dto.CreatedResponse{ID: id})
}

func (s *service) AdminLogin(ctx *ginext.Context) {
	var req dto.AdminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	token, expiresAt, err := s.auth.Login(req.Password)
	if err != nil {
		s.metrics.IncrementAdminLogins("denied")
		dto.UnauthorizedError(ctx, "Incorrect password")
		return
	}

	s.metrics.IncrementAdminLogins("ok")
	dto.SuccessResponse(ctx, dto.LoginResponse{Token: token, ExpiresAt: expiresAt})
}

// AdminAuth validates the session token on every management request.
func (s *service) AdminAuth() func(ctx *ginext.Context) {
	return func(ctx *ginext.Context) {
		header := ctx.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			dto.UnauthorizedError(ctx, "Missing bearer token")
			ctx.Abort()
			return
		}
		if _, err := s.auth.ValidateToken(tokenString); err != nil {
			dto.UnauthorizedError(ctx, "Invalid or expired session")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

func (s *service) AdminList(ctx *ginext.Context) {
	regs, err := s.store.List(ctx.Request.Context())
	if err != nil {
		// Reads degrade to an empty collection; the operator sees an empty
		// table rather than an error page.
		s.log.Error().Err(err).Msg("failed to list registrations")
		regs = nil
	}

	search := strings.ToLower(ctx.Query("search"))
	filtered := make([]model.Registration, 0, len(regs))
	revenue := 0
	for _, r := range regs {
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		filtered = append(filtered, r)
		revenue += content.PackPrice(r.SelectedPack)
	}

	dto.SuccessResponse(ctx, dto.AdminListResponse{
		Registrations: filtered,
		Total:         len(filtered),
		TotalRevenue:  revenue,
	})
}

func matchesSearch(r model.Registration, term string) bool {
	return strings.Contains(strings.ToLower(r.LastName), term) ||
		strings.Contains(strings.ToLower(r.Company), term) ||
		strings.Contains(strings.ToLower(r.Email), term)
}

func (s *service) AdminUpdateStatus(ctx *ginext.Context) {
	id := ctx.Param("id")

	var req dto.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	// Looked up before the write so the notification can carry the
	// applicant's address. A missing id is still a no-op update.
	var target *model.Registration
	if regs, err := s.store.List(ctx.Request.Context()); err == nil {
		for i := range regs {
			if regs[i].ID == id {
				target = &regs[i]
				break
			}
		}
	}

	if err := s.store.UpdateStatus(ctx.Request.Context(), id, req.Status); err != nil {
		s.log.Error().Err(err).Str("registration_id", id).Msg("failed to update status")
		dto.InternalServerError(ctx)
		return
	}

	if target != nil && req.Status != model.StatusPending {
		s.publishNotification(id, target.Email, target.FirstName, req.Status)
	}

	dto.SuccessResponse(ctx, nil)
}

func (s *service) AdminDelete(ctx *ginext.Context) {
	id := ctx.Param("id")
	if err := s.store.Delete(ctx.Request.Context(), id); err != nil {
		s.log.Error().Err(err).Str("registration_id", id).Msg("failed to delete registration")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, nil)
}

func (s *service) AdminExport(ctx *ginext.Context) {
	m, ok := s.store.(store.Maintainer)
	if !ok {
		dto.BackendUnsupportedError(ctx)
		return
	}

	data, err := m.Snapshot()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to export database snapshot")
		dto.InternalServerError(ctx)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="database.sqlite"`)
	ctx.Data(200, "application/x-sqlite3", data)
}

func (s *service) AdminWipe(ctx *ginext.Context) {
	m, ok := s.store.(store.Maintainer)
	if !ok {
		dto.BackendUnsupportedError(ctx)
		return
	}

	if err := m.Wipe(ctx.Request.Context()); err != nil {
		s.log.Error().Err(err).Msg("failed to wipe registrations")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, nil)
}

func (s *service) publishNotification(id, email, firstName, status string) {
	if s.rbt == nil {
		return
	}

	msg := dto.RegistrationNotification{
		RegistrationID: id,
		Email:          email,
		FirstName:      firstName,
		Status:         status,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal notification message")
		return
	}
	if err := s.rbt.Publish(payload); err != nil {
		s.log.Error().Err(err).Msg("failed to publish notification to RabbitMQ")
	}
}
