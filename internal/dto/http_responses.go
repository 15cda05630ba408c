package dto

import (
	"time"

	"github.com/wb-go/wbf/ginext"

	"dubexpo/internal/model"
	"dubexpo/internal/wizard"
)

const (
	FieldBadFormat     = "FIELD_BADFORMAT"
	FieldIncorrect     = "FIELD_INCORRECT"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "Service is currently unavailable. Please try again later."

	Unauthorized         = "UNAUTHORIZED"
	DraftNotFound        = "DRAFT_NOT_FOUND"
	PackRequired         = "PACK_REQUIRED"
	RegistrationNotFound = "REGISTRATION_NOT_FOUND"
	PermissionDenied     = "PERMISSION_DENIED"
	BackendUnsupported   = "BACKEND_UNSUPPORTED"

	PermissionDeniedDesc = "The storage policy rejected the write. Check that the anonymous role has insert access to the registrations table."
)

type CreateRegistrationRequest struct {
	FirstName    string `json:"firstName" validate:"required,max=255"`
	LastName     string `json:"lastName" validate:"required,max=255"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required"`
	Company      string `json:"company" validate:"required,max=255"`
	Role         string `json:"role" validate:"required,max=255"`
	SelectedPack string `json:"selectedPack" validate:"pack"`
	NeedsVisa    bool   `json:"needsVisa"`
	Message      string `json:"message" validate:"max=2000"`
	// Ignored on purpose: status is always pending at creation.
	Status string `json:"status,omitempty"`
}

type WizardStartRequest struct {
	InitialPack string `json:"initialPack" validate:"pack"`
}

type WizardPersonalRequest struct {
	FirstName string `json:"firstName" validate:"required,max=255"`
	LastName  string `json:"lastName" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Company   string `json:"company" validate:"required,max=255"`
	Role      string `json:"role" validate:"required,max=255"`
}

type WizardProgramRequest struct {
	SelectedPack string `json:"selectedPack" validate:"pack"`
	NeedsVisa    bool   `json:"needsVisa"`
	Message      string `json:"message" validate:"max=2000"`
}

type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,status"`
}

// RegistrationNotification travels over the broker to the notifier worker.
type RegistrationNotification struct {
	RegistrationID string `json:"registration_id"`
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	Status         string `json:"status"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type DraftResponse struct {
	Token string                  `json:"token"`
	Step  int                     `json:"step"`
	Data  model.RegistrationInput `json:"data"`
}

func NewDraftResponse(d wizard.Draft) DraftResponse {
	return DraftResponse{Token: d.Token, Step: d.Step, Data: d.Data}
}

type AdminListResponse struct {
	Registrations []model.Registration `json:"registrations"`
	Total         int                  `json:"total"`
	TotalRevenue  int                  `json:"totalRevenue"`
}

type Response struct {
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Error struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

func BadResponseError(c *ginext.Context, code, desc string) {
	c.JSON(400, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func InternalServerError(c *ginext.Context) {
	c.JSON(500, Response{
		Status: "error",
		Error: &Error{
			Code: ServiceUnavailable,
			Desc: InternalError,
		},
	})
}

func UnauthorizedError(c *ginext.Context, desc string) {
	c.JSON(401, Response{
		Status: "error",
		Error: &Error{
			Code: Unauthorized,
			Desc: desc,
		},
	})
}

func PermissionDeniedError(c *ginext.Context) {
	c.JSON(403, Response{
		Status: "error",
		Error: &Error{
			Code: PermissionDenied,
			Desc: PermissionDeniedDesc,
		},
	})
}

func DraftNotFoundError(c *ginext.Context) {
	BadResponseError(c, DraftNotFound, "Draft not found or already submitted")
}

func PackRequiredError(c *ginext.Context) {
	BadResponseError(c, PackRequired, "A pack must be selected before continuing")
}

func BackendUnsupportedError(c *ginext.Context) {
	BadResponseError(c, BackendUnsupported, "This operation is only available on the embedded database backend")
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(200, Response{
		Status: "ok",
		Data:   data,
	})
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(201, Response{
		Status: "ok",
		Data:   data,
	})
}
