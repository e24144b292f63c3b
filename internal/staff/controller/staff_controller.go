package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cafeteria/internal/auth"
	"cafeteria/internal/commons"
	"cafeteria/internal/domain"
	"cafeteria/internal/dto"
	apperrors "cafeteria/internal/errors"
)

type IdentityResolver interface {
	Lookup(ctx context.Context, name string) (*domain.StaffUser, error)
	Register(ctx context.Context, name, pin string, role domain.StaffRole) (*domain.StaffUser, error)
	Authenticate(ctx context.Context, name, pin string) (*domain.StaffUser, error)
	ListAll(ctx context.Context) ([]domain.StaffUser, error)
	CheckAccess(ctx context.Context) bool
}

type TokenIssuer interface {
	IssueStaff(u domain.StaffUser) (string, time.Time, error)
}

type StaffController struct {
	resolver IdentityResolver
	tokens   TokenIssuer
	logger   *zap.Logger
}

func NewStaffController(resolver IdentityResolver, tokens TokenIssuer, logger *zap.Logger) *StaffController {
	return &StaffController{
		resolver: resolver,
		tokens:   tokens,
		logger:   logger,
	}
}

func (c *StaffController) HandleLogin(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	var details []apperrors.ValidationDetail
	if req.Name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if req.PIN == "" {
		details = append(details, apperrors.ValidationDetail{Field: "pin", Message: "pin is required"})
	}
	if len(details) > 0 {
		commons.WriteValidationError(w, traceID, "validation failed", logger, details...)
		return
	}

	user, err := c.resolver.Authenticate(r.Context(), req.Name, req.PIN)
	if err != nil {
		c.writeAuthError(w, traceID, err, logger)
		return
	}

	token, expiresAt, err := c.tokens.IssueStaff(*user)
	if err != nil {
		commons.WriteError(w, traceID, apperrors.NewInternalError("issuing staff token", err), logger)
		return
	}

	logger.Info("staff login", zap.String("staffId", user.ID), zap.String("role", string(user.Role)))

	commons.WriteJSON(w, http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      toStaffDTO(*user),
	}, logger)
}

func (c *StaffController) HandleRegister(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.RegisterStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	user, err := c.resolver.Register(r.Context(), req.Name, req.PIN, domain.StaffRole(req.Role))
	if err != nil {
		c.writeAuthError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, toStaffDTO(*user), logger)
}

func (c *StaffController) HandleList(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	users, err := c.resolver.ListAll(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	resp := dto.StaffListResponse{Users: make([]dto.StaffUserDTO, len(users))}
	for i, u := range users {
		resp.Users[i] = toStaffDTO(u)
	}
	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

func (c *StaffController) HandleLookup(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	name := r.URL.Query().Get("name")
	if name == "" {
		commons.WriteValidationError(w, traceID, "name is required", logger, apperrors.ValidationDetail{
			Field:   "name",
			Message: "name query parameter is required",
		})
		return
	}

	user, err := c.resolver.Lookup(r.Context(), name)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	resp := dto.StaffLookupResponse{Found: user != nil}
	if user != nil {
		u := toStaffDTO(*user)
		resp.User = &u
	}
	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

func (c *StaffController) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	ok := c.resolver.CheckAccess(r.Context())
	if !ok {
		status = http.StatusServiceUnavailable
	}
	commons.WriteJSON(w, status, dto.HealthResponse{Access: ok}, c.logger)
}

// writeAuthError answers identity failures with the fixed user-facing
// messages and defers everything else to the shared mapping.
func (c *StaffController) writeAuthError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		logger.Warn("staff user not found")
		commons.WriteErrorResponse(w, traceID, http.StatusUnauthorized, auth.CodeUserNotFound, auth.MessageFor(auth.CodeUserNotFound), logger)
		return
	}

	if _, ok := apperrors.IsWrongPinError(err); ok {
		commons.WriteErrorResponse(w, traceID, http.StatusUnauthorized, auth.CodeWrongPin, auth.MessageFor(auth.CodeWrongPin), logger)
		return
	}

	if _, ok := apperrors.IsDuplicateNameError(err); ok {
		commons.WriteErrorResponse(w, traceID, http.StatusConflict, auth.CodeDuplicateName, auth.MessageFor(auth.CodeDuplicateName), logger)
		return
	}

	commons.WriteError(w, traceID, err, logger)
}

func toStaffDTO(u domain.StaffUser) dto.StaffUserDTO {
	return dto.StaffUserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
