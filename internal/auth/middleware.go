package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cafeteria/internal/commons"
)

type contextKey int

const (
	customerKey contextKey = iota
	staffKey
)

func WithCustomer(ctx context.Context, c *Customer) context.Context {
	return context.WithValue(ctx, customerKey, c)
}

func CustomerFromContext(ctx context.Context) (*Customer, bool) {
	c, ok := ctx.Value(customerKey).(*Customer)
	return c, ok && c != nil
}

func WithStaff(ctx context.Context, p *StaffPrincipal) context.Context {
	return context.WithValue(ctx, staffKey, p)
}

func StaffFromContext(ctx context.Context) (*StaffPrincipal, bool) {
	p, ok := ctx.Value(staffKey).(*StaffPrincipal)
	return p, ok && p != nil
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Customer attaches the customer identity when the request carries a valid
// provider token. Requests without one continue anonymously; handlers that
// need identity reject them.
func CustomerMiddleware(tokens *TokenService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			customer, err := tokens.ParseCustomer(token)
			if err != nil {
				logger.Debug("ignoring invalid customer token", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCustomer(r.Context(), customer)))
		})
	}
}

// RequireStaff admits requests with a valid staff token whose role may
// perform action on resource.
func RequireStaff(tokens *TokenService, enforcer *Enforcer, resource, action string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := uuid.New().String()

			token, ok := bearerToken(r)
			if !ok {
				commons.WriteErrorResponse(w, traceID, http.StatusUnauthorized, "UNAUTHENTICATED", "staff token required", logger)
				return
			}

			principal, err := tokens.ParseStaff(token)
			if err != nil {
				commons.WriteErrorResponse(w, traceID, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid staff token", logger)
				return
			}

			allowed, err := enforcer.Allowed(principal.Role, resource, action)
			if err != nil {
				logger.Error("rbac check failed", zap.String("traceId", traceID), zap.Error(err))
				commons.WriteErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", logger)
				return
			}
			if !allowed {
				logger.Warn("staff action denied",
					zap.String("traceId", traceID),
					zap.String("staffId", principal.ID),
					zap.String("role", string(principal.Role)),
					zap.String("resource", resource),
					zap.String("action", action))
				commons.WriteErrorResponse(w, traceID, http.StatusForbidden, "FORBIDDEN", "role not allowed", logger)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithStaff(r.Context(), principal)))
		})
	}
}
