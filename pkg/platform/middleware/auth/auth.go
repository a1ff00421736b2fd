package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	dErrors "govintel/pkg/domain-errors"
	"govintel/pkg/platform/httputil"
	"govintel/pkg/requestcontext"
)

// Claims carries the caller's role alongside the registered claims.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenValidator verifies HS256 bearer tokens issued by the governance portal.
type TokenValidator struct {
	signingKey []byte
	issuer     string
}

func NewTokenValidator(signingKey, issuer string) *TokenValidator {
	return &TokenValidator{signingKey: []byte(signingKey), issuer: issuer}
}

// Validate parses and verifies a token string.
func (v *TokenValidator) Validate(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return v.signingKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.Role == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has no role")
	}
	return claims, nil
}

// AccessChecker decides whether a role may read a data domain.
type AccessChecker interface {
	RoleBasedAccess(role, domain string) bool
}

// AccessGuard checks role access and writes the audit entry for a denied
// call.
type AccessGuard interface {
	AccessChecker
	AuditDenied(ctx context.Context, model, subject, resource string) error
}

// Authenticate resolves the bearer token into caller identity on the context.
// Requests without a valid token are rejected.
func Authenticate(validator *TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, err)
				return
			}

			ctx = requestcontext.WithCaller(ctx, claims.Subject, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireDomain rejects callers whose role may not read the given data domain.
// Every rejection is audited against model; when that audit cannot be written
// the request fails with the audit error instead of a 403.
func RequireDomain(guard AccessGuard, domain, model string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			role := requestcontext.Role(ctx)
			if guard.RoleBasedAccess(role, domain) {
				next.ServeHTTP(w, r)
				return
			}

			logger.WarnContext(ctx, "access denied for data domain",
				"request_id", requestcontext.RequestID(ctx),
				"role", role,
				"domain", domain,
			)
			if err := guard.AuditDenied(ctx, model, domain, domain); err != nil {
				httputil.WriteError(w, err)
				return
			}
			httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, fmt.Sprintf("role %q may not access %s data", role, domain)))
		})
	}
}
