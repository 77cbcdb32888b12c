package middleware

import (
	"hotelbook/pkg/auth"
	apperrors "hotelbook/pkg/errors"
	"hotelbook/pkg/logger"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// AuthenticatedHandle is an httprouter handle that receives the verified
// caller explicitly.
type AuthenticatedHandle func(w http.ResponseWriter, r *http.Request, ps httprouter.Params, principal auth.Principal)

// Authenticated verifies the bearer token and, when roles are given, that
// the caller holds one of them. Missing or bad tokens get 401, a wrong role
// gets 403.
func Authenticated(gate auth.Authenticator, log *logger.Logger, roles ...auth.Role) func(AuthenticatedHandle) httprouter.Handle {
	return func(next AuthenticatedHandle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			token := bearerToken(r)
			if token == "" {
				_ = apperrors.WriteError(w, r, apperrors.Unauthorized("Missing bearer token").WithCause(auth.ErrUnauthenticated))
				return
			}

			principal, err := gate.Authenticate(r.Context(), token)
			if err != nil {
				log.Warn("Rejected bearer token",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				_ = apperrors.WriteError(w, r, apperrors.Unauthorized("Invalid or expired token").WithCause(err))
				return
			}

			if len(roles) > 0 && !principal.HasAnyRole(roles...) {
				log.Warn("Caller lacks required role",
					"request_id", RequestID(r.Context()),
					"subject", principal.Subject,
					"role", principal.Role.String(),
					"path", r.URL.Path,
				)
				_ = apperrors.WriteError(w, r, apperrors.Forbidden("Insufficient role for this operation").WithCause(auth.ErrForbidden))
				return
			}

			next(w, r, ps, principal)
		}
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

