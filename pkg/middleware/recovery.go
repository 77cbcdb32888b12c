package middleware

import (
	"fmt"
	apperrors "hotelbook/pkg/errors"
	"hotelbook/pkg/logger"
	"net/http"
	"runtime/debug"
)

func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}

					log.Error("Panic recovered",
						"request_id", RequestID(r.Context()),
						"error", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)

					err := apperrors.Internal("panic while serving request", fmt.Errorf("%v", rec))
					_ = apperrors.WriteError(w, r, err)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
