package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-configurator/api/responses"
	pkgerrors "github.com/angelmondragon/storefront-configurator/pkg/errors"
	"github.com/angelmondragon/storefront-configurator/pkg/logger"
)

// SessionIDParam is the chi URL parameter carrying the edit session id.
const SessionIDParam = "sessionID"

// SessionContext parses the session id path parameter and stores it on the request context
// and the logger fields.
func SessionContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(chi.URLParam(r, SessionIDParam))
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid session id").
						WithDetails(map[string]string{SessionIDParam: "must be a uuid"}))
				return
			}

			ctx := WithSessionID(r.Context(), id)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, id.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
