package middleware

import (
	"net/http"
	"strings"

	"github.com/bloomkart/storefront-backend/api/responses"
	"github.com/bloomkart/storefront-backend/internal/combo"
	"github.com/bloomkart/storefront-backend/pkg/logger"
)

// ComboSessionHeader carries the combo session id in both directions.
const ComboSessionHeader = "X-Combo-Session"

// ComboSession resolves the combo session for storefront requests. A request
// without the header starts a new session; the id is always echoed back so
// the client can keep sending it.
func ComboSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(ComboSessionHeader))
			if id == "" {
				id = combo.NewSessionID()
			} else if !combo.ValidSessionID(id) {
				responses.WriteError(r.Context(), logg, w, combo.ErrSessionRequired)
				return
			}

			w.Header().Set(ComboSessionHeader, id)
			ctx := WithComboSession(r.Context(), id)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
