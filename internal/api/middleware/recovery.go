package middleware

import (
	"log/slog"
	"net/http"

	"github.com/nelson/you-are-the-hero/internal/api/apierr"
	"github.com/nelson/you-are-the-hero/internal/middleware"
)

// Recovery creates panic recovery middleware answering with a JSON 500
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
