package handler

import (
	"net/http"

	"github.com/nelson/you-are-the-hero/internal/api/response"
)

// Health handles GET /health
func Health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
