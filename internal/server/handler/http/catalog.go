package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// CatalogSearcher looks volumes up in the external catalog.
type CatalogSearcher interface {
	Search(ctx context.Context, q string) (json.RawMessage, error)
}

// CatalogHandler proxies catalog searches.
type CatalogHandler struct {
	Catalog CatalogSearcher
	Logger  *zap.Logger
}

// Search handles GET /api/googlebooks/search?q=. The upstream body is
// returned as is.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		badRequest(w, r, "Search query is required")
		return
	}

	body, err := h.Catalog.Search(r.Context(), q)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.Logger.Debug("write catalog response", zap.Error(err))
	}
}

// Hello answers GET / as a liveness probe.
func Hello(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, "Hello from Backend!")
}
