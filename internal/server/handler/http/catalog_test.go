package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atinyakov/bookshelf/internal/common"
	"go.uber.org/zap"
)

type fakeCatalog struct {
	gotQuery string
	body     json.RawMessage
	err      error
}

func (f *fakeCatalog) Search(ctx context.Context, q string) (json.RawMessage, error) {
	f.gotQuery = q
	return f.body, f.err
}

func TestCatalogHandler_Search(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		catalog  *fakeCatalog
		wantCode int
		wantBody string
	}{
		{
			name:     "missing query",
			url:      "/api/googlebooks/search",
			catalog:  &fakeCatalog{},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "blank query",
			url:      "/api/googlebooks/search?q=++",
			catalog:  &fakeCatalog{},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "passthrough",
			url:      "/api/googlebooks/search?q=dune",
			catalog:  &fakeCatalog{body: json.RawMessage(`{"totalItems":0}`)},
			wantCode: http.StatusOK,
			wantBody: `{"totalItems":0}`,
		},
		{
			name:     "upstream failure",
			url:      "/api/googlebooks/search?q=dune",
			catalog:  &fakeCatalog{err: fmt.Errorf("%w: status 503", common.ErrUpstream)},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := &CatalogHandler{Catalog: tc.catalog, Logger: zap.NewNop()}
			w := httptest.NewRecorder()

			h.Search(w, httptest.NewRequest(http.MethodGet, tc.url, nil))

			if w.Code != tc.wantCode {
				t.Fatalf("status = %d; want %d", w.Code, tc.wantCode)
			}
			if tc.wantBody != "" && w.Body.String() != tc.wantBody {
				t.Errorf("body = %q; want %q", w.Body.String(), tc.wantBody)
			}
			if tc.wantCode == http.StatusInternalServerError {
				if got := decodeError(t, w.Body); got.Kind != common.KindUpstream {
					t.Errorf("kind = %q; want upstream", got.Kind)
				}
			}
		})
	}
}

func TestHello(t *testing.T) {
	w := httptest.NewRecorder()
	Hello(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK || w.Body.String() != "Hello from Backend!" {
		t.Errorf("got %d %q", w.Code, w.Body.String())
	}
}
