package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/atinyakov/bookshelf/internal/common"
	"github.com/atinyakov/bookshelf/internal/middleware"
	"github.com/atinyakov/bookshelf/internal/models"
	"github.com/atinyakov/bookshelf/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type fakeBookService struct {
	ListFunc   func(ctx context.Context, userID string) ([]models.Book, error)
	CreateFunc func(ctx context.Context, userID string, in models.Book) (*models.Book, error)
	UpdateFunc func(ctx context.Context, userID, id string, patch models.BookPatch) (*models.Book, error)
	DeleteFunc func(ctx context.Context, userID, id string) (*service.DeleteResult, error)
}

func (f *fakeBookService) List(ctx context.Context, userID string) ([]models.Book, error) {
	return f.ListFunc(ctx, userID)
}
func (f *fakeBookService) Create(ctx context.Context, userID string, in models.Book) (*models.Book, error) {
	return f.CreateFunc(ctx, userID, in)
}
func (f *fakeBookService) Update(ctx context.Context, userID, id string, patch models.BookPatch) (*models.Book, error) {
	return f.UpdateFunc(ctx, userID, id, patch)
}
func (f *fakeBookService) Delete(ctx context.Context, userID, id string) (*service.DeleteResult, error) {
	return f.DeleteFunc(ctx, userID, id)
}

// withCaller attaches an authenticated user and, when set, the {id} route param.
func withCaller(r *http.Request, userID, bookID string) *http.Request {
	ctx := middleware.WithUser(r.Context(), &models.User{ID: userID})
	if bookID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", bookID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return r.WithContext(ctx)
}

func TestBookHandler_List(t *testing.T) {
	svc := &fakeBookService{
		ListFunc: func(ctx context.Context, userID string) ([]models.Book, error) {
			if userID != "u1" {
				t.Errorf("List userID = %q; want u1", userID)
			}
			return []models.Book{}, nil
		},
	}
	h := &BookHandler{BookService: svc, Logger: zap.NewNop()}

	w := httptest.NewRecorder()
	h.List(w, withCaller(httptest.NewRequest(http.MethodGet, "/api/books", nil), "u1", ""))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("body = %q; want []", body)
	}
}

func TestBookHandler_CreateIgnoresBodyOwner(t *testing.T) {
	var gotOwner string
	var gotIn models.Book
	svc := &fakeBookService{
		CreateFunc: func(ctx context.Context, userID string, in models.Book) (*models.Book, error) {
			gotOwner, gotIn = userID, in
			b := in
			b.ID, b.UserID, b.Status = "b1", userID, models.StatusWantToRead
			return &b, nil
		},
	}
	h := &BookHandler{BookService: svc, Logger: zap.NewNop()}

	body := `{"title":"Dune","author":"Frank Herbert","googleBookId":"abc123","user":"mallory","totalPages":412}`
	w := httptest.NewRecorder()
	h.Create(w, withCaller(httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(body)), "u1", ""))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d; want 201", w.Code)
	}
	if gotOwner != "u1" || gotIn.UserID != "" {
		t.Errorf("owner = %q, body owner = %q; want u1 and empty", gotOwner, gotIn.UserID)
	}
	if gotIn.TotalPages != 412 || gotIn.GoogleBookID != "abc123" {
		t.Errorf("unexpected input %+v", gotIn)
	}

	var resp models.Book
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.UserID != "u1" || resp.Status != models.StatusWantToRead {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestBookHandler_CreateErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantKind string
	}{
		{"bad json", `{`, nil, http.StatusBadRequest, common.KindValidation},
		{"validation", `{"title":""}`, common.NewValidationError("Please include all required fields: title, author, and googleBookId"), http.StatusBadRequest, common.KindValidation},
		{"duplicate", `{"title":"Dune"}`, common.ErrConflict, http.StatusConflict, common.KindConflict},
		{"internal", `{"title":"Dune"}`, errors.New("db down"), http.StatusInternalServerError, common.KindInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeBookService{
				CreateFunc: func(ctx context.Context, userID string, in models.Book) (*models.Book, error) {
					return nil, tc.err
				},
			}
			h := &BookHandler{BookService: svc, Logger: zap.NewNop()}

			w := httptest.NewRecorder()
			h.Create(w, withCaller(httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(tc.body)), "u1", ""))

			if w.Code != tc.wantCode {
				t.Fatalf("status = %d; want %d", w.Code, tc.wantCode)
			}
			if got := decodeError(t, w.Body); got.Kind != tc.wantKind {
				t.Errorf("kind = %q; want %q", got.Kind, tc.wantKind)
			}
		})
	}
}

func TestBookHandler_Update(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"ok", nil, http.StatusOK},
		{"not owner", common.ErrForbidden, http.StatusForbidden},
		{"missing", common.ErrNotFound, http.StatusNotFound},
		{"invalid", common.NewValidationError("currentPage cannot exceed totalPages"), http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeBookService{
				UpdateFunc: func(ctx context.Context, userID, id string, patch models.BookPatch) (*models.Book, error) {
					if userID != "u1" || id != "b1" {
						t.Errorf("Update(%q, %q)", userID, id)
					}
					if patch.CurrentPage == nil || *patch.CurrentPage != 50 {
						t.Errorf("patch currentPage = %v; want 50", patch.CurrentPage)
					}
					if patch.Notes != nil {
						t.Errorf("notes should be absent from patch")
					}
					if tc.err != nil {
						return nil, tc.err
					}
					return &models.Book{ID: "b1", CurrentPage: 50, TotalPages: 100, Status: models.StatusReading}, nil
				},
			}
			h := &BookHandler{BookService: svc, Logger: zap.NewNop()}

			body := `{"currentPage":50,"googleBookId":"ignored"}`
			w := httptest.NewRecorder()
			h.Update(w, withCaller(httptest.NewRequest(http.MethodPut, "/api/books/b1", strings.NewReader(body)), "u1", "b1"))

			if w.Code != tc.wantCode {
				t.Fatalf("status = %d; want %d", w.Code, tc.wantCode)
			}
		})
	}
}

func TestBookHandler_Delete(t *testing.T) {
	svc := &fakeBookService{
		DeleteFunc: func(ctx context.Context, userID, id string) (*service.DeleteResult, error) {
			if id == "gone" {
				return nil, common.ErrNotFound
			}
			return &service.DeleteResult{Message: "Book removed", ID: id}, nil
		},
	}
	h := &BookHandler{BookService: svc, Logger: zap.NewNop()}

	w := httptest.NewRecorder()
	h.Delete(w, withCaller(httptest.NewRequest(http.MethodDelete, "/api/books/b1", nil), "u1", "b1"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	var res service.DeleteResult
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Message != "Book removed" || res.ID != "b1" {
		t.Errorf("unexpected result %+v", res)
	}

	w = httptest.NewRecorder()
	h.Delete(w, withCaller(httptest.NewRequest(http.MethodDelete, "/api/books/gone", nil), "u1", "gone"))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", w.Code)
	}
	if got := decodeError(t, w.Body); got.Message != "Book not found" {
		t.Errorf("message = %q", got.Message)
	}
}
