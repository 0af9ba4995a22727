package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/atinyakov/bookshelf/internal/client/storage"
	"github.com/atinyakov/bookshelf/internal/common"
	"github.com/atinyakov/bookshelf/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) *storage.SessionStore {
	t.Helper()
	return storage.NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
}

func TestClient_LoginStoresSessionAndSendsBearer(t *testing.T) {
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/users/login":
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ann@example.com", body["email"])
			_, _ = io.WriteString(w, `{"id":"u1","name":"Ann","email":"ann@example.com","token":"tok"}`)
		case "/api/books":
			_, _ = io.WriteString(w, `[{"id":"b1","title":"Dune","status":"reading","currentPage":5,"totalPages":10}]`)
		}
	}))
	defer srv.Close()

	sess := newSession(t)
	c := New(srv.URL, sess, time.Second)

	s, err := c.Login(context.Background(), "ann@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok", s.Token)
	assert.Equal(t, "Ann", sess.Current().User.Name)

	books, err := c.ListBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, models.StatusReading, books[0].Status)

	require.Len(t, gotAuth, 2)
	assert.Equal(t, "", gotAuth[0], "no header without a session")
	assert.Equal(t, "Bearer tok", gotAuth[1])
}

func TestClient_UnauthorizedClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Not authorized, token failed","kind":"unauthenticated"}`)
	}))
	defer srv.Close()

	sess := newSession(t)
	require.NoError(t, sess.Save(storage.Session{Token: "expired"}))

	_, err := New(srv.URL, sess, time.Second).ListBooks(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Not authorized, token failed", apiErr.Message)
	assert.Nil(t, sess.Current(), "session cleared on 401")
}

func TestClient_FailedLoginKeepsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Invalid email or password","kind":"unauthenticated"}`)
	}))
	defer srv.Close()

	sess := newSession(t)
	require.NoError(t, sess.Save(storage.Session{Token: "still-valid"}))

	_, err := New(srv.URL, sess, time.Second).Login(context.Background(), "ann@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
	assert.Equal(t, "still-valid", sess.Token())
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, common.ErrValidation},
		{http.StatusForbidden, common.ErrForbidden},
		{http.StatusNotFound, common.ErrNotFound},
		{http.StatusConflict, common.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			sess := newSession(t)
			require.NoError(t, sess.Save(storage.Session{Token: "tok"}))

			err := New(srv.URL, sess, time.Second).DeleteBook(context.Background(), "b1")
			assert.ErrorIs(t, err, tt.want)
			assert.NotNil(t, sess.Current(), "session kept on non-401 errors")
		})
	}
}

func TestClient_UpdateAndAdd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			assert.Equal(t, "/api/books/b1", r.URL.Path)
			var patch map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
			assert.Equal(t, map[string]any{"currentPage": float64(50)}, patch)
			_, _ = io.WriteString(w, `{"id":"b1","currentPage":50,"status":"reading"}`)
		case http.MethodPost:
			var nb NewBook
			require.NoError(t, json.NewDecoder(r.Body).Decode(&nb))
			assert.Equal(t, "abc123", nb.GoogleBookID)
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":"b2","googleBookId":"abc123","status":"want-to-read"}`)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, newSession(t), time.Second)
	page := 50
	b, err := c.UpdateBook(context.Background(), "b1", models.BookPatch{CurrentPage: &page})
	require.NoError(t, err)
	assert.Equal(t, models.StatusReading, b.Status)

	added, err := c.AddBook(context.Background(), NewBook{Title: "Dune", Author: "Frank Herbert", GoogleBookID: "abc123"})
	require.NoError(t, err)
	assert.Equal(t, "b2", added.ID)
}

func TestClient_SearchCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "frank herbert", r.URL.Query().Get("q"))
		_, _ = io.WriteString(w, `{"totalItems":1,"items":[{"id":"abc123","volumeInfo":{"title":"Dune","authors":["Frank Herbert"],"pageCount":412,"imageLinks":{"thumbnail":"http://img"}}}]}`)
	}))
	defer srv.Close()

	vols, err := New(srv.URL, newSession(t), time.Second).SearchCatalog(context.Background(), "frank herbert")
	require.NoError(t, err)
	require.Len(t, vols.Items, 1)

	nb := vols.Items[0].AsNewBook()
	assert.Equal(t, NewBook{
		Title: "Dune", Author: "Frank Herbert", GoogleBookID: "abc123", PosterURL: "http://img", TotalPages: 412,
	}, nb)
}

func TestVolume_AsNewBookWithoutAuthors(t *testing.T) {
	var v Volume
	v.ID = "x"
	v.VolumeInfo.Title = "Anonymous"
	assert.Equal(t, "Unknown", v.AsNewBook().Author)
}

func TestClient_Logout(t *testing.T) {
	sess := newSession(t)
	require.NoError(t, sess.Save(storage.Session{Token: "tok"}))

	require.NoError(t, New("http://unused", sess, time.Second).Logout())
	assert.Equal(t, "", sess.Token())
}
