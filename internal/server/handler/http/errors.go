package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/atinyakov/bookshelf/internal/common"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// writeError maps err onto a status code, kind and client-safe message.
// Unexpected errors are logged and reported as an opaque server error.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status, kind, msg := http.StatusInternalServerError, common.KindInternal, "Server error"

	var vErr *common.ValidationError
	switch {
	case errors.As(err, &vErr):
		status, kind, msg = http.StatusBadRequest, common.KindValidation, vErr.Message
	case errors.Is(err, common.ErrValidation):
		status, kind, msg = http.StatusBadRequest, common.KindValidation, "Invalid request"
	case errors.Is(err, common.ErrUserExists):
		status, kind, msg = http.StatusBadRequest, common.KindConflict, "User already exists"
	case errors.Is(err, common.ErrInvalidCredentials):
		status, kind, msg = http.StatusUnauthorized, common.KindUnauthenticated, "Invalid email or password"
	case errors.Is(err, common.ErrUnauthenticated), errors.Is(err, common.ErrInvalidToken):
		status, kind, msg = http.StatusUnauthorized, common.KindUnauthenticated, "Not authorized"
	case errors.Is(err, common.ErrForbidden):
		status, kind, msg = http.StatusForbidden, common.KindForbidden, "User not authorized"
	case errors.Is(err, common.ErrNotFound):
		status, kind, msg = http.StatusNotFound, common.KindNotFound, "Book not found"
	case errors.Is(err, common.ErrConflict):
		status, kind, msg = http.StatusConflict, common.KindConflict, "Book is already on your shelf"
	case errors.Is(err, common.ErrUpstream):
		kind, msg = common.KindUpstream, "Failed to fetch books from Google Books API"
		logger.Warn("catalog lookup failed", zap.Error(err), zap.String("request_id", middleware.GetReqID(r.Context())))
	default:
		logger.Error("request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	}

	render.Status(r, status)
	render.JSON(w, r, common.ErrorResponse{Message: msg, Kind: kind})
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, common.ErrorResponse{Message: msg, Kind: common.KindValidation})
}

// validationMessage turns validator errors into one readable sentence.
// Any missing field collapses into the generic "include all fields" hint.
func validationMessage(errs validator.ValidationErrors) string {
	var parts []string
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			return "Please include all fields"
		case "email":
			parts = append(parts, fmt.Sprintf("%s must be a valid email address", fe.Field()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is not valid", fe.Field()))
		}
	}
	return strings.Join(parts, ", ")
}
