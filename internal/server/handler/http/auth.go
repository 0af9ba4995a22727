// Package http provides the HTTP handlers and routing of the bookshelf API.
package http

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/atinyakov/bookshelf/internal/service"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// AuthService defines the account operations required by the HTTP handlers.
type AuthService interface {
	// Register creates an account and returns it with a fresh token.
	Register(ctx context.Context, name, email, password string) (*service.AuthResult, error)
	// Login checks credentials and returns the user with a fresh token.
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
}

// AuthHandler handles HTTP requests for user registration and login.
type AuthHandler struct {
	// AuthService performs the underlying account operations.
	AuthService AuthService
	Validate    *validator.Validate
	Logger      *zap.Logger
}

// NewAuthHandler returns an AuthHandler with a validator that reports JSON field names.
func NewAuthHandler(svc AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{AuthService: svc, Validate: newValidator(), Logger: logger}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// RegisterRequest represents the JSON payload for user registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned on successful registration and login.
type AuthResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// Register handles POST /api/users/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "Failed to decode request")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if !h.valid(w, r, req) {
		return
	}

	res, err := h.AuthService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	h.Logger.Info("user registered", zap.String("user_id", res.User.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toAuthResponse(res))
}

// Login handles POST /api/users/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "Failed to decode request")
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if !h.valid(w, r, req) {
		return
	}

	res, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	render.JSON(w, r, toAuthResponse(res))
}

func (h *AuthHandler) valid(w http.ResponseWriter, r *http.Request, req any) bool {
	err := h.Validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		badRequest(w, r, validationMessage(verrs))
		return false
	}
	writeError(w, r, h.Logger, err)
	return false
}

func toAuthResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{
		ID:    res.User.ID,
		Name:  res.User.Name,
		Email: res.User.Email,
		Token: res.Token,
	}
}
