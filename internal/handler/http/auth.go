package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/AJVG007/gestor-tareas/internal/domain"
	"github.com/AJVG007/gestor-tareas/internal/service"
	"github.com/AJVG007/gestor-tareas/pkg/validator"
)

// CookieConfig describes how auth tokens are written as cookies. Tokens ride
// exclusively in cookies; response bodies never contain them.
type CookieConfig struct {
	AccessName    string
	RefreshName   string
	AccessMaxAge  int
	RefreshMaxAge int
	Secure        bool
}

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	service *service.UserService
	cookies CookieConfig
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.UserService, cookies CookieConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, cookies: cookies, logger: logger}
}

// --- Request DTOs ---

// RegisterRequest is the JSON request body for user registration.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=1,max=150"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"omitempty,max=150"`
	LastName  string `json:"last_name" validate:"omitempty,max=150"`
}

// LoginRequest is the JSON request body for user login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// --- Response types ---

// RegisterResponse confirms account creation.
type RegisterResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// --- Handlers ---

// Register handles POST /users/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	input := service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	user, err := h.service.Register(r.Context(), input)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, response{
		Data: RegisterResponse{
			Message: "user registered successfully",
			User:    user,
		},
	})
}

// Login handles POST /users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	input := service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	}

	_, tokens, err := h.service.Login(r.Context(), input)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	h.setTokenCookies(w, tokens)

	writeJSON(w, http.StatusOK, response{
		Data: map[string]string{"message": "login successful"},
	})
}

// setTokenCookies writes the access and refresh tokens as HttpOnly cookies.
func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, tokens *domain.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.AccessName,
		Value:    tokens.AccessToken,
		Path:     "/",
		MaxAge:   h.cookies.AccessMaxAge,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.RefreshName,
		Value:    tokens.RefreshToken,
		Path:     "/",
		MaxAge:   h.cookies.RefreshMaxAge,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
