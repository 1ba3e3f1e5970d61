package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/blogapp/backend/internal/db"
	apperrors "github.com/blogapp/backend/internal/errors"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Message string `json:"message"`
}

type Handlers struct {
	authService *Service
}

func NewHandlers(authService *Service) *Handlers {
	return &Handlers{authService: authService}
}

// Register handles POST /auth/register
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) error {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}

	if err := validateRegisterRequest(&req); err != nil {
		return apperrors.ValidationError(err.Error())
	}

	if _, err := h.authService.Register(r.Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, db.ErrEmailExists) {
			return apperrors.DuplicateUser()
		}
		return apperrors.InternalError("failed to create user").WithCause(err)
	}

	requestID := apperrors.GetRequestID(r.Context())
	apperrors.WriteJSON(w, requestID, http.StatusOK, RegisterResponse{
		Message: "user registered successfully",
	})
	return nil
}

// Login handles POST /auth/login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) error {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return apperrors.ValidationError("email and password are required")
	}

	resp, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return apperrors.InvalidCredentials()
		}
		return apperrors.InternalError("login failed").WithCause(err)
	}

	requestID := apperrors.GetRequestID(r.Context())
	apperrors.WriteJSON(w, requestID, http.StatusOK, resp)
	return nil
}

func validateRegisterRequest(req *RegisterRequest) error {
	if req.Email == "" {
		return errors.New("email is required")
	}
	if !emailRegex.MatchString(req.Email) {
		return errors.New("invalid email format")
	}
	if req.Password == "" {
		return errors.New("password is required")
	}
	if len(req.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
