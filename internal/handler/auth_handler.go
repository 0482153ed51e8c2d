package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nik9hil/SELLX/internal/auth"
	"github.com/nik9hil/SELLX/internal/model"
	"github.com/nik9hil/SELLX/internal/service"
)

type AuthHandler struct {
	svc    service.AuthService
	tokens *auth.TokenManager
}

func NewAuthHandler(svc service.AuthService, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{svc: svc, tokens: tokens}
}

type SignupRequest struct {
	Name            string `json:"name"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Address         string `json:"address"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

type UserResponse struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Address  string `json:"address,omitempty"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		Address:  u.Address,
	}
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	user, err := h.svc.Signup(c.Request().Context(), service.SignupInput{
		Name:            req.Name,
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Address:         req.Address,
	})
	if err != nil {
		switch err {
		case service.ErrUsernameTaken:
			return c.JSON(http.StatusConflict, NewErrorResponse("username_taken", "username already exists"))
		case service.ErrEmailTaken:
			return c.JSON(http.StatusConflict, NewErrorResponse("email_taken", "email already exists"))
		case service.ErrPasswordMismatch:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("password_mismatch", "passwords do not match"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	token, err := h.tokens.Issue(user.ID, user.Username, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to issue token"))
	}
	return c.JSON(http.StatusCreated, AuthResponse{Token: token, User: toUserResponse(user)})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	user, err := h.svc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return c.JSON(http.StatusUnauthorized, NewErrorResponse("invalid_credentials", "wrong username or password"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "login failed"))
	}
	token, err := h.tokens.Issue(user.ID, user.Username, req.Remember)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to issue token"))
	}
	return c.JSON(http.StatusOK, AuthResponse{Token: token, User: toUserResponse(user)})
}

// Logout acknowledges the request; tokens are stateless and discarded by the
// client.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "logged_out"})
}
