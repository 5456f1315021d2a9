package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"drawvault-backend/internal/database"
	"drawvault-backend/internal/dto"
	"drawvault-backend/internal/middleware"
	"drawvault-backend/internal/services"
	"drawvault-backend/utils/response"
)

type AuthHandler struct {
	service *services.AuthService
	logger  *zap.Logger
}

func NewAuthHandler(db *database.DB, jwtSecret string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: services.NewAuthService(db, jwtSecret),
		logger:  logger,
	}
}

func (h *AuthHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var user dto.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if user.Username == "" || user.Email == "" || user.Password == "" {
		response.BadRequest(w, "Username, email and password are required")
		return
	}

	if err := h.service.RegisterUser(r.Context(), &user); err != nil {
		h.logger.Error("failed to register user", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	response.JSON(w, http.StatusCreated, response.SuccessResponse{
		Success: true,
		Message: "User registered successfully",
	})
}

func (h *AuthHandler) LoginUser(w http.ResponseWriter, r *http.Request) {
	var user dto.LoginUserRequest
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	token, err := h.service.LoginUser(r.Context(), &user)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Error(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.logger.Error("failed to login user", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Failed to login user")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400, // 24 hours
	})

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Message: "User logged in successfully",
	})
}

func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		response.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.service.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		h.logger.Error("failed to get user", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Failed to get user")
		return
	}

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    user,
	})
}
