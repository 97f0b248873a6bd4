package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/CodeXGautam/Vocintera/internal/auth"
	"github.com/CodeXGautam/Vocintera/internal/config"
	"github.com/CodeXGautam/Vocintera/internal/middleware"
	"github.com/CodeXGautam/Vocintera/internal/models"
	"github.com/CodeXGautam/Vocintera/internal/repositories"
	"github.com/CodeXGautam/Vocintera/internal/utils"
)

// RefreshTokenCookie is the cookie the refresh token is stored in.
const RefreshTokenCookie = "refreshToken"

// UserStore is the persistence surface for identity endpoints.
type UserStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
	UpsertGoogleUser(ctx context.Context, email, firstname, lastname, avatar string) (*models.User, error)
}

// AuthHandler manages authentication endpoints.
type AuthHandler struct {
	store  UserStore
	google auth.Exchanger
	cfg    *config.Config
	logger *zap.Logger
}

func NewAuthHandler(store UserStore, google auth.Exchanger, cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		store:  store,
		google: google,
		cfg:    cfg,
		logger: logger,
	}
}

func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.RegisterRequest](r)

	existing, err := h.store.GetByEmailOrUsername(r.Context(), req.Email, req.Username)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		h.internalError(w, "register: duplicate check failed", err)
		return
	}
	if existing != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "user_exists",
			Message: "User already exists",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalError(w, "register: password hash failed", err)
		return
	}

	user, err := h.store.Create(r.Context(), &models.User{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hash),
	})
	if err != nil {
		h.internalError(w, "register: create failed", err)
		return
	}

	if !h.issueTokens(w, r, user) {
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"user":    user.Public(),
		"message": "User registered successfully",
	})
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.LoginRequest](r)

	user, err := h.store.GetByEmail(r.Context(), req.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "not_found",
			Message: "User not found",
		})
		return
	}
	if err != nil {
		h.internalError(w, "login: lookup failed", err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_password",
			Message: "Invalid password",
		})
		return
	}

	access, refresh, ok := h.signAndStoreTokens(w, r.Context(), user)
	if !ok {
		return
	}
	h.setAuthCookies(w, access, refresh)

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"accessToken":  access,
		"refreshToken": refresh,
		"user":         user.Public(),
		"message":      "Login successful",
	})
}

// RefreshTokenHandler rotates the token pair. The presented refresh token
// must match the one stored on the user document.
func (h *AuthHandler) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "unauthorized",
			Message: "Refresh token required",
		})
		return
	}

	claims, err := utils.VerifyToken(cookie.Value, h.cfg.RefreshTokenSecret)
	if err != nil {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "unauthorized",
			Message: "Invalid or expired refresh token",
		})
		return
	}

	sub, err := utils.GetUserIDFromClaims(claims)
	if err != nil {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "unauthorized",
			Message: "Invalid token claims",
		})
		return
	}
	userID, err := primitive.ObjectIDFromHex(sub)
	if err != nil {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "unauthorized",
			Message: "Invalid token subject",
		})
		return
	}

	user, err := h.store.GetByID(r.Context(), userID)
	if errors.Is(err, repositories.ErrNotFound) {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "unauthorized",
			Message: "Invalid refresh token",
		})
		return
	}
	if err != nil {
		h.internalError(w, "refresh: lookup failed", err)
		return
	}

	if user.RefreshToken == "" || user.RefreshToken != cookie.Value {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "unauthorized",
			Message: "Invalid refresh token",
		})
		return
	}

	access, refresh, ok := h.signAndStoreTokens(w, r.Context(), user)
	if !ok {
		return
	}
	h.setAuthCookies(w, access, refresh)

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"accessToken":  access,
		"refreshToken": refresh,
		"message":      "Token refreshed successfully",
	})
}

func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if userID, ok := middleware.UserID(r); ok {
		if err := h.store.SetRefreshToken(r.Context(), userID, ""); err != nil {
			h.logger.Warn("logout: failed to clear refresh token", zap.Error(err))
		}
	}

	h.clearAuthCookies(w)
	utils.JSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	user, err := h.store.GetByID(r.Context(), userID)
	if errors.Is(err, repositories.ErrNotFound) {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "not_found",
			Message: "User not found",
		})
		return
	}
	if err != nil {
		h.internalError(w, "getUser: lookup failed", err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "User fetched successfully",
		"user":    user.Public(),
	})
}

// GoogleAuthHandler exchanges the OAuth authorization code, upserts the
// identity and issues a token pair.
func (h *AuthHandler) GoogleAuthHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.GoogleAuthRequest](r)

	if h.google == nil {
		utils.JSON(w, http.StatusServiceUnavailable, models.ErrorResponse{
			Code:    "google_auth_disabled",
			Message: "Google sign-in is not configured",
		})
		return
	}

	profile, err := h.google.ExchangeCode(r.Context(), req.Code)
	if err != nil {
		h.logger.Warn("google auth exchange failed", zap.Error(err))
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "unauthorized",
			Message: "Google authentication failed",
		})
		return
	}

	user, err := h.store.UpsertGoogleUser(r.Context(), profile.Email, profile.GivenName, profile.FamilyName, profile.Picture)
	if err != nil {
		h.internalError(w, "google auth: upsert failed", err)
		return
	}

	access, refresh, ok := h.signAndStoreTokens(w, r.Context(), user)
	if !ok {
		return
	}
	h.setAuthCookies(w, access, refresh)

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"accessToken":  access,
		"refreshToken": refresh,
		"user":         user.Public(),
		"message":      "Login successful",
	})
}

func (h *AuthHandler) issueTokens(w http.ResponseWriter, r *http.Request, user *models.User) bool {
	access, refresh, ok := h.signAndStoreTokens(w, r.Context(), user)
	if !ok {
		return false
	}
	h.setAuthCookies(w, access, refresh)
	return true
}

func (h *AuthHandler) signAndStoreTokens(w http.ResponseWriter, ctx context.Context, user *models.User) (string, string, bool) {
	access, err := utils.SignAccessToken(user.ID.Hex(), user.Username, h.cfg.AccessTokenSecret, h.cfg.AccessTokenExpiry)
	if err != nil {
		h.internalError(w, "token signing failed", err)
		return "", "", false
	}
	refresh, err := utils.SignRefreshToken(user.ID.Hex(), h.cfg.RefreshTokenSecret, h.cfg.RefreshTokenExpiry)
	if err != nil {
		h.internalError(w, "token signing failed", err)
		return "", "", false
	}
	if err := h.store.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		h.internalError(w, "refresh token persist failed", err)
		return "", "", false
	}
	return access, refresh, true
}

func (h *AuthHandler) setAuthCookies(w http.ResponseWriter, access, refresh string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    access,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		MaxAge:   int(h.cfg.AccessTokenExpiry / time.Second),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    refresh,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		MaxAge:   int(h.cfg.RefreshTokenExpiry / time.Second),
	})
}

func (h *AuthHandler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{middleware.AccessTokenCookie, RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   h.cfg.SecureCookies,
			MaxAge:   -1,
		})
	}
}

func (h *AuthHandler) internalError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
		Code:    "internal_error",
		Message: "Internal server error",
	})
}
