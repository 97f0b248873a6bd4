package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/CodeXGautam/Vocintera/internal/auth"
	"github.com/CodeXGautam/Vocintera/internal/config"
	"github.com/CodeXGautam/Vocintera/internal/middleware"
	"github.com/CodeXGautam/Vocintera/internal/models"
	"github.com/CodeXGautam/Vocintera/internal/repositories"
)

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	store := &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		store.users[u.ID] = u
	}
	return store
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = primitive.NewObjectID()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserStore) GetByEmailOrUsername(_ context.Context, email, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email || u.Username == username {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserStore) SetRefreshToken(_ context.Context, id primitive.ObjectID, token string) error {
	user, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.RefreshToken = token
	return nil
}

func (f *fakeUserStore) UpsertGoogleUser(_ context.Context, email, firstname, lastname, _ string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	user := &models.User{
		ID:        primitive.NewObjectID(),
		Firstname: firstname,
		Lastname:  lastname,
		Username:  email,
		Email:     email,
	}
	f.users[user.ID] = user
	return user, nil
}

type fakeExchanger struct {
	profile *auth.GoogleProfile
	err     error
}

func (f *fakeExchanger) ExchangeCode(context.Context, string) (*auth.GoogleProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

func testAuthConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
	}
}

func registerBody() string {
	return `{"firstname":"Alice","lastname":"Tan","username":"alice","email":"alice@example.com","password":"secret123"}`
}

func doRegister(t *testing.T, handler *AuthHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	wrapped := middleware.ValidateRequest[*models.RegisterRequest]()(http.HandlerFunc(handler.RegisterHandler))
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	return rec
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegisterHandler(t *testing.T) {
	store := newFakeUserStore()
	handler := NewAuthHandler(store, nil, testAuthConfig(), zap.NewNop())

	rec := doRegister(t, handler, registerBody())

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	user, err := store.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if user.Password == "secret123" {
		t.Error("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
	if user.RefreshToken == "" {
		t.Error("refresh token must be persisted on registration")
	}

	access := cookieByName(rec, middleware.AccessTokenCookie)
	refresh := cookieByName(rec, RefreshTokenCookie)
	if access == nil || refresh == nil {
		t.Fatal("expected both auth cookies to be set")
	}
	if !access.HttpOnly || !refresh.HttpOnly {
		t.Error("auth cookies must be httpOnly")
	}

	if strings.Contains(rec.Body.String(), "secret123") || strings.Contains(rec.Body.String(), user.Password) {
		t.Error("response must not leak credentials")
	}
}

func TestRegisterHandlerDuplicate(t *testing.T) {
	store := newFakeUserStore()
	handler := NewAuthHandler(store, nil, testAuthConfig(), zap.NewNop())

	if rec := doRegister(t, handler, registerBody()); rec.Code != http.StatusCreated {
		t.Fatalf("setup register failed: %d", rec.Code)
	}
	rec := doRegister(t, handler, registerBody())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate user, got %d", rec.Code)
	}
}

func TestRegisterHandlerWeakPassword(t *testing.T) {
	handler := NewAuthHandler(newFakeUserStore(), nil, testAuthConfig(), zap.NewNop())

	rec := doRegister(t, handler, `{"firstname":"A","lastname":"B","username":"ab","email":"ab@example.com","password":"123"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for weak password, got %d", rec.Code)
	}
}

func doLogin(t *testing.T, handler *AuthHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	wrapped := middleware.ValidateRequest[*models.LoginRequest]()(http.HandlerFunc(handler.LoginHandler))
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	return rec
}

func TestLoginHandler(t *testing.T) {
	store := newFakeUserStore()
	handler := NewAuthHandler(store, nil, testAuthConfig(), zap.NewNop())
	doRegister(t, handler, registerBody())

	rec := doLogin(t, handler, `{"email":"alice@example.com","password":"secret123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected tokens in login response")
	}
}

func TestLoginHandlerWrongPassword(t *testing.T) {
	store := newFakeUserStore()
	handler := NewAuthHandler(store, nil, testAuthConfig(), zap.NewNop())
	doRegister(t, handler, registerBody())

	rec := doLogin(t, handler, `{"email":"alice@example.com","password":"wrong-pass"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for wrong password, got %d", rec.Code)
	}
}

func TestLoginHandlerUnknownEmail(t *testing.T) {
	handler := NewAuthHandler(newFakeUserStore(), nil, testAuthConfig(), zap.NewNop())

	rec := doLogin(t, handler, `{"email":"ghost@example.com","password":"whatever"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown email, got %d", rec.Code)
	}
}

func TestRefreshTokenHandlerRotates(t *testing.T) {
	store := newFakeUserStore()
	handler := NewAuthHandler(store, nil, testAuthConfig(), zap.NewNop())
	registerRec := doRegister(t, handler, registerBody())
	oldRefresh := cookieByName(registerRec, RefreshTokenCookie)

	req := httptest.NewRequest(http.MethodPost, "/refresh-token", nil)
	req.AddCookie(oldRefresh)
	rec := httptest.NewRecorder()
	handler.RefreshTokenHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	user, _ := store.GetByEmail(context.Background(), "alice@example.com")
	newCookie := cookieByName(rec, RefreshTokenCookie)
	if newCookie == nil {
		t.Fatal("expected rotated refresh cookie")
	}
	if user.RefreshToken != newCookie.Value {
		t.Error("rotated token must be persisted")
	}
}

func TestRefreshTokenHandlerRejectsStaleToken(t *testing.T) {
	store := newFakeUserStore()
	handler := NewAuthHandler(store, nil, testAuthConfig(), zap.NewNop())
	registerRec := doRegister(t, handler, registerBody())
	oldRefresh := cookieByName(registerRec, RefreshTokenCookie)

	// a rotation elsewhere invalidates the registration cookie
	user, _ := store.GetByEmail(context.Background(), "alice@example.com")
	_ = store.SetRefreshToken(context.Background(), user.ID, "rotated-elsewhere")

	req := httptest.NewRequest(http.MethodPost, "/refresh-token", nil)
	req.AddCookie(oldRefresh)
	rec := httptest.NewRecorder()
	handler.RefreshTokenHandler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a superseded refresh token, got %d", rec.Code)
	}
}

func TestRefreshTokenHandlerMissingCookie(t *testing.T) {
	handler := NewAuthHandler(newFakeUserStore(), nil, testAuthConfig(), zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/refresh-token", nil)
	rec := httptest.NewRecorder()
	handler.RefreshTokenHandler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a refresh cookie, got %d", rec.Code)
	}
}

func TestLogoutHandlerClearsState(t *testing.T) {
	store := newFakeUserStore()
	cfg := testAuthConfig()
	handler := NewAuthHandler(store, nil, cfg, zap.NewNop())
	registerRec := doRegister(t, handler, registerBody())
	access := cookieByName(registerRec, middleware.AccessTokenCookie)

	wrapped := middleware.Authenticate(cfg.AccessTokenSecret)(http.HandlerFunc(handler.LogoutHandler))
	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(access)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	user, _ := store.GetByEmail(context.Background(), "alice@example.com")
	if user.RefreshToken != "" {
		t.Error("logout must clear the stored refresh token")
	}

	cleared := cookieByName(rec, middleware.AccessTokenCookie)
	if cleared == nil || cleared.MaxAge >= 0 {
		t.Error("logout must expire the access cookie")
	}
}

func TestGetUserHandler(t *testing.T) {
	store := newFakeUserStore()
	cfg := testAuthConfig()
	handler := NewAuthHandler(store, nil, cfg, zap.NewNop())
	registerRec := doRegister(t, handler, registerBody())
	access := cookieByName(registerRec, middleware.AccessTokenCookie)

	wrapped := middleware.Authenticate(cfg.AccessTokenSecret)(http.HandlerFunc(handler.GetUserHandler))
	req := httptest.NewRequest(http.MethodGet, "/getUser", nil)
	req.AddCookie(access)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "alice@example.com") {
		t.Errorf("expected user in response, got %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response must not include the password field")
	}
}

func TestGoogleAuthHandler(t *testing.T) {
	store := newFakeUserStore()
	exchanger := &fakeExchanger{profile: &auth.GoogleProfile{
		Email:      "alice@example.com",
		GivenName:  "Alice",
		FamilyName: "Tan",
	}}
	handler := NewAuthHandler(store, exchanger, testAuthConfig(), zap.NewNop())

	wrapped := middleware.ValidateRequest[*models.GoogleAuthRequest]()(http.HandlerFunc(handler.GoogleAuthHandler))
	req := httptest.NewRequest(http.MethodPost, "/auth/google-auth-code", strings.NewReader(`{"code":"auth-code"}`))
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, err := store.GetByEmail(context.Background(), "alice@example.com"); err != nil {
		t.Errorf("expected google user upserted: %v", err)
	}
	if cookieByName(rec, middleware.AccessTokenCookie) == nil {
		t.Error("expected auth cookies after google sign-in")
	}
}

func TestGoogleAuthHandlerExchangeFailure(t *testing.T) {
	handler := NewAuthHandler(newFakeUserStore(), &fakeExchanger{err: context.DeadlineExceeded}, testAuthConfig(), zap.NewNop())

	wrapped := middleware.ValidateRequest[*models.GoogleAuthRequest]()(http.HandlerFunc(handler.GoogleAuthHandler))
	req := httptest.NewRequest(http.MethodPost, "/auth/google-auth-code", strings.NewReader(`{"code":"bad-code"}`))
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for failed exchange, got %d", rec.Code)
	}
}
