package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/CodeXGautam/Vocintera/internal/handlers"
	"github.com/CodeXGautam/Vocintera/internal/middleware"
	"github.com/CodeXGautam/Vocintera/internal/models"
)

func AuthRoutes(router *chi.Mux, authHandler *handlers.AuthHandler, accessSecret string) {
	router.With(middleware.ValidateRequest[*models.RegisterRequest]()).Post("/register", authHandler.RegisterHandler)
	router.With(middleware.ValidateRequest[*models.LoginRequest]()).Post("/login", authHandler.LoginHandler)
	router.Post("/refresh-token", authHandler.RefreshTokenHandler)
	router.With(middleware.ValidateRequest[*models.GoogleAuthRequest]()).Post("/auth/google-auth-code", authHandler.GoogleAuthHandler)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(accessSecret))
		r.Get("/logout", authHandler.LogoutHandler)
		r.Get("/getUser", authHandler.GetUserHandler)
	})
}
