package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/CodeXGautam/Vocintera/internal/handlers"
	"github.com/CodeXGautam/Vocintera/internal/middleware"
	"github.com/CodeXGautam/Vocintera/internal/models"
)

func GeminiRoutes(router *chi.Mux, responseHandler *handlers.ResponseHandler, accessSecret string) {
	router.Route("/gemini", func(r chi.Router) {
		r.Use(middleware.Authenticate(accessSecret))
		r.With(middleware.ValidateRequest[*models.StartInterviewRequest]()).Post("/start-interview", responseHandler.StartInterviewHandler)
		r.With(middleware.ValidateRequest[*models.TurnRequest]()).Post("/get-response", responseHandler.GetResponseHandler)
		r.With(middleware.ValidateRequest[*models.EndInterviewRequest]()).Post("/end-interview", responseHandler.EndInterviewHandler)
	})
}
