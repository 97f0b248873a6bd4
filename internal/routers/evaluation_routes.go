package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/CodeXGautam/Vocintera/internal/handlers"
	"github.com/CodeXGautam/Vocintera/internal/middleware"
)

func EvaluationRoutes(router *chi.Mux, evaluationHandler *handlers.EvaluationHandler, accessSecret string) {
	router.Route("/evaluation", func(r chi.Router) {
		r.Use(middleware.Authenticate(accessSecret))
		r.Get("/statistics", evaluationHandler.StatisticsHandler)
		r.Post("/{interviewId}", evaluationHandler.EvaluateHandler)
		r.Get("/{interviewId}", evaluationHandler.DetailHandler)
	})
}
