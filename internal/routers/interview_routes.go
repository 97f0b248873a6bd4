package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/CodeXGautam/Vocintera/internal/handlers"
	"github.com/CodeXGautam/Vocintera/internal/middleware"
)

func InterviewRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler, accessSecret string) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(accessSecret))
		r.Post("/createInterview", interviewHandler.CreateInterviewHandler)
		r.Get("/getInterviewInfo", interviewHandler.GetInterviewInfoHandler)
		r.Get("/interview/stats", interviewHandler.StatsHandler)
	})
}
