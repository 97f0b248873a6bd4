package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/CodeXGautam/Vocintera/internal/evaluation"
	"github.com/CodeXGautam/Vocintera/internal/middleware"
	"github.com/CodeXGautam/Vocintera/internal/models"
	"github.com/CodeXGautam/Vocintera/internal/repositories"
	"github.com/CodeXGautam/Vocintera/internal/utils"
)

// EvaluationHandler serves evaluation creation and read endpoints.
type EvaluationHandler struct {
	engine *evaluation.Engine
	logger *zap.Logger
}

func NewEvaluationHandler(engine *evaluation.Engine, logger *zap.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		engine: engine,
		logger: logger,
	}
}

func (h *EvaluationHandler) EvaluateHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.UserID(r)
	if !ok {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "interviewId"))
	if err != nil {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "not_found",
			Message: "Interview not found",
		})
		return
	}

	eval, err := h.engine.Evaluate(r.Context(), id, owner)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "not_found",
			Message: "Interview not found",
		})
		return
	case errors.Is(err, evaluation.ErrNotEvaluable):
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "not_completed",
			Message: "Interview must be completed before evaluation",
		})
		return
	case err != nil:
		h.logger.Error("evaluation failed", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Internal server error",
		})
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Interview evaluated successfully",
		"evaluation":  eval,
		"interviewId": id.Hex(),
	})
}

func (h *EvaluationHandler) DetailHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.UserID(r)
	if !ok {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "interviewId"))
	if err != nil {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "not_found",
			Message: "Interview evaluation not found",
		})
		return
	}

	session, err := h.engine.Detail(r.Context(), id, owner)
	if errors.Is(err, repositories.ErrNotFound) {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "not_found",
			Message: "Interview evaluation not found",
		})
		return
	}
	if err != nil {
		h.logger.Error("failed to load evaluation", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Internal server error",
		})
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Interview evaluation retrieved successfully",
		"evaluation": session.Evaluation,
		"interview": map[string]interface{}{
			"id":           session.ID.Hex(),
			"role":         session.Role,
			"evaluatedAt":  session.EvaluatedAt,
			"conversation": session.Conversation,
		},
	})
}

func (h *EvaluationHandler) StatisticsHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.UserID(r)
	if !ok {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	stats, err := h.engine.Statistics(r.Context(), owner)
	if err != nil {
		h.logger.Error("failed to compute evaluation statistics", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Internal server error",
		})
		return
	}

	message := "Evaluation statistics retrieved successfully"
	if stats.TotalInterviews == 0 {
		message = "No evaluated interviews found"
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message":    message,
		"statistics": stats,
	})
}
