package handlers

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/CodeXGautam/Vocintera/internal/interview"
	"github.com/CodeXGautam/Vocintera/internal/middleware"
	"github.com/CodeXGautam/Vocintera/internal/models"
	"github.com/CodeXGautam/Vocintera/internal/repositories"
	"github.com/CodeXGautam/Vocintera/internal/utils"
)

// ResponseHandler serves the turn-by-turn interview endpoints.
type ResponseHandler struct {
	orchestrator *interview.Orchestrator
	logger       *zap.Logger
}

func NewResponseHandler(orchestrator *interview.Orchestrator, logger *zap.Logger) *ResponseHandler {
	return &ResponseHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

func (h *ResponseHandler) StartInterviewHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.StartInterviewRequest](r)

	owner, ok := middleware.UserID(r)
	if !ok {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	id, err := primitive.ObjectIDFromHex(req.InterviewID)
	if err != nil {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "not_found",
			Message: "Interview not found",
		})
		return
	}

	result, err := h.orchestrator.Start(r.Context(), id, owner)
	if err != nil {
		h.writeError(w, err, "failed to start interview")
		return
	}

	utils.JSON(w, http.StatusOK, models.StartInterviewResponse{
		InitialQuestion: result.Question,
		UsingFallback:   result.UsingFallback,
	})
}

func (h *ResponseHandler) GetResponseHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.TurnRequest](r)

	owner, ok := middleware.UserID(r)
	if !ok {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	id, err := primitive.ObjectIDFromHex(req.InterviewID)
	if err != nil {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "not_found",
			Message: "Interview not found",
		})
		return
	}

	result, err := h.orchestrator.SubmitAnswer(r.Context(), id, owner, req.Question)
	if err != nil {
		h.writeError(w, err, "failed to generate response")
		return
	}

	utils.JSON(w, http.StatusOK, models.TurnResponse{
		AIResponse:      result.Question,
		IsUsingFallback: result.UsingFallback,
	})
}

func (h *ResponseHandler) EndInterviewHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.EndInterviewRequest](r)

	owner, ok := middleware.UserID(r)
	if !ok {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	id, err := primitive.ObjectIDFromHex(req.InterviewID)
	if err != nil {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "not_found",
			Message: "Interview not found",
		})
		return
	}

	session, err := h.orchestrator.End(r.Context(), id, owner, req.IsManual)
	if err != nil {
		h.writeError(w, err, "failed to end interview")
		return
	}

	utils.JSON(w, http.StatusOK, models.EndInterviewResponse{
		InterviewID: session.ID.Hex(),
		Status:      session.Status,
	})
}

func (h *ResponseHandler) writeError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "not_found",
			Message: "Interview not found",
		})
	case errors.Is(err, interview.ErrEmptyAnswer):
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "missing_question",
			Message: "Interview ID and question are required",
		})
	default:
		h.logger.Error(logMsg, zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Internal server error",
		})
	}
}
