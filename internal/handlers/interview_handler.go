package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/CodeXGautam/Vocintera/internal/interview"
	"github.com/CodeXGautam/Vocintera/internal/middleware"
	"github.com/CodeXGautam/Vocintera/internal/models"
	"github.com/CodeXGautam/Vocintera/internal/upload"
	"github.com/CodeXGautam/Vocintera/internal/utils"
)

// resumes are small PDFs; anything bigger than this is rejected outright
const maxResumeSize = 10 << 20

// InterviewHandler serves session creation and read endpoints.
type InterviewHandler struct {
	service  *interview.Service
	uploader upload.Uploader
	logger   *zap.Logger
}

func NewInterviewHandler(service *interview.Service, uploader upload.Uploader, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		service:  service,
		uploader: uploader,
		logger:   logger,
	}
}

// CreateInterviewHandler accepts a multipart form with role, time and a
// resume file. The resume is resolved to a URL before the session is
// persisted.
func (h *InterviewHandler) CreateInterviewHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.UserID(r)
	if !ok {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	if err := r.ParseMultipartForm(maxResumeSize); err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_form",
			Message: "Invalid multipart form",
		})
		return
	}

	role := r.FormValue("role")
	timeStr := r.FormValue("time")
	if role == "" || timeStr == "" {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "missing_fields",
			Message: "All fields are required",
		})
		return
	}

	scheduled, err := time.Parse(time.RFC3339, timeStr)
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_time",
			Message: "Time must be an RFC3339 timestamp",
		})
		return
	}

	// the server starts without an uploader when Cloudinary is unconfigured
	if h.uploader == nil {
		utils.JSON(w, http.StatusServiceUnavailable, models.ErrorResponse{
			Code:    "uploads_unavailable",
			Message: "Resume uploads are not configured",
		})
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "missing_resume",
			Message: "All fields are required",
		})
		return
	}
	defer file.Close()

	resumeURL, err := h.uploader.Upload(r.Context(), header.Filename, file)
	if err != nil {
		h.logger.Error("resume upload failed", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Internal server error",
		})
		return
	}

	session, err := h.service.Create(r.Context(), owner, role, scheduled, resumeURL)
	if err != nil {
		h.logger.Error("failed to create interview", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Internal server error",
		})
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Interview created successfully",
		"interview": session,
	})
}

func (h *InterviewHandler) GetInterviewInfoHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.UserID(r)
	if !ok {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	sessions, err := h.service.List(r.Context(), owner)
	if err != nil {
		h.logger.Error("failed to list interviews", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Internal server error",
		})
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"interviews": sessions,
	})
}

func (h *InterviewHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.UserID(r)
	if !ok {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	stats, err := h.service.Stats(r.Context(), owner)
	if err != nil {
		h.logger.Error("failed to compute interview stats", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Internal server error",
		})
		return
	}

	utils.JSON(w, http.StatusOK, stats)
}
