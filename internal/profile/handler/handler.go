// Package handler exposes the profile HTTP endpoints.
package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"onderwijsloket_backend/internal/chat/dialogue"
	"onderwijsloket_backend/internal/profile/transport"
	"onderwijsloket_backend/platform/httpkit"
	"onderwijsloket_backend/platform/logger"
	"onderwijsloket_backend/platform/validator"
)

const (
	msgInvalidRequest = "Ongeldig verzoek"
	msgMissingFile    = "Geen bestand meegestuurd"
)

// Service is the profile logic the handler depends on.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (transport.ProfileResponse, error)
	Update(ctx context.Context, userID uuid.UUID, req transport.UpdateProfileRequest) (transport.ProfileResponse, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (transport.UploadResponse, error)
	UploadCV(ctx context.Context, userID uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (transport.UploadResponse, error)
}

// Handler handles profile HTTP requests.
type Handler struct {
	service   Service
	validator *validator.Validator
	logger    *logger.Logger
}

// NewHandler creates a new profile handler.
func NewHandler(service Service, v *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{
		service:   service,
		validator: v,
		logger:    log,
	}
}

// GetProfile returns the signed-in user's profile.
// GET /api/v1/profile
func (h *Handler) GetProfile(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), identity.UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

// UpdateProfile updates the editable profile fields.
// PUT /api/v1/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	resp, err := h.service.Update(c.Request.Context(), identity.UserID(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

// GetPhases returns the orientation phase table the dashboard renders.
// GET /api/v1/phases
func (h *Handler) GetPhases(c *gin.Context) {
	phases := make([]transport.PhaseResponse, 0, len(dialogue.Phases))
	for _, p := range dialogue.Phases {
		rule := dialogue.RuleFor(p)
		phases = append(phases, transport.PhaseResponse{
			Code:        string(p),
			Title:       rule.Title,
			Description: rule.Description,
			Intent:      rule.Intent,
			Tone:        rule.Tone,
			Actions:     dialogue.WelcomeActions(p),
		})
	}
	httpkit.OK(c, gin.H{"phases": phases})
}

// UploadAvatar stores a new profile picture.
// POST /api/v1/profile/avatar
func (h *Handler) UploadAvatar(c *gin.Context) {
	h.upload(c, h.service.UploadAvatar)
}

// UploadCV stores a new CV document.
// POST /api/v1/profile/cv
func (h *Handler) UploadCV(c *gin.Context) {
	h.upload(c, h.service.UploadCV)
}

type uploadFunc func(ctx context.Context, userID uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (transport.UploadResponse, error)

func (h *Handler) upload(c *gin.Context, fn uploadFunc) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgMissingFile, nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	resp, err := fn(c.Request.Context(), identity.UserID(), fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}
