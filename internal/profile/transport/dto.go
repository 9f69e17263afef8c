// Package transport defines the HTTP request and response shapes for the
// profile module.
package transport

import (
	"time"

	"github.com/google/uuid"

	"onderwijsloket_backend/internal/chat/dialogue"
)

// UpdateProfileRequest updates the editable profile fields. Phase values
// are validated against the known orientation phases.
type UpdateProfileRequest struct {
	FirstName       string `json:"firstName" validate:"max=100"`
	LastName        string `json:"lastName" validate:"max=100"`
	CurrentPhase    string `json:"currentPhase" validate:"omitempty,oneof=interesseren orienteren beslissen matchen voorbereiden"`
	PreferredSector string `json:"preferredSector" validate:"omitempty,oneof=PO VO MBO"`
}

// ProfileResponse is the profile with presigned file URLs resolved.
type ProfileResponse struct {
	UserID          uuid.UUID `json:"userId"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	CurrentPhase    string    `json:"currentPhase"`
	PreferredSector string    `json:"preferredSector,omitempty"`
	AvatarURL       string    `json:"avatarUrl,omitempty"`
	CVURL           string    `json:"cvUrl,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// PhaseResponse describes one orientation phase for the dashboard.
type PhaseResponse struct {
	Code        string                 `json:"code"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Intent      string                 `json:"intent"`
	Tone        string                 `json:"tone"`
	Actions     []dialogue.PhaseAction `json:"actions"`
}

// UploadResponse reports a stored file.
type UploadResponse struct {
	FileKey string `json:"fileKey"`
	URL     string `json:"url"`
}
