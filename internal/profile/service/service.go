// Package service contains the profile business logic: orientation state,
// phase transitions and file uploads.
package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"onderwijsloket_backend/internal/adapters/storage"
	"onderwijsloket_backend/internal/chat/dialogue"
	"onderwijsloket_backend/internal/events"
	"onderwijsloket_backend/internal/profile/repository"
	"onderwijsloket_backend/internal/profile/transport"
	"onderwijsloket_backend/platform/apperr"
	"onderwijsloket_backend/platform/config"
	"onderwijsloket_backend/platform/logger"
)

// Service implements the profile use cases.
type Service struct {
	repo    repository.Repository
	storage storage.StorageService
	cfg     config.MinIOConfig
	bus     events.Bus
	log     *logger.Logger
}

// New creates the profile service. storage may be nil when MinIO is not
// configured; uploads then return an unavailable error.
func New(repo repository.Repository, store storage.StorageService, cfg config.MinIOConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		storage: store,
		cfg:     cfg,
		bus:     bus,
		log:     log,
	}
}

// Get returns the user's profile, materializing a default one on first
// access so every signed-in user starts in the interesseren phase.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (transport.ProfileResponse, error) {
	p, ok, err := s.repo.Get(ctx, userID)
	if err != nil {
		return transport.ProfileResponse{}, err
	}
	if !ok {
		p, err = s.repo.Upsert(ctx, repository.Profile{
			UserID:       userID,
			CurrentPhase: string(dialogue.PhaseInteresseren),
		})
		if err != nil {
			return transport.ProfileResponse{}, err
		}
	}
	return s.toResponse(ctx, p), nil
}

// Update applies the editable fields. A phase change is validated and
// published so other modules can react to funnel progression.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, req transport.UpdateProfileRequest) (transport.ProfileResponse, error) {
	p, ok, err := s.repo.Get(ctx, userID)
	if err != nil {
		return transport.ProfileResponse{}, err
	}
	if !ok {
		p = repository.Profile{UserID: userID, CurrentPhase: string(dialogue.PhaseInteresseren)}
	}

	oldPhase := p.CurrentPhase
	if req.FirstName != "" {
		p.FirstName = req.FirstName
	}
	if req.LastName != "" {
		p.LastName = req.LastName
	}
	if req.PreferredSector != "" {
		p.PreferredSector = req.PreferredSector
	}
	if req.CurrentPhase != "" {
		if !dialogue.IsValidPhase(req.CurrentPhase) {
			return transport.ProfileResponse{}, apperr.Validation(fmt.Sprintf("onbekende fase %q", req.CurrentPhase))
		}
		p.CurrentPhase = req.CurrentPhase
	}

	saved, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return transport.ProfileResponse{}, err
	}

	if saved.CurrentPhase != oldPhase && oldPhase != "" {
		s.bus.Publish(ctx, events.PhaseAdvanced{
			BaseEvent: events.NewBaseEvent(),
			UserID:    userID,
			OldPhase:  oldPhase,
			NewPhase:  saved.CurrentPhase,
		})
	}
	return s.toResponse(ctx, saved), nil
}

// UploadAvatar stores a profile picture and records its key.
func (s *Service) UploadAvatar(ctx context.Context, userID uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (transport.UploadResponse, error) {
	if s.storage == nil {
		return transport.UploadResponse{}, apperr.Unavailable("bestandsopslag is niet geconfigureerd")
	}
	if err := s.storage.ValidateImageType(contentType); err != nil {
		return transport.UploadResponse{}, apperr.Validation(err.Error())
	}
	return s.upload(ctx, userID, s.cfg.GetMinioBucketAvatars(), fileName, contentType, reader, size, func(p *repository.Profile, key string) {
		p.AvatarKey = key
	})
}

// UploadCV stores a CV document and records its key.
func (s *Service) UploadCV(ctx context.Context, userID uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (transport.UploadResponse, error) {
	if s.storage == nil {
		return transport.UploadResponse{}, apperr.Unavailable("bestandsopslag is niet geconfigureerd")
	}
	if err := s.storage.ValidateDocumentType(contentType); err != nil {
		return transport.UploadResponse{}, apperr.Validation(err.Error())
	}
	return s.upload(ctx, userID, s.cfg.GetMinioBucketDocuments(), fileName, contentType, reader, size, func(p *repository.Profile, key string) {
		p.CVKey = key
	})
}

// DisplayName returns the user's name for notifications, empty when the
// profile is missing or nameless.
func (s *Service) DisplayName(ctx context.Context, userID uuid.UUID) (string, error) {
	p, ok, err := s.repo.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName), nil
}

// PhaseAndSector returns the orientation state the chat prompt needs.
func (s *Service) PhaseAndSector(ctx context.Context, userID uuid.UUID) (string, string, error) {
	p, ok, err := s.repo.Get(ctx, userID)
	if err != nil {
		return "", "", err
	}
	if !ok {
		return string(dialogue.PhaseInteresseren), "", nil
	}
	return p.CurrentPhase, p.PreferredSector, nil
}

func (s *Service) upload(
	ctx context.Context,
	userID uuid.UUID,
	bucket, fileName, contentType string,
	reader io.Reader,
	size int64,
	assign func(*repository.Profile, string),
) (transport.UploadResponse, error) {
	if err := s.storage.ValidateFileSize(size); err != nil {
		return transport.UploadResponse{}, apperr.Validation(err.Error())
	}

	key, err := s.storage.UploadFile(ctx, bucket, userID.String(), fileName, contentType, reader, size)
	if err != nil {
		return transport.UploadResponse{}, fmt.Errorf("upload file: %w", err)
	}

	p, ok, err := s.repo.Get(ctx, userID)
	if err != nil {
		return transport.UploadResponse{}, err
	}
	if !ok {
		p = repository.Profile{UserID: userID, CurrentPhase: string(dialogue.PhaseInteresseren)}
	}
	assign(&p, key)
	if _, err := s.repo.Upsert(ctx, p); err != nil {
		return transport.UploadResponse{}, err
	}

	url := ""
	if presigned, err := s.storage.GenerateDownloadURL(ctx, bucket, key); err == nil {
		url = presigned.URL
	}
	return transport.UploadResponse{FileKey: key, URL: url}, nil
}

// toResponse resolves presigned URLs for the stored file keys. Presigning
// failures degrade to an empty URL rather than failing the profile read.
func (s *Service) toResponse(ctx context.Context, p repository.Profile) transport.ProfileResponse {
	resp := transport.ProfileResponse{
		UserID:          p.UserID,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		CurrentPhase:    p.CurrentPhase,
		PreferredSector: p.PreferredSector,
		UpdatedAt:       p.UpdatedAt,
	}

	if s.storage == nil {
		return resp
	}
	if p.AvatarKey != "" {
		if presigned, err := s.storage.GenerateDownloadURL(ctx, s.cfg.GetMinioBucketAvatars(), p.AvatarKey); err == nil {
			resp.AvatarURL = presigned.URL
		}
	}
	if p.CVKey != "" {
		if presigned, err := s.storage.GenerateDownloadURL(ctx, s.cfg.GetMinioBucketDocuments(), p.CVKey); err == nil {
			resp.CVURL = presigned.URL
		}
	}
	return resp
}
