package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"onderwijsloket_backend/internal/adapters/storage"
	"onderwijsloket_backend/internal/events"
	"onderwijsloket_backend/internal/profile/repository"
	"onderwijsloket_backend/internal/profile/transport"
	"onderwijsloket_backend/platform/apperr"
	"onderwijsloket_backend/platform/logger"
)

type fakeRepo struct {
	profiles map[uuid.UUID]repository.Profile
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{profiles: make(map[uuid.UUID]repository.Profile)}
}

func (f *fakeRepo) Get(_ context.Context, userID uuid.UUID) (repository.Profile, bool, error) {
	p, ok := f.profiles[userID]
	return p, ok, nil
}

func (f *fakeRepo) Upsert(_ context.Context, p repository.Profile) (repository.Profile, error) {
	f.profiles[p.UserID] = p
	return p, nil
}

type fakeStorage struct {
	uploaded map[string]string
}

func (f *fakeStorage) UploadFile(_ context.Context, bucket, folder, fileName, _ string, _ io.Reader, _ int64) (string, error) {
	key := folder + "/" + fileName
	if f.uploaded == nil {
		f.uploaded = make(map[string]string)
	}
	f.uploaded[key] = bucket
	return key, nil
}

func (f *fakeStorage) GenerateDownloadURL(_ context.Context, bucket, fileKey string) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{URL: "https://minio.test/" + bucket + "/" + fileKey, FileKey: fileKey}, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, _, _ string) error        { return nil }
func (f *fakeStorage) EnsureBucketExists(_ context.Context, _ string) error     { return nil }
func (f *fakeStorage) ValidateFileSize(size int64) error                        { return nil }
func (f *fakeStorage) ValidateImageType(contentType string) error {
	if !strings.HasPrefix(contentType, "image/") {
		return apperr.Validation("geen afbeelding")
	}
	return nil
}
func (f *fakeStorage) ValidateDocumentType(contentType string) error {
	if contentType != "application/pdf" {
		return apperr.Validation("geen document")
	}
	return nil
}

type fakeConfig struct{}

func (fakeConfig) GetMinIOEndpoint() string        { return "minio:9000" }
func (fakeConfig) GetMinIOAccessKey() string       { return "x" }
func (fakeConfig) GetMinIOSecretKey() string       { return "y" }
func (fakeConfig) GetMinIOUseSSL() bool            { return false }
func (fakeConfig) GetMinIOMaxFileSize() int64      { return 1 << 20 }
func (fakeConfig) GetMinioBucketAvatars() string   { return "profile-avatars" }
func (fakeConfig) GetMinioBucketDocuments() string { return "profile-documents" }
func (fakeConfig) IsMinIOEnabled() bool            { return true }

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(_ context.Context, e events.Event) { f.published = append(f.published, e) }
func (f *fakeBus) PublishSync(_ context.Context, e events.Event) error {
	f.published = append(f.published, e)
	return nil
}
func (f *fakeBus) Subscribe(_ string, _ events.Handler) {}

func TestGetCreatesDefaultProfile(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, &fakeStorage{}, fakeConfig{}, &fakeBus{}, logger.New("test"))

	userID := uuid.New()
	resp, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if resp.CurrentPhase != "interesseren" {
		t.Errorf("phase = %q", resp.CurrentPhase)
	}
	if _, ok := repo.profiles[userID]; !ok {
		t.Error("default profile not persisted")
	}
}

func TestUpdatePublishesPhaseAdvanced(t *testing.T) {
	repo := newFakeRepo()
	bus := &fakeBus{}
	svc := New(repo, &fakeStorage{}, fakeConfig{}, bus, logger.New("test"))

	userID := uuid.New()
	repo.profiles[userID] = repository.Profile{UserID: userID, CurrentPhase: "interesseren"}

	resp, err := svc.Update(context.Background(), userID, transport.UpdateProfileRequest{
		CurrentPhase:    "orienteren",
		PreferredSector: "VO",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.CurrentPhase != "orienteren" || resp.PreferredSector != "VO" {
		t.Errorf("resp = %+v", resp)
	}

	if len(bus.published) != 1 {
		t.Fatalf("published = %v", bus.published)
	}
	advanced, ok := bus.published[0].(events.PhaseAdvanced)
	if !ok || advanced.OldPhase != "interesseren" || advanced.NewPhase != "orienteren" {
		t.Errorf("event = %+v", bus.published[0])
	}
}

func TestUpdateSamePhaseNoEvent(t *testing.T) {
	repo := newFakeRepo()
	bus := &fakeBus{}
	svc := New(repo, &fakeStorage{}, fakeConfig{}, bus, logger.New("test"))

	userID := uuid.New()
	repo.profiles[userID] = repository.Profile{UserID: userID, CurrentPhase: "beslissen"}

	if _, err := svc.Update(context.Background(), userID, transport.UpdateProfileRequest{FirstName: "Fatima"}); err != nil {
		t.Fatal(err)
	}
	if len(bus.published) != 0 {
		t.Errorf("published = %v", bus.published)
	}
}

func TestUpdateRejectsUnknownPhase(t *testing.T) {
	svc := New(newFakeRepo(), &fakeStorage{}, fakeConfig{}, &fakeBus{}, logger.New("test"))

	_, err := svc.Update(context.Background(), uuid.New(), transport.UpdateProfileRequest{CurrentPhase: "klaar"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("err = %v", err)
	}
}

func TestUploadAvatarStoresKeyAndReturnsURL(t *testing.T) {
	repo := newFakeRepo()
	store := &fakeStorage{}
	svc := New(repo, store, fakeConfig{}, &fakeBus{}, logger.New("test"))

	userID := uuid.New()
	resp, err := svc.UploadAvatar(context.Background(), userID, "foto.png", "image/png", strings.NewReader("img"), 3)
	if err != nil {
		t.Fatal(err)
	}
	if resp.FileKey == "" || !strings.Contains(resp.URL, "profile-avatars") {
		t.Errorf("resp = %+v", resp)
	}
	if repo.profiles[userID].AvatarKey != resp.FileKey {
		t.Errorf("avatar key = %q", repo.profiles[userID].AvatarKey)
	}
}

func TestUploadCVRejectsWrongType(t *testing.T) {
	svc := New(newFakeRepo(), &fakeStorage{}, fakeConfig{}, &fakeBus{}, logger.New("test"))

	_, err := svc.UploadCV(context.Background(), uuid.New(), "cv.exe", "application/octet-stream", strings.NewReader("x"), 1)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("err = %v", err)
	}
}

func TestUploadWithoutStorageUnavailable(t *testing.T) {
	svc := New(newFakeRepo(), nil, fakeConfig{}, &fakeBus{}, logger.New("test"))

	_, err := svc.UploadAvatar(context.Background(), uuid.New(), "foto.png", "image/png", strings.NewReader("x"), 1)
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Errorf("err = %v", err)
	}
}

func TestPhaseAndSector(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, &fakeStorage{}, fakeConfig{}, &fakeBus{}, logger.New("test"))

	userID := uuid.New()
	repo.profiles[userID] = repository.Profile{UserID: userID, CurrentPhase: "matchen", PreferredSector: "MBO"}

	phase, sector, err := svc.PhaseAndSector(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if phase != "matchen" || sector != "MBO" {
		t.Errorf("phase = %q, sector = %q", phase, sector)
	}

	phase, sector, err = svc.PhaseAndSector(context.Background(), uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if phase != "interesseren" || sector != "" {
		t.Errorf("default phase = %q, sector = %q", phase, sector)
	}
}
