package storage

import (
	"fmt"
	"strings"
)

// allowedImageTypes are the accepted avatar MIME types.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// allowedDocumentTypes are the accepted CV MIME types.
var allowedDocumentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// ValidateImageType checks that the content type is an allowed image.
func (s *MinIOService) ValidateImageType(contentType string) error {
	if !allowedImageTypes[normalizeContentType(contentType)] {
		return fmt.Errorf("content type %q is not allowed for images", contentType)
	}
	return nil
}

// ValidateDocumentType checks that the content type is an allowed document.
func (s *MinIOService) ValidateDocumentType(contentType string) error {
	if !allowedDocumentTypes[normalizeContentType(contentType)] {
		return fmt.Errorf("content type %q is not allowed for documents", contentType)
	}
	return nil
}

// ValidateFileSize checks that the file size is within limits.
func (s *MinIOService) ValidateFileSize(sizeBytes int64) error {
	if sizeBytes <= 0 {
		return fmt.Errorf("file size must be greater than 0")
	}
	if sizeBytes > s.maxFileSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of %d bytes", sizeBytes, s.maxFileSize)
	}
	return nil
}

// normalizeContentType strips parameters like charset and lowercases.
func normalizeContentType(contentType string) string {
	normalized := strings.Split(contentType, ";")[0]
	return strings.TrimSpace(strings.ToLower(normalized))
}
