package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type MediaType string

const (
	MediaTypeImage    MediaType = "image"
	MediaTypeVideo    MediaType = "video"
	MediaTypeAudio    MediaType = "audio"
	MediaTypeDocument MediaType = "document"
	MediaTypeOther    MediaType = "other"
)

// OwnerType вид сущности, которой принадлежит медиафайл
type OwnerType string

const (
	OwnerTypeProduct      OwnerType = "product"
	OwnerTypeStory        OwnerType = "story"
	OwnerTypeRecipe       OwnerType = "recipe"
	OwnerTypeNotification OwnerType = "notification"
)

func (o OwnerType) IsValid() bool {
	switch o {
	case OwnerTypeProduct, OwnerTypeStory, OwnerTypeRecipe, OwnerTypeNotification:
		return true
	}
	return false
}

// Media представляет медиафайл, принадлежащий сущности контента.
// Language == nil означает общий (внеязыковой) файл.
type Media struct {
	ID               uuid.UUID `json:"id" db:"id"`
	OwnerType        OwnerType `json:"owner_type" db:"owner_type"`
	OwnerID          uuid.UUID `json:"owner_id" db:"owner_id"`
	MediaType        MediaType `json:"media_type" db:"media_type"`
	Language         *Language `json:"language" db:"language"`
	StoragePath      string    `json:"storage_path" db:"storage_path"`
	OriginalFilename string    `json:"original_filename" db:"original_filename"`
	FileSize         int64     `json:"file_size" db:"file_size"`
	UploadedBy       uuid.UUID `json:"uploaded_by" db:"uploaded_by"`
	IsPublic         bool      `json:"is_public" db:"is_public"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// NewMedia создает новый экземпляр Media с заполненными обязательными полями
func NewMedia(owner OwnerType, ownerID uuid.UUID, mediaType MediaType, filename, path string, size int64) *Media {
	return &Media{
		ID:               uuid.New(),
		OwnerType:        owner,
		OwnerID:          ownerID,
		MediaType:        mediaType,
		OriginalFilename: filename,
		StoragePath:      path,
		FileSize:         size,
		IsPublic:         true,
		CreatedAt:        time.Now().UTC(),
	}
}

// Validate проверяет корректность данных медиафайла
func (m *Media) Validate() error {
	var validationErrors []string

	if !m.OwnerType.IsValid() {
		validationErrors = append(validationErrors, fmt.Sprintf("invalid owner type %q", m.OwnerType))
	}
	if m.OwnerID == uuid.Nil {
		validationErrors = append(validationErrors, "owner ID is required")
	}
	if m.OriginalFilename == "" {
		validationErrors = append(validationErrors, "original filename is required")
	}
	if len(m.OriginalFilename) > 255 {
		validationErrors = append(validationErrors, "original filename must be 255 characters or less")
	}
	if m.StoragePath == "" {
		validationErrors = append(validationErrors, "storage path is required")
	}
	if m.FileSize <= 0 {
		validationErrors = append(validationErrors, "file size must be positive")
	}
	if m.Language != nil && !m.Language.IsValid() {
		validationErrors = append(validationErrors, fmt.Sprintf("unsupported language %q", *m.Language))
	}

	switch m.MediaType {
	case MediaTypeImage, MediaTypeVideo, MediaTypeAudio, MediaTypeDocument, MediaTypeOther:
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("invalid media type %q", m.MediaType))
	}

	if len(validationErrors) > 0 {
		return &MediaValidationError{Errors: validationErrors}
	}

	return nil
}

// MediaValidationError кастомный тип ошибки для валидации
type MediaValidationError struct {
	Errors []string
}

func (e *MediaValidationError) Error() string {
	return fmt.Sprintf("media validation failed: %s", strings.Join(e.Errors, "; "))
}

// DetectMediaType infers the stored kind from a declared media field name,
// e.g. "images" -> image, "intro_video" -> video.
func DetectMediaType(fieldName string) MediaType {
	name := strings.ToLower(strings.TrimSuffix(fieldName, "s"))

	switch {
	case strings.Contains(name, "image"):
		return MediaTypeImage
	case strings.Contains(name, "video"):
		return MediaTypeVideo
	case strings.Contains(name, "audio"):
		return MediaTypeAudio
	case strings.Contains(name, "document"), strings.Contains(name, "file"):
		return MediaTypeDocument
	default:
		return MediaTypeOther
	}
}
