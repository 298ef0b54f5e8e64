package translation

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/musinov501/havas-api-clone/internal/domain/models"
	"github.com/musinov501/havas-api-clone/internal/lib/logger/sl"
	storage "github.com/musinov501/havas-api-clone/internal/storage/filestorage"

	"github.com/google/uuid"
)

// TranslationStore запись строк перевода, вызывается внутри транзакции владельца
type TranslationStore interface {
	UpsertTranslation(ctx context.Context, t models.Translation) error
}

// MediaStore запись медиа-строк, вызывается внутри транзакции владельца
type MediaStore interface {
	CreateMedia(ctx context.Context, media *models.Media) (*models.Media, error)
}

// WriteInput плоский мультиязычный payload.
// Наличие ключа в Values с пустым значением означает "записать пустую строку";
// отсутствие ключа не трогает существующий перевод.
type WriteInput struct {
	Values     map[string]string
	Files      map[string][]*multipart.FileHeader
	UploadedBy uuid.UUID
}

// Writer раскладывает payload по строкам переводов и медиа.
// Атомарность обеспечивает вызывающий: оба store должны быть привязаны
// к одной транзакции.
type Writer struct {
	log   *slog.Logger
	files storage.FileStorage
}

func NewWriter(log *slog.Logger, files storage.FileStorage) *Writer {
	return &Writer{log: log, files: files}
}

// Validate проверяет payload целиком до какой-либо записи
func (w *Writer) Validate(schema *Schema, input WriteInput) error {
	for key := range input.Values {
		if schema.strayLanguageKey(key) {
			return newValidationError(key, "unsupported language suffix")
		}
	}

	for key, files := range input.Files {
		mk, ok := schema.LookupMedia(key)
		if !ok {
			if schema.strayLanguageKey(key) {
				return newValidationError(key, "unsupported language suffix")
			}
			return newValidationError(key, "file posted to non-media field")
		}
		if !mk.List && len(files) > 1 {
			return newValidationError(key, "field accepts a single file, got %d", len(files))
		}
	}

	return nil
}

// Apply записывает переводы и медиа для владельца ownerID. Возвращает пути
// файлов, сохраненных в хранилище: при откате внешней транзакции вызывающий
// обязан удалить их сам. При ошибке внутри Apply уже сохраненные файлы
// удаляются до возврата.
func (w *Writer) Apply(ctx context.Context, translations TranslationStore, media MediaStore, schema *Schema, ownerID uuid.UUID, input WriteInput) ([]string, error) {
	const op = "translation.Writer.Apply"

	log := w.log.With(
		slog.String("op", op),
		slog.String("owner_type", string(schema.Owner())),
		slog.String("owner_id", ownerID.String()),
	)

	if err := w.Validate(schema, input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	for key, value := range input.Values {
		tk, ok := schema.LookupText(key)
		if !ok {
			// базовый атрибут, обрабатывается владельцем
			continue
		}

		err := translations.UpsertTranslation(ctx, models.Translation{
			OwnerType: schema.Owner(),
			OwnerID:   ownerID,
			Field:     tk.Field,
			Language:  tk.Language,
			Value:     value,
			UpdatedAt: now,
		})
		if err != nil {
			log.Error("failed to upsert translation", slog.String("key", key), sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	var saved []string

	fail := func(err error) ([]string, error) {
		for _, path := range saved {
			_ = w.files.Delete(ctx, path)
		}
		return nil, err
	}

	for key, files := range input.Files {
		mk, _ := schema.LookupMedia(key)

		for _, file := range files {
			if file == nil {
				continue
			}

			subPath := filepath.Join(string(schema.Owner()), ownerID.String())
			path, size, err := w.files.Save(ctx, file, subPath)
			if err != nil {
				log.Error("failed to save file", slog.String("key", key), sl.Err(err))
				return fail(fmt.Errorf("%s: %w", op, err))
			}
			saved = append(saved, path)

			m := models.NewMedia(schema.Owner(), ownerID, mk.Kind, file.Filename, path, size)
			m.Language = mk.Language
			m.UploadedBy = input.UploadedBy

			if err := m.Validate(); err != nil {
				log.Error("media validation failed", sl.Err(err))
				return fail(fmt.Errorf("%s: %w", op, err))
			}

			if _, err := media.CreateMedia(ctx, m); err != nil {
				log.Error("failed to save media row", slog.String("key", key), sl.Err(err))
				return fail(fmt.Errorf("%s: %w", op, err))
			}
		}
	}

	return saved, nil
}
