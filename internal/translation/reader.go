package translation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/musinov501/havas-api-clone/internal/domain/models"
	storage "github.com/musinov501/havas-api-clone/internal/storage/filestorage"

	"github.com/google/uuid"
)

// TranslationProvider чтение строк перевода владельца
type TranslationProvider interface {
	ListTranslations(ctx context.Context, owner models.OwnerType, ownerID uuid.UUID) ([]models.Translation, error)
}

// MediaProvider чтение медиа-строк владельца
type MediaProvider interface {
	ListMediaByOwner(ctx context.Context, owner models.OwnerType, ownerID uuid.UUID) ([]models.Media, error)
}

// MediaItem внешнее представление медиафайла
type MediaItem struct {
	ID       uuid.UUID        `json:"id"`
	URL      *string          `json:"url"`
	Filename string           `json:"filename"`
	Size     int64            `json:"size"`
	Type     models.MediaType `json:"type"`
	Language *models.Language `json:"language"`
}

// Reader собирает представление сущности из базовых атрибутов, переводов
// и медиа. Без побочных эффектов: повторный вызов на тех же данных дает
// идентичный результат.
type Reader struct {
	log          *slog.Logger
	translations TranslationProvider
	media        MediaProvider
	files        storage.FileStorage
}

func NewReader(log *slog.Logger, translations TranslationProvider, media MediaProvider, files storage.FileStorage) *Reader {
	return &Reader{
		log:          log,
		translations: translations,
		media:        media,
		files:        files,
	}
}

// Represent строит представление по режиму из контекста запроса.
//
// SINGLE: каждое текстовое поле F отдается как F со значением перевода на
// запрошенный язык либо пустой строкой. Язык никогда не подменяется другим.
// Медиа-поля отдаются только для запрошенного языка.
//
// ALL: каждое текстовое поле отдается как набор F_<lang> по всем языкам
// реестра, голый ключ F опускается. Переводимые медиа-поля отдаются как
// отображение язык -> файлы.
//
// Общие медиа-поля в обоих режимах отдаются одинаково.
func (r *Reader) Represent(ctx context.Context, schema *Schema, ownerID uuid.UUID, base map[string]interface{}, rctx RequestContext) (map[string]interface{}, error) {
	const op = "translation.Reader.Represent"

	texts, err := r.translations.ListTranslations(ctx, schema.Owner(), ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	mediaRows, err := r.media.ListMediaByOwner(ctx, schema.Owner(), ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make(map[string]interface{}, len(base)+len(schema.TextFields()))
	for k, v := range base {
		out[k] = v
	}

	byFieldLang := make(map[string]map[models.Language]string, len(texts))
	for _, t := range texts {
		if byFieldLang[t.Field] == nil {
			byFieldLang[t.Field] = make(map[models.Language]string)
		}
		byFieldLang[t.Field][t.Language] = t.Value
	}

	mode := SelectMode(rctx)

	switch mode {
	case ModeSingle:
		lang, _ := rctx.ResolvedLanguage()

		for _, field := range schema.TextFields() {
			out[field] = byFieldLang[field][lang]
		}
		for _, mk := range schema.TranslatableMediaFields() {
			out[mk.Field] = r.renderMedia(mediaRows, mk, &lang)
		}
	case ModeAll:
		for _, field := range schema.TextFields() {
			for _, li := range models.AllLanguages() {
				out[field+"_"+li.Code.Suffix()] = byFieldLang[field][li.Code]
			}
		}
		for _, mk := range schema.TranslatableMediaFields() {
			perLang := make(map[string]interface{}, len(models.AllLanguages()))
			for _, li := range models.AllLanguages() {
				lang := li.Code
				perLang[lang.Suffix()] = r.renderMedia(mediaRows, mk, &lang)
			}
			out[mk.Field] = perLang
		}
	}

	for _, mk := range schema.SharedMediaFields() {
		out[mk.Field] = r.renderMedia(mediaRows, mk, nil)
	}

	return out, nil
}

// renderMedia отбирает файлы по (вид, язык); lang == nil отбирает общие
func (r *Reader) renderMedia(rows []models.Media, mk MediaKey, lang *models.Language) interface{} {
	items := make([]MediaItem, 0, len(rows))
	for _, m := range rows {
		if m.MediaType != mk.Kind {
			continue
		}
		if lang == nil {
			if m.Language != nil {
				continue
			}
		} else if m.Language == nil || *m.Language != *lang {
			continue
		}
		items = append(items, r.toItem(m))
	}

	if mk.List {
		return items
	}
	if len(items) == 0 {
		return nil
	}
	return items[0]
}

func (r *Reader) toItem(m models.Media) MediaItem {
	var url *string
	if m.StoragePath != "" {
		u := r.files.BaseURL() + "/" + m.StoragePath
		url = &u
	}

	return MediaItem{
		ID:       m.ID,
		URL:      url,
		Filename: m.OriginalFilename,
		Size:     m.FileSize,
		Type:     m.MediaType,
		Language: m.Language,
	}
}
