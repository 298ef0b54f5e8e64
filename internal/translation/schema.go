package translation

import (
	"strings"

	"github.com/musinov501/havas-api-clone/internal/domain/models"

	gocache "github.com/patrickmn/go-cache"
)

// FieldSet декларация мультиязычных полей типа сущности.
// Поле, входящее и в Translatable, и в Media, является переводимым медиа.
type FieldSet struct {
	Owner        models.OwnerType
	Translatable []string
	Media        []string
}

// TextKey ключ вида title_en в плоском payload
type TextKey struct {
	Key      string
	Field    string
	Language models.Language
}

// MediaKey ключ медиа-поля. Language == nil для общих (внеязыковых) полей.
// List определяется по множественному числу имени поля, как и вид файла.
type MediaKey struct {
	Key      string
	Field    string
	Language *models.Language
	Kind     models.MediaType
	List     bool
}

// Schema развернутая поверхность ключей для одного типа сущности.
// Чистая функция от (FieldSet, реестр языков), считается один раз на тип.
type Schema struct {
	fieldSet   FieldSet
	textFields []string
	textKeys   map[string]TextKey
	mediaKeys  map[string]MediaKey
	media      []MediaKey // по одному элементу на (поле, язык) в порядке объявления
}

// Expand синтезирует поверхность ключей. Для каждого переводимого текстового
// поля F и языка L создается ключ F_l; для переводимого медиа-поля так же,
// для общего медиа-поля ровно один ключ без суффикса.
func Expand(fs FieldSet) *Schema {
	s := &Schema{
		fieldSet:  fs,
		textKeys:  make(map[string]TextKey),
		mediaKeys: make(map[string]MediaKey),
	}

	mediaSet := make(map[string]bool, len(fs.Media))
	for _, f := range fs.Media {
		mediaSet[f] = true
	}

	for _, field := range fs.Translatable {
		if mediaSet[field] {
			continue
		}
		s.textFields = append(s.textFields, field)
		for _, li := range models.AllLanguages() {
			key := field + "_" + li.Code.Suffix()
			s.textKeys[key] = TextKey{Key: key, Field: field, Language: li.Code}
		}
	}

	translatableSet := make(map[string]bool, len(fs.Translatable))
	for _, f := range fs.Translatable {
		translatableSet[f] = true
	}

	for _, field := range fs.Media {
		kind := models.DetectMediaType(field)
		isList := strings.HasSuffix(field, "s")

		if translatableSet[field] {
			for _, li := range models.AllLanguages() {
				lang := li.Code
				key := field + "_" + lang.Suffix()
				mk := MediaKey{Key: key, Field: field, Language: &lang, Kind: kind, List: isList}
				s.mediaKeys[key] = mk
				s.media = append(s.media, mk)
			}
		} else {
			mk := MediaKey{Key: field, Field: field, Kind: kind, List: isList}
			s.mediaKeys[field] = mk
			s.media = append(s.media, mk)
		}
	}

	return s
}

// schemaCache схемы по типу владельца, набор языков неизменен до рестарта
var schemaCache = gocache.New(gocache.NoExpiration, gocache.NoExpiration)

// SchemaFor возвращает кешированную схему для типа сущности
func SchemaFor(fs FieldSet) *Schema {
	if cached, ok := schemaCache.Get(string(fs.Owner)); ok {
		return cached.(*Schema)
	}

	s := Expand(fs)
	schemaCache.Set(string(fs.Owner), s, gocache.NoExpiration)

	return s
}

func (s *Schema) Owner() models.OwnerType { return s.fieldSet.Owner }

// TextFields переводимые текстовые поля (без медиа)
func (s *Schema) TextFields() []string { return s.textFields }

// MediaKeys все медиа-ключи в порядке объявления
func (s *Schema) MediaKeys() []MediaKey { return s.media }

func (s *Schema) LookupText(key string) (TextKey, bool) {
	tk, ok := s.textKeys[key]
	return tk, ok
}

func (s *Schema) LookupMedia(key string) (MediaKey, bool) {
	mk, ok := s.mediaKeys[key]
	return mk, ok
}

// SharedMediaFields медиа-поля без языковой привязки
func (s *Schema) SharedMediaFields() []MediaKey {
	var out []MediaKey
	for _, mk := range s.media {
		if mk.Language == nil {
			out = append(out, mk)
		}
	}
	return out
}

// TranslatableMediaFields имена переводимых медиа-полей без дублей по языкам
func (s *Schema) TranslatableMediaFields() []MediaKey {
	seen := make(map[string]bool)
	var out []MediaKey
	for _, mk := range s.media {
		if mk.Language != nil && !seen[mk.Field] {
			seen[mk.Field] = true
			out = append(out, mk)
		}
	}
	return out
}

// strayLanguageKey reports whether key looks like a language-suffixed form of a
// declared translatable field but carries a suffix outside the registry.
func (s *Schema) strayLanguageKey(key string) bool {
	if _, ok := s.textKeys[key]; ok {
		return false
	}
	if _, ok := s.mediaKeys[key]; ok {
		return false
	}
	for _, field := range s.fieldSet.Translatable {
		if strings.HasPrefix(key, field+"_") {
			return true
		}
	}
	return false
}
