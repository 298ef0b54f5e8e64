package translation

import "github.com/musinov501/havas-api-clone/internal/domain/models"

// Mode режим представления контента
type Mode string

const (
	// ModeSingle один язык, ключи без суффиксов
	ModeSingle Mode = "SINGLE"
	// ModeAll все языки сразу, ключи вида title_en
	ModeAll Mode = "ALL"
)

// RequestContext per-request данные, от которых зависит представление.
// Language хранится как сырой код из запроса и может быть пустым или мусорным.
type RequestContext struct {
	DeviceType models.DeviceType
	Language   string
}

// ResolvedLanguage возвращает язык запроса, если он есть в реестре
func (c RequestContext) ResolvedLanguage() (models.Language, bool) {
	if c.Language == "" {
		return "", false
	}
	return models.ParseLanguage(c.Language)
}

// SelectMode выбирает режим представления. SINGLE только для мобильного
// устройства с валидным языком, иначе ALL. Неизвестный язык не ошибка:
// запрос деградирует до ALL.
func SelectMode(c RequestContext) Mode {
	if c.DeviceType == models.DeviceTypeMobile {
		if _, ok := c.ResolvedLanguage(); ok {
			return ModeSingle
		}
	}
	return ModeAll
}
