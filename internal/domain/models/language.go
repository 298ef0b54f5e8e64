package models

import "strings"

// Language код языка контента. Набор фиксирован на время жизни процесса.
type Language string

const (
	LanguageRU  Language = "RU"
	LanguageEN  Language = "EN"
	LanguageCRL Language = "CRL"
	LanguageUZ  Language = "UZ"
)

// LanguageInfo пара (код, отображаемое имя) для построения языковых полей
type LanguageInfo struct {
	Code Language
	Name string
}

var languages = []LanguageInfo{
	{Code: LanguageRU, Name: "Russian"},
	{Code: LanguageEN, Name: "English"},
	{Code: LanguageCRL, Name: "Cyrillic"},
	{Code: LanguageUZ, Name: "Uzbek"},
}

// AllLanguages возвращает упорядоченный список поддерживаемых языков
func AllLanguages() []LanguageInfo {
	out := make([]LanguageInfo, len(languages))
	copy(out, languages)
	return out
}

func (l Language) IsValid() bool {
	for _, li := range languages {
		if li.Code == l {
			return true
		}
	}
	return false
}

// Suffix returns the lowercase form used in field keys, e.g. "title_en".
func (l Language) Suffix() string {
	return strings.ToLower(string(l))
}

// ParseLanguage accepts a code in any case ("uz", "UZ") and reports whether it
// belongs to the registry.
func ParseLanguage(code string) (Language, bool) {
	l := Language(strings.ToUpper(strings.TrimSpace(code)))
	if l.IsValid() {
		return l, true
	}
	return "", false
}
