package translation

import (
	"testing"

	"github.com/musinov501/havas-api-clone/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestSelectMode(t *testing.T) {
	tests := []struct {
		name string
		rctx RequestContext
		want Mode
	}{
		{
			name: "mobile with valid language",
			rctx: RequestContext{DeviceType: models.DeviceTypeMobile, Language: "EN"},
			want: ModeSingle,
		},
		{
			name: "mobile with lowercase language",
			rctx: RequestContext{DeviceType: models.DeviceTypeMobile, Language: "uz"},
			want: ModeSingle,
		},
		{
			name: "mobile without language",
			rctx: RequestContext{DeviceType: models.DeviceTypeMobile},
			want: ModeAll,
		},
		{
			name: "mobile with unknown language degrades to ALL",
			rctx: RequestContext{DeviceType: models.DeviceTypeMobile, Language: "DE"},
			want: ModeAll,
		},
		{
			name: "web with valid language",
			rctx: RequestContext{DeviceType: models.DeviceTypeWeb, Language: "RU"},
			want: ModeAll,
		},
		{
			name: "empty context",
			rctx: RequestContext{},
			want: ModeAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectMode(tt.rctx))
		})
	}
}

func TestRequestContext_ResolvedLanguage(t *testing.T) {
	lang, ok := RequestContext{Language: "en"}.ResolvedLanguage()
	assert.True(t, ok)
	assert.Equal(t, models.LanguageEN, lang)

	_, ok = RequestContext{Language: "xx"}.ResolvedLanguage()
	assert.False(t, ok)

	_, ok = RequestContext{}.ResolvedLanguage()
	assert.False(t, ok)
}
