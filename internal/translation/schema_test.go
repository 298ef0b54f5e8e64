package translation

import (
	"testing"

	"github.com/musinov501/havas-api-clone/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_TextKeys(t *testing.T) {
	schema := Expand(FieldSet{
		Owner:        models.OwnerTypeProduct,
		Translatable: []string{"title", "description"},
	})

	assert.Equal(t, []string{"title", "description"}, schema.TextFields())

	// по ключу на каждый язык реестра
	for _, li := range models.AllLanguages() {
		tk, ok := schema.LookupText("title_" + li.Code.Suffix())
		require.True(t, ok, "missing key for %s", li.Code)
		assert.Equal(t, "title", tk.Field)
		assert.Equal(t, li.Code, tk.Language)
	}

	_, ok := schema.LookupText("title")
	assert.False(t, ok, "bare field name is not a payload key")

	_, ok = schema.LookupText("title_de")
	assert.False(t, ok)
}

func TestExpand_TranslatableMedia(t *testing.T) {
	schema := Expand(FieldSet{
		Owner:        models.OwnerTypeProduct,
		Translatable: []string{"title", "images"},
		Media:        []string{"images"},
	})

	// поле из обоих списков не становится текстовым
	assert.Equal(t, []string{"title"}, schema.TextFields())

	for _, li := range models.AllLanguages() {
		mk, ok := schema.LookupMedia("images_" + li.Code.Suffix())
		require.True(t, ok)
		assert.Equal(t, "images", mk.Field)
		require.NotNil(t, mk.Language)
		assert.Equal(t, li.Code, *mk.Language)
		assert.Equal(t, models.MediaTypeImage, mk.Kind)
		assert.True(t, mk.List, "plural field accepts multiple files")
	}

	assert.Empty(t, schema.SharedMediaFields())
	require.Len(t, schema.TranslatableMediaFields(), 1)
	assert.Equal(t, "images", schema.TranslatableMediaFields()[0].Field)
}

func TestExpand_SharedMedia(t *testing.T) {
	schema := Expand(FieldSet{
		Owner: models.OwnerTypeRecipe,
		Media: []string{"image"},
	})

	mk, ok := schema.LookupMedia("image")
	require.True(t, ok)
	assert.Nil(t, mk.Language, "shared media has no language")
	assert.False(t, mk.List, "singular field takes a single file")
	assert.Equal(t, models.MediaTypeImage, mk.Kind)

	_, ok = schema.LookupMedia("image_en")
	assert.False(t, ok)

	require.Len(t, schema.SharedMediaFields(), 1)
	assert.Empty(t, schema.TranslatableMediaFields())
}

func TestExpand_MediaKindFromName(t *testing.T) {
	tests := []struct {
		field string
		kind  models.MediaType
		list  bool
	}{
		{"images", models.MediaTypeImage, true},
		{"video", models.MediaTypeVideo, false},
		{"videos", models.MediaTypeVideo, true},
		{"audio", models.MediaTypeAudio, false},
		{"documents", models.MediaTypeDocument, true},
		{"files", models.MediaTypeDocument, true},
		{"attachment", models.MediaTypeOther, false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			schema := Expand(FieldSet{Owner: models.OwnerTypeStory, Media: []string{tt.field}})
			mk, ok := schema.LookupMedia(tt.field)
			require.True(t, ok)
			assert.Equal(t, tt.kind, mk.Kind)
			assert.Equal(t, tt.list, mk.List)
		})
	}
}

func TestSchema_StrayLanguageKey(t *testing.T) {
	schema := Expand(FieldSet{
		Owner:        models.OwnerTypeProduct,
		Translatable: []string{"title", "images"},
		Media:        []string{"images"},
	})

	assert.False(t, schema.strayLanguageKey("title_en"))
	assert.False(t, schema.strayLanguageKey("images_uz"))
	assert.True(t, schema.strayLanguageKey("title_de"), "unknown language suffix")
	assert.True(t, schema.strayLanguageKey("images_fr"))
	assert.False(t, schema.strayLanguageKey("price"), "base attribute is not stray")
}

func TestSchemaFor_Cached(t *testing.T) {
	fs := FieldSet{
		Owner:        models.OwnerTypeNotification,
		Translatable: []string{"title"},
	}

	first := SchemaFor(fs)
	second := SchemaFor(fs)

	assert.Same(t, first, second, "schema is computed once per owner type")
}
