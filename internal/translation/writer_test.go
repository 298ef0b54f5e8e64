package translation

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"testing"

	"github.com/musinov501/havas-api-clone/internal/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTranslationStore struct {
	mock.Mock
}

func (m *MockTranslationStore) UpsertTranslation(ctx context.Context, t models.Translation) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) CreateMedia(ctx context.Context, media *models.Media) (*models.Media, error) {
	args := m.Called(ctx, media)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Media), args.Error(1)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Save(ctx context.Context, file *multipart.FileHeader, subPath string) (string, int64, error) {
	args := m.Called(ctx, file, subPath)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockFileStorage) Delete(ctx context.Context, filePath string) error {
	args := m.Called(ctx, filePath)
	return args.Error(0)
}

func (m *MockFileStorage) GetFullPath(relativePath string) string {
	args := m.Called(relativePath)
	return args.String(0)
}

func (m *MockFileStorage) BaseURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockFileStorage) GetBaseDir() string {
	args := m.Called()
	return args.String(0)
}

func productSchema() *Schema {
	return Expand(FieldSet{
		Owner:        models.OwnerTypeProduct,
		Translatable: []string{"title", "description", "images"},
		Media:        []string{"images"},
	})
}

func TestWriter_Validate(t *testing.T) {
	writer := NewWriter(slog.Default(), new(MockFileStorage))
	schema := productSchema()

	tests := []struct {
		name    string
		input   WriteInput
		wantErr string
	}{
		{
			name: "valid payload",
			input: WriteInput{
				Values: map[string]string{"title_en": "Pizza", "title_uz": "Pitsa", "price": "10"},
			},
		},
		{
			name: "stray language suffix in values",
			input: WriteInput{
				Values: map[string]string{"title_de": "Pizza"},
			},
			wantErr: "unsupported language suffix",
		},
		{
			name: "file posted to non-media field",
			input: WriteInput{
				Files: map[string][]*multipart.FileHeader{
					"title_en": {{Filename: "a.png"}},
				},
			},
			wantErr: "file posted to non-media field",
		},
		{
			name: "stray language suffix in files",
			input: WriteInput{
				Files: map[string][]*multipart.FileHeader{
					"images_fr": {{Filename: "a.png"}},
				},
			},
			wantErr: "unsupported language suffix",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writer.Validate(schema, tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriter_Validate_SingleFileField(t *testing.T) {
	writer := NewWriter(slog.Default(), new(MockFileStorage))
	schema := Expand(FieldSet{
		Owner: models.OwnerTypeRecipe,
		Media: []string{"image"},
	})

	err := writer.Validate(schema, WriteInput{
		Files: map[string][]*multipart.FileHeader{
			"image": {{Filename: "a.png"}, {Filename: "b.png"}},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single file")

	err = writer.Validate(schema, WriteInput{
		Files: map[string][]*multipart.FileHeader{
			"image": {{Filename: "a.png"}},
		},
	})
	assert.NoError(t, err)
}

func TestWriter_Apply_UpsertsTranslations(t *testing.T) {
	ctx := context.Background()
	schema := productSchema()
	ownerID := uuid.New()

	translations := new(MockTranslationStore)
	media := new(MockMediaStore)
	files := new(MockFileStorage)
	writer := NewWriter(slog.Default(), files)

	translations.On("UpsertTranslation", ctx, mock.MatchedBy(func(tr models.Translation) bool {
		return tr.OwnerID == ownerID && tr.Field == "title" && tr.Language == models.LanguageEN && tr.Value == "Pizza"
	})).Return(nil).Once()
	translations.On("UpsertTranslation", ctx, mock.MatchedBy(func(tr models.Translation) bool {
		return tr.Field == "description" && tr.Language == models.LanguageUZ && tr.Value == ""
	})).Return(nil).Once()

	saved, err := writer.Apply(ctx, translations, media, schema, ownerID, WriteInput{
		Values: map[string]string{
			"title_en":       "Pizza",
			"description_uz": "", // присутствующий пустой ключ пишет пустую строку
			"price":          "10",
		},
	})

	require.NoError(t, err)
	assert.Empty(t, saved)
	translations.AssertExpectations(t)
	media.AssertNotCalled(t, "CreateMedia", mock.Anything, mock.Anything)
}

func TestWriter_Apply_SavesMediaRows(t *testing.T) {
	ctx := context.Background()
	schema := productSchema()
	ownerID := uuid.New()

	translations := new(MockTranslationStore)
	media := new(MockMediaStore)
	files := new(MockFileStorage)
	writer := NewWriter(slog.Default(), files)

	file := &multipart.FileHeader{Filename: "pizza.png"}

	files.On("Save", ctx, file, mock.Anything).Return("product/x/pizza.png", int64(42), nil).Once()
	media.On("CreateMedia", ctx, mock.MatchedBy(func(m *models.Media) bool {
		return m.OwnerID == ownerID &&
			m.MediaType == models.MediaTypeImage &&
			m.Language != nil && *m.Language == models.LanguageEN &&
			m.StoragePath == "product/x/pizza.png" &&
			m.FileSize == 42
	})).Return(&models.Media{}, nil).Once()

	saved, err := writer.Apply(ctx, translations, media, schema, ownerID, WriteInput{
		Files: map[string][]*multipart.FileHeader{
			"images_en": {file},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"product/x/pizza.png"}, saved)
	files.AssertExpectations(t)
	media.AssertExpectations(t)
}

func TestWriter_Apply_CleansUpFilesOnFailure(t *testing.T) {
	ctx := context.Background()
	schema := productSchema()
	ownerID := uuid.New()

	translations := new(MockTranslationStore)
	media := new(MockMediaStore)
	files := new(MockFileStorage)
	writer := NewWriter(slog.Default(), files)

	file := &multipart.FileHeader{Filename: "pizza.png"}

	files.On("Save", ctx, file, mock.Anything).Return("product/x/pizza.png", int64(42), nil).Once()
	media.On("CreateMedia", ctx, mock.Anything).Return(nil, errors.New("db down")).Once()
	files.On("Delete", ctx, "product/x/pizza.png").Return(nil).Once()

	saved, err := writer.Apply(ctx, translations, media, schema, ownerID, WriteInput{
		Files: map[string][]*multipart.FileHeader{
			"images_en": {file},
		},
	})

	require.Error(t, err)
	assert.Nil(t, saved)
	files.AssertExpectations(t)
}

func TestWriter_Apply_RejectsInvalidPayload(t *testing.T) {
	ctx := context.Background()
	schema := productSchema()

	translations := new(MockTranslationStore)
	media := new(MockMediaStore)
	writer := NewWriter(slog.Default(), new(MockFileStorage))

	_, err := writer.Apply(ctx, translations, media, schema, uuid.New(), WriteInput{
		Values: map[string]string{"title_de": "Pizza"},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	translations.AssertNotCalled(t, "UpsertTranslation", mock.Anything, mock.Anything)
}
