package models

import (
	"testing"

	"github.com/brianvoe/gofakeit"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_ApplyDiscount(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		discount int
		want     float64
		wantErr  bool
	}{
		{"no discount", 100, 0, 100, false},
		{"half off", 100, 50, 50, false},
		{"full discount", 100, 100, 0, false},
		{"fractional price", 99.90, 10, 89.91, false},
		{"negative discount", 100, -1, 0, true},
		{"over hundred", 100, 101, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Price: tt.price, Discount: tt.discount}
			err := p.ApplyDiscount()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, p.RealPrice, 1e-9)
		})
	}
}

func TestProduct_Validate(t *testing.T) {
	p := Product{
		Price:           float64(gofakeit.Number(1, 100000)),
		Discount:        gofakeit.Number(0, 100),
		Category:        CategoryLunch,
		MeasurementType: MeasurementGram,
	}
	require.NoError(t, p.Validate())
	assert.Equal(t, p.Price-(p.Price*float64(p.Discount)/100), p.RealPrice)

	p.Category = "BRUNCH"
	assert.Error(t, p.Validate())

	p.Category = CategoryAll
	p.MeasurementType = "KG"
	assert.Error(t, p.Validate())
}

func TestDetectMediaType(t *testing.T) {
	tests := []struct {
		field string
		want  MediaType
	}{
		{"image", MediaTypeImage},
		{"images", MediaTypeImage},
		{"preview_image", MediaTypeImage},
		{"video", MediaTypeVideo},
		{"videos", MediaTypeVideo},
		{"audio", MediaTypeAudio},
		{"document", MediaTypeDocument},
		{"documents", MediaTypeDocument},
		{"file", MediaTypeDocument},
		{"files", MediaTypeDocument},
		{"banner", MediaTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectMediaType(tt.field))
		})
	}
}

func TestMedia_Validate(t *testing.T) {
	m := NewMedia(OwnerTypeProduct, uuid.New(), MediaTypeImage, "pizza.png", "product/x/pizza.png", 42)
	require.NoError(t, m.Validate())

	bad := NewMedia("banner", uuid.New(), MediaTypeImage, "pizza.png", "product/x/pizza.png", 42)
	assert.Error(t, bad.Validate())
}

func TestUser_Validate(t *testing.T) {
	u := User{Email: gofakeit.Email()}
	assert.NoError(t, u.Validate())

	u = User{PhoneNumber: gofakeit.Contact().Phone}
	assert.NoError(t, u.Validate())

	u = User{FirstName: gofakeit.FirstName()}
	assert.Error(t, u.Validate(), "identifier is required")
}

func TestUser_FullName(t *testing.T) {
	u := User{FirstName: "Aziz", LastName: "Karimov"}
	assert.Equal(t, "Aziz Karimov", u.FullName())

	u = User{FirstName: "Aziz"}
	assert.Equal(t, "Aziz", u.FullName())
}

func TestParseLanguage(t *testing.T) {
	for _, code := range []string{"UZ", "uz", " ru ", "crl", "EN"} {
		_, ok := ParseLanguage(code)
		assert.True(t, ok, code)
	}

	for _, code := range []string{"", "de", "uzb", "english"} {
		_, ok := ParseLanguage(code)
		assert.False(t, ok, code)
	}
}
