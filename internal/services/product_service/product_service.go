package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/musinov501/havas-api-clone/internal/domain/models"
	"github.com/musinov501/havas-api-clone/internal/lib/logger/sl"
	"github.com/musinov501/havas-api-clone/internal/metrics"
	"github.com/musinov501/havas-api-clone/internal/repository"
	storage "github.com/musinov501/havas-api-clone/internal/storage/filestorage"
	"github.com/musinov501/havas-api-clone/internal/translation"
	"github.com/musinov501/havas-api-clone/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

// Transactor границы транзакции, реализуется postgresql.Storage
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// ProductFields мультиязычная декларация товара: тексты title/description,
// галерея images по языкам
var ProductFields = translation.FieldSet{
	Owner:        models.OwnerTypeProduct,
	Translatable: []string{"title", "description", "images"},
	Media:        []string{"images"},
}

type ProductService struct {
	log           *slog.Logger
	db            Transactor
	repo          repository.ProductRepository
	translations  repository.TranslationRepository
	media         repository.MediaRepository
	notifications repository.NotificationRepository
	fileStorage   storage.FileStorage
	writer        *translation.Writer
	reader        *translation.Reader
}

func NewProductService(
	log *slog.Logger,
	db Transactor,
	repo repository.ProductRepository,
	translations repository.TranslationRepository,
	media repository.MediaRepository,
	notifications repository.NotificationRepository,
	fileStorage storage.FileStorage,
) *ProductService {
	return &ProductService{
		log:           log,
		db:            db,
		repo:          repo,
		translations:  translations,
		media:         media,
		notifications: notifications,
		fileStorage:   fileStorage,
		writer:        translation.NewWriter(log, fileStorage),
		reader:        translation.NewReader(log, translations, media, fileStorage),
	}
}

// CreateProduct атомарно создает товар, строки переводов и медиа.
// После коммита создается PRODUCT-уведомление о новом товаре.
func (s *ProductService) CreateProduct(ctx context.Context, input dto.ProductCreateInput) (uuid.UUID, error) {
	const op = "product_service.CreateProduct"

	log := s.log.With(slog.String("op", op))

	schema := translation.SchemaFor(ProductFields)

	now := time.Now().UTC()
	product := models.Product{
		ID:              uuid.New(),
		Price:           input.Price,
		Discount:        input.Discount,
		Category:        models.ProductCategory(input.Category),
		MeasurementType: models.MeasurementType(input.MeasurementType),
		IsActive:        input.IsActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// вся валидация до открытия транзакции
	if err := product.Validate(); err != nil {
		log.Warn("product validation failed", sl.Err(err))
		return uuid.Nil, &translation.ValidationError{Reason: err.Error()}
	}
	if err := s.writer.Validate(schema, input.Payload); err != nil {
		log.Warn("payload validation failed", sl.Err(err))
		return uuid.Nil, err
	}

	var savedFiles []string

	err := s.db.WithinTx(ctx, func(tx pgx.Tx) error {
		if _, err := s.repo.WithTx(tx).SaveProduct(ctx, product); err != nil {
			return err
		}

		saved, err := s.writer.Apply(ctx, s.translations.WithTx(tx), s.media.WithTx(tx), schema, product.ID, input.Payload)
		if err != nil {
			return err
		}
		savedFiles = saved

		return nil
	})
	if err != nil {
		for _, path := range savedFiles {
			_ = s.fileStorage.Delete(ctx, path)
		}
		log.Error("failed to create product", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.MediaUploadsTotal.WithLabelValues(string(models.OwnerTypeProduct)).Add(float64(len(savedFiles)))

	s.notifyCreated(ctx, product.ID, input.Payload.Values)

	log.Info("product created", slog.String("product_id", product.ID.String()))

	return product.ID, nil
}

// UpdateProduct частично обновляет базовые атрибуты и дописывает
// переводы/медиа. Отсутствующие ключи не трогаются, медиа только добавляется.
func (s *ProductService) UpdateProduct(ctx context.Context, productID uuid.UUID, input dto.ProductUpdateInput) error {
	const op = "product_service.UpdateProduct"

	log := s.log.With(
		slog.String("op", op),
		slog.String("product_id", productID.String()),
	)

	existing, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		log.Error("failed to get product", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	updates := make(map[string]interface{})
	merged := *existing

	if input.Price != nil {
		merged.Price = *input.Price
	}
	if input.Discount != nil {
		merged.Discount = *input.Discount
	}
	if input.Category != nil {
		merged.Category = models.ProductCategory(*input.Category)
		updates["category"] = *input.Category
	}
	if input.MeasurementType != nil {
		merged.MeasurementType = models.MeasurementType(*input.MeasurementType)
		updates["measurement_type"] = *input.MeasurementType
	}
	if input.IsActive != nil {
		merged.IsActive = *input.IsActive
		updates["is_active"] = *input.IsActive
	}

	if err := merged.Validate(); err != nil {
		log.Warn("product validation failed", sl.Err(err))
		return &translation.ValidationError{Reason: err.Error()}
	}

	if input.Price != nil || input.Discount != nil {
		updates["price"] = merged.Price
		updates["discount"] = merged.Discount
		updates["real_price"] = merged.RealPrice
	}

	schema := translation.SchemaFor(ProductFields)
	if err := s.writer.Validate(schema, input.Payload); err != nil {
		log.Warn("payload validation failed", sl.Err(err))
		return err
	}

	updates["updated_at"] = time.Now().UTC()

	var savedFiles []string

	err = s.db.WithinTx(ctx, func(tx pgx.Tx) error {
		if err := s.repo.WithTx(tx).UpdateProductFields(ctx, productID, updates); err != nil {
			return err
		}

		saved, err := s.writer.Apply(ctx, s.translations.WithTx(tx), s.media.WithTx(tx), schema, productID, input.Payload)
		if err != nil {
			return err
		}
		savedFiles = saved

		return nil
	})
	if err != nil {
		for _, path := range savedFiles {
			_ = s.fileStorage.Delete(ctx, path)
		}
		log.Error("failed to update product", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("product updated")

	return nil
}

// GetProduct представление товара в режиме из контекста запроса
func (s *ProductService) GetProduct(ctx context.Context, productID uuid.UUID, rctx translation.RequestContext) (map[string]interface{}, error) {
	const op = "product_service.GetProduct"

	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.represent(ctx, product, rctx)
}

func (s *ProductService) ListProducts(ctx context.Context, category string, page, perPage int, rctx translation.RequestContext) ([]map[string]interface{}, int, error) {
	const op = "product_service.ListProducts"

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	products, total, err := s.repo.ListProducts(ctx, category, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]map[string]interface{}, 0, len(products))
	for i := range products {
		rep, err := s.represent(ctx, &products[i], rctx)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, rep)
	}

	return out, total, nil
}

// DeleteProduct удаляет товар вместе с переводами и медиа, файлы
// чистятся из хранилища после коммита
func (s *ProductService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	const op = "product_service.DeleteProduct"

	log := s.log.With(
		slog.String("op", op),
		slog.String("product_id", productID.String()),
	)

	var orphanedFiles []string

	err := s.db.WithinTx(ctx, func(tx pgx.Tx) error {
		paths, err := s.media.WithTx(tx).DeleteMediaByOwner(ctx, models.OwnerTypeProduct, productID)
		if err != nil {
			return err
		}
		orphanedFiles = paths

		if err := s.translations.WithTx(tx).DeleteTranslationsByOwner(ctx, models.OwnerTypeProduct, productID); err != nil {
			return err
		}

		return s.repo.WithTx(tx).DeleteProduct(ctx, productID)
	})
	if err != nil {
		log.Error("failed to delete product", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, path := range orphanedFiles {
		if err := s.fileStorage.Delete(ctx, path); err != nil {
			log.Warn("failed to remove stored file", slog.String("path", path), sl.Err(err))
		}
	}

	log.Info("product deleted")

	return nil
}

func (s *ProductService) represent(ctx context.Context, product *models.Product, rctx translation.RequestContext) (map[string]interface{}, error) {
	schema := translation.SchemaFor(ProductFields)

	base := map[string]interface{}{
		"id":               product.ID,
		"price":            product.Price,
		"discount":         product.Discount,
		"real_price":       product.RealPrice,
		"category":         product.Category,
		"measurement_type": product.MeasurementType,
		"is_active":        product.IsActive,
		"created_at":       product.CreatedAt,
	}

	return s.reader.Represent(ctx, schema, product.ID, base, rctx)
}

// notifyCreated повторяет сигнал оригинала: новый товар порождает уведомление
func (s *ProductService) notifyCreated(ctx context.Context, productID uuid.UUID, values map[string]string) {
	title := values["title_"+models.LanguageUZ.Suffix()]
	if title == "" {
		title = "New product"
	}

	for _, li := range models.AllLanguages() {
		id := productID
		_, err := s.notifications.SaveNotification(ctx, models.Notification{
			ID:        uuid.New(),
			Title:     "New product added!",
			Message:   fmt.Sprintf("%s is now available.", title),
			Type:      models.NotificationProduct,
			ProductID: &id,
			Language:  li.Code,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			s.log.Warn("failed to create product notification", sl.Err(err))
		}
	}
}
