package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/musinov501/havas-api-clone/internal/domain/models"
	"github.com/musinov501/havas-api-clone/internal/storage"
	"github.com/musinov501/havas-api-clone/internal/storage/postgresql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

var productColumns = []string{
	"id",
	"price",
	"discount",
	"real_price",
	"category",
	"measurement_type",
	"is_active",
	"created_at",
	"updated_at",
}

type ProductRepo struct {
	db postgresql.Querier
	sb sq.StatementBuilderType
}

func NewProductRepository(db postgresql.Querier) *ProductRepo {
	return &ProductRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *ProductRepo) WithTx(tx pgx.Tx) ProductRepository {
	return &ProductRepo{db: tx, sb: r.sb}
}

func (r *ProductRepo) SaveProduct(ctx context.Context, product models.Product) (uuid.UUID, error) {
	const op = "repository.product_repository.SaveProduct"

	query, args, err := r.sb.Insert("products").
		Columns("id", "price", "discount", "real_price", "category", "measurement_type", "is_active", "created_at", "updated_at").
		Values(
			product.ID,
			product.Price,
			product.Discount,
			product.RealPrice,
			product.Category,
			product.MeasurementType,
			product.IsActive,
			product.CreatedAt,
			product.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// UpdateProductFields частичное обновление: трогает только присланные колонки
func (r *ProductRepo) UpdateProductFields(ctx context.Context, productID uuid.UUID, updates map[string]interface{}) error {
	const op = "repository.product_repository.UpdateProductFields"

	if len(updates) == 0 {
		return nil
	}

	builder := r.sb.Update("products").Where(sq.Eq{"id": productID})
	for column, value := range updates {
		builder = builder.Set(column, value)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func (r *ProductRepo) GetProductByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	const op = "repository.product_repository.GetProductByID"

	query, args, err := r.sb.Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var p models.Product
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&p.ID,
		&p.Price,
		&p.Discount,
		&p.RealPrice,
		&p.Category,
		&p.MeasurementType,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &p, nil
}

// ListProducts активные товары с пагинацией, category == "" без фильтра
func (r *ProductRepo) ListProducts(ctx context.Context, category string, page, perPage int) ([]models.Product, int, error) {
	const op = "repository.product_repository.ListProducts"

	where := sq.Eq{"is_active": true}
	if category != "" {
		where["category"] = category
	}

	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From("products").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := r.sb.Select(productColumns...).
		From("products").
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		err := rows.Scan(
			&p.ID,
			&p.Price,
			&p.Discount,
			&p.RealPrice,
			&p.Category,
			&p.MeasurementType,
			&p.IsActive,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: failed to scan row: %w", op, err)
		}
		products = append(products, p)
	}

	return products, total, rows.Err()
}

func (r *ProductRepo) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	const op = "repository.product_repository.DeleteProduct"

	query, args, err := r.sb.Delete("products").
		Where(sq.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
