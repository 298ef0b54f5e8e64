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

type CartRepo struct {
	db postgresql.Querier
	sb sq.StatementBuilderType
}

func NewCartRepository(db postgresql.Querier) *CartRepo {
	return &CartRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *CartRepo) SaveCart(ctx context.Context, cart models.Cart) (uuid.UUID, error) {
	const op = "repository.cart_repository.SaveCart"

	query, args, err := r.sb.Insert("carts").
		Columns("id", "user_id", "name", "created_at").
		Values(cart.ID, cart.UserID, cart.Name, cart.CreatedAt).
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

func (r *CartRepo) ListCartsByUser(ctx context.Context, userID uuid.UUID) ([]models.Cart, error) {
	const op = "repository.cart_repository.ListCartsByUser"

	query, args, err := r.sb.Select("id", "user_id", "name", "created_at").
		From("carts").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var carts []models.Cart
	for rows.Next() {
		var c models.Cart
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
		}
		carts = append(carts, c)
	}

	return carts, rows.Err()
}

func (r *CartRepo) GetCartByID(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	const op = "repository.cart_repository.GetCartByID"

	query, args, err := r.sb.Select("id", "user_id", "name", "created_at").
		From("carts").
		Where(sq.Eq{"id": cartID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var c models.Cart
	err = r.db.QueryRow(ctx, query, args...).Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &c, nil
}

func (r *CartRepo) AddCartItem(ctx context.Context, item models.CartItem) (uuid.UUID, error) {
	const op = "repository.cart_repository.AddCartItem"

	query, args, err := r.sb.Insert("cart_items").
		Columns("id", "cart_id", "product_id", "quantity", "notes").
		Values(item.ID, item.CartID, item.ProductID, item.Quantity, item.Notes).
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

// ListCartItems позиции корзины с актуальной ценой товара
func (r *CartRepo) ListCartItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	const op = "repository.cart_repository.ListCartItems"

	query, args, err := r.sb.Select(
		"ci.id",
		"ci.cart_id",
		"ci.product_id",
		"ci.quantity",
		"ci.notes",
		"p.real_price",
	).
		From("cart_items ci").
		Join("products p ON p.id = ci.product_id").
		Where(sq.Eq{"ci.cart_id": cartID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var i models.CartItem
		if err := rows.Scan(&i.ID, &i.CartID, &i.ProductID, &i.Quantity, &i.Notes, &i.ProductPrice); err != nil {
			return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
		}
		items = append(items, i)
	}

	return items, rows.Err()
}

func (r *CartRepo) DeleteCartItem(ctx context.Context, itemID uuid.UUID) error {
	const op = "repository.cart_repository.DeleteCartItem"

	query, args, err := r.sb.Delete("cart_items").
		Where(sq.Eq{"id": itemID}).
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
