package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/musinov501/havas-api-clone/internal/domain/models"
	"github.com/musinov501/havas-api-clone/internal/lib/logger/sl"
	"github.com/musinov501/havas-api-clone/internal/repository"
	"github.com/musinov501/havas-api-clone/internal/translation"
	"github.com/musinov501/havas-api-clone/internal/transport/http/dto"

	"github.com/google/uuid"
)

// CartService именованные корзины пользователя. Цены позиций не
// фиксируются, итог всегда считается по актуальному real_price товара.
type CartService struct {
	log      *slog.Logger
	repo     repository.CartRepository
	products repository.ProductRepository
}

func NewCartService(log *slog.Logger, repo repository.CartRepository, products repository.ProductRepository) *CartService {
	return &CartService{
		log:      log,
		repo:     repo,
		products: products,
	}
}

func (s *CartService) CreateCart(ctx context.Context, userID uuid.UUID, name string) (uuid.UUID, error) {
	const op = "cart_service.CreateCart"

	if name == "" {
		name = "My cart"
	}

	id, err := s.repo.SaveCart(ctx, models.Cart{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.log.Error("failed to create cart", slog.String("op", op), sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *CartService) ListCarts(ctx context.Context, userID uuid.UUID) ([]models.Cart, error) {
	const op = "cart_service.ListCarts"

	carts, err := s.repo.ListCartsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return carts, nil
}

// AddItem добавляет позицию в корзину; товар должен существовать
func (s *CartService) AddItem(ctx context.Context, cartID uuid.UUID, input dto.CartItemInput) (uuid.UUID, error) {
	const op = "cart_service.AddItem"

	log := s.log.With(
		slog.String("op", op),
		slog.String("cart_id", cartID.String()),
	)

	if input.Quantity <= 0 {
		return uuid.Nil, &translation.ValidationError{Key: "quantity", Reason: "quantity must be positive"}
	}

	if _, err := s.repo.GetCartByID(ctx, cartID); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.products.GetProductByID(ctx, input.ProductID); err != nil {
		log.Warn("product lookup failed", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.AddCartItem(ctx, models.CartItem{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Notes:     input.Notes,
	})
	if err != nil {
		log.Error("failed to add cart item", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// GetCart корзина с позициями и итоговой стоимостью по текущим ценам
func (s *CartService) GetCart(ctx context.Context, cartID uuid.UUID) (map[string]interface{}, error) {
	const op = "cart_service.GetCart"

	cart, err := s.repo.GetCartByID(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.repo.ListCartItems(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var total float64
	rendered := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		price := item.EstimatedPrice()
		total += price
		rendered = append(rendered, map[string]interface{}{
			"id":              item.ID,
			"product_id":      item.ProductID,
			"quantity":        item.Quantity,
			"notes":           item.Notes,
			"product_price":   item.ProductPrice,
			"estimated_price": price,
		})
	}

	return map[string]interface{}{
		"id":          cart.ID,
		"user_id":     cart.UserID,
		"name":        cart.Name,
		"created_at":  cart.CreatedAt,
		"items":       rendered,
		"total_price": total,
	}, nil
}

func (s *CartService) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	const op = "cart_service.RemoveItem"

	if err := s.repo.DeleteCartItem(ctx, itemID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
