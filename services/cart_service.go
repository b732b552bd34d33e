package services

import (
	"context"

	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartService defines cart operations for the authenticated user.
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.CartResponse, *ServiceError)
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddToCartRequest) (*models.CartLine, *ServiceError)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.CartLine, *ServiceError)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) *ServiceError
	Clear(ctx context.Context, userID uuid.UUID) *ServiceError
}

type cartServiceImpl struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(carts repository.CartRepository, products repository.ProductRepository, logger *zap.Logger) CartService {
	return &cartServiceImpl{carts: carts, products: products, logger: logger}
}

// GetCart lists every line, newest first. Unavailable lines are flagged and left out of the
// subtotal and item count, matching what checkout would reject.
func (s *cartServiceImpl) GetCart(ctx context.Context, userID uuid.UUID) (*models.CartResponse, *ServiceError) {
	lines, err := s.carts.ListLines(ctx, userID, false)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, internal("Failed to load cart")
	}

	resp := &models.CartResponse{Items: make([]models.CartLine, 0, len(lines))}
	priced := make([]PricedLine, 0, len(lines))
	for _, line := range lines {
		resp.Items = append(resp.Items, line)
		if line.Unavailable {
			continue
		}
		resp.ItemCount += line.Quantity
		priced = append(priced, PricedLine{UnitPrice: line.Price, Quantity: line.Quantity})
	}
	resp.Subtotal = Subtotal(priced)
	return resp, nil
}

// AddItem prices the line from the catalog and merges it into an existing (product, variant) line.
func (s *cartServiceImpl) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddToCartRequest) (*models.CartLine, *ServiceError) {
	if req.Quantity < 1 {
		return nil, invalidArgument("Quantity must be greater than 0")
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("Product not found")
		}
		s.logger.Error("Failed to load product", zap.String("product_id", req.ProductID.String()), zap.Error(err))
		return nil, internal("Failed to add item to cart")
	}
	if product.Status != models.ProductStatusActive {
		return nil, notFound("Product not found")
	}

	price := product.Price
	if req.VariantID != nil {
		variant, err := s.products.FindVariant(ctx, product.ID, *req.VariantID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, notFound("Product variant not found")
			}
			s.logger.Error("Failed to load variant", zap.String("variant_id", req.VariantID.String()), zap.Error(err))
			return nil, internal("Failed to add item to cart")
		}
		if variant.Price != nil {
			price = *variant.Price
		}
	}

	item := &models.CartItem{
		UserID:    userID,
		ProductID: product.ID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
		Price:     price,
	}
	if err := s.carts.AddOrMerge(ctx, item); err != nil {
		s.logger.Error("Failed to add cart item", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, internal("Failed to add item to cart")
	}

	return s.findLine(ctx, userID, item.ID)
}

func (s *cartServiceImpl) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.CartLine, *ServiceError) {
	if quantity <= 0 {
		return nil, invalidArgument("Quantity must be greater than 0")
	}
	if err := s.carts.UpdateQuantity(ctx, userID, itemID, quantity); err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("Cart item not found")
		}
		s.logger.Error("Failed to update cart item", zap.String("item_id", itemID.String()), zap.Error(err))
		return nil, internal("Failed to update cart item")
	}
	return s.findLine(ctx, userID, itemID)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) *ServiceError {
	if err := s.carts.Delete(ctx, userID, itemID); err != nil {
		if repository.IsNotFound(err) {
			return notFound("Cart item not found")
		}
		s.logger.Error("Failed to remove cart item", zap.String("item_id", itemID.String()), zap.Error(err))
		return internal("Failed to remove cart item")
	}
	return nil
}

func (s *cartServiceImpl) Clear(ctx context.Context, userID uuid.UUID) *ServiceError {
	if _, err := s.carts.Clear(ctx, userID); err != nil {
		s.logger.Error("Failed to clear cart", zap.String("user_id", userID.String()), zap.Error(err))
		return internal("Failed to clear cart")
	}
	return nil
}

func (s *cartServiceImpl) findLine(ctx context.Context, userID, itemID uuid.UUID) (*models.CartLine, *ServiceError) {
	lines, err := s.carts.ListLines(ctx, userID, false)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, internal("Failed to load cart")
	}
	for i := range lines {
		if lines[i].ID == itemID {
			return &lines[i], nil
		}
	}
	return nil, notFound("Cart item not found")
}
