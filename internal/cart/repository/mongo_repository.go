package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reda57493110/pixelpad-backend/internal/cart/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRepository struct {
	collection *mongo.Collection
}

// NewMongoRepository creates a MongoDB backed cart repository
func NewMongoRepository(collection *mongo.Collection) CartRepository {
	return mongoRepository{collection: collection}
}

func (m mongoRepository) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart

	filter := bson.M{"user_id": userID}
	err := m.collection.FindOne(ctx, filter).Decode(&cart)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

func (m mongoRepository) UpsertCart(ctx context.Context, cart *domain.Cart) error {
	now := time.Now()

	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	filter := bson.M{"user_id": cart.UserID}
	update := bson.M{"$set": cart}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}

	return nil
}

func (m mongoRepository) AddLine(ctx context.Context, userID string, line domain.CartLine) error {
	now := time.Now()
	line.AddedAt = now

	filter := bson.M{"user_id": userID}

	// First, check if cart exists
	var existingCart domain.Cart
	err := m.collection.FindOne(ctx, filter).Decode(&existingCart)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Cart doesn't exist, create it with the line
			cart := &domain.Cart{
				UserID:    userID,
				Items:     []domain.CartLine{line},
				CreatedAt: now,
				UpdatedAt: now,
			}

			_, err = m.collection.InsertOne(ctx, cart)
			if err != nil {
				return fmt.Errorf("failed to create cart with line: %w", err)
			}
			return nil
		}
		return fmt.Errorf("failed to check existing cart: %w", err)
	}

	// Cart exists, merge quantity into an existing line for the same
	// product+variant or append a new line
	merged := false
	for i, existing := range existingCart.Items {
		if existing.Key() == line.Key() {
			existingCart.Items[i].Quantity += line.Quantity
			existingCart.Items[i].AddedAt = now
			merged = true
			break
		}
	}
	if !merged {
		existingCart.Items = append(existingCart.Items, line)
	}
	existingCart.UpdatedAt = now

	update := bson.M{"$set": bson.M{"items": existingCart.Items, "updated_at": now}}
	if _, err = m.collection.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to add line: %w", err)
	}
	return nil
}

func (m mongoRepository) UpdateQuantity(ctx context.Context, userID string, lineKey string, quantity int) error {
	filter := bson.M{"user_id": userID}

	var cart domain.Cart
	err := m.collection.FindOne(ctx, filter).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrCartNotFound
		}
		return fmt.Errorf("failed to get cart: %w", err)
	}

	found := false
	for i, line := range cart.Items {
		if line.Key() == lineKey {
			cart.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return ErrItemNotFound
	}

	now := time.Now()
	update := bson.M{"$set": bson.M{"items": cart.Items, "updated_at": now}}
	if _, err = m.collection.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to update quantity: %w", err)
	}
	return nil
}

func (m mongoRepository) RemoveLine(ctx context.Context, userID string, lineKey string) error {
	filter := bson.M{"user_id": userID}

	var cart domain.Cart
	err := m.collection.FindOne(ctx, filter).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrCartNotFound
		}
		return fmt.Errorf("failed to get cart: %w", err)
	}

	kept := make([]domain.CartLine, 0, len(cart.Items))
	for _, line := range cart.Items {
		if line.Key() != lineKey {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(cart.Items) {
		return ErrItemNotFound
	}

	now := time.Now()
	update := bson.M{"$set": bson.M{"items": kept, "updated_at": now}}
	if _, err = m.collection.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to remove line: %w", err)
	}
	return nil
}

// DeleteCart removes the whole cart document in one operation. Checkout
// relies on this being atomic: the cart is never partially drained.
func (m mongoRepository) DeleteCart(ctx context.Context, userID string) error {
	filter := bson.M{"user_id": userID}

	result, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrCartNotFound
	}
	return nil
}
