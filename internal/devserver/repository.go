package devserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vin2grow/storefront-go/internal/domain"
	apperrors "github.com/vin2grow/storefront-go/pkg/errors"
)

const (
	cartKeyPrefix    = "cart:"
	orderKeyPrefix   = "orders:"
	userKeyPrefix    = "user:"
	addressKeyPrefix = "addresses:"
)

// CartRecord is the server-side cart for one user.
type CartRecord struct {
	UserID    string            `json:"user_id"`
	Items     []domain.LineItem `json:"items"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// UserRecord is a registered account.
type UserRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash []byte `json:"password_hash"`
}

// OrderRecord is a placed order.
type OrderRecord struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Items     []OrderLine `json:"items"`
	Total     int64       `json:"total"`
	Status    string      `json:"status"`
	FullName  string      `json:"full_name"`
	Address   string      `json:"address"`
	CreatedAt time.Time   `json:"created_at"`
}

// AddressRecord is one saved delivery address on a user's profile.
type AddressRecord struct {
	ID         string `json:"id"`
	Label      string `json:"label,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone,omitempty"`
	IsDefault  bool   `json:"is_default"`
}

// OrderLine is one product entry within an order.
type OrderLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Repository persists carts, users and orders in Redis.
type Repository struct {
	client  *redis.Client
	cartTTL time.Duration
}

// NewRepository creates a Redis-backed repository.
func NewRepository(client *redis.Client, cartTTL time.Duration) *Repository {
	return &Repository{
		client:  client,
		cartTTL: cartTTL,
	}
}

// GetCart retrieves a user's cart. Returns ErrNotFound when the user has
// never had a cart or it expired.
func (r *Repository) GetCart(ctx context.Context, userID string) (*CartRecord, error) {
	data, err := r.client.Get(ctx, cartKeyPrefix+userID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("cart", userID)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var record CartRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return &record, nil
}

// SaveCart persists a cart with the configured TTL.
func (r *Repository) SaveCart(ctx context.Context, record *CartRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := r.client.Set(ctx, cartKeyPrefix+record.UserID, data, r.cartTTL).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

// DeleteCart removes a user's cart.
func (r *Repository) DeleteCart(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cartKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}

// GetUserByEmail looks up a registered account.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	data, err := r.client.Get(ctx, userKeyPrefix+email).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("user", email)
		}
		return nil, fmt.Errorf("redis get user: %w", err)
	}

	var user UserRecord
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &user, nil
}

// SaveUser persists an account keyed by email. Accounts do not expire.
func (r *Repository) SaveUser(ctx context.Context, user *UserRecord) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := r.client.Set(ctx, userKeyPrefix+user.Email, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set user: %w", err)
	}
	return nil
}

// GetAddresses returns a user's saved addresses. A user with no saved
// addresses gets an empty list, not an error.
func (r *Repository) GetAddresses(ctx context.Context, userID string) ([]AddressRecord, error) {
	data, err := r.client.Get(ctx, addressKeyPrefix+userID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get addresses: %w", err)
	}

	var addresses []AddressRecord
	if err := json.Unmarshal(data, &addresses); err != nil {
		return nil, fmt.Errorf("unmarshal addresses: %w", err)
	}
	return addresses, nil
}

// SaveAddresses persists a user's address list wholesale. Addresses do not
// expire.
func (r *Repository) SaveAddresses(ctx context.Context, userID string, addresses []AddressRecord) error {
	data, err := json.Marshal(addresses)
	if err != nil {
		return fmt.Errorf("marshal addresses: %w", err)
	}
	if err := r.client.Set(ctx, addressKeyPrefix+userID, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set addresses: %w", err)
	}
	return nil
}

// AppendOrder pushes an order onto the user's history (newest first).
func (r *Repository) AppendOrder(ctx context.Context, order *OrderRecord) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	if err := r.client.LPush(ctx, orderKeyPrefix+order.UserID, data).Err(); err != nil {
		return fmt.Errorf("redis push order: %w", err)
	}
	return nil
}

// ListOrders returns a user's order history, newest first.
func (r *Repository) ListOrders(ctx context.Context, userID string) ([]OrderRecord, error) {
	raw, err := r.client.LRange(ctx, orderKeyPrefix+userID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list orders: %w", err)
	}

	orders := make([]OrderRecord, 0, len(raw))
	for _, item := range raw {
		var order OrderRecord
		if err := json.Unmarshal([]byte(item), &order); err != nil {
			return nil, fmt.Errorf("unmarshal order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}
