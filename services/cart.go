package services

import (
	"context"
	"fmt"
	"sync"

	"serviceconnect-backend/models"
	"serviceconnect-backend/store"
	"serviceconnect-backend/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartActionType names a cart mutation.
type CartActionType string

const (
	ActionAddService     CartActionType = "ADD_SERVICE"
	ActionRemoveService  CartActionType = "REMOVE_SERVICE"
	ActionUpdateQuantity CartActionType = "UPDATE_QUANTITY"
	ActionClearCart      CartActionType = "CLEAR_CART"
	ActionRemoveBooked   CartActionType = "REMOVE_BOOKED"
)

// CartAction is one input to ReduceCart. Item is used by ADD_SERVICE;
// ServiceID by REMOVE_SERVICE and UPDATE_QUANTITY; Quantity by UPDATE_QUANTITY;
// Items by REMOVE_BOOKED.
type CartAction struct {
	Type      CartActionType
	Item      models.CartItem
	ServiceID int
	Quantity  int
	Items     []models.CartItem
}

// ReduceCart returns the cart that results from applying action to state.
// It never modifies state.
func ReduceCart(state models.CartState, action CartAction) models.CartState {
	items := make([]models.CartItem, 0, len(state.Items)+1)

	switch action.Type {
	case ActionAddService:
		found := false
		for _, it := range state.Items {
			if it.ID == action.Item.ID {
				it.Quantity++
				found = true
			}
			items = append(items, it)
		}
		if !found {
			item := action.Item
			item.Quantity = 1
			items = append(items, item)
		}

	case ActionRemoveService:
		for _, it := range state.Items {
			if it.ID != action.ServiceID {
				items = append(items, it)
			}
		}

	case ActionUpdateQuantity:
		if action.Quantity <= 0 {
			return ReduceCart(state, CartAction{Type: ActionRemoveService, ServiceID: action.ServiceID})
		}
		for _, it := range state.Items {
			if it.ID == action.ServiceID {
				it.Quantity = action.Quantity
			}
			items = append(items, it)
		}

	case ActionClearCart:

	case ActionRemoveBooked:
		booked := make(map[int]int, len(action.Items))
		for _, it := range action.Items {
			booked[it.ID] += it.Quantity
		}
		for _, it := range state.Items {
			it.Quantity -= booked[it.ID]
			if it.Quantity > 0 {
				items = append(items, it)
			}
		}

	default:
		items = append(items, state.Items...)
	}

	return models.CartState{Items: items}
}

// CartItemFromService snapshots the catalog fields a cart line keeps.
func CartItemFromService(s models.Service) models.CartItem {
	return models.CartItem{
		ID:          s.ID,
		Name:        s.Name,
		Icon:        s.Icon,
		Category:    s.Category,
		Price:       s.Price,
		Description: s.Description,
	}
}

// CartStore holds one customer's cart and mirrors every change to storage.
type CartStore struct {
	kv     store.KV
	logger *zap.Logger

	mu    sync.Mutex
	state models.CartState
}

// NewCartStore loads the stored cart as-is. An unreadable document is
// logged and replaced by an empty cart.
func NewCartStore(ctx context.Context, kv store.KV, logger *zap.Logger) (*CartStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &CartStore{kv: kv, logger: logger, state: models.CartState{Items: []models.CartItem{}}}

	raw, ok, err := kv.Get(ctx, store.KeyCart)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if !ok {
		return c, nil
	}
	var saved models.CartState
	if _, err := store.GetJSON(ctx, kv, store.KeyCart, &saved); err != nil {
		logger.Warn("discarding unreadable cart", zap.ByteString("raw", raw), zap.Error(err))
		return c, nil
	}
	if saved.Items != nil {
		c.state = saved
	}
	return c, nil
}

// dispatch reduces the current state and commits it once the write succeeds.
func (c *CartStore) dispatch(ctx context.Context, action CartAction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := ReduceCart(c.state, action)
	if err := store.SetJSON(ctx, c.kv, store.KeyCart, next); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	c.state = next
	return nil
}

// AddService adds one unit of the service.
func (c *CartStore) AddService(ctx context.Context, s models.Service) error {
	return c.dispatch(ctx, CartAction{Type: ActionAddService, Item: CartItemFromService(s)})
}

// RemoveService drops the line for id, if any.
func (c *CartStore) RemoveService(ctx context.Context, id int) error {
	return c.dispatch(ctx, CartAction{Type: ActionRemoveService, ServiceID: id})
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
func (c *CartStore) UpdateQuantity(ctx context.Context, id, quantity int) error {
	return c.dispatch(ctx, CartAction{Type: ActionUpdateQuantity, ServiceID: id, Quantity: quantity})
}

func (c *CartStore) ClearCart(ctx context.Context) error {
	return c.dispatch(ctx, CartAction{Type: ActionClearCart})
}

// RemoveBooked takes the booked quantities off their lines. Units added
// after the snapshot in booked was taken stay in the cart.
func (c *CartStore) RemoveBooked(ctx context.Context, booked []models.CartItem) error {
	return c.dispatch(ctx, CartAction{Type: ActionRemoveBooked, Items: booked})
}

// Items returns a copy of the cart lines.
func (c *CartStore) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.CartItem{}, c.state.Items...)
}

// TotalItems is the sum of all quantities.
func (c *CartStore) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, it := range c.state.Items {
		total += it.Quantity
	}
	return total
}

// TotalPrice is the sum of price × quantity. A line whose price cannot be
// parsed makes the whole total fail.
func (c *CartStore) TotalPrice() (decimal.Decimal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, it := range c.state.Items {
		price, err := utils.ParsePrice(it.Price)
		if err != nil {
			return decimal.Zero, fmt.Errorf("cart item %d: %w", it.ID, err)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total, nil
}

// CartRegistry keeps one CartStore per client so concurrent requests of the
// same client share a lock.
type CartRegistry struct {
	kv     store.KV
	logger *zap.Logger

	mu    sync.Mutex
	carts map[int64]*CartStore
}

func NewCartRegistry(kv store.KV, logger *zap.Logger) *CartRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartRegistry{kv: kv, logger: logger, carts: make(map[int64]*CartStore)}
}

// Get returns the cart of a client, loading it on first use.
func (r *CartRegistry) Get(ctx context.Context, userID int64) (*CartStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.carts[userID]; ok {
		return c, nil
	}
	c, err := NewCartStore(ctx, store.ClientNamespace(r.kv, userID), r.logger.With(zap.Int64("user_id", userID)))
	if err != nil {
		return nil, err
	}
	r.carts[userID] = c
	return c, nil
}
