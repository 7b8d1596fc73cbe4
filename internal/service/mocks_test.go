package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/penzolll/umi-shop-digital/internal/cache"
	"github.com/penzolll/umi-shop-digital/internal/domain"
	"github.com/penzolll/umi-shop-digital/internal/repository"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// mockCheckoutRepository implements checkoutRepository for testing.
type mockCheckoutRepository struct {
	CartLineCount  int
	CountErr       error
	Order          *domain.Order
	PlaceErrs      []error // consumed one per PlaceOrder call
	PlaceCalls     int
	CapturedInputs []*repository.CheckoutInput
}

func (m *mockCheckoutRepository) CountCartLines(_ context.Context, _ int64) (int, error) {
	return m.CartLineCount, m.CountErr
}

func (m *mockCheckoutRepository) PlaceOrder(_ context.Context, in *repository.CheckoutInput) (*domain.Order, error) {
	m.PlaceCalls++
	m.CapturedInputs = append(m.CapturedInputs, in)
	if len(m.PlaceErrs) > 0 {
		err := m.PlaceErrs[0]
		m.PlaceErrs = m.PlaceErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return m.Order, nil
}

// mockCartCache implements cache.CartCache for testing.
type mockCartCache struct {
	mu      sync.Mutex
	cart    *domain.Cart
	getErr  error
	setErr  error
	deletes int
}

func (m *mockCartCache) Get(_ context.Context, _ int64) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCartCache) Set(_ context.Context, _ int64, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.cart = cart
	return nil
}

func (m *mockCartCache) Delete(_ context.Context, _ int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	m.cart = nil
	return nil
}

func (m *mockCartCache) deleteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deletes
}

// mockCartRepository implements repository.CartRepository for testing.
type mockCartRepository struct {
	mu       sync.Mutex
	items    []domain.CartItem
	getCalls int
	getDelay time.Duration
	err      error
	nextID   int64
}

func (m *mockCartRepository) GetCart(_ context.Context, _ int64) ([]domain.CartItem, error) {
	if m.getDelay > 0 {
		time.Sleep(m.getDelay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

func (m *mockCartRepository) CountCartLines(_ context.Context, _ int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items), m.err
}

func (m *mockCartRepository) AddCartItem(_ context.Context, userID, productID int64, quantity int) (*domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.nextID++
	m.items = append(m.items, domain.CartItem{ID: m.nextID, ProductID: productID, Quantity: quantity})
	return &domain.CartLine{ID: m.nextID, UserID: userID, ProductID: productID, Quantity: quantity}, nil
}

func (m *mockCartRepository) UpdateCartItemQuantity(_ context.Context, userID, itemID int64, quantity int) (*domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.items {
		if m.items[i].ID == itemID {
			m.items[i].Quantity = quantity
			return &domain.CartLine{ID: itemID, UserID: userID, ProductID: m.items[i].ProductID, Quantity: quantity}, nil
		}
	}
	return nil, repository.ErrCartItemNotFound
}

func (m *mockCartRepository) RemoveCartItem(_ context.Context, _, itemID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for i, item := range m.items {
		if item.ID == itemID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrCartItemNotFound
}

func (m *mockCartRepository) ClearCart(_ context.Context, _ int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.items = nil
	return nil
}

// mockUserRepository implements repository.UserRepository for testing.
type mockUserRepository struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*domain.User)}
}

func (m *mockUserRepository) CreateUser(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[u.Email]; exists {
		return repository.ErrEmailTaken
	}
	m.nextID++
	u.ID = m.nextID
	m.users[u.Email] = u
	return nil
}

func (m *mockUserRepository) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) UpdateUserProfile(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; !ok {
		return repository.ErrUserNotFound
	}
	m.users[u.Email] = u
	return nil
}

// mockOrderRepository implements repository.OrderRepository for testing.
type mockOrderRepository struct {
	Orders        []*domain.Order
	Err           error
	UpdatedStatus domain.OrderStatus
}

func (m *mockOrderRepository) PlaceOrder(_ context.Context, _ *repository.CheckoutInput) (*domain.Order, error) {
	return nil, m.Err
}

func (m *mockOrderRepository) ListOrdersByUser(_ context.Context, _ int64) ([]*domain.Order, error) {
	return m.Orders, m.Err
}

func (m *mockOrderRepository) GetOrderForUser(_ context.Context, _, _ int64) (*domain.Order, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Orders) == 0 {
		return nil, repository.ErrOrderNotFound
	}
	return m.Orders[0], nil
}

func (m *mockOrderRepository) ListAllOrders(_ context.Context) ([]*domain.Order, error) {
	return m.Orders, m.Err
}

func (m *mockOrderRepository) UpdateOrderStatus(_ context.Context, _ int64, status domain.OrderStatus) (*domain.Order, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Orders) == 0 {
		return nil, repository.ErrOrderNotFound
	}
	m.UpdatedStatus = status
	order := *m.Orders[0]
	order.Status = status
	return &order, nil
}
