package service

import (
	"context"
	"sync"

	cartdomain "github.com/reda57493110/pixelpad-backend/internal/cart/domain"
	catalogdomain "github.com/reda57493110/pixelpad-backend/internal/catalog/domain"
	catalogstore "github.com/reda57493110/pixelpad-backend/internal/catalog/store"
	checkoutdomain "github.com/reda57493110/pixelpad-backend/internal/checkout/domain"
	"github.com/reda57493110/pixelpad-backend/internal/checkout/draft"
	identitydomain "github.com/reda57493110/pixelpad-backend/internal/identity/domain"
	identitystore "github.com/reda57493110/pixelpad-backend/internal/identity/store"
	ordersdomain "github.com/reda57493110/pixelpad-backend/internal/orders/domain"
	ordersrepo "github.com/reda57493110/pixelpad-backend/internal/orders/repository"
	paymentdomain "github.com/reda57493110/pixelpad-backend/internal/payment/domain"
	paymentrepo "github.com/reda57493110/pixelpad-backend/internal/payment/repository"
)

// callLog records the order in which the saga touched its collaborators.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) record(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type mockProducts struct {
	mu       sync.RWMutex
	products map[string]*catalogdomain.Product
	err      error
}

func newMockProducts() *mockProducts {
	return &mockProducts{products: make(map[string]*catalogdomain.Product)}
}

func (m *mockProducts) put(p *catalogdomain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

func (m *mockProducts) GetProduct(_ context.Context, id string) (*catalogdomain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, catalogstore.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

type mockCart struct {
	mu      sync.RWMutex
	log     *callLog
	carts   map[string]*cartdomain.Cart
	getErr  error
	cleared map[string]int
}

func newMockCart(log *callLog) *mockCart {
	return &mockCart{
		log:     log,
		carts:   make(map[string]*cartdomain.Cart),
		cleared: make(map[string]int),
	}
}

func (m *mockCart) put(key string, lines ...cartdomain.CartLine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[key] = &cartdomain.Cart{ID: key, UserID: key, Items: lines}
}

func (m *mockCart) GetCart(_ context.Context, userID string) (*cartdomain.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if c, ok := m.carts[userID]; ok {
		return c, nil
	}
	return &cartdomain.Cart{ID: userID, UserID: userID}, nil
}

func (m *mockCart) ClearCart(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log.record("cart.clear")
	delete(m.carts, userID)
	m.cleared[userID]++
	return nil
}

type mockDrafts struct {
	mu      sync.RWMutex
	log     *callLog
	drafts  map[string]checkoutdomain.Draft
	saveErr error
}

func newMockDrafts(log *callLog) *mockDrafts {
	return &mockDrafts{log: log, drafts: make(map[string]checkoutdomain.Draft)}
}

func (m *mockDrafts) Get(_ context.Context, key string) (*checkoutdomain.Draft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.drafts[key]
	if !ok {
		return nil, draft.ErrDraftNotFound
	}
	cp := d
	return &cp, nil
}

func (m *mockDrafts) Save(_ context.Context, key string, d *checkoutdomain.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.drafts[key] = *d
	return nil
}

func (m *mockDrafts) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log.record("draft.clear")
	delete(m.drafts, key)
	return nil
}

type mockAddresses struct {
	mu        sync.RWMutex
	log       *callLog
	addresses map[string]*draft.CachedAddress
	saveErr   error
}

func newMockAddresses(log *callLog) *mockAddresses {
	return &mockAddresses{log: log, addresses: make(map[string]*draft.CachedAddress)}
}

func (m *mockAddresses) Get(_ context.Context, key string) (*draft.CachedAddress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.addresses[key]; ok {
		return a, nil
	}
	return nil, draft.ErrDraftNotFound
}

func (m *mockAddresses) Save(_ context.Context, key string, a *draft.CachedAddress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log.record("address.save")
	if m.saveErr != nil {
		return m.saveErr
	}
	m.addresses[key] = a
	return nil
}

type mockSessions struct {
	mu        sync.RWMutex
	log       *callLog
	sessions  map[string]*paymentdomain.PaymentSession
	createErr error
	updateErr error
}

func newMockSessions(log *callLog) *mockSessions {
	return &mockSessions{log: log, sessions: make(map[string]*paymentdomain.PaymentSession)}
}

func (m *mockSessions) CreateSession(_ context.Context, s *paymentdomain.PaymentSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log.record("session.create")
	if m.createErr != nil {
		return m.createErr
	}
	cp := *s
	m.sessions[s.SessionID] = &cp
	return nil
}

func (m *mockSessions) UpdateSession(_ context.Context, id string, patch paymentdomain.SessionPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log.record("session.update")
	if m.updateErr != nil {
		return m.updateErr
	}
	s, ok := m.sessions[id]
	if !ok {
		return paymentrepo.ErrSessionNotFound
	}
	if patch.Status != nil {
		s.Status = *patch.Status
	}
	if patch.OrderID != nil {
		s.OrderID = *patch.OrderID
	}
	if s.Metadata == nil {
		s.Metadata = make(map[string]any)
	}
	for k, v := range patch.Metadata {
		s.Metadata[k] = v
	}
	return nil
}

func (m *mockSessions) GetSession(_ context.Context, id string) (*paymentdomain.PaymentSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, paymentrepo.ErrSessionNotFound
}

type mockOrders struct {
	mu        sync.RWMutex
	log       *callLog
	orders    map[string]*ordersdomain.Order
	createErr error
}

func newMockOrders(log *callLog) *mockOrders {
	return &mockOrders{log: log, orders: make(map[string]*ordersdomain.Order)}
}

func (m *mockOrders) CreateOrder(_ context.Context, o *ordersdomain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log.record("order.create")
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.orders[o.ID]; exists {
		return ordersrepo.ErrDuplicateOrder
	}
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *mockOrders) GetOrderByID(_ context.Context, id string) (*ordersdomain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if o, ok := m.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, ordersrepo.ErrOrderNotFound
}

func (m *mockOrders) ListOrdersByIdentity(_ context.Context, key string) ([]*ordersdomain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*ordersdomain.Order
	for _, o := range m.orders {
		if o.IdentityKey == key {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockOrders) GetUnprocessedEvents(_ context.Context, _ int) ([]*ordersrepo.OutboxEvent, error) {
	return nil, nil
}

func (m *mockOrders) MarkEventAsProcessed(_ context.Context, _ int64) error { return nil }

func (m *mockOrders) Close() error { return nil }

func (m *mockOrders) RunMigrations(*ordersrepo.Credentials) error { return nil }

type mockUsers struct {
	mu           sync.RWMutex
	log          *callLog
	users        map[string]*identitydomain.User
	incremented  map[string]int
	incrementErr error
}

func newMockUsers(log *callLog) *mockUsers {
	return &mockUsers{
		log:         log,
		users:       make(map[string]*identitydomain.User),
		incremented: make(map[string]int),
	}
}

func (m *mockUsers) GetByEmail(_ context.Context, email string) (*identitydomain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, identitystore.ErrUserNotFound
}

func (m *mockUsers) Create(_ context.Context, u *identitydomain.User, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[u.Email]; exists {
		return identitystore.ErrEmailTaken
	}
	u.ID = "user-" + u.Email
	cp := *u
	m.users[u.Email] = &cp
	return nil
}

func (m *mockUsers) IncrementOrders(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log.record("profile.increment")
	if m.incrementErr != nil {
		return m.incrementErr
	}
	m.incremented[email]++
	return nil
}
