package test

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/craftmarket/internal/domain/errors"
	"github.com/polkiloo/craftmarket/internal/domain/model"
	"github.com/polkiloo/craftmarket/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
	mu    sync.Mutex
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[user.Login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user.ID = s.Next
	s.Next++
	stored := user
	s.Users[user.Login] = &stored
	s.ByID[user.ID] = &stored
	out := stored
	return &out, nil
}

// Put stores user as is, replacing previous entries with the same id.
func (s *UserRepositoryStub) Put(user model.User) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	stored := user
	s.Users[user.Login] = &stored
	s.ByID[user.ID] = &stored
	if user.ID >= s.Next {
		s.Next = user.ID + 1
	}
	return &stored
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		out := *user
		return &out, nil
	}
	return nil, domainErrors.ErrUserNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		out := *user
		return &out, nil
	}
	return nil, domainErrors.ErrUserNotFound
}

// UpdateProfile replaces profile of stored user.
func (s *UserRepositoryStub) UpdateProfile(ctx context.Context, id int64, profile model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrUserNotFound
	}
	user.Profile = profile
	return nil
}

// ArtistRepositoryStub keeps artists in memory and honours compare-and-swap semantics.
type ArtistRepositoryStub struct {
	Artists  map[int64]*model.Artist
	Delisted []int64
	Err      error
	mu       sync.Mutex
}

// NewArtistRepositoryStub seeds stub with artists.
func NewArtistRepositoryStub(artists ...model.Artist) *ArtistRepositoryStub {
	s := &ArtistRepositoryStub{Artists: make(map[int64]*model.Artist)}
	for _, a := range artists {
		artist := a
		s.Artists[a.ID] = &artist
	}
	return s
}

// Get returns stored artist.
func (s *ArtistRepositoryStub) Get(ctx context.Context, artistID int64) (*model.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	artist, ok := s.Artists[artistID]
	if !ok {
		return nil, domainErrors.ErrArtistNotFound
	}
	out := *artist
	return &out, nil
}

// List returns artists ordered by identifier.
func (s *ArtistRepositoryStub) List(ctx context.Context) ([]model.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.Artist, 0, len(s.Artists))
	for _, a := range s.Artists {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateStatus applies change when the stored status matches the expected one.
func (s *ArtistRepositoryStub) UpdateStatus(ctx context.Context, change model.ArtistStatusChange) (*model.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	artist, ok := s.Artists[change.ArtistID]
	if !ok {
		return nil, domainErrors.ErrArtistNotFound
	}
	if artist.Status != change.Expected {
		return nil, domainErrors.NewConflict(domainErrors.ErrInvalidStatusTransition, string(artist.Status))
	}
	artist.Status = change.Next
	if change.Next == model.ArtistStatusRejected {
		s.Delisted = append(s.Delisted, artist.ID)
	}
	out := *artist
	return &out, nil
}

// SetCommissionRate stores rate for the artist.
func (s *ArtistRepositoryStub) SetCommissionRate(ctx context.Context, artistID int64, rate decimal.Decimal) (*model.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	artist, ok := s.Artists[artistID]
	if !ok {
		return nil, domainErrors.ErrArtistNotFound
	}
	r := rate
	artist.CommissionRate = &r
	out := *artist
	return &out, nil
}

// ProductRepositoryStub resolves products from an in-memory catalog.
type ProductRepositoryStub struct {
	Products map[int64]*model.Product
	Err      error
	mu       sync.Mutex
}

// NewProductRepositoryStub seeds stub with products.
func NewProductRepositoryStub(products ...model.Product) *ProductRepositoryStub {
	s := &ProductRepositoryStub{Products: make(map[int64]*model.Product)}
	for _, p := range products {
		product := p
		s.Products[p.ID] = &product
	}
	return s
}

// Lookup returns known products among ids.
func (s *ProductRepositoryStub) Lookup(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make(map[int64]model.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.Products[id]; ok {
			out[id] = *p
		}
	}
	return out, nil
}

// Get returns product by identifier.
func (s *ProductRepositoryStub) Get(ctx context.Context, id int64) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.Products[id]
	if !ok {
		return nil, domainErrors.ErrProductNotFound
	}
	out := *p
	return &out, nil
}

// MarkListed freezes rate on the product and lists it.
func (s *ProductRepositoryStub) MarkListed(ctx context.Context, id int64, rate decimal.Decimal) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.Products[id]
	if !ok {
		return nil, domainErrors.ErrProductNotFound
	}
	r := rate
	p.CommissionRate = &r
	p.Listed = true
	out := *p
	return &out, nil
}

// CartRepositoryStub serves cart snapshots from memory.
type CartRepositoryStub struct {
	Carts map[int64]model.Cart
	Err   error
	mu    sync.Mutex
}

// NewCartRepositoryStub seeds stub with carts.
func NewCartRepositoryStub(carts ...model.Cart) *CartRepositoryStub {
	s := &CartRepositoryStub{Carts: make(map[int64]model.Cart)}
	for _, c := range carts {
		s.Carts[c.CustomerID] = c
	}
	return s
}

// Get returns the cart of the customer, empty when none exists.
func (s *CartRepositoryStub) Get(ctx context.Context, customerID int64) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return model.Cart{}, s.Err
	}
	cart, ok := s.Carts[customerID]
	if !ok {
		return model.Cart{CustomerID: customerID}, nil
	}
	cart.Items = append([]model.CartItem(nil), cart.Items...)
	return cart, nil
}

// Set replaces cart contents.
func (s *CartRepositoryStub) Set(cart model.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Carts[cart.CustomerID] = cart
}

func (s *CartRepositoryStub) clearIfUnchanged(snapshot model.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.Carts[snapshot.CustomerID]
	if !current.SameItems(snapshot) {
		return domainErrors.NewConflict(domainErrors.ErrCartChanged, "")
	}
	current.Items = nil
	s.Carts[snapshot.CustomerID] = current
	return nil
}

// OrderRepositoryStub is an in-memory order store with the same atomicity
// guarantees as the SQL implementation.
type OrderRepositoryStub struct {
	Carts  *CartRepositoryStub
	Err    error
	Events []model.EventType

	orders   map[int64]*model.Order
	nextID   int64
	nextItem int64
	mu       sync.Mutex
}

// NewOrderRepositoryStub creates stub; carts may be nil when checkout is not exercised.
func NewOrderRepositoryStub(carts *CartRepositoryStub, orders ...model.Order) *OrderRepositoryStub {
	s := &OrderRepositoryStub{Carts: carts, orders: make(map[int64]*model.Order)}
	for _, o := range orders {
		s.store(o)
	}
	return s
}

func (s *OrderRepositoryStub) store(order model.Order) *model.Order {
	if order.ID == 0 {
		s.nextID++
		order.ID = s.nextID
	} else if order.ID > s.nextID {
		s.nextID = order.ID
	}
	items := make([]model.OrderItem, len(order.Items))
	for i, item := range order.Items {
		if item.ID == 0 {
			s.nextItem++
			item.ID = s.nextItem
		} else if item.ID > s.nextItem {
			s.nextItem = item.ID
		}
		items[i] = item
	}
	order.Items = items
	s.orders[order.ID] = &order
	return &order
}

func cloneOrder(o *model.Order) model.Order {
	out := *o
	out.Items = append([]model.OrderItem(nil), o.Items...)
	return out
}

// Place stores order and clears the cart when it still matches snapshot.
func (s *OrderRepositoryStub) Place(ctx context.Context, snapshot model.Cart, order model.Order) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Carts != nil {
		if err := s.Carts.clearIfUnchanged(snapshot); err != nil {
			return nil, err
		}
	}
	stored := s.store(order)
	s.Events = append(s.Events, model.EventOrderPlaced)
	out := cloneOrder(stored)
	return &out, nil
}

// GetByID returns a copy of stored order.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	order, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrOrderNotFound
	}
	out := cloneOrder(order)
	return &out, nil
}

func (s *OrderRepositoryStub) list(keep func(*model.Order) bool) []model.Order {
	out := make([]model.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListByCustomer returns orders of the customer.
func (s *OrderRepositoryStub) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.list(func(o *model.Order) bool { return o.CustomerID == customerID }), nil
}

// ListByArtist returns orders holding items of the artist within window.
func (s *OrderRepositoryStub) ListByArtist(ctx context.Context, artistID int64, window model.DateRange) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.list(func(o *model.Order) bool {
		return o.HasArtist(artistID) && window.Contains(o.OrderDate)
	}), nil
}

// ListAll returns every stored order.
func (s *OrderRepositoryStub) ListAll(ctx context.Context) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.list(func(*model.Order) bool { return true }), nil
}

// TransitionItem performs compare-and-swap on the item status.
func (s *OrderRepositoryStub) TransitionItem(ctx context.Context, t model.ItemTransition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	order, ok := s.orders[t.OrderID]
	if !ok {
		return domainErrors.ErrItemNotFound
	}
	for i := range order.Items {
		item := &order.Items[i]
		if item.ID != t.ItemID {
			continue
		}
		if item.ShippingStatus != t.Expected {
			return domainErrors.NewConflict(domainErrors.ErrInvalidTransition, string(item.ShippingStatus))
		}
		item.ShippingStatus = t.Next
		if t.TrackingNumber != nil {
			tracking := *t.TrackingNumber
			item.TrackingNumber = &tracking
		}
		if t.ShippedDate != nil {
			shipped := *t.ShippedDate
			item.ShippedDate = &shipped
		}
		s.Events = append(s.Events, model.EventOrderItemTransition)
		return nil
	}
	return domainErrors.ErrItemNotFound
}

// CancelPending cancels pending items unless some item is accepted.
func (s *OrderRepositoryStub) CancelPending(ctx context.Context, orderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	order, ok := s.orders[orderID]
	if !ok {
		return domainErrors.ErrOrderNotFound
	}
	pending := 0
	for _, item := range order.Items {
		switch item.ShippingStatus {
		case model.ShippingStatusOrderAccepted:
			return domainErrors.NewConflict(domainErrors.ErrOrderInProgress, string(item.ShippingStatus))
		case model.ShippingStatusPending:
			pending++
		}
	}
	if pending == 0 {
		return domainErrors.NewConflict(domainErrors.ErrInvalidTransition, string(order.Status()))
	}
	for i := range order.Items {
		if order.Items[i].ShippingStatus == model.ShippingStatusPending {
			order.Items[i].ShippingStatus = model.ShippingStatusCancelled
		}
	}
	s.Events = append(s.Events, model.EventOrderCancelled)
	return nil
}

// OutboxRepositoryStub lets tests drive the outbox relay.
type OutboxRepositoryStub struct {
	Batches   [][]model.Event
	ClaimFn   func(context.Context, int) ([]model.Event, error)
	MarkErr   error
	Published []uuid.UUID
	Released  []uuid.UUID
	calls     int
	mu        sync.Mutex
}

// ClaimBatch returns configured batches one per call, then nothing.
func (s *OutboxRepositoryStub) ClaimBatch(ctx context.Context, limit int) ([]model.Event, error) {
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls < len(s.Batches) {
		batch := s.Batches[s.calls]
		s.calls++
		return batch, nil
	}
	return nil, nil
}

// MarkPublished records published event.
func (s *OutboxRepositoryStub) MarkPublished(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.MarkErr != nil {
		return s.MarkErr
	}
	s.Published = append(s.Published, id)
	return nil
}

// Release records event returned to the queue.
func (s *OutboxRepositoryStub) Release(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Released = append(s.Released, id)
	return nil
}

// Snapshot returns copies of published and released ids.
func (s *OutboxRepositoryStub) Snapshot() (published, released []uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID(nil), s.Published...), append([]uuid.UUID(nil), s.Released...)
}

var (
	_ repository.UserRepository    = (*UserRepositoryStub)(nil)
	_ repository.ArtistRepository  = (*ArtistRepositoryStub)(nil)
	_ repository.ProductRepository = (*ProductRepositoryStub)(nil)
	_ repository.CartRepository    = (*CartRepositoryStub)(nil)
	_ repository.OrderRepository   = (*OrderRepositoryStub)(nil)
	_ repository.OutboxRepository  = (*OutboxRepositoryStub)(nil)
)
