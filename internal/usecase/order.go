package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/craftmarket/internal/domain/errors"
	"github.com/polkiloo/craftmarket/internal/domain/model"
	"github.com/polkiloo/craftmarket/internal/domain/repository"
	"github.com/polkiloo/craftmarket/internal/settlement"
)

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders   repository.OrderRepository
	carts    repository.CartRepository
	products repository.ProductRepository
	users    repository.UserRepository
	engine   *settlement.Engine
	timeout  StoreTimeout
	logger   *slog.Logger
	now      func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	engine *settlement.Engine,
	timeout StoreTimeout,
	logger *slog.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orders:   orders,
		carts:    carts,
		products: products,
		users:    users,
		engine:   engine,
		timeout:  timeout,
		logger:   logger,
		now:      time.Now,
	}
}

// Checkout converts the current cart of the customer into an order.
func (u *OrderUseCase) Checkout(ctx context.Context, customerID int64) (*model.Order, error) {
	cart, err := withStore(ctx, u.timeout, func(ctx context.Context) (model.Cart, error) {
		return u.carts.Get(ctx, customerID)
	})
	if err != nil {
		return nil, err
	}
	return u.PlaceOrder(ctx, customerID, cart)
}

// PlaceOrder settles every cart line and persists the order. The cart is
// cleared in the same transaction, and only if it still matches cart.
func (u *OrderUseCase) PlaceOrder(ctx context.Context, customerID int64, cart model.Cart) (*model.Order, error) {
	customer, err := u.user(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !customer.Profile.ShippingReady() {
		return nil, domainErrors.ErrAddressIncomplete
	}
	if cart.Empty() {
		return nil, domainErrors.ErrEmptyCart
	}
	for _, line := range cart.Items {
		if line.Quantity <= 0 {
			return nil, domainErrors.ErrInvalidQuantity
		}
		if line.Price.IsNegative() {
			return nil, domainErrors.ErrInvalidPrice
		}
	}

	products, err := withStore(ctx, u.timeout, func(ctx context.Context) (map[int64]model.Product, error) {
		return u.products.Lookup(ctx, cart.ProductIDs())
	})
	if err != nil {
		return nil, err
	}

	items := make([]model.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", domainErrors.ErrProductNotFound, line.ProductID)
		}
		settled, err := u.engine.Compute(line.Price, line.Quantity, product.CommissionRate)
		if err != nil {
			return nil, err
		}
		items = append(items, model.OrderItem{
			ProductID:        product.ID,
			ArtistID:         product.ArtistID,
			ProductTitle:     product.Title,
			Quantity:         line.Quantity,
			PriceAtPurchase:  line.Price,
			CommissionAmount: settled.CommissionAmount,
			ArtistPayout:     settled.ArtistPayout,
			ShippingStatus:   model.ShippingStatusPending,
		})
	}

	cart.CustomerID = customerID
	order := model.Order{
		CustomerID:             customerID,
		OrderDate:              u.now().UTC(),
		Items:                  items,
		TotalAmountAtPlacement: cart.Total(),
	}

	placed, err := withStore(ctx, u.timeout, func(ctx context.Context) (*model.Order, error) {
		return u.orders.Place(ctx, cart, order)
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("order placed",
		slog.Int64("order_id", placed.ID),
		slog.Int64("customer_id", customerID),
		slog.Int("items", len(placed.Items)),
		slog.String("total", placed.TotalAmountAtPlacement.StringFixed(model.MoneyPlaces)),
	)
	return placed, nil
}

// TransitionItem applies action to a single order item on behalf of actor.
// Admins may act on any item, artists only on their own.
func (u *OrderUseCase) TransitionItem(
	ctx context.Context,
	actor model.Actor,
	orderID, itemID int64,
	action model.ItemAction,
	trackingNumber string,
) (*model.Order, error) {
	if !action.Valid() {
		return nil, domainErrors.ErrInvalidAction
	}
	trackingNumber = strings.TrimSpace(trackingNumber)
	if action == model.ItemActionShip && trackingNumber == "" {
		return nil, domainErrors.ErrTrackingNumberRequired
	}
	if actor.Role != model.RoleAdmin && actor.Role != model.RoleArtist {
		return nil, domainErrors.ErrForbidden
	}

	order, err := u.order(ctx, orderID)
	if err != nil {
		return nil, err
	}
	item, ok := order.Item(itemID)
	if !ok {
		return nil, domainErrors.ErrItemNotFound
	}
	if actor.Role == model.RoleArtist && item.ArtistID != actor.UserID {
		return nil, domainErrors.ErrForbidden
	}

	next, ok := item.ShippingStatus.Next(action)
	if !ok {
		return nil, domainErrors.NewConflict(domainErrors.ErrInvalidTransition, string(item.ShippingStatus))
	}

	transition := model.ItemTransition{
		OrderID:  orderID,
		ItemID:   itemID,
		Expected: item.ShippingStatus,
		Next:     next,
	}
	if action == model.ItemActionShip {
		shippedAt := u.now().UTC()
		if item.ShippedDate != nil {
			shippedAt = *item.ShippedDate
		}
		transition.TrackingNumber = &trackingNumber
		transition.ShippedDate = &shippedAt
	}

	if err := execStore(ctx, u.timeout, func(ctx context.Context) error {
		return u.orders.TransitionItem(ctx, transition)
	}); err != nil {
		return nil, err
	}

	u.logger.Info("order item transitioned",
		slog.Int64("order_id", orderID),
		slog.Int64("item_id", itemID),
		slog.String("from", string(transition.Expected)),
		slog.String("to", string(transition.Next)),
		slog.String("role", string(actor.Role)),
	)

	updated, err := u.order(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor.Role == model.RoleArtist {
		view := updated.ForArtist(actor.UserID)
		return &view, nil
	}
	return updated, nil
}

// CancelOrder cancels every pending item of the order. It is refused once any
// item has been accepted for fulfilment.
func (u *OrderUseCase) CancelOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	order, err := u.order(ctx, orderID)
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleCustomer:
		if order.CustomerID != actor.UserID {
			return nil, domainErrors.ErrForbidden
		}
	default:
		return nil, domainErrors.ErrForbidden
	}

	if err := cancellable(order); err != nil {
		return nil, err
	}

	if err := execStore(ctx, u.timeout, func(ctx context.Context) error {
		return u.orders.CancelPending(ctx, orderID)
	}); err != nil {
		return nil, err
	}

	u.logger.Info("order cancelled",
		slog.Int64("order_id", orderID),
		slog.String("role", string(actor.Role)),
	)
	return u.order(ctx, orderID)
}

func cancellable(order *model.Order) error {
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
	return nil
}

// Order returns the order as visible to actor. Artists see only their own items.
func (u *OrderUseCase) Order(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	order, err := u.order(ctx, orderID)
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case model.RoleAdmin:
		return order, nil
	case model.RoleCustomer:
		if order.CustomerID == actor.UserID {
			return order, nil
		}
	case model.RoleArtist:
		if order.HasArtist(actor.UserID) {
			view := order.ForArtist(actor.UserID)
			return &view, nil
		}
	}
	return nil, domainErrors.ErrForbidden
}

// OrdersForCustomer returns orders of the customer, newest first.
func (u *OrderUseCase) OrdersForCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	return withStore(ctx, u.timeout, func(ctx context.Context) ([]model.Order, error) {
		return u.orders.ListByCustomer(ctx, customerID)
	})
}

// OrdersForArtist returns orders holding items of the artist, each restricted
// to those items so that the derived status reflects only the artist's work.
func (u *OrderUseCase) OrdersForArtist(ctx context.Context, artistID int64) ([]model.Order, error) {
	orders, err := withStore(ctx, u.timeout, func(ctx context.Context) ([]model.Order, error) {
		return u.orders.ListByArtist(ctx, artistID, model.DateRange{})
	})
	if err != nil {
		return nil, err
	}
	views := make([]model.Order, 0, len(orders))
	for _, order := range orders {
		view := order.ForArtist(artistID)
		if len(view.Items) > 0 {
			views = append(views, view)
		}
	}
	return views, nil
}

// AllOrders returns every order on the platform.
func (u *OrderUseCase) AllOrders(ctx context.Context) ([]model.Order, error) {
	return withStore(ctx, u.timeout, u.orders.ListAll)
}

func (u *OrderUseCase) order(ctx context.Context, orderID int64) (*model.Order, error) {
	return withStore(ctx, u.timeout, func(ctx context.Context) (*model.Order, error) {
		return u.orders.GetByID(ctx, orderID)
	})
}

func (u *OrderUseCase) user(ctx context.Context, userID int64) (*model.User, error) {
	return withStore(ctx, u.timeout, func(ctx context.Context) (*model.User, error) {
		return u.users.GetByID(ctx, userID)
	})
}
