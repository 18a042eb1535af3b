package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/craftmarket/internal/domain/errors"
	"github.com/polkiloo/craftmarket/internal/domain/model"
	"github.com/polkiloo/craftmarket/internal/server/http/dto"
	"github.com/polkiloo/craftmarket/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/craftmarket/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := dto.RegisterValidators(); err != nil {
		panic(err)
	}
}

var (
	customer = model.Actor{UserID: 1, Role: model.RoleCustomer}
	artist   = model.Actor{UserID: 2, Role: model.RoleArtist}
	admin    = model.Actor{UserID: 9, Role: model.RoleAdmin}
)

func performRequest(t *testing.T, method, route, target string, handler gin.HandlerFunc, actor *model.Actor, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, func(c *gin.Context) {
		if actor != nil {
			c.Set(middleware.ActorContextKey, *actor)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", resp.Body.String(), err)
	}
	return body
}

func TestCurrentActor(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentActor(c); got.UserID != 0 {
		t.Fatalf("expected zero actor when not set, got %+v", got)
	}

	c.Set(middleware.ActorContextKey, customer)
	if got := CurrentActor(c); got != customer {
		t.Fatalf("expected %+v, got %+v", customer, got)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domainErrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{domainErrors.ErrForbidden, http.StatusForbidden},
		{&domainErrors.AccountNotApprovedError{Status: "request_received"}, http.StatusForbidden},
		{domainErrors.ErrAlreadyExists, http.StatusConflict},
		{domainErrors.ErrEmptyCart, http.StatusUnprocessableEntity},
		{domainErrors.ErrAddressIncomplete, http.StatusUnprocessableEntity},
		{fmt.Errorf("wrapped: %w", domainErrors.ErrOrderNotFound), http.StatusNotFound},
		{domainErrors.NewConflict(domainErrors.ErrInvalidTransition, "shipped"), http.StatusConflict},
		{domainErrors.ErrCartChanged, http.StatusConflict},
		{domainErrors.ErrUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.want, got)
		}
	}
}

func TestAuthHandlerRegister(t *testing.T) {
	login := testhelpers.RandomASCIIString(7, 14)
	password := testhelpers.RandomASCIIString(16, 32)
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{RegisterFn: func(_ context.Context, gotLogin, gotPassword string, role model.Role) (*model.User, string, error) {
		if gotLogin != login || gotPassword != password || role != model.RoleCustomer {
			t.Fatalf("unexpected arguments passed to facade: %q %q %q", gotLogin, gotPassword, role)
		}
		return &model.User{ID: 5, Login: login, Role: role}, "session-token", nil
	}})
	body := mustJSON(t, dto.RegisterRequest{Login: login, Password: password, Role: "customer"})
	resp := performRequest(t, http.MethodPost, "/register", "/register", handler.Register, nil, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Authorization"); got != "Bearer session-token" {
		t.Fatalf("unexpected authorization header %q", got)
	}
	var user dto.UserResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &user); err != nil || user.ID != 5 || user.Login != login {
		t.Fatalf("unexpected user body %s: %v", resp.Body.String(), err)
	}
}

func TestAuthHandlerRegisterArtistAwaitsApproval(t *testing.T) {
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{RegisterFn: func(_ context.Context, login, _ string, role model.Role) (*model.User, string, error) {
		return &model.User{ID: 7, Login: login, Role: role, ArtistStatus: model.ArtistStatusRequestReceived}, "", nil
	}})
	body := mustJSON(t, dto.RegisterRequest{Login: "painter", Password: "secret", Role: "artist"})
	resp := performRequest(t, http.MethodPost, "/register", "/register", handler.Register, nil, body)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", resp.Code)
	}
	if resp.Header().Get("Authorization") != "" || len(resp.Result().Cookies()) != 0 {
		t.Fatal("pending artist must not receive a session")
	}
	var user dto.UserResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &user); err != nil || user.ArtistStatus != "request_received" {
		t.Fatalf("unexpected user body %s: %v", resp.Body.String(), err)
	}
}

func TestAuthHandlerRegisterErrors(t *testing.T) {
	cases := []struct {
		name string
		body []byte
		err  error
		want int
	}{
		{"malformed json", []byte("{"), nil, http.StatusBadRequest},
		{"missing password", mustJSON(t, map[string]string{"login": "user"}), nil, http.StatusBadRequest},
		{"admin role", mustJSON(t, dto.RegisterRequest{Login: "u", Password: "p", Role: "admin"}), nil, http.StatusBadRequest},
		{"duplicate", mustJSON(t, dto.RegisterRequest{Login: "u", Password: "p"}), domainErrors.ErrAlreadyExists, http.StatusConflict},
		{"invalid", mustJSON(t, dto.RegisterRequest{Login: "u", Password: "p"}), domainErrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"internal", mustJSON(t, dto.RegisterRequest{Login: "u", Password: "p"}), errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewAuthHandler(testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string, model.Role) (*model.User, string, error) {
				if tc.err == nil {
					t.Fatal("facade must not be called for invalid requests")
				}
				return nil, "", tc.err
			}})
			resp := performRequest(t, http.MethodPost, "/register", "/register", handler.Register, nil, tc.body)
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.Code)
			}
			if tc.want == http.StatusInternalServerError && decodeError(t, resp).Error != http.StatusText(http.StatusInternalServerError) {
				t.Fatalf("internal error leaked: %s", resp.Body.String())
			}
		})
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	body := mustJSON(t, dto.LoginRequest{Login: "user", Password: "pass"})
	resp := performRequest(t, http.MethodPost, "/login", "/login", NewAuthHandler(testhelpers.AuthFacadeStub{}).Login, nil, body)
	if resp.Code != http.StatusOK || resp.Header().Get("Authorization") != "Bearer token" {
		t.Fatalf("expected 200 with token, got %d %q", resp.Code, resp.Header().Get("Authorization"))
	}

	notApproved := NewAuthHandler(testhelpers.AuthFacadeStub{AuthenticateFn: func(context.Context, string, string) (*model.User, string, error) {
		return nil, "", &domainErrors.AccountNotApprovedError{Status: "waiting_for_documents"}
	}})
	resp = performRequest(t, http.MethodPost, "/login", "/login", notApproved.Login, nil, body)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
	if msg := decodeError(t, resp).Error; msg != "account status is 'waiting for documents', only approved artists can log in" {
		t.Fatalf("unexpected message %q", msg)
	}

	wrong := NewAuthHandler(testhelpers.AuthFacadeStub{AuthenticateFn: func(context.Context, string, string) (*model.User, string, error) {
		return nil, "", domainErrors.ErrInvalidCredentials
	}})
	resp = performRequest(t, http.MethodPost, "/login", "/login", wrong.Login, nil, body)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthHandlerUpdateProfile(t *testing.T) {
	var gotID int64
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{UpdateProfileFn: func(_ context.Context, userID int64, p model.Profile) (*model.User, error) {
		gotID = userID
		return &model.User{ID: userID, Login: "buyer", Role: model.RoleCustomer, Profile: p}, nil
	}})
	body := mustJSON(t, dto.ProfileRequest{Street: "1 Main", City: "Town", ZipCode: "1000", Country: "NL", Mobile: "+31600000000"})
	resp := performRequest(t, http.MethodPut, "/profile", "/profile", handler.UpdateProfile, &customer, body)
	if resp.Code != http.StatusOK || gotID != customer.UserID {
		t.Fatalf("expected 200 for user %d, got %d for %d", customer.UserID, resp.Code, gotID)
	}

	body = mustJSON(t, dto.ProfileRequest{City: "Town", Mobile: "call me"})
	resp = performRequest(t, http.MethodPut, "/profile", "/profile", handler.UpdateProfile, &customer, body)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad mobile, got %d", resp.Code)
	}
	if details := decodeError(t, resp).Details; details["mobile"] != "must be a valid mobile number" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestOrderHandlerCheckout(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{})
	resp := performRequest(t, http.MethodPost, "/orders", "/orders", handler.Checkout, &customer, nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var order dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &order); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if order.CustomerID != customer.UserID || order.Status != model.OrderStatusPending || len(order.Items) != 1 {
		t.Fatalf("unexpected order %+v", order)
	}
	if !order.TotalAmountAtPlacement.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("unexpected total %s", order.TotalAmountAtPlacement)
	}

	failing := NewOrderHandler(testhelpers.OrderFacadeStub{CheckoutFn: func(context.Context, int64) (*model.Order, error) {
		return nil, domainErrors.ErrAddressIncomplete
	}})
	resp = performRequest(t, http.MethodPost, "/orders", "/orders", failing.Checkout, &customer, nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}

func TestOrderHandlerListings(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{})
	for _, h := range []gin.HandlerFunc{handler.List, handler.ArtistOrders, handler.AllOrders} {
		resp := performRequest(t, http.MethodGet, "/orders", "/orders", h, &admin, nil)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
	}

	empty := NewOrderHandler(testhelpers.OrderFacadeStub{CustomerOrdersFn: func(context.Context, int64) ([]model.Order, error) {
		return nil, nil
	}})
	resp := performRequest(t, http.MethodGet, "/orders", "/orders", empty.List, &customer, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for empty list, got %d", resp.Code)
	}

	unavailable := NewOrderHandler(testhelpers.OrderFacadeStub{AllOrdersFn: func(context.Context) ([]model.Order, error) {
		return nil, fmt.Errorf("%w: deadline", domainErrors.ErrUnavailable)
	}})
	resp = performRequest(t, http.MethodGet, "/orders", "/orders", unavailable.AllOrders, &admin, nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestOrderHandlerGet(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{OrderFn: func(_ context.Context, actor model.Actor, id int64) (*model.Order, error) {
		if actor != artist {
			return nil, domainErrors.ErrForbidden
		}
		return testhelpers.SampleOrder(id, 1), nil
	}})
	resp := performRequest(t, http.MethodGet, "/orders/:orderID", "/orders/12", handler.Get, &artist, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodGet, "/orders/:orderID", "/orders/12", handler.Get, &customer, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
	for _, bad := range []string{"/orders/abc", "/orders/0", "/orders/-3"} {
		resp = performRequest(t, http.MethodGet, "/orders/:orderID", bad, handler.Get, &artist, nil)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", bad, resp.Code)
		}
	}
}

func TestOrderHandlerCancelConflictReportsCurrentStatus(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{CancelOrderFn: func(context.Context, model.Actor, int64) (*model.Order, error) {
		return nil, domainErrors.NewConflict(domainErrors.ErrOrderInProgress, string(model.ShippingStatusOrderAccepted))
	}})
	resp := performRequest(t, http.MethodPost, "/orders/:orderID/cancel", "/orders/3/cancel", handler.Cancel, &customer, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
	if body := decodeError(t, resp); body.CurrentStatus != "orderAccepted" {
		t.Fatalf("expected current status in body, got %+v", body)
	}

	ok := NewOrderHandler(testhelpers.OrderFacadeStub{})
	resp = performRequest(t, http.MethodPost, "/orders/:orderID/cancel", "/orders/3/cancel", ok.Cancel, &customer, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var order dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &order); err != nil || order.Status != model.OrderStatusCompleted {
		t.Fatalf("expected completed order after cancelling all items, got %s: %v", resp.Body.String(), err)
	}
}

func TestOrderHandlerTransitionItem(t *testing.T) {
	var got struct {
		orderID, itemID int64
		action          model.ItemAction
		tracking        string
	}
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{TransitionItemFn: func(_ context.Context, _ model.Actor, orderID, itemID int64, action model.ItemAction, tracking string) (*model.Order, error) {
		got.orderID, got.itemID, got.action, got.tracking = orderID, itemID, action, tracking
		return testhelpers.SampleOrder(orderID, 1), nil
	}})
	body := mustJSON(t, dto.TransitionItemRequest{Action: "ship", TrackingNumber: "TRK-1"})
	resp := performRequest(t, http.MethodPatch, "/orders/:orderID/items/:itemID", "/orders/4/items/8", handler.TransitionItem, &artist, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got.orderID != 4 || got.itemID != 8 || got.action != model.ItemActionShip || got.tracking != "TRK-1" {
		t.Fatalf("unexpected facade arguments %+v", got)
	}

	body = mustJSON(t, dto.TransitionItemRequest{Action: "deliver"})
	resp = performRequest(t, http.MethodPatch, "/orders/:orderID/items/:itemID", "/orders/4/items/8", handler.TransitionItem, &artist, body)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown action, got %d", resp.Code)
	}
	if details := decodeError(t, resp).Details; details["action"] == "" {
		t.Fatalf("expected action detail, got %v", details)
	}

	conflict := NewOrderHandler(testhelpers.OrderFacadeStub{TransitionItemFn: func(context.Context, model.Actor, int64, int64, model.ItemAction, string) (*model.Order, error) {
		return nil, domainErrors.NewConflict(domainErrors.ErrInvalidTransition, "cancelled")
	}})
	body = mustJSON(t, dto.TransitionItemRequest{Action: "accept"})
	resp = performRequest(t, http.MethodPatch, "/orders/:orderID/items/:itemID", "/orders/4/items/8", conflict.TransitionItem, &admin, body)
	if resp.Code != http.StatusConflict || decodeError(t, resp).CurrentStatus != "cancelled" {
		t.Fatalf("expected 409 with current status, got %d %s", resp.Code, resp.Body.String())
	}
}

func TestArtistHandlerAdministration(t *testing.T) {
	handler := NewArtistHandler(testhelpers.ArtistFacadeStub{})

	resp := performRequest(t, http.MethodGet, "/artists", "/artists", handler.List, &admin, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var artists []dto.ArtistResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &artists); err != nil || len(artists) != 1 || artists[0].NextStatuses[0] != "rejected" {
		t.Fatalf("unexpected artists %s: %v", resp.Body.String(), err)
	}

	body := mustJSON(t, dto.ArtistStatusRequest{Status: "approved"})
	resp = performRequest(t, http.MethodPatch, "/artists/:artistID/status", "/artists/2/status", handler.TransitionStatus, &admin, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPut, "/artists/:artistID/commission", "/artists/2/commission", handler.SetCommission, &admin, []byte(`{"rate":"12.5"}`))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var updated dto.ArtistResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &updated); err != nil || !updated.CommissionRate.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected artist %s: %v", resp.Body.String(), err)
	}

	resp = performRequest(t, http.MethodPut, "/artists/:artistID/commission", "/artists/2/commission", handler.SetCommission, &admin, []byte(`{}`))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without rate, got %d", resp.Code)
	}
}

func TestArtistHandlerTransitionConflict(t *testing.T) {
	handler := NewArtistHandler(testhelpers.ArtistFacadeStub{TransitionStatusFn: func(context.Context, int64, model.ArtistStatus) (*model.Artist, error) {
		return nil, domainErrors.NewConflict(domainErrors.ErrInvalidStatusTransition, "request_received")
	}})
	body := mustJSON(t, dto.ArtistStatusRequest{Status: "approved"})
	resp := performRequest(t, http.MethodPatch, "/artists/:artistID/status", "/artists/2/status", handler.TransitionStatus, &admin, body)
	if resp.Code != http.StatusConflict || decodeError(t, resp).CurrentStatus != "request_received" {
		t.Fatalf("expected 409 with current status, got %d %s", resp.Code, resp.Body.String())
	}
}

func TestArtistHandlerListProduct(t *testing.T) {
	var gotRate *decimal.Decimal
	handler := NewArtistHandler(testhelpers.ArtistFacadeStub{ListProductFn: func(_ context.Context, id int64, rate *decimal.Decimal) (*model.Product, error) {
		gotRate = rate
		return &model.Product{ID: id, Listed: true}, nil
	}})

	resp := performRequest(t, http.MethodPut, "/products/:productID/listing", "/products/5/listing", handler.ListProduct, &admin, nil)
	if resp.Code != http.StatusOK || gotRate != nil {
		t.Fatalf("expected 200 without rate, got %d rate=%v", resp.Code, gotRate)
	}

	resp = performRequest(t, http.MethodPut, "/products/:productID/listing", "/products/5/listing", handler.ListProduct, &admin, []byte(`{"commission_rate":"7.25"}`))
	if resp.Code != http.StatusOK || gotRate == nil || !gotRate.Equal(decimal.RequireFromString("7.25")) {
		t.Fatalf("expected explicit rate, got %d rate=%v", resp.Code, gotRate)
	}

	pending := NewArtistHandler(testhelpers.ArtistFacadeStub{ListProductFn: func(context.Context, int64, *decimal.Decimal) (*model.Product, error) {
		return nil, &domainErrors.AccountNotApprovedError{Status: "rejected"}
	}})
	resp = performRequest(t, http.MethodPut, "/products/:productID/listing", "/products/5/listing", pending.ListProduct, &admin, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestArtistHandlerStats(t *testing.T) {
	var gotID int64
	var gotFrom, gotTo *time.Time
	handler := NewArtistHandler(testhelpers.ArtistFacadeStub{ArtistStatsFn: func(_ context.Context, id int64, from, to *time.Time) (*model.ArtistStats, error) {
		gotID, gotFrom, gotTo = id, from, to
		if from != nil && to != nil && from.After(*to) {
			return nil, domainErrors.ErrInvalidDateRange
		}
		return &model.ArtistStats{TotalOrders: 2}, nil
	}})

	resp := performRequest(t, http.MethodGet, "/stats", "/stats?from=2024-01-01&to=2024-01-31", handler.OwnStats, &artist, nil)
	if resp.Code != http.StatusOK || gotID != artist.UserID {
		t.Fatalf("expected 200 for own stats, got %d id=%d", resp.Code, gotID)
	}
	if !gotFrom.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected from %v", gotFrom)
	}
	if !gotTo.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)) {
		t.Fatalf("expected to bound at end of day, got %v", gotTo)
	}
	var stats model.ArtistStats
	if err := json.Unmarshal(resp.Body.Bytes(), &stats); err != nil || stats.TopProducts == nil {
		t.Fatalf("expected empty top products list, got %s: %v", resp.Body.String(), err)
	}

	resp = performRequest(t, http.MethodGet, "/artists/:artistID/stats", "/artists/7/stats?from=2024-03-01T10:00:00Z", handler.Stats, &admin, nil)
	if resp.Code != http.StatusOK || gotID != 7 || gotTo != nil {
		t.Fatalf("expected admin stats for artist 7, got %d id=%d", resp.Code, gotID)
	}

	resp = performRequest(t, http.MethodGet, "/stats", "/stats?from=yesterday", handler.OwnStats, &artist, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/stats", "/stats?from=2024-02-01&to=2024-01-01", handler.OwnStats, &artist, nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for inverted range, got %d", resp.Code)
	}
}
