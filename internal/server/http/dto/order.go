package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/craftmarket/internal/domain/model"
)

// OrderResponse is an order together with its derived status.
type OrderResponse struct {
	ID                     int64             `json:"id"`
	CustomerID             int64             `json:"customer_id"`
	OrderDate              time.Time         `json:"order_date"`
	Status                 model.OrderStatus `json:"status"`
	TotalAmountAtPlacement decimal.Decimal   `json:"total_amount_at_placement"`
	Items                  []model.OrderItem `json:"items"`
}

// NewOrderResponse converts an order and derives its status.
func NewOrderResponse(o model.Order) OrderResponse {
	items := o.Items
	if items == nil {
		items = []model.OrderItem{}
	}
	return OrderResponse{
		ID:                     o.ID,
		CustomerID:             o.CustomerID,
		OrderDate:              o.OrderDate,
		Status:                 o.Status(),
		TotalAmountAtPlacement: model.RoundMoney(o.TotalAmountAtPlacement),
		Items:                  items,
	}
}

// NewOrderResponses converts a list of orders.
func NewOrderResponses(orders []model.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderResponse(o))
	}
	return out
}

// TransitionItemRequest asks to move one order item along its shipping lifecycle.
type TransitionItemRequest struct {
	Action         string `json:"action" binding:"required,oneof=accept ship cancel"`
	TrackingNumber string `json:"tracking_number" binding:"max=64"`
}
