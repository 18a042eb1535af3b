package model

import "github.com/shopspring/decimal"

// CartItem is a cart line. Price is captured when the product was added.
type CartItem struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Cart is a snapshot of customer cart contents.
type Cart struct {
	CustomerID int64      `json:"customer_id"`
	Items      []CartItem `json:"items"`
}

// Empty reports whether the cart holds no lines.
func (c Cart) Empty() bool {
	return len(c.Items) == 0
}

// Total sums price multiplied by quantity over all lines.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return RoundMoney(total)
}

// SameItems reports whether both carts hold identical lines in identical order.
func (c Cart) SameItems(other Cart) bool {
	if len(c.Items) != len(other.Items) {
		return false
	}
	for i := range c.Items {
		a, b := c.Items[i], other.Items[i]
		if a.ProductID != b.ProductID || a.Quantity != b.Quantity || !a.Price.Equal(b.Price) {
			return false
		}
	}
	return true
}

// ProductIDs returns distinct product identifiers referenced by the cart.
func (c Cart) ProductIDs() []int64 {
	seen := make(map[int64]struct{}, len(c.Items))
	ids := make([]int64, 0, len(c.Items))
	for _, item := range c.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
