package domain

// EnrichedCartItem is a cart item with its product resolved and the line total computed.
type EnrichedCartItem struct {
	ID                  string  `json:"id"`
	Product             Product `json:"product"`
	Quantity            int     `json:"quantity"`
	SelectedForCheckout bool    `json:"selectedForCheckout"`
	LineTotal           int64   `json:"lineTotal"`
}

// EnrichedCart is the read model returned by every cart operation.
type EnrichedCart struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"userId"`
	Items              []EnrichedCartItem `json:"items"`
	TotalQuantity      int                `json:"totalQuantity"`
	TotalPrice         int64              `json:"totalPrice"`
	CheckoutItems      []EnrichedCartItem `json:"checkoutItems"`
	CheckoutTotalPrice int64              `json:"checkoutTotalPrice"`
}

// CheckoutInfo summarizes the selected part of a cart.
type CheckoutInfo struct {
	CartID        string             `json:"cartId"`
	SelectedItems []EnrichedCartItem `json:"selectedItems"`
	TotalPrice    int64              `json:"totalPrice"`
	TotalQuantity int                `json:"totalQuantity"`
}

// CheckoutInfo derives the checkout summary from the enriched cart.
func (c EnrichedCart) CheckoutInfo() CheckoutInfo {
	qty := 0
	for _, it := range c.CheckoutItems {
		qty += it.Quantity
	}
	return CheckoutInfo{
		CartID:        c.ID,
		SelectedItems: c.CheckoutItems,
		TotalPrice:    c.CheckoutTotalPrice,
		TotalQuantity: qty,
	}
}
