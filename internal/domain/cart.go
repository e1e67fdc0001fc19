package domain

// CartItem is one product line in a cart. ProductID is a reference into the catalog.
type CartItem struct {
	ID                  string `json:"id"`
	ProductID           string `json:"productId"`
	Quantity            int    `json:"quantity"`
	SelectedForCheckout bool   `json:"selectedForCheckout"`
}

// Cart belongs to exactly one user and keeps its items in insertion order.
type Cart struct {
	ID     string     `json:"id"`
	UserID string     `json:"userId"`
	Items  []CartItem `json:"items"`
}

// Clone returns a deep copy of the cart.
func (c Cart) Clone() Cart {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return c
}

// Item returns the item with the given id.
func (c *Cart) Item(itemID string) (CartItem, bool) {
	for _, it := range c.Items {
		if it.ID == itemID {
			return it, true
		}
	}
	return CartItem{}, false
}

// QuantityOf returns the quantity held for productID, or 0.
func (c *Cart) QuantityOf(productID string) int {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

// MergeItem adds quantity to the line holding productID, or appends a new
// unselected line with the id returned by newID.
func (c *Cart) MergeItem(productID string, quantity int, newID func() string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			return
		}
	}
	c.Items = append(c.Items, CartItem{
		ID:        newID(),
		ProductID: productID,
		Quantity:  quantity,
	})
}

// SetQuantity sets an absolute quantity. A non-positive quantity removes the item.
func (c *Cart) SetQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(itemID)
		return
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// RemoveItem drops the item with the given id, keeping the order of the rest.
func (c *Cart) RemoveItem(itemID string) {
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	c.Items = kept
}

func (c *Cart) Select(itemID string, selected bool) {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].SelectedForCheckout = selected
			return
		}
	}
}

// SelectMany sets the flag on every item whose id is in itemIDs.
// Unknown ids are ignored.
func (c *Cart) SelectMany(itemIDs []string, selected bool) {
	set := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		set[id] = struct{}{}
	}
	for i := range c.Items {
		if _, ok := set[c.Items[i].ID]; ok {
			c.Items[i].SelectedForCheckout = selected
		}
	}
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
}

// TakeSelected removes the selected items and returns them.
func (c *Cart) TakeSelected() []CartItem {
	var taken []CartItem
	kept := make([]CartItem, 0, len(c.Items))
	for _, it := range c.Items {
		if it.SelectedForCheckout {
			taken = append(taken, it)
			continue
		}
		kept = append(kept, it)
	}
	c.Items = kept
	return taken
}

// HasSelected reports whether any item is marked for checkout.
func (c *Cart) HasSelected() bool {
	for _, it := range c.Items {
		if it.SelectedForCheckout {
			return true
		}
	}
	return false
}
