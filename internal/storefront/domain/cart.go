package domain

import (
	"errors"
)

var (
	ErrInvalidQuantity = errors.New("domain: quantity must be at least 1")
	ErrMissingProduct  = errors.New("domain: product reference is required")
	ErrItemNotFound    = errors.New("domain: cart item not found")
)

// CartKey identifies a cart line. Two lines with the same product, size and
// store are the same line.
type CartKey struct {
	ProductID string
	Size      string
	StoreID   string
}

// CartItem is one line of the locally persisted cart snapshot.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name,omitempty"`
	Size      string  `json:"size,omitempty"`
	StoreID   string  `json:"storeId,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Quantity  int     `json:"quantity"`
}

func (i CartItem) Key() CartKey {
	return CartKey{ProductID: i.ProductID, Size: i.Size, StoreID: i.StoreID}
}

// Cart is an ordered list of lines, unique per CartKey.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Add merges item into the cart. Adding an existing (product, size, store)
// triple increments its quantity instead of adding a second line.
func (c *Cart) Add(item CartItem) error {
	if item.ProductID == "" {
		return ErrMissingProduct
	}
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}

	key := item.Key()
	for i := range c.Items {
		if c.Items[i].Key() == key {
			c.Items[i].Quantity += item.Quantity
			if item.Price != 0 {
				c.Items[i].Price = item.Price
			}
			return nil
		}
	}

	c.Items = append(c.Items, item)
	return nil
}

// SetQuantity changes the quantity of an existing line. A quantity below 1
// removes the line.
func (c *Cart) SetQuantity(key CartKey, quantity int) error {
	for i := range c.Items {
		if c.Items[i].Key() != key {
			continue
		}
		if quantity < 1 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
		c.Items[i].Quantity = quantity
		return nil
	}
	return ErrItemNotFound
}

// Remove deletes the line for key.
func (c *Cart) Remove(key CartKey) error {
	return c.SetQuantity(key, 0)
}

// Merge adds every line of other into c. Lines Add rejects (no product,
// quantity below one) are skipped.
func (c *Cart) Merge(other Cart) {
	for _, item := range other.Items {
		_ = c.Add(item)
	}
}

// Count is the total number of units in the cart.
func (c Cart) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Subtotal is the sum of price times quantity over all lines.
func (c Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

func (c Cart) IsEmpty() bool { return len(c.Items) == 0 }
