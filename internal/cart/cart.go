package cart

import "github.com/01072k1anhCong2/kinhkong/internal/domain"

// Cart holds the line items for one session. At most one line exists per
// product ID and every stored quantity is at least 1. Cart is not safe for
// concurrent use; callers serialize access per session.
type Cart struct {
	lines []domain.CartLine
}

func New() *Cart {
	return &Cart{}
}

// FromLines builds a cart from previously persisted lines. Lines with a
// non-positive quantity are dropped rather than kept.
func FromLines(lines []domain.CartLine) *Cart {
	c := &Cart{}
	for _, l := range lines {
		if l.Quantity > 0 {
			c.lines = append(c.lines, l)
		}
	}
	return c
}

// Add increments the quantity for the product's existing line, or appends a
// new line with quantity 1. Relative order of existing lines is preserved.
func (c *Cart) Add(p domain.Product) {
	for i := range c.lines {
		if c.lines[i].Product.ID == p.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, domain.CartLine{Product: p, Quantity: 1})
}

// SetQuantity sets the quantity for a product's line. A quantity of zero or
// less removes the line. Setting a quantity for a product that is not in the
// cart is a no-op.
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		for i := range c.lines {
			if c.lines[i].Product.ID == productID {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
				return
			}
		}
		return
	}
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Total is the integer sum of price times quantity over all lines. It is
// recomputed on every call, never stored.
func (c *Cart) Total() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// Count is the sum of quantities, used for the cart badge.
func (c *Cart) Count() int {
	count := 0
	for _, l := range c.lines {
		count += l.Quantity
	}
	return count
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the line items in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}
