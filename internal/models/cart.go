package models

// CheckoutMethod distinguishes guest checkout from registered checkout.
type CheckoutMethod string

const (
	CheckoutMethodGuest    CheckoutMethod = "guest"
	CheckoutMethodRegister CheckoutMethod = "register"
	CheckoutMethodCustomer CheckoutMethod = "customer"
)

// GroupNotLoggedIn is the customer group assigned to guest checkouts.
const GroupNotLoggedIn = 0

// Cart represents a shopping cart that can be split into independently payable carts.
type Cart struct {
	// ID is the unique identifier for the cart (UUID format).
	// Empty until the cart is persisted.
	ID string

	// StoreID identifies the storefront the cart belongs to.
	StoreID int64

	// CheckoutMethod is the checkout mode chosen for this cart.
	CheckoutMethod CheckoutMethod

	// Customer holds the customer identity attached to the cart.
	Customer Customer

	// Items are the line items in cart order, including hidden bundle children.
	Items []LineItem

	// Addresses holds the billing address and one or more shipping addresses.
	Addresses []*Address

	// Payment is the payment record owned by this cart, if any.
	Payment *Payment

	// Totals is the aggregate recomputed for the cart.
	Totals Totals

	// CreatedAt is the Unix timestamp when the cart was created.
	CreatedAt int64
}

// Customer is the identity attached to a cart or order.
type Customer struct {
	// ID references a registered customer. Empty for guests.
	ID        string
	Email     string
	GroupID   int
	Firstname string
	Lastname  string
	IsGuest   bool
}

// LineItem is a single product row on a cart.
type LineItem struct {
	ID             string
	CartID         string
	SKU            string
	Name           string
	Price          float64 // unit price
	Qty            float64
	TaxAmount      float64
	DiscountAmount float64

	// IsVirtual marks non-physical products which need no shipping.
	IsVirtual bool

	// Visible is false for bundle children; only visible items are split.
	Visible bool
}

// Payment holds the payment method chosen for a cart.
type Payment struct {
	ID string

	// CartID is the owning cart.
	CartID string

	Method         string
	AdditionalData map[string]string
}

// VisibleItems returns the items that take part in splitting, in cart order.
func (c *Cart) VisibleItems() []LineItem {
	var items []LineItem
	for _, item := range c.Items {
		if item.Visible {
			items = append(items, item)
		}
	}
	return items
}

// HasVirtualItems reports whether any item on the cart is virtual.
func (c *Cart) HasVirtualItems() bool {
	return HasVirtualItems(c.Items)
}

// HasVirtualItems reports whether any of the given items is virtual.
func HasVirtualItems(items []LineItem) bool {
	for _, item := range items {
		if item.IsVirtual {
			return true
		}
	}
	return false
}

// BillingAddress returns the first billing address, or nil.
func (c *Cart) BillingAddress() *Address {
	return c.addressOfType(AddressTypeBilling)
}

// ShippingAddress returns the first shipping address, or nil.
func (c *Cart) ShippingAddress() *Address {
	return c.addressOfType(AddressTypeShipping)
}

// AllAddresses returns every address record attached to the cart.
func (c *Cart) AllAddresses() []*Address {
	return c.Addresses
}

func (c *Cart) addressOfType(t AddressType) *Address {
	for _, a := range c.Addresses {
		if a != nil && a.Type == t {
			return a
		}
	}
	return nil
}

// Clone returns a deep copy of the payment.
func (p *Payment) Clone() *Payment {
	if p == nil {
		return nil
	}
	cp := *p
	cp.AdditionalData = cloneStringMap(p.AdditionalData)
	return &cp
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
