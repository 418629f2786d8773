// Package quote prepares split carts from an original cart: it copies
// customer, address and payment context by value and recomputes each split's totals.
package quote

import (
	"errors"

	"github.com/mmynk/splitorder/internal/calculator"
	"github.com/mmynk/splitorder/internal/models"
)

var (
	ErrMissingAddress        = errors.New("cart must have a billing and a shipping address")
	ErrGuestEmailUnavailable = errors.New("guest cart has no billing address to take the customer email from")
	ErrNoSplits              = errors.New("split list is empty")
)

// AddressBundle is the address and payment context copied from the original cart.
type AddressBundle struct {
	PaymentMethod string
	Billing       models.AddressData
	Shipping      models.AddressData
}

// NormalizeItems splits the cart's visible items into two ordered groups.
func NormalizeItems(cart *models.Cart) (first, second []models.LineItem) {
	return calculator.Partition(cart.VisibleItems())
}

// CollectAddresses copies the billing and shipping address data and the payment
// method from cart. The copies carry no storage identity and share no memory with cart.
func CollectAddresses(cart *models.Cart) (AddressBundle, error) {
	billing := cart.BillingAddress()
	shipping := cart.ShippingAddress()
	if billing == nil || shipping == nil {
		return AddressBundle{}, ErrMissingAddress
	}

	bundle := AddressBundle{
		Billing:  billing.Data(),
		Shipping: shipping.Data(),
	}
	if cart.Payment != nil {
		bundle.PaymentMethod = cart.Payment.Method
	}
	return bundle, nil
}

// SetCustomerData copies store and customer identity onto split.
// Guest checkout always ends with a guest split: no customer ID, the billing
// email, and the not-logged-in group.
func SetCustomerData(cart, split *models.Cart) error {
	split.StoreID = cart.StoreID
	split.CheckoutMethod = cart.CheckoutMethod
	split.Customer = cart.Customer

	if cart.CheckoutMethod != models.CheckoutMethodGuest {
		return nil
	}

	billing := cart.BillingAddress()
	if billing == nil {
		return ErrGuestEmailUnavailable
	}
	split.Customer.ID = ""
	split.Customer.Email = billing.Email
	split.Customer.IsGuest = true
	split.Customer.GroupID = models.GroupNotLoggedIn
	return nil
}

// Populate fills split with its items, the copied addresses and recomputed totals,
// then sets its payment method. splits is every split cut from the same original
// cart, split included.
func Populate(splits []*models.Cart, split *models.Cart, items []models.LineItem, addrs AddressBundle, payment *models.Payment) error {
	if len(splits) == 0 {
		return ErrNoSplits
	}

	RecollectTotal(len(splits), split, items, addrs)
	SetPaymentMethod(split, addrs.PaymentMethod, payment)
	return nil
}

// RecollectTotal attaches items to split and recomputes every totals record on it.
// All addresses on the split receive the same aggregate totals.
func RecollectTotal(splitCount int, split *models.Cart, items []models.LineItem, addrs AddressBundle) {
	split.Items = make([]models.LineItem, len(items))
	for i, item := range items {
		item.ID = ""
		item.CartID = split.ID
		split.Items[i] = item
	}

	sums := calculator.SumItems(items)

	setAddressData(split, addrs.Billing, models.AddressTypeBilling)
	shippingAddr := setAddressData(split, addrs.Shipping, models.AddressTypeShipping)

	shipping := calculator.ShippingShare(addrs.Shipping.ShippingAmount, splitCount, models.HasVirtualItems(items))
	shippingAddr.ShippingAmount = shipping

	totals := calculator.Recollect(sums, shipping)
	for _, a := range split.AllAddresses() {
		a.Totals = totals
	}
	split.Totals = totals
}

// setAddressData replaces the data of split's address of type t with a copy of data,
// adding the address when the split has none yet.
func setAddressData(split *models.Cart, data models.AddressData, t models.AddressType) *models.Address {
	data = data.Clone()
	data.Type = t

	for _, a := range split.Addresses {
		if a != nil && a.Type == t {
			a.AddressData = data
			return a
		}
	}

	a := &models.Address{CartID: split.ID, AddressData: data}
	split.Addresses = append(split.Addresses, a)
	return a
}

// SetPaymentMethod sets the split's payment method. When source is given, the split
// gets its own payment record carrying a copy of the source's method data.
func SetPaymentMethod(split *models.Cart, method string, source *models.Payment) {
	if source == nil {
		if split.Payment == nil {
			split.Payment = &models.Payment{CartID: split.ID}
		}
		split.Payment.Method = method
		return
	}

	owned := source.Clone()
	owned.ID = ""
	owned.CartID = split.ID
	owned.Method = method
	split.Payment = owned
}
