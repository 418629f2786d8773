package models

// AddressType tells billing and shipping addresses apart.
type AddressType string

const (
	AddressTypeBilling  AddressType = "billing"
	AddressTypeShipping AddressType = "shipping"
)

// Address is an address record attached to a cart.
// Totals are kept per address as well as per cart.
type Address struct {
	// ID and CartID are storage identity. They are never copied between carts.
	ID     string
	CartID string

	AddressData

	Totals Totals
}

// AddressData is the copyable part of an address.
type AddressData struct {
	Type      AddressType
	Email     string
	Firstname string
	Lastname  string
	Street    string
	City      string
	Region    string
	Postcode  string
	CountryID string
	Telephone string

	// ShippingMethod and ShippingAmount are only meaningful on shipping addresses.
	ShippingMethod string
	ShippingAmount float64

	// Extra holds any address field without a dedicated column.
	Extra map[string]string
}

// Clone returns a copy that shares no memory with d.
func (d AddressData) Clone() AddressData {
	d.Extra = cloneStringMap(d.Extra)
	return d
}

// Data returns a copy of the address data with storage identity stripped.
func (a *Address) Data() AddressData {
	return a.AddressData.Clone()
}
