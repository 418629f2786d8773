// Package models defines the core domain models for splitorder.
//
// # Models
//
//   - Cart: a shopping cart (quote) with line items, addresses, payment and customer
//   - LineItem: a product row on a cart
//   - Address: billing or shipping address with its own totals record
//   - Payment: payment method and method-specific data
//   - Order: the persisted result of placing a split cart
//
// # Design Principles
//
//  1. Use ID strings instead of pointers for relationships between records
//  2. Storage identity (ID, CartID) is kept apart from copyable data so a split
//     can take a value copy of an address without aliasing the original
//  3. Totals are always recomputed, never trusted from storage
package models
