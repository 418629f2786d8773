package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitorder/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// CustomerIDKey is the context key for the authenticated customer ID.
	CustomerIDKey contextKey = "customer_id"
	// EmailKey is the context key for the authenticated customer's email.
	EmailKey contextKey = "email"
)

// GetCustomerID extracts the customer ID from the context.
// Returns empty string for guests.
func GetCustomerID(ctx context.Context) string {
	customerID, _ := ctx.Value(CustomerIDKey).(string)
	return customerID
}

// GetEmail extracts the customer email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// WithCustomer returns a context carrying the given customer identity.
func WithCustomer(ctx context.Context, customerID, email string) context.Context {
	ctx = context.WithValue(ctx, CustomerIDKey, customerID)
	return context.WithValue(ctx, EmailKey, email)
}

// OptionalAuth validates a bearer token when one is present and adds the customer
// to the context. Guests send no token. A token that is present but invalid is rejected.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return next(ctx, req)
			}

			// Parse Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithCustomer(ctx, claims.CustomerID, claims.Email), req)
		}
	}
}
