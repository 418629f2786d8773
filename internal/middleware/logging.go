package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// cartRequest is a checkout request that targets one cart.
type cartRequest interface {
	GetCartID() string
}

// sessionRequest is a checkout request bound to a checkout session.
type sessionRequest interface {
	GetSessionID() string
}

// checkoutAttrs returns the cart and session a request is about, when it carries them.
func checkoutAttrs(msg any) []any {
	var attrs []any
	if r, ok := msg.(cartRequest); ok && r.GetCartID() != "" {
		attrs = append(attrs, "cart_id", r.GetCartID())
	}
	if r, ok := msg.(sessionRequest); ok && r.GetSessionID() != "" {
		attrs = append(attrs, "session_id", r.GetSessionID())
	}
	return attrs
}

// LoggingInterceptor returns a Connect interceptor that logs every checkout RPC
// with its procedure, customer, cart, session, duration and error code.
// Install it after OptionalAuth so the customer ID is already on the context.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			attrs := []any{
				"procedure", req.Spec().Procedure,
				"customer_id", GetCustomerID(ctx), // empty for guests
			}
			attrs = append(attrs, checkoutAttrs(req.Any())...)

			resp, err := next(ctx, req)

			attrs = append(attrs, "duration_ms", time.Since(start).Milliseconds())
			var connectErr *connect.Error
			switch {
			case err == nil:
				slog.Info("Checkout RPC ok", attrs...)
			case errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal:
				slog.Warn("Checkout RPC rejected", append(attrs, "code", connectErr.Code().String(), "error", connectErr.Message())...)
			default:
				slog.Error("Checkout RPC failed", append(attrs, "code", connect.CodeOf(err).String(), "error", err)...)
			}

			return resp, err
		}
	}
}
