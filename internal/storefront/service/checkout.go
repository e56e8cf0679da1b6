package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/storefront/internal/storefront/store"
	"github.com/aussiebroadwan/storefront/pkg/shopsdk"
)

// CheckoutRequest is what the user picks on the checkout page.
type CheckoutRequest struct {
	AddressID     string
	PaymentMethod string
	Note          string
}

// CheckoutResult is the placed order and, for online payment, where to pay.
type CheckoutResult struct {
	Order      *shopsdk.Order
	PaymentURL string
}

// CheckoutService places an order from the local cart.
type CheckoutService struct {
	Store  store.Store
	Client *shopsdk.Client
	Guard  *Guard
	Logger *slog.Logger
}

// Checkout requires a valid session, places the order, clears the local
// cart and for online payment asks for the payment URL.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if s.Guard != nil {
		if _, err := s.Guard.Enter(ctx, "/checkout"); err != nil {
			return nil, err
		}
	}

	cart, err := s.Store.Carts().GetCart(ctx)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	method := req.PaymentMethod
	if method == "" {
		method = shopsdk.PaymentCOD
	}

	order, err := s.Client.CreateOrder(ctx, shopsdk.CreateOrderRequest{
		Items:         cart.Items,
		AddressID:     req.AddressID,
		PaymentMethod: method,
		Note:          req.Note,
	})
	if err != nil {
		return nil, err
	}

	if err := s.Store.Carts().DeleteCart(ctx); err != nil {
		s.logger().WarnContext(ctx, "failed to clear cart after checkout", "order_id", order.ID, "error", err)
	}

	result := &CheckoutResult{Order: order}
	if method != shopsdk.PaymentCOD {
		if result.PaymentURL, err = s.Client.CreatePaymentURL(ctx, order.ID); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (s *CheckoutService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
