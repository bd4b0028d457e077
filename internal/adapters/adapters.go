// Package adapters bridges module boundaries. Each adapter satisfies the
// narrow interface one module declares by delegating to another module's
// service, keeping the modules free of direct imports of each other.
package adapters

import (
	"context"

	"doorcraft_backend/internal/followup"
	ordersservice "doorcraft_backend/internal/orders/service"
	paymentsservice "doorcraft_backend/internal/payments/service"
	quotesservice "doorcraft_backend/internal/quotes/service"

	"github.com/google/uuid"
)

// QuoteOrderAdapter exposes the quotes service as the orders module's
// quote store.
type QuoteOrderAdapter struct {
	quotes *quotesservice.Service
}

func NewQuoteOrderAdapter(quotes *quotesservice.Service) *QuoteOrderAdapter {
	return &QuoteOrderAdapter{quotes: quotes}
}

func (a *QuoteOrderAdapter) GetOrderView(ctx context.Context, quoteID uuid.UUID) (ordersservice.QuoteOrderView, error) {
	quote, err := a.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return ordersservice.QuoteOrderView{}, err
	}
	return ordersservice.QuoteOrderView{
		QuoteNumber: quote.QuoteNumber,
		TotalCents:  quote.GrandTotalCents,
	}, nil
}

func (a *QuoteOrderAdapter) SetPortalStage(ctx context.Context, quoteID uuid.UUID, stage string) error {
	return a.quotes.SetPortalStage(ctx, quoteID, stage)
}

var _ ordersservice.QuoteStore = (*QuoteOrderAdapter)(nil)

// OrderCascadeAdapter routes payment settlements into the orders module's
// single transition authority, always under the payment source.
type OrderCascadeAdapter struct {
	orders *ordersservice.Service
}

func NewOrderCascadeAdapter(orders *ordersservice.Service) *OrderCascadeAdapter {
	return &OrderCascadeAdapter{orders: orders}
}

func (a *OrderCascadeAdapter) MarkDepositPaid(ctx context.Context, quoteID uuid.UUID, deposit int) error {
	_, err := a.orders.MarkDepositPaid(ctx, quoteID, deposit, ordersservice.SourcePayment)
	return err
}

var _ paymentsservice.OrderCascader = (*OrderCascadeAdapter)(nil)

// ReceiptAdapter exposes the quotes messaging view as the payments module's
// receipt reader.
type ReceiptAdapter struct {
	quotes *quotesservice.Service
}

func NewReceiptAdapter(quotes *quotesservice.Service) *ReceiptAdapter {
	return &ReceiptAdapter{quotes: quotes}
}

func (a *ReceiptAdapter) GetReceiptView(ctx context.Context, quoteID uuid.UUID) (paymentsservice.ReceiptView, error) {
	view, err := a.quotes.GetMessagingView(ctx, quoteID)
	if err != nil {
		return paymentsservice.ReceiptView{}, err
	}
	return paymentsservice.ReceiptView{
		QuoteNumber:   view.QuoteNumber,
		ConsumerName:  view.ConsumerName,
		ConsumerEmail: view.ConsumerEmail,
	}, nil
}

var _ paymentsservice.ReceiptReader = (*ReceiptAdapter)(nil)

// FollowUpQuoteAdapter exposes the quotes service as the follow-up job's
// quote reader and lead cooler.
type FollowUpQuoteAdapter struct {
	quotes *quotesservice.Service
}

func NewFollowUpQuoteAdapter(quotes *quotesservice.Service) *FollowUpQuoteAdapter {
	return &FollowUpQuoteAdapter{quotes: quotes}
}

func (a *FollowUpQuoteAdapter) GetFollowUpView(ctx context.Context, quoteID uuid.UUID) (followup.QuoteView, error) {
	view, err := a.quotes.GetMessagingView(ctx, quoteID)
	if err != nil {
		return followup.QuoteView{}, err
	}
	return followup.QuoteView{
		QuoteNumber:   view.QuoteNumber,
		LeadStatus:    view.LeadStatus,
		FullIntent:    view.FullIntent,
		ConsumerName:  view.ConsumerName,
		ConsumerEmail: view.ConsumerEmail,
		DoorType:      view.DoorType,
	}, nil
}

func (a *FollowUpQuoteAdapter) SystemDemoteToCold(ctx context.Context, quoteID uuid.UUID) (bool, error) {
	return a.quotes.SystemDemoteToCold(ctx, quoteID)
}

var (
	_ followup.QuoteReader = (*FollowUpQuoteAdapter)(nil)
	_ followup.LeadCooler  = (*FollowUpQuoteAdapter)(nil)
)
