// Package payments provides the payment settlement domain module.
package payments

import (
	"doorcraft_backend/internal/email"
	apphttp "doorcraft_backend/internal/http"
	"doorcraft_backend/internal/payments/handler"
	"doorcraft_backend/internal/payments/repository"
	"doorcraft_backend/internal/payments/service"
	"doorcraft_backend/platform/logger"
	"doorcraft_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the payments domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new payments module with all dependencies wired. The
// order cascade and receipt lookups cross module boundaries, so they arrive
// as interfaces satisfied by adapters.
func NewModule(
	pool *pgxpool.Pool,
	orders service.OrderCascader,
	receipts service.ReceiptReader,
	sender email.Sender,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, orders, receipts, sender, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "payments"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	payments := ctx.Protected.Group("/payments")
	m.handler.RegisterRoutes(payments)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
