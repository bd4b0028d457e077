// Package orders provides the order fulfillment domain module.
package orders

import (
	apphttp "doorcraft_backend/internal/http"
	"doorcraft_backend/internal/orders/handler"
	"doorcraft_backend/internal/orders/repository"
	"doorcraft_backend/internal/orders/service"
	"doorcraft_backend/platform/events"
	"doorcraft_backend/platform/logger"
	"doorcraft_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the orders domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new orders module with all dependencies wired.
// The quote store is injected because quote ownership lives in another module.
func NewModule(pool *pgxpool.Pool, quotes service.QuoteStore, eventBus *events.InMemoryBus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, quotes, log)
	svc.SetEventBus(eventBus)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "orders"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	orders := ctx.Protected.Group("/orders")
	m.handler.RegisterRoutes(orders)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
