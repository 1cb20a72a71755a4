package commands

import (
	"context"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/order"
	"supplychain/internal/pkg/errs"
)

// PlaceOrderCommandHandler creates orders against the available product quantity.
type PlaceOrderCommandHandler struct {
	uowFactory UoWFactory
}

func NewPlaceOrderCommandHandler(uowFactory UoWFactory) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle places the order and returns its id.
//
// Business rules:
//   - available = product quantity minus what buyers already stock
//   - the ordered quantity must not exceed available (ValueIsOutOfRange)
//   - total = unit price x quantity
func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err := uow.ProductRepository().Get(ctx, cmd.ProductID())
	if err != nil {
		return kernel.UUID{}, err
	}

	stocked, err := uow.StockRepository().SumForProduct(ctx, p.ID())
	if err != nil {
		return kernel.UUID{}, err
	}

	available := p.Available(stocked)
	if cmd.Quantity().GreaterThan(available) {
		return kernel.UUID{}, errs.NewValueIsOutOfRangeError("quantity", cmd.Quantity(), 1, available)
	}

	o, err := order.NewOrder(
		kernel.NewUUID(),
		p.ID(),
		cmd.Actor().ID,
		p.OwnerID(),
		cmd.Quantity(),
		p.UnitPrice(),
		time.Now().UTC(),
	)
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return o.ID(), nil
}
