package commands

import (
	"context"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/product"
)

// CreateProductCommandHandler persists a newly listed product.
type CreateProductCommandHandler struct {
	uowFactory ProductUoWFactory
}

func NewCreateProductCommandHandler(uowFactory ProductUoWFactory) CreateProductCommandHandler {
	return CreateProductCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle creates the product owned by the calling producer and returns its id.
func (h CreateProductCommandHandler) Handle(ctx context.Context, cmd CreateProductCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	p, err := product.NewProduct(
		kernel.NewUUID(),
		cmd.Actor().ID,
		cmd.Name(),
		cmd.Category(),
		cmd.UnitPrice(),
		cmd.Unit(),
		cmd.Quantity(),
		time.Now().UTC(),
	)
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ProductRepository().Add(ctx, p); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return p.ID(), nil
}
