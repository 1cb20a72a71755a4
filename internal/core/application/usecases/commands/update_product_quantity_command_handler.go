package commands

import (
	"context"
	"time"
)

// UpdateProductQuantityCommandHandler applies a producer's stock-take to a product.
type UpdateProductQuantityCommandHandler struct {
	uowFactory ProductUoWFactory
}

func NewUpdateProductQuantityCommandHandler(uowFactory ProductUoWFactory) UpdateProductQuantityCommandHandler {
	return UpdateProductQuantityCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns Unauthorized when the caller does not own the product.
func (h UpdateProductQuantityCommandHandler) Handle(ctx context.Context, cmd UpdateProductQuantityCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ProductRepository()
	p, err := repo.Get(ctx, cmd.ProductID())
	if err != nil {
		return err
	}

	if err = p.ChangeQuantity(cmd.Actor(), cmd.Quantity(), time.Now().UTC()); err != nil {
		return err
	}

	if err = repo.Update(ctx, p); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
