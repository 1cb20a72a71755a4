package http

import (
	"net/http"

	"supplychain/internal/core/application/usecases/commands"
	"supplychain/internal/core/application/usecases/queries"
	"supplychain/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// CreateProduct handles POST /api/v1/products.
func (s *Server) CreateProduct(c echo.Context) error {
	var req createProductRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	price, err := kernel.ParseMoney(req.UnitPrice)
	if err != nil {
		return s.fail(c, err)
	}
	quantity, err := kernel.ParseQuantity(req.Quantity)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCreateProductCommand(actorFrom(c), req.Name, req.Category, price, req.Unit, quantity)
	if err != nil {
		return s.fail(c, err)
	}

	id, err := s.h.CreateProduct.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, idResponse{ID: id.String()})
}

// UpdateProductQuantity handles PUT /api/v1/products/:id/quantity.
func (s *Server) UpdateProductQuantity(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req updateQuantityRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}
	quantity, err := kernel.ParseQuantity(req.Quantity)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewUpdateProductQuantityCommand(actorFrom(c), id, quantity)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.h.UpdateProductQuantity.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetProductAvailability handles GET /api/v1/products/:id/availability.
func (s *Server) GetProductAvailability(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewGetProductAvailabilityQuery(id)
	if err != nil {
		return s.fail(c, err)
	}
	availability, err := s.h.ProductAvailability.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toAvailabilityResponse(availability))
}

// ListBuyerStock handles GET /api/v1/stock.
func (s *Server) ListBuyerStock(c echo.Context) error {
	query, err := queries.NewListBuyerStockQuery(actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	stock, err := s.h.BuyerStock.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]stockResponse, len(stock))
	for i, v := range stock {
		response[i] = toStockResponse(v)
	}
	return c.JSON(http.StatusOK, response)
}
