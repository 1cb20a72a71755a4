package queries

import (
	"context"
	"database/sql"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/order"
	"supplychain/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle returns the actor's orders, newest first.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	column, err := partyColumn(query.Actor().Role, map[kernel.Role]string{
		kernel.RoleBuyer:    "o.buyer_id",
		kernel.RoleProducer: "o.producer_id",
		kernel.RoleCarrier:  "o.carrier_id",
	})
	if err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.product_id,
			COALESCE(p.name, ''),
			o.buyer_id,
			o.producer_id,
			o.carrier_id,
			o.shipment_id,
			o.quantity,
			o.total,
			o.status,
			o.placed_at,
			o.delivered_at
		FROM orders o
		LEFT JOIN products p ON p.id = o.product_id
		WHERE `+column+` = ?
		ORDER BY o.placed_at DESC, o.id
	`, query.Actor().ID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]OrderView, 0)
	for rows.Next() {
		var (
			id, productID, buyerID, producerID uuid.UUID
			carrierID, shipmentID              uuid.NullUUID
			quantity, total                    decimal.Decimal
			status                             string
			deliveredAt                        sql.NullTime
			view                               OrderView
		)

		if err = rows.Scan(&id, &productID, &view.ProductName, &buyerID, &producerID, &carrierID, &shipmentID,
			&quantity, &total, &status, &view.PlacedAt, &deliveredAt); err != nil {
			return nil, err
		}

		if view.Status, err = order.ParseStatus(status); err != nil {
			return nil, errs.NewMalformedDocumentError("orders", id.String(), err)
		}
		if err = scanIDs(
			idTarget{id, &view.ID},
			idTarget{productID, &view.ProductID},
			idTarget{buyerID, &view.BuyerID},
			idTarget{producerID, &view.ProducerID},
		); err != nil {
			return nil, err
		}
		if view.CarrierID, err = nullableID(carrierID); err != nil {
			return nil, err
		}
		if view.ShipmentID, err = nullableID(shipmentID); err != nil {
			return nil, err
		}
		if view.Quantity, err = kernel.NewQuantity(quantity); err != nil {
			return nil, err
		}
		if view.Total, err = kernel.NewMoney(total); err != nil {
			return nil, err
		}
		view.DeliveredAt = nullableTime(deliveredAt)

		orders = append(orders, view)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
