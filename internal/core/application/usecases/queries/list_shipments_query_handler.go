package queries

import (
	"context"
	"database/sql"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/shipment"
	"supplychain/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListShipmentsQueryHandler struct {
	db *gorm.DB
}

func NewListShipmentsQueryHandler(db *gorm.DB) ListShipmentsQueryHandler {
	return ListShipmentsQueryHandler{db: db}
}

func (h ListShipmentsQueryHandler) Handle(ctx context.Context, query ListShipmentsQuery) ([]ShipmentView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	column, err := partyColumn(query.Actor().Role, map[kernel.Role]string{
		kernel.RoleCarrier:  "s.carrier_id",
		kernel.RoleBuyer:    "s.buyer_id",
		kernel.RoleProducer: "p.owner_id",
	})
	if err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			s.id,
			s.order_id,
			s.carrier_id,
			s.product_id,
			COALESCE(p.name, ''),
			s.buyer_id,
			s.expected_weight,
			s.status,
			s.created_at,
			s.in_transit_at,
			s.delivered_at
		FROM shipments s
		LEFT JOIN products p ON p.id = s.product_id
		WHERE `+column+` = ?
		ORDER BY s.created_at DESC, s.id
	`, query.Actor().ID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shipments := make([]ShipmentView, 0)
	for rows.Next() {
		var (
			id, carrierID, productID, buyerID uuid.UUID
			orderID                           uuid.NullUUID
			weight                            sql.NullFloat64
			status                            string
			inTransitAt, deliveredAt          sql.NullTime
			view                              ShipmentView
		)

		if err = rows.Scan(&id, &orderID, &carrierID, &productID, &view.ProductName, &buyerID, &weight,
			&status, &view.CreatedAt, &inTransitAt, &deliveredAt); err != nil {
			return nil, err
		}

		if view.Status, err = shipment.ParseStatus(status); err != nil {
			return nil, errs.NewMalformedDocumentError("shipments", id.String(), err)
		}
		if err = scanIDs(
			idTarget{id, &view.ID},
			idTarget{carrierID, &view.CarrierID},
			idTarget{productID, &view.ProductID},
			idTarget{buyerID, &view.BuyerID},
		); err != nil {
			return nil, err
		}
		if view.OrderID, err = nullableID(orderID); err != nil {
			return nil, err
		}
		if weight.Valid {
			w := weight.Float64
			view.ExpectedWeight = &w
		}
		view.InTransitAt = nullableTime(inTransitAt)
		view.DeliveredAt = nullableTime(deliveredAt)

		shipments = append(shipments, view)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return shipments, nil
}
