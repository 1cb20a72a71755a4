package postgres

import (
	"supplychain/internal/adapters/out/postgres/attestationrepo"
	"supplychain/internal/adapters/out/postgres/orderrepo"
	"supplychain/internal/adapters/out/postgres/productrepo"
	"supplychain/internal/adapters/out/postgres/shipmentrepo"
	"supplychain/internal/adapters/out/postgres/stockrepo"
	"supplychain/internal/adapters/out/postgres/telemetryrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&productrepo.ProductDTO{},
		&orderrepo.OrderDTO{},
		&shipmentrepo.ShipmentDTO{},
		&stockrepo.StockEntryDTO{},
		&attestationrepo.AttestationDTO{},
		&telemetryrepo.ReadingDTO{},
	)
}
