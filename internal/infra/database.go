package infra

import (
	"fmt"

	"telcuotas/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for the engine's tables, then applies the idempotent SQL patches GORM
// cannot express (sequences, partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates the schema. Also used by the ctl CLI and the
// integration tests, so it must stay idempotent.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Cliente{},
		&model.Equipo{},
		&model.Contrato{},
		&model.Cuota{},
		&model.Pago{},
		&model.Descuento{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Business id sequence for contratos (CT00001…)
		`CREATE SEQUENCE IF NOT EXISTS contratos_numero_seq`,

		// One schedule slot per contract: numero must be unique within it.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_cuotas_contrato_numero') THEN
		    CREATE UNIQUE INDEX idx_cuotas_contrato_numero ON cuotas (contrato_id, numero);
		  END IF;
		END $$`,

		// Partial index for the tracking scan: only open cuotas matter there.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_cuotas_pendientes') THEN
		    CREATE INDEX idx_cuotas_pendientes
		        ON cuotas (contrato_id, fecha_vencimiento)
		        WHERE estado IN ('pendiente', 'parcial');
		  END IF;
		END $$`,

		// Partial index for the verification queue view.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_pagos_pendientes') THEN
		    CREATE INDEX idx_pagos_pendientes
		        ON pagos (contrato_id, created_at)
		        WHERE estado_verificacion = 'pendiente';
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
