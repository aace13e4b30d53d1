package main

// telcuotasctl — operational CLI: schema migration and dev-environment seed.

import (
	"context"
	"fmt"
	"os"

	"telcuotas/internal/config"
	"telcuotas/internal/dto"
	"telcuotas/internal/infra"
	"telcuotas/internal/model"
	"telcuotas/internal/repository"
	"telcuotas/internal/service"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "telcuotasctl",
		Short: "TelCuotas operations tool",
	}

	rootCmd.AddCommand(migrateCmd, seedCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func getDB() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return infra.NewDatabase(cfg.DatabaseURL)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := getDB()
		if err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}
		if err := infra.RunMigrations(db); err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Schema up to date")
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample data for local development",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := getDB()
		if err != nil {
			fmt.Printf("Seed failed: %v\n", err)
			os.Exit(1)
		}
		if err := seed(db); err != nil {
			fmt.Printf("Seed failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Sample data loaded")
	},
}

// seed creates one cliente, two equipos and a 12-month renta contract through
// the real service, so the cronograma comes out exactly as production would
// generate it.
func seed(db *gorm.DB) error {
	ctx := context.Background()

	catalogoRepo := repository.NewCatalogoRepository(db)
	contratoRepo := repository.NewContratoRepository(db)
	cuotaRepo := repository.NewCuotaRepository(db)
	contratoSvc := service.NewContratoService(contratoRepo, cuotaRepo, catalogoRepo)

	telefono := "+54 9 11 5555-0001"
	email := "maria.gomez@example.com"
	cliente := model.Cliente{Nombre: "María Gómez", Telefono: &telefono, Email: &email, Activo: true}
	if err := catalogoRepo.CreateCliente(ctx, &cliente); err != nil {
		return err
	}

	equipos := []model.Equipo{
		{Marca: "Samsung", Modelo: "Galaxy A54", IMEI: "350000000000001", PrecioLista: decimal.NewFromInt(9000)},
		{Marca: "Motorola", Modelo: "Edge 40", IMEI: "350000000000002", PrecioLista: decimal.NewFromInt(12000)},
	}
	for i := range equipos {
		if err := catalogoRepo.CreateEquipo(ctx, &equipos[i]); err != nil {
			return err
		}
	}

	clienteID := cliente.ID.String()
	precioFinanciado := decimal.NewFromInt(15000)
	anticipo := decimal.NewFromInt(3000)
	meses := 12
	fechaInicio := "2024-01-15"

	contrato, err := contratoSvc.Crear(ctx, dto.CrearContratoRequest{
		ClienteID:        &clienteID,
		EquipoID:         equipos[0].ID.String(),
		Categoria:        string(model.CategoriaRenta),
		PrecioTotal:      decimal.NewFromInt(13000),
		PrecioFinanciado: &precioFinanciado,
		Anticipo:         &anticipo,
		MesesPlazo:       &meses,
		FechaInicio:      &fechaInicio,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Contrato %s creado (%d cuotas)\n", contrato.ID, meses+1)
	return nil
}
