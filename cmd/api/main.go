package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/stock-ledger-api/internal/application/access"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-ledger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-ledger-api/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// storage puertos de persistencia del driver elegido (postgres o memory).
type storage struct {
	tx         inventory.TxRunner
	stock      repository.StockRepository
	movements  repository.StockMovementRepository
	orders     repository.PurchaseOrderRepository
	warehouses repository.WarehouseRepository
	products   repository.ProductRepository
	suppliers  repository.SupplierRepository
	close      func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.Storage == config.StorageMemory {
		store := memory.NewStore()
		store.SeedDemo()
		log.Warn().Msg("almacenamiento en memoria con datos demo: los cambios se pierden al reiniciar")
		return &storage{
			tx:         store,
			stock:      store.Stock(),
			movements:  store.Movements(),
			orders:     store.PurchaseOrders(),
			warehouses: store.Warehouses(),
			products:   store.Products(),
			suppliers:  store.Suppliers(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		tx:         postgres.NewTxRunner(pool, cfg.DB.LockTimeout),
		stock:      postgres.NewStockRepository(pool),
		movements:  postgres.NewStockMovementRepository(pool),
		orders:     postgres.NewPurchaseOrderRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		products:   postgres.NewProductRepository(pool),
		suppliers:  postgres.NewSupplierRepository(pool),
		close:      pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		AppName: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer st.close()

	zl := log.Zerolog()

	// Inventario: ledger, transferencias, historial y alertas
	recorder := inventory.NewMovementRecorder(st.movements)
	ledger := inventory.NewStockLedger(st.tx, st.stock, st.movements, inventory.References{
		Warehouses: st.warehouses,
		Products:   st.products,
	}, recorder, zl)
	transfers := inventory.NewTransferCoordinator(ledger)
	alerts := inventory.NewAlertScanner(st.stock)

	// Compras: CRUD, máquina de estados con recepción integrada al ledger, PDF
	poRefs := purchasing.References{
		Suppliers:  st.suppliers,
		Warehouses: st.warehouses,
		Products:   st.products,
	}
	poUC := purchasing.NewPurchaseOrderUseCase(st.tx, st.orders, poRefs, cfg.Purchasing.DefaultCurrency, zl)
	poMachine := purchasing.NewPurchaseOrderStateMachine(st.tx, purchasing.NewReceivingReconciler(ledger), zl)
	poPDF := purchasing.NewPDFUseCase(st.orders, poRefs, infrapdf.NewMarotoPOGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.App.Storage})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:        ledger,
		Transfers:     transfers,
		Movements:     recorder,
		Alerts:        alerts,
		PurchaseOrder: poUC,
		POMachine:     poMachine,
		POPDF:         poPDF,
		Policy:        access.DefaultPolicy(),
		JWTSecret:     cfg.JWT.Secret,
		JWTIssuer:     cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
