package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger-api/internal/application/access"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/purchasing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger        *inventory.StockLedger
	Transfers     *inventory.TransferCoordinator
	Movements     *inventory.MovementRecorder
	Alerts        *inventory.AlertScanner
	PurchaseOrder *purchasing.PurchaseOrderUseCase
	POMachine     *purchasing.PurchaseOrderStateMachine
	POPDF         *purchasing.PDFUseCase
	Policy        capabilityChecker
	JWTSecret     string
	JWTIssuer     string
}

// Router registra las rutas de la API. Todas exigen Bearer Token y una capacidad.
func Router(app *fiber.App, deps RouterDeps) {
	policy := deps.Policy
	if policy == nil {
		policy = access.DefaultPolicy()
	}
	can := func(c access.Capability) fiber.Handler { return RequireCapability(c, policy) }

	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	// Inventory
	inv := protected.Group("/inventory")
	invHandler := NewInventoryHandler(deps.Ledger, deps.Transfers, deps.Movements, deps.Alerts)
	inv.Get("/stock", can(access.InventoryRead), invHandler.ListStock)
	inv.Post("/stock/adjust", can(access.InventoryAdjust), invHandler.AdjustStock)
	inv.Post("/stock/reserve", can(access.InventoryReserve), invHandler.ReserveStock)
	inv.Post("/stock/release", can(access.InventoryReserve), invHandler.ReleaseStock)
	inv.Post("/stock/transfer", can(access.InventoryTransfer), invHandler.TransferStock)
	inv.Get("/stock/:warehouseId/:productId", can(access.InventoryRead), invHandler.GetStock)
	inv.Get("/stock/:warehouseId/:productId/verify", can(access.InventoryRead), invHandler.VerifyLedger)
	inv.Put("/stock/:warehouseId/:productId/threshold", can(access.InventoryAdjust), invHandler.SetThreshold)
	inv.Get("/movements", can(access.InventoryRead), invHandler.ListMovements)
	inv.Get("/alerts", can(access.InventoryRead), invHandler.GetAlerts)

	// Purchase orders
	po := protected.Group("/purchase-orders")
	poHandler := NewPurchaseOrderHandler(deps.PurchaseOrder, deps.POMachine, deps.POPDF)
	po.Post("/", can(access.PurchasingWrite), poHandler.Create)
	po.Get("/", can(access.PurchasingRead), poHandler.List)
	po.Get("/:id", can(access.PurchasingRead), poHandler.GetByID)
	po.Put("/:id", can(access.PurchasingWrite), poHandler.UpdateHeader)
	po.Put("/:id/items", can(access.PurchasingWrite), poHandler.ReplaceItems)
	po.Post("/:id/submit", can(access.PurchasingWrite), poHandler.Submit)
	po.Post("/:id/confirm", can(access.PurchasingApprove), poHandler.Confirm)
	po.Post("/:id/cancel", can(access.PurchasingWrite), poHandler.Cancel)
	po.Post("/:id/receive", can(access.PurchasingReceive), poHandler.Receive)
	po.Get("/:id/pdf", can(access.PurchasingRead), poHandler.GetPDF)
}
