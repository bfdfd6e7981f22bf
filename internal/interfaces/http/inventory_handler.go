package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

// InventoryHandler maneja las peticiones HTTP de stock, movimientos y alertas (protegido).
type InventoryHandler struct {
	ledger    *inventory.StockLedger
	transfers *inventory.TransferCoordinator
	recorder  *inventory.MovementRecorder
	alerts    *inventory.AlertScanner
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	ledger *inventory.StockLedger,
	transfers *inventory.TransferCoordinator,
	recorder *inventory.MovementRecorder,
	alerts *inventory.AlertScanner,
) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, transfers: transfers, recorder: recorder, alerts: alerts}
}

// ListStock godoc
// @Summary      Listar stock por bodega y producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouseId  query  string  false  "Filtrar por bodega"
// @Param        productId    query  string  false  "Filtrar por producto"
// @Param        lowStock     query  bool    false  "Solo disponible entre 1 y el umbral"
// @Param        outOfStock   query  bool    false  "Solo disponible <= 0"
// @Param        page         query  int     false  "Página (desde 1)"
// @Param        limit        query  int     false  "Tamaño de página (máx. 100)"
// @Success      200  {object}  dto.StockListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	q := dto.StockQuery{
		WarehouseID: c.Query("warehouseId"),
		ProductID:   c.Query("productId"),
		LowStock:    c.QueryBool("lowStock"),
		OutOfStock:  c.QueryBool("outOfStock"),
		PageRequest: pageFromQuery(c),
	}
	out, err := h.ledger.ListStock(c.Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetStock godoc
// @Summary      Obtener stock de un producto en una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouseId  path  string  true  "Bodega"
// @Param        productId    path  string  true  "Producto"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{warehouseId}/{productId} [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	out, err := h.ledger.GetStock(c.Context(), c.Params("warehouseId"), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// VerifyLedger godoc
// @Summary      Verificar que el stock coincide con la suma de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouseId  path  string  true  "Bodega"
// @Param        productId    path  string  true  "Producto"
// @Success      200  {object}  dto.LedgerCheckResponse
// @Router       /api/inventory/stock/{warehouseId}/{productId}/verify [get]
func (h *InventoryHandler) VerifyLedger(c *fiber.Ctx) error {
	out, err := h.ledger.VerifyLedger(c.Context(), c.Params("warehouseId"), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetThreshold godoc
// @Summary      Fijar umbral de stock bajo
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        warehouseId  path  string                   true  "Bodega"
// @Param        productId    path  string                   true  "Producto"
// @Param        body         body  dto.SetThresholdRequest  true  "lowStockThreshold >= 0"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{warehouseId}/{productId}/threshold [put]
func (h *InventoryHandler) SetThreshold(c *fiber.Ctx) error {
	var in dto.SetThresholdRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.ledger.SetLowStockThreshold(c.Context(), c.Params("warehouseId"), c.Params("productId"), in.LowStockThreshold)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AdjustStock godoc
// @Summary      Ajustar stock (delta con signo)
// @Description  Suma o resta unidades y registra el movimiento en el mismo commit.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "warehouseId, productId, quantity (delta), reason"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/adjust [post]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.ledger.AdjustStockFromRequest(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReserveStock godoc
// @Summary      Reservar unidades disponibles
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveStockRequest  true  "warehouseId, productId, quantity > 0"
// @Success      200  {object}  dto.StockResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/reserve [post]
func (h *InventoryHandler) ReserveStock(c *fiber.Ctx) error {
	var in dto.ReserveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.ledger.Reserve(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReleaseStock godoc
// @Summary      Liberar unidades reservadas
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveStockRequest  true  "warehouseId, productId, quantity > 0"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/release [post]
func (h *InventoryHandler) ReleaseStock(c *fiber.Ctx) error {
	var in dto.ReserveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.ledger.Release(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// TransferStock godoc
// @Summary      Transferir stock entre bodegas
// @Description  Descuenta en origen y suma en destino en una sola transacción.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "sourceWarehouseId, destinationWarehouseId, productId, quantity, reason"
// @Success      201  {object}  dto.TransferResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/transfer [post]
func (h *InventoryHandler) TransferStock(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.transfers.TransferStock(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouseId    query  string  false  "Bodega"
// @Param        productId      query  string  false  "Producto"
// @Param        movementType   query  string  false  "Tipo de movimiento"
// @Param        referenceType  query  string  false  "Tipo de referencia"
// @Param        referenceId    query  string  false  "Id de referencia"
// @Param        startDate      query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        endDate        query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Param        page           query  int     false  "Página"
// @Param        limit          query  int     false  "Tamaño de página"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	start, err := parseDate(c.Query("startDate"), false)
	if err != nil {
		return writeError(c, err)
	}
	end, err := parseDate(c.Query("endDate"), true)
	if err != nil {
		return writeError(c, err)
	}
	q := dto.MovementQuery{
		WarehouseID:   c.Query("warehouseId"),
		ProductID:     c.Query("productId"),
		MovementType:  c.Query("movementType"),
		ReferenceType: c.Query("referenceType"),
		ReferenceID:   c.Query("referenceId"),
		StartDate:     start,
		EndDate:       end,
		PageRequest:   pageFromQuery(c),
	}
	out, err := h.recorder.History(c.Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetAlerts godoc
// @Summary      Alertas de stock bajo y agotado
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouseId  query  string  false  "Bodega. Vacío = todas."
// @Success      200  {object}  dto.AlertReportResponse
// @Router       /api/inventory/alerts [get]
func (h *InventoryHandler) GetAlerts(c *fiber.Ctx) error {
	out, err := h.alerts.Scan(c.Context(), c.Query("warehouseId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{Page: c.QueryInt("page", 1), Limit: c.QueryInt("limit", 20)}
}

// parseDate acepta RFC3339 o YYYY-MM-DD. Con endOfDay, una fecha sin hora
// cubre el día completo.
func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q inválida", domain.ErrValidation, raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
