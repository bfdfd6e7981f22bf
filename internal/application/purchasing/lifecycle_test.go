package purchasing_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
)

var productsBySKU = map[string]string{
	"GLV-100": memory.DemoProductGloves,
	"SYR-5ML": memory.DemoProductSyringe,
}

type lifecycleContext struct {
	t       *testing.T
	f       *fixture
	order   *dto.PurchaseOrderResponse
	lastErr error
}

func (c *lifecycleContext) reset() {
	c.f = newFixture(c.t)
	c.order = nil
	c.lastErr = nil
}

func (c *lifecycleContext) productID(sku string) (string, error) {
	id, ok := productsBySKU[sku]
	if !ok {
		return "", fmt.Errorf("sku desconocido %q", sku)
	}
	return id, nil
}

func (c *lifecycleContext) aDraftOrder(qty int, sku, unitCost string) error {
	id, err := c.productID(sku)
	if err != nil {
		return err
	}
	cost, err := decimal.NewFromString(unitCost)
	if err != nil {
		return err
	}
	c.order, err = c.f.orders.Create(context.Background(), userID, dto.CreatePurchaseOrderRequest{
		SupplierID:  memory.DemoSupplier,
		WarehouseID: memory.DemoWarehouseMain,
		Items:       []dto.PurchaseOrderItemRequest{{ProductID: id, QuantityOrdered: int64(qty), UnitCost: cost}},
	})
	return err
}

func (c *lifecycleContext) aConfirmedOrder(qty int, sku, unitCost string) error {
	if err := c.aDraftOrder(qty, sku, unitCost); err != nil {
		return err
	}
	ctx := context.Background()
	if _, err := c.f.machine.Submit(ctx, c.order.ID, userID); err != nil {
		return err
	}
	out, err := c.f.machine.Confirm(ctx, c.order.ID, approverID)
	if err != nil {
		return err
	}
	c.order = out
	return nil
}

func (c *lifecycleContext) unitsAreReceived(qty int, sku string) error {
	id, err := c.productID(sku)
	if err != nil {
		return err
	}
	var itemID string
	for _, it := range c.order.Items {
		if it.ProductID == id {
			itemID = it.ID
		}
	}
	if itemID == "" {
		return fmt.Errorf("la orden no tiene línea para %s", sku)
	}
	out, err := c.f.machine.Receive(context.Background(), c.order.ID, userID, receive(itemID, int64(qty)))
	c.lastErr = err
	if err == nil {
		c.order = out
	}
	return nil
}

func (c *lifecycleContext) theOrderIsCancelled() error {
	out, err := c.f.machine.Cancel(context.Background(), c.order.ID, userID)
	if err != nil {
		return err
	}
	c.order = out
	return nil
}

func (c *lifecycleContext) theOrderHasStatus(status string) error {
	got, err := c.f.orders.Get(context.Background(), c.order.ID)
	if err != nil {
		return err
	}
	if got.Status != status {
		return fmt.Errorf("estado esperado %s, obtenido %s", status, got.Status)
	}
	return nil
}

func (c *lifecycleContext) stockInMainWarehouse(sku string, want int) error {
	id, err := c.productID(sku)
	if err != nil {
		return err
	}
	rec, err := c.f.store.Stock().Get(context.Background(), memory.DemoWarehouseMain, id)
	if err != nil {
		return err
	}
	var got int64
	if rec != nil {
		got = rec.Quantity
	}
	if got != int64(want) {
		return fmt.Errorf("stock esperado %d, obtenido %d", want, got)
	}
	return nil
}

func (c *lifecycleContext) receiptRejectedAsOverReceipt() error {
	if !errors.Is(c.lastErr, domain.ErrOverReceipt) {
		return fmt.Errorf("se esperaba ErrOverReceipt, obtenido %v", c.lastErr)
	}
	return nil
}

func (c *lifecycleContext) submitIsInvalidTransition() error {
	_, err := c.f.machine.Submit(context.Background(), c.order.ID, userID)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		return fmt.Errorf("se esperaba ErrInvalidTransition, obtenido %v", err)
	}
	return nil
}

func (c *lifecycleContext) receiptMovementsRecorded(want int) error {
	hist, err := c.f.recorder.History(context.Background(), dto.MovementQuery{
		ReferenceType: string(entity.ReferencePurchaseOrder),
		ReferenceID:   c.order.ID,
		MovementType:  string(entity.MovementPurchaseOrderReceived),
	})
	if err != nil {
		return err
	}
	if len(hist.Items) != want {
		return fmt.Errorf("movimientos esperados %d, obtenidos %d", want, len(hist.Items))
	}
	return nil
}

func initializeLifecycleScenario(t *testing.T) func(*godog.ScenarioContext) {
	return func(ctx *godog.ScenarioContext) {
		tc := &lifecycleContext{t: t}

		ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
			tc.reset()
			return ctx, nil
		})

		ctx.Step(`^una orden en borrador de (\d+) unidades de "([^"]*)" a "([^"]*)"$`, tc.aDraftOrder)
		ctx.Step(`^una orden confirmada de (\d+) unidades de "([^"]*)" a "([^"]*)"$`, tc.aConfirmedOrder)
		ctx.Step(`^se reciben (\d+) unidades de "([^"]*)"$`, tc.unitsAreReceived)
		ctx.Step(`^se cancela la orden$`, tc.theOrderIsCancelled)

		ctx.Step(`^la orden queda en estado "([^"]*)"$`, tc.theOrderHasStatus)
		ctx.Step(`^el stock de "([^"]*)" en la bodega principal es (\d+)$`, tc.stockInMainWarehouse)
		ctx.Step(`^la recepción es rechazada por sobre-recepción$`, tc.receiptRejectedAsOverReceipt)
		ctx.Step(`^enviar la orden es una transición inválida$`, tc.submitIsInvalidTransition)
		ctx.Step(`^la orden registra (\d+) movimientos de recepción$`, tc.receiptMovementsRecorded)
	}
}

func TestPurchaseOrderLifecycleFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeLifecycleScenario(t),
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/purchase_order_lifecycle.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
