// Package pdf genera el documento imprimible de una orden de compra.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: ORDEN DE COMPRA + N°  │  Estado + Fechas           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PROVEEDOR: Nombre + Código                                 │
//	│  ENTREGAR EN: Bodega + Ciudad                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Pedido | Recibido | Costo | Total        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuestos / Envío / TOTAL              │
//	│  FOOTER: QR con N° de orden + notas                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

var _ purchasing.PurchaseOrderPDFGenerator = (*MarotoPOGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// zeroDecimalCurrencies monedas que se imprimen sin decimales.
var zeroDecimalCurrencies = map[string]bool{"XAF": true, "XOF": true, "COP": true}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPOGenerator implementa purchasing.PurchaseOrderPDFGenerator usando Maroto v2.
type MarotoPOGenerator struct{}

// NewMarotoPOGenerator construye el generador.
func NewMarotoPOGenerator() *MarotoPOGenerator { return &MarotoPOGenerator{} }

// Generate genera el PDF y devuelve sus bytes. supplier y warehouse pueden ser nil;
// una línea sin nombre en productNames imprime el ID del producto.
func (g *MarotoPOGenerator) Generate(
	po *entity.PurchaseOrder,
	supplier *entity.Supplier,
	warehouse *entity.Warehouse,
	productNames map[string]string,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Orden de compra "+po.PONumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(po))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRows(supplier, warehouse)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(po, productNames)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(po))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(po))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(po *entity.PurchaseOrder) core.Row {
	expected := "—"
	if po.ExpectedDeliveryDate != nil {
		expected = po.ExpectedDeliveryDate.Format("02/01/2006")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("ORDEN DE COMPRA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(po.PONumber, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 9,
			}),
		),
		col.New(5).Add(
			text.New("Estado: "+statusLabel(po.Status), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Fecha: "+po.OrderDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
			text.New("Entrega esperada: "+expected, props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func partiesRows(supplier *entity.Supplier, warehouse *entity.Warehouse) []core.Row {
	supplierName, supplierCode := "—", "—"
	if supplier != nil {
		supplierName = supplier.Name
		supplierCode = nonEmpty(supplier.Code, "—")
	}
	whName, whLocation := "—", "—"
	if warehouse != nil {
		whName = warehouse.Name + " (" + warehouse.Code + ")"
		var parts []string
		for _, p := range []string{warehouse.City, warehouse.Country} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		whLocation = nonEmpty(strings.Join(parts, ", "), "—")
	}
	return []core.Row{
		row.New(12).Add(col.New(12).Add(
			text.New("PROVEEDOR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(supplierName+"   |   Código: "+supplierCode, props.Text{Size: 9, Top: 6}),
		)),
		row.New(12).Add(col.New(12).Add(
			text.New("ENTREGAR EN", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(whName+"   |   "+whLocation, props.Text{Size: 9, Top: 6}),
		)),
	}
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 5, align.Left),
		h("Pedido", 1, align.Center),
		h("Recibido", 2, align.Center),
		h("Costo unit.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

func itemRows(po *entity.PurchaseOrder, productNames map[string]string) []core.Row {
	result := make([]core.Row, 0, len(po.Items))
	for _, it := range po.Items {
		name := nonEmpty(productNames[it.ProductID], it.ProductID)
		result = append(result, row.New(7).Add(
			col.New(5).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.QuantityOrdered), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(fmt.Sprintf("%d", it.QuantityReceived), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatMoney(it.UnitCost, po.Currency), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(it.TotalCost, po.Currency), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(po *entity.PurchaseOrder) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(d decimal.Decimal, top float64) core.Component {
		return text.New(formatMoney(d, po.Currency), props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(26).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 0),
			label("Impuestos:", 5),
			label("Envío:", 10),
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 16}),
		),
		col.New(3).Add(
			value(po.Subtotal, 0),
			value(po.TaxAmount, 5),
			value(po.ShippingCost, 10),
			text.New(formatMoney(po.TotalAmount, po.Currency), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 16}),
		),
	)
}

func footerRow(po *entity.PurchaseOrder) core.Row {
	notes := nonEmpty(po.Notes, "Sin observaciones.")
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(po.PONumber+"|"+po.ID, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Observaciones", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2, Left: 3}),
			text.New(notes, props.Text{Size: 8, Top: 7, Left: 3, Color: colorGray}),
			text.New("Cite el número de orden en la remisión y en la factura.", props.Text{
				Size: 7, Top: 30, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusLabel(s entity.PurchaseOrderStatus) string {
	switch s {
	case entity.POStatusDraft:
		return "Borrador"
	case entity.POStatusSubmitted:
		return "Enviada"
	case entity.POStatusConfirmed:
		return "Confirmada"
	case entity.POStatusPartiallyReceived:
		return "Recibida parcialmente"
	case entity.POStatusReceived:
		return "Recibida"
	case entity.POStatusCancelled:
		return "Anulada"
	}
	return string(s)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney separa miles con punto y decimales con coma, seguido de la moneda.
// Ej: 1250000 XAF → "1.250.000 XAF", 1234.5 USD → "1.234,50 USD".
func formatMoney(d decimal.Decimal, currency string) string {
	places := int32(2)
	if zeroDecimalCurrencies[currency] {
		places = 0
	}
	s := d.StringFixed(places)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := sign + string(buf)
	if frac != "" {
		out += "," + frac
	}
	return strings.TrimSpace(out + " " + currency)
}
