// Package pdf implementa la generación de la lista de alistamiento de un
// pedido mayorista para el personal de bodega.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: N° Pedido + Estado  │  Fecha + QR del pedido       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + Código                                   │
//	│  BODEGA: Área + Alistador asignado                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Producto | Cajas | Sueltas | Unidades | ☐  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: ítems / unidades totales                           │
//	│  FOOTER: notas de línea + espacio de firma del alistador     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

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

	appor "github.com/tu-usuario/pedidos-pro/internal/application/orders"
	"github.com/tu-usuario/pedidos-pro/internal/domain/order"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appor.PickingListGenerator = (*MarotoPickingListGenerator)(nil)

// MarotoPickingListGenerator implementa orders.PickingListGenerator usando Maroto v2.
type MarotoPickingListGenerator struct{}

// NewMarotoPickingListGenerator construye el generador.
func NewMarotoPickingListGenerator() *MarotoPickingListGenerator {
	return &MarotoPickingListGenerator{}
}

// GeneratePickingListPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPickingListGenerator) GeneratePickingListPDF(_ context.Context, o *order.Order) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Lista de alistamiento "+o.OrderNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(o))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(o))
	m.AddRows(warehouseRow(o))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(o.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(o))
	m.AddRows(line.NewRow(3))
	m.AddRows(signatureRow(o))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: N° de pedido + estado (izq) y fecha + QR (der). El QR lleva el ID
// del pedido para escanearlo desde la app de bodega.
func headerRow(o *order.Order) core.Row {
	fecha := o.OrderDate.Format("02/01/2006")

	return row.New(22).Add(
		col.New(7).Add(
			text.New("LISTA DE ALISTAMIENTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(o.OrderNumber, props.Text{
				Style: fontstyle.Bold, Size: 13, Top: 6,
			}),
			text.New("Fulfillment: "+string(o.FulfillmentStatus), props.Text{
				Size: 8, Top: 14, Color: colorGray,
			}),
		),
		col.New(2).Add(
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 1, Color: colorGray,
			}),
		),
		col.New(3).Add(code.NewQr(o.ID, props.Rect{Percent: 90, Center: true})),
	)
}

// customerRow: datos del cliente destinatario.
func customerRow(o *order.Order) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Código: %s", o.Customer.Name, o.Customer.Code),
				props.Text{Size: 9, Top: 7}),
		),
	)
}

// warehouseRow: área de venta y alistador asignado.
func warehouseRow(o *order.Order) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("BODEGA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Área: %s   |   Alistador: %s",
				nonEmpty(o.Area.Name, "—"),
				nonEmpty(o.Worker.Name, "sin asignar"),
			), props.Text{Size: 9, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Producto", 5, align.Left),
		h("Cajas", 1, align.Center),
		h("Sueltas", 1, align.Center),
		h("Unidades", 2, align.Right),
		h("✓", 1, align.Center),
	)
}

// tableItemRows: una fila por línea; las notas de línea van en una subfila.
func tableItemRows(items []order.Item) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(it.Code, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(it.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(
				fmt.Sprintf("%d×%d", it.QuantityBoxes, it.BoxSize),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(1).Add(text.New(
				strconv.Itoa(it.QuantityLoose),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				strconv.Itoa(it.TotalUnits()),
				props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New("☐", props.Text{Size: 9, Align: align.Center})),
		))
		if it.Notes != "" {
			result = append(result, row.New(5).Add(
				col.New(2),
				col.New(10).Add(text.New("Nota: "+it.Notes, props.Text{
					Size: 7, Color: colorGray, Top: 0.5, Left: 1,
				})),
			))
		}
	}
	return result
}

// summaryRow: conteo de ítems y unidades a alistar.
func summaryRow(o *order.Order) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(
			text.New("Ítems:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2}),
			text.New("Unidades totales:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 5}),
		),
		col.New(3).Add(
			text.New(strconv.Itoa(o.Totals.TotalItems), props.Text{Size: 9, Align: align.Right, Right: 1}),
			text.New(strconv.Itoa(o.Totals.TotalUnits), props.Text{Size: 9, Align: align.Right, Right: 1, Top: 5}),
		),
	)
}

// signatureRow: espacio de firma del alistador al cierre del documento.
func signatureRow(o *order.Order) core.Row {
	return row.New(18).Add(
		col.New(6).Add(
			text.New("_________________________", props.Text{Size: 9, Top: 8}),
			text.New("Firma del alistador", props.Text{Size: 7, Color: colorGray, Top: 14}),
		),
		col.New(6).Add(
			text.New("Entregado por bodega: "+nonEmpty(o.Worker.Name, "—"), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
