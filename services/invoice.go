package services

import (
	"bytes"
	"html/template"

	"github.com/odark007/liq-store/models"
)

// The invoice table is injected into email bodies via the {{invoice_table}}
// placeholder. Inline styles only: email clients ignore stylesheets.
var invoiceTmpl = template.Must(template.New("invoice").Parse(`<table style="width: 100%; border-collapse: collapse; font-family: sans-serif; font-size: 14px;">
  <thead>
    <tr style="background-color: #333; color: #fff; text-align: left;">
      <th style="padding: 10px;">Item</th>
      <th style="padding: 10px; text-align: center;">Qty</th>
      <th style="padding: 10px; text-align: right;">Price</th>
    </tr>
  </thead>
  <tbody>
{{- range .Items}}
    <tr>
      <td style="padding: 8px; border-bottom: 1px solid #ddd;">{{.ProductTitle}} ({{.VariantName}})</td>
      <td style="padding: 8px; border-bottom: 1px solid #ddd; text-align: center;">{{.Quantity}}</td>
      <td style="padding: 8px; border-bottom: 1px solid #ddd; text-align: right;">{{.SubtotalDisplay}}</td>
    </tr>
{{- end}}
    <tr>
      <td colspan="2" style="padding: 8px; text-align: right; font-weight: bold; border-top: 2px solid #ccc;">Subtotal:</td>
      <td style="padding: 8px; text-align: right; border-top: 2px solid #ccc;">{{.Subtotal}}</td>
    </tr>
    <tr>
      <td colspan="2" style="padding: 8px; text-align: right;">Tax:</td>
      <td style="padding: 8px; text-align: right;">{{.Tax}}</td>
    </tr>
    <tr>
      <td colspan="2" style="padding: 8px; text-align: right;">Delivery:</td>
      <td style="padding: 8px; text-align: right;">{{.Delivery}}</td>
    </tr>
    <tr style="background-color: #f3f4f6;">
      <td colspan="2" style="padding: 12px; text-align: right; font-weight: bold; font-size: 16px;">TOTAL:</td>
      <td style="padding: 12px; text-align: right; font-weight: bold; font-size: 16px;">{{.Total}}</td>
    </tr>
  </tbody>
</table>`))

type invoiceRow struct {
	ProductTitle    string
	VariantName     string
	Quantity        int
	SubtotalDisplay string
}

type invoiceData struct {
	Items    []invoiceRow
	Subtotal string
	Tax      string
	Delivery string
	Total    string
}

// BuildInvoiceHTML renders the item rows plus subtotal/tax/delivery/total
// footer for one order. Empty item lists produce an empty string (status
// notifications carry no item detail).
func BuildInvoiceHTML(items []models.OrderItem, subtotal, tax, delivery, total float64) string {
	if len(items) == 0 {
		return ""
	}

	data := invoiceData{
		Subtotal: FormatCurrency(subtotal),
		Tax:      FormatCurrency(tax),
		Delivery: FormatCurrency(delivery),
		Total:    FormatCurrency(total),
	}
	for _, it := range items {
		data.Items = append(data.Items, invoiceRow{
			ProductTitle:    it.ProductTitle,
			VariantName:     it.VariantName,
			Quantity:        it.Quantity,
			SubtotalDisplay: FormatCurrency(it.Subtotal),
		})
	}

	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}
