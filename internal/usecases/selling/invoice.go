package selling

import (
	"bytes"
	"html/template"

	"github.com/vfg2006/boutique-manager-api/internal/domain"
	"github.com/vfg2006/boutique-manager-api/pkg/utils"
)

var invoiceTmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": utils.FormatMoney,
	"date":  func(sale *domain.Sale) string { return sale.Date.Format("02/01/2006") },
}).Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Invoice #{{.Sale.ID}}</title>
  <style>
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 20px; color: #1e293b; }
    .header { text-align: center; margin-bottom: 40px; border-bottom: 3px solid #1e293b; padding-bottom: 20px; }
    .company-name { font-size: 28px; font-weight: bold; margin-bottom: 8px; }
    .invoice-title { font-size: 24px; color: #64748b; margin-bottom: 20px; }
    .invoice-details { display: flex; justify-content: space-between; margin-bottom: 20px; }
    .customer-info { margin-bottom: 30px; }
    table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
    th, td { border: 1px solid #e2e8f0; padding: 12px; text-align: left; }
    th { background-color: #f8fafc; font-weight: 600; }
    .total-section { text-align: right; background-color: #f8fafc; padding: 20px; }
    .total-amount { font-size: 24px; font-weight: bold; }
    .footer { text-align: center; margin-top: 40px; color: #64748b; font-size: 14px; }
  </style>
</head>
<body>
  <div class="header">
    <div class="company-name">Boutique Manager</div>
    <div class="invoice-title">SALES INVOICE</div>
    <div class="invoice-details">
      <div><strong>Invoice #:</strong> {{.Sale.ID}}</div>
      <div><strong>Date:</strong> {{date .Sale}}</div>
    </div>
  </div>
  <div class="customer-info">
    <h3>Bill To:</h3>
    <div><strong>{{.Customer.Name}}</strong></div>
    {{if .Customer.Email}}<div>Email: {{.Customer.Email}}</div>{{end}}
    {{if .Customer.Phone}}<div>Phone: {{.Customer.Phone}}</div>{{end}}
    {{if .Customer.Address}}<div>Address: {{.Customer.Address}}</div>{{end}}
  </div>
  <table>
    <thead><tr><th>Article #</th><th>Product Name</th><th>Quantity</th><th>Unit Price</th><th>Total</th></tr></thead>
    <tbody>{{range .Sale.Items}}
      <tr><td>{{.ArticleNumber}}</td><td>{{.ProductName}}</td><td>{{.Quantity}}</td><td>{{money .SellPrice}}</td><td>{{money .Total}}</td></tr>{{end}}
    </tbody>
  </table>
  <div class="total-section">
    <div class="total-amount">Total Amount: {{money .Sale.TotalAmount}}</div>
  </div>
  <div class="footer">
    <p>Thank you for your business!</p>
    <p>Generated by Boutique Manager</p>
  </div>
</body>
</html>
`))

type invoiceView struct {
	Sale     *domain.Sale
	Customer *domain.Customer
}

// RenderInvoice gera a fatura imprimível da venda. Campos de texto são escapados pelo html/template.
func RenderInvoice(sale *domain.Sale, customer *domain.Customer) ([]byte, error) {
	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, invoiceView{Sale: sale, Customer: customer}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
