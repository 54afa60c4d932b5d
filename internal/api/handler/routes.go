package handler

import (
	"net/http"

	"github.com/vfg2006/boutique-manager-api/internal/api/handler/router"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/customer"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/reporting"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/selling"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/stocking"
)

func Healthcheck(dependencies map[string]Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(dependencies),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    "/v1/me",
			Method:  http.MethodGet,
			Handler: GetMe(service),
		},
		{
			Path:    "/v1/me/password",
			Method:  http.MethodPut,
			Handler: ChangePassword(service),
		},
	}
}

func Customers(service customer.CustomerService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/customers",
			Method:  http.MethodGet,
			Handler: ListCustomers(service),
		},
		{
			Path:    "/v1/customers",
			Method:  http.MethodPost,
			Handler: CreateCustomer(service),
		},
		{
			Path:    "/v1/customers/:id",
			Method:  http.MethodGet,
			Handler: GetCustomer(service),
		},
		{
			Path:    "/v1/customers/:id",
			Method:  http.MethodPut,
			Handler: UpdateCustomer(service),
		},
		{
			Path:    "/v1/customers/:id",
			Method:  http.MethodDelete,
			Handler: DeleteCustomer(service),
		},
	}
}

func Products(service stocking.ProductService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/products",
			Method:  http.MethodGet,
			Handler: ListProducts(service),
		},
		{
			Path:    "/v1/products",
			Method:  http.MethodPost,
			Handler: CreateProduct(service),
		},
		{
			Path:    "/v1/products/candidates",
			Method:  http.MethodGet,
			Handler: ListSaleCandidates(service),
		},
		{
			Path:    "/v1/products/low-stock",
			Method:  http.MethodGet,
			Handler: ListLowStock(service),
		},
		{
			Path:    "/v1/products/:id",
			Method:  http.MethodPut,
			Handler: UpdateProduct(service),
		},
		{
			Path:    "/v1/products/:id",
			Method:  http.MethodDelete,
			Handler: DeleteProduct(service),
		},
		{
			Path:    "/v1/products/:id/stock",
			Method:  http.MethodPost,
			Handler: AdjustStock(service),
		},
	}
}

func Sales(service selling.SaleService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/sales",
			Method:  http.MethodGet,
			Handler: ListSales(service),
		},
		{
			Path:    "/v1/sales/:id",
			Method:  http.MethodGet,
			Handler: GetSale(service),
		},
		{
			Path:    "/v1/sales/:id",
			Method:  http.MethodDelete,
			Handler: DeleteSale(service),
		},
		{
			Path:    "/v1/sales/:id/invoice",
			Method:  http.MethodGet,
			Handler: SaleInvoice(service),
		},
	}
}

// Draft agrupa as rotas do rascunho de venda da sessão autenticada
func Draft(service selling.SaleService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/draft",
			Method:  http.MethodGet,
			Handler: GetDraft(service),
		},
		{
			Path:    "/v1/draft",
			Method:  http.MethodDelete,
			Handler: CancelDraft(service),
		},
		{
			Path:    "/v1/draft/customer",
			Method:  http.MethodPut,
			Handler: SelectDraftCustomer(service),
		},
		{
			Path:    "/v1/draft/items",
			Method:  http.MethodPost,
			Handler: AddDraftItem(service),
		},
		{
			Path:    "/v1/draft/items/:index",
			Method:  http.MethodDelete,
			Handler: RemoveDraftItem(service),
		},
		{
			Path:    "/v1/draft/commit",
			Method:  http.MethodPost,
			Handler: CommitDraft(service),
		},
	}
}

func Reports(service reporting.Reporter, monthly MonthlyReportSource) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/reports/pnl",
			Method:  http.MethodGet,
			Handler: ProfitAndLoss(service),
		},
		{
			Path:    "/v1/reports/dashboard",
			Method:  http.MethodGet,
			Handler: Dashboard(service),
		},
		{
			Path:    "/v1/reports/monthly",
			Method:  http.MethodGet,
			Handler: LastMonthlyReport(monthly),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
