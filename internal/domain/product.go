package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa um item do estoque
type Product struct {
	ID            string          `json:"id"`
	ArticleNumber string          `json:"article_number"`
	Name          string          `json:"name"`
	Cost          decimal.Decimal `json:"cost"`
	Quantity      int             `json:"quantity"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ProductInput contém os campos editáveis de um produto. Campos nulos não são alterados.
type ProductInput struct {
	ArticleNumber *string          `json:"article_number"`
	Name          *string          `json:"name"`
	Cost          *decimal.Decimal `json:"cost"`
	Quantity      *int             `json:"quantity"`
}

// ProductListing é o produto acompanhado dos indicadores de estoque exibidos na listagem
type ProductListing struct {
	*Product
	LowStock   bool `json:"low_stock"`
	OutOfStock bool `json:"out_of_stock"`
}
