package ecommerce

import (
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopsight/backend/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// Admin REST API payloads
// ---------------------------------------------------------------------------

// ShopifyProductsResponse is the body of GET /products.json
type ShopifyProductsResponse struct {
	Products []ShopifyProduct `json:"products"`
}

// ShopifyProduct is the subset of a product resource that is ingested
type ShopifyProduct struct {
	ID       int64            `json:"id"`
	Title    string           `json:"title"`
	Variants []ShopifyVariant `json:"variants"`
}

// ShopifyVariant carries the variant price as a decimal string
type ShopifyVariant struct {
	ID    int64  `json:"id"`
	Price string `json:"price"`
}

// ShopifyCustomersResponse is the body of GET /customers.json
type ShopifyCustomersResponse struct {
	Customers []ShopifyCustomer `json:"customers"`
}

// ShopifyCustomer is the subset of a customer resource that is ingested.
// Name and email fields are null for some customers.
type ShopifyCustomer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// ShopifyOrdersResponse is the body of GET /orders.json
type ShopifyOrdersResponse struct {
	Orders []ShopifyOrder `json:"orders"`
}

// ShopifyOrder is the subset of an order resource that is ingested
type ShopifyOrder struct {
	ID         int64                 `json:"id"`
	TotalPrice string                `json:"total_price"`
	CreatedAt  string                `json:"created_at"`
	Customer   *ShopifyOrderCustomer `json:"customer"`
}

// ShopifyOrderCustomer is the customer reference embedded in an order; nil for guests
type ShopifyOrderCustomer struct {
	ID int64 `json:"id"`
}

// ---------------------------------------------------------------------------
// Conversion
// ---------------------------------------------------------------------------

// ParseDecimal parses a decimal string, returning zero for empty or malformed input
func ParseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ToRemote converts the product, taking the price of its first variant
func (p ShopifyProduct) ToRemote() integration.RemoteProduct {
	price := decimal.Zero
	if len(p.Variants) > 0 {
		price = ParseDecimal(p.Variants[0].Price)
	}
	return integration.RemoteProduct{ID: p.ID, Title: p.Title, Price: price}
}

// ToRemote converts the customer
func (c ShopifyCustomer) ToRemote() integration.RemoteCustomer {
	return integration.RemoteCustomer{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
	}
}

// ToRemote converts the order. An unparsable created_at is left zero.
func (o ShopifyOrder) ToRemote() integration.RemoteOrder {
	order := integration.RemoteOrder{
		ID:         o.ID,
		TotalPrice: ParseDecimal(o.TotalPrice),
	}
	if o.Customer != nil && o.Customer.ID > 0 {
		id := o.Customer.ID
		order.CustomerID = &id
	}
	if t, err := time.Parse(time.RFC3339, o.CreatedAt); err == nil {
		order.CreatedAt = t.UTC()
	}
	return order
}

// ---------------------------------------------------------------------------
// Link header pagination
// ---------------------------------------------------------------------------

// NextPageInfo extracts the page_info cursor of the rel="next" entry of a Link header.
//
//	Link: <https://shop.myshopify.com/admin/api/2025-07/products.json?limit=250&page_info=abc>; rel="next"
func NextPageInfo(link string) string {
	for part := range strings.SplitSeq(link, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}
		isNext := false
		for _, param := range segments[1:] {
			param = strings.TrimSpace(param)
			if param == `rel="next"` || param == "rel=next" {
				isNext = true
				break
			}
		}
		if !isNext {
			continue
		}
		raw := strings.Trim(strings.TrimSpace(segments[0]), "<>")
		u, err := url.Parse(raw)
		if err != nil {
			return ""
		}
		return u.Query().Get("page_info")
	}
	return ""
}
