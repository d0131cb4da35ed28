package domain

import "github.com/shopspring/decimal"

func init() {
	// Prices travel as JSON numbers (9.99), matching what the dashboard sends.
	decimal.MarshalJSONWithoutQuotes = true
}

type Category struct {
	ID        string `db:"id" json:"categoryID"`
	Name      string `db:"name" json:"categoryName"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}

type Supplier struct {
	ID        string `db:"id" json:"supplierID"`
	FName     string `db:"name" json:"fName"`
	Email     string `db:"email" json:"email,omitempty"`
	Phone     string `db:"phone" json:"phone,omitempty"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}

type Product struct {
	ID            string          `db:"id" json:"productID"`
	Name          string          `db:"name" json:"pName"`
	UnitPrice     decimal.Decimal `db:"unit_price" json:"unitPrice"`
	InStockCount  int64           `db:"in_stock_count" json:"inStockCount"`
	LowStockCount int64           `db:"low_stock_count" json:"lowStockCount"`
	CategoryID    string          `db:"category_id" json:"categoryID"`
	CategoryName  string          `db:"category_name" json:"categoryName,omitempty"`
	CreatedAt     string          `db:"created_at" json:"createdAt"`
}

// LowStock reports whether the product is at or below its alert threshold.
func (p Product) LowStock() bool { return p.InStockCount <= p.LowStockCount }

// StockMovement is a signed change to a product's stock count.
type StockMovement struct {
	ID              string `db:"id" json:"movementID"`
	ProductID       string `db:"product_id" json:"productID"`
	QuantityChanged int64  `db:"quantity_changed" json:"quantityChanged"`
	CreatedAt       string `db:"created_at" json:"createdAt"`
}

// NewProduct is the payload of the product creation workflow. Numeric fields are
// pointers so that an omitted value can be told apart from zero.
type NewProduct struct {
	Name          string           `json:"pName" validate:"required,max=100"`
	UnitPrice     *decimal.Decimal `json:"unitPrice" validate:"required,price"`
	InStockCount  *int64           `json:"inStockCount" validate:"required,gte=0,lte=2147483647"`
	LowStockCount *int64           `json:"lowStockCount" validate:"required,gte=0,lte=2147483647"`
	CategoryID    string           `json:"categoryID" validate:"required,opaqueid"`
	SupplierID    string           `json:"supplierID" validate:"required,opaqueid"`
}

type NewCategory struct {
	Name string `json:"categoryName" validate:"required,max=100"`
}

type NewSupplier struct {
	FName string `json:"fName" validate:"required,max=100"`
	Email string `json:"email" validate:"omitempty,email,max=100"`
	Phone string `json:"phone" validate:"omitempty,max=30"`
}
