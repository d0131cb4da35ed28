package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	reID     = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	maxPrice = decimal.RequireFromString("999999.99")
)

// ID validates an opaque resource identifier (product/category/supplier ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Price accepts non-negative amounts up to 999999.99 with at most two decimals.
func Price(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(maxPrice) && d.Equal(d.Round(2))
}

// Order normalises a sort direction; anything but "desc" sorts ascending.
func Order(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), "desc") {
		return "desc"
	}
	return "asc"
}

// New returns a validator that reports fields by their JSON names and knows the
// "price" and "opaqueid" tags used by the domain payloads.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && Price(d)
	})
	_ = v.RegisterValidation("opaqueid", func(fl validator.FieldLevel) bool {
		_, ok := ID(fl.Field().String())
		return ok
	})
	return v
}

var messages = map[string]string{
	"pName.required":         "Product name is required",
	"pName.max":              "Product name cannot exceed 100 characters",
	"unitPrice.required":     "Unit price is required",
	"unitPrice.price":        "Please enter a valid positive price up to 999999.99",
	"inStockCount.required":  "Stock count is required",
	"inStockCount.gte":       "Please enter a valid positive number",
	"inStockCount.lte":       "Stock count is too high",
	"lowStockCount.required": "Low stock threshold is required",
	"lowStockCount.gte":      "Please enter a valid positive number",
	"lowStockCount.lte":      "Low stock threshold is too high",
	"categoryID.required":    "Please select a category",
	"supplierID.required":    "Please select a supplier",
	"categoryName.required":  "Category name is required",
	"categoryName.max":       "Category name cannot exceed 100 characters",
	"fName.required":         "Supplier name is required",
	"fName.max":              "Supplier name cannot exceed 100 characters",
	"email.email":            "Please enter a valid email",
}

// Messages turns validator errors into one human readable message per field.
func Messages(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		if err != nil {
			out["_"] = err.Error()
		}
		return out
	}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
			out[fe.Field()] = msg
			continue
		}
		out[fe.Field()] = fe.Field() + " is invalid"
	}
	return out
}
