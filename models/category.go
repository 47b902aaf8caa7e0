package models

import "strings"

// Category classifies a transaction's nature.
type Category string

const (
	CategoryDeposit    Category = "deposit"
	CategoryTransfer   Category = "transfer"
	CategoryWithdrawal Category = "withdrawal"
	CategoryPayment    Category = "payment"
)

// Direction is the balance sign of a category: inflow adds, outflow subtracts.
type Direction string

const (
	DirectionInflow  Direction = "inflow"
	DirectionOutflow Direction = "outflow"
)

// Directions is the single authoritative category->direction table. Every
// place that needs a direction reads this map instead of re-deriving it.
var Directions = map[Category]Direction{
	CategoryDeposit:    DirectionInflow,
	CategoryTransfer:   DirectionOutflow,
	CategoryWithdrawal: DirectionOutflow,
	CategoryPayment:    DirectionOutflow,
}

// Categories lists the known categories in a stable order.
var Categories = []Category{CategoryDeposit, CategoryPayment, CategoryTransfer, CategoryWithdrawal}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := Directions[c]
	return ok
}

// Direction returns the balance sign for c. Only meaningful for valid categories.
func (c Category) Direction() Direction {
	return Directions[c]
}

// CategoryList renders the known categories for validation messages.
func CategoryList() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
