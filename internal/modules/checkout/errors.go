package checkout

import (
	"fmt"
	"strings"
)

type OutOfStockItem struct {
	ProductID string
	Requested int
	Available int
}

type OutOfStockError struct {
	Items []OutOfStockItem
}

func (e *OutOfStockError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		parts = append(parts, fmt.Sprintf("%s (want %d, have %d)", it.ProductID, it.Requested, it.Available))
	}
	return "out of stock: " + strings.Join(parts, ", ")
}
