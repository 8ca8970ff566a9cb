package order

import "fmt"

// FormatOrderNumber renders a sequence value as the human-readable order
// number, e.g. ORD-000042. Uniqueness comes from the store's atomic
// sequence, never from counting existing rows.
func FormatOrderNumber(seq int64) string {
	return fmt.Sprintf("ORD-%06d", seq)
}
