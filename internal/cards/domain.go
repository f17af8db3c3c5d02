package cards

import (
	"time"

	"github.com/spf13/cast"

	"github.com/casavia/casavia/internal/record"
)

// Card is a stored payment card. Every card belongs to exactly one user.
type Card struct {
	ID              int64
	UserID          int64
	Name            string
	CardNumber      string
	ExpirationMonth int
	ExpirationYear  int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Schema is the declared column set for cards.
var Schema = record.Schema{
	{Name: "id", Excluded: true},
	{Name: "user_id", Excluded: true},
	{Name: "name"},
	{Name: "card_number"},
	{Name: "expiration_month"},
	{Name: "expiration_year"},
	{Name: "created_at", Excluded: true},
	{Name: "updated_at", Excluded: true},
}

// Value returns the current value of a column.
func (c *Card) Value(column string) any {
	switch column {
	case "id":
		return c.ID
	case "user_id":
		return c.UserID
	case "name":
		return c.Name
	case "card_number":
		return c.CardNumber
	case "expiration_month":
		return c.ExpirationMonth
	case "expiration_year":
		return c.ExpirationYear
	}
	return nil
}

// Set assigns an input value to a column.
func (c *Card) Set(column string, v any) {
	switch column {
	case "name":
		c.Name = cast.ToString(v)
	case "card_number":
		c.CardNumber = cast.ToString(v)
	case "expiration_month":
		c.ExpirationMonth = cast.ToInt(v)
	case "expiration_year":
		c.ExpirationYear = cast.ToInt(v)
	}
}

// Clear resets a column to its zero value.
func (c *Card) Clear(column string) {
	switch column {
	case "name", "card_number":
		c.Set(column, "")
	case "expiration_month", "expiration_year":
		c.Set(column, 0)
	}
}

var _ record.Mapper = (*Card)(nil)
