package properties

import (
	"time"

	"github.com/spf13/cast"

	"github.com/casavia/casavia/internal/record"
)

// Property is a listing. Gallery holds blob paths; the HTTP layer derives
// public URLs. Type, Status and OtherFeatures hold resolved enum codes.
type Property struct {
	ID            int64
	UserID        int64
	Title         string
	Description   string
	Price         float64
	Address       string
	City          string
	State         string
	Bedrooms      int
	Bathrooms     int
	Area          float64
	Type          int
	Status        int
	OtherFeatures []int
	Gallery       []string
	Slug          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Schema is the declared column set for properties. Gallery, type, status
// and other_features are excluded from the blind copy; they are resolved
// by dedicated hooks. The slug is assigned once at creation.
var Schema = record.Schema{
	{Name: "id", Excluded: true},
	{Name: "user_id", Excluded: true},
	{Name: "title"},
	{Name: "description"},
	{Name: "price"},
	{Name: "address"},
	{Name: "city"},
	{Name: "state"},
	{Name: "bedrooms"},
	{Name: "bathrooms"},
	{Name: "area"},
	{Name: "type", Excluded: true},
	{Name: "status", Excluded: true},
	{Name: "other_features", Excluded: true},
	{Name: "gallery", Excluded: true},
	{Name: "slug", Excluded: true},
	{Name: "created_at", Excluded: true},
	{Name: "updated_at", Excluded: true},
}

// Value returns the current value of a column.
func (p *Property) Value(column string) any {
	switch column {
	case "id":
		return p.ID
	case "user_id":
		return p.UserID
	case "title":
		return p.Title
	case "description":
		return p.Description
	case "price":
		return p.Price
	case "address":
		return p.Address
	case "city":
		return p.City
	case "state":
		return p.State
	case "bedrooms":
		return p.Bedrooms
	case "bathrooms":
		return p.Bathrooms
	case "area":
		return p.Area
	case "slug":
		return p.Slug
	}
	return nil
}

// Set assigns an input value to a column.
func (p *Property) Set(column string, v any) {
	switch column {
	case "title":
		p.Title = cast.ToString(v)
	case "description":
		p.Description = cast.ToString(v)
	case "price":
		p.Price = cast.ToFloat64(v)
	case "address":
		p.Address = cast.ToString(v)
	case "city":
		p.City = cast.ToString(v)
	case "state":
		p.State = cast.ToString(v)
	case "bedrooms":
		p.Bedrooms = cast.ToInt(v)
	case "bathrooms":
		p.Bathrooms = cast.ToInt(v)
	case "area":
		p.Area = cast.ToFloat64(v)
	}
}

// Clear resets a column to its zero value.
func (p *Property) Clear(column string) {
	switch column {
	case "title", "description", "address", "city", "state":
		p.Set(column, "")
	case "price", "bedrooms", "bathrooms", "area":
		p.Set(column, 0)
	}
}

var _ record.Mapper = (*Property)(nil)
