package users

import (
	"time"

	"github.com/spf13/cast"

	"github.com/casavia/casavia/internal/record"
)

// User represents an account with its public profile. ProfilePhoto holds
// the blob path; the HTTP layer derives the public URL.
type User struct {
	ID           int64
	Name         string
	Title        string
	Email        string
	PasswordHash string
	PhoneNumber  string
	Address      string
	Address2     string
	City         string
	State        string
	Country      string
	ZipCode      string
	About        string
	ProfilePhoto string
	Landline     string
	Facebook     string
	Twitter      string
	LinkedIn     string
	GooglePlus   string
	Instagram    string
	Tumbler      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Schema is the declared column set for users. Excluded columns are
// handled by dedicated hooks or managed by the store.
var Schema = record.Schema{
	{Name: "id", Excluded: true},
	{Name: "name"},
	{Name: "title"},
	{Name: "email"},
	{Name: "password", Excluded: true},
	{Name: "phone_number"},
	{Name: "address"},
	{Name: "address_2"},
	{Name: "city"},
	{Name: "state"},
	{Name: "country"},
	{Name: "zip_code"},
	{Name: "about"},
	{Name: "profile_photo", Excluded: true},
	{Name: "landline"},
	{Name: "facebook"},
	{Name: "twitter"},
	{Name: "linkedin"},
	{Name: "google_plus"},
	{Name: "instagram"},
	{Name: "tumbler"},
	{Name: "created_at", Excluded: true},
	{Name: "updated_at", Excluded: true},
}

// Value returns the current value of a column.
func (u *User) Value(column string) any {
	switch column {
	case "id":
		return u.ID
	case "name":
		return u.Name
	case "title":
		return u.Title
	case "email":
		return u.Email
	case "phone_number":
		return u.PhoneNumber
	case "address":
		return u.Address
	case "address_2":
		return u.Address2
	case "city":
		return u.City
	case "state":
		return u.State
	case "country":
		return u.Country
	case "zip_code":
		return u.ZipCode
	case "about":
		return u.About
	case "profile_photo":
		return u.ProfilePhoto
	case "landline":
		return u.Landline
	case "facebook":
		return u.Facebook
	case "twitter":
		return u.Twitter
	case "linkedin":
		return u.LinkedIn
	case "google_plus":
		return u.GooglePlus
	case "instagram":
		return u.Instagram
	case "tumbler":
		return u.Tumbler
	}
	return nil
}

// Set assigns an input value to a column.
func (u *User) Set(column string, v any) {
	switch column {
	case "name":
		u.Name = cast.ToString(v)
	case "title":
		u.Title = cast.ToString(v)
	case "email":
		u.Email = cast.ToString(v)
	case "phone_number":
		u.PhoneNumber = cast.ToString(v)
	case "address":
		u.Address = cast.ToString(v)
	case "address_2":
		u.Address2 = cast.ToString(v)
	case "city":
		u.City = cast.ToString(v)
	case "state":
		u.State = cast.ToString(v)
	case "country":
		u.Country = cast.ToString(v)
	case "zip_code":
		u.ZipCode = cast.ToString(v)
	case "about":
		u.About = cast.ToString(v)
	case "landline":
		u.Landline = cast.ToString(v)
	case "facebook":
		u.Facebook = cast.ToString(v)
	case "twitter":
		u.Twitter = cast.ToString(v)
	case "linkedin":
		u.LinkedIn = cast.ToString(v)
	case "google_plus":
		u.GooglePlus = cast.ToString(v)
	case "instagram":
		u.Instagram = cast.ToString(v)
	case "tumbler":
		u.Tumbler = cast.ToString(v)
	}
}

// Clear resets a column to its zero value.
func (u *User) Clear(column string) {
	u.Set(column, "")
}

var _ record.Mapper = (*User)(nil)
