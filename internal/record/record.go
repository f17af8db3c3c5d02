// Package record implements the generic field projection used by every
// entity service. An entity declares its column schema as a build-time
// field table and exposes uniform column access through Mapper; Apply
// projects an arbitrary input mapping onto the entity without persisting.
package record

// Values holds one request's input mapping, keyed by column name.
type Values map[string]any

// Has reports whether the input carries a non-nil value for the column.
func (v Values) Has(column string) bool {
	val, ok := v[column]
	return ok && val != nil
}

// Field describes one column of an entity's declared schema. Excluded
// columns are never touched by the blind copy; they belong to dedicated
// post-processing hooks (password hashing, file uploads, enum resolution).
type Field struct {
	Name     string
	Excluded bool
}

// Schema is the ordered column set for one entity.
type Schema []Field

// Names returns the non-excluded column names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for _, f := range s {
		if !f.Excluded {
			names = append(names, f.Name)
		}
	}
	return names
}

// Mapper gives Apply uniform access to an entity's columns. Implementations
// are a compile-time checked switch over the schema's column names.
type Mapper interface {
	// Value returns the current value of the column.
	Value(column string) any

	// Set assigns an input value to the column, coercing as needed.
	Set(column string, value any)

	// Clear resets the column to its zero value so the store can apply
	// its own default on save.
	Clear(column string)
}

// Apply projects input onto the entity: every schema column that is not
// excluded takes the input value when one is present, otherwise keeps the
// entity's current value; a column that is empty after that step is
// cleared entirely. Extra exclusions supplement the schema's own.
func Apply(entity Mapper, schema Schema, input Values, exclude ...string) {
	skip := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		skip[name] = struct{}{}
	}

	for _, field := range schema {
		if field.Excluded {
			continue
		}
		if _, ok := skip[field.Name]; ok {
			continue
		}
		if input.Has(field.Name) {
			entity.Set(field.Name, input[field.Name])
		}
		if isEmpty(entity.Value(field.Name)) {
			entity.Clear(field.Name)
		}
	}
}

// isEmpty mirrors the loose null check of the update contract: nil, empty
// strings and numeric zeroes all count as unset.
func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case int:
		return val == 0
	case int64:
		return val == 0
	case float64:
		return val == 0
	case []string:
		return len(val) == 0
	case []int:
		return len(val) == 0
	default:
		return false
	}
}
