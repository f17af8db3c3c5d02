package record

import (
	"testing"

	"github.com/spf13/cast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEntity struct {
	ID    int64
	Name  string
	City  string
	Rooms int
	Notes string
}

var testSchema = Schema{
	{Name: "id", Excluded: true},
	{Name: "name"},
	{Name: "city"},
	{Name: "rooms"},
	{Name: "notes"},
}

func (e *testEntity) Value(column string) any {
	switch column {
	case "id":
		return e.ID
	case "name":
		return e.Name
	case "city":
		return e.City
	case "rooms":
		return e.Rooms
	case "notes":
		return e.Notes
	}
	return nil
}

func (e *testEntity) Set(column string, v any) {
	switch column {
	case "name":
		e.Name = cast.ToString(v)
	case "city":
		e.City = cast.ToString(v)
	case "rooms":
		e.Rooms = cast.ToInt(v)
	case "notes":
		e.Notes = cast.ToString(v)
	}
}

func (e *testEntity) Clear(column string) {
	switch column {
	case "name":
		e.Name = ""
	case "city":
		e.City = ""
	case "rooms":
		e.Rooms = 0
	case "notes":
		e.Notes = ""
	}
}

func TestApplyAssignsPresentValues(t *testing.T) {
	entity := &testEntity{}
	Apply(entity, testSchema, Values{"name": "Villa Rosa", "rooms": "4"})

	assert.Equal(t, "Villa Rosa", entity.Name)
	assert.Equal(t, 4, entity.Rooms)
	assert.Empty(t, entity.City)
}

func TestApplyRetainsExistingValues(t *testing.T) {
	entity := &testEntity{Name: "Old Name", City: "Lagos", Rooms: 2}
	Apply(entity, testSchema, Values{"name": "New Name"})

	assert.Equal(t, "New Name", entity.Name)
	assert.Equal(t, "Lagos", entity.City, "absent input must retain prior value")
	assert.Equal(t, 2, entity.Rooms)
}

func TestApplyNilValueRetainsExisting(t *testing.T) {
	entity := &testEntity{City: "Lagos"}
	Apply(entity, testSchema, Values{"city": nil})

	assert.Equal(t, "Lagos", entity.City)
}

func TestApplyClearsEmptyResolvedValues(t *testing.T) {
	entity := &testEntity{Notes: "stale"}
	Apply(entity, testSchema, Values{"notes": ""})

	assert.Empty(t, entity.Notes, "empty input clears the column for store defaults")
}

func TestApplyNeverTouchesExcludedColumns(t *testing.T) {
	entity := &testEntity{ID: 7}
	Apply(entity, testSchema, Values{"id": int64(99), "name": "x"})

	assert.Equal(t, int64(7), entity.ID)
}

func TestApplyExtraExclusions(t *testing.T) {
	entity := &testEntity{City: "Lagos"}
	Apply(entity, testSchema, Values{"city": "Abuja", "name": "x"}, "city")

	assert.Equal(t, "Lagos", entity.City)
	assert.Equal(t, "x", entity.Name)
}

func TestSchemaNamesSkipExcluded(t *testing.T) {
	names := testSchema.Names()
	require.NotContains(t, names, "id")
	assert.Equal(t, []string{"name", "city", "rooms", "notes"}, names)
}

func TestValuesHas(t *testing.T) {
	in := Values{"a": "x", "b": nil}
	assert.True(t, in.Has("a"))
	assert.False(t, in.Has("b"))
	assert.False(t, in.Has("c"))
}
