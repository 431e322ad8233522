package core

import "encoding/json"

// NoteCategory classifies a note by phase of operation.
type NoteCategory string

const (
	CategoryTaxi     NoteCategory = "taxi"
	CategoryTakeOff  NoteCategory = "takeOff"
	CategoryApproach NoteCategory = "approach"
	CategoryGeneral  NoteCategory = "general"
)

// Categories returns every category in display order.
func Categories() []NoteCategory {
	return []NoteCategory{CategoryTaxi, CategoryTakeOff, CategoryApproach, CategoryGeneral}
}

// retiredCategories maps tags written by older app versions.
var retiredCategories = map[string]NoteCategory{
	"ground":  CategoryTaxi,
	"parking": CategoryGeneral,
}

// ParseCategory is total: known tags map to themselves, retired tags are
// remapped and anything else becomes CategoryGeneral.
func ParseCategory(s string) NoteCategory {
	switch c := NoteCategory(s); c {
	case CategoryTaxi, CategoryTakeOff, CategoryApproach, CategoryGeneral:
		return c
	}
	if c, ok := retiredCategories[s]; ok {
		return c
	}
	return CategoryGeneral
}

// Valid reports whether c is one of the current categories.
func (c NoteCategory) Valid() bool {
	return ParseCategory(string(c)) == c
}

// DisplayName is the human label for the category.
func (c NoteCategory) DisplayName() string {
	switch c {
	case CategoryTaxi:
		return "Taxi"
	case CategoryTakeOff:
		return "Take off"
	case CategoryApproach:
		return "Approach"
	default:
		return "General"
	}
}

// UnmarshalJSON decodes any string through ParseCategory. Non-string values
// (null, numbers) decode as CategoryGeneral.
func (c *NoteCategory) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*c = CategoryGeneral
		return nil
	}
	*c = ParseCategory(s)
	return nil
}
