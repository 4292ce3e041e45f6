package components

import "fmt"

// Location is a cell coordinate on the field. Locations compare by value.
type Location struct {
	Row, Col int
}

// String formats the location as (row,col).
func (l Location) String() string {
	return fmt.Sprintf("(%d,%d)", l.Row, l.Col)
}

// Offset returns the location shifted by dr rows and dc columns.
func (l Location) Offset(dr, dc int) Location {
	return Location{Row: l.Row + dr, Col: l.Col + dc}
}
