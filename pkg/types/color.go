package types

import "strings"

// Color is a selectable colour variant (balloons, ribbons).
type Color struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Colors is the palette offered by a colored product.
type Colors []Color

// Find returns the colour with the given id, matching case-insensitively.
func (c Colors) Find(id string) (Color, bool) {
	needle := strings.TrimSpace(id)
	for _, color := range c {
		if strings.EqualFold(color.ID, needle) {
			return color, true
		}
	}
	return Color{}, false
}
