package core

// Category is the closed set of record categories.
type Category string

const (
	CategorySpacetime Category = "时空"
	CategoryCosmos    Category = "宇宙"
)

var categoryGlyphs = map[Category]string{
	CategorySpacetime: "🌌",
	CategoryCosmos:    "🪐",
}

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategorySpacetime, CategoryCosmos}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryGlyphs[c]
	return ok
}

// Glyph returns the display emoji, or "" for unknown categories.
func (c Category) Glyph() string {
	return categoryGlyphs[c]
}

func (c Category) String() string {
	return string(c)
}
