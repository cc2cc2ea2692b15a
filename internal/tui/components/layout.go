package components

// Layout constants shared by the components
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2

	// Title line at the top of a list
	TitleLines = 1

	// A grid cell is one text line inside a border
	CellHeight = 1 + BorderHeight

	MinCellWidth = 12
)
