package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/zapper/internal/domain"
	"github.com/mmcdole/zapper/internal/nav"
	"github.com/mmcdole/zapper/internal/tui/styles"
)

// GalleryGrid renders sources as a fixed-column grid of bordered cells
type GalleryGrid struct {
	sources []domain.Source
	grid    nav.Grid

	// First visible row and column
	offset    int
	colOffset int

	width  int
	height int
}

// NewGalleryGrid creates a grid over sources
func NewGalleryGrid(sources []domain.Source, grid nav.Grid) GalleryGrid {
	return GalleryGrid{sources: sources, grid: grid}
}

// SetSize sets the area available to the grid
func (g *GalleryGrid) SetSize(width, height int) {
	g.width = width
	g.height = height
}

// VisibleColumns is how many columns fit side by side
func (g *GalleryGrid) VisibleColumns() int {
	cols := g.width / MinCellWidth
	if cols > g.grid.Columns {
		cols = g.grid.Columns
	}
	if cols < 1 {
		cols = 1
	}
	return cols
}

// cellWidth is the outer width of one cell
func (g *GalleryGrid) cellWidth() int {
	w := g.width / g.VisibleColumns()
	if w < MinCellWidth {
		w = MinCellWidth
	}
	return w
}

// VisibleRows is how many rows fit in the current height
func (g *GalleryGrid) VisibleRows() int {
	rows := g.height / CellHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Offset returns the first visible row
func (g *GalleryGrid) Offset() int {
	return g.offset
}

// ColumnOffset returns the first visible column
func (g *GalleryGrid) ColumnOffset() int {
	return g.colOffset
}

// ScrollTo centers the cell holding index on both axes
func (g *GalleryGrid) ScrollTo(index int) {
	if index < 0 {
		g.offset, g.colOffset = 0, 0
		return
	}
	row, col := g.grid.Position(index)
	g.offset = nav.CenterOffset(row, g.grid.Rows(len(g.sources)), g.VisibleRows())
	g.colOffset = nav.CenterOffset(col, g.grid.Columns, g.VisibleColumns())
}

// HitTest maps a point relative to the grid origin to a source index
func (g *GalleryGrid) HitTest(x, y int) (int, bool) {
	if x < 0 || y < 0 {
		return nav.None, false
	}
	visCol := x / g.cellWidth()
	if visCol >= g.VisibleColumns() {
		return nav.None, false
	}
	col := g.colOffset + visCol
	if col >= g.grid.Columns {
		return nav.None, false
	}
	row := g.offset + y/CellHeight
	if row >= g.offset+g.VisibleRows() {
		return nav.None, false
	}
	i := row*g.grid.Columns + col
	if i >= len(g.sources) {
		return nav.None, false
	}
	return i, true
}

// View renders the visible rows; state supplies the selection
func (g *GalleryGrid) View(state nav.NavigationState) string {
	if len(g.sources) == 0 {
		return styles.DimStyle.Render("No sources configured")
	}

	cw := g.cellWidth()
	innerW := cw - BorderWidth - 2 // border + padding

	totalRows := g.grid.Rows(len(g.sources))
	end := g.offset + g.VisibleRows()
	if end > totalRows {
		end = totalRows
	}

	var rows []string
	for r := g.offset; r < end; r++ {
		var cells []string
		lastCol := min(g.colOffset+g.VisibleColumns(), g.grid.Columns)
		for c := g.colOffset; c < lastCol; c++ {
			i := r*g.grid.Columns + c
			if i >= len(g.sources) {
				break
			}
			cells = append(cells, g.renderCell(g.sources[i], state.IsSelected(i), innerW))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func (g *GalleryGrid) renderCell(src domain.Source, selected bool, innerW int) string {
	style := styles.Cell(selected)
	label := src.Name
	if src.Kind == domain.SourceKindCategory {
		label = "# " + label
	}
	return style.Width(innerW + 2).Render(styles.Truncate(label, innerW))
}
