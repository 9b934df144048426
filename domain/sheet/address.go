package sheet

import (
	"strconv"

	"github.com/xuri/excelize/v2"
)

const displayAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CellAddress is a (row, column) position used for typo reports.
type CellAddress struct {
	Row    int
	Column int
}

// String returns the display address. The column letter is taken at
// index Column+1, so column 0 displays as "B"; typo locations in existing
// reports use this form and it is kept as is. Columns past Y continue with
// spreadsheet names (AA, AB, ...).
func (a CellAddress) String() string {
	return ToAddress(a.Row, a.Column)
}

// ToAddress formats (row, col) as a display address, e.g. ToAddress(0, 0) == "B0".
func ToAddress(row, col int) string {
	return displayColumn(col) + strconv.Itoa(row)
}

func displayColumn(col int) string {
	switch {
	case col < 0:
		return "?"
	case col+1 < len(displayAlphabet):
		return displayAlphabet[col+1 : col+2]
	default:
		name, err := excelize.ColumnNumberToName(col + 2)
		if err != nil {
			return "?"
		}
		return name
	}
}

// CellName converts 1-based (row, column) coordinates to the real A1 name of the cell.
func CellName(row, col int) (string, error) {
	return excelize.CoordinatesToCellName(col, row)
}
