package token

import "fmt"

// String renders p as "line:col", or "-" if unknown.
func (p Pos) String() string {
	if p.Unknown() {
		return "-"
	}
	line, col := p.LineCol()
	return fmt.Sprintf("%d:%d", line, col)
}
