package crossword

import (
	"fmt"
	"strings"
)

// BlockedDisplayRune is what a blocked cell renders as.
const BlockedDisplayRune = '█'

// ToDisplayText returns a drawing of the grid with the given (possibly
// partial) assignment laid into it. Fillable cells without a letter render
// as spaces.
func (cw *Crossword) ToDisplayText(assignment map[Variable]string) string {
	letters := make([][]rune, cw.height)
	for i := range letters {
		letters[i] = make([]rune, cw.width)
		for j := range letters[i] {
			if cw.fillable[i][j] {
				letters[i][j] = ' '
			} else {
				letters[i][j] = BlockedDisplayRune
			}
		}
	}
	for v, word := range assignment {
		rw := []rune(word)
		for k, cell := range v.Cells() {
			if k < len(rw) {
				letters[cell[0]][cell[1]] = rw[k]
			}
		}
	}

	var str string
	row := "   "
	for j := 0; j < cw.width; j++ {
		row = row + fmt.Sprintf("%c", 'A'+j) + " "
	}
	str = str + row + "\n"
	str = str + "   " + strings.Repeat("-", cw.width*2) + "\n"
	for i := 0; i < cw.height; i++ {
		row := fmt.Sprintf("%2d|", i+1)
		for j := 0; j < cw.width; j++ {
			row = row + string(letters[i][j]) + " "
		}
		row = row + "|"
		str = str + row + "\n"
	}
	str = str + "   " + strings.Repeat("-", cw.width*2) + "\n"
	return "\n" + str
}
