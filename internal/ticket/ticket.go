// Package ticket implements generation of traditional 90-ball Tambola tickets.
//
// A ticket is a 3x9 grid holding exactly 15 numbers: 5 per row, with each
// column restricted to a fixed numeric band (1-9, 10-19, ..., 80-90) and
// sorted ascending top to bottom within a column.
package ticket

import (
	"bytes"
	"encoding/json"
	"sort"

	rand "math/rand/v2"
)

const (
	// Rows and Cols fix the grid shape.
	Rows = 3
	Cols = 9

	// NumbersPerTicket is the total count of filled cells.
	NumbersPerTicket = 15

	// NumbersPerRow is the filled-cell count required in every row.
	NumbersPerRow = 5

	// MaxNumber is the highest callable number.
	MaxNumber = 90

	maxPerColumn = 3
)

// Ticket is a 3x9 grid. A zero cell is empty.
type Ticket [Rows][Cols]int

// Band returns the inclusive numeric range allowed in column col.
// Column 0 holds 1-9, columns 1-7 hold 10c to 10c+9, and the last
// column holds 80-90 (an 11-wide band so all 90 numbers are reachable).
func Band(col int) (lo, hi int) {
	switch col {
	case 0:
		return 1, 9
	case Cols - 1:
		return 80, MaxNumber
	default:
		return col * 10, col*10 + 9
	}
}

// Generate produces one valid ticket from the provided random source.
// The algorithm runs in four phases: distribute per-column quotas summing
// to 15, place random band values into random rows, repair rows to exactly
// 5 numbers each, then re-sort every column ascending.
func Generate(rng *rand.Rand) Ticket {
	var t Ticket
	used := make(map[int]bool, NumbersPerTicket)

	quotas := columnQuotas(rng)

	for col := 0; col < Cols; col++ {
		count := quotas[col]
		if count == 0 {
			continue
		}

		values := bandValues(col, used)
		rng.Shuffle(len(values), func(i, j int) {
			values[i], values[j] = values[j], values[i]
		})
		selected := values[:count]
		sort.Ints(selected)

		rows := []int{0, 1, 2}
		rng.Shuffle(len(rows), func(i, j int) {
			rows[i], rows[j] = rows[j], rows[i]
		})

		for i, v := range selected {
			t[rows[i]][col] = v
			used[v] = true
		}
	}

	repairRows(&t, rng, used)
	sortColumns(&t)

	return t
}

// columnQuotas starts every column at one number and randomly spreads the
// remaining six, capped at three per column.
func columnQuotas(rng *rand.Rand) [Cols]int {
	quotas := [Cols]int{1, 1, 1, 1, 1, 1, 1, 1, 1}
	remaining := NumbersPerTicket - Cols

	for remaining > 0 {
		col := rng.IntN(Cols)
		if quotas[col] < maxPerColumn {
			quotas[col]++
			remaining--
		}
	}
	return quotas
}

// bandValues returns the unused numbers in a column's band.
func bandValues(col int, used map[int]bool) []int {
	lo, hi := Band(col)
	values := make([]int, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		if !used[n] {
			values = append(values, n)
		}
	}
	return values
}

// repairRows walks rows in order and adds or removes numbers until each
// holds exactly five. Removal prefers columns holding more than one number
// but will empty a column when nothing else is available, so callers must
// not rely on every column staying populated.
func repairRows(t *Ticket, rng *rand.Rand, used map[int]bool) {
	for row := 0; row < Rows; row++ {
		count := t.rowCount(row)

		switch {
		case count < NumbersPerRow:
			needed := NumbersPerRow - count

			var candidates []int
			for col := 0; col < Cols; col++ {
				if t[row][col] == 0 && t.columnCount(col) < maxPerColumn {
					candidates = append(candidates, col)
				}
			}
			rng.Shuffle(len(candidates), func(i, j int) {
				candidates[i], candidates[j] = candidates[j], candidates[i]
			})

			for i := 0; i < needed && i < len(candidates); i++ {
				col := candidates[i]
				lo, hi := Band(col)
				for n := lo; n <= hi; n++ {
					if !used[n] {
						t[row][col] = n
						used[n] = true
						break
					}
				}
			}

		case count > NumbersPerRow:
			toRemove := count - NumbersPerRow

			var filled []int
			for col := 0; col < Cols; col++ {
				if t[row][col] != 0 {
					filled = append(filled, col)
				}
			}
			rng.Shuffle(len(filled), func(i, j int) {
				filled[i], filled[j] = filled[j], filled[i]
			})

			var safe, rest []int
			for _, col := range filled {
				if t.columnCount(col) > 1 {
					safe = append(safe, col)
				} else {
					rest = append(rest, col)
				}
			}
			candidates := append(safe, rest...)

			for i := 0; i < toRemove && i < len(candidates); i++ {
				col := candidates[i]
				delete(used, t[row][col])
				t[row][col] = 0
			}
		}
	}
}

// sortColumns rewrites each column's values ascending into its occupied
// row slots.
func sortColumns(t *Ticket) {
	for col := 0; col < Cols; col++ {
		var rows, values []int
		for row := 0; row < Rows; row++ {
			if t[row][col] != 0 {
				rows = append(rows, row)
				values = append(values, t[row][col])
			}
		}
		if len(values) < 2 {
			continue
		}
		sort.Ints(values)
		for i, row := range rows {
			t[row][col] = values[i]
		}
	}
}

func (t Ticket) rowCount(row int) int {
	count := 0
	for col := 0; col < Cols; col++ {
		if t[row][col] != 0 {
			count++
		}
	}
	return count
}

func (t Ticket) columnCount(col int) int {
	count := 0
	for row := 0; row < Rows; row++ {
		if t[row][col] != 0 {
			count++
		}
	}
	return count
}

// Numbers returns every filled value in row-major order.
func (t Ticket) Numbers() []int {
	numbers := make([]int, 0, NumbersPerTicket)
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			if t[row][col] != 0 {
				numbers = append(numbers, t[row][col])
			}
		}
	}
	return numbers
}

// Contains reports whether n appears anywhere on the ticket.
func (t Ticket) Contains(n int) bool {
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			if t[row][col] == n {
				return true
			}
		}
	}
	return false
}

// RowNumbers returns the filled values of one row, left to right.
func (t Ticket) RowNumbers(row int) []int {
	var numbers []int
	for col := 0; col < Cols; col++ {
		if t[row][col] != 0 {
			numbers = append(numbers, t[row][col])
		}
	}
	return numbers
}

// Corners returns the four structural corners: the first and last filled
// cells of the top row and of the bottom row. ok is false if either row
// is empty, which a generated ticket never is.
func (t Ticket) Corners() (corners [4]int, ok bool) {
	top := t.RowNumbers(0)
	bottom := t.RowNumbers(Rows - 1)
	if len(top) == 0 || len(bottom) == 0 {
		return corners, false
	}
	corners[0] = top[0]
	corners[1] = top[len(top)-1]
	corners[2] = bottom[0]
	corners[3] = bottom[len(bottom)-1]
	return corners, true
}

// MarshalJSON renders the grid with null for empty cells, matching the
// shape web clients render directly.
func (t Ticket) MarshalJSON() ([]byte, error) {
	grid := make([][]*int, Rows)
	for row := 0; row < Rows; row++ {
		grid[row] = make([]*int, Cols)
		for col := 0; col < Cols; col++ {
			if t[row][col] != 0 {
				v := t[row][col]
				grid[row][col] = &v
			}
		}
	}
	return json.Marshal(grid)
}

// UnmarshalJSON accepts the null-for-empty grid form.
func (t *Ticket) UnmarshalJSON(data []byte) error {
	var grid [Rows][Cols]*int
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&grid); err != nil {
		return err
	}
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			if grid[row][col] != nil {
				t[row][col] = *grid[row][col]
			} else {
				t[row][col] = 0
			}
		}
	}
	return nil
}
