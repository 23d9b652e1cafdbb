package ticket

import (
	"encoding/json"
	"testing"

	"github.com/Tanya-Jain20/Tambola-Game/internal/randutil"
)

// validateTicket checks every structural invariant of a ticket.
func validateTicket(t *testing.T, tk Ticket) {
	t.Helper()

	total := 0
	seen := make(map[int]bool)
	for row := 0; row < Rows; row++ {
		rowCount := 0
		for col := 0; col < Cols; col++ {
			v := tk[row][col]
			if v == 0 {
				continue
			}
			total++
			rowCount++

			lo, hi := Band(col)
			if v < lo || v > hi {
				t.Errorf("cell [%d][%d] = %d outside band [%d, %d]", row, col, v, lo, hi)
			}
			if seen[v] {
				t.Errorf("duplicate number %d", v)
			}
			seen[v] = true
		}
		if rowCount != NumbersPerRow {
			t.Errorf("row %d has %d numbers, want %d", row, rowCount, NumbersPerRow)
		}
	}
	if total != NumbersPerTicket {
		t.Errorf("ticket has %d numbers, want %d", total, NumbersPerTicket)
	}

	// Columns sorted ascending top to bottom
	for col := 0; col < Cols; col++ {
		prev := 0
		for row := 0; row < Rows; row++ {
			v := tk[row][col]
			if v == 0 {
				continue
			}
			if prev != 0 && v <= prev {
				t.Errorf("column %d not ascending: %d then %d", col, prev, v)
			}
			prev = v
		}
	}
}

func TestGenerateValid(t *testing.T) {
	for seed := int64(0); seed < 500; seed++ {
		tk := Generate(randutil.New(seed))
		validateTicket(t, tk)
		if t.Failed() {
			t.Fatalf("invalid ticket from seed %d: %v", seed, tk)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(randutil.New(42))
	b := Generate(randutil.New(42))
	if a != b {
		t.Error("same seed should produce the same ticket")
	}

	c := Generate(randutil.New(43))
	if a == c {
		t.Error("different seeds should not collide on the full grid")
	}
}

func TestBand(t *testing.T) {
	tests := []struct {
		col    int
		lo, hi int
	}{
		{col: 0, lo: 1, hi: 9},
		{col: 1, lo: 10, hi: 19},
		{col: 4, lo: 40, hi: 49},
		{col: 7, lo: 70, hi: 79},
		{col: 8, lo: 80, hi: 90},
	}
	for _, tt := range tests {
		lo, hi := Band(tt.col)
		if lo != tt.lo || hi != tt.hi {
			t.Errorf("Band(%d) = [%d, %d], want [%d, %d]", tt.col, lo, hi, tt.lo, tt.hi)
		}
	}
}

func TestNumbersAndContains(t *testing.T) {
	tk := Generate(randutil.New(7))

	numbers := tk.Numbers()
	if len(numbers) != NumbersPerTicket {
		t.Fatalf("Numbers() returned %d values, want %d", len(numbers), NumbersPerTicket)
	}
	for _, n := range numbers {
		if !tk.Contains(n) {
			t.Errorf("Contains(%d) = false for a ticket number", n)
		}
	}

	for n := 1; n <= MaxNumber; n++ {
		onTicket := false
		for _, v := range numbers {
			if v == n {
				onTicket = true
				break
			}
		}
		if tk.Contains(n) != onTicket {
			t.Errorf("Contains(%d) = %v, want %v", n, tk.Contains(n), onTicket)
		}
	}
}

func TestCorners(t *testing.T) {
	tk := Ticket{
		{1, 0, 25, 0, 45, 0, 62, 0, 81},
		{0, 12, 0, 34, 0, 51, 0, 73, 82},
		{5, 0, 28, 0, 47, 0, 65, 0, 90},
	}

	corners, ok := tk.Corners()
	if !ok {
		t.Fatal("expected corners on a full ticket")
	}
	want := [4]int{1, 81, 5, 90}
	if corners != want {
		t.Errorf("Corners() = %v, want %v", corners, want)
	}

	if _, ok := (Ticket{}).Corners(); ok {
		t.Error("empty ticket should not report corners")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	tk := Generate(randutil.New(11))

	data, err := json.Marshal(tk)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Ticket
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != tk {
		t.Errorf("round trip changed ticket: %v != %v", got, tk)
	}
}

func TestJSONEmptyCellsAreNull(t *testing.T) {
	tk := Ticket{
		{1, 0, 25, 0, 45, 0, 62, 0, 81},
		{0, 12, 0, 34, 0, 51, 0, 73, 82},
		{5, 0, 28, 0, 47, 0, 65, 0, 90},
	}

	data, err := json.Marshal(tk)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var grid [Rows][Cols]*int
	if err := json.Unmarshal(data, &grid); err != nil {
		t.Fatalf("unmarshal into pointer grid: %v", err)
	}
	if grid[0][1] != nil {
		t.Error("empty cell should encode as null")
	}
	if grid[0][0] == nil || *grid[0][0] != 1 {
		t.Error("filled cell should encode its value")
	}
}
