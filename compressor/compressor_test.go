package compressor

import (
	"fmt"
	"testing"
)

// An ACTION table of the expression grammar: negative entries are shifts,
// positive ones reductions and 0 is an error.
var exprActions = []int{
	-5, 0, 0, -4, 0, 0,
	0, -6, 0, 0, 0, 1,
	0, 3, -7, 0, 3, 3,
	0, 5, 5, 0, 5, 5,
	-5, 0, 0, -4, 0, 0,
	0, 7, 7, 0, 7, 7,
	-5, 0, 0, -4, 0, 0,
	-5, 0, 0, -4, 0, 0,
	0, -6, 0, 0, -11, 0,
	0, 2, -7, 0, 2, 2,
	0, 4, 4, 0, 4, 4,
	0, 6, 6, 0, 6, 6,
}

func TestCompressor_Compress(t *testing.T) {
	x := 0 // an empty value

	tests := []struct {
		caption  string
		original []int
		colCount int
	}{
		{
			caption: "a dense table",
			original: []int{
				1, 1, 1, 1, 1,
				1, 1, 1, 1, 1,
				1, 1, 1, 1, 1,
			},
			colCount: 5,
		},
		{
			caption: "an empty table",
			original: []int{
				x, x, x, x, x,
				x, x, x, x, x,
			},
			colCount: 5,
		},
		{
			caption: "a diagonal table",
			original: []int{
				1, x, x, x,
				x, 2, x, x,
				x, x, 3, x,
				x, x, x, 4,
			},
			colCount: 4,
		},
		{
			caption:  "an action table",
			original: exprActions,
			colCount: 6,
		},
	}
	for _, tt := range tests {
		for _, comp := range []Compressor{NewUniqueEntriesTable(), NewRowDisplacementTable(x)} {
			t.Run(fmt.Sprintf("%v/%T", tt.caption, comp), func(t *testing.T) {
				dup := append([]int{}, tt.original...)

				orig, err := NewOriginalTable(tt.original, tt.colCount)
				if err != nil {
					t.Fatal(err)
				}
				if err := comp.Compress(orig); err != nil {
					t.Fatal(err)
				}
				rowCount, colCount := comp.OriginalTableSize()
				if rowCount*colCount != len(tt.original) || colCount != tt.colCount {
					t.Fatalf("unexpected table size: %vx%v", rowCount, colCount)
				}
				for i := 0; i < rowCount; i++ {
					for j := 0; j < colCount; j++ {
						v, err := comp.Lookup(i, j)
						if err != nil {
							t.Fatal(err)
						}
						if want := tt.original[i*colCount+j]; v != want {
							t.Fatalf("unexpected entry (%v, %v); want: %v, got: %v", i, j, want, v)
						}
					}
				}

				if _, err := comp.Lookup(0, -1); err == nil {
					t.Fatalf("expected error didn't occur (0, -1)")
				}
				if _, err := comp.Lookup(rowCount, 0); err == nil {
					t.Fatalf("expected error didn't occur (%v, 0)", rowCount)
				}

				for i, v := range dup {
					if tt.original[i] != v {
						t.Fatalf("the original table is broken at %v", i)
					}
				}
			})
		}
	}
}

func TestNewOriginalTable(t *testing.T) {
	if _, err := NewOriginalTable(nil, 1); err == nil {
		t.Errorf("an empty table must be rejected")
	}
	if _, err := NewOriginalTable([]int{1, 2, 3}, 0); err == nil {
		t.Errorf("a zero column count must be rejected")
	}
	if _, err := NewOriginalTable([]int{1, 2, 3}, 2); err == nil {
		t.Errorf("a ragged table must be rejected")
	}
}

func TestCompress(t *testing.T) {
	const colCount = 6
	for _, level := range []int{CompressionLevelMin, CompressionLevelUnique, CompressionLevelMax} {
		t.Run(fmt.Sprintf("level %v", level), func(t *testing.T) {
			tab, err := Compress(exprActions, colCount, 0, level)
			if err != nil {
				t.Fatal(err)
			}
			if level == CompressionLevelMin {
				if tab != nil {
					t.Fatalf("the minimum level must not compress")
				}
				return
			}
			// Rows 0, 4, 6 and 7 are equal.
			if tab.RowNums[0] != tab.RowNums[4] || tab.RowNums[4] != tab.RowNums[7] {
				t.Fatalf("equal rows must share an entry: %v", tab.RowNums)
			}
			for row := 0; row < len(exprActions)/colCount; row++ {
				for col := 0; col < colCount; col++ {
					v, err := Lookup(tab, row, col)
					if err != nil {
						t.Fatal(err)
					}
					if want := exprActions[row*colCount+col]; v != want {
						t.Fatalf("unexpected entry (%v, %v); want: %v, got: %v", row, col, want, v)
					}
				}
			}
			if _, err := Lookup(tab, 0, colCount); err == nil {
				t.Fatalf("expected error didn't occur")
			}
		})
	}
}
