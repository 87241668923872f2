// Package compressor compresses the sparse two-dimensional tables the
// generator produces: the ACTION and GOTO tables and the lexical transition
// table.
package compressor

import (
	"encoding/binary"
	"fmt"
	"sort"

	spec "github.com/mirryi/isc/spec/grammar"
)

const (
	// CompressionLevelMin stores tables as they are.
	CompressionLevelMin = 0
	// CompressionLevelUnique stores every distinct row once.
	CompressionLevelUnique = 1
	// CompressionLevelMax additionally packs the distinct rows by row displacement.
	CompressionLevelMax = 2
)

type OriginalTable struct {
	entries  []int
	rowCount int
	colCount int
}

func NewOriginalTable(entries []int, colCount int) (*OriginalTable, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("enries is empty")
	}
	if colCount <= 0 {
		return nil, fmt.Errorf("colCount must be >=1")
	}
	if len(entries)%colCount != 0 {
		return nil, fmt.Errorf("entries length or column count are incorrect; entries length: %v, column count: %v", len(entries), colCount)
	}

	return &OriginalTable{
		entries:  entries,
		rowCount: len(entries) / colCount,
		colCount: colCount,
	}, nil
}

type Compressor interface {
	Compress(orig *OriginalTable) error
	Lookup(row, col int) (int, error)
	OriginalTableSize() (int, int)
}

var (
	_ Compressor = &UniqueEntriesTable{}
	_ Compressor = &RowDisplacementTable{}
)

// UniqueEntriesTable keeps one copy of every distinct row and maps each
// original row to its copy.
type UniqueEntriesTable struct {
	UniqueEntries    []int
	RowNums          []int
	OriginalRowCount int
	OriginalColCount int
}

func NewUniqueEntriesTable() *UniqueEntriesTable {
	return &UniqueEntriesTable{}
}

func (tab *UniqueEntriesTable) Lookup(row, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return tab.UniqueEntries[tab.RowNums[row]*tab.OriginalColCount+col], nil
}

func (tab *UniqueEntriesTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

func (tab *UniqueEntriesTable) Compress(orig *OriginalTable) error {
	var uniqueEntries []int
	rowNums := make([]int, orig.rowCount)
	hash2RowNum := map[string]int{}
	for row := 0; row < orig.rowCount; row++ {
		start := row * orig.colCount
		cells := orig.entries[start : start+orig.colCount]
		key := rowKey(cells)
		rowNum, ok := hash2RowNum[key]
		if !ok {
			rowNum = len(hash2RowNum)
			hash2RowNum[key] = rowNum
			uniqueEntries = append(uniqueEntries, cells...)
		}
		rowNums[row] = rowNum
	}

	tab.UniqueEntries = uniqueEntries
	tab.RowNums = rowNums
	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount

	return nil
}

func rowKey(cells []int) string {
	buf := make([]byte, 0, len(cells)*binary.MaxVarintLen64)
	b := make([]byte, binary.MaxVarintLen64)
	for _, v := range cells {
		n := binary.PutVarint(b, int64(v))
		buf = append(buf, b[:n]...)
	}
	return string(buf)
}

const ForbiddenValue = -1

// RowDisplacementTable overlays the rows of a sparse table into one array.
// Each row is shifted by its displacement so that its non-empty cells fall
// on cells no other row uses; Bounds records which row owns a cell.
type RowDisplacementTable struct {
	OriginalRowCount int
	OriginalColCount int
	EmptyValue       int
	Entries          []int
	Bounds           []int
	RowDisplacement  []int
}

func NewRowDisplacementTable(emptyValue int) *RowDisplacementTable {
	return &RowDisplacementTable{
		EmptyValue: emptyValue,
	}
}

func (tab *RowDisplacementTable) Lookup(row int, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return tab.EmptyValue, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	d := tab.RowDisplacement[row]
	if tab.Bounds[d+col] != row {
		return tab.EmptyValue, nil
	}
	return tab.Entries[d+col], nil
}

func (tab *RowDisplacementTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

type rowInfo struct {
	rowNum      int
	nonEmptyCol []int
}

func (tab *RowDisplacementTable) Compress(orig *OriginalTable) error {
	rows := make([]rowInfo, orig.rowCount)
	for row := 0; row < orig.rowCount; row++ {
		rows[row].rowNum = row
		for col := 0; col < orig.colCount; col++ {
			if orig.entries[row*orig.colCount+col] != tab.EmptyValue {
				rows[row].nonEmptyCol = append(rows[row].nonEmptyCol, col)
			}
		}
	}
	// Placing dense rows first leaves the gaps to the sparse ones.
	sort.SliceStable(rows, func(i int, j int) bool {
		return len(rows[i].nonEmptyCol) > len(rows[j].nonEmptyCol)
	})

	size := len(orig.entries)
	entries := make([]int, size)
	bounds := make([]int, size)
	for i := 0; i < size; i++ {
		entries[i] = tab.EmptyValue
		bounds[i] = ForbiddenValue
	}
	rowDisplacement := make([]int, orig.rowCount)
	resultBottom := orig.colCount
	nextRowDisplacement := 0
	for _, r := range rows {
		if len(r.nonEmptyCol) == 0 {
			continue
		}

		d := nextRowDisplacement
		for !fits(bounds, d, r.nonEmptyCol) {
			d++
		}
		rowDisplacement[r.rowNum] = d
		for _, col := range r.nonEmptyCol {
			entries[d+col] = orig.entries[r.rowNum*orig.colCount+col]
			bounds[d+col] = r.rowNum
		}
		if d+orig.colCount > resultBottom {
			resultBottom = d + orig.colCount
		}
		nextRowDisplacement = d + 1
	}

	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount
	tab.Entries = entries[:resultBottom]
	tab.Bounds = bounds[:resultBottom]
	tab.RowDisplacement = rowDisplacement

	return nil
}

func fits(bounds []int, d int, cols []int) bool {
	for _, col := range cols {
		if bounds[d+col] != ForbiddenValue {
			return false
		}
	}
	return true
}

// Compress compresses a row-major table into its interchange form at the given
// level. Level CompressionLevelMin returns nil; callers keep the original.
func Compress(entries []int, colCount int, emptyValue int, level int) (*spec.UniqueEntriesTable, error) {
	if level <= CompressionLevelMin {
		return nil, nil
	}
	orig, err := NewOriginalTable(entries, colCount)
	if err != nil {
		return nil, err
	}
	ueTab := NewUniqueEntriesTable()
	if err := ueTab.Compress(orig); err != nil {
		return nil, err
	}
	tab := &spec.UniqueEntriesTable{
		RowNums:          ueTab.RowNums,
		OriginalRowCount: ueTab.OriginalRowCount,
		OriginalColCount: ueTab.OriginalColCount,
	}
	if level < CompressionLevelMax {
		tab.UncompressedUniqueEntries = ueTab.UniqueEntries
		return tab, nil
	}

	uniq, err := NewOriginalTable(ueTab.UniqueEntries, ueTab.OriginalColCount)
	if err != nil {
		return nil, err
	}
	rdTab := NewRowDisplacementTable(emptyValue)
	if err := rdTab.Compress(uniq); err != nil {
		return nil, err
	}
	tab.UniqueEntries = &spec.RowDisplacementTable{
		OriginalRowCount: rdTab.OriginalRowCount,
		OriginalColCount: rdTab.OriginalColCount,
		EmptyValue:       rdTab.EmptyValue,
		Entries:          rdTab.Entries,
		Bounds:           rdTab.Bounds,
		RowDisplacement:  rdTab.RowDisplacement,
	}
	return tab, nil
}

// Lookup reads a cell of a table produced by Compress.
func Lookup(tab *spec.UniqueEntriesTable, row, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	uniqRow := tab.RowNums[row]
	if tab.UniqueEntries == nil {
		return tab.UncompressedUniqueEntries[uniqRow*tab.OriginalColCount+col], nil
	}
	rd := tab.UniqueEntries
	d := rd.RowDisplacement[uniqRow]
	if rd.Bounds[d+col] != uniqRow {
		return rd.EmptyValue, nil
	}
	return rd.Entries[d+col], nil
}
