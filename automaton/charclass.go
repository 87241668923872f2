package automaton

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Range is an inclusive interval of code points.
type Range struct {
	From rune
	To   rune
}

func (r Range) String() string {
	if r.From == r.To {
		return quoteRune(r.From)
	}
	return fmt.Sprintf("%v-%v", quoteRune(r.From), quoteRune(r.To))
}

// CharClass is a set of code points kept as sorted, disjoint and non-adjacent
// ranges. The zero value is the empty class.
type CharClass struct {
	ranges []Range
}

func NewCharClass(ranges ...Range) CharClass {
	rs := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.From > r.To || r.To < 0 || r.From > unicode.MaxRune {
			continue
		}
		if r.From < 0 {
			r.From = 0
		}
		if r.To > unicode.MaxRune {
			r.To = unicode.MaxRune
		}
		rs = append(rs, r)
	}
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].From != rs[j].From {
			return rs[i].From < rs[j].From
		}
		return rs[i].To < rs[j].To
	})

	var merged []Range
	for _, r := range rs {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			if r.From <= last.To+1 {
				if r.To > last.To {
					last.To = r.To
				}
				continue
			}
		}
		merged = append(merged, r)
	}
	return CharClass{
		ranges: merged,
	}
}

func Single(c rune) CharClass {
	return NewCharClass(Range{From: c, To: c})
}

func AnyChar() CharClass {
	return NewCharClass(Range{From: 0, To: unicode.MaxRune})
}

func AnyCharExceptNewline() CharClass {
	return Single('\n').Complement()
}

func (c CharClass) Union(other CharClass) CharClass {
	rs := make([]Range, 0, len(c.ranges)+len(other.ranges))
	rs = append(rs, c.ranges...)
	rs = append(rs, other.ranges...)
	return NewCharClass(rs...)
}

func (c CharClass) Complement() CharClass {
	var rs []Range
	next := rune(0)
	for _, r := range c.ranges {
		if r.From > next {
			rs = append(rs, Range{From: next, To: r.From - 1})
		}
		next = r.To + 1
	}
	if next <= unicode.MaxRune {
		rs = append(rs, Range{From: next, To: unicode.MaxRune})
	}
	return CharClass{
		ranges: rs,
	}
}

// Subtract removes the code points of other from c.
func (c CharClass) Subtract(other CharClass) CharClass {
	return c.Complement().Union(other).Complement()
}

func (c CharClass) Contains(r rune) bool {
	i := sort.Search(len(c.ranges), func(i int) bool {
		return c.ranges[i].To >= r
	})
	return i < len(c.ranges) && c.ranges[i].From <= r
}

func (c CharClass) IsEmpty() bool {
	return len(c.ranges) == 0
}

func (c CharClass) Ranges() []Range {
	return append([]Range{}, c.ranges...)
}

func (c CharClass) Equal(other CharClass) bool {
	if len(c.ranges) != len(other.ranges) {
		return false
	}
	for i, r := range c.ranges {
		if other.ranges[i] != r {
			return false
		}
	}
	return true
}

func (c CharClass) String() string {
	if len(c.ranges) == 1 && c.ranges[0].From == c.ranges[0].To {
		return quoteRune(c.ranges[0].From)
	}
	var b strings.Builder
	b.WriteString("[")
	for _, r := range c.ranges {
		b.WriteString(r.String())
	}
	b.WriteString("]")
	return b.String()
}

func quoteRune(c rune) string {
	switch {
	case c == unicode.MaxRune:
		return "MAX"
	case c == '"' || c == '\\':
		return `\` + string(c)
	case unicode.IsPrint(c) && c != ' ':
		return string(c)
	default:
		return fmt.Sprintf("U+%04X", c)
	}
}

// partition splits the code points mentioned by classes into atoms: maximal
// ranges on which every class either contains all or none of the code points.
// Code points no class mentions belong to no atom.
func partition(classes []CharClass) []Range {
	cuts := map[rune]struct{}{}
	for _, c := range classes {
		for _, r := range c.ranges {
			cuts[r.From] = struct{}{}
			cuts[r.To+1] = struct{}{}
		}
	}
	points := make([]rune, 0, len(cuts))
	for p := range cuts {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i] < points[j]
	})

	var union CharClass
	for _, c := range classes {
		union = union.Union(c)
	}

	var atoms []Range
	for i := 0; i+1 < len(points); i++ {
		atom := Range{From: points[i], To: points[i+1] - 1}
		if !union.Contains(atom.From) {
			continue
		}
		atoms = append(atoms, atom)
	}
	return atoms
}

// findAtom returns the index of the atom containing c, or -1.
func findAtom(atoms []Range, c rune) int {
	i := sort.Search(len(atoms), func(i int) bool {
		return atoms[i].To >= c
	})
	if i < len(atoms) && atoms[i].From <= c {
		return i
	}
	return -1
}

// Label is the label of an NFA transition: either epsilon or a class of code
// points.
type Label struct {
	epsilon bool
	class   CharClass
}

func Epsilon() Label {
	return Label{
		epsilon: true,
	}
}

func Symbols(c CharClass) Label {
	return Label{
		class: c,
	}
}

func (l Label) IsEpsilon() bool {
	return l.epsilon
}

func (l Label) Class() CharClass {
	return l.class
}

func (l Label) String() string {
	if l.epsilon {
		return "ε"
	}
	return l.class.String()
}
