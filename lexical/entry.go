package lexical

import (
	"errors"
	"fmt"

	ierr "github.com/mirryi/isc/error"
)

// LexEntry is one token kind of a lexical specification. Entries listed
// earlier win when two kinds match a lexeme of the same length.
type LexEntry struct {
	Kind    string
	Pattern string
	Skip    bool
}

type LexSpec struct {
	Entries []*LexEntry
}

var (
	errNoEntry       = errors.New("the lexical specification must have at least one entry")
	errEmptyKind     = errors.New("a kind name must not be empty")
	errDuplicateKind = errors.New("duplicate kind")
	errEmptyPattern  = errors.New("a pattern must not be empty")
)

// Validate reports every problem of the specification at once. The result is
// an error.SpecErrors unless it is nil.
func (s *LexSpec) Validate() error {
	if len(s.Entries) == 0 {
		return ierr.SpecErrors{errNoEntry}
	}

	var errs ierr.SpecErrors
	ks := map[string]struct{}{}
	for _, e := range s.Entries {
		if e.Kind == "" {
			errs = append(errs, errEmptyKind)
			continue
		}
		if _, exist := ks[e.Kind]; exist {
			errs = append(errs, fmt.Errorf("%w: %v", errDuplicateKind, e.Kind))
			continue
		}
		ks[e.Kind] = struct{}{}
		if e.Pattern == "" {
			errs = append(errs, fmt.Errorf("%w: %v", errEmptyPattern, e.Kind))
		}
	}
	return errs.Err()
}

// CompileError reports a pattern of an entry that failed to compile. Cause is
// usually an *error.SyntaxError.
type CompileError struct {
	Kind  string
	Cause error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Cause)
}

func (e *CompileError) Unwrap() error {
	return e.Cause
}
