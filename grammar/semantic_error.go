package grammar

// SemanticError is the cause of an error.GrammarError. Compare causes with
// errors.Is.
type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	SemErrNoProduction         = newSemanticError("a grammar needs at least one production")
	SemErrEmptyName            = newSemanticError("a symbol name must not be empty")
	SemErrReservedName         = newSemanticError("reserved symbol name")
	SemErrUndefinedSym         = newSemanticError("undefined symbol")
	SemErrDuplicateTerminal    = newSemanticError("duplicate terminal")
	SemErrDuplicateNonTerminal = newSemanticError("duplicate non-terminal")
	SemErrDuplicateName        = newSemanticError("duplicate names are not allowed between terminals and non-terminals")
	SemErrLHSNotNonTerminal    = newSemanticError("the LHS of a production must be a non-terminal")
	SemErrSkippedTermInRHS     = newSemanticError("a skipped terminal cannot appear in productions")
	SemErrDuplicateProduction  = newSemanticError("duplicate production")
	SemErrNoStart              = newSemanticError("a grammar needs a start symbol")
	SemErrUndefinedStart       = newSemanticError("the start symbol must be a declared non-terminal")
	SemErrNonTermNoProduction  = newSemanticError("a non-terminal needs at least one production")
)
