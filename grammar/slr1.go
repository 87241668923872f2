package grammar

// genSLR1Automaton builds the LR(0) collection and lets every reduction by
// A → α look ahead at FOLLOW(A).
func genSLR1Automaton(prods *productionSet, follow *followSet) (*lrAutomaton, error) {
	automaton, err := genLR0Automaton(prods)
	if err != nil {
		return nil, err
	}
	for _, s := range automaton.states {
		for _, r := range s.reductions {
			flw, err := follow.find(r.prod.lhs)
			if err != nil {
				return nil, err
			}
			r.lookAhead = newLookAhead(flw.sortedSymbols()...)
		}
	}
	return automaton, nil
}
