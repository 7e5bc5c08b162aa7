package index

// Document is one normalized document: a stable id (its file name) and the
// split token stream positions refer to.
type Document struct {
	ID     string
	Tokens []string
}

// WordCount returns the number of non-empty tokens.
func (d Document) WordCount() int {
	n := 0
	for _, t := range d.Tokens {
		if t != "" {
			n++
		}
	}
	return n
}

// TokenAt returns the token at pos, or false when pos is outside the
// stream or lands on an empty token.
func (d Document) TokenAt(pos int) (string, bool) {
	if pos < 0 || pos >= len(d.Tokens) || d.Tokens[pos] == "" {
		return "", false
	}
	return d.Tokens[pos], true
}
