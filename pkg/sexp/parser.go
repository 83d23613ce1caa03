package sexp

// Parser represents a parser in the process of parsing a given string into one
// or more S-expressions.
type Parser struct {
	// Source file being parsed
	srcfile *SourceFile
	// Text being parsed
	text []rune
	// Determine current position within text
	index int
	// Mapping from constructed S-Expressions to their spans in the original text.
	srcmap *SourceMap[SExp]
}

// NewParser constructs a new instance of Parser
func NewParser(srcfile *SourceFile) *Parser {
	return &Parser{
		srcfile: srcfile,
		text:    srcfile.Contents(),
		index:   0,
		srcmap:  NewSourceMap[SExp](srcfile.Contents()),
	}
}

// SourceMap returns the source map constructed so far.
func (p *Parser) SourceMap() *SourceMap[SExp] {
	return p.srcmap
}

// Parse a given string into an S-Expression, or produce an error.  Nil is
// returned (without error) when the end of the input is reached.
func (p *Parser) Parse() (SExp, error) {
	p.skipWhitespace()
	//
	start := p.index
	token := p.Next()
	//
	if token == nil {
		return nil, nil
	} else if len(token) == 1 && token[0] == ')' {
		return nil, p.error(start, "unexpected end-of-list")
	} else if len(token) == 1 && token[0] == '(' {
		var elements []SExp
		//
		for c := p.Lookahead(); c == nil || *c != ')'; c = p.Lookahead() {
			if c == nil {
				return nil, p.error(p.index, "unexpected end-of-file")
			}
			// Parse next element
			element, err := p.Parse()
			if err != nil {
				return nil, err
			}
			// Continue around!
			elements = append(elements, element)
		}
		// Consume right-brace
		p.Next()
		//
		list := &List{elements}
		p.srcmap.Put(list, NewSpan(start, p.index))
		//
		return list, nil
	}
	//
	symbol := &Symbol{string(token)}
	p.srcmap.Put(symbol, NewSpan(start, p.index))
	//
	return symbol, nil
}

// Next extracts the next token, skipping over any whitespace or comments.
func (p *Parser) Next() []rune {
	p.skipWhitespace()
	//
	index := p.index
	//
	if index == len(p.text) {
		return nil
	} else if p.text[index] == '(' || p.text[index] == ')' {
		p.index = p.index + 1
		return p.text[index:p.index]
	}
	// Symbol
	for p.index < len(p.text) && !isDelimiter(p.text[p.index]) {
		p.index++
	}
	//
	return p.text[index:p.index]
}

// Lookahead and see what character is next, ignoring whitespace and comments.
// Nil is returned at the end of the input.
func (p *Parser) Lookahead() *rune {
	p.skipWhitespace()
	//
	if p.index < len(p.text) {
		return &p.text[p.index]
	}
	//
	return nil
}

func (p *Parser) skipWhitespace() {
	for p.index < len(p.text) {
		switch p.text[p.index] {
		case ' ', '\t', '\n', '\r':
			p.index++
		case ';':
			// Comment runs to the end of the line
			for p.index < len(p.text) && p.text[p.index] != '\n' {
				p.index++
			}
		default:
			return
		}
	}
}

func isDelimiter(c rune) bool {
	switch c {
	case '(', ')', ' ', '\t', '\n', '\r', ';':
		return true
	}
	//
	return false
}

// Construct a parser error at a given position in the input stream.
func (p *Parser) error(index int, msg string) *SyntaxError {
	end := min(index+1, len(p.text))
	//
	return p.srcfile.SyntaxError(NewSpan(min(index, end), end), msg)
}
