package parser

import "github.com/chazu/speculate/pkg/lexer"

// Contextual keywords. They are ordinary identifiers everywhere except the
// grammar positions that peek for them.
const (
	kwDescribe = "describe"
	kwContext  = "context"
	kwIt       = "it"
	kwTest     = "test"
	kwBefore   = "before"
	kwAfter    = "after"
)

// Go keywords that may start a passthrough declaration.
var declKeywords = []string{"func", "const", "var", "type", "import"}

// Alternatives accepted where a describe block may start, for diagnostics.
var describeBlockAlternatives = append([]string{
	kwBefore, kwAfter, kwDescribe, kwContext, "#", kwIt, kwTest,
}, declKeywords...)

func isDescribe(tok lexer.Token) bool {
	return tok.IsWord(kwDescribe) || tok.IsWord(kwContext)
}

func isIt(tok lexer.Token) bool {
	return tok.IsWord(kwIt) || tok.IsWord(kwTest)
}

func isAttributeMarker(tok lexer.Token) bool {
	return tok.Type == lexer.HASH
}

func isDeclaration(tok lexer.Token) bool {
	if !tok.IsIdentifier() {
		return false
	}
	for _, kw := range declKeywords {
		if tok.Value == kw {
			return true
		}
	}
	return false
}
