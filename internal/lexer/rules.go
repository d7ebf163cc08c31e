package lexer

import (
	"regexp"
	"strings"
)

// action says what the lexer does with a match.
type action int

const (
	emit action = iota
	skip
	newline
	mismatch
)

type rule struct {
	name    string
	pattern string
	kind    Kind
	action  action
}

// rules is ordered: at any position the first alternative that matches
// wins, which is what keeps MISMATCH from shadowing the real categories.
var rules = [...]rule{
	{"NUMBER", `\d+`, KindNumber, emit},
	{"IDENTIFIER", `[a-zA-Z_][a-zA-Z_0-9]*`, KindIdentifier, emit},
	{"ASSIGN", `=`, KindAssign, emit},
	{"END", `;`, KindEnd, emit},
	{"PLUS", `\+`, KindPlus, emit},
	{"MINUS", `-`, KindMinus, emit},
	{"TIMES", `\*`, KindTimes, emit},
	{"DIVIDE", `/`, KindDivide, emit},
	{"LPAREN", `\(`, KindLParen, emit},
	{"RPAREN", `\)`, KindRParen, emit},
	{"SKIP", `[ \t]+`, KindEOF, skip},
	{"NEWLINE", `\r?\n`, KindEOF, newline},
	{"MISMATCH", `.`, KindEOF, mismatch},
}

// keywords reclassifies identifier-shaped matches.
var keywords = map[string]Kind{
	"int": KindInt,
}

// matcher is the anchored alternation of all rules; submatch i+1 belongs
// to rules[i].
var matcher = compileRules()

func compileRules() *regexp.Regexp {
	alts := make([]string, len(rules))
	for i, r := range rules {
		alts[i] = "(?P<" + r.name + ">" + r.pattern + ")"
	}
	return regexp.MustCompile(`^(?:` + strings.Join(alts, "|") + `)`)
}

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}

// lookupIdent returns the keyword kind for s or KindIdentifier.
func lookupIdent(s string) Kind {
	if k, ok := keywords[s]; ok {
		return k
	}
	return KindIdentifier
}
