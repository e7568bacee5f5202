package lexer

import (
	"strings"

	"mercator-hq/themis/pkg/mrl/ast"
	mrlerrors "mercator-hq/themis/pkg/mrl/errors"
)

// rawKind classifies the intermediate tokens produced by the scan pass,
// before predicates are fused.
type rawKind int

const (
	rawSymbol  rawKind = iota // ( ) { } ,
	rawKeyword                // AND OR NOT IN (normalized to upper case)
	rawOp                     // = != > >= < <=
	rawWord                   // identifiers and literal values
)

// rawToken is one unit of the pre-fusion token stream.
type rawToken struct {
	kind rawKind
	text string
}

// comparison operators, longest first so that ">=" wins over ">" when both
// match at the same position.
var compareOps = []string{">=", "<=", "!=", ">", "<", "="}

// Tokenize turns a raw MRL rule string into a flat token stream.
//
// Tokenization runs in two passes over a cursor, never mutating the input:
//
//  1. scan: split on whitespace and the separator symbols ( ) { } , ,
//     normalize keywords, and split words with an embedded comparison
//     operator (so "age>=3" lexes like "age >= 3").
//  2. fuse: merge "field op value" triples into single Comparison tokens
//     and "field IN { v1, v2 }" runs into single InSet tokens.
//
// The only error tokenization itself can report is an unclosed IN set;
// every other malformed shape passes through as a word token and fails
// later with a precise error kind when the AST is built.
func Tokenize(rule string) ([]Token, error) {
	return fuse(scan(rule))
}

// scan splits the input into raw tokens.
func scan(input string) []rawToken {
	var raws []rawToken
	start := -1 // start of the word currently being scanned, -1 if none

	flush := func(end int) {
		if start >= 0 {
			raws = appendWord(raws, input[start:end])
			start = -1
		}
	}

	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			flush(i)
		case c == '(' || c == ')' || c == '{' || c == '}' || c == ',':
			flush(i)
			raws = append(raws, rawToken{kind: rawSymbol, text: string(c)})
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(input))

	return raws
}

// appendWord classifies a whitespace-delimited word and appends the raw
// tokens it expands to. Keywords are upper-cased; a word with an embedded
// comparison operator is split into field, operator and value parts.
func appendWord(raws []rawToken, word string) []rawToken {
	if upper := strings.ToUpper(word); isKeyword(upper) {
		return append(raws, rawToken{kind: rawKeyword, text: upper})
	}

	if idx, op := findOperator(word); idx >= 0 {
		if field := word[:idx]; field != "" {
			raws = append(raws, rawToken{kind: rawWord, text: field})
		}
		raws = append(raws, rawToken{kind: rawOp, text: op})
		if rest := word[idx+len(op):]; rest != "" {
			raws = append(raws, rawToken{kind: rawWord, text: rest})
		}
		return raws
	}

	return append(raws, rawToken{kind: rawWord, text: word})
}

// findOperator locates the earliest embedded comparison operator in a word,
// preferring the longest operator at that position. Returns -1 if the word
// contains none.
func findOperator(word string) (int, string) {
	for i := 0; i < len(word); i++ {
		for _, op := range compareOps {
			if strings.HasPrefix(word[i:], op) {
				return i, op
			}
		}
	}
	return -1, ""
}

func isKeyword(upper string) bool {
	switch upper {
	case "AND", "OR", "NOT", "IN":
		return true
	}
	return false
}

// fuse merges predicate shapes in the raw stream into single tokens.
func fuse(raws []rawToken) ([]Token, error) {
	var tokens []Token

	for i := 0; i < len(raws); {
		r := raws[i]

		// field IN { v1 , v2 , ... }
		if r.kind == rawWord && i+2 < len(raws) &&
			raws[i+1].kind == rawKeyword && raws[i+1].text == "IN" &&
			raws[i+2].kind == rawSymbol && raws[i+2].text == "{" {

			values, next, err := scanSet(raws, i+3)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Token{Type: TypeInSet, Field: r.text, Values: values})
			i = next
			continue
		}

		// field op value
		if r.kind == rawWord && i+2 < len(raws) &&
			raws[i+1].kind == rawOp && isValueToken(raws[i+2]) {

			tokens = append(tokens, Token{
				Type:  TypeComparison,
				Field: r.text,
				Op:    ast.CompareOp(raws[i+1].text),
				Value: raws[i+2].text,
			})
			i += 3
			continue
		}

		tokens = append(tokens, passthrough(r))
		i++
	}

	return tokens, nil
}

// scanSet collects set members starting just after the opening brace and
// returns the index of the token after the closing brace.
func scanSet(raws []rawToken, start int) ([]string, int, error) {
	values := []string{}
	for j := start; j < len(raws); j++ {
		if raws[j].kind == rawSymbol {
			switch raws[j].text {
			case "}":
				return values, j + 1, nil
			case ",":
				continue
			}
		}
		values = append(values, StripQuotes(raws[j].text))
	}
	return nil, 0, mrlerrors.New(mrlerrors.KindUnclosedSet, "IN set is never closed with '}'")
}

// isValueToken reports whether a raw token can serve as the right-hand side
// of a comparison. Keywords are allowed so that e.g. status=in lexes as a
// comparison against the literal "in".
func isValueToken(r rawToken) bool {
	return r.kind == rawWord || r.kind == rawKeyword
}

// passthrough converts a raw token that took part in no fusion.
func passthrough(r rawToken) Token {
	switch r.kind {
	case rawSymbol:
		switch r.text {
		case "(":
			return Token{Type: TypeOpenParen}
		case ")":
			return Token{Type: TypeCloseParen}
		}
	case rawKeyword:
		switch r.text {
		case "AND":
			return Token{Type: TypeAnd, Text: "AND"}
		case "OR":
			return Token{Type: TypeOr, Text: "OR"}
		case "NOT":
			return Token{Type: TypeNot, Text: "NOT"}
		}
	}
	return Token{Type: TypeWord, Text: r.text}
}
