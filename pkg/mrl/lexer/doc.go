// Package lexer turns raw MRL rule text into a flat stream of typed tokens.
//
// The tokenizer does more than split on whitespace: it fuses complete
// predicates into single tokens. "role = admin" becomes one Comparison
// token and "country IN {DE, FR}" becomes one InSet token, so the parser
// only ever reasons about parentheses, AND/OR/NOT, and opaque operands.
//
// Keywords are case-insensitive, comparison operators may be written
// without surrounding spaces ("age>=3"), and set members may carry optional
// single or double quotes.
//
// Tokenization is a pure function of its input; the only error it reports
// itself is an IN set with no closing brace.
package lexer
