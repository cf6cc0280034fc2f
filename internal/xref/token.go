package xref

import "strings"

const delimiter = "@@"

// TokenKind distinguishes literal text from placeholder contents.
type TokenKind int

const (
	Literal TokenKind = iota
	Placeholder
)

// Token is one piece of a tokenized line. For placeholders Text holds the
// contents between the delimiters.
type Token struct {
	Kind TokenKind
	Text string
}

// Tokenize splits line into literal and placeholder tokens in one pass.
// Delimiters pair up left to right; an unpaired trailing "@@" stays literal.
func Tokenize(line string) []Token {
	var toks []Token
	for {
		start := strings.Index(line, delimiter)
		if start < 0 {
			break
		}
		end := strings.Index(line[start+len(delimiter):], delimiter)
		if end < 0 {
			break
		}
		if start > 0 {
			toks = append(toks, Token{Kind: Literal, Text: line[:start]})
		}
		inner := line[start+len(delimiter) : start+len(delimiter)+end]
		toks = append(toks, Token{Kind: Placeholder, Text: inner})
		line = line[start+2*len(delimiter)+end:]
	}
	if line != "" {
		toks = append(toks, Token{Kind: Literal, Text: line})
	}
	return toks
}
