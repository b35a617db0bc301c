// Package qa resolves a free-text question against the ordered answer sources:
// admin FAQs, the offline FAQ file, college data files, the off-topic policy and
// finally the AI chain. The first source that answers wins.
package qa

import (
	"strings"
	"unicode"
)

const (
	Abbreviation    = "mmec"
	InstitutionName = "maratha mandal engineering college"
)

// Normalize lowercases and trims raw and expands the college abbreviation so that
// keywords written with the full name still match.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	return strings.ReplaceAll(s, Abbreviation, InstitutionName)
}

// Query carries a question through the sources. Sources match on Normalized; the AI
// chain gets Raw.
type Query struct {
	Raw        string
	Normalized string
	Role       string
}

func NewQuery(raw, role string) Query {
	return Query{Raw: strings.TrimSpace(raw), Normalized: Normalize(raw), Role: role}
}

var stopwords = map[string]bool{
	"a": true, "about": true, "all": true, "also": true, "an": true, "and": true, "any": true,
	"are": true, "can": true, "could": true, "details": true, "did": true, "do": true,
	"does": true, "for": true, "from": true, "get": true, "give": true, "has": true,
	"have": true, "how": true, "i": true, "in": true, "info": true, "information": true,
	"into": true, "is": true, "it": true, "its": true, "know": true, "list": true,
	"many": true, "me": true, "much": true, "my": true, "need": true, "of": true,
	"on": true, "or": true, "our": true, "please": true, "show": true, "tell": true,
	"that": true, "the": true, "their": true, "there": true, "these": true, "this": true,
	"to": true, "want": true, "was": true, "what": true, "when": true, "where": true,
	"which": true, "who": true, "why": true, "will": true, "with": true, "would": true,
	"you": true, "your": true,
}

var institutionWords = func() map[string]bool {
	m := map[string]bool{Abbreviation: true}
	for _, w := range strings.Fields(InstitutionName) {
		m[w] = true
	}
	return m
}()

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// contentTerms returns the distinct words of a normalized query that can identify a
// topic: at least three characters, not a stopword, not part of the college name.
func contentTerms(normalized string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, w := range tokenize(normalized) {
		if len([]rune(w)) < 3 || stopwords[w] || institutionWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		terms = append(terms, w)
	}
	return terms
}
