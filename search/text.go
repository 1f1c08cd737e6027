package search

import "strings"

// minTokenLength is the shortest query token considered discriminative.
const minTokenLength = 3

// lexicalTokens splits a query on whitespace, drops tokens of two runes
// or fewer and lowercases the rest.
func lexicalTokens(query string) []string {
	words := strings.Fields(query)
	tokens := make([]string, 0, len(words))

	for _, word := range words {
		if len([]rune(word)) < minTokenLength {
			continue
		}
		tokens = append(tokens, strings.ToLower(word))
	}

	return tokens
}

// matchesAnyToken reports whether any token is a case-insensitive
// substring of title or content. Tokens must already be lowercase.
func matchesAnyToken(title, content string, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}

	title = strings.ToLower(title)
	content = strings.ToLower(content)
	for _, token := range tokens {
		if strings.Contains(title, token) || strings.Contains(content, token) {
			return true
		}
	}

	return false
}
