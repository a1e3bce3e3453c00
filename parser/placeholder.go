package parser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// positionalPlaceholderRegex finds a "?" that follows a "=", "," or "(" with no quote in between. Only such
// placeholders are substituted, a "?" anywhere else stays untouched and is later reported by the lexer.
var positionalPlaceholderRegex = regexp.MustCompile(`([=,(][^']*?)(\?)`)

// hasPlaceholderConflict checks the raw query for both placeholder styles. Any ":" counts, also one within a string
// literal (like a "json:" value).
func hasPlaceholderConflict(queryString string) bool {
	return strings.Contains(queryString, "?") && strings.Contains(queryString, ":")
}

// substitutePositional replaces one placeholder per value, always the leftmost one matching the regex, by the value as
// quoted string literal. Surplus values are ignored.
//
// The returned map contains the rune position of each inserted literal (i.e. of its opening quote) within the
// returned string and the original value. The parser uses it to get typed values back instead of their string
// representation.
func substitutePositional(queryString string, values []any) (string, map[int]any) {
	substitutions := map[int]any{}

	for _, value := range values {
		match := positionalPlaceholderRegex.FindStringSubmatchIndex(queryString)
		if match == nil {
			break
		}

		// Group 2 is the "?" itself
		placeholderStart := match[4]
		literal := quoteLiteral(value)

		position := utf8.RuneCountInString(queryString[:placeholderStart])
		shift := utf8.RuneCountInString(literal) - 1

		shiftedSubstitutions := make(map[int]any, len(substitutions)+1)
		for substitutionPosition, substitutionValue := range substitutions {
			if substitutionPosition > position {
				substitutionPosition += shift
			}
			shiftedSubstitutions[substitutionPosition] = substitutionValue
		}
		shiftedSubstitutions[position] = value
		substitutions = shiftedSubstitutions

		queryString = queryString[:placeholderStart] + literal + queryString[placeholderStart+1:]
	}

	return queryString, substitutions
}

// quoteLiteral renders the value as single-quoted string literal the lexer can read again.
func quoteLiteral(value any) string {
	text := fmt.Sprint(value)
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, `'`, `\'`)
	return "'" + text + "'"
}
