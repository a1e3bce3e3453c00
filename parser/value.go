package parser

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"strconv"
	"strings"
)

const jsonValuePrefix = "json:"

// jsonValues keeps numbers as number literals so that integers don't end up as float64.
var jsonValues = jsoniter.Config{UseNumber: true}.Froze()

// prepareValue turns a value token into the value of the command. The rules are applied in this order:
//
//  1. A substituted positional parameter or a named parameter (looked up by the lexeme) replaces the token. Without
//     parameter, numbers become int64 or float64 and everything else stays a string.
//  2. The strings "true" and "false" become booleans.
//  3. Strings containing "json:" are decoded as JSON, everything after the first "json:" is the JSON document.
//
// Rules 2 and 3 also apply to string parameters.
func (p *Parser) prepareValue(token *Token, field string) (any, error) {
	var value any

	substitutedValue, isSubstituted := p.substitutions[token.startPosition]
	namedValue, isNamed := p.parameters.Named[token.lexeme]

	if isSubstituted && token.kind == TokenKindString {
		value = substitutedValue
	} else if isNamed {
		value = namedValue
	} else if token.kind == TokenKindNumber {
		value = parseNumber(token.lexeme)
	} else {
		value = token.lexeme
	}

	text, isText := value.(string)
	if !isText {
		return value, nil
	}

	switch text {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}

	if index := strings.Index(text, jsonValuePrefix); index >= 0 {
		decodedValue, err := decodeJson(text[index+len(jsonValuePrefix):])
		if err != nil {
			return nil, NewValueError(field, text, token.startPosition, err)
		}
		return decodedValue, nil
	}

	return text, nil
}

// parseNumber returns an int64 for integers and a float64 for everything else. Number tokens always have a valid
// number syntax, so only an overflow can lead to the lexeme being returned.
func parseNumber(lexeme string) any {
	if integer, err := strconv.ParseInt(lexeme, 10, 64); err == nil {
		return integer
	}
	if float, err := strconv.ParseFloat(lexeme, 64); err == nil {
		return float
	}
	return lexeme
}

func decodeJson(document string) (any, error) {
	var decodedValue any
	err := jsonValues.UnmarshalFromString(document, &decodedValue)
	if err != nil {
		return nil, errors.Wrap(err, "Error decoding JSON value")
	}
	return normalizeJsonNumbers(decodedValue), nil
}

type jsonNumber interface {
	Int64() (int64, error)
	Float64() (float64, error)
}

// normalizeJsonNumbers replaces all number literals within the decoded document by int64 or, if they aren't integers,
// float64 values.
func normalizeJsonNumbers(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, element := range v {
			v[key] = normalizeJsonNumbers(element)
		}
		return v
	case []any:
		for i, element := range v {
			v[i] = normalizeJsonNumbers(element)
		}
		return v
	case jsonNumber:
		if integer, err := v.Int64(); err == nil {
			return integer
		}
		if float, err := v.Float64(); err == nil {
			return float
		}
	}
	return value
}

// UnmarshalJSON decodes parameters like `{"positional": [1, "a"], "named": {"n": 2.5}}`. Numbers become int64 or
// float64 just like numbers within "json:" values.
func (p *Parameters) UnmarshalJSON(data []byte) error {
	var raw struct {
		Positional []any          `json:"positional"`
		Named      map[string]any `json:"named"`
	}
	err := jsonValues.Unmarshal(data, &raw)
	if err != nil {
		return errors.Wrap(err, "Error decoding parameters")
	}

	for i, value := range raw.Positional {
		raw.Positional[i] = normalizeJsonNumbers(value)
	}
	for name, value := range raw.Named {
		raw.Named[name] = normalizeJsonNumbers(value)
	}

	p.Positional = raw.Positional
	p.Named = raw.Named
	return nil
}

// toInteger accepts all integer types and floats without fraction.
func toInteger(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	}
	return 0, false
}
