package parser

import (
	"fmt"
	"strings"
)

type TokenKind int

const (
	TokenKindUnknown TokenKind = iota

	// Keywords
	TokenKindFind
	TokenKindInsert
	TokenKindUpdate
	TokenKindRemove
	TokenKindWhere
	TokenKindAnd
	TokenKindSet
	TokenKindUnset
	TokenKindInc
	TokenKindPush
	TokenKindPushAll
	TokenKindPull
	TokenKindPullAll
	TokenKindAddToSet
	TokenKindAddManyToSet
	TokenKindPopFirst
	TokenKindPopLast
	TokenKindMap
	TokenKindReduce
	TokenKindSort
	TokenKindLimit
	TokenKindSkip
	TokenKindFindAll

	TokenKindIdentifier
	TokenKindString
	TokenKindNumber
	TokenKindComma
	TokenKindDot
	TokenKindOperator
)

// keywords maps the upper case spelling of each keyword to its kind. The "*" of "FIND *" is no word and therefore
// handled by the lexer directly.
var keywords = map[string]TokenKind{
	"FIND":         TokenKindFind,
	"INSERT":       TokenKindInsert,
	"UPDATE":       TokenKindUpdate,
	"REMOVE":       TokenKindRemove,
	"WHERE":        TokenKindWhere,
	"AND":          TokenKindAnd,
	"SET":          TokenKindSet,
	"UNSET":        TokenKindUnset,
	"INC":          TokenKindInc,
	"PUSH":         TokenKindPush,
	"PUSHALL":      TokenKindPushAll,
	"PULL":         TokenKindPull,
	"PULLALL":      TokenKindPullAll,
	"ADDTOSET":     TokenKindAddToSet,
	"ADDMANYTOSET": TokenKindAddManyToSet,
	"POPFIRST":     TokenKindPopFirst,
	"POPLAST":      TokenKindPopLast,
	"MAP":          TokenKindMap,
	"REDUCE":       TokenKindReduce,
	"SORT":         TokenKindSort,
	"LIMIT":        TokenKindLimit,
	"SKIP":         TokenKindSkip,
}

func keywordKind(word string) (TokenKind, bool) {
	kind, ok := keywords[strings.ToUpper(word)]
	return kind, ok
}

func (k TokenKind) IsKeyword() bool {
	return k >= TokenKindFind && k <= TokenKindFindAll
}

// IsUpdateKeyword is true for the keywords starting an update operation, e.g. SET or POPLAST.
func (k TokenKind) IsUpdateKeyword() bool {
	return k >= TokenKindSet && k <= TokenKindPopLast
}

func (k TokenKind) String() string {
	switch k {
	case TokenKindUnknown:
		return "TokenKindUnknown"
	case TokenKindFindAll:
		return "TokenKindFindAll"
	case TokenKindIdentifier:
		return "TokenKindIdentifier"
	case TokenKindString:
		return "TokenKindString"
	case TokenKindNumber:
		return "TokenKindNumber"
	case TokenKindComma:
		return "TokenKindComma"
	case TokenKindDot:
		return "TokenKindDot"
	case TokenKindOperator:
		return "TokenKindOperator"
	}
	if k.IsKeyword() {
		return "TokenKindKeyword(" + k.Lexeme() + ")"
	}
	return fmt.Sprintf("!! INVALID TOKEN KIND %d !!", int(k))
}

// Lexeme returns the human-readable representation used in error messages. Keywords are represented by their keyword.
func (k TokenKind) Lexeme() string {
	switch k {
	case TokenKindUnknown:
		return "UNKNOWN"
	case TokenKindFindAll:
		return "*"
	case TokenKindIdentifier:
		return "identifier"
	case TokenKindString:
		return "string"
	case TokenKindNumber:
		return "number"
	case TokenKindComma:
		return "','"
	case TokenKindDot:
		return "'.'"
	case TokenKindOperator:
		return "operator"
	case TokenKindFind:
		return "FIND"
	case TokenKindInsert:
		return "INSERT"
	case TokenKindUpdate:
		return "UPDATE"
	case TokenKindRemove:
		return "REMOVE"
	case TokenKindWhere:
		return "WHERE"
	case TokenKindAnd:
		return "AND"
	case TokenKindSet:
		return "SET"
	case TokenKindUnset:
		return "UNSET"
	case TokenKindInc:
		return "INC"
	case TokenKindPush:
		return "PUSH"
	case TokenKindPushAll:
		return "PUSHALL"
	case TokenKindPull:
		return "PULL"
	case TokenKindPullAll:
		return "PULLALL"
	case TokenKindAddToSet:
		return "ADDTOSET"
	case TokenKindAddManyToSet:
		return "ADDMANYTOSET"
	case TokenKindPopFirst:
		return "POPFIRST"
	case TokenKindPopLast:
		return "POPLAST"
	case TokenKindMap:
		return "MAP"
	case TokenKindReduce:
		return "REDUCE"
	case TokenKindSort:
		return "SORT"
	case TokenKindLimit:
		return "LIMIT"
	case TokenKindSkip:
		return "SKIP"
	}
	return fmt.Sprintf("!! INVALID TOKEN KIND %d !!", int(k))
}

type Token struct {
	kind          TokenKind
	lexeme        string
	startPosition int
}

func (t *Token) Kind() TokenKind {
	return t.kind
}

func (t *Token) Lexeme() string {
	return t.lexeme
}

func (t *Token) StartPosition() int {
	return t.startPosition
}
