package query

import (
	"fmt"
	"strings"
)

type Operator int

const (
	OpInvalid Operator = iota
	OpEqual
	OpNotEqual
	OpGreater
	OpGreaterEqual
	OpLower
	OpLowerEqual
	OpIn
	OpNotIn
	OpAll
	OpSize
	OpExists
	OpType
)

// ParseOperator maps the spelling of an operator within a WHERE clause to the operator. Symbolic operators must match
// exactly, word operators like "notIn" are matched case-insensitively. OpInvalid is returned for everything else.
func ParseOperator(lexeme string) Operator {
	switch lexeme {
	case "=":
		return OpEqual
	case "!=":
		return OpNotEqual
	case ">":
		return OpGreater
	case ">=":
		return OpGreaterEqual
	case "<":
		return OpLower
	case "<=":
		return OpLowerEqual
	}

	switch strings.ToLower(lexeme) {
	case "in":
		return OpIn
	case "notin":
		return OpNotIn
	case "all":
		return OpAll
	case "size":
		return OpSize
	case "exists":
		return OpExists
	case "type":
		return OpType
	}

	return OpInvalid
}

func (o Operator) String() string {
	switch o {
	case OpEqual:
		return "="
	case OpNotEqual:
		return "!="
	case OpGreater:
		return ">"
	case OpGreaterEqual:
		return ">="
	case OpLower:
		return "<"
	case OpLowerEqual:
		return "<="
	case OpIn:
		return "in"
	case OpNotIn:
		return "notIn"
	case OpAll:
		return "all"
	case OpSize:
		return "size"
	case OpExists:
		return "exists"
	case OpType:
		return "type"
	}
	return fmt.Sprintf("[!UNKNOWN Operator %d]", o)
}

// MongoOperator returns the query operator used in filter documents, e.g. "$gte". OpEqual has no operator since
// equality is expressed by the plain "field: value" pair.
func (o Operator) MongoOperator() string {
	switch o {
	case OpNotEqual:
		return "$ne"
	case OpGreater:
		return "$gt"
	case OpGreaterEqual:
		return "$gte"
	case OpLower:
		return "$lt"
	case OpLowerEqual:
		return "$lte"
	case OpIn:
		return "$in"
	case OpNotIn:
		return "$nin"
	case OpAll:
		return "$all"
	case OpSize:
		return "$size"
	case OpExists:
		return "$exists"
	case OpType:
		return "$type"
	}
	return ""
}

type UpdateKind int

const (
	UpdateSet UpdateKind = iota
	UpdateUnset
	UpdateInc
	UpdatePush
	UpdatePushAll
	UpdatePull
	UpdatePullAll
	UpdateAddToSet
	UpdateAddManyToSet
	UpdatePopFirst
	UpdatePopLast
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateSet:
		return "SET"
	case UpdateUnset:
		return "UNSET"
	case UpdateInc:
		return "INC"
	case UpdatePush:
		return "PUSH"
	case UpdatePushAll:
		return "PUSHALL"
	case UpdatePull:
		return "PULL"
	case UpdatePullAll:
		return "PULLALL"
	case UpdateAddToSet:
		return "ADDTOSET"
	case UpdateAddManyToSet:
		return "ADDMANYTOSET"
	case UpdatePopFirst:
		return "POPFIRST"
	case UpdatePopLast:
		return "POPLAST"
	}
	return fmt.Sprintf("[!UNKNOWN UpdateKind %d]", k)
}

// HasValue is false for operations that only name a field (UNSET, POPFIRST, POPLAST).
func (k UpdateKind) HasValue() bool {
	return k != UpdateUnset && k != UpdatePopFirst && k != UpdatePopLast
}

type SortDirection int

const (
	SortAscending  SortDirection = 1
	SortDescending SortDirection = -1
)

func (d SortDirection) String() string {
	if d == SortDescending {
		return "desc"
	}
	return "asc"
}
