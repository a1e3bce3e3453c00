package parser

import (
	"docql/query"
	"docql/util"
	"github.com/hauke96/sigolo/v2"
	"slices"
	"strings"
)

const (
	expectedQueryStart      = "FIND, INSERT, UPDATE or REMOVE"
	expectedOperator        = "operator (=, !=, >=, <=, >, <, in, notIn, all, size, exists, type)"
	expectedValue           = "value (identifier, string or number)"
	expectedInteger         = "integer"
	expectedSortDirection   = "sort direction (asc or desc)"
	expectedEndOfString     = "end of string"
	expectedUpdateOperation = "update operation (SET, UNSET, INC, PUSH, PUSHALL, PULL, PULLALL, ADDTOSET, ADDMANYTOSET, POPFIRST, POPLAST)"
)

// Parameters holds the values for the placeholders of a query. Positional values replace "?" placeholders in their
// order, named values are looked up by the name of ":name" placeholders. One query must only use one of both styles.
type Parameters struct {
	Positional []any          `json:"positional,omitempty"`
	Named      map[string]any `json:"named,omitempty"`
}

// Parser is a recursive descent parser turning query strings into commands. The state only lives during one call of
// Parse, so a Parser can be reused but must not be used by multiple goroutines at the same time.
type Parser struct {
	lexer         *Lexer
	command       *query.Command
	parameters    Parameters
	substitutions map[int]any
}

func NewParser() *Parser {
	return &Parser{lexer: NewLexer()}
}

// ParseQueryString parses the query with a new parser.
func ParseQueryString(queryString string, parameters Parameters) (*query.Command, error) {
	return NewParser().Parse(queryString, parameters)
}

// Parse compiles the query string into a command. Errors are either a *PlaceholderConflictError, *LexicalError,
// *SyntaxError or *ValueError. There's no partial result in case of an error.
func (p *Parser) Parse(queryString string, parameters Parameters) (*query.Command, error) {
	sigolo.Debugf("Parse query: %s", queryString)

	if hasPlaceholderConflict(queryString) {
		return nil, NewPlaceholderConflictError()
	}

	p.parameters = parameters
	p.substitutions = nil
	p.command = nil
	defer func() {
		// The caller owns the command from now on
		p.command = nil
	}()

	if strings.Contains(queryString, "?") {
		queryString, p.substitutions = substitutePositional(queryString, parameters.Positional)
		sigolo.Debugf("Query after substituting %d positional parameters: %s", len(p.substitutions), queryString)
	}

	p.lexer.Reset()
	p.lexer.SetInput(queryString)

	command, err := p.parseQueryLanguage()
	if err != nil {
		return nil, err
	}

	command.Print(0)
	return command, nil
}

func (p *Parser) moveNext() error {
	_, err := p.lexer.MoveNext()
	if err != nil {
		return err
	}
	sigolo.Debugb(1, "Moved to next token: %+v", p.lexer.Lookahead())
	return nil
}

// match consumes the lookahead if it is of the given kind and returns a syntax error otherwise.
func (p *Parser) match(kind TokenKind) error {
	if !p.lexer.IsNextToken(kind) {
		return p.syntaxError(p.lexer.Literal(kind))
	}
	return p.moveNext()
}

func (p *Parser) syntaxError(expected string) *SyntaxError {
	return NewSyntaxError(expected, p.lexer.Lookahead())
}

func (p *Parser) lookaheadKind() TokenKind {
	if p.lexer.Lookahead() == nil {
		return TokenKindUnknown
	}
	return p.lexer.Lookahead().kind
}

// parseQueryLanguage handles: FindQuery | InsertQuery | UpdateQuery | RemoveQuery
func (p *Parser) parseQueryLanguage() (*query.Command, error) {
	err := p.moveNext()
	if err != nil {
		return nil, err
	}

	switch p.lookaheadKind() {
	case TokenKindFind:
		p.command = query.NewCommand(query.CommandFind)
		err = p.parseFindQuery()
	case TokenKindInsert:
		p.command = query.NewCommand(query.CommandInsert)
		err = p.parseInsertQuery()
	case TokenKindUpdate:
		p.command = query.NewCommand(query.CommandUpdate)
		err = p.parseUpdateQuery()
	case TokenKindRemove:
		p.command = query.NewCommand(query.CommandRemove)
		err = p.parseRemoveQuery()
	default:
		return nil, p.syntaxError(expectedQueryStart)
	}
	if err != nil {
		return nil, err
	}

	// Everything must be consumed, this also rejects repeated SORT, LIMIT or SKIP clauses.
	if p.lexer.Lookahead() != nil {
		return nil, p.syntaxError(expectedEndOfString)
	}

	return p.command, nil
}

// parseFindQuery handles: FindClause [WhereClause] [MapClause] [ReduceClause] {SortClause | LimitClause | SkipClause}
// Each of the last three clauses is allowed at most once but in any order.
func (p *Parser) parseFindQuery() error {
	err := p.parseFindClause()
	if err != nil {
		return err
	}

	if p.lexer.IsNextToken(TokenKindWhere) {
		err = p.parseWhereClause()
		if err != nil {
			return err
		}
	}

	if p.lexer.IsNextToken(TokenKindMap) {
		err = p.parseMapClause()
		if err != nil {
			return err
		}
	}

	if p.lexer.IsNextToken(TokenKindReduce) {
		err = p.parseReduceClause()
		if err != nil {
			return err
		}
	}

	pendingClauses := []TokenKind{TokenKindSort, TokenKindLimit, TokenKindSkip}
	for {
		index := slices.IndexFunc(pendingClauses, p.lexer.IsNextToken)
		if index < 0 {
			return nil
		}

		clause := pendingClauses[index]
		pendingClauses = slices.Delete(pendingClauses, index, index+1)

		err = p.match(clause)
		if err != nil {
			return err
		}

		switch clause {
		case TokenKindSort:
			err = p.parseSortClause()
		case TokenKindLimit:
			err = p.parseLimitClause()
		case TokenKindSkip:
			err = p.parseSkipClause()
		}
		if err != nil {
			return err
		}
	}
}

// parseFindClause handles: "FIND" ("*" | FieldPath {"," FieldPath}) IDENT
func (p *Parser) parseFindClause() error {
	err := p.match(TokenKindFind)
	if err != nil {
		return err
	}

	if p.lexer.IsNextToken(TokenKindFindAll) {
		err = p.match(TokenKindFindAll)
		if err != nil {
			return err
		}
	} else {
		err = p.parseSelectField()
		if err != nil {
			return err
		}

		for p.lexer.IsNextToken(TokenKindComma) {
			err = p.match(TokenKindComma)
			if err != nil {
				return err
			}

			err = p.parseSelectField()
			if err != nil {
				return err
			}
		}
	}

	return p.parseCollection()
}

func (p *Parser) parseSelectField() error {
	field, err := p.parseFieldPath()
	if err != nil {
		return err
	}
	p.command.AddSelect(field)
	return nil
}

func (p *Parser) parseCollection() error {
	err := p.match(TokenKindIdentifier)
	if err != nil {
		return err
	}
	p.command.SetCollection(p.lexer.Token().lexeme)
	return nil
}

// parseInsertQuery handles: "INSERT" IDENT "SET" Assignment {"," Assignment}
func (p *Parser) parseInsertQuery() error {
	err := p.match(TokenKindInsert)
	if err != nil {
		return err
	}

	err = p.parseCollection()
	if err != nil {
		return err
	}

	err = p.match(TokenKindSet)
	if err != nil {
		return err
	}

	for {
		field, value, err := p.parseAssignment()
		if err != nil {
			return err
		}
		p.command.Assign(field, value)

		if !p.lexer.IsNextToken(TokenKindComma) {
			return nil
		}
		err = p.match(TokenKindComma)
		if err != nil {
			return err
		}
	}
}

// parseUpdateQuery handles: "UPDATE" IDENT UpdateOp {"," UpdateOp} [WhereClause]
func (p *Parser) parseUpdateQuery() error {
	err := p.match(TokenKindUpdate)
	if err != nil {
		return err
	}

	err = p.parseCollection()
	if err != nil {
		return err
	}

	err = p.parseUpdateOperation()
	if err != nil {
		return err
	}

	for p.lexer.IsNextToken(TokenKindComma) {
		err = p.match(TokenKindComma)
		if err != nil {
			return err
		}

		err = p.parseUpdateOperation()
		if err != nil {
			return err
		}
	}

	if p.lexer.IsNextToken(TokenKindWhere) {
		return p.parseWhereClause()
	}

	return nil
}

// parseRemoveQuery handles: "REMOVE" IDENT [WhereClause]
func (p *Parser) parseRemoveQuery() error {
	err := p.match(TokenKindRemove)
	if err != nil {
		return err
	}

	err = p.parseCollection()
	if err != nil {
		return err
	}

	if p.lexer.IsNextToken(TokenKindWhere) {
		return p.parseWhereClause()
	}

	return nil
}

// parseUpdateOperation handles one operation, e.g. "SET a = 1" or "UNSET b".
func (p *Parser) parseUpdateOperation() error {
	kind := p.lookaheadKind()
	if !kind.IsUpdateKeyword() {
		return p.syntaxError(expectedUpdateOperation)
	}

	err := p.match(kind)
	if err != nil {
		return err
	}

	switch kind {
	case TokenKindSet:
		return p.parseValueUpdate(p.command.Set)
	case TokenKindUnset:
		return p.parseFieldUpdate(p.command.UnsetField)
	case TokenKindInc:
		return p.parseValueUpdate(p.command.Inc)
	case TokenKindPush:
		return p.parseValueUpdate(p.command.Push)
	case TokenKindPushAll:
		return p.parseValueUpdate(p.command.PushAll)
	case TokenKindPull:
		return p.parseValueUpdate(p.command.Pull)
	case TokenKindPullAll:
		return p.parseValueUpdate(p.command.PullAll)
	case TokenKindAddToSet:
		return p.parseValueUpdate(p.command.AddToSet)
	case TokenKindAddManyToSet:
		return p.parseValueUpdate(p.command.AddManyToSet)
	case TokenKindPopFirst:
		return p.parseFieldUpdate(p.command.PopFirst)
	case TokenKindPopLast:
		return p.parseFieldUpdate(p.command.PopLast)
	}

	util.LogFatalBug("Update keyword %s has no update operation", kind.String())
	return nil
}

// parseValueUpdate handles: FieldPath "=" Value
func (p *Parser) parseValueUpdate(addUpdate func(field string, value any)) error {
	field, value, err := p.parseAssignment()
	if err != nil {
		return err
	}
	addUpdate(field, value)
	return nil
}

// parseFieldUpdate handles operations without value: FieldPath
func (p *Parser) parseFieldUpdate(addUpdate func(field string)) error {
	field, err := p.parseFieldPath()
	if err != nil {
		return err
	}
	addUpdate(field)
	return nil
}

// parseAssignment handles: FieldPath "=" Value
func (p *Parser) parseAssignment() (string, any, error) {
	field, err := p.parseFieldPath()
	if err != nil {
		return "", nil, err
	}

	lookahead := p.lexer.Lookahead()
	if lookahead == nil || lookahead.kind != TokenKindOperator || lookahead.lexeme != "=" {
		return "", nil, p.syntaxError("'='")
	}
	err = p.match(TokenKindOperator)
	if err != nil {
		return "", nil, err
	}

	value, err := p.parseValue(field)
	if err != nil {
		return "", nil, err
	}

	return field, value, nil
}

// parseWhereClause handles: "WHERE" Predicate {"AND" Predicate}
func (p *Parser) parseWhereClause() error {
	err := p.match(TokenKindWhere)
	if err != nil {
		return err
	}

	err = p.parsePredicate()
	if err != nil {
		return err
	}

	for p.lexer.IsNextToken(TokenKindAnd) {
		err = p.match(TokenKindAnd)
		if err != nil {
			return err
		}

		err = p.parsePredicate()
		if err != nil {
			return err
		}
	}

	return nil
}

// parsePredicate handles: FieldPath Operator Value
func (p *Parser) parsePredicate() error {
	field, err := p.parseFieldPath()
	if err != nil {
		return err
	}

	operator, err := p.parseOperator()
	if err != nil {
		return err
	}

	value, err := p.parseValue(field)
	if err != nil {
		return err
	}

	switch operator {
	case query.OpEqual:
		p.command.WhereEqual(field, value)
	case query.OpNotEqual:
		p.command.WhereNotEqual(field, value)
	case query.OpGreater:
		p.command.WhereGreater(field, value)
	case query.OpGreaterEqual:
		p.command.WhereGreaterEqual(field, value)
	case query.OpLower:
		p.command.WhereLower(field, value)
	case query.OpLowerEqual:
		p.command.WhereLowerEqual(field, value)
	case query.OpIn:
		p.command.WhereIn(field, value)
	case query.OpNotIn:
		p.command.WhereNotIn(field, value)
	case query.OpAll:
		p.command.WhereAll(field, value)
	case query.OpSize:
		p.command.WhereSize(field, value)
	case query.OpExists:
		p.command.WhereExists(field, value)
	case query.OpType:
		p.command.WhereType(field, value)
	default:
		util.LogFatalBug("Operator %s has no where clause", operator.String())
	}

	return nil
}

// parseOperator handles the symbolic operators like ">=" as well as the word operators like "notIn".
func (p *Parser) parseOperator() (query.Operator, error) {
	lookahead := p.lexer.Lookahead()
	if lookahead == nil || (lookahead.kind != TokenKindOperator && lookahead.kind != TokenKindIdentifier) {
		return query.OpInvalid, p.syntaxError(expectedOperator)
	}

	operator := query.ParseOperator(lookahead.lexeme)
	if operator == query.OpInvalid {
		return query.OpInvalid, p.syntaxError(expectedOperator)
	}

	return operator, p.match(lookahead.kind)
}

// parseValue consumes an identifier, string or number and returns its prepared value.
func (p *Parser) parseValue(field string) (any, error) {
	kind := p.lookaheadKind()
	if kind != TokenKindIdentifier && kind != TokenKindString && kind != TokenKindNumber {
		return nil, p.syntaxError(expectedValue)
	}

	err := p.match(kind)
	if err != nil {
		return nil, err
	}

	return p.prepareValue(p.lexer.Token(), field)
}

// parseFieldPath handles: IDENT {"." IDENT}
// Segments after the first one may also be array indices like in "tags.0".
func (p *Parser) parseFieldPath() (string, error) {
	err := p.match(TokenKindIdentifier)
	if err != nil {
		return "", err
	}
	segments := []string{p.lexer.Token().lexeme}

	for p.lexer.IsNextToken(TokenKindDot) {
		err = p.match(TokenKindDot)
		if err != nil {
			return "", err
		}

		if p.lexer.IsNextToken(TokenKindNumber) && !strings.HasPrefix(p.lexer.Lookahead().lexeme, "-") {
			err = p.match(TokenKindNumber)
		} else {
			err = p.match(TokenKindIdentifier)
		}
		if err != nil {
			return "", err
		}

		segments = append(segments, p.lexer.Token().lexeme)
	}

	return strings.Join(segments, "."), nil
}

// parseMapClause handles: "MAP" STR
func (p *Parser) parseMapClause() error {
	err := p.match(TokenKindMap)
	if err != nil {
		return err
	}

	err = p.match(TokenKindString)
	if err != nil {
		return err
	}

	p.command.Map(p.lexer.Token().lexeme)
	return nil
}

// parseReduceClause handles: "REDUCE" STR
func (p *Parser) parseReduceClause() error {
	err := p.match(TokenKindReduce)
	if err != nil {
		return err
	}

	err = p.match(TokenKindString)
	if err != nil {
		return err
	}

	p.command.Reduce(p.lexer.Token().lexeme)
	return nil
}

// parseSortClause handles: SortField {"," SortField}
// The SORT keyword has already been consumed.
func (p *Parser) parseSortClause() error {
	err := p.parseSortField()
	if err != nil {
		return err
	}

	for p.lexer.IsNextToken(TokenKindComma) {
		err = p.match(TokenKindComma)
		if err != nil {
			return err
		}

		err = p.parseSortField()
		if err != nil {
			return err
		}
	}

	return nil
}

// parseSortField handles: FieldPath ("asc" | "desc")
func (p *Parser) parseSortField() error {
	field, err := p.parseFieldPath()
	if err != nil {
		return err
	}

	if !p.lexer.IsNextToken(TokenKindIdentifier) {
		return p.syntaxError(expectedSortDirection)
	}

	var direction query.SortDirection
	switch strings.ToLower(p.lexer.Lookahead().lexeme) {
	case "asc":
		direction = query.SortAscending
	case "desc":
		direction = query.SortDescending
	default:
		return p.syntaxError(expectedSortDirection)
	}

	err = p.match(TokenKindIdentifier)
	if err != nil {
		return err
	}

	p.command.AddSort(field, direction)
	return nil
}

// parseLimitClause handles the integer after the already consumed LIMIT keyword.
func (p *Parser) parseLimitClause() error {
	limit, err := p.parseInteger("LIMIT")
	if err != nil {
		return err
	}
	p.command.Limit(limit)
	return nil
}

// parseSkipClause handles the integer after the already consumed SKIP keyword.
func (p *Parser) parseSkipClause() error {
	skip, err := p.parseInteger("SKIP")
	if err != nil {
		return err
	}
	p.command.Skip(skip)
	return nil
}

// parseInteger accepts a number, a named placeholder or a substituted positional placeholder. Each must result in an
// integer value.
func (p *Parser) parseInteger(clause string) (int64, error) {
	lookahead := p.lexer.Lookahead()
	if lookahead == nil || !(lookahead.kind == TokenKindNumber || lookahead.kind == TokenKindIdentifier || p.isSubstitution(lookahead)) {
		return 0, p.syntaxError(expectedInteger)
	}

	err := p.match(lookahead.kind)
	if err != nil {
		return 0, err
	}

	value, err := p.prepareValue(lookahead, clause)
	if err != nil {
		return 0, err
	}

	integer, isInteger := toInteger(value)
	if !isInteger {
		return 0, NewSyntaxError(expectedInteger, lookahead)
	}

	return integer, nil
}

// isSubstitution is true for string literals inserted in place of a positional placeholder.
func (p *Parser) isSubstitution(token *Token) bool {
	if token.kind != TokenKindString {
		return false
	}
	_, ok := p.substitutions[token.startPosition]
	return ok
}
