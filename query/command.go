package query

import (
	"fmt"
)

type CommandType int

const (
	CommandFind CommandType = iota
	CommandInsert
	CommandUpdate
	CommandRemove
)

func (t CommandType) String() string {
	switch t {
	case CommandFind:
		return "find"
	case CommandInsert:
		return "insert"
	case CommandUpdate:
		return "update"
	case CommandRemove:
		return "remove"
	}
	return fmt.Sprintf("[!UNKNOWN CommandType %d]", t)
}

// Predicate is one filter condition of a WHERE clause. All predicates of a command are AND-combined.
type Predicate struct {
	Field    string
	Operator Operator
	Value    any
}

// Assignment is a field value pair of an INSERT command.
type Assignment struct {
	Field string
	Value any
}

// UpdateOperation is one field level modification of an UPDATE command. Value is nil for kinds without value (see
// UpdateKind.HasValue).
type UpdateOperation struct {
	Kind  UpdateKind
	Field string
	Value any
}

type SortField struct {
	Field     string
	Direction SortDirection
}

// Command is the compiled form of one query string. The parser is the only writer, everyone else should only use the
// getters.
type Command struct {
	commandType CommandType
	collection  string

	// Find
	fields         []string
	mapFunction    *string
	reduceFunction *string
	sort           []SortField
	limit          *int64
	skip           *int64

	// Find, Update and Remove
	predicates []Predicate

	// Insert
	assignments []Assignment

	// Update
	updates []UpdateOperation
}

func NewCommand(commandType CommandType) *Command {
	return &Command{commandType: commandType}
}

func (c *Command) SetCollection(collection string) {
	c.collection = collection
}

func (c *Command) AddSelect(field string) {
	c.fields = append(c.fields, field)
}

func (c *Command) addPredicate(field string, operator Operator, value any) {
	c.predicates = append(c.predicates, Predicate{Field: field, Operator: operator, Value: value})
}

func (c *Command) WhereEqual(field string, value any) { c.addPredicate(field, OpEqual, value) }

func (c *Command) WhereNotEqual(field string, value any) { c.addPredicate(field, OpNotEqual, value) }

func (c *Command) WhereGreater(field string, value any) { c.addPredicate(field, OpGreater, value) }

func (c *Command) WhereGreaterEqual(field string, value any) { c.addPredicate(field, OpGreaterEqual, value) }

func (c *Command) WhereLower(field string, value any) { c.addPredicate(field, OpLower, value) }

func (c *Command) WhereLowerEqual(field string, value any) { c.addPredicate(field, OpLowerEqual, value) }

func (c *Command) WhereIn(field string, value any) { c.addPredicate(field, OpIn, value) }

func (c *Command) WhereNotIn(field string, value any) { c.addPredicate(field, OpNotIn, value) }

func (c *Command) WhereAll(field string, value any) { c.addPredicate(field, OpAll, value) }

func (c *Command) WhereSize(field string, value any) { c.addPredicate(field, OpSize, value) }

func (c *Command) WhereExists(field string, value any) { c.addPredicate(field, OpExists, value) }

func (c *Command) WhereType(field string, value any) { c.addPredicate(field, OpType, value) }

// Assign adds a field of the document created by an INSERT command.
func (c *Command) Assign(field string, value any) {
	c.assignments = append(c.assignments, Assignment{Field: field, Value: value})
}

func (c *Command) addUpdate(kind UpdateKind, field string, value any) {
	c.updates = append(c.updates, UpdateOperation{Kind: kind, Field: field, Value: value})
}

func (c *Command) Set(field string, value any) { c.addUpdate(UpdateSet, field, value) }

func (c *Command) UnsetField(field string) { c.addUpdate(UpdateUnset, field, nil) }

func (c *Command) Inc(field string, value any) { c.addUpdate(UpdateInc, field, value) }

func (c *Command) Push(field string, value any) { c.addUpdate(UpdatePush, field, value) }

func (c *Command) PushAll(field string, value any) { c.addUpdate(UpdatePushAll, field, value) }

func (c *Command) Pull(field string, value any) { c.addUpdate(UpdatePull, field, value) }

func (c *Command) PullAll(field string, value any) { c.addUpdate(UpdatePullAll, field, value) }

func (c *Command) AddToSet(field string, value any) { c.addUpdate(UpdateAddToSet, field, value) }

func (c *Command) AddManyToSet(field string, value any) { c.addUpdate(UpdateAddManyToSet, field, value) }

func (c *Command) PopFirst(field string) { c.addUpdate(UpdatePopFirst, field, nil) }

func (c *Command) PopLast(field string) { c.addUpdate(UpdatePopLast, field, nil) }

func (c *Command) Map(function string) {
	c.mapFunction = &function
}

func (c *Command) Reduce(function string) {
	c.reduceFunction = &function
}

func (c *Command) AddSort(field string, direction SortDirection) {
	c.sort = append(c.sort, SortField{Field: field, Direction: direction})
}

func (c *Command) Limit(limit int64) {
	c.limit = &limit
}

func (c *Command) Skip(skip int64) {
	c.skip = &skip
}

func (c *Command) GetType() CommandType {
	return c.commandType
}

func (c *Command) GetCollection() string {
	return c.collection
}

// GetFields returns the selected fields of a FIND command. An empty list means all fields.
func (c *Command) GetFields() []string {
	return c.fields
}

func (c *Command) GetPredicates() []Predicate {
	return c.predicates
}

func (c *Command) GetAssignments() []Assignment {
	return c.assignments
}

func (c *Command) GetUpdates() []UpdateOperation {
	return c.updates
}

func (c *Command) GetSort() []SortField {
	return c.sort
}

func (c *Command) GetMap() (string, bool) {
	if c.mapFunction == nil {
		return "", false
	}
	return *c.mapFunction, true
}

func (c *Command) GetReduce() (string, bool) {
	if c.reduceFunction == nil {
		return "", false
	}
	return *c.reduceFunction, true
}

func (c *Command) GetLimit() (int64, bool) {
	if c.limit == nil {
		return 0, false
	}
	return *c.limit, true
}

func (c *Command) GetSkip() (int64, bool) {
	if c.skip == nil {
		return 0, false
	}
	return *c.skip, true
}
