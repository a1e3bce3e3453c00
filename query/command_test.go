package query

import (
	"docql/util"
	"github.com/hauke96/sigolo/v2"
	"testing"
)

func TestOperator_parseOperator(t *testing.T) {
	util.AssertEqual(t, OpEqual, ParseOperator("="))
	util.AssertEqual(t, OpNotEqual, ParseOperator("!="))
	util.AssertEqual(t, OpGreaterEqual, ParseOperator(">="))
	util.AssertEqual(t, OpLower, ParseOperator("<"))
	util.AssertEqual(t, OpIn, ParseOperator("IN"))
	util.AssertEqual(t, OpNotIn, ParseOperator("notIn"))
	util.AssertEqual(t, OpNotIn, ParseOperator("NOTIN"))
	util.AssertEqual(t, OpAll, ParseOperator("all"))
	util.AssertEqual(t, OpSize, ParseOperator("Size"))
	util.AssertEqual(t, OpExists, ParseOperator("exists"))
	util.AssertEqual(t, OpType, ParseOperator("type"))
	util.AssertEqual(t, OpInvalid, ParseOperator("like"))
	util.AssertEqual(t, OpInvalid, ParseOperator("=="))
}

func TestOperator_mongoOperator(t *testing.T) {
	util.AssertEqual(t, "", OpEqual.MongoOperator())
	util.AssertEqual(t, "$ne", OpNotEqual.MongoOperator())
	util.AssertEqual(t, "$lte", OpLowerEqual.MongoOperator())
	util.AssertEqual(t, "$nin", OpNotIn.MongoOperator())
	util.AssertEqual(t, "$type", OpType.MongoOperator())
}

func TestUpdateKind_hasValue(t *testing.T) {
	util.AssertTrue(t, UpdateSet.HasValue())
	util.AssertTrue(t, UpdateAddManyToSet.HasValue())
	util.AssertFalse(t, UpdateUnset.HasValue())
	util.AssertFalse(t, UpdatePopFirst.HasValue())
	util.AssertFalse(t, UpdatePopLast.HasValue())
}

func TestCommand_builderKeepsOrder(t *testing.T) {
	// Arrange
	command := NewCommand(CommandFind)

	// Act
	command.SetCollection("User")
	command.AddSelect("name")
	command.AddSelect("address.city")
	command.WhereGreater("age", int64(21))
	command.WhereExists("email", true)
	command.WhereEqual("active", true)
	command.AddSort("name", SortAscending)
	command.AddSort("age", SortDescending)
	command.Limit(10)

	// Assert
	util.AssertEqual(t, CommandFind, command.GetType())
	util.AssertEqual(t, "User", command.GetCollection())
	util.AssertEqual(t, []string{"name", "address.city"}, command.GetFields())
	util.AssertEqual(t, []Predicate{
		{Field: "age", Operator: OpGreater, Value: int64(21)},
		{Field: "email", Operator: OpExists, Value: true},
		{Field: "active", Operator: OpEqual, Value: true},
	}, command.GetPredicates())
	util.AssertEqual(t, []SortField{
		{Field: "name", Direction: SortAscending},
		{Field: "age", Direction: SortDescending},
	}, command.GetSort())

	limit, hasLimit := command.GetLimit()
	util.AssertTrue(t, hasLimit)
	util.AssertEqual(t, int64(10), limit)

	_, hasSkip := command.GetSkip()
	util.AssertFalse(t, hasSkip)
	_, hasMap := command.GetMap()
	util.AssertFalse(t, hasMap)
}

func TestCommand_updatesWithoutValue(t *testing.T) {
	// Arrange
	command := NewCommand(CommandUpdate)

	// Act
	command.UnsetField("tmp")
	command.PopFirst("queue")
	command.PopLast("stack")

	// Assert
	util.AssertEqual(t, []UpdateOperation{
		{Kind: UpdateUnset, Field: "tmp"},
		{Kind: UpdatePopFirst, Field: "queue"},
		{Kind: UpdatePopLast, Field: "stack"},
	}, command.GetUpdates())
}

func TestCommand_string_update(t *testing.T) {
	// Arrange
	sigolo.SetDefaultLogLevel(sigolo.LOG_TRACE)
	command := NewCommand(CommandUpdate)
	command.SetCollection("User")
	command.Set("name", "Jon")
	command.UnsetField("tmp")
	command.Inc("visits", int64(1))
	command.WhereEqual("_id", int64(7))
	command.WhereGreater("age", 21)

	// Act
	output := command.String()
	command.Print(0)

	// Assert
	util.AssertEqual(t, `Command UPDATE on 'User'
  update: SET name = "Jon"
  update: UNSET tmp
  update: INC visits = 1 (int64)
  where: _id = 7 (int64)
  where: age > 21 (int)`, output)
}

func TestCommand_string_find(t *testing.T) {
	// Arrange
	command := NewCommand(CommandFind)
	command.SetCollection("C")
	command.WhereIn("tags", []any{"a", "b"})
	command.WhereEqual("deleted", nil)
	command.Map("m")
	command.Reduce("r")
	command.AddSort("a", SortDescending)
	command.Limit(3)
	command.Skip(1)

	// Act
	output := command.String()

	// Assert
	util.AssertEqual(t, `Command FIND on 'C'
  fields: *
  where: tags in [a b] ([]interface {})
  where: deleted = null
  map: m
  reduce: r
  sort: a desc
  limit: 3
  skip: 1`, output)
}

func TestCommand_string_insert(t *testing.T) {
	// Arrange
	command := NewCommand(CommandInsert)
	command.SetCollection("User")
	command.Assign("name", "Jon")
	command.Assign("age", 4.5)

	// Act
	output := command.String()

	// Assert
	util.AssertEqual(t, `Command INSERT on 'User'
  assign: name = "Jon"
  assign: age = 4.5 (float64)`, output)
}
