package query

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"strings"
)

// Filter renders the predicates as a filter document. Equality predicates become "field: value" pairs, all other
// operators are collected in one operator document per field, e.g. {"age": {"$gt": 21, "$lt": 65}}. A later equality
// predicate on the same field replaces earlier ones and vice versa.
func (c *Command) Filter() bson.D {
	filter := bson.D{}

	for _, predicate := range c.predicates {
		index := indexOfKey(filter, predicate.Field)

		if predicate.Operator == OpEqual {
			filter = setKey(filter, predicate.Field, predicate.Value)
			continue
		}

		operatorDocument := bson.D{}
		if index >= 0 {
			if existing, ok := filter[index].Value.(bson.D); ok && isOperatorDocument(existing) {
				operatorDocument = existing
			}
		}
		operatorDocument = setKey(operatorDocument, predicate.Operator.MongoOperator(), predicate.Value)

		filter = setKey(filter, predicate.Field, operatorDocument)
	}

	return filter
}

// UpdateDocument renders the update operations grouped by their modifier, e.g. {"$set": {...}, "$inc": {...}}.
// Repeated INC operations on one field with numeric values are summed up, every other repetition replaces the earlier
// value of that field.
func (c *Command) UpdateDocument() bson.D {
	update := bson.D{}

	for _, operation := range c.updates {
		modifier, value := updateModifier(operation)

		modifierDocument := bson.D{}
		if index := indexOfKey(update, modifier); index >= 0 {
			modifierDocument = update[index].Value.(bson.D)
		}

		if operation.Kind == UpdateInc {
			if index := indexOfKey(modifierDocument, operation.Field); index >= 0 {
				if sum, ok := addNumbers(modifierDocument[index].Value, value); ok {
					value = sum
				}
			}
		}

		modifierDocument = setKey(modifierDocument, operation.Field, value)
		update = setKey(update, modifier, modifierDocument)
	}

	return update
}

func updateModifier(operation UpdateOperation) (string, any) {
	switch operation.Kind {
	case UpdateSet:
		return "$set", operation.Value
	case UpdateUnset:
		return "$unset", 1
	case UpdateInc:
		return "$inc", operation.Value
	case UpdatePush:
		return "$push", operation.Value
	case UpdatePushAll:
		return "$push", bson.D{{Key: "$each", Value: operation.Value}}
	case UpdatePull:
		return "$pull", operation.Value
	case UpdatePullAll:
		return "$pullAll", operation.Value
	case UpdateAddToSet:
		return "$addToSet", operation.Value
	case UpdateAddManyToSet:
		return "$addToSet", bson.D{{Key: "$each", Value: operation.Value}}
	case UpdatePopFirst:
		return "$pop", -1
	case UpdatePopLast:
		return "$pop", 1
	}
	return "$" + strings.ToLower(operation.Kind.String()), operation.Value
}

// Document renders the assignments of an INSERT command as the document to insert.
func (c *Command) Document() bson.D {
	document := bson.D{}
	for _, assignment := range c.assignments {
		document = setKey(document, assignment.Field, assignment.Value)
	}
	return document
}

func (c *Command) SortDocument() bson.D {
	sortDocument := bson.D{}
	for _, sortField := range c.sort {
		sortDocument = setKey(sortDocument, sortField.Field, int(sortField.Direction))
	}
	return sortDocument
}

// Projection returns nil when all fields are selected.
func (c *Command) Projection() bson.D {
	if len(c.fields) == 0 {
		return nil
	}
	projection := bson.D{}
	for _, field := range c.fields {
		projection = setKey(projection, field, 1)
	}
	return projection
}

// ExtendedJSON renders all documents relevant for the command type as relaxed extended JSON.
func (c *Command) ExtendedJSON() (string, error) {
	document := bson.D{
		{Key: "type", Value: c.commandType.String()},
		{Key: "collection", Value: c.collection},
	}

	switch c.commandType {
	case CommandFind:
		document = append(document, bson.E{Key: "filter", Value: c.Filter()})
		if projection := c.Projection(); projection != nil {
			document = append(document, bson.E{Key: "projection", Value: projection})
		}
		if len(c.sort) > 0 {
			document = append(document, bson.E{Key: "sort", Value: c.SortDocument()})
		}
		if limit, ok := c.GetLimit(); ok {
			document = append(document, bson.E{Key: "limit", Value: limit})
		}
		if skip, ok := c.GetSkip(); ok {
			document = append(document, bson.E{Key: "skip", Value: skip})
		}
		if mapFunction, ok := c.GetMap(); ok {
			document = append(document, bson.E{Key: "map", Value: mapFunction})
		}
		if reduceFunction, ok := c.GetReduce(); ok {
			document = append(document, bson.E{Key: "reduce", Value: reduceFunction})
		}
	case CommandInsert:
		document = append(document, bson.E{Key: "document", Value: c.Document()})
	case CommandUpdate:
		document = append(document, bson.E{Key: "filter", Value: c.Filter()}, bson.E{Key: "update", Value: c.UpdateDocument()})
	case CommandRemove:
		document = append(document, bson.E{Key: "filter", Value: c.Filter()})
	}

	extendedJson, err := bson.MarshalExtJSON(document, false, false)
	if err != nil {
		return "", errors.Wrapf(err, "Error rendering %s command on '%s' as extended JSON", c.commandType.String(), c.collection)
	}
	return string(extendedJson), nil
}

func indexOfKey(document bson.D, key string) int {
	for i, element := range document {
		if element.Key == key {
			return i
		}
	}
	return -1
}

// setKey replaces the value of an existing key or appends a new element.
func setKey(document bson.D, key string, value any) bson.D {
	if index := indexOfKey(document, key); index >= 0 {
		document[index].Value = value
		return document
	}
	return append(document, bson.E{Key: key, Value: value})
}

func isOperatorDocument(document bson.D) bool {
	for _, element := range document {
		if !strings.HasPrefix(element.Key, "$") {
			return false
		}
	}
	return len(document) > 0
}

// addNumbers returns the sum of two numbers. Integers stay integers (int64), as soon as one float is involved the
// result is a float64. The second return value is false if one of the values is not a number.
func addNumbers(a any, b any) (any, bool) {
	aInt, aIsInt := toInt64(a)
	bInt, bIsInt := toInt64(b)
	if aIsInt && bIsInt {
		return aInt + bInt, true
	}

	aFloat, aIsNumber := toFloat64(a)
	bFloat, bIsNumber := toFloat64(b)
	if aIsNumber && bIsNumber {
		return aFloat + bFloat, true
	}

	return nil, false
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

func toFloat64(value any) (float64, bool) {
	if i, ok := toInt64(value); ok {
		return float64(i), true
	}
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}
