package query

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type predicateJson struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

type assignmentJson struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

type updateJson struct {
	Kind  string `json:"kind"`
	Field string `json:"field"`
	Value any    `json:"value,omitempty"`
}

type sortJson struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

type commandJson struct {
	Type        string           `json:"type"`
	Collection  string           `json:"collection"`
	Fields      []string         `json:"fields,omitempty"`
	Where       []predicateJson  `json:"where,omitempty"`
	Assignments []assignmentJson `json:"assignments,omitempty"`
	Updates     []updateJson     `json:"updates,omitempty"`
	Map         *string          `json:"map,omitempty"`
	Reduce      *string          `json:"reduce,omitempty"`
	Sort        []sortJson       `json:"sort,omitempty"`
	Limit       *int64           `json:"limit,omitempty"`
	Skip        *int64           `json:"skip,omitempty"`
}

func (c *Command) MarshalJSON() ([]byte, error) {
	dto := commandJson{
		Type:       c.commandType.String(),
		Collection: c.collection,
		Fields:     c.fields,
		Map:        c.mapFunction,
		Reduce:     c.reduceFunction,
		Limit:      c.limit,
		Skip:       c.skip,
	}

	for _, predicate := range c.predicates {
		dto.Where = append(dto.Where, predicateJson{Field: predicate.Field, Operator: predicate.Operator.String(), Value: predicate.Value})
	}
	for _, assignment := range c.assignments {
		dto.Assignments = append(dto.Assignments, assignmentJson{Field: assignment.Field, Value: assignment.Value})
	}
	for _, update := range c.updates {
		dto.Updates = append(dto.Updates, updateJson{Kind: update.Kind.String(), Field: update.Field, Value: update.Value})
	}
	for _, sortField := range c.sort {
		dto.Sort = append(dto.Sort, sortJson{Field: sortField.Field, Direction: sortField.Direction.String()})
	}

	return json.Marshal(dto)
}
