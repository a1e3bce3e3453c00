package query

import (
	"fmt"
	"github.com/hauke96/sigolo/v2"
	"strings"
)

// Print writes the command tree to the debug log.
func (c *Command) Print(indent int) {
	for _, line := range c.describe(indent) {
		sigolo.Debugf("%s", line)
	}
}

// String returns the same tree Print logs, one line per element.
func (c *Command) String() string {
	return strings.Join(c.describe(0), "\n")
}

func (c *Command) describe(indent int) []string {
	lines := []string{fmt.Sprintf("%sCommand %s on '%s'", spacing(indent), strings.ToUpper(c.commandType.String()), c.collection)}
	indent += 2

	if c.commandType == CommandFind {
		if len(c.fields) == 0 {
			lines = append(lines, fmt.Sprintf("%sfields: *", spacing(indent)))
		} else {
			lines = append(lines, fmt.Sprintf("%sfields: %s", spacing(indent), strings.Join(c.fields, ", ")))
		}
	}

	for _, assignment := range c.assignments {
		lines = append(lines, fmt.Sprintf("%sassign: %s = %s", spacing(indent), assignment.Field, formatValue(assignment.Value)))
	}

	for _, update := range c.updates {
		if update.Kind.HasValue() {
			lines = append(lines, fmt.Sprintf("%supdate: %s %s = %s", spacing(indent), update.Kind.String(), update.Field, formatValue(update.Value)))
		} else {
			lines = append(lines, fmt.Sprintf("%supdate: %s %s", spacing(indent), update.Kind.String(), update.Field))
		}
	}

	for _, predicate := range c.predicates {
		lines = append(lines, fmt.Sprintf("%swhere: %s %s %s", spacing(indent), predicate.Field, predicate.Operator.String(), formatValue(predicate.Value)))
	}

	if mapFunction, ok := c.GetMap(); ok {
		lines = append(lines, fmt.Sprintf("%smap: %s", spacing(indent), mapFunction))
	}
	if reduceFunction, ok := c.GetReduce(); ok {
		lines = append(lines, fmt.Sprintf("%sreduce: %s", spacing(indent), reduceFunction))
	}

	for _, sortField := range c.sort {
		lines = append(lines, fmt.Sprintf("%ssort: %s %s", spacing(indent), sortField.Field, sortField.Direction.String()))
	}

	if limit, ok := c.GetLimit(); ok {
		lines = append(lines, fmt.Sprintf("%slimit: %d", spacing(indent), limit))
	}
	if skip, ok := c.GetSkip(); ok {
		lines = append(lines, fmt.Sprintf("%sskip: %d", spacing(indent), skip))
	}

	return lines
}

// formatValue renders values with their Go type so that "1" and 1 can be told apart in the output.
func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case nil:
		return "null"
	}
	return fmt.Sprintf("%v (%T)", value, value)
}

func spacing(indent int) string {
	return strings.Repeat(" ", indent)
}
