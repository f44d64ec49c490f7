package style

import (
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/entities"
)

// ParseFilter turns a decoded filter (legacy or expression syntax) into a
// Filter tree. Malformed input yields Unknown for the smallest enclosing
// filter; it never fails.
func ParseFilter(raw any) Filter {
	switch v := raw.(type) {
	case bool:
		if v {
			return All{}
		}
		return Any{}
	case []any:
		return parseFilterArray(v)
	default:
		return Unknown{}
	}
}

func parseFilterArray(array []any) Filter {
	if len(array) == 0 {
		return Unknown{}
	}

	op, ok := array[0].(string)
	if !ok {
		return Unknown{}
	}

	switch op {
	case "==", "!=":
		if len(array) < 3 {
			return Unknown{}
		}
		key, ok := parseKey(array[1])
		if !ok {
			return Unknown{}
		}
		value, ok := parseLiteral(array[2])
		if !ok {
			return Unknown{}
		}
		if op == "==" {
			return Eq{Key: key, Value: value}
		}
		return Neq{Key: key, Value: value}

	case "in", "!in":
		if len(array) < 3 {
			return Unknown{}
		}
		key, ok := parseKey(array[1])
		if !ok {
			return Unknown{}
		}
		values, ok := parseMembers(array[2:])
		if !ok {
			return Unknown{}
		}
		if op == "in" {
			return In{Key: key, Values: values}
		}
		return NotIn{Key: key, Values: values}

	case "has", "!has":
		if len(array) < 2 {
			return Unknown{}
		}
		key, ok := array[1].(string)
		if !ok {
			return Unknown{}
		}
		if op == "has" {
			return Has{Key: key}
		}
		return NotHas{Key: key}

	case "all", "any", "none":
		filters := make([]Filter, 0, len(array)-1)
		for _, item := range array[1:] {
			filters = append(filters, ParseFilter(item))
		}
		switch op {
		case "all":
			return All{Filters: filters}
		case "any":
			return Any{Filters: filters}
		default:
			return None{Filters: filters}
		}

	case "!":
		if len(array) != 2 {
			return Unknown{}
		}
		return None{Filters: []Filter{ParseFilter(array[1])}}

	case "get", "match", "case", "coalesce":
		expr, ok := parseExpression(array)
		if !ok {
			return Unknown{}
		}
		return Eq{Key: expr, Value: entities.BoolValue(true)}

	default:
		return Unknown{}
	}
}

// parseMembers accepts both ["in", key, v1, v2] and ["in", key, [v1, v2]].
func parseMembers(items []any) ([]entities.Value, bool) {
	if len(items) == 1 {
		if list, ok := unwrapLiteral(items[0]).([]any); ok {
			items = list
		}
	}

	values := make([]entities.Value, 0, len(items))
	for _, item := range items {
		value, ok := parseLiteral(item)
		if !ok {
			return nil, false
		}
		values = append(values, value)
	}
	return values, true
}

func unwrapLiteral(raw any) any {
	if array, ok := raw.([]any); ok && len(array) == 2 && array[0] == "literal" {
		return array[1]
	}
	return raw
}

// parseKey reads a predicate operand: a bare property name or a value expression.
func parseKey(raw any) (Expression, bool) {
	if name, ok := raw.(string); ok {
		return Get{Name: name}, true
	}
	return parseExpression(raw)
}

func parseLiteral(raw any) (entities.Value, bool) {
	switch raw.(type) {
	case string, float64, bool:
		return entities.ValueOf(raw)
	default:
		return entities.Value{}, false
	}
}

func parseExpression(raw any) (Expression, bool) {
	if raw == nil {
		return Literal{}, true
	}

	array, ok := raw.([]any)
	if !ok {
		value, ok := parseLiteral(raw)
		if !ok {
			return nil, false
		}
		return Literal{Value: value}, true
	}

	if len(array) == 0 {
		return nil, false
	}
	op, ok := array[0].(string)
	if !ok {
		return nil, false
	}

	switch op {
	case "get":
		if len(array) != 2 {
			return nil, false
		}
		name, ok := array[1].(string)
		if !ok {
			return nil, false
		}
		return Get{Name: name}, true

	case "literal":
		if len(array) != 2 {
			return nil, false
		}
		if array[1] == nil {
			return Literal{}, true
		}
		value, ok := parseLiteral(array[1])
		if !ok {
			return nil, false
		}
		return Literal{Value: value}, true

	case "zoom":
		if len(array) != 1 {
			return nil, false
		}
		return Zoom{}, true

	case "geometry-type":
		if len(array) != 1 {
			return nil, false
		}
		return Get{Name: typeKey}, true

	case "match":
		return parseMatch(array)

	case "case":
		return parseCase(array)

	case "coalesce":
		if len(array) < 2 {
			return nil, false
		}
		exprs := make([]Expression, 0, len(array)-1)
		for _, item := range array[1:] {
			expr, ok := parseExpression(item)
			if !ok {
				return nil, false
			}
			exprs = append(exprs, expr)
		}
		return Coalesce{Expressions: exprs}, true

	default:
		return nil, false
	}
}

// ["match", input, label1, output1, ..., default]
func parseMatch(array []any) (Expression, bool) {
	if len(array) < 5 || (len(array)-3)%2 != 0 {
		return nil, false
	}

	input, ok := parseExpression(array[1])
	if !ok {
		return nil, false
	}

	cases := make([]MatchCase, 0, (len(array)-3)/2)
	for i := 2; i < len(array)-1; i += 2 {
		labels, ok := parseLabels(array[i])
		if !ok {
			return nil, false
		}
		output, ok := parseExpression(array[i+1])
		if !ok {
			return nil, false
		}
		cases = append(cases, MatchCase{Labels: labels, Output: output})
	}

	def, ok := parseExpression(array[len(array)-1])
	if !ok {
		return nil, false
	}

	return Match{Input: input, Cases: cases, Default: def}, true
}

func parseLabels(raw any) ([]entities.Value, bool) {
	list, ok := raw.([]any)
	if !ok {
		value, ok := parseLiteral(raw)
		if !ok {
			return nil, false
		}
		return []entities.Value{value}, true
	}

	labels := make([]entities.Value, 0, len(list))
	for _, item := range list {
		value, ok := parseLiteral(item)
		if !ok {
			return nil, false
		}
		labels = append(labels, value)
	}
	return labels, true
}

// ["case", cond1, output1, ..., default]
func parseCase(array []any) (Expression, bool) {
	if len(array) < 4 || (len(array)-2)%2 != 0 {
		return nil, false
	}

	branches := make([]CaseBranch, 0, (len(array)-2)/2)
	for i := 1; i < len(array)-1; i += 2 {
		output, ok := parseExpression(array[i+1])
		if !ok {
			return nil, false
		}
		branches = append(branches, CaseBranch{
			Condition: ParseFilter(array[i]),
			Output:    output,
		})
	}

	def, ok := parseExpression(array[len(array)-1])
	if !ok {
		return nil, false
	}

	return Case{Branches: branches, Default: def}, true
}
