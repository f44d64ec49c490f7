package style

import (
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/entities"
)

const (
	typeKey = "$type"
	zoomKey = "zoom"
)

// Expression produces a value from a feature. The set of expressions is closed.
type Expression interface {
	expression()
}

// Get looks up a feature property. "$type" resolves to the geometry class and
// "zoom" falls back to the current zoom when the feature has no such property.
type Get struct {
	Name string
}

// Literal is a constant. A Literal holding a null Value produces no value.
type Literal struct {
	Value entities.Value
}

// Zoom produces the zoom level the feature is evaluated at.
type Zoom struct{}

// Match returns the output of the first case with a label equal to the input,
// or Default when none matches.
type Match struct {
	Input   Expression
	Cases   []MatchCase
	Default Expression
}

type MatchCase struct {
	Labels []entities.Value
	Output Expression
}

// Case returns the output of the first branch whose condition is True, or
// Default when none is.
type Case struct {
	Branches []CaseBranch
	Default  Expression
}

type CaseBranch struct {
	Condition Filter
	Output    Expression
}

// Coalesce returns the first expression that produces a value.
type Coalesce struct {
	Expressions []Expression
}

func (Get) expression()      {}
func (Literal) expression()  {}
func (Zoom) expression()     {}
func (Match) expression()    {}
func (Case) expression()     {}
func (Coalesce) expression() {}

func (e *evaluation) value(expr Expression) (entities.Value, bool) {
	switch x := expr.(type) {
	case Get:
		return e.property(x.Name)
	case Literal:
		return x.Value, x.Value.Kind != entities.ValueNull
	case Zoom:
		return entities.NumberValue(float64(e.zoom)), true
	case Match:
		input, ok := e.value(x.Input)
		if !ok {
			return entities.Value{}, false
		}
		for _, c := range x.Cases {
			for _, label := range c.Labels {
				if input.Equals(label) {
					return e.value(c.Output)
				}
			}
		}
		return e.value(x.Default)
	case Case:
		for _, branch := range x.Branches {
			if e.filter(branch.Condition) == entities.FilterTrue {
				return e.value(branch.Output)
			}
		}
		return e.value(x.Default)
	case Coalesce:
		for _, sub := range x.Expressions {
			if v, ok := e.value(sub); ok {
				return v, true
			}
		}
		return entities.Value{}, false
	default:
		return entities.Value{}, false
	}
}

func (e *evaluation) property(name string) (entities.Value, bool) {
	if name == typeKey {
		return entities.StringValue(string(e.feature.GeometryType())), true
	}

	if v, ok := e.feature.Property(name); ok {
		return v, true
	}

	if name == zoomKey && !e.feature.HasProperty(name) {
		return entities.NumberValue(float64(e.zoom)), true
	}

	return entities.Value{}, false
}

func (e *evaluation) has(name string) bool {
	return name == typeKey || e.feature.HasProperty(name)
}
