package style

import (
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/entities"
)

// Feature is what a filter is evaluated against.
type Feature interface {
	GeometryType() entities.GeometryType
	// Property reports false for missing keys and null values.
	Property(key string) (entities.Value, bool)
	HasProperty(key string) bool
}

// Filter is a parsed style filter. The set of filters is closed; Evaluate
// switches over all of them.
type Filter interface {
	filter()
}

type Eq struct {
	Key   Expression
	Value entities.Value
}

type Neq struct {
	Key   Expression
	Value entities.Value
}

type In struct {
	Key    Expression
	Values []entities.Value
}

type NotIn struct {
	Key    Expression
	Values []entities.Value
}

type Has struct {
	Key string
}

type NotHas struct {
	Key string
}

type All struct {
	Filters []Filter
}

type Any struct {
	Filters []Filter
}

type None struct {
	Filters []Filter
}

// Unknown stands for a filter that could not be parsed. It always evaluates
// to FilterUnknown.
type Unknown struct{}

func (Eq) filter()      {}
func (Neq) filter()     {}
func (In) filter()      {}
func (NotIn) filter()   {}
func (Has) filter()     {}
func (NotHas) filter()  {}
func (All) filter()     {}
func (Any) filter()     {}
func (None) filter()    {}
func (Unknown) filter() {}

type evaluation struct {
	feature  Feature
	zoom     uint8
	unknowns int
}

// Evaluate applies filter to feature at zoom using three-valued logic. A nil
// filter matches every feature.
func Evaluate(filter Filter, feature Feature, zoom uint8) entities.FilterResult {
	e := evaluation{feature: feature, zoom: zoom}
	return e.filter(filter)
}

func (e *evaluation) filter(filter Filter) entities.FilterResult {
	switch f := filter.(type) {
	case nil:
		return entities.FilterTrue
	case Eq:
		actual, ok := e.operand(f.Key)
		if !ok {
			return entities.FilterUnknown
		}
		return entities.FilterResultOf(actual.Equals(f.Value))
	case Neq:
		actual, ok := e.operand(f.Key)
		if !ok {
			return entities.FilterUnknown
		}
		return entities.FilterResultOf(!actual.Equals(f.Value))
	case In:
		actual, ok := e.operand(f.Key)
		if !ok {
			return entities.FilterUnknown
		}
		return entities.FilterResultOf(contains(f.Values, actual))
	case NotIn:
		actual, ok := e.operand(f.Key)
		if !ok {
			return entities.FilterUnknown
		}
		return entities.FilterResultOf(!contains(f.Values, actual))
	case Has:
		return entities.FilterResultOf(e.has(f.Key))
	case NotHas:
		return entities.FilterResultOf(!e.has(f.Key))
	case All:
		sawUnknown := false
		for _, sub := range f.Filters {
			switch e.filter(sub) {
			case entities.FilterFalse:
				return entities.FilterFalse
			case entities.FilterUnknown:
				sawUnknown = true
			}
		}
		if sawUnknown {
			return entities.FilterUnknown
		}
		return entities.FilterTrue
	case Any:
		return e.any(f.Filters)
	case None:
		sawUnknown := false
		for _, sub := range f.Filters {
			switch e.filter(sub) {
			case entities.FilterTrue:
				return entities.FilterFalse
			case entities.FilterUnknown:
				sawUnknown = true
			}
		}
		if sawUnknown {
			return entities.FilterUnknown
		}
		return entities.FilterTrue
	case Unknown:
		e.unknowns++
		return entities.FilterUnknown
	default:
		e.unknowns++
		return entities.FilterUnknown
	}
}

func (e *evaluation) any(filters []Filter) entities.FilterResult {
	sawUnknown := false
	for _, sub := range filters {
		switch e.filter(sub) {
		case entities.FilterTrue:
			return entities.FilterTrue
		case entities.FilterUnknown:
			sawUnknown = true
		}
	}
	if sawUnknown {
		return entities.FilterUnknown
	}
	return entities.FilterFalse
}

// operand resolves a predicate key, counting lookups that found nothing.
func (e *evaluation) operand(key Expression) (entities.Value, bool) {
	v, ok := e.value(key)
	if !ok {
		e.unknowns++
	}
	return v, ok
}

func contains(values []entities.Value, v entities.Value) bool {
	for _, candidate := range values {
		if v.Equals(candidate) {
			return true
		}
	}
	return false
}
