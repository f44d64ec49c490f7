package entities

// FilterResult is the outcome of evaluating a style filter against a feature.
// Unknown means a property the filter depends on was not present.
type FilterResult uint8

const (
	FilterFalse FilterResult = iota
	FilterTrue
	FilterUnknown
)

func FilterResultOf(b bool) FilterResult {
	if b {
		return FilterTrue
	}
	return FilterFalse
}

func (r FilterResult) String() string {
	switch r {
	case FilterTrue:
		return "true"
	case FilterFalse:
		return "false"
	default:
		return "unknown"
	}
}
