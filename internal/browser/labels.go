package browser

import "fmt"

// LabelKind identifies a parameterized display label. The core never builds
// final UI strings for these; it emits the kind plus its parameters and the
// presentation layer formats them. Format below is the default English
// rendering used by the CLI and the JSON API.
type LabelKind int

const (
	// LabelNone means the node is labeled by its own name/value.
	LabelNone LabelKind = iota
	// LabelComputing is shown while child nodes are being computed.
	LabelComputing
	// LabelMoreItems is the trailing "another K items left" node.
	LabelMoreItems
	// LabelSamples marks a sampled subset of a large collection.
	LabelSamples
	// LabelContainer is a bucket covering items Start-End.
	LabelContainer
	// LabelNoFields marks an object without displayable fields.
	LabelNoFields
	// LabelNoItems marks an empty array.
	LabelNoItems
	// LabelNoReferences marks an object nothing refers to.
	LabelNoReferences
	// LabelOutOfMemory warns that reference aggregation hit its limit.
	LabelOutOfMemory
)

// Label carries a label kind and its parameters.
type Label struct {
	Kind    LabelKind
	Subject string // "fields", "references", "items"
	Count   int
	Start   int
	End     int
}

// Format renders the default English label.
func Format(l Label) string {
	switch l.Kind {
	case LabelComputing:
		return fmt.Sprintf("<computing %s...>", l.Subject)
	case LabelMoreItems:
		return fmt.Sprintf("<another %d %s left>", l.Count, l.Subject)
	case LabelSamples:
		return fmt.Sprintf("<sample %d %s>", l.Count, l.Subject)
	case LabelContainer:
		return fmt.Sprintf("<%s %d-%d>", l.Subject, l.Start, l.End)
	case LabelNoFields:
		return "<no fields>"
	case LabelNoItems:
		return "<no items>"
	case LabelNoReferences:
		return "<no references>"
	case LabelOutOfMemory:
		return "<too many references - increase the referer limit>"
	default:
		return ""
	}
}
