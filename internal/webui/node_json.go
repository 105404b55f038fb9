package webui

import "github.com/heap-browser/internal/browser"

// NodeJSON is the wire form of a presentation node. Labels are rendered to
// their default English strings; containers carry their ranges so clients
// can request expansion.
type NodeJSON struct {
	Kind     string    `json:"kind"`
	Name     string    `json:"name,omitempty"`
	Type     string    `json:"type,omitempty"`
	Value    string    `json:"value,omitempty"`
	Static   bool      `json:"static,omitempty"`
	ObjectID string    `json:"object_id,omitempty"`
	Index    int       `json:"index"`
	Label    string    `json:"label,omitempty"`
	Start    int       `json:"start,omitempty"`
	End      int       `json:"end,omitempty"`
	Count    int       `json:"count,omitempty"`
	Leaf     bool      `json:"leaf"`
	Inner    *NodeJSON `json:"inner,omitempty"`
}

var kindNames = map[browser.Kind]string{
	browser.KindObject:          "object",
	browser.KindObjectArray:     "object_array",
	browser.KindPrimitiveArray:  "primitive_array",
	browser.KindPrimitive:       "primitive",
	browser.KindDomainObject:    "domain_object",
	browser.KindContainer:       "container",
	browser.KindMoreItems:       "more_items",
	browser.KindMergedField:     "merged_field",
	browser.KindMergedReference: "merged_reference",
	browser.KindPlaceholder:     "placeholder",
}

func kindName(k browser.Kind) string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

func toNodeJSON(n *browser.Node) NodeJSON {
	j := NodeJSON{
		Kind:   kindName(n.Kind),
		Name:   n.Name,
		Type:   n.Type,
		Value:  n.Value,
		Static: n.Static,
		Index:  n.Index,
		Label:  browser.Format(n.Label),
		Start:  n.Start,
		End:    n.End,
		Count:  n.Count,
		Leaf:   n.Leaf(),
	}
	if n.Object != 0 {
		j.ObjectID = formatObjectID(n.Object)
	}
	if n.Inner != nil {
		inner := toNodeJSON(n.Inner)
		j.Inner = &inner
	}
	return j
}

func toNodeJSONs(nodes []*browser.Node) []NodeJSON {
	out := make([]NodeJSON, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		out = append(out, toNodeJSON(n))
	}
	return out
}
