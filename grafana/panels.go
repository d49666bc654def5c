package grafana

import "strings"

// NumberedPanel pairs a panel with its 1-based ordinal in flattened
// traversal order (rows in definition order, panels within a row in
// definition order; the counter never resets at row boundaries).
type NumberedPanel struct {
	Ordinal int
	Panel   Panel
}

// Flatten numbers every panel in the definition in traversal order.
func Flatten(def *Definition) []NumberedPanel {
	var out []NumberedPanel
	n := 0
	for _, row := range def.Rows {
		for _, p := range row.Panels {
			n++
			out = append(out, NumberedPanel{Ordinal: n, Panel: p})
		}
	}
	return out
}

// Select filters the flattened panel sequence against a selector. An empty
// result is not an error; it just means zero deliveries.
func Select(def *Definition, sel Selector) []NumberedPanel {
	all := Flatten(def)
	switch sel.Kind {
	case SelectorByOrdinal:
		for _, np := range all {
			if np.Ordinal == sel.Ordinal {
				return []NumberedPanel{np}
			}
		}
		return nil
	case SelectorByName:
		var out []NumberedPanel
		for _, np := range all {
			if strings.Contains(strings.ToLower(np.Panel.Title), sel.Name) {
				out = append(out, np)
			}
		}
		return out
	default:
		return all
	}
}
