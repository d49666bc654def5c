package grafana

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Render path segments for the two historical dashboard API shapes. The
// wrapped "dashboard" shape renders under dashboard-solo, the legacy "model"
// shape under dashboard/solo.
const (
	RenderSegmentSolo       = "dashboard-solo"
	RenderSegmentLegacySolo = "dashboard/solo"
)

type Panel struct {
	ID    int
	Title string // may contain $name template tokens
}

type Row struct {
	Panels []Panel
}

type TemplateVariable struct {
	Name    string
	Current string
}

// Definition is the canonical view over a fetched dashboard. It is built
// once per fetch and never mutated; downstream code never branches on the
// source schema again.
type Definition struct {
	Rows          []Row
	Templating    []TemplateVariable
	RenderSegment string
}

type wirePanel struct {
	ID     int         `json:"id"`
	Title  string      `json:"title"`
	Type   string      `json:"type"`
	Panels []wirePanel `json:"panels"`
}

type wireRow struct {
	Panels []wirePanel `json:"panels"`
}

type wireDashboard struct {
	Rows       []wireRow   `json:"rows"`
	Panels     []wirePanel `json:"panels"`
	Templating struct {
		List []struct {
			Name    string `json:"name"`
			Current struct {
				Text string `json:"text"`
			} `json:"current"`
		} `json:"list"`
	} `json:"templating"`
}

type wireEnvelope struct {
	Message   string          `json:"message"`
	Dashboard json.RawMessage `json:"dashboard"`
	Model     json.RawMessage `json:"model"`
}

// decodeDashboard normalizes a dashboard API response body into a
// Definition. A top-level "message" field is surfaced as a ServiceError.
func decodeDashboard(body []byte) (*Definition, error) {
	var env wireEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parse dashboard response: %w", err)
	}
	if env.Message != "" {
		return nil, &ServiceError{Message: env.Message}
	}

	raw := env.Dashboard
	segment := RenderSegmentSolo
	if isJSONNull(raw) {
		raw = env.Model
		segment = RenderSegmentLegacySolo
	}
	if isJSONNull(raw) {
		return nil, fmt.Errorf("parse dashboard response: no dashboard or model field")
	}

	var wd wireDashboard
	if err := json.Unmarshal(raw, &wd); err != nil {
		return nil, fmt.Errorf("parse dashboard definition: %w", err)
	}

	def := &Definition{RenderSegment: segment}
	if len(wd.Rows) > 0 {
		for _, r := range wd.Rows {
			def.Rows = append(def.Rows, Row{Panels: flattenWirePanels(r.Panels)})
		}
	} else {
		def.Rows = rowsFromFlatPanels(wd.Panels)
	}
	for _, tv := range wd.Templating.List {
		def.Templating = append(def.Templating, TemplateVariable{
			Name:    tv.Name,
			Current: tv.Current.Text,
		})
	}
	return def, nil
}

// rowsFromFlatPanels rebuilds row structure from the schema where panels sit
// in one top-level array and "row" panels mark boundaries, possibly nesting
// their children when collapsed.
func rowsFromFlatPanels(panels []wirePanel) []Row {
	var rows []Row
	var current []Panel
	flush := func() {
		if len(current) > 0 {
			rows = append(rows, Row{Panels: current})
			current = nil
		}
	}
	for _, p := range panels {
		if p.Type == "row" {
			flush()
			if nested := flattenWirePanels(p.Panels); len(nested) > 0 {
				rows = append(rows, Row{Panels: nested})
			}
			continue
		}
		current = append(current, Panel{ID: p.ID, Title: p.Title})
	}
	flush()
	return rows
}

func flattenWirePanels(panels []wirePanel) []Panel {
	out := make([]Panel, 0, len(panels))
	for _, p := range panels {
		if p.Type == "row" {
			out = append(out, flattenWirePanels(p.Panels)...)
			continue
		}
		out = append(out, Panel{ID: p.ID, Title: p.Title})
	}
	return out
}

func isJSONNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
