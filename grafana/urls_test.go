package grafana

import (
	"net/url"
	"strings"
	"testing"
)

func TestPanelURLFormats(t *testing.T) {
	b := URLBuilder{Host: "https://grafana.example.com"}
	got := b.Panel(RenderSegmentSolo, "cpu-metrics", 7,
		TimeRange{From: "now-8d", To: "now-1d"},
		[]string{"host=web-01", "dc=eu"})

	wantRender := "https://grafana.example.com/render/dashboard-solo/db/cpu-metrics/?panelId=7&width=1000&height=500&from=now-8d&to=now-1d&var-host=web-01&var-dc=eu"
	if got.Render != wantRender {
		t.Fatalf("render url = %q, want %q", got.Render, wantRender)
	}
	wantLink := "https://grafana.example.com/dashboard/db/cpu-metrics/?panelId=7&fullscreen&from=now-8d&to=now-1d&var-host=web-01&var-dc=eu"
	if got.Link != wantLink {
		t.Fatalf("link url = %q, want %q", got.Link, wantLink)
	}
}

func TestPanelURLLegacySegment(t *testing.T) {
	b := URLBuilder{Host: "http://g"}
	got := b.Panel(RenderSegmentLegacySolo, "d", 1, TimeRange{From: "a", To: "b"}, nil)
	if !strings.Contains(got.Render, "/render/dashboard/solo/db/d/") {
		t.Fatalf("render url = %q, want legacy solo segment", got.Render)
	}
}

func TestPanelURLRoundTrip(t *testing.T) {
	b := URLBuilder{Host: "http://g"}
	got := b.Panel(RenderSegmentSolo, "d", 42,
		TimeRange{From: "now-6h", To: "now"},
		[]string{"host=a", "host=b"})

	u, err := url.Parse(got.Render)
	if err != nil {
		t.Fatalf("url.Parse() error = %v", err)
	}
	q := u.Query()
	if q.Get("panelId") != "42" || q.Get("from") != "now-6h" || q.Get("to") != "now" {
		t.Fatalf("query = %v", q)
	}
	if vals := q["var-host"]; len(vals) != 2 || vals[0] != "a" || vals[1] != "b" {
		t.Fatalf("var-host = %v, want [a b]", q["var-host"])
	}
}
