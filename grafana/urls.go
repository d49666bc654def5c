package grafana

import (
	"fmt"
	"strings"
)

// PanelURLs holds the two URLs produced for a selected panel: the render
// URL the service rasterizes to a PNG, and the link URL for a human to open
// the live view.
type PanelURLs struct {
	Render string
	Link   string
}

// URLBuilder is a pure URL constructor; parameter order is part of the
// external contract, so query strings are assembled by hand (url.Values
// would sort the keys).
type URLBuilder struct {
	Host string
}

// Panel builds both URLs for one panel. Each variables entry is the raw
// key=value token from the command, forwarded verbatim as &var-key=value.
func (b URLBuilder) Panel(renderSegment, slug string, panelID int, tr TimeRange, variables []string) PanelURLs {
	var vars strings.Builder
	for _, v := range variables {
		vars.WriteString("&var-")
		vars.WriteString(v)
	}
	host := strings.TrimRight(b.Host, "/")
	return PanelURLs{
		Render: fmt.Sprintf("%s/render/%s/db/%s/?panelId=%d&width=1000&height=500&from=%s&to=%s%s",
			host, renderSegment, slug, panelID, tr.From, tr.To, vars.String()),
		Link: fmt.Sprintf("%s/dashboard/db/%s/?panelId=%d&fullscreen&from=%s&to=%s%s",
			host, slug, panelID, tr.From, tr.To, vars.String()),
	}
}
