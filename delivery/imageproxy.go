package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

const accessError = "Access Error"

// imageProxyStrategy asks an external proxy service to fetch the render URL
// and host the image publicly, returning the durable URL it assigns.
type imageProxyStrategy struct {
	http   *http.Client
	host   string
	apiKey string
}

func (p *imageProxyStrategy) Name() string { return "image-proxy" }

func (p *imageProxyStrategy) Deliver(ctx context.Context, renderURL, linkURL string) Outcome {
	payload, err := json.Marshal(struct {
		ImageURL string `json:"imageUrl"`
	}{ImageURL: renderURL})
	if err != nil {
		return failed(accessError, linkURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+"/grafana-images", bytes.NewReader(payload))
	if err != nil {
		return failed(accessError, linkURL)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return failed(accessError, linkURL)
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil || resp.StatusCode != http.StatusOK {
		return failed(accessError, linkURL)
	}

	var out struct {
		PubImg string `json:"pubImg"`
	}
	if err := json.Unmarshal(raw, &out); err != nil || out.PubImg == "" {
		return failed(accessError, linkURL)
	}
	return delivered(out.PubImg)
}
