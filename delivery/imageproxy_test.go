package delivery

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestImageProxyDeliverSuccess(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"pubImg": "https://img.example.com/abc.png"}`))
	}))
	defer srv.Close()

	p := &imageProxyStrategy{http: srv.Client(), host: srv.URL, apiKey: "key"}
	out := p.Deliver(context.Background(), "http://g/render/x", "http://g/link/x")
	if !out.Delivered || out.DisplayURL != "https://img.example.com/abc.png" {
		t.Fatalf("Deliver() = %+v", out)
	}
	if gotPath != "/grafana-images" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer key" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	var body struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := json.Unmarshal(gotBody, &body); err != nil || body.ImageURL != "http://g/render/x" {
		t.Fatalf("body = %s (err=%v)", gotBody, err)
	}
}

func TestImageProxyDeliverFailure(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{name: "non-200", handler: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}},
		{name: "200 without pubImg", handler: func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}},
		{name: "200 non-json", handler: func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`oops`))
		}},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(tc.handler)
		p := &imageProxyStrategy{http: srv.Client(), host: srv.URL}
		out := p.Deliver(context.Background(), "http://g/render/x", "http://g/link/x")
		srv.Close()
		if out.Delivered {
			t.Fatalf("%s: Deliver() = %+v, want failure", tc.name, out)
		}
		if out.Reason != "Access Error" || out.FallbackLink != "http://g/link/x" {
			t.Fatalf("%s: Deliver() = %+v, want Access Error with link", tc.name, out)
		}
	}
}
