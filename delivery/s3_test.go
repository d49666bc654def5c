package delivery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
)

type fakePutter struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (f *fakePutter) PutObjectWithContext(_ aws.Context, input *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func renderServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("pngbytes"))
	}))
}

var keyPattern = regexp.MustCompile(`^grafana/[0-9a-f]{40}\.png$`)

func TestS3DeliverUploadsAndReturnsPublicURL(t *testing.T) {
	srv := renderServer(t)
	defer srv.Close()

	putter := &fakePutter{}
	u := &s3Strategy{
		svc:    putter,
		http:   srv.Client(),
		bucket: "charts",
		region: "eu-west-1",
		prefix: "grafana",
		apiKey: "key",
	}
	out := u.Deliver(context.Background(), srv.URL+"/render/x", "http://g/link/x")
	if !out.Delivered {
		t.Fatalf("Deliver() = %+v, want delivered", out)
	}
	if len(putter.inputs) != 1 {
		t.Fatalf("PutObject calls = %d, want 1", len(putter.inputs))
	}
	in := putter.inputs[0]
	if aws.StringValue(in.Bucket) != "charts" {
		t.Fatalf("bucket = %q", aws.StringValue(in.Bucket))
	}
	key := aws.StringValue(in.Key)
	if !keyPattern.MatchString(key) {
		t.Fatalf("key = %q, want grafana/<40 hex>.png", key)
	}
	if aws.StringValue(in.ContentType) != "image/png" {
		t.Fatalf("content type = %q", aws.StringValue(in.ContentType))
	}
	if aws.StringValue(in.ACL) != s3.ObjectCannedACLPublicRead {
		t.Fatalf("acl = %q", aws.StringValue(in.ACL))
	}
	if aws.Int64Value(in.ContentLength) != int64(len("pngbytes")) {
		t.Fatalf("content length = %d", aws.Int64Value(in.ContentLength))
	}
	body, _ := io.ReadAll(in.Body)
	if string(body) != "pngbytes" {
		t.Fatalf("body = %q", body)
	}
	if want := "https://charts.s3.eu-west-1.amazonaws.com/" + key; out.DisplayURL != want {
		t.Fatalf("display url = %q, want %q", out.DisplayURL, want)
	}
}

func TestS3DeliverFailedPutKeepsLink(t *testing.T) {
	srv := renderServer(t)
	defer srv.Close()

	u := &s3Strategy{
		svc:    &fakePutter{err: fmt.Errorf("http 403")},
		http:   srv.Client(),
		bucket: "charts",
		prefix: "grafana",
	}
	out := u.Deliver(context.Background(), srv.URL+"/render/x", "http://g/link/x")
	if out.Delivered {
		t.Fatalf("Deliver() = %+v, want failure", out)
	}
	if out.Reason != "Upload Error" || out.FallbackLink != "http://g/link/x" {
		t.Fatalf("Deliver() = %+v, want Upload Error with link", out)
	}
}

func TestS3DeliverRenderFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	putter := &fakePutter{}
	u := &s3Strategy{svc: putter, http: srv.Client(), bucket: "b", prefix: "grafana"}
	out := u.Deliver(context.Background(), srv.URL+"/render/x", "http://g/link/x")
	if out.Delivered || out.Reason != "Upload Error" {
		t.Fatalf("Deliver() = %+v, want Upload Error", out)
	}
	if len(putter.inputs) != 0 {
		t.Fatalf("PutObject calls = %d, want 0", len(putter.inputs))
	}
}

func TestPublicObjectURLRegions(t *testing.T) {
	cases := []struct {
		region string
		want   string
	}{
		{region: "", want: "https://b.s3.amazonaws.com/k"},
		{region: "us-standard", want: "https://b.s3.amazonaws.com/k"},
		{region: "us-east-1", want: "https://b.s3.amazonaws.com/k"},
		{region: "ap-south-1", want: "https://b.s3.ap-south-1.amazonaws.com/k"},
	}
	for _, tc := range cases {
		if got := publicObjectURL("b", tc.region, "k"); got != tc.want {
			t.Fatalf("publicObjectURL(%q) = %q, want %q", tc.region, got, tc.want)
		}
	}
}
