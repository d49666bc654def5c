package delivery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const uploadError = "Upload Error"

type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// Prefix is the key prefix inside the bucket; defaults to "grafana".
	Prefix string
	// Endpoint overrides the AWS endpoint for S3-compatible stores.
	Endpoint string
}

func (c S3Config) enabled() bool {
	return strings.TrimSpace(c.Bucket) != "" &&
		strings.TrimSpace(c.AccessKeyID) != "" &&
		strings.TrimSpace(c.SecretAccessKey) != ""
}

// S3Putter is the slice of the S3 API the uploader needs; tests inject a
// fake.
type S3Putter interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// s3Strategy fetches the rendered PNG and uploads it under a random key,
// publicly readable. Key collisions are probabilistically ignored.
type s3Strategy struct {
	svc    S3Putter
	http   *http.Client
	bucket string
	region string
	prefix string
	apiKey string
}

func newS3Strategy(cfg S3Config, httpClient *http.Client, apiKey string) (*s3Strategy, error) {
	awsCfg := &aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	}
	if strings.TrimSpace(cfg.Endpoint) != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create s3 session: %w", err)
	}

	prefix := strings.Trim(strings.TrimSpace(cfg.Prefix), "/")
	if prefix == "" {
		prefix = "grafana"
	}
	return &s3Strategy{
		svc:    s3.New(sess),
		http:   httpClient,
		bucket: cfg.Bucket,
		region: cfg.Region,
		prefix: prefix,
		apiKey: strings.TrimSpace(apiKey),
	}, nil
}

func (u *s3Strategy) Name() string { return "s3" }

func (u *s3Strategy) Deliver(ctx context.Context, renderURL, linkURL string) Outcome {
	body, contentType, err := u.fetchImage(ctx, renderURL)
	if err != nil {
		return failed(uploadError, linkURL)
	}

	token, err := randomHexToken(40)
	if err != nil {
		return failed(uploadError, linkURL)
	}
	key := fmt.Sprintf("%s/%s.png", u.prefix, token)

	_, err = u.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
		ACL:           aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		return failed(uploadError, linkURL)
	}
	return delivered(publicObjectURL(u.bucket, u.region, key))
}

func (u *s3Strategy) fetchImage(ctx context.Context, renderURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, renderURL, nil)
	if err != nil {
		return nil, "", err
	}
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.apiKey)
	}
	resp, err := u.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	body, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, "", readErr
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("render fetch http %d", resp.StatusCode)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	return body, contentType, nil
}

// publicObjectURL derives the canonical HTTPS URL for an uploaded key.
func publicObjectURL(bucket, region, key string) string {
	region = strings.TrimSpace(region)
	switch region {
	case "", "us-standard", "us-east-1":
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
	}
}
