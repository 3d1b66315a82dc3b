package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/meshkit-ai/meshkit/internal/registry"
)

// Credentials is the object-store triple read from the environment. The
// remote sink runs only when all three are present.
type Credentials struct {
	Endpoint  string
	AccessKey string
	SecretKey string
}

// CredentialsFromEnv reads the S3 triple from the process environment.
func CredentialsFromEnv() Credentials {
	return Credentials{
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
	}
}

func (c Credentials) complete() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Publisher serializes the final registry to exactly one sink per run.
type Publisher struct {
	bucket string
	key    string
	region string
	creds  Credentials
	log    *zap.Logger
}

func NewPublisher(bucket, key, region string, creds Credentials, log *zap.Logger) *Publisher {
	return &Publisher{bucket: bucket, key: key, region: region, creds: creds, log: log}
}

// Marshal renders the registry as pretty-printed JSON. Map keys come out
// lexicographically sorted.
func Marshal(reg *registry.Registry) ([]byte, error) {
	return json.MarshalIndent(reg, "", "  ")
}

// WriteLocal writes the registry to a local file. Local mode is the explicit
// intended output, so a write failure propagates as fatal.
func (p *Publisher) WriteLocal(reg *registry.Registry, path string) error {
	data, err := Marshal(reg)
	if err != nil {
		return fmt.Errorf("marshaling registry: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing registry to %s: %w", path, err)
	}
	p.log.Info("wrote registry to local file", zap.String("path", path))
	return nil
}

// Upload puts the registry into the object store. Missing credentials are an
// info-level no-op; an upload failure is logged and swallowed, since the
// registry was already computed and the caller may retry the publish.
func (p *Publisher) Upload(ctx context.Context, reg *registry.Registry) {
	if !p.creds.complete() {
		p.log.Info("object store credentials not found, skipping registry upload")
		return
	}

	data, err := Marshal(reg)
	if err != nil {
		p.log.Warn("failed to marshal registry for upload", zap.Error(err))
		return
	}

	endpoint, secure := splitEndpoint(p.creds.Endpoint)
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(p.creds.AccessKey, p.creds.SecretKey, ""),
		Secure: secure,
		Region: p.region,
	})
	if err != nil {
		p.log.Warn("failed to create object store client", zap.Error(err))
		return
	}

	_, err = client.PutObject(ctx, p.bucket, p.key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		p.log.Warn("failed to upload registry", zap.Error(err))
		return
	}
	p.log.Info("uploaded registry",
		zap.String("bucket", p.bucket), zap.String("key", p.key))
}

// splitEndpoint strips the URL scheme the way the object-store client wants
// it, defaulting to TLS when no scheme is given.
func splitEndpoint(endpoint string) (host string, secure bool) {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimPrefix(endpoint, "https://"), true
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimPrefix(endpoint, "http://"), false
	default:
		return endpoint, true
	}
}
