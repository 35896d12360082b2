package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/df07/go-simple-pathtracer/pkg/core"
)

// UploadTimeout bounds a single publish call
const UploadTimeout = 30 * time.Second

// ErrS3NotConfigured is returned when publishing is requested without a bucket
var ErrS3NotConfigured = errors.New("s3 publishing is not configured")

// S3Config holds the object storage settings
type S3Config struct {
	Endpoint  string // Custom endpoint for S3 compatible stores, empty for AWS
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Prefix    string // Prepended to every key
	PublicURL string // Base URL objects are served from, e.g. a CDN
}

// S3Publisher uploads rendered images to a bucket
type S3Publisher struct {
	client *s3.S3
	config S3Config
	logger core.Logger
}

// NewS3Publisher creates a publisher using path-style addressing
func NewS3Publisher(config S3Config, logger core.Logger) (*S3Publisher, error) {
	if config.Bucket == "" {
		return nil, ErrS3NotConfigured
	}

	awsConfig := &aws.Config{
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if config.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(config.AccessKey, config.SecretKey, "")
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return &S3Publisher{client: s3.New(sess), config: config, logger: logger}, nil
}

// Publish uploads a PNG under key and returns the URL it can be fetched from
func (p *S3Publisher) Publish(ctx context.Context, key string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	fullKey := p.objectKey(key)
	size := int64(len(data))
	_, err := p.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.config.Bucket),
		Key:           aws.String(fullKey),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", fullKey, err)
	}

	if p.logger != nil {
		p.logger.Printf("Uploaded %s to S3 (%d bytes)\n", fullKey, size)
	}
	return p.URL(key), nil
}

// URL returns the public location of key
func (p *S3Publisher) URL(key string) string {
	fullKey := p.objectKey(key)
	if p.config.PublicURL != "" {
		return strings.TrimRight(p.config.PublicURL, "/") + "/" + fullKey
	}
	if p.config.Endpoint != "" {
		return strings.TrimRight(p.config.Endpoint, "/") + "/" + p.config.Bucket + "/" + fullKey
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.config.Bucket, p.config.Region, fullKey)
}

func (p *S3Publisher) objectKey(key string) string {
	key = strings.TrimLeft(key, "/")
	if p.config.Prefix == "" {
		return key
	}
	return strings.TrimRight(p.config.Prefix, "/") + "/" + key
}
