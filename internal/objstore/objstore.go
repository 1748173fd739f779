// Package objstore reads and writes objects in S3-compatible storage.
package objstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/philipparndt/gopin/internal/config"
	"github.com/philipparndt/gopin/internal/logging"
	"github.com/rs/zerolog"
)

// Scheme is the URL scheme of object locations
const Scheme = "s3"

// ErrInvalidLocation is returned for malformed s3:// locations
var ErrInvalidLocation = errors.New("invalid object location")

// Location addresses one object
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	return Scheme + "://" + l.Bucket + "/" + l.Key
}

// IsLocation reports whether s uses the s3:// scheme
func IsLocation(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), Scheme+"://")
}

// ParseLocation parses s3://bucket/key
func ParseLocation(s string) (Location, error) {
	u, err := url.Parse(s)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	if !strings.EqualFold(u.Scheme, Scheme) {
		return Location{}, fmt.Errorf("%w: scheme %q", ErrInvalidLocation, u.Scheme)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return Location{}, fmt.Errorf("%w: %s", ErrInvalidLocation, s)
	}
	return Location{Bucket: u.Host, Key: key}, nil
}

// Client wraps an S3 API
type Client struct {
	api           s3iface.S3API
	defaultBucket string
	log           zerolog.Logger
}

// New creates a client from configuration. Static credentials are used when
// an access key is configured, otherwise the default AWS chain applies.
func New(cfg config.S3Config) (*Client, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	return NewWithAPI(s3.New(sess), cfg.Bucket), nil
}

// NewWithAPI creates a client over an existing S3 API implementation
func NewWithAPI(api s3iface.S3API, defaultBucket string) *Client {
	return &Client{api: api, defaultBucket: defaultBucket, log: logging.For("objstore")}
}

// DefaultBucket returns the configured bucket for uploads
func (c *Client) DefaultBucket() string {
	return c.defaultBucket
}

// Get opens an object for reading. size is -1 when unknown.
func (c *Client) Get(ctx context.Context, loc Location) (body io.ReadCloser, size int64, err error) {
	out, err := c.api.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get %s: %w", loc, err)
	}
	size = -1
	if out.ContentLength != nil {
		size = *out.ContentLength
	}
	return out.Body, size, nil
}

// Put uploads data with the given content type
func (c *Client) Put(ctx context.Context, loc Location, data []byte, contentType string) error {
	size := int64(len(data))
	_, err := c.api.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(loc.Bucket),
		Key:           aws.String(loc.Key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", loc, err)
	}
	c.log.Info().Str("location", loc.String()).Int64("bytes", size).Msg("uploaded")
	return nil
}
