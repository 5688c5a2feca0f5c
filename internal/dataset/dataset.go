// Package dataset loads the read-only JSON datasets the chat flows search.
// A dataset comes from an embedded default, a local file or an S3 object.
package dataset

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

//go:embed data/doctors.json
var defaultDoctors []byte

//go:embed data/restaurant_menu.json
var defaultMenu []byte

// DefaultDoctors returns the embedded doctors dataset.
func DefaultDoctors() []byte { return defaultDoctors }

// DefaultMenu returns the embedded restaurant menu dataset.
func DefaultMenu() []byte { return defaultMenu }

const s3Scheme = "s3://"

var ErrNoS3Client = errors.New("dataset: s3 location requires an s3 client")

// GetObjectAPI is the subset of the S3 client used to read datasets.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Load decodes a JSON array of T from location. An empty location decodes
// fallback, an s3://bucket/key location is fetched with client, and
// anything else is read as a local file path.
func Load[T any](ctx context.Context, location string, fallback []byte, client GetObjectAPI) ([]T, error) {
	location = strings.TrimSpace(location)

	var (
		data []byte
		err  error
	)
	switch {
	case location == "":
		data, location = fallback, "embedded"
	case strings.HasPrefix(location, s3Scheme):
		data, err = readS3(ctx, client, location)
	default:
		data, err = os.ReadFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", location, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("dataset: decode %s: %w", location, err)
	}
	return items, nil
}

// ParseS3Location splits s3://bucket/key into its bucket and key.
func ParseS3Location(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("dataset: %q is not an s3 location", location)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("dataset: %q needs both bucket and key", location)
	}
	return bucket, key, nil
}

func readS3(ctx context.Context, client GetObjectAPI, location string) ([]byte, error) {
	if client == nil {
		return nil, ErrNoS3Client
	}
	bucket, key, err := ParseS3Location(location)
	if err != nil {
		return nil, err
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}
