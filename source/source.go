package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Loader fetches the raw bytes of a recipe request document.
type Loader interface {
	Load(ctx context.Context) ([]byte, error)
}

// File loads a request document from local disk.
type File struct {
	Path string
}

func NewFile(path string) *File {
	return &File{Path: path}
}

func (f *File) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file: %w", err)
	}
	return data, nil
}

// Memory is an in-memory Loader for tests.
type Memory struct {
	data []byte
	err  error
}

func NewMemory(data []byte) *Memory {
	return &Memory{data: data}
}

func NewMemoryWithError() *Memory {
	return &Memory{err: errors.New("not found")}
}

func (m *Memory) Load(ctx context.Context) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.data, nil
}

// ParseS3URI splits s3://bucket/key into its parts.
func ParseS3URI(uri string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(uri, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// FromLocation picks an S3 loader for s3:// URIs and a file loader otherwise.
func FromLocation(ctx context.Context, location string) (Loader, error) {
	if !strings.HasPrefix(location, "s3://") {
		return NewFile(location), nil
	}

	bucket, key, ok := ParseS3URI(location)
	if !ok {
		return nil, fmt.Errorf("invalid S3 location %q, want s3://bucket/key", location)
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3(s3.NewFromConfig(awsCfg), bucket, key), nil
}
