package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"recipebuilder/recipe"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 uploads each card to <prefix><card id>.<ext> in a bucket.
type S3 struct {
	bucket string
	prefix string
	format string
	s3     objectPutter
}

func NewS3(client objectPutter, bucket, prefix, format string) *S3 {
	return &S3{
		bucket: bucket,
		prefix: prefix,
		format: format,
		s3:     client,
	}
}

// Key returns the object key a card is stored under.
func (s *S3) Key(card recipe.Card) (string, error) {
	ext, err := recipe.Extension(s.format)
	if err != nil {
		return "", err
	}
	return s.prefix + card.ID + "." + ext, nil
}

func (s *S3) Publish(ctx context.Context, card recipe.Card) error {
	key, err := s.Key(card)
	if err != nil {
		return err
	}
	data, err := card.Encode(s.format)
	if err != nil {
		return fmt.Errorf("failed to encode card: %w", err)
	}

	contentType := "application/json"
	if ext, _ := recipe.Extension(s.format); ext == "yaml" {
		contentType = "application/yaml"
	}

	_, err = s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put card object to S3: %w", err)
	}
	return nil
}
