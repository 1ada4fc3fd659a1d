package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrNoBucket = errors.New("no requirements bucket configured")

// ObjectPresigner is the subset of *s3.PresignClient used here.
type ObjectPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// RequirementFiles hands out short-lived download links for the files
// residents attached to their applications.
type RequirementFiles struct {
	presigner ObjectPresigner
	bucket    string
	expiry    time.Duration
}

func NewRequirementFiles(presigner ObjectPresigner, bucket string, expiry time.Duration) *RequirementFiles {
	return &RequirementFiles{
		presigner: presigner,
		bucket:    bucket,
		expiry:    expiry,
	}
}

// PresignRequirement returns a GET link for key. Leading slashes are ignored.
func (s *RequirementFiles) PresignRequirement(ctx context.Context, key string) (string, error) {
	if s.bucket == "" {
		return "", ErrNoBucket
	}

	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", errors.New("empty object key")
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}

	return req.URL, nil
}
