package persistent

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/andreyxaxa/Fitness-Center/internal/repo"
	"github.com/andreyxaxa/Fitness-Center/pkg/s3client"
	"github.com/andreyxaxa/Fitness-Center/pkg/types/errs"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3ImageStore struct {
	*s3client.S3Client
	bucket string
}

func NewS3ImageStore(s3c *s3client.S3Client, bucket string) *S3ImageStore {
	return &S3ImageStore{s3c, bucket}
}

func (r *S3ImageStore) Save(ctx context.Context, scope repo.ImageScope, data io.Reader, originalName string) (string, error) {
	if data == nil {
		return "", fmt.Errorf("S3ImageStore - Save: no data: %w", errs.ErrValidation)
	}

	// the SDK needs a seekable body or a known length, buffer the upload
	b, err := io.ReadAll(data)
	if err != nil {
		return "", fmt.Errorf("S3ImageStore - Save - io.ReadAll: %w", err)
	}
	if len(b) == 0 {
		return "", fmt.Errorf("S3ImageStore - Save: empty file: %w", errs.ErrValidation)
	}

	ref := newImageRef(scope, originalName)
	key, err := parseImageRef(ref)
	if err != nil {
		return "", fmt.Errorf("S3ImageStore - Save - parseImageRef: %w", err)
	}

	_, err = r.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytesReader(b),
		ContentType:   aws.String(contentTypeByRef(ref)),
		ContentLength: aws.Int64(int64(len(b))),
	})
	if err != nil {
		return "", fmt.Errorf("S3ImageStore - Save - r.Client.PutObject: %w", err)
	}

	return ref, nil
}

func (r *S3ImageStore) Open(ctx context.Context, ref string) (io.ReadCloser, string, error) {
	key, err := parseImageRef(ref)
	if err != nil {
		return nil, "", fmt.Errorf("S3ImageStore - Open - parseImageRef: %w", err)
	}

	result, err := r.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, "", fmt.Errorf("S3ImageStore - Open: %w", errs.ErrRecordNotFound)
		}
		return nil, "", fmt.Errorf("S3ImageStore - Open - r.Client.GetObject: %w", err)
	}

	contentType := aws.ToString(result.ContentType)
	if contentType == "" {
		contentType = contentTypeByRef(ref)
	}

	return result.Body, contentType, nil
}

func (r *S3ImageStore) Delete(ctx context.Context, ref string) error {
	key, err := parseImageRef(ref)
	if err != nil {
		return fmt.Errorf("S3ImageStore - Delete - parseImageRef: %w", err)
	}

	_, err = r.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("S3ImageStore - Delete - r.Client.DeleteObject: %w", err)
	}

	return nil
}
