// Package s3blob stores the JSON caches in an S3 bucket.
package s3blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/apex/log"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// API is the subset of the S3 client used by Blob.
type API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Blob implements ystocker.Blob on top of S3. Documents are stored as
// s3://Bucket/Prefix<name>.
type Blob struct {
	Client API
	Bucket string
	Prefix string
}

// New loads the default AWS configuration (env, shared config, IMDS) for
// region and returns a Blob for bucket.
func New(ctx context.Context, bucket, prefix, region string) (*Blob, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	log.WithFields(log.Fields{"bucket": bucket, "prefix": prefix, "region": cfg.Region}).Info("using S3 cache")
	return &Blob{Client: s3.NewFromConfig(cfg), Bucket: bucket, Prefix: prefix}, nil
}

func (b *Blob) key(name string) string { return b.Prefix + path.Base(name) }

// Read returns the document, or an error wrapping fs.ErrNotExist.
func (b *Blob) Read(ctx context.Context, name string) ([]byte, error) {
	out, err := b.Client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(b.Bucket), Key: aws.String(b.key(name))})
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("s3://%s/%s: %w", b.Bucket, b.key(name), fs.ErrNotExist)
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", b.Bucket, b.key(name), err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// Write replaces the document. S3 puts are atomic.
func (b *Blob) Write(ctx context.Context, name string, data []byte) error {
	_, err := b.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.Bucket),
		Key:           aws.String(b.key(name)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", b.Bucket, b.key(name), err)
	}
	return nil
}

// Remove deletes the document, a missing one is not an error.
func (b *Blob) Remove(ctx context.Context, name string) error {
	_, err := b.Client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(b.Bucket), Key: aws.String(b.key(name))})
	if err != nil && !notFound(err) {
		return fmt.Errorf("delete s3://%s/%s: %w", b.Bucket, b.key(name), err)
	}
	return nil
}

// String returns the s3 URL of the prefix.
func (b *Blob) String() string { return "s3://" + b.Bucket + "/" + b.Prefix }

func notFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
