package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	apperrors "github.com/spec-kit/document-service/pkg/util"
)

// DefaultContentType is used when an upload carries no content type.
const DefaultContentType = "application/octet-stream"

// SizeUnknown marks an upload whose byte length is not known ahead of time.
const SizeUnknown int64 = -1

// ObjectInfo carries the metadata recorded at upload time.
type ObjectInfo struct {
	Size        int64
	ContentType string
}

// Gateway streams binary payloads in and out of an S3-compatible bucket.
// Object keys are generated here, never supplied by callers, so the physical
// object location stays decoupled from relational ids. Safe for concurrent use.
type Gateway struct {
	client ObjectAPI
	bucket string
}

// NewGateway constructs the gateway over a bucket.
func NewGateway(client ObjectAPI, bucket string) *Gateway {
	return &Gateway{client: client, bucket: bucket}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (g *Gateway) EnsureBucket(ctx context.Context) error {
	_, err := g.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(g.bucket)})
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return apperrors.NewStorageUnavailable(err)
	}
	if _, err := g.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(g.bucket)}); err != nil {
		return apperrors.NewStorageUnavailable(err)
	}
	return nil
}

// Put streams the payload under a freshly generated key and returns it. The
// key is scoped under ownerScope with a random component, so two concurrent
// uploads can never collide. size is passed to the backend verbatim when
// known; use SizeUnknown otherwise.
func (g *Gateway) Put(ctx context.Context, r io.Reader, size int64, contentType, ownerScope, name string) (string, error) {
	if contentType == "" {
		contentType = DefaultContentType
	}
	key := objectKey(ownerScope, name)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := g.client.PutObject(ctx, input); err != nil {
		return "", apperrors.NewStorageUnavailable(err)
	}
	return key, nil
}

// Stat reports the size and content type recorded for the key.
func (g *Gateway) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	out, err := g.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return ObjectInfo{}, apperrors.NewObjectNotFound(key)
		}
		return ObjectInfo{}, apperrors.NewStorageUnavailable(err)
	}

	info := ObjectInfo{ContentType: DefaultContentType}
	if out.ContentLength != nil {
		info.Size = *out.ContentLength
	}
	if out.ContentType != nil && *out.ContentType != "" {
		info.ContentType = *out.ContentType
	}
	return info, nil
}

// Get returns a forward-only stream of the object body. The caller must drain
// or close it; nothing is buffered here. A transport drop mid-stream surfaces
// as a read error from the returned stream, never a silent truncation.
func (g *Gateway) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := g.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewObjectNotFound(key)
		}
		return nil, apperrors.NewStorageUnavailable(err)
	}
	return out.Body, nil
}

// Remove deletes the object behind the key. Deleting an already absent key is
// not an error.
func (g *Gateway) Remove(ctx context.Context, key string) error {
	_, err := g.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isNotFound(err) {
		return apperrors.NewStorageUnavailable(err)
	}
	return nil
}

// objectKey composes <ownerScope>/<uuid>_<sanitized name>. The random
// component keeps keys unguessable; sanitizing the name fragment keeps path
// separators out of backends that treat keys hierarchically.
func objectKey(ownerScope, name string) string {
	return fmt.Sprintf("%s/%s_%s", ownerScope, uuid.NewString(), sanitizeNamePart(name))
}

func sanitizeNamePart(name string) string {
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "/", "_")
	if name == "" {
		return "file"
	}
	return name
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound) || errors.As(err, &noSuchBucket)
}
