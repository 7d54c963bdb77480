package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/document-service/pkg/util"
)

type fakeObject struct {
	data        []byte
	contentType string
}

// fakeObjectAPI is an in-memory stand-in for the S3 client.
type fakeObjectAPI struct {
	mu        sync.Mutex
	objects   map[string]fakeObject
	hasBucket bool
	failAll   bool
}

func newFakeObjectAPI() *fakeObjectAPI {
	return &fakeObjectAPI{objects: map[string]fakeObject{}, hasBucket: true}
}

var errBackendDown = errors.New("connection refused")

func (f *fakeObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(params.Key)] = fakeObject{
		data:        data,
		contentType: aws.ToString(params.ContentType),
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	f.mu.Lock()
	obj, ok := f.objects[aws.ToString(params.Key)]
	f.mu.Unlock()
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(obj.data)),
		ContentLength: aws.Int64(int64(len(obj.data))),
		ContentType:   aws.String(obj.contentType),
	}, nil
}

func (f *fakeObjectAPI) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	f.mu.Lock()
	obj, ok := f.objects[aws.ToString(params.Key)]
	f.mu.Unlock()
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(obj.data))),
		ContentType:   aws.String(obj.contentType),
	}, nil
}

func (f *fakeObjectAPI) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	f.mu.Lock()
	delete(f.objects, aws.ToString(params.Key))
	f.mu.Unlock()
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeObjectAPI) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	if !f.hasBucket {
		return nil, &types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeObjectAPI) CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	f.hasBucket = true
	return &s3.CreateBucketOutput{}, nil
}

func domainCode(t *testing.T, err error) (string, int) {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %v", err)
	return domainErr.Code, domainErr.HTTPStatus
}

func TestGatewayPutGeneratesScopedKeys(t *testing.T) {
	gw := NewGateway(newFakeObjectAPI(), "documents")

	key, err := gw.Put(context.Background(), strings.NewReader("hello"), 5, "text/plain", "owner-1", "report.pdf")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "owner-1/"))
	assert.True(t, strings.HasSuffix(key, "_report.pdf"))
}

func TestGatewayPutSanitizesName(t *testing.T) {
	gw := NewGateway(newFakeObjectAPI(), "documents")

	key, err := gw.Put(context.Background(), strings.NewReader("x"), 1, "", "owner-1", `../etc/passwd\evil`)
	require.NoError(t, err)

	// only the owner scope separator survives
	assert.Equal(t, 1, strings.Count(key, "/"))
	assert.NotContains(t, key[len("owner-1/"):], "/")
	assert.NotContains(t, key, `\`)
}

func TestGatewayConcurrentPutsDistinctKeys(t *testing.T) {
	gw := NewGateway(newFakeObjectAPI(), "documents")

	const n = 16
	keys := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key, err := gw.Put(context.Background(), strings.NewReader("same name"), 9, "text/plain", "owner-1", "same.txt")
			assert.NoError(t, err)
			keys <- key
		}()
	}
	wg.Wait()
	close(keys)

	seen := map[string]bool{}
	for key := range keys {
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
	assert.Len(t, seen, n)
}

func TestGatewayPutStatRoundTrip(t *testing.T) {
	gw := NewGateway(newFakeObjectAPI(), "documents")
	payload := bytes.Repeat([]byte("abc123"), 1000)

	key, err := gw.Put(context.Background(), bytes.NewReader(payload), int64(len(payload)), "application/pdf", "owner-1", "big.pdf")
	require.NoError(t, err)

	info, err := gw.Stat(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), info.Size)
	assert.Equal(t, "application/pdf", info.ContentType)
}

func TestGatewayPutGetRoundTrip(t *testing.T) {
	gw := NewGateway(newFakeObjectAPI(), "documents")

	for name, payload := range map[string][]byte{
		"empty": {},
		"large": bytes.Repeat([]byte{0xAB, 0xCD}, 2<<20),
	} {
		key, err := gw.Put(context.Background(), bytes.NewReader(payload), int64(len(payload)), "application/octet-stream", "owner-1", name)
		require.NoError(t, err, name)

		stream, err := gw.Get(context.Background(), key)
		require.NoError(t, err, name)
		got, err := io.ReadAll(stream)
		require.NoError(t, err, name)
		require.NoError(t, stream.Close())
		assert.Equal(t, payload, got, name)
	}
}

func TestGatewayMissingObjectDistinctFromBackendFailure(t *testing.T) {
	api := newFakeObjectAPI()
	gw := NewGateway(api, "documents")

	_, err := gw.Stat(context.Background(), "owner-1/nope")
	code, status := domainCode(t, err)
	assert.Equal(t, "OBJECT_NOT_FOUND", code)
	assert.Equal(t, http.StatusNotFound, status)

	_, err = gw.Get(context.Background(), "owner-1/nope")
	code, _ = domainCode(t, err)
	assert.Equal(t, "OBJECT_NOT_FOUND", code)

	api.failAll = true
	_, err = gw.Stat(context.Background(), "owner-1/nope")
	code, status = domainCode(t, err)
	assert.Equal(t, "STORAGE_UNAVAILABLE", code)
	assert.Equal(t, http.StatusInternalServerError, status)

	_, err = gw.Get(context.Background(), "owner-1/nope")
	code, _ = domainCode(t, err)
	assert.Equal(t, "STORAGE_UNAVAILABLE", code)
}

func TestGatewayRemove(t *testing.T) {
	gw := NewGateway(newFakeObjectAPI(), "documents")

	key, err := gw.Put(context.Background(), strings.NewReader("bye"), 3, "text/plain", "owner-1", "bye.txt")
	require.NoError(t, err)

	require.NoError(t, gw.Remove(context.Background(), key))
	_, err = gw.Stat(context.Background(), key)
	code, _ := domainCode(t, err)
	assert.Equal(t, "OBJECT_NOT_FOUND", code)

	// removing an absent key is not an error
	assert.NoError(t, gw.Remove(context.Background(), key))
}

func TestGatewayEnsureBucketCreatesWhenMissing(t *testing.T) {
	api := newFakeObjectAPI()
	api.hasBucket = false
	gw := NewGateway(api, "documents")

	require.NoError(t, gw.EnsureBucket(context.Background()))
	assert.True(t, api.hasBucket)
	require.NoError(t, gw.EnsureBucket(context.Background()))
}
