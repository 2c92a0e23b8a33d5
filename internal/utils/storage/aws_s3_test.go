package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Source string
}

func newTestBucket(t *testing.T) (*awsS3, func() []recordedRequest) {
	t.Helper()

	var (
		mu   sync.Mutex
		seen []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, recordedRequest{Method: r.Method, Path: r.URL.Path, Source: r.Header.Get("X-Amz-Copy-Source")})
		mu.Unlock()

		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodPut:
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(`<CopyObjectResult><ETag>"x"</ETag></CopyObjectResult>`))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(srv.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("key", "secret", ""),
		Retryer:      aws.NopRetryer{},
	})
	bucket := &awsS3{client: client, bucket: "kitchen", region: "us-east-1", base: srv.URL + "/kitchen/"}

	return bucket, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), seen...)
	}
}

func TestAwsS3_Unconfigured(t *testing.T) {
	ctx := context.Background()
	bucket := &awsS3{}

	_, err := bucket.CopyFile(ctx, "recipes/a.jpg", "b", "recipes")
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.ErrorIs(t, bucket.DeleteFile(ctx, "recipes/a.jpg"), ErrStorageDisabled)
	assert.Empty(t, bucket.GetObjectKeyFromLink("https://files.test/recipes/a.jpg"))
}

func TestAwsS3_CopyFile(t *testing.T) {
	bucket, requests := newTestBucket(t)

	key, err := bucket.CopyFile(context.Background(), "recipes/soup-1234abcd.JPG", "clone", "recipes")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "recipes/clone-"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.Equal(t, key, bucket.GetObjectKeyFromLink(bucket.GetPublicLinkKey(key)))

	seen := requests()
	require.Len(t, seen, 1)
	assert.Equal(t, http.MethodPut, seen[0].Method)
	assert.Equal(t, "/kitchen/"+key, seen[0].Path)
	assert.Equal(t, "kitchen/recipes/soup-1234abcd.JPG", seen[0].Source)
}

func TestAwsS3_DeleteFile(t *testing.T) {
	bucket, requests := newTestBucket(t)

	require.NoError(t, bucket.DeleteFile(context.Background(), "recipes/soup.jpg"))

	seen := requests()
	require.Len(t, seen, 1)
	assert.Equal(t, http.MethodDelete, seen[0].Method)
	assert.Equal(t, "/kitchen/recipes/soup.jpg", seen[0].Path)
}

func TestAwsS3_CanceledContextStopsRequests(t *testing.T) {
	bucket, requests := newTestBucket(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, bucket.DeleteFile(ctx, "recipes/soup.jpg"))
	_, err := bucket.CopyFile(ctx, "recipes/soup.jpg", "clone", "recipes")
	assert.Error(t, err)
	assert.Empty(t, requests())
}

func TestCheckExtension(t *testing.T) {
	assert.NoError(t, CheckExtension("soup.PNG", AllowImage...))
	assert.NoError(t, CheckExtension("notes.txt"))
	assert.ErrorIs(t, CheckExtension("notes.txt", AllowImage...), ErrFileTypeNotAllowed)
}
