package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	put    *s3.PutObjectInput
	body   string
	delete *s3.DeleteObjectInput
	err    error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, f.err
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.delete = in
	return &s3.DeleteObjectOutput{}, f.err
}

type fakePresigner struct {
	expires time.Duration
	key     string
}

func (f *fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	f.expires = opts.Expires
	f.key = *in.Key
	return &v4.PresignedHTTPRequest{URL: "https://bucket.example/" + *in.Key + "?X-Amz-Signature=abc"}, nil
}

func TestStorage_Put(t *testing.T) {
	objects := &fakeObjects{}
	s := &Storage{bucket: "todo-list", client: objects}

	err := s.Put(context.Background(), "icons/a.png", "image/png", strings.NewReader("png-bytes"), 9)
	require.NoError(t, err)

	assert.Equal(t, "todo-list", *objects.put.Bucket)
	assert.Equal(t, "icons/a.png", *objects.put.Key)
	assert.Equal(t, "image/png", *objects.put.ContentType)
	assert.Equal(t, int64(9), *objects.put.ContentLength)
	assert.Equal(t, "png-bytes", objects.body)
}

func TestStorage_PutError(t *testing.T) {
	s := &Storage{bucket: "b", client: &fakeObjects{err: errors.New("boom")}}
	err := s.Put(context.Background(), "k", "text/plain", strings.NewReader(""), 0)
	assert.ErrorContains(t, err, "put object k")
}

func TestStorage_DeleteTrimsLeadingSlash(t *testing.T) {
	objects := &fakeObjects{}
	s := &Storage{bucket: "b", client: objects}

	require.NoError(t, s.Delete(context.Background(), "/icons/a.png"))
	assert.Equal(t, "icons/a.png", *objects.delete.Key)
}

func TestStorage_PresignGet(t *testing.T) {
	p := &fakePresigner{}
	s := &Storage{bucket: "b", presign: p}

	url, err := s.PresignGet(context.Background(), "attachments/x.pdf", 744*time.Hour)
	require.NoError(t, err)
	assert.Contains(t, url, "attachments/x.pdf")
	assert.Equal(t, 744*time.Hour, p.expires)
	assert.Equal(t, "attachments/x.pdf", p.key)
}

func TestNew_CustomEndpoint(t *testing.T) {
	s, err := New(context.Background(), Config{
		Bucket: "todo-list", Region: "us-east-1", Endpoint: "http://localhost:9000",
		AccessKey: "minio", SecretKey: "minio123",
	})
	require.NoError(t, err)

	url, err := s.PresignGet(context.Background(), "icons/a.png", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/todo-list/icons/a.png?"), url)
}
