package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirRead(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "conf", "app.yaml"), []byte("a: 1\n"), 0o600))

	src := Dir(dir)
	data, err := src.Read(context.Background(), "conf/app.yaml")
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(data))

	_, err = src.Read(context.Background(), "conf/missing.yaml")
	assert.ErrorIs(t, err, ErrNotExist)

	_, err = src.Read(context.Background(), "conf")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestDirName(t *testing.T) {
	assert.Equal(t, "dir:.", Dir("").Name())
	assert.Equal(t, "dir:/etc/app", Dir("/etc/app").Name())
}

func TestFSRead(t *testing.T) {
	src := FromFS(fstest.MapFS{
		"application.yaml": {Data: []byte("app:\n  name: x\n")},
	}, "")

	data, err := src.Read(context.Background(), "application.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: x")

	_, err = src.Read(context.Background(), "application-local.yaml")
	assert.ErrorIs(t, err, ErrNotExist)
	assert.Equal(t, "fs:embedded", src.Name())
}

type fakeS3 struct {
	objects map[string]string
	err     error
	lastKey string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.lastKey = aws.ToString(in.Key)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[f.lastKey]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewBufferString(body))}, nil
}

func TestS3Read(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"svc/application.yaml": "a: 1"}}
	src := NewS3WithClient(client, "cfg", "svc")

	data, err := src.Read(context.Background(), "application.yaml")
	require.NoError(t, err)
	assert.Equal(t, "a: 1", string(data))
	assert.Equal(t, "svc/application.yaml", client.lastKey)

	_, err = src.Read(context.Background(), "application-local.yaml")
	assert.ErrorIs(t, err, ErrNotExist)
	assert.Equal(t, "s3://cfg/svc", src.Name())
}

func TestS3ReadFailure(t *testing.T) {
	boom := errors.New("connection reset")
	src := NewS3WithClient(&fakeS3{err: boom}, "cfg", "")

	_, err := src.Read(context.Background(), "application.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotExist)
}

func TestGCSRead(t *testing.T) {
	objects := map[string]string{"prod/application.yaml": "b: 2"}
	src := &GCS{
		bucket: "cfg",
		prefix: "prod",
		open: func(_ context.Context, object string) (io.ReadCloser, error) {
			body, ok := objects[object]
			if !ok {
				return nil, storage.ErrObjectNotExist
			}
			return io.NopCloser(bytes.NewBufferString(body)), nil
		},
	}

	data, err := src.Read(context.Background(), "application.yaml")
	require.NoError(t, err)
	assert.Equal(t, "b: 2", string(data))

	_, err = src.Read(context.Background(), "application-local.yaml")
	assert.ErrorIs(t, err, ErrNotExist)
	assert.Equal(t, "gs://cfg/prod", src.Name())
	assert.NoError(t, src.Close())
}

func TestNewS3RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), S3Options{})
	assert.Error(t, err)

	_, err = NewGCS(context.Background(), GCSOptions{})
	assert.Error(t, err)
}
