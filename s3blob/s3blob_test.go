package s3blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/etnz/ystocker"
)

// fakeS3 keeps objects in memory.
type fakeS3 struct {
	objects map[string][]byte
	fail    error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if _, ok := f.objects[*in.Bucket+"/"+*in.Key]; !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound"}
	}
	delete(f.objects, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestBlob(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}}
	var b ystocker.Blob = &Blob{Client: fake, Bucket: "bucket", Prefix: "ystocker/"}

	if _, err := b.Read(ctx, "fed_cache.json"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Read() of a missing object = %v, want fs.ErrNotExist", err)
	}
	if err := b.Write(ctx, "fed_cache.json", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	if _, ok := fake.objects["bucket/ystocker/fed_cache.json"]; !ok {
		t.Errorf("object stored under %v, want ystocker/fed_cache.json", fake.objects)
	}
	got, err := b.Read(ctx, "fed_cache.json")
	if err != nil || string(got) != `{"a":1}` {
		t.Errorf("Read() = %q, %v", got, err)
	}
	if err := b.Remove(ctx, "fed_cache.json"); err != nil {
		t.Errorf("Remove() failed: %v", err)
	}
	if err := b.Remove(ctx, "fed_cache.json"); err != nil {
		t.Errorf("Remove() of a missing object = %v, want nil", err)
	}

	fake.fail = errors.New("access denied")
	if _, err := b.Read(ctx, "x.json"); err == nil || errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Read() with a failing client = %v", err)
	}
}
