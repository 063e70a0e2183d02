package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/jonwraymond/dailypuzzle/daykey"
)

// fakeS3 is an in-memory S3API with two-object list pages.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    []*s3.PutObjectInput
	err     error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var names []string
	for name := range f.objects {
		if strings.HasPrefix(name, aws.ToString(in.Prefix)) {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	start := 0
	if tok := aws.ToString(in.ContinuationToken); tok != "" {
		start, _ = strconv.Atoi(tok)
	}
	end := min(start+2, len(names))

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(names))}
	for _, name := range names[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(name)})
	}
	if end < len(names) {
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func (f *fakeS3) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &s3.HeadBucketOutput{}, nil
}

func newTestS3Store(t *testing.T, fake *fakeS3) *S3Store {
	t.Helper()
	s, err := NewS3Store(context.Background(), S3Config{Bucket: "daily", Client: fake})
	if err != nil {
		t.Fatalf("NewS3Store() error = %v", err)
	}
	return s
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	if _, err := NewS3Store(context.Background(), S3Config{Client: newFakeS3()}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestS3Store_WriteReadExists(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	s := newTestS3Store(t, fake)

	if ok, err := s.Exists(ctx, "2024-03-09"); err != nil || ok {
		t.Fatalf("Exists() = %v, %v; want false, nil", ok, err)
	}
	if _, err := s.Read(ctx, "2024-03-09"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Read() error = %v, want ErrNotFound", err)
	}

	if err := s.Write(ctx, "2024-03-09", []byte(`{"theme":"Space"}`)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	put := fake.puts[0]
	if aws.ToString(put.Key) != "puzzles/2024-03-09.json" {
		t.Errorf("Key = %q", aws.ToString(put.Key))
	}
	if aws.ToString(put.Bucket) != "daily" {
		t.Errorf("Bucket = %q", aws.ToString(put.Bucket))
	}
	if aws.ToString(put.ContentType) != "application/json" {
		t.Errorf("ContentType = %q", aws.ToString(put.ContentType))
	}
	if put.ACL != types.ObjectCannedACLPublicRead {
		t.Errorf("ACL = %q", put.ACL)
	}

	if ok, err := s.Exists(ctx, "2024-03-09"); err != nil || !ok {
		t.Errorf("Exists() = %v, %v; want true, nil", ok, err)
	}
	got, err := s.Read(ctx, "2024-03-09")
	if err != nil || string(got) != `{"theme":"Space"}` {
		t.Errorf("Read() = %s, %v", got, err)
	}
}

func TestS3Store_List(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	s := newTestS3Store(t, fake)

	for _, k := range []daykey.Key{"2024-03-11", "2024-03-09", "2024-03-10", "2024-03-08", "2024-03-12"} {
		if err := s.Write(ctx, k, []byte("{}")); err != nil {
			t.Fatal(err)
		}
	}
	fake.objects["puzzles/README.md"] = []byte("not a day")
	fake.objects["elsewhere/2024-01-01.json"] = []byte("{}")

	keys, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []daykey.Key{"2024-03-08", "2024-03-09", "2024-03-10", "2024-03-11", "2024-03-12"}
	if !slices.Equal(keys, want) {
		t.Errorf("List() = %v, want %v", keys, want)
	}
}

func TestS3Store_BackendErrors(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	fake.err = errors.New("connection refused")
	s := newTestS3Store(t, fake)

	if _, err := s.Exists(ctx, "2024-03-09"); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Exists() error = %v", err)
	}
	if _, err := s.Read(ctx, "2024-03-09"); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Read() error = %v", err)
	}
	if err := s.Write(ctx, "2024-03-09", nil); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Write() error = %v", err)
	}
	if _, err := s.List(ctx); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("List() error = %v", err)
	}
	if err := s.Ping(ctx); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Ping() error = %v", err)
	}
}
