package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/goliatone/go-novaform/pkg/storage"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	data, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentType:   aws.String(f.types[key]),
		ContentLength: aws.Int64(int64(len(data))),
	}, nil
}

func TestS3Store_PutOpen(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	store, err := storage.NewS3Store(client, "forms", storage.WithPrefix("/renders/"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	obj, err := store.Put(ctx, "abc.pdf", "application/pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if obj.Location != "s3://forms/renders/abc.pdf" {
		t.Fatalf("unexpected location %q", obj.Location)
	}
	if _, ok := client.objects["forms/renders/abc.pdf"]; !ok {
		t.Fatalf("object not uploaded: %#v", client.objects)
	}

	body, opened, err := store.Open(ctx, "abc.pdf")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer body.Close()
	data, _ := io.ReadAll(body)
	if string(data) != "%PDF" || opened.ContentType != "application/pdf" || opened.Size != 4 {
		t.Fatalf("unexpected open result %q %#v", data, opened)
	}
}

func TestS3Store_Errors(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	store, err := storage.NewS3Store(client, "forms")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, _, err := store.Open(ctx, "missing.pdf"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	client.putErr = errors.New("network down")
	if _, err := store.Put(ctx, "abc.pdf", "application/pdf", nil); err == nil {
		t.Fatalf("expected put error")
	}

	if _, err := storage.NewS3Store(nil, "forms"); err == nil {
		t.Fatalf("expected missing client error")
	}
	if _, err := storage.NewS3Store(client, " "); err == nil {
		t.Fatalf("expected missing bucket error")
	}
}
