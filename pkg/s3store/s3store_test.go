package s3store

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	key, bucket, contentType string
	body                     []byte
	err                      error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	f.contentType = aws.ToString(in.ContentType)
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestUploadImage(t *testing.T) {
	fake := &fakeS3{}
	s := NewWithClient(fake, "captures", "eu-west-1", "")
	url, thumb, err := s.UploadImage(context.Background(), strings.NewReader("jpeg"), "/DeadSignal/hunt-1/", "cap_1")
	if err != nil {
		t.Fatal(err)
	}
	if fake.bucket != "captures" || fake.key != "DeadSignal/hunt-1/cap_1.jpg" || fake.contentType != "image/jpeg" || string(fake.body) != "jpeg" {
		t.Fatalf("put = %+v", fake)
	}
	want := "https://captures.s3.eu-west-1.amazonaws.com/DeadSignal/hunt-1/cap_1.jpg"
	if url != want || thumb != want {
		t.Fatalf("url = %q thumb = %q", url, thumb)
	}
}

func TestUploadImage_PublicURLAndErrors(t *testing.T) {
	s := NewWithClient(&fakeS3{}, "b", "r", "https://cdn.test/")
	if got := s.ObjectURL("k.jpg"); got != "https://cdn.test/k.jpg" {
		t.Fatalf("url = %q", got)
	}
	failing := NewWithClient(&fakeS3{err: errors.New("denied")}, "b", "r", "")
	if _, _, err := failing.UploadImage(context.Background(), strings.NewReader("x"), "f", "p"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := New(context.Background(), "", "", ""); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v", err)
	}
}
