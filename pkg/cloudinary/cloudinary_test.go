package cloudinary

import (
	"errors"
	"strings"
	"testing"
)

func TestNewClientFromParams_NotConfigured(t *testing.T) {
	if _, err := NewClientFromParams("", "key", "secret"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestNewClientFromParams_Configured(t *testing.T) {
	c, err := NewClientFromParams("demo", "key", "secret")
	if err != nil || c == nil {
		t.Fatalf("client = %v, err = %v", c, err)
	}
}

func TestBuildThumbnailURL(t *testing.T) {
	got := BuildThumbnailURL("demo", "DeadSignal/captures/abc/cap_1", 0)
	if !strings.HasPrefix(got, "https://res.cloudinary.com/demo/image/upload/") {
		t.Fatalf("unexpected url %q", got)
	}
	if !strings.Contains(got, "w_240") || !strings.HasSuffix(got, "/cap_1") {
		t.Fatalf("unexpected url %q", got)
	}
}
