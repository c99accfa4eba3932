package storage

import (
	"context"
	"testing"
)

func TestNormaliseEndpoint(t *testing.T) {
	tests := []struct {
		in           string
		wantEndpoint string
		wantSecure   bool
		wantErr      bool
	}{
		{"minio:9000", "minio:9000", false, false},
		{" minio:9000 ", "minio:9000", false, false},
		{"http://minio:9000", "minio:9000", false, false},
		{"https://minio:9000", "minio:9000", true, false},
		{"http://minio:9000/", "minio:9000", false, false},
		{"http://minio:9000/foo", "", false, true},
		{"http://", "", false, true},
		{"", "", false, true},
	}

	for _, tt := range tests {
		ep, secure, err := normaliseEndpoint(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("expected error for input %q", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tt.in, err)
		}
		if ep != tt.wantEndpoint || secure != tt.wantSecure {
			t.Fatalf("normaliseEndpoint(%q) = (%q,%v), want (%q,%v)", tt.in, ep, secure, tt.wantEndpoint, tt.wantSecure)
		}
	}
}

func TestNewBucketStore_Incomplete(t *testing.T) {
	cfgs := []BucketConfig{
		{},
		{Endpoint: "minio:9000"},
		{Endpoint: "minio:9000", AccessKey: "a", SecretKey: "b"},
		{AccessKey: "a", SecretKey: "b", Bucket: "csv"},
	}
	for _, cfg := range cfgs {
		if _, err := NewBucketStore(context.Background(), cfg); err == nil {
			t.Errorf("expected error for %+v", cfg)
		}
	}
}

func TestNewBucketStore_BadEndpoint(t *testing.T) {
	_, err := NewBucketStore(context.Background(), BucketConfig{
		Endpoint:  "http://minio:9000/path",
		AccessKey: "a",
		SecretKey: "b",
		Bucket:    "csv",
	})
	if err == nil {
		t.Fatal("expected error for endpoint with a path")
	}
}

func TestBucketStore_Accessors(t *testing.T) {
	s := &BucketStore{bucket: "csv"}
	if s.Bucket() != "csv" || s.Kind() != "minio" {
		t.Errorf("Bucket/Kind = %q/%q", s.Bucket(), s.Kind())
	}
}
