package main

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"csv-drop/internal/storage"
)

func TestGetenvDefault(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		def      string
		envValue string
		want     string
	}{
		{
			name:     "env var set",
			key:      "TEST_VAR_SET",
			def:      "default",
			envValue: "custom",
			want:     "custom",
		},
		{
			name:     "env var empty",
			key:      "TEST_VAR_EMPTY",
			def:      "default",
			envValue: "",
			want:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.envValue)

			got := getenvDefault(tt.key, tt.def)
			if got != tt.want {
				t.Errorf("getenvDefault(%q, %q) = %q, want %q", tt.key, tt.def, got, tt.want)
			}
		})
	}
}

func TestSplitOrigins(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"http://localhost:3000", []string{"http://localhost:3000"}},
		{" http://a.test , https://b.test ,", []string{"http://a.test", "https://b.test"}},
	}
	for _, tt := range tests {
		if got := splitOrigins(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitOrigins(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOpenStore_DirDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	t.Setenv("CSVDROP_STORAGE", "")
	t.Setenv("CSVDROP_UPLOAD_DIR", dir)
	t.Setenv("CSVDROP_CONFINE_FILENAMES", "true")

	s, err := openStore(context.Background())
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	ds, ok := s.(*storage.DirStore)
	if !ok {
		t.Fatalf("store is %T, want *storage.DirStore", s)
	}
	if ds.Dir() != dir {
		t.Errorf("Dir = %q, want %q", ds.Dir(), dir)
	}
	if err := ds.Check(context.Background()); err != nil {
		t.Errorf("upload dir not created: %v", err)
	}
	if got := storeLocation(s); got != dir {
		t.Errorf("storeLocation = %q, want %q", got, dir)
	}
}

func TestOpenStore_MinioIncomplete(t *testing.T) {
	t.Setenv("CSVDROP_STORAGE", "minio")
	t.Setenv("CSVDROP_S3_ENDPOINT", "")
	t.Setenv("CSVDROP_BUCKET", "")

	if _, err := openStore(context.Background()); err == nil {
		t.Fatal("expected error for incomplete minio config")
	}
}
