// internal/storage/archive/s3_test.go
package archive

import (
	"errors"
	"strings"
	"testing"
)

func TestS3Storage_ImplementsStorage(t *testing.T) {
	var _ Storage = (*S3Storage)(nil)
}

func TestS3Storage_Key(t *testing.T) {
	tests := []struct {
		prefix string
		path   string
		want   string
	}{
		{"", "reports/EURUSD/run-1.json", "reports/EURUSD/run-1.json"},
		{"fxlab", "reports/EURUSD/run-1.json", "fxlab/reports/EURUSD/run-1.json"},
		{"fxlab/", "reports/EURUSD/run-1.json", "fxlab/reports/EURUSD/run-1.json"},
	}

	for _, tt := range tests {
		s := &S3Storage{prefix: strings.TrimSuffix(tt.prefix, "/")}
		got := s.key(tt.path)
		if got != tt.want {
			t.Errorf("key(%q) with prefix %q = %q, want %q", tt.path, tt.prefix, got, tt.want)
		}
	}
}

func TestMissingObject(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("operation error S3: GetObject, NoSuchKey: the specified key does not exist"), true},
		{errors.New("operation error S3: HeadObject, https response error StatusCode: 404"), true},
		{errors.New("NotFound: Not Found"), true},
		{errors.New("operation error S3: GetObject, AccessDenied"), false},
	}
	for _, tt := range tests {
		if got := missingObject(tt.err); got != tt.want {
			t.Errorf("missingObject(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
