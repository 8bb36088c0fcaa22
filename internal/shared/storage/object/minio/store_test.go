package minio

import (
	"context"
	"testing"
)

func TestNewValidatesOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "missing endpoint", opts: Options{Bucket: "docs"}},
		{name: "missing bucket", opts: Options{Endpoint: "localhost:9000"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(context.Background(), tt.opts); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
