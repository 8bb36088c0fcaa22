package s3

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "user/file.pdf", want: "user/file.pdf"},
		{name: "simple prefix", prefix: "root", key: "user/file.pdf", want: "root/user/file.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "user/file.pdf", want: "root/user/file.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/user/file.pdf", want: "root/user/file.pdf"},
		{name: "nested prefix", prefix: "root/sub", key: "user/file.pdf", want: "root/sub/user/file.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestApplyEncryption(t *testing.T) {
	t.Parallel()

	input := &s3.PutObjectInput{}
	applyEncryption(input, "")
	if input.ServerSideEncryption != s3types.ServerSideEncryptionAes256 {
		t.Fatalf("expected AES256 default, got %q", input.ServerSideEncryption)
	}
	if input.SSEKMSKeyId != nil {
		t.Fatalf("expected no kms key id")
	}

	input = &s3.PutObjectInput{}
	applyEncryption(input, "kms-123")
	if input.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms {
		t.Fatalf("expected aws:kms, got %q", input.ServerSideEncryption)
	}
	if input.SSEKMSKeyId == nil || *input.SSEKMSKeyId != "kms-123" {
		t.Fatalf("expected kms key id to be set")
	}
}

func TestNewRequiresBucket(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), "us-east-1", "", "", ""); err == nil {
		t.Fatalf("expected error for empty bucket")
	}
}
