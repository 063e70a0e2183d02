package store

import (
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
)

func TestNewMinioStore_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  MinioConfig
	}{
		{"missing bucket", MinioConfig{Endpoint: "localhost:9000"}},
		{"missing endpoint", MinioConfig{Bucket: "daily"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMinioStore(tt.cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("NewMinioStore() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestNewMinioStore(t *testing.T) {
	s, err := NewMinioStore(MinioConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "daily",
		Prefix:    "/archive/",
	})
	if err != nil {
		t.Fatalf("NewMinioStore() error = %v", err)
	}
	if got := s.layout.ObjectName("2024-03-09"); got != "archive/2024-03-09.json" {
		t.Errorf("ObjectName() = %q", got)
	}
}

func TestTranslateMinio(t *testing.T) {
	missing := minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}
	if err := translateMinio("read", "2024-03-09", missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("NoSuchKey -> %v, want ErrNotFound", err)
	}

	denied := minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}
	err := translateMinio("read", "2024-03-09", denied)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("AccessDenied -> %v, want ErrStoreUnavailable", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("AccessDenied must not map to ErrNotFound")
	}

	wrapped := unavailable("read", errors.New("eof"))
	if got := translateMinio("read", "2024-03-09", wrapped); got != wrapped {
		t.Errorf("already-wrapped error was rewrapped: %v", got)
	}
}

func TestIsMinioNotFound(t *testing.T) {
	if !isMinioNotFound(minio.ErrorResponse{Code: "NotFound"}) {
		t.Error("NotFound should be not-found")
	}
	if isMinioNotFound(errors.New("dial tcp: refused")) {
		t.Error("plain error should not be not-found")
	}
}
