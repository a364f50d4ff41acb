package logger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/oj-lab/judger/internal/contextkey"
)

func TestNewRejectsInvalidLevel(t *testing.T) {
	if _, err := New(Config{Level: "not-a-level"}); err == nil {
		t.Fatal("expected an error for an invalid log level")
	}
}

func TestNewWritesToAFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "judger.log")

	l, err := New(Config{Level: "info", Format: "json", OutputPath: path, Service: "judger"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.WithContext(context.Background()).Info("hello")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected the log file to contain the logged line")
	}
}

func TestWithContextExtractsKnownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "judger.log")

	l, err := New(Config{Level: "info", Format: "json", OutputPath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.WithValue(context.Background(), contextkey.SubmissionID, "sub-123")
	l.WithContext(ctx).Info("judging", zap.String("extra", "field"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "sub-123") {
		t.Errorf("expected the logged line to carry submission_id=sub-123, got %s", data)
	}
}
