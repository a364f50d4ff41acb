package listener

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/oj-lab/judger/internal/langspec"
	"github.com/oj-lab/judger/internal/rlimit"
	"github.com/oj-lab/judger/internal/sandbox"
)

func TestRunReportsSpawnFailure(t *testing.T) {
	var sink bytes.Buffer
	l := New(&sink)

	missingHelper := filepath.Join(t.TempDir(), "no-such-helper")
	executor := &langspec.Executor{Language: langspec.Cpp, Path: "/bin/true"}
	sb := sandbox.New(missingHelper, executor, rlimit.ScriptSet(), false)

	if err := l.Run(context.Background(), sb); err == nil {
		t.Fatal("expected Run to fail when the helper binary does not exist")
	}

	msg := l.Message()
	if msg.Err == "" {
		t.Error("Message().Err should be populated after a spawn failure")
	}
	if msg.Result != nil {
		t.Errorf("Message().Result = %+v, want nil on spawn failure", msg.Result)
	}

	var decoded ExitMessage
	if err := json.Unmarshal(bytes.TrimSpace(sink.Bytes()), &decoded); err != nil {
		t.Fatalf("sink did not contain valid JSON: %v", err)
	}
	if decoded.Err == "" {
		t.Error("sink's JSON report should carry the error")
	}
}

func TestMessageIsZeroValueBeforeRun(t *testing.T) {
	l := New(nil)
	msg := l.Message()
	if msg.Err != "" || msg.Result != nil {
		t.Errorf("Message() before Run = %+v, want zero value", msg)
	}
}
