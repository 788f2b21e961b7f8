package sftp

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/quocson95/scpick/pkg/apperr"
)

type call struct {
	op   string
	from string
	to   string
}

// fakeEngine records calls and can block or fail them
type fakeEngine struct {
	mu      sync.Mutex
	calls   []call
	fail    map[string]error
	release chan struct{}
}

func (f *fakeEngine) record(op, from, to string) error {
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op, from, to})
	return f.fail[from]
}

func (f *fakeEngine) Put(localPath, remotePath string) error {
	return f.record("put", localPath, remotePath)
}

func (f *fakeEngine) Get(remotePath, localPath string) error {
	return f.record("get", remotePath, localPath)
}

func waitUpdate(t *testing.T, e *Executor) TransferStatusMsg {
	t.Helper()
	select {
	case msg := <-e.Updates():
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for transfer update")
		return TransferStatusMsg{}
	}
}

func TestExecutor_Resolve(t *testing.T) {
	localDir := t.TempDir()
	existing := filepath.Join(localDir, "report.pdf")
	if err := os.WriteFile(existing, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	e := NewExecutor(&fakeEngine{}, "/root", "/home/u")

	t.Run("Core Functionality: existing local path uploads", func(t *testing.T) {
		job := e.Resolve(existing)
		if job.Type != TransferUpload {
			t.Fatalf("type = %v", job.Type)
		}
		if job.RemotePath != "/root/report.pdf" || job.LocalPath != existing {
			t.Errorf("job = %+v", job)
		}
	})

	t.Run("Core Functionality: missing local path downloads", func(t *testing.T) {
		e.exists = func(string) bool { return false }
		defer func() { e.exists = localExists }()

		job := e.Resolve("/var/log/app.log")
		if job.Type != TransferDownload {
			t.Fatalf("type = %v", job.Type)
		}
		if job.LocalPath != filepath.Join("/home/u", "app.log") || job.RemotePath != "/var/log/app.log" {
			t.Errorf("job = %+v", job)
		}
		if job.FileName != "app.log" {
			t.Errorf("FileName = %q", job.FileName)
		}
	})
}

func TestExecutor_Transfer(t *testing.T) {
	t.Run("Core Functionality: completion message", func(t *testing.T) {
		engine := &fakeEngine{}
		e := NewExecutor(engine, "/srv", t.TempDir())
		e.exists = func(string) bool { return true }

		job := e.Transfer("/tmp/data.csv")
		msg := waitUpdate(t, e)

		if msg.Err != nil {
			t.Fatalf("unexpected error: %v", msg.Err)
		}
		if msg.Message != "Transfer completed: data.csv" {
			t.Errorf("Message = %q", msg.Message)
		}
		if msg.Job != job {
			t.Errorf("job mismatch: %+v vs %+v", msg.Job, job)
		}
		if len(engine.calls) != 1 || engine.calls[0] != (call{"put", "/tmp/data.csv", "/srv/data.csv"}) {
			t.Errorf("calls = %+v", engine.calls)
		}
	})

	t.Run("Error Handling: failure message", func(t *testing.T) {
		engine := &fakeEngine{fail: map[string]error{"/root/big.iso": errors.New("no space left")}}
		e := NewExecutor(engine, "/root", t.TempDir())
		e.exists = func(string) bool { return false }

		e.Transfer("/root/big.iso")
		msg := waitUpdate(t, e)

		if msg.Message != "Transfer failed: no space left" {
			t.Errorf("Message = %q", msg.Message)
		}
		if !apperr.Is(msg.Err, apperr.TransferFailed) {
			t.Errorf("expected TransferFailed, got %v", msg.Err)
		}
	})

	t.Run("Concurrency: Transfer returns before the copy finishes", func(t *testing.T) {
		engine := &fakeEngine{release: make(chan struct{})}
		e := NewExecutor(engine, "/root", t.TempDir())
		e.exists = func(string) bool { return true }

		e.Transfer("/tmp/a")
		e.Transfer("/tmp/b")

		select {
		case msg := <-e.Updates():
			t.Fatalf("update before release: %+v", msg)
		default:
		}

		close(engine.release)
		got := map[string]bool{}
		for i := 0; i < 2; i++ {
			got[waitUpdate(t, e).Job.FileName] = true
		}
		if !got["a"] || !got["b"] {
			t.Errorf("updates = %v", got)
		}
	})
}
