package sftp

import (
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/quocson95/scpick/pkg/apperr"
)

// TransferType distinguishes between upload and download
type TransferType int

const (
	TransferUpload TransferType = iota
	TransferDownload
)

func (t TransferType) String() string {
	if t == TransferDownload {
		return "download"
	}
	return "upload"
}

// Transferrer moves single files over an established session
type Transferrer interface {
	Put(localPath, remotePath string) error
	Get(remotePath, localPath string) error
}

// TransferJob describes one direct transfer
type TransferJob struct {
	Type       TransferType
	FilePath   string
	FileName   string
	LocalPath  string
	RemotePath string
}

// TransferStatusMsg reports the outcome of one TransferJob
type TransferStatusMsg struct {
	Job     TransferJob
	Message string
	Err     error
}

// Executor sends or fetches one file at a time to a fixed location.
// Each call runs on its own goroutine; nothing is queued or cancelled.
type Executor struct {
	engine    Transferrer
	remoteDir string
	localDir  string
	updates   chan TransferStatusMsg
	exists    func(path string) bool
}

// NewExecutor creates an executor that uploads into remoteDir and
// downloads into localDir
func NewExecutor(engine Transferrer, remoteDir, localDir string) *Executor {
	return &Executor{
		engine:    engine,
		remoteDir: remoteDir,
		localDir:  localDir,
		updates:   make(chan TransferStatusMsg, 16),
		exists:    localExists,
	}
}

func localExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// Updates delivers one TransferStatusMsg per Transfer call, in completion order
func (e *Executor) Updates() <-chan TransferStatusMsg {
	return e.updates
}

// Resolve decides direction and destination for filePath. A path that
// exists locally is uploaded; anything else is treated as a remote path.
func (e *Executor) Resolve(filePath string) TransferJob {
	if e.exists(filePath) {
		name := filepath.Base(filePath)
		return TransferJob{
			Type:       TransferUpload,
			FilePath:   filePath,
			FileName:   name,
			LocalPath:  filePath,
			RemotePath: path.Join(e.remoteDir, name),
		}
	}

	name := path.Base(filePath)
	return TransferJob{
		Type:       TransferDownload,
		FilePath:   filePath,
		FileName:   name,
		LocalPath:  filepath.Join(e.localDir, name),
		RemotePath: filePath,
	}
}

// Transfer starts moving filePath in the background and returns at once
func (e *Executor) Transfer(filePath string) TransferJob {
	job := e.Resolve(filePath)
	log.Printf("[INFO] Starting %s: %s -> %s", job.Type, job.LocalPath, job.RemotePath)
	go e.run(job)
	return job
}

func (e *Executor) run(job TransferJob) {
	var err error
	if job.Type == TransferUpload {
		err = e.engine.Put(job.LocalPath, job.RemotePath)
	} else {
		err = e.engine.Get(job.RemotePath, job.LocalPath)
	}

	if err != nil {
		log.Printf("[ERROR] Transfer failed for %s: %v", job.FileName, err)
		e.updates <- TransferStatusMsg{
			Job:     job,
			Message: "Transfer failed: " + err.Error(),
			Err:     apperr.New(apperr.TransferFailed, job.Type.String()+" "+job.FileName, err),
		}
		return
	}

	log.Printf("[INFO] Transfer completed: %s", job.FileName)
	e.updates <- TransferStatusMsg{
		Job:     job,
		Message: "Transfer completed: " + job.FileName,
	}
}
