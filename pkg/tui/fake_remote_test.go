package tui

import (
	"errors"
	"sync"

	"github.com/quocson95/scpick/pkg/tree"
)

// fakeRemote serves listings from a map and records transfers
type fakeRemote struct {
	mu      sync.Mutex
	wd      string
	dirs    map[string][]tree.Entry
	failing map[string]error
	puts    [][2]string
	gets    [][2]string
	closed  bool
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		wd: "/home/u",
		dirs: map[string][]tree.Entry{
			"/root": {
				{Name: "notes.txt", Size: 2048},
				{Name: "docs", IsDir: true},
				{Name: "locked", IsDir: true},
			},
			"/root/docs": {
				{Name: "a.md", Size: 10},
			},
			"/home/u": {
				{Name: ".profile", Size: 12},
			},
		},
		failing: map[string]error{
			"/root/locked": errors.New("permission denied"),
		},
	}
}

func (f *fakeRemote) ListDirectory(path string) ([]tree.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failing[path]; ok {
		return nil, err
	}
	entries := f.dirs[path]
	out := make([]tree.Entry, len(entries))
	copy(out, entries)
	return out, nil
}

func (f *fakeRemote) GetWorkingDirectory() (string, error) {
	if f.wd == "" {
		return "", errors.New("getwd unsupported")
	}
	return f.wd, nil
}

func (f *fakeRemote) Put(localPath, remotePath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts = append(f.puts, [2]string{localPath, remotePath})
	return nil
}

func (f *fakeRemote) Get(remotePath, localPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets = append(f.gets, [2]string{remotePath, localPath})
	return errors.New("no such file")
}

func (f *fakeRemote) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
