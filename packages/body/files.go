package body

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/abdul-hamid-achik/hitcurl/packages/errs"
)

// FileReader opens files named on the command line.
type FileReader interface {
	Open(path string) (io.ReadCloser, error)
}

// OSFiles reads from the local filesystem. The path "-" reads Stdin.
type OSFiles struct {
	Stdin io.Reader
}

func (f OSFiles) Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		in := f.Stdin
		if in == nil {
			in = os.Stdin
		}
		return io.NopCloser(in), nil
	}
	return os.Open(path)
}

// MemFiles serves files from memory. It is meant for tests and records how
// many times each path was opened.
type MemFiles struct {
	mu    sync.Mutex
	files map[string][]byte
	opens map[string]int
}

func NewMemFiles(files map[string]string) *MemFiles {
	m := &MemFiles{
		files: make(map[string][]byte, len(files)),
		opens: make(map[string]int),
	}
	for k, v := range files {
		m.files[k] = []byte(v)
	}
	return m
}

func (m *MemFiles) Open(path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opens[path]++
	data, ok := m.files[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Opens returns how many times path was opened.
func (m *MemFiles) Opens(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens[path]
}

// ReadFile reads path fully through files and always releases the handle.
func ReadFile(files FileReader, path string) ([]byte, error) {
	rc, err := files.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrBodySourceUnreadable, err, "%s", path)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errs.Wrap(errs.ErrBodySourceUnreadable, err, "%s", path)
	}
	return data, nil
}
