package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// File keeps every key in one JSON object on disk, rewritten on each change.
type File struct {
	mu   sync.RWMutex
	file *os.File
	data map[string]string
}

// OpenFile loads path, creating it when missing. A file that does not
// decode is renamed to path.corrupt-<unix> and the store starts empty.
func OpenFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	kv, err := openFile(path)
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if err == nil || !(errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF)) {
		return kv, err
	}

	aside := fmt.Sprintf("%s.corrupt-%d", path, time.Now().Unix())
	if rerr := os.Rename(path, aside); rerr != nil {
		return nil, fmt.Errorf("move corrupt %s aside: %w", path, rerr)
	}
	log.Printf("storage: %s unreadable (%v), moved to %s, starting empty", path, err, aside)
	return openFile(path)
}

func openFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}
	kv := &File{file: f, data: map[string]string{}}
	if err := kv.load(); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return kv, nil
}

func (kv *File) Close() error { return kv.file.Close() }

func (kv *File) load() error {
	info, err := kv.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return nil
	}
	return json.NewDecoder(kv.file).Decode(&kv.data)
}

func (kv *File) flushLocked() error {
	if _, err := kv.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	enc := json.NewEncoder(kv.file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(kv.data); err != nil {
		return err
	}
	// truncate in case new content is shorter
	pos, err := kv.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if err := kv.file.Truncate(pos); err != nil {
		return err
	}
	return kv.file.Sync()
}

func (kv *File) withWrite(ctx context.Context, fn func(map[string]string)) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	fn(kv.data)
	return kv.flushLocked()
}

func (kv *File) Get(_ context.Context, key string) (string, bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	v, ok := kv.data[key]
	return v, ok, nil
}

func (kv *File) Set(ctx context.Context, key, value string) error {
	return kv.withWrite(ctx, func(m map[string]string) { m[key] = value })
}

func (kv *File) Remove(ctx context.Context, key string) error {
	return kv.withWrite(ctx, func(m map[string]string) { delete(m, key) })
}
