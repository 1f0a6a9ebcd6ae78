// Package ingest reads document files from disk and feeds them through
// the processing pipeline into the store.
//
// Batch processing runs a bounded worker pool with per-file isolation:
// one unreadable or oversized file is recorded as an error and never
// aborts the rest of the batch.
package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/docsift/docsift/internal/docproc"
	"github.com/docsift/docsift/internal/store"
)

// DefaultMaxFileSize is 10MB.
const DefaultMaxFileSize = 10 * 1024 * 1024

// DefaultWorkers is the batch worker pool size.
const DefaultWorkers = 4

// supportedExtensions lists the file types DiscoverFiles picks up.
var supportedExtensions = map[string]bool{
	".txt":  true,
	".text": true,
	".md":   true,
	".log":  true,
}

// ReadFile loads one document file into a pipeline input. Files larger
// than maxSize (or DefaultMaxFileSize when maxSize <= 0) are rejected.
func ReadFile(path string, maxSize int64) (docproc.RawInput, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	info, err := os.Stat(path)
	if err != nil {
		return docproc.RawInput{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return docproc.RawInput{}, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > maxSize {
		return docproc.RawInput{}, fmt.Errorf("%s exceeds size limit (%d > %d bytes)", path, info.Size(), maxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return docproc.RawInput{}, fmt.Errorf("reading %s: %w", path, err)
	}

	return docproc.RawInput{
		Text:     string(data),
		Filename: filepath.Base(path),
		Size:     info.Size(),
		MIMEType: mimeTypeFor(path),
	}, nil
}

// mimeByExt pins MIME types for supported document extensions. The
// system mime table varies by platform, so these stay fixed.
var mimeByExt = map[string]string{
	".txt":  "text/plain",
	".text": "text/plain",
	".log":  "text/plain",
	".md":   "text/markdown",
}

// mimeTypeFor resolves a MIME type from the file extension, defaulting
// to text/plain.
func mimeTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := mimeByExt[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if i := strings.Index(t, ";"); i >= 0 {
			t = t[:i]
		}
		return t
	}
	return "text/plain"
}

// DiscoverFiles walks root and returns supported document files in
// sorted order. With recursive false only the top level is scanned.
func DiscoverFiles(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if supportedExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// BatchError records a non-fatal error for one file in a batch.
type BatchError struct {
	File    string
	Message string
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	FilesScanned   int
	FilesProcessed int
	FilesFailed    int
	DocumentIDs    []string
	Errors         []BatchError
}

// Engine processes files through the pipeline and persists results.
type Engine struct {
	pipeline *docproc.Pipeline
	store    store.Store
	workers  int
	maxSize  int64
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithWorkers sets the batch worker pool size.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithMaxFileSize sets the per-file size limit in bytes.
func WithMaxFileSize(n int64) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxSize = n
		}
	}
}

// NewEngine creates a batch engine over a pipeline and store.
func NewEngine(p *docproc.Pipeline, s store.Store, opts ...EngineOption) *Engine {
	e := &Engine{
		pipeline: p,
		store:    s,
		workers:  DefaultWorkers,
		maxSize:  DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessFile reads, processes, and persists one file.
func (e *Engine) ProcessFile(ctx context.Context, path string) (*store.Document, error) {
	in, err := ReadFile(path, e.maxSize)
	if err != nil {
		return nil, err
	}
	res := e.pipeline.Process(in)
	doc, err := e.store.SaveResult(ctx, res)
	if err != nil {
		return nil, fmt.Errorf("saving %s: %w", path, err)
	}
	return doc, nil
}

// ProcessBatch runs paths through a worker pool. Per-file failures are
// collected in the result; only context cancellation aborts the batch.
func (e *Engine) ProcessBatch(ctx context.Context, paths []string, progress func(current, total int, file string)) (*BatchResult, error) {
	result := &BatchResult{FilesScanned: len(paths)}
	if len(paths) == 0 {
		return result, nil
	}

	workers := e.workers
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan string)
	var mu sync.Mutex
	var wg sync.WaitGroup
	done := 0

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for path := range jobs {
				doc, err := e.ProcessFile(ctx, path)

				mu.Lock()
				done++
				if err != nil {
					result.FilesFailed++
					result.Errors = append(result.Errors, BatchError{File: path, Message: err.Error()})
				} else {
					result.FilesProcessed++
					result.DocumentIDs = append(result.DocumentIDs, doc.ID)
				}
				if progress != nil {
					progress(done, len(paths), path)
				}
				mu.Unlock()
			}
		}()
	}

	var cancelled error
feed:
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case jobs <- path:
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	sort.Slice(result.Errors, func(i, j int) bool { return result.Errors[i].File < result.Errors[j].File })
	return result, cancelled
}
