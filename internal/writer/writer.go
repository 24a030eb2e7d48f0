// Package writer saves generated Entity/Model sources as .dart files.
package writer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mcncl/dartyper/internal/config"
	"github.com/mcncl/dartyper/internal/models"
)

// pathChars are replaced in file stems so a JSON key can never name a path.
var pathChars = strings.NewReplacer("/", "_", `\`, "_", ":", "_")

func fileStem(code models.GeneratedCode) string {
	return pathChars.Replace(strings.ToLower(code.FileName))
}

func fileName(stem, kind string) string {
	return fmt.Sprintf("%s_%s.dart", stem, kind)
}

// FileName returns the file name for one kind of a record, e.g. "user_address_entity.dart".
func FileName(code models.GeneratedCode, kind string) string {
	return fileName(fileStem(code), kind)
}

// uniqueStems gives every record its own file stem. A record whose stem is
// already taken by an earlier record gets the first free numeric suffix,
// so "user", "user" becomes "user", "user_2".
func uniqueStems(codes []models.GeneratedCode) []string {
	stems := make([]string, len(codes))
	taken := make(map[string]bool, len(codes))
	for i, code := range codes {
		stem := fileStem(code)
		candidate := stem
		for n := 2; taken[candidate]; n++ {
			candidate = fmt.Sprintf("%s_%d", stem, n)
		}
		taken[candidate] = true
		stems[i] = candidate
	}
	return stems
}

// Source returns the code of the given kind.
func Source(code models.GeneratedCode, kind string) string {
	if kind == config.KindModel {
		return code.ModelCode
	}
	return code.EntityCode
}

// Transform rewrites source before it is written, e.g. the cosmetic formatter.
type Transform func(string) string

// Writer writes generated records into a directory.
type Writer struct {
	outDir    string
	workers   int
	transform Transform
}

// New creates a Writer for outDir.
func New(outDir string) *Writer {
	return &Writer{outDir: outDir, workers: 4}
}

// WithWorkers sets the number of parallel writes.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// WithTransform sets a transform applied to every file before writing.
func (w *Writer) WithTransform(t Transform) *Writer {
	w.transform = t
	return w
}

// fileTask is a single file to write.
type fileTask struct {
	path    string
	content string
}

func (w *Writer) tasks(codes []models.GeneratedCode, kinds []string) []fileTask {
	tasks := make([]fileTask, 0, len(codes)*len(kinds))
	stems := uniqueStems(codes)
	for i, code := range codes {
		for _, kind := range kinds {
			content := Source(code, kind)
			if w.transform != nil {
				content = w.transform(content)
			}
			tasks = append(tasks, fileTask{
				path:    filepath.Join(w.outDir, fileName(stems[i], kind)),
				content: content,
			})
		}
	}
	return tasks
}

// Write writes every requested kind of every record and returns the paths in
// record order, entity before model. Records sharing a file name are
// suffixed rather than overwritten. The first failure cancels pending writes.
func (w *Writer) Write(ctx context.Context, codes []models.GeneratedCode, kinds []string) ([]string, error) {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	tasks := w.tasks(codes, kinds)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)

	for _, task := range tasks {
		task := task
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := os.WriteFile(task.path, []byte(task.content), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", task.path, err)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	paths := make([]string, len(tasks))
	for i, task := range tasks {
		paths[i] = task.path
	}
	return paths, nil
}

// Print writes every requested kind of every record to out, each file
// preceded by a "// <file name>" header line.
func Print(out io.Writer, codes []models.GeneratedCode, kinds []string, transform Transform) error {
	first := true
	stems := uniqueStems(codes)
	for i, code := range codes {
		for _, kind := range kinds {
			content := Source(code, kind)
			if transform != nil {
				content = transform(content)
			}
			if !first {
				if _, err := io.WriteString(out, "\n"); err != nil {
					return err
				}
			}
			first = false
			if _, err := fmt.Fprintf(out, "// %s\n%s", fileName(stems[i], kind), content); err != nil {
				return err
			}
			if !strings.HasSuffix(content, "\n") {
				if _, err := io.WriteString(out, "\n"); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
