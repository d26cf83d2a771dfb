package analysis

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidInput indicates an input file outside BaseDir or not a regular file
var ErrInvalidInput = errors.New("invalid input file")

// maxLineSize максимальная длина строки, которую читают сенсоры
const maxLineSize = 1 << 20

// InputFile is a file to analyze
type InputFile struct {
	Path    string // относительно BaseDir, через '/'
	AbsPath string
}

// Lines calls fn for every line of the file, numbered from 1, until fn returns false
func (f InputFile) Lines(fn func(n int, line string) bool) error {
	file, err := os.Open(f.AbsPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	n := 0
	for scanner.Scan() {
		n++
		if !fn(n, scanner.Text()) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", f.Path, err)
	}
	return nil
}

// ResolveInputFiles turns cfg.InputFiles into InputFiles.
// With no input files every regular file under BaseDir is taken, skipping hidden directories.
func ResolveInputFiles(ctx context.Context, cfg Config) ([]InputFile, error) {
	base, err := filepath.Abs(cfg.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base dir: %w", err)
	}

	if len(cfg.InputFiles) > 0 {
		files := make([]InputFile, 0, len(cfg.InputFiles))
		for _, p := range cfg.InputFiles {
			local := filepath.FromSlash(p)
			if !filepath.IsLocal(local) {
				return nil, fmt.Errorf("%w: %s is outside base dir", ErrInvalidInput, p)
			}
			abs := filepath.Join(base, local)
			info, err := os.Stat(abs)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
			}
			if !info.Mode().IsRegular() {
				return nil, fmt.Errorf("%w: %s is not a regular file", ErrInvalidInput, p)
			}
			files = append(files, InputFile{Path: filepath.ToSlash(local), AbsPath: abs})
		}
		return files, nil
	}

	var files []InputFile
	err = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != base && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		files = append(files, InputFile{Path: filepath.ToSlash(rel), AbsPath: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list input files: %w", err)
	}
	return files, nil
}
