// =============================================================================
// Business Data Validation Toolkit - File Manager Utility
// =============================================================================
//
// This module provides the file handling shared by the commands:
//   - Directory management
//   - Staged output (all-or-nothing report writes)
//   - Small file helpers
//
// STAGING STRATEGY:
//   A run never leaves a half-written set of reports behind:
//   - Files are first written into a hidden staging directory created inside
//     the output directory (".staging-<uuid>")
//   - Commit renames every staged file into the output directory, or none
//     of them: a failed commit restores the files it had already moved
//   - Discard removes the staging directory and everything in it
//   Because the staging directory lives in the output directory, Commit is a
//   same-filesystem rename per file.
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all given directories if they don't exist.
//
// RETURNS:
//   - An error if any directory cannot be created.
func EnsureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// STAGED OUTPUT
// =============================================================================

// Stage is a set of output files written together.
type Stage struct {
	// OutputDir is the directory the files are committed into.
	OutputDir string

	// Dir is the staging directory the files are written into.
	Dir string

	files map[string]struct{}
	done  bool
}

// NewStage creates the output directory (if needed) and a fresh staging
// directory inside it.
//
// PARAMETERS:
//   - outputDir: The final destination of the files.
//
// RETURNS:
//   - The Stage.
//   - An error if either directory cannot be created.
func NewStage(outputDir string) (*Stage, error) {
	if err := EnsureDirectories(outputDir); err != nil {
		return nil, err
	}

	dir := filepath.Join(outputDir, ".staging-"+uuid.NewString())
	if err := os.Mkdir(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	return &Stage{
		OutputDir: outputDir,
		Dir:       dir,
		files:     make(map[string]struct{}),
	}, nil
}

// Path registers a file name with the stage and returns the path to write it
// to.
func (s *Stage) Path(name string) string {
	s.files[name] = struct{}{}
	return filepath.Join(s.Dir, name)
}

// Files returns the registered file names in lexical order.
func (s *Stage) Files() []string {
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// backupPrefix names the copies of replaced output files kept in the staging
// directory until the commit completes.
const backupPrefix = ".replaced-"

// committedFile records one move made by Commit so that it can be undone.
type committedFile struct {
	name     string
	dst      string
	replaced bool
}

// Commit moves every staged file into the output directory and removes the
// staging directory.
//
// COMMIT STRATEGY:
//   1. Every destination is checked first; a destination that exists and is
//      not a regular file fails the commit before anything is moved
//   2. A file being replaced is moved into the staging directory, then the
//      staged file is moved into place
//   3. If any move fails, the moves already made are undone in reverse
//      order, so the output directory is left as it was
//
// RETURNS:
//   - The final paths of the committed files, in lexical order.
//   - An error if any file cannot be moved. Nothing is committed then.
func (s *Stage) Commit() ([]string, error) {
	if s.done {
		return nil, errors.New("stage already committed or discarded")
	}

	names := s.Files()

	for _, name := range names {
		dst := filepath.Join(s.OutputDir, name)
		info, err := os.Lstat(dst)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to commit %s: %w", name, err)
		case !info.Mode().IsRegular():
			return nil, fmt.Errorf("failed to commit %s: %s exists and is not a regular file", name, dst)
		}
	}

	var moves []committedFile
	for _, name := range names {
		move, err := s.commitFile(name)
		if err != nil {
			s.rollback(moves)
			return nil, fmt.Errorf("failed to commit %s: %w", name, err)
		}
		moves = append(moves, move)
	}

	s.done = true

	committed := make([]string, len(moves))
	for i, m := range moves {
		committed[i] = m.dst
	}
	if err := os.RemoveAll(s.Dir); err != nil {
		return committed, fmt.Errorf("failed to remove staging directory: %w", err)
	}
	return committed, nil
}

// commitFile moves one staged file into place, keeping any file it replaces.
func (s *Stage) commitFile(name string) (committedFile, error) {
	move := committedFile{name: name, dst: filepath.Join(s.OutputDir, name)}

	if _, err := os.Lstat(move.dst); err == nil {
		if err := os.Rename(move.dst, filepath.Join(s.Dir, backupPrefix+name)); err != nil {
			return move, err
		}
		move.replaced = true
	}

	if err := os.Rename(filepath.Join(s.Dir, name), move.dst); err != nil {
		if move.replaced {
			_ = os.Rename(filepath.Join(s.Dir, backupPrefix+name), move.dst)
		}
		return move, err
	}
	return move, nil
}

// rollback undoes committed moves, newest first. It is best effort: the
// commit error is what the caller reports.
func (s *Stage) rollback(moves []committedFile) {
	for i := len(moves) - 1; i >= 0; i-- {
		m := moves[i]
		_ = os.Rename(m.dst, filepath.Join(s.Dir, m.name))
		if m.replaced {
			_ = os.Rename(filepath.Join(s.Dir, backupPrefix+m.name), m.dst)
		}
	}
}

// Discard removes the staging directory. It is a no-op after Commit, so it
// can be deferred unconditionally.
func (s *Stage) Discard() error {
	if s.done {
		return nil
	}
	s.done = true
	return os.RemoveAll(s.Dir)
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a regular file exists.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
