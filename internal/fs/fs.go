// Package fs holds the file permissions and write helpers shared by setup,
// config and validate. Everything goes through an afero.Fs so callers can
// swap in a memory filesystem.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

const (
	// Strict permissions (gosec-compliant defaults)
	FileStrict = 0o600 // rw------- credential files

	// Git-compatible permissions
	DirGit   = 0o755 // rwxr-xr-x
	FileExec = 0o755 // rwxr-xr-x wrapper scripts
	FileGit  = 0o644 // rw-r--r-- tracked files such as .gitignore
)

// OS returns the real filesystem.
func OS() afero.Fs {
	return afero.NewOsFs()
}

// Or returns fsys, falling back to the real filesystem when it is nil.
func Or(fsys afero.Fs) afero.Fs {
	if fsys == nil {
		return OS()
	}
	return fsys
}

// DirectoryExists checks if a directory exists
func DirectoryExists(fsys afero.Fs, path string) bool {
	info, err := fsys.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// FileExists checks if path exists and is a file (not a directory)
func FileExists(fsys afero.Fs, path string) bool {
	info, err := fsys.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// WriteFileAtomic writes data to a temp file next to path, sets perm on it and
// renames it into place. An existing file at path never holds partial content
// or the previous mode.
func WriteFileAtomic(fsys afero.Fs, path string, data []byte, perm os.FileMode) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, DirGit); err != nil {
			return err
		}
	}

	tmpPath := fmt.Sprintf("%s.tmp.%d.%d", path, os.Getpid(), time.Now().UnixNano())
	if err := afero.WriteFile(fsys, tmpPath, data, perm); err != nil {
		return err
	}
	// The umask can strip bits from the create mode.
	if err := fsys.Chmod(tmpPath, perm); err != nil {
		_ = fsys.Remove(tmpPath)
		return err
	}
	if err := fsys.Rename(tmpPath, path); err != nil {
		_ = fsys.Remove(tmpPath)
		return err
	}
	return nil
}

// WriteFileExclusive writes data to path, failing with os.ErrExist when the
// file is already there.
func WriteFileExclusive(fsys afero.Fs, path string, data []byte, perm os.FileMode) error {
	f, err := fsys.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = fsys.Remove(path)
		return err
	}
	return f.Close()
}
