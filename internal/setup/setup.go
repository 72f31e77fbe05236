// Package setup writes the local credential file and the deploy wrapper.
package setup

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/subosito/gotenv"

	"github.com/sqve/shipit/internal/config"
	shiperrors "github.com/sqve/shipit/internal/errors"
	shipfs "github.com/sqve/shipit/internal/fs"
	"github.com/sqve/shipit/internal/logger"
	"github.com/sqve/shipit/internal/ui"
)

// Options are the per-invocation inputs of `shipit setup`.
type Options struct {
	// Dir is the project root; files are written relative to it.
	Dir string
	// Token takes precedence over the environment.
	Token string
	// ForceWrapper replaces a wrapper script shipit did not generate.
	ForceWrapper bool
	// Binary is the shipit executable the wrapper execs.
	Binary string
}

// Result lists what a run changed.
type Result struct {
	CredentialFile   string
	GitignoreUpdated bool
	WrapperPath      string
	WrapperWritten   bool
}

// Helper performs the one-time project setup.
type Helper struct {
	fs        afero.Fs
	cfg       config.SetupConfig
	tokenEnv  string
	printer   *ui.Printer
	lookupEnv func(string) (string, bool)
}

func New(fs afero.Fs, cfg *config.Config, printer *ui.Printer) *Helper {
	return &Helper{
		fs:        shipfs.Or(fs),
		cfg:       cfg.Setup,
		tokenEnv:  cfg.Deploy.TokenEnv,
		printer:   printer,
		lookupEnv: os.LookupEnv,
	}
}

// WithEnv sets the lookup used when no token argument is given.
func (h *Helper) WithEnv(lookup func(string) (string, bool)) *Helper {
	h.lookupEnv = lookup
	return h
}

// Run writes the credential file, ignores it in git and renders the wrapper.
// Nothing is written when no token is available.
func (h *Helper) Run(opts Options) (*Result, error) {
	log := logger.WithComponent("setup")

	token := strings.TrimSpace(opts.Token)
	if token == "" {
		value, _ := h.lookupEnv(h.tokenEnv)
		token = strings.TrimSpace(value)
	}
	if token == "" {
		return nil, shiperrors.ErrTokenMissing(h.tokenEnv)
	}

	result := &Result{
		CredentialFile: filepath.Join(opts.Dir, h.cfg.EnvFile),
		WrapperPath:    filepath.Join(opts.Dir, h.cfg.Wrapper),
	}

	if err := h.writeCredentials(result.CredentialFile, token); err != nil {
		return result, err
	}
	h.printer.Success("Wrote %s", h.cfg.EnvFile)
	log.Debug("credential file written", "path", result.CredentialFile, "key", h.tokenEnv)

	updated, err := EnsureIgnored(h.fs, filepath.Join(opts.Dir, h.cfg.Gitignore), h.cfg.EnvFile)
	if err != nil {
		return result, err
	}
	result.GitignoreUpdated = updated
	if updated {
		h.printer.Success("Added %s to %s", h.cfg.EnvFile, h.cfg.Gitignore)
	} else {
		h.printer.Info("%s already lists %s", h.cfg.Gitignore, h.cfg.EnvFile)
	}

	written, err := h.writeWrapper(result.WrapperPath, opts)
	if err != nil {
		return result, err
	}
	result.WrapperWritten = written
	if written {
		h.printer.Success("Wrote %s", h.cfg.Wrapper)
	} else {
		h.printer.Warning("%s was not generated by shipit, keeping it (use --force-wrapper to replace it)", h.cfg.Wrapper)
	}

	h.printer.Info("Deploy with ./%s [message]", h.cfg.Wrapper)
	return result, nil
}

func (h *Helper) writeCredentials(path, token string) error {
	content, err := EncodeCredential(h.tokenEnv, token)
	if err != nil {
		return err
	}

	if err := shipfs.WriteFileAtomic(h.fs, path, content, shipfs.FileStrict); err != nil {
		return shiperrors.ErrFileSystem("write credentials", err).WithContext("path", path)
	}
	return nil
}

// EncodeCredential renders key and token as one single-quoted line, which
// both sh and the dotenv parser read back literally. Tokens containing a
// single quote or a line break cannot be written that way and are rejected.
func EncodeCredential(key, token string) ([]byte, error) {
	if strings.ContainsAny(token, "'\r\n") {
		return nil, shiperrors.ErrTokenInvalid(key, "it contains a single quote or line break")
	}

	line := fmt.Sprintf("%s='%s'\n", key, token)

	env, err := gotenv.StrictParse(strings.NewReader(line))
	if err != nil {
		return nil, shiperrors.ErrTokenInvalid(key, err.Error())
	}
	if env[key] != token {
		return nil, shiperrors.ErrTokenInvalid(key, "it does not read back unchanged")
	}
	return []byte(line), nil
}

func (h *Helper) writeWrapper(path string, opts Options) (bool, error) {
	binary := opts.Binary
	if binary == "" {
		binary = "shipit"
	}

	content, err := renderWrapper(wrapperData{EnvFile: h.cfg.EnvFile, TokenEnv: h.tokenEnv, Binary: binary})
	if err != nil {
		return false, shiperrors.ErrFileSystem("render wrapper", err)
	}

	existing, err := afero.ReadFile(h.fs, path)
	switch {
	case err == nil && !bytes.Equal(existing, content) && !opts.ForceWrapper && !isGenerated(existing):
		return false, nil
	case err != nil && !os.IsNotExist(err):
		return false, shiperrors.ErrFileSystem("read wrapper", err).WithContext("path", path)
	}

	if err := shipfs.WriteFileAtomic(h.fs, path, content, shipfs.FileExec); err != nil {
		return false, shiperrors.ErrFileSystem("write wrapper", err).WithContext("path", path)
	}
	return true, nil
}

func isGenerated(content []byte) bool {
	return bytes.Contains(content, []byte("# Generated by shipit setup."))
}

// ReadCredentials parses a credential file.
func ReadCredentials(fs afero.Fs, path string) (gotenv.Env, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return gotenv.StrictParse(f)
}

// EnsureIgnored appends entry to the gitignore at path unless an identical
// line is already present. It reports whether the file changed.
func EnsureIgnored(fs afero.Fs, path, entry string) (bool, error) {
	existing, err := afero.ReadFile(fs, path)
	if err != nil && !os.IsNotExist(err) {
		return false, shiperrors.ErrFileSystem("read gitignore", err).WithContext("path", path)
	}

	for _, line := range strings.Split(string(existing), "\n") {
		if strings.TrimRight(line, "\r") == entry {
			return false, nil
		}
	}

	var buf bytes.Buffer
	buf.Write(existing)
	if len(existing) > 0 && !bytes.HasSuffix(existing, []byte("\n")) {
		buf.WriteByte('\n')
	}
	buf.WriteString(entry + "\n")

	if err := afero.WriteFile(fs, path, buf.Bytes(), shipfs.FileGit); err != nil {
		return false, shiperrors.ErrFileSystem("write gitignore", err).WithContext("path", path)
	}
	return true, nil
}
