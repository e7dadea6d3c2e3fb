package artifact

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultInventoryPath        = "files/hosts.ini"
	DefaultConnectionHelperPath = "files/connection_helper"
)

// DefaultSSHConfigPath returns ~/.ssh/config for the current user
func DefaultSSHConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".ssh", "config")
	}
	return filepath.Join(home, ".ssh", "config")
}

// Destinations are the files each artifact is written to
type Destinations struct {
	Inventory        string
	ConnectionHelper string
	SSHConfig        string
}

func (d Destinations) path(k Kind) string {
	switch k {
	case KindInventory:
		return d.Inventory
	case KindConnectionHelper:
		return d.ConnectionHelper
	case KindSSHConfig:
		return d.SSHConfig
	default:
		return ""
	}
}

// DefaultDestinations returns the conventional output locations
func DefaultDestinations() Destinations {
	return Destinations{
		Inventory:        DefaultInventoryPath,
		ConnectionHelper: DefaultConnectionHelperPath,
		SSHConfig:        DefaultSSHConfigPath(),
	}
}

// Result reports what happened to one artifact
type Result struct {
	Kind    Kind
	Path    string
	Bytes   int
	Skipped bool
	Err     error
}

// OK returns true if the artifact was written or intentionally skipped
func (r Result) OK() bool {
	return r.Err == nil
}

// Writer writes an artifact Set to its destinations
type Writer struct {
	Dest Destinations
}

// NewWriter creates a Writer for dest
func NewWriter(dest Destinations) *Writer {
	return &Writer{Dest: dest}
}

// Write writes every artifact. The inventory and connection helper are
// always written, even when empty; the SSH config only when it has content.
// A failing destination does not stop the others.
func (w *Writer) Write(set Set) []Result {
	results := make([]Result, 0, len(kinds))
	for _, k := range kinds {
		path := w.Dest.path(k)
		content := set.Content(k)

		if k == KindSSHConfig && content == "" {
			results = append(results, Result{Kind: k, Path: path, Skipped: true})
			continue
		}

		dirMode, fileMode := os.FileMode(0o755), os.FileMode(0o644)
		if k == KindSSHConfig {
			dirMode, fileMode = 0o700, 0o600
		}
		results = append(results, w.write(k, path, content, dirMode, fileMode))
	}
	return results
}

func (w *Writer) write(kind Kind, path, content string, dirMode, fileMode os.FileMode) Result {
	res := Result{Kind: kind, Path: path}

	if path == "" {
		res.Err = fmt.Errorf("no destination configured for %s", kind)
		return res
	}

	n, err := writeFile(path, content, dirMode, fileMode)
	res.Bytes = n
	if err != nil {
		res.Err = fmt.Errorf("failed to write %s to %s: %w", kind, path, err)
	}
	return res
}

// writeFile truncates and writes path, closing the handle on every path
func writeFile(path, content string, dirMode, fileMode os.FileMode) (n int, err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return 0, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileMode)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return f.WriteString(content)
}
