package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/winterarc/internal/config"
	"github.com/hpungsan/winterarc/internal/errors"
)

// ExportsDirName is the directory under the base dir that exports default to.
const ExportsDirName = "exports"

// ValidateExportPath checks a destination for Export.
//
// The path must end in .jsonl, must not contain "..", and must sit directly
// inside ~/.winterarc/exports or one of cfg.AllowedPaths (subdirectories are
// rejected so no intermediate component can be swapped for a symlink after
// the check). The final component must not be a symlink, even when
// cfg.AllowUnsafePaths lifts the directory restriction.
func ValidateExportPath(path string, cfg *config.Config) error {
	if path == "" {
		return errors.NewInvalidField("path", "path is required")
	}
	if containsTraversal(path) {
		return errors.NewInvalidField("path", "path must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	if filepath.Ext(cleaned) != ".jsonl" {
		return errors.NewInvalidField("path", "path must have .jsonl extension")
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.NewInvalidField("path", fmt.Sprintf("invalid path: %v", err))
	}

	if cfg == nil || !cfg.AllowUnsafePaths {
		allowedDirs, err := allowedExportDirs(cfg)
		if err != nil {
			return err
		}

		parentDir := filepath.Dir(absPath)
		if !isDirectlyIn(parentDir, allowedDirs) {
			return errors.NewInvalidField("path", fmt.Sprintf(
				"file must be directly in an allowed directory (no subdirectories); allowed: %v", allowedDirs))
		}
		if info, err := os.Lstat(parentDir); err == nil && info.Mode()&os.ModeSymlink != 0 {
			return errors.NewInvalidField("path", "parent directory must not be a symlink")
		}
	}

	if info, err := os.Lstat(absPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidField("path", "path must not be a symlink")
	}

	return nil
}

// allowedExportDirs returns ~/.winterarc/exports plus every absolute entry
// of cfg.AllowedPaths. Existing symlinked entries are resolved.
func allowedExportDirs(cfg *config.Config) ([]string, error) {
	defaultDir, err := DefaultExportsDir()
	if err != nil {
		return nil, err
	}
	dirs := []string{defaultDir}
	if cfg != nil {
		for _, p := range cfg.AllowedPaths {
			if filepath.IsAbs(p) {
				dirs = append(dirs, filepath.Clean(p))
			}
		}
	}

	result := make([]string, 0, len(dirs))
	for _, d := range dirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid allowed path: %v", err))
		}
		if info, err := os.Lstat(abs); err == nil && info.Mode()&os.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(abs)
			if err != nil {
				return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot resolve symlink in allowed path: %v", err))
			}
			abs = resolved
		}
		result = append(result, abs)
	}
	return result, nil
}

func isDirectlyIn(parentDir string, dirs []string) bool {
	parentDir = filepath.Clean(parentDir)
	for _, dir := range dirs {
		if parentDir == filepath.Clean(dir) {
			return true
		}
	}
	return false
}

// BaseDir returns ~/.winterarc.
func BaseDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to get home directory: %w", err))
	}
	return filepath.Join(homeDir, ".winterarc"), nil
}

// DefaultExportsDir returns ~/.winterarc/exports.
func DefaultExportsDir() (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, ExportsDirName), nil
}

// containsTraversal reports whether any path component is "..".
// Forward slashes are checked on every platform since paths come from users.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}

// SanitizeForFilename makes s safe to embed in a file name.
func SanitizeForFilename(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, "..", "-")

	var b strings.Builder
	for _, r := range s {
		if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}
	s = b.String()

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")

	if s == "" {
		s = "unnamed"
	}
	return s
}
