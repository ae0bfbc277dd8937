package ops

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hpungsan/winterarc/internal/config"
	"github.com/hpungsan/winterarc/internal/errors"
	"github.com/hpungsan/winterarc/internal/foodlog"
	"github.com/hpungsan/winterarc/internal/tracker"
)

// ExportSchemaVersion is written to the header line of every export.
const ExportSchemaVersion = "1.0"

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path string // optional, default: ~/.winterarc/exports/<store_key>-<timestamp>.jsonl
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path          string `json:"path"`
	Count         int    `json:"count"`
	TotalCalories int    `json:"total_calories"`
	ExportedAt    int64  `json:"exported_at"`
}

// Export writes the log to a JSONL file: one header line, then one line per
// entry, newest first. The file is written to a temp name and renamed into
// place, so an existing export is never left half-written.
func Export(ctx context.Context, tr *tracker.Tracker, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	now := tr.Now()
	entries, totals := tr.Snapshot()

	exportPath := input.Path
	if exportPath == "" {
		var err error
		exportPath, err = defaultExportPath(cfg, now)
		if err != nil {
			return nil, err
		}
	}

	// Default paths are validated too; the store key is user-controlled
	if err := ValidateExportPath(exportPath, cfg); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := createNoFollow(tempPath, 0600)
	if err != nil {
		if _, ok := err.(*errors.ArcError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	header := foodlog.ExportHeader{
		WinterarcExport: true,
		SchemaVersion:   ExportSchemaVersion,
		ExportedAt:      now.Unix(),
		Goal:            totals.Goal,
		TotalCalories:   totals.TotalCalories,
	}
	if err := enc.Encode(header); err != nil {
		return nil, errors.NewInternal(err)
	}

	for _, e := range entries {
		if err := checkCancelled(ctx, "export"); err != nil {
			return nil, err
		}
		if err := enc.Encode(foodlog.EntryToExportRecord(e)); err != nil {
			return nil, errors.NewInternal(err)
		}
	}

	if err := w.Flush(); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlink planted after validation
	if info, err := os.Lstat(exportPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.NewInvalidField("path", "export path is a symlink")
	}

	// Windows refuses to rename over an existing file; keep the old one.
	if err := os.Rename(tempPath, exportPath); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(exportPath); statErr == nil {
				return nil, errors.NewInvalidField("path", "export destination already exists; choose a new path")
			}
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return &ExportOutput{
		Path:          exportPath,
		Count:         len(entries),
		TotalCalories: totals.TotalCalories,
		ExportedAt:    now.Unix(),
	}, nil
}

// defaultExportPath returns ~/.winterarc/exports/<store_key>-<timestamp>.jsonl.
func defaultExportPath(cfg *config.Config, now time.Time) (string, error) {
	dir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}

	key := "foodLog"
	if cfg != nil && cfg.StoreKey != "" {
		key = cfg.StoreKey
	}
	filename := fmt.Sprintf("%s-%s.jsonl", SanitizeForFilename(key), now.Format("2006-01-02T150405"))
	return filepath.Join(dir, filename), nil
}
