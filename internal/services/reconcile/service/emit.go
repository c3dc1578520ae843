package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"depotmap/internal/services/reconcile/domain"
)

// WriteOutputs writes the annotated FeatureCollection and the warning report
// as flat files, creating parent directories as needed
func WriteOutputs(res *domain.Result, outPath, reportPath string) error {
	fc, err := json.Marshal(res.Collection())
	if err != nil {
		return fmt.Errorf("reconcile: encode collection: %w", err)
	}
	if err := writeFile(outPath, fc); err != nil {
		return err
	}

	rep, err := json.MarshalIndent(res.Report, "", "  ")
	if err != nil {
		return fmt.Errorf("reconcile: encode report: %w", err)
	}
	return writeFile(reportPath, append(rep, '\n'))
}

func writeFile(path string, body []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("reconcile: mkdir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("reconcile: write %s: %w", path, err)
	}
	return nil
}
