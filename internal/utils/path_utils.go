// Package utils holds small filesystem helpers shared by cmd/coolc.
package utils

import (
	"path/filepath"
	"strings"

	"github.com/coolang/coolc/internal/config"
)

// IsSourceFile reports whether path ends in one of config.SourceFileExtensions.
func IsSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// FileLabel derives the diagnostic-position label from a source path: its
// base name, so diagnostic positions and --dump-ast headers stay short even
// when invoked with a long relative path.
func FileLabel(path string) string {
	return filepath.Base(path)
}
