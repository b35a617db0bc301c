package util

import (
	"path/filepath"
	"strings"
)

// SafeDataFileName reduces name to a bare file name with an allowed extension.
// Directory components are dropped so uploads cannot escape the data directory.
func SafeDataFileName(name string) (string, error) {
	base := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(name, "\\", "/")))
	if base == "/" || base == "." || base == ".." || strings.HasPrefix(base, ".") {
		return "", ErrInvalidFileName
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, allowed := range AllowedDataExtensions {
		if ext == allowed {
			return base, nil
		}
	}
	return "", ErrInvalidFileName
}
