package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dyluth/figplot/internal/config"
)

// CheckExisting returns an error if dir already holds a figplot.yml
func CheckExisting(dir string) error {
	if _, err := os.Stat(filepath.Join(dir, config.DefaultPath)); err != nil {
		return nil
	}

	errMsg := "project already initialized\n\n"
	errMsg += fmt.Sprintf("Found existing: %s\n", config.DefaultPath)
	errMsg += "\nUse 'figplot init --force' to reinitialize (this will overwrite existing configuration)"
	return fmt.Errorf("%s", errMsg)
}
