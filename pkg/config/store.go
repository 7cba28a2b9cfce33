package config

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

type StoreConfig struct {
	Path     string `koanf:"path"`
	FileMode uint32 `koanf:"fileMode"`
}

// String returns a string representation of the store configuration.
func (c *StoreConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Store ---\n")
	b.WriteString(fmt.Sprintf("  path: %s\n", c.Path))
	b.WriteString(fmt.Sprintf("  fileMode: %#o\n", c.FileMode))
	return b.String()
}

// Mode returns the configured file mode as an fs.FileMode.
func (c *StoreConfig) Mode() fs.FileMode {
	return fs.FileMode(c.FileMode)
}

func (c *StoreConfig) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return fmt.Errorf("store path is not configured")
	}
	if strings.HasSuffix(c.Path, string(filepath.Separator)) {
		return fmt.Errorf("store path must point to a file, got directory: %s", c.Path)
	}
	if c.FileMode == 0 || c.FileMode > 0o777 {
		return fmt.Errorf("invalid store file mode: %#o", c.FileMode)
	}
	return nil
}
