package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	exportout "mdnotes/internal/modules/export/port/out"
)

type VaultFileSystem struct{}

func NewVaultFileSystem() exportout.FileSystem {
	return VaultFileSystem{}
}

func (VaultFileSystem) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}

func (VaultFileSystem) Write(_ context.Context, path, contents string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}
