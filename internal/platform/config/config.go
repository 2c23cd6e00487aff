package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "mdnotes/internal/platform/errors"
)

type Config struct {
	VaultPath   string
	DBPath      string
	OptionsPath string
	LibraryPath string
	Export      Export
}

// Sources names where a Config is assembled from. Empty paths fall back to
// files under <vault>/.mdnotes.
type Sources struct {
	VaultPath   string
	OptionsPath string
	LibraryPath string
	Overrides   []string
}

func New(vaultPath string) (Config, error) {
	if vaultPath == "" {
		return Config{}, fmt.Errorf("vault path is required")
	}
	return Config{
		VaultPath:   vaultPath,
		DBPath:      filepath.Join(vaultPath, ".mdnotes", "mdnotes.db"),
		OptionsPath: filepath.Join(vaultPath, ".mdnotes", "config.yaml"),
		LibraryPath: filepath.Join(vaultPath, ".mdnotes", "library.yaml"),
		Export:      DefaultExport(),
	}, nil
}

// Load resolves the configuration once: defaults, then the options file,
// then key=value overrides.
func Load(src Sources) (Config, error) {
	cfg, err := New(src.VaultPath)
	if err != nil {
		return Config{}, err
	}
	explicitOptions := src.OptionsPath != ""
	if explicitOptions {
		cfg.OptionsPath = src.OptionsPath
	}
	if src.LibraryPath != "" {
		cfg.LibraryPath = src.LibraryPath
	}

	raw, err := os.ReadFile(cfg.OptionsPath)
	switch {
	case err == nil:
		if err := decodeExport(raw, &cfg.Export); err != nil {
			return Config{}, fmt.Errorf("options file %s: %w", cfg.OptionsPath, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicitOptions:
	default:
		return Config{}, fmt.Errorf("read options file: %w", err)
	}

	if len(src.Overrides) > 0 {
		if err := applyOverrides(&cfg.Export, src.Overrides); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Export.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// OutputDir is where exported files land: the configured directory, resolved
// against the vault when relative.
func (c Config) OutputDir() string {
	dir := strings.TrimSpace(c.Export.Directory)
	if dir == "" {
		return c.VaultPath
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.VaultPath, dir)
}

func decodeExport(raw []byte, export *Export) error {
	decoder := yaml.NewDecoder(strings.NewReader(string(raw)))
	decoder.KnownFields(true)
	if err := decoder.Decode(export); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return nil
}

func applyOverrides(export *Export, pairs []string) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("%w: option %q must look like key=value", apperrors.ErrInvalidInput, pair)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: strings.TrimSpace(value)},
		)
	}
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode option overrides: %w", err)
	}
	return decodeExport(raw, export)
}
