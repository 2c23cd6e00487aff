package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	hclog "github.com/hashicorp/go-hclog"

	"mdnotes/internal/modules/export/domain"
	exportout "mdnotes/internal/modules/export/port/out"
	"mdnotes/internal/platform/config"
	apperrors "mdnotes/internal/platform/errors"
	"mdnotes/internal/platform/id"
)

type ExportService struct {
	items  exportout.ItemSource
	notes  exportout.NoteConverter
	fs     exportout.FileSystem
	linker exportout.AttachmentLinker
	idGen  id.Generator
	logger hclog.Logger
}

func NewExportService(items exportout.ItemSource, notes exportout.NoteConverter, fs exportout.FileSystem, linker exportout.AttachmentLinker, idGen id.Generator, logger hclog.Logger) *ExportService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ExportService{items: items, notes: notes, fs: fs, linker: linker, idGen: idGen, logger: logger}
}

// Run exports every selected item into dir. A failing item is logged and
// recorded in the result; the batch carries on with the next item.
func (s *ExportService) Run(ctx context.Context, mode domain.Mode, selection domain.Selection, cfg config.Export, dir string) (domain.RunResult, error) {
	if err := mode.Validate(); err != nil {
		return domain.RunResult{}, err
	}
	if err := cfg.Validate(); err != nil {
		return domain.RunResult{}, err
	}
	if dir == "" {
		return domain.RunResult{}, fmt.Errorf("%w: output directory is required", apperrors.ErrInvalidInput)
	}
	items, err := s.items.Items(ctx, selection)
	if err != nil {
		return domain.RunResult{}, fmt.Errorf("load items: %w", err)
	}
	if len(items) == 0 {
		return domain.RunResult{}, apperrors.ErrNoItems
	}

	result := domain.RunResult{RunID: s.idGen.New(), Items: make([]domain.ItemResult, 0, len(items))}
	logger := s.logger.With("run", result.RunID, "mode", string(mode))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		files, err := s.exportItem(ctx, result.RunID, mode, item, cfg, dir)
		itemResult := domain.ItemResult{Key: item.Key, Files: files, Err: err}
		if err != nil {
			logger.Error("export item failed", "item", item.Key, "error", err)
		} else {
			logger.Info("exported item", "item", item.Key, "written", itemResult.Written(), "files", len(files))
		}
		result.Items = append(result.Items, itemResult)
	}
	return result, nil
}

// Render assembles the files of one item without touching the filesystem.
func (s *ExportService) Render(ctx context.Context, mode domain.Mode, key string, cfg config.Export) ([]domain.OutputFile, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	items, err := s.items.Items(ctx, domain.Selection{Keys: []string{key}})
	if err != nil {
		return nil, fmt.Errorf("load item %q: %w", key, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("item %q: %w", key, apperrors.ErrNotFound)
	}
	return s.assemble(ctx, mode, items[0], cfg)
}

// Notes and metadata are built independently and only meet in the
// assembler.
func (s *ExportService) assemble(ctx context.Context, mode domain.Mode, item domain.Item, cfg config.Export) ([]domain.OutputFile, error) {
	asm := NewAssembler(cfg)
	if mode == domain.ModeCompanion {
		return []domain.OutputFile{asm.Companion(item)}, nil
	}
	notes, err := s.notes.ConvertNotes(ctx, item.Notes)
	if err != nil {
		return nil, fmt.Errorf("convert notes: %w", err)
	}
	if mode == domain.ModeNotes {
		return asm.NoteFiles(item, notes), nil
	}
	metadata := BuildMetadata(item, cfg)
	switch {
	case mode == domain.ModeItem:
		return []domain.OutputFile{asm.Index(item, notes, metadata)}, nil
	case cfg.Split():
		return asm.Split(item, notes, metadata), nil
	default:
		return []domain.OutputFile{asm.Combined(item, notes, metadata)}, nil
	}
}

func (s *ExportService) exportItem(ctx context.Context, runID string, mode domain.Mode, item domain.Item, cfg config.Export, dir string) ([]domain.FileResult, error) {
	files, err := s.assemble(ctx, mode, item, cfg)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(files))
	for i, file := range files {
		if paths[i], err = outputPath(dir, file.Name); err != nil {
			return nil, err
		}
	}
	companion := NewAssembler(cfg).CompanionName(item)
	results := make([]domain.FileResult, 0, len(files))
	for i, file := range files {
		path := paths[i]
		if file.Name == companion && (mode == domain.ModeCompanion || cfg.Split()) {
			skip, err := s.skipCompanion(ctx, mode, cfg, path)
			if err != nil {
				return results, err
			}
			if skip {
				results = append(results, domain.FileResult{Name: file.Name, Path: path, Skipped: true, Link: domain.LinkSkipped})
				continue
			}
		}
		if err := s.fs.Write(ctx, path, file.Contents); err != nil {
			return results, fmt.Errorf("write %s: %w", path, err)
		}
		link := domain.LinkSkipped
		if s.linker != nil {
			link, err = s.linker.Link(ctx, runID, item.Key, path, cfg.AttachToZotero)
			if err != nil {
				return results, fmt.Errorf("link %s: %w", path, err)
			}
		}
		results = append(results, domain.FileResult{Name: file.Name, Path: path, Link: link})
	}
	return results, nil
}

// outputPath joins a file name onto dir. Names come from item and note
// titles, so a title carrying "../" must not place the file outside dir.
func outputPath(dir, name string) (string, error) {
	path := filepath.Join(dir, name+".md")
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: file name %q leaves the output directory", apperrors.ErrInvalidInput, name)
	}
	return path, nil
}

// The companion file holds hand-written notes and is never overwritten.
func (s *ExportService) skipCompanion(ctx context.Context, mode domain.Mode, cfg config.Export, path string) (bool, error) {
	if mode == domain.ModeBatch && !cfg.CreateNotesFile {
		return true, nil
	}
	exists, err := s.fs.Exists(ctx, path)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", path, err)
	}
	return exists, nil
}
