package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"mdnotes/internal/modules/export/domain"
	"mdnotes/internal/modules/export/service"
	"mdnotes/internal/platform/config"
	apperrors "mdnotes/internal/platform/errors"
)

type fakeItems struct {
	items []domain.Item
	err   error
}

func (f fakeItems) Items(_ context.Context, selection domain.Selection) ([]domain.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(selection.Keys) == 0 {
		return f.items, nil
	}
	out := []domain.Item{}
	for _, item := range f.items {
		for _, key := range selection.Keys {
			if item.Key == key {
				out = append(out, item)
			}
		}
	}
	return out, nil
}

// fakeNotes treats each body as "title|content".
type fakeNotes struct {
	calls int
}

func (f *fakeNotes) ConvertNotes(_ context.Context, bodies []string) ([]domain.Note, error) {
	f.calls++
	out := make([]domain.Note, 0, len(bodies))
	for _, body := range bodies {
		title, content, _ := strings.Cut(body, "|")
		out = append(out, domain.Note{Title: title, Content: content + "\n\n"})
	}
	return out, nil
}

type memFS struct {
	files    map[string]string
	existing map[string]bool
	failOn   string
}

func newMemFS() *memFS {
	return &memFS{files: map[string]string{}, existing: map[string]bool{}}
}

func (m *memFS) Exists(_ context.Context, path string) (bool, error) {
	if m.existing[path] {
		return true, nil
	}
	_, ok := m.files[path]
	return ok, nil
}

func (m *memFS) Write(_ context.Context, path, contents string) error {
	if m.failOn != "" && strings.Contains(path, m.failOn) {
		return errors.New("disk full")
	}
	m.files[path] = contents
	return nil
}

func (m *memFS) names() []string {
	out := make([]string, 0, len(m.files))
	for path := range m.files {
		out = append(out, filepath.Base(path))
	}
	sort.Strings(out)
	return out
}

type linkCall struct {
	runID, itemKey, path string
	create               bool
}

type fakeLinker struct {
	calls  []linkCall
	linked map[string]bool
}

func (f *fakeLinker) Link(_ context.Context, runID, itemKey, path string, create bool) (domain.LinkResult, error) {
	f.calls = append(f.calls, linkCall{runID: runID, itemKey: itemKey, path: path, create: create})
	if f.linked == nil {
		f.linked = map[string]bool{}
	}
	if f.linked[path] {
		return domain.LinkRefreshed, nil
	}
	if !create {
		return domain.LinkSkipped, nil
	}
	f.linked[path] = true
	return domain.LinkCreated, nil
}

type fixedID string

func (f fixedID) New() string { return string(f) }

func exportItem() domain.Item {
	return domain.Item{
		Key:         "ITEM0001",
		Title:       "Paper",
		Authors:     []string{"Ada Lovelace"},
		Date:        "1843",
		CitationKey: "lovelace1843",
		LocalURI:    "zotero://select/items/1_ITEM0001",
		Notes:       []string{"First|one", "Second|two"},
	}
}

func newService(items []domain.Item, fs *memFS, linker *fakeLinker) (*service.ExportService, *fakeNotes) {
	notes := &fakeNotes{}
	return service.NewExportService(fakeItems{items: items}, notes, fs, linker, fixedID("run-1"), nil), notes
}

func TestRunSplitWritesCompanionNotesAndIndex(t *testing.T) {
	t.Parallel()
	fs := newMemFS()
	svc, _ := newService([]domain.Item{exportItem()}, fs, &fakeLinker{})
	dir := "/vault/refs"

	result, err := svc.Run(context.Background(), domain.ModeBatch, domain.Selection{}, config.DefaultExport(), dir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.RunID != "run-1" || result.Failed() != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Written() != 4 {
		t.Fatalf("expected 4 files, got %d", result.Written())
	}
	want := []string{"Paper - First.md", "Paper - Second.md", "Paper-mdnotes.md", "Paper-zotero.md"}
	if got := fs.names(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected files: %v", got)
	}
	if fs.files[filepath.Join(dir, "Paper - First.md")] != "# First\n\none\n\n" {
		t.Fatalf("unexpected note file: %q", fs.files[filepath.Join(dir, "Paper - First.md")])
	}
}

func TestRunSplitSkipsExistingCompanion(t *testing.T) {
	t.Parallel()
	fs := newMemFS()
	dir := "/vault/refs"
	companion := filepath.Join(dir, "Paper-mdnotes.md")
	fs.existing[companion] = true
	svc, _ := newService([]domain.Item{exportItem()}, fs, &fakeLinker{})

	result, err := svc.Run(context.Background(), domain.ModeBatch, domain.Selection{}, config.DefaultExport(), dir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Written() != 3 {
		t.Fatalf("expected 3 files, got %d", result.Written())
	}
	if _, ok := fs.files[companion]; ok {
		t.Fatalf("companion must not be overwritten")
	}
	first := result.Items[0].Files[0]
	if !first.Skipped || first.Link != domain.LinkSkipped {
		t.Fatalf("expected skipped companion, got %+v", first)
	}
}

func TestRunSplitWithoutNotesFileOption(t *testing.T) {
	t.Parallel()
	fs := newMemFS()
	svc, _ := newService([]domain.Item{exportItem()}, fs, &fakeLinker{})
	cfg := config.DefaultExport()
	cfg.CreateNotesFile = false

	result, err := svc.Run(context.Background(), domain.ModeBatch, domain.Selection{}, cfg, "/out")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Written() != 3 {
		t.Fatalf("expected 3 files, got %d", result.Written())
	}
}

func TestRunCombinedWritesOneFile(t *testing.T) {
	t.Parallel()
	fs := newMemFS()
	svc, _ := newService([]domain.Item{exportItem()}, fs, &fakeLinker{})
	cfg := config.DefaultExport()
	cfg.FileConf = config.FileConfCombined

	result, err := svc.Run(context.Background(), domain.ModeBatch, domain.Selection{}, cfg, "/out")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Written() != 1 {
		t.Fatalf("expected one file, got %d", result.Written())
	}
	contents := fs.files[filepath.Join("/out", "Paper-zotero.md")]
	if !strings.Contains(contents, "## First\n\none\n\n") || !strings.Contains(contents, "| Zotero links | [Local library]") {
		t.Fatalf("unexpected combined file:\n%s", contents)
	}
}

func TestRunContinuesAfterFailingItem(t *testing.T) {
	t.Parallel()
	fs := newMemFS()
	fs.failOn = "Broken"
	broken := exportItem()
	broken.Key = "ITEM0002"
	broken.Title = "Broken"
	svc, _ := newService([]domain.Item{broken, exportItem()}, fs, &fakeLinker{})

	result, err := svc.Run(context.Background(), domain.ModeBatch, domain.Selection{}, config.DefaultExport(), "/out")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Failed() != 1 {
		t.Fatalf("expected one failed item, got %d", result.Failed())
	}
	if result.Items[0].Err == nil || result.Items[1].Err != nil {
		t.Fatalf("unexpected item errors: %+v", result.Items)
	}
	if result.Items[1].Written() != 4 {
		t.Fatalf("second item must still export, got %d files", result.Items[1].Written())
	}
}

func TestRunRejectsNoteTitleLeavingOutputDir(t *testing.T) {
	t.Parallel()
	fs := newMemFS()
	escaping := exportItem()
	escaping.Key = "ITEM0002"
	escaping.Notes = []string{"Plan (../../../escaped)|x"}
	svc, _ := newService([]domain.Item{escaping, exportItem()}, fs, &fakeLinker{})

	result, err := svc.Run(context.Background(), domain.ModeBatch, domain.Selection{}, config.DefaultExport(), "/vault/refs")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !errors.Is(result.Items[0].Err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for escaping title, got %v", result.Items[0].Err)
	}
	if len(result.Items[0].Files) != 0 {
		t.Fatalf("no file of the rejected item may be written: %+v", result.Items[0].Files)
	}
	for path := range fs.files {
		if !strings.HasPrefix(path, filepath.Join("/vault", "refs")+string(filepath.Separator)) {
			t.Fatalf("file written outside output dir: %s", path)
		}
	}
	if result.Items[1].Err != nil || result.Items[1].Written() != 4 {
		t.Fatalf("next item must still export: %+v", result.Items[1])
	}
}

func TestRunModes(t *testing.T) {
	t.Parallel()
	cases := []struct {
		mode domain.Mode
		want []string
	}{
		{domain.ModeItem, []string{"Paper-zotero.md"}},
		{domain.ModeNotes, []string{"Paper - First.md", "Paper - Second.md"}},
		{domain.ModeCompanion, []string{"Paper-mdnotes.md"}},
	}
	for _, tc := range cases {
		fs := newMemFS()
		svc, notes := newService([]domain.Item{exportItem()}, fs, &fakeLinker{})
		cfg := config.DefaultExport()
		cfg.CreateNotesFile = false
		if _, err := svc.Run(context.Background(), tc.mode, domain.Selection{}, cfg, "/out"); err != nil {
			t.Fatalf("%s: run: %v", tc.mode, err)
		}
		if got := fs.names(); strings.Join(got, ",") != strings.Join(tc.want, ",") {
			t.Fatalf("%s: unexpected files %v", tc.mode, got)
		}
		if tc.mode == domain.ModeCompanion && notes.calls != 0 {
			t.Fatalf("companion export must not convert notes")
		}
	}
}

func TestRunCompanionModeKeepsExistingFile(t *testing.T) {
	t.Parallel()
	fs := newMemFS()
	fs.existing[filepath.Join("/out", "Paper-mdnotes.md")] = true
	svc, _ := newService([]domain.Item{exportItem()}, fs, &fakeLinker{})

	result, err := svc.Run(context.Background(), domain.ModeCompanion, domain.Selection{}, config.DefaultExport(), "/out")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Written() != 0 || len(fs.files) != 0 {
		t.Fatalf("existing companion must be kept, wrote %v", fs.names())
	}
}

func TestRunLinksFilesPerAttachOption(t *testing.T) {
	t.Parallel()
	fs := newMemFS()
	linker := &fakeLinker{}
	svc, _ := newService([]domain.Item{exportItem()}, fs, linker)
	cfg := config.DefaultExport()
	cfg.FileConf = config.FileConfCombined

	result, err := svc.Run(context.Background(), domain.ModeBatch, domain.Selection{}, cfg, "/out")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(linker.calls) != 1 || linker.calls[0].create || linker.calls[0].itemKey != "ITEM0001" || linker.calls[0].runID != "run-1" {
		t.Fatalf("unexpected link calls: %+v", linker.calls)
	}
	if result.Items[0].Files[0].Link != domain.LinkSkipped {
		t.Fatalf("expected no new link without attach option")
	}

	cfg.AttachToZotero = true
	if _, err := svc.Run(context.Background(), domain.ModeBatch, domain.Selection{}, cfg, "/out"); err != nil {
		t.Fatalf("run: %v", err)
	}
	cfg.AttachToZotero = false
	result, err = svc.Run(context.Background(), domain.ModeBatch, domain.Selection{}, cfg, "/out")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Items[0].Files[0].Link != domain.LinkRefreshed {
		t.Fatalf("existing link must be refreshed, got %s", result.Items[0].Files[0].Link)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	t.Parallel()
	svc, _ := newService(nil, newMemFS(), &fakeLinker{})
	if _, err := svc.Run(context.Background(), domain.ModeBatch, domain.Selection{}, config.DefaultExport(), "/out"); !errors.Is(err, apperrors.ErrNoItems) {
		t.Fatalf("expected ErrNoItems, got %v", err)
	}
	if _, err := svc.Run(context.Background(), domain.Mode("zip"), domain.Selection{}, config.DefaultExport(), "/out"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for mode, got %v", err)
	}
	if _, err := svc.Run(context.Background(), domain.ModeBatch, domain.Selection{}, config.DefaultExport(), ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for dir, got %v", err)
	}
	cfg := config.DefaultExport()
	cfg.FileConf = "zip"
	if _, err := svc.Run(context.Background(), domain.ModeBatch, domain.Selection{}, cfg, "/out"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for config, got %v", err)
	}

	failing := service.NewExportService(fakeItems{err: errors.New("db locked")}, &fakeNotes{}, newMemFS(), nil, fixedID("x"), nil)
	if _, err := failing.Run(context.Background(), domain.ModeBatch, domain.Selection{}, config.DefaultExport(), "/out"); err == nil || !strings.Contains(err.Error(), "db locked") {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestRenderDoesNotWrite(t *testing.T) {
	t.Parallel()
	fs := newMemFS()
	svc, _ := newService([]domain.Item{exportItem()}, fs, &fakeLinker{})

	files, err := svc.Render(context.Background(), domain.ModeBatch, "ITEM0001", config.DefaultExport())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(files) != 4 || len(fs.files) != 0 {
		t.Fatalf("expected 4 rendered files and no writes, got %d / %d", len(files), len(fs.files))
	}
	if _, err := svc.Render(context.Background(), domain.ModeBatch, "MISSING", config.DefaultExport()); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
