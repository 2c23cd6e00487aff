package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	exportdto "mdnotes/internal/modules/export/dto"
	libdto "mdnotes/internal/modules/library/dto"
	"mdnotes/internal/platform/config"
	"mdnotes/internal/ui/components"
	itemsview "mdnotes/internal/ui/views/items"
)

type fakeLibrary struct{ items []libdto.ItemOutput }

func (f fakeLibrary) ListItems(context.Context, []string, []string, string) ([]libdto.ItemOutput, error) {
	return f.items, nil
}

type fakeExport struct {
	mode string
	keys []string
	dir  string
}

func (f *fakeExport) Export(_ context.Context, mode string, keys, _ []string, _ string, _ config.Export, dir string) (exportdto.ExportOutput, error) {
	f.mode, f.keys, f.dir = mode, keys, dir
	return exportdto.ExportOutput{RunID: "run-1", Written: 2 * len(keys)}, nil
}

func (f *fakeExport) Render(_ context.Context, _ string, key string, _ config.Export) ([]exportdto.RenderedFile, error) {
	if key == "" {
		return nil, errors.New("no key")
	}
	return []exportdto.RenderedFile{
		{Name: key + "-mdnotes", Contents: "# companion\n"},
		{Name: key + "-zotero", Contents: "# index\n"},
	}, nil
}

func loadedModel(t *testing.T, exp *fakeExport) Model {
	t.Helper()
	lib := fakeLibrary{items: []libdto.ItemOutput{{Key: "AAAA1111", Title: "First"}, {Key: "BBBB2222", Title: "Second"}}}
	m := NewModel(Options{Export: config.DefaultExport(), OutputDir: "/vault/refs"}, lib, exp, nil)
	updated, _ := m.Update(itemsview.ItemsLoadedMsg{Items: lib.items})
	return updated.(Model)
}

func TestPaletteExportUsesSelection(t *testing.T) {
	t.Parallel()
	exp := &fakeExport{}
	m := loadedModel(t, exp)

	updated, _ := m.Update(components.PaletteSubmitMsg{Input: "select:all"})
	m = updated.(Model)
	updated, cmd := m.Update(components.PaletteSubmitMsg{Input: "export:notes"})
	m = updated.(Model)
	require.True(t, m.exporting)
	require.NotNil(t, cmd)

	done := cmd()
	require.Equal(t, "notes", exp.mode)
	require.Equal(t, []string{"AAAA1111", "BBBB2222"}, exp.keys)
	require.Equal(t, "/vault/refs", exp.dir)

	updated, _ = m.Update(done)
	m = updated.(Model)
	require.False(t, m.exporting)
	require.Contains(t, m.status, "notes export: 4 file(s) written")
}

func TestExportDefaultsToHighlightedItem(t *testing.T) {
	t.Parallel()
	exp := &fakeExport{}
	m := loadedModel(t, exp)

	_, cmd := m.executePalette("export")
	require.NotNil(t, cmd)
	cmd()
	require.Equal(t, "batch", exp.mode)
	require.Equal(t, []string{"AAAA1111"}, exp.keys)
}

func TestUnknownPaletteCommand(t *testing.T) {
	t.Parallel()
	m := loadedModel(t, &fakeExport{})
	updated, cmd := m.executePalette("frobnicate")
	require.Nil(t, cmd)
	require.Equal(t, "unknown command: frobnicate", updated.(Model).status)
}

func TestPreviewBridgeJoinsRenderedFiles(t *testing.T) {
	t.Parallel()
	bridge := itemsPortBridge{export: &fakeExport{}, cfg: config.DefaultExport()}
	out, err := bridge.Preview(context.Background(), "AAAA1111")
	require.NoError(t, err)
	require.Contains(t, out, "AAAA1111-mdnotes.md")
	require.Contains(t, out, "# companion\n")
	require.Less(t, strings.Index(out, "# companion"), strings.Index(out, "# index"))

	_, err = bridge.Preview(context.Background(), "")
	require.Error(t, err)
}
