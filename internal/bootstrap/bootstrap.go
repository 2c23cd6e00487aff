package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	exportinadapter "mdnotes/internal/modules/export/adapter/in"
	exportoutadapter "mdnotes/internal/modules/export/adapter/out"
	exportservice "mdnotes/internal/modules/export/service"
	exportusecase "mdnotes/internal/modules/export/usecase"
	libraryinadapter "mdnotes/internal/modules/library/adapter/in"
	libraryoutadapter "mdnotes/internal/modules/library/adapter/out"
	libraryout "mdnotes/internal/modules/library/port/out"
	libraryservice "mdnotes/internal/modules/library/service"
	libraryusecase "mdnotes/internal/modules/library/usecase"
	noteservice "mdnotes/internal/modules/note/service"
	noteusecase "mdnotes/internal/modules/note/usecase"
	plugininadapter "mdnotes/internal/modules/plugin/adapter/in"
	pluginoutadapter "mdnotes/internal/modules/plugin/adapter/out"
	pluginservice "mdnotes/internal/modules/plugin/service"
	pluginusecase "mdnotes/internal/modules/plugin/usecase"
	"mdnotes/internal/platform/clock"
	"mdnotes/internal/platform/config"
	"mdnotes/internal/platform/id"
	uiapp "mdnotes/internal/ui/app"
)

type App struct {
	LibraryCLI libraryinadapter.CLIHandler
	ExportCLI  exportinadapter.CLIHandler
	PluginCLI  plugininadapter.CLIHandler
	Config     config.Config
	Logger     hclog.Logger

	closers []io.Closer
}

func New(cfg config.Config, logger hclog.Logger) (*App, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	app := &App{Config: cfg, Logger: logger}

	pluginUC := pluginusecase.NewInteractor(pluginservice.NewPluginService(
		pluginoutadapter.NewFileManifestStore(filepath.Join(cfg.VaultPath, ".mdnotes")),
		pluginoutadapter.NewGRPCHost(logger.Named("plugin")),
	))

	store, err := newItemStore(cfg.LibraryPath)
	if err != nil {
		return nil, err
	}
	if c, ok := store.(io.Closer); ok {
		app.closers = append(app.closers, c)
	}
	librarySvc := libraryservice.NewItemService(
		store,
		libraryoutadapter.NewChainCitekeyResolver(
			libraryoutadapter.NewExtraCitekeyResolver(),
			libraryoutadapter.NewPluginCitekeyResolver(pluginUC),
		),
		libraryoutadapter.NewPDFInspector(),
		logger.Named("library"),
	)
	libraryUC := libraryusecase.NewInteractor(librarySvc)

	noteUC := noteusecase.NewInteractor(noteservice.NewConverter())

	ledger, err := exportoutadapter.NewSQLiteAttachmentLedger(cfg.DBPath, clock.SystemClock{})
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("new attachment ledger: %w", err)
	}
	app.closers = append(app.closers, ledger)
	exportUC := exportusecase.NewInteractor(exportservice.NewExportService(
		exportoutadapter.NewLibraryItemSource(libraryUC),
		exportoutadapter.NewNoteConverter(noteUC),
		exportoutadapter.NewVaultFileSystem(),
		ledger,
		id.UUID{},
		logger.Named("export"),
	))

	app.LibraryCLI = libraryinadapter.NewCLIHandler(libraryUC)
	app.ExportCLI = exportinadapter.NewCLIHandler(exportUC)
	app.PluginCLI = plugininadapter.NewCLIHandler(pluginUC)
	return app, nil
}

// newItemStore picks the library backend from the file extension: a Zotero
// database or a YAML export.
func newItemStore(path string) (libraryout.ItemStore, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".sqlite" || ext == ".db" {
		store, err := libraryoutadapter.NewZoteroSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("new zotero store: %w", err)
		}
		return store, nil
	}
	return libraryoutadapter.NewYAMLLibraryStore(path), nil
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func RunTUI(app *App, tags []string, collection string) error {
	model := uiapp.NewModel(uiapp.Options{
		Export:     app.Config.Export,
		OutputDir:  app.Config.OutputDir(),
		Tags:       tags,
		Collection: collection,
	}, app.LibraryCLI, app.ExportCLI, app.PluginCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
