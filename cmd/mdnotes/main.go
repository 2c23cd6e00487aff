package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mdnotes/internal/bootstrap"
	exportdto "mdnotes/internal/modules/export/dto"
	"mdnotes/internal/platform/config"
	"mdnotes/internal/platform/logging"
	"mdnotes/internal/platform/markdown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	vault    string
	library  string
	options  string
	opts     []string
	logLevel string
}

type selectionFlags struct {
	keys       []string
	tags       []string
	collection string
}

// Selection.Matches requires every tag.
const tagsUsage = "only items carrying all of these tags"

func (s *selectionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&s.keys, "keys", nil, "item keys to export")
	cmd.Flags().StringSliceVar(&s.tags, "tags", nil, tagsUsage)
	cmd.Flags().StringVar(&s.collection, "collection", "", "only items in a collection (glob)")
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "mdnotes",
		Short:         "Export bibliographic items and their notes as Markdown",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.vault, "vault", ".", "Markdown vault path")
	root.PersistentFlags().StringVar(&flags.library, "library", "", "library file (.yaml or zotero.sqlite)")
	root.PersistentFlags().StringVar(&flags.options, "config", "", "export options file")
	root.PersistentFlags().StringArrayVar(&flags.opts, "opt", nil, "export option override key=value")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level")

	root.AddCommand(newExportCmd(flags))
	root.AddCommand(newItemsCmd(flags))
	root.AddCommand(newPreviewCmd(flags))
	root.AddCommand(newWatchCmd(flags))
	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newPluginCmd(flags))
	return root
}

func loadApp(flags *rootFlags, stderr io.Writer) (*bootstrap.App, error) {
	cfg, err := config.Load(config.Sources{
		VaultPath:   flags.vault,
		OptionsPath: flags.options,
		LibraryPath: flags.library,
		Overrides:   flags.opts,
	})
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logging.New("mdnotes", flags.logLevel, stderr))
}

func newExportCmd(flags *rootFlags) *cobra.Command {
	sel := &selectionFlags{}
	export := &cobra.Command{
		Use:   "export",
		Short: "Export items into the vault using the configured layout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, flags, "batch", sel)
		},
	}
	sel.bind(export)

	for _, sub := range []struct{ mode, short string }{
		{"item", "Export only the metadata file of each item"},
		{"notes", "Export only the note files of each item"},
		{"companion", "Create missing companion notes files"},
	} {
		subSel := &selectionFlags{}
		mode := sub.mode
		c := &cobra.Command{
			Use:   mode,
			Short: sub.short,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runExport(cmd, flags, mode, subSel)
			},
		}
		subSel.bind(c)
		export.AddCommand(c)
	}
	return export
}

func runExport(cmd *cobra.Command, flags *rootFlags, mode string, sel *selectionFlags) error {
	app, err := loadApp(flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	out, err := app.ExportCLI.Export(cmd.Context(), mode, sel.keys, sel.tags, sel.collection, app.Config.Export, app.Config.OutputDir())
	if err != nil {
		return err
	}
	printExport(cmd.OutOrStdout(), out)
	if out.Failed > 0 {
		return fmt.Errorf("%d of %d items failed", out.Failed, len(out.Items))
	}
	return nil
}

func printExport(w io.Writer, out exportdto.ExportOutput) {
	for _, item := range out.Items {
		if item.Error != "" {
			_, _ = fmt.Fprintf(w, "%s\terror=%q\n", item.Key, item.Error)
			continue
		}
		for _, f := range item.Files {
			state := "written"
			if f.Skipped {
				state = "skipped"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\tlink=%s\n", item.Key, state, f.Path, f.Link)
		}
	}
	_, _ = fmt.Fprintf(w, "run %s: %d files written, %d items failed\n", out.RunID, out.Written, out.Failed)
}

func newItemsCmd(flags *rootFlags) *cobra.Command {
	sel := &selectionFlags{}
	items := &cobra.Command{
		Use:   "items",
		Short: "List library items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			list, err := app.LibraryCLI.ListItems(cmd.Context(), sel.keys, sel.tags, sel.collection)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no items")
				return nil
			}
			for _, it := range list {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\tnotes=%d\n", it.Key, it.CitationKey, it.Title, len(it.Notes))
			}
			return nil
		},
	}
	sel.bind(items)
	return items
}

func newPreviewCmd(flags *rootFlags) *cobra.Command {
	var mode string
	var asHTML bool
	preview := &cobra.Command{
		Use:   "preview <key>",
		Short: "Print the files an export would write for one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			files, err := app.ExportCLI.Render(cmd.Context(), mode, args[0], app.Config.Export)
			if err != nil {
				return err
			}
			for _, f := range files {
				body := f.Contents
				if asHTML {
					if body, err = markdown.RenderHTML(f.Contents); err != nil {
						return err
					}
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "── %s.md ──\n\n%s\n", f.Name, body)
			}
			return nil
		},
	}
	preview.Flags().StringVar(&mode, "mode", "batch", "export mode: batch|item|notes|companion")
	preview.Flags().BoolVar(&asHTML, "html", false, "render the Markdown to HTML")
	return preview
}

func newWatchCmd(flags *rootFlags) *cobra.Command {
	sel := &selectionFlags{}
	var debounce time.Duration
	watch := &cobra.Command{
		Use:   "watch",
		Short: "Re-export whenever the library or options file changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			logger := app.Logger.Named("watch")
			paths := []string{app.Config.LibraryPath, app.Config.OptionsPath}
			_ = app.Close()

			export := func(ctx context.Context) {
				// Options may have changed, so each run reloads the app.
				app, err := loadApp(flags, cmd.ErrOrStderr())
				if err != nil {
					logger.Error("reload failed", "error", err)
					return
				}
				defer func() { _ = app.Close() }()
				out, err := app.ExportCLI.Export(ctx, "batch", sel.keys, sel.tags, sel.collection, app.Config.Export, app.Config.OutputDir())
				if err != nil {
					logger.Error("export failed", "error", err)
					return
				}
				logger.Info("export finished", "run", out.RunID, "written", out.Written, "failed", out.Failed)
			}

			export(ctx)
			logger.Info("watching", "paths", strings.Join(paths, ", "))
			return watchFiles(ctx, paths, debounce, logger, export)
		},
	}
	sel.bind(watch)
	watch.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "quiet period before re-exporting")
	return watch
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	sel := &selectionFlags{}
	tui := &cobra.Command{
		Use:   "tui",
		Short: "Pick items interactively and export them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Log lines would tear the alternate screen.
			app, err := loadApp(flags, io.Discard)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return bootstrap.RunTUI(app, sel.tags, sel.collection)
		},
	}
	tui.Flags().StringSliceVar(&sel.tags, "tags", nil, tagsUsage)
	tui.Flags().StringVar(&sel.collection, "collection", "", "only items in a collection (glob)")
	return tui
}

func newPluginCmd(flags *rootFlags) *cobra.Command {
	plugin := &cobra.Command{Use: "plugin", Short: "Citation key plugin operations"}
	plugin.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List plugin manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			plugins, err := app.PluginCLI.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(plugins) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins configured")
				return nil
			}
			for _, p := range plugins {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t binary=%s capabilities=%s\n", p.Name, p.Version, p.Enabled, p.Binary, strings.Join(p.Capabilities, ","))
			}
			return nil
		},
	})

	plugin.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate plugin checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			results, err := app.PluginCLI.Doctor(cmd.Context())
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins configured")
				return nil
			}
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s checksum=%t binary=%t lifecycle=%t", r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
				if r.Error != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", r.Error)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	})
	return plugin
}
