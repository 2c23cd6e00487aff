package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	hclog "github.com/hashicorp/go-hclog"
)

const testLibrary = `library_id: 1
items:
  - key: TURING36
    type: journalArticle
    title: On Computable Numbers
    creators:
      - {first: Alan, last: Turing, role: author}
    date: "1936"
    extra: "Citation Key: turing1936"
    tags: [computation, classics]
    notes:
      - "<p>Reading notes</p><p>tape and head</p>"
`

func writeVault(t *testing.T) string {
	t.Helper()
	vault := t.TempDir()
	if err := os.MkdirAll(filepath.Join(vault, ".mdnotes"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(vault, ".mdnotes", "library.yaml"), []byte(testLibrary), 0o644); err != nil {
		t.Fatalf("write library: %v", err)
	}
	return vault
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExportCommandWritesVaultFiles(t *testing.T) {
	t.Parallel()
	vault := writeVault(t)

	out, err := execute(t, "--vault", vault, "--opt", "citekey_title=true", "--opt", "directory=refs", "export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "3 files written, 0 items failed") {
		t.Fatalf("unexpected summary:\n%s", out)
	}
	for _, name := range []string{"turing1936-mdnotes.md", "turing1936 - Reading notes.md", "turing1936-zotero.md"} {
		if _, err := os.Stat(filepath.Join(vault, "refs", name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}

	out, err = execute(t, "--vault", vault, "--opt", "citekey_title=true", "--opt", "directory=refs", "export")
	if err != nil {
		t.Fatalf("re-export: %v", err)
	}
	if !strings.Contains(out, "skipped") || !strings.Contains(out, "2 files written") {
		t.Fatalf("companion should be kept on re-export:\n%s", out)
	}
}

func TestExportCommandRejectsUnknownOption(t *testing.T) {
	t.Parallel()
	vault := writeVault(t)
	if _, err := execute(t, "--vault", vault, "--opt", "no_such_option=1", "export"); err == nil {
		t.Fatalf("expected error for unknown option")
	}
}

func TestPreviewCommandDoesNotWrite(t *testing.T) {
	t.Parallel()
	vault := writeVault(t)
	out, err := execute(t, "--vault", vault, "--opt", "file_conf=combined", "preview", "TURING36")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(out, "── On Computable Numbers-zotero.md ──") || !strings.Contains(out, "## Reading notes") {
		t.Fatalf("unexpected preview:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(vault, "On Computable Numbers-zotero.md")); !os.IsNotExist(err) {
		t.Fatalf("preview must not write files, stat err=%v", err)
	}
}

func TestItemsCommandListsLibrary(t *testing.T) {
	t.Parallel()
	vault := writeVault(t)
	out, err := execute(t, "--vault", vault, "items")
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if !strings.Contains(out, "TURING36\tturing1936\tOn Computable Numbers\tnotes=1") {
		t.Fatalf("unexpected listing:\n%s", out)
	}
}

func TestDebounceEventsCoalescesBursts(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan fsnotify.Event)
	errs := make(chan error)
	var runs atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = debounceEvents(ctx, events, errs, func(name string) bool { return name == "library.yaml" },
			20*time.Millisecond, hclog.NewNullLogger(), func(context.Context) { runs.Add(1) })
	}()

	for i := 0; i < 5; i++ {
		events <- fsnotify.Event{Name: "library.yaml", Op: fsnotify.Write}
	}
	events <- fsnotify.Event{Name: "other.txt", Op: fsnotify.Write}
	events <- fsnotify.Event{Name: "library.yaml", Op: fsnotify.Chmod}

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(60 * time.Millisecond)
	cancel()
	<-done

	if got := runs.Load(); got != 1 {
		t.Fatalf("expected one export for a burst, got %d", got)
	}
}

func TestTagsFlagRequiresEveryTag(t *testing.T) {
	t.Parallel()
	vault := writeVault(t)
	out, err := execute(t, "--vault", vault, "items", "--tags", "computation,classics")
	if err != nil || !strings.Contains(out, "TURING36") {
		t.Fatalf("item carrying both tags must match: %v\n%s", err, out)
	}
	out, err = execute(t, "--vault", vault, "items", "--tags", "computation,biology")
	if err != nil || strings.TrimSpace(out) != "no items" {
		t.Fatalf("item missing one tag must not match: %v\n%s", err, out)
	}

	root := newRootCmd()
	for _, path := range [][]string{{"export"}, {"export", "notes"}, {"items"}, {"watch"}, {"tui"}} {
		cmd, _, err := root.Find(path)
		if err != nil {
			t.Fatalf("find %v: %v", path, err)
		}
		if got := cmd.Flags().Lookup("tags").Usage; !strings.Contains(got, "all of these tags") {
			t.Fatalf("%v --tags usage: %q", path, got)
		}
	}
}
