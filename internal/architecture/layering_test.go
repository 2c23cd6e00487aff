package architecture_test

import (
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
)

const modulesPrefix = "mdnotes/internal/modules/"

// walkImports calls check for every mdnotes import of every non-test file
// under root.
func walkImports(t *testing.T, root string, check func(file, importPath string) bool) {
	t.Helper()
	fset := token.NewFileSet()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		node, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		file := filepath.ToSlash(path)
		for _, imp := range node.Imports {
			importPath := strings.Trim(imp.Path.Value, `"`)
			if !strings.HasPrefix(importPath, "mdnotes/") {
				continue
			}
			if !check(file, importPath) {
				t.Errorf("forbidden import in %s: %s", file, importPath)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
}

func TestHexagonalLayerImports(t *testing.T) {
	t.Parallel()
	walkImports(t, filepath.Join("..", "modules"), func(file, importPath string) bool {
		module, layer := moduleName(file), detectLayer(file)
		if module == "" || layer == "" || !strings.HasPrefix(importPath, modulesPrefix) {
			return true
		}
		return !violatesLayerRule(module, layer, importPath)
	})
}

func TestPlatformStaysBelowModules(t *testing.T) {
	t.Parallel()
	walkImports(t, filepath.Join("..", "platform"), func(_, importPath string) bool {
		return strings.HasPrefix(importPath, "mdnotes/internal/platform/")
	})
}

func TestUIUsesOnlyPublicModuleSurface(t *testing.T) {
	t.Parallel()
	walkImports(t, filepath.Join("..", "ui"), func(_, importPath string) bool {
		if !strings.HasPrefix(importPath, modulesPrefix) {
			return true
		}
		return isPortIn(importPath) || isDTO(importPath)
	})
}

func TestViolatesLayerRule(t *testing.T) {
	t.Parallel()
	cases := []struct {
		module, layer, importPath string
		want                      bool
	}{
		{"export", "adapter/out", modulesPrefix + "library/port/in", false},
		{"export", "adapter/out", modulesPrefix + "library/service", true},
		{"export", "service", modulesPrefix + "export/adapter/out", true},
		{"export", "usecase", modulesPrefix + "export/service", false},
		{"export", "adapter/in", modulesPrefix + "export/domain", true},
		{"note", "domain", modulesPrefix + "note/usecase", true},
	}
	for _, tc := range cases {
		if got := violatesLayerRule(tc.module, tc.layer, tc.importPath); got != tc.want {
			t.Errorf("%s/%s importing %s: got %t, want %t", tc.module, tc.layer, tc.importPath, got, tc.want)
		}
	}
}

func moduleName(path string) string {
	_, rest, ok := strings.Cut(path, "modules/")
	if !ok {
		return ""
	}
	module, _, _ := strings.Cut(rest, "/")
	return module
}

func detectLayer(path string) string {
	for _, layer := range []string{"adapter/in", "adapter/out", "usecase", "service", "domain", "port/in", "port/out", "dto"} {
		if strings.Contains(path, "/"+layer+"/") {
			return layer
		}
	}
	return ""
}

func isPortIn(path string) bool {
	return strings.Contains(path, "/port/in/") || strings.HasSuffix(path, "/port/in")
}

func isDTO(path string) bool {
	return strings.Contains(path, "/dto/") || strings.HasSuffix(path, "/dto")
}

func violatesLayerRule(module, layer, importPath string) bool {
	if !strings.HasPrefix(importPath, modulesPrefix+module+"/") {
		for _, inner := range []string{"/service", "/adapter/", "/usecase"} {
			if strings.Contains(importPath, inner) {
				return true
			}
		}
		if isPortIn(importPath) || isDTO(importPath) {
			return false
		}
	}

	switch layer {
	case "adapter/in":
		return !isPortIn(importPath) && !isDTO(importPath)
	case "usecase":
		return strings.Contains(importPath, "/adapter/")
	case "service":
		return strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase")
	case "domain":
		return strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase") || strings.Contains(importPath, "/service")
	default:
		return false
	}
}
