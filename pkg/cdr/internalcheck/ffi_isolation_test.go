package internalcheck

import (
	"fmt"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const (
	modulePath = "github.com/cxv4/cdr-go"
	nativePkg  = modulePath + "/internal/native"
)

// restricted imports may only appear in nativePkg.
var restricted = map[string]bool{
	"C":                            true,
	"github.com/ebitengine/purego": true,
}

func TestFFIImportsStayInNative(t *testing.T) {
	cfg := &packages.Config{
		Mode:  packages.NeedName | packages.NeedFiles,
		Tests: true,
	}

	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	if len(pkgs) == 0 {
		t.Fatal("no packages loaded")
	}

	var findings []string
	seen := map[string]bool{}
	fset := token.NewFileSet()

	for _, pkg := range pkgs {
		files := append(append([]string{}, pkg.GoFiles...), pkg.IgnoredFiles...)
		for _, name := range files {
			if seen[name] || !strings.HasSuffix(name, ".go") {
				continue
			}
			seen[name] = true

			f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
			if err != nil {
				t.Fatalf("parse %s: %v", name, err)
			}
			for _, imp := range f.Imports {
				path, err := strconv.Unquote(imp.Path.Value)
				if err != nil || !restricted[path] {
					continue
				}
				if pkg.PkgPath != nativePkg && pkg.PkgPath != nativePkg+"_test" {
					findings = append(findings, fmt.Sprintf("%s: imports %q", fset.Position(imp.Pos()), path))
				}
			}
		}
	}

	if len(findings) > 0 {
		t.Fatalf("foreign-function imports outside %s:\n%s", nativePkg, strings.Join(findings, "\n"))
	}
}

func TestNativeBackendsCoverBuildMatrix(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedFiles}

	pkgs, err := packages.Load(cfg, nativePkg)
	if err != nil {
		t.Fatalf("load %s: %v", nativePkg, err)
	}
	if len(pkgs) != 1 {
		t.Fatalf("expected one package, got %d", len(pkgs))
	}

	var backends []string
	for _, name := range append(append([]string{}, pkgs[0].GoFiles...), pkgs[0].IgnoredFiles...) {
		for _, b := range []string{"native_cgo.go", "native_purego.go", "native_stub.go"} {
			if strings.HasSuffix(name, b) {
				backends = append(backends, b)
			}
		}
	}
	if len(backends) != 3 {
		t.Fatalf("expected cgo, purego and stub backends, found %v", backends)
	}
}
