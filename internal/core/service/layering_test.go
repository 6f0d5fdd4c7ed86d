package service

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// The core packages must not depend on adapters (HTTP, stores, brokers).
func TestCoreDoesNotImportAdapters(t *testing.T) {
	forbidden := []string{"/internal/api", "/internal/infrastructure"}

	for _, dir := range []string{".", "../domain", "../ports", "../audit"} {
		files, err := filepath.Glob(filepath.Join(dir, "*.go"))
		if err != nil {
			t.Fatal(err)
		}
		for _, file := range files {
			if strings.HasSuffix(file, "_test.go") {
				continue
			}
			f, err := parser.ParseFile(token.NewFileSet(), file, nil, parser.ImportsOnly)
			if err != nil {
				t.Fatalf("parse %s: %v", file, err)
			}
			for _, imp := range f.Imports {
				path, _ := strconv.Unquote(imp.Path.Value)
				for _, bad := range forbidden {
					if strings.Contains(path, "dossier-tracking"+bad) {
						t.Errorf("%s imports adapter package %s", file, path)
					}
				}
			}
		}
	}
}
