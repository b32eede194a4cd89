// Package load type-checks user packages and extracts the flag-set
// declarations marked for generation.
package load

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Config configures the loader.
type Config struct {
	// Dir is the directory in which to run the build system. Empty means
	// the current directory.
	Dir string
	// BuildFlags are passed to the build system, e.g. "-tags=dev".
	BuildFlags []string
	// Manifest selects additional types, or configures them, without
	// comment directives.
	Manifest *Manifest
	// GeneratedSuffix is the file suffix of generated files. Type errors
	// located in such files are ignored, since a stale wrapper must not
	// prevent its own regeneration.
	GeneratedSuffix string
}

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

// Load loads the packages matching patterns and returns their flag sets,
// sorted by package path and type name.
func Load(ctx context.Context, cfg *Config, patterns ...string) ([]*FlagSet, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	pkgs, err := packages.Load(&packages.Config{
		Context:    ctx,
		Mode:       loadMode,
		Dir:        cfg.Dir,
		BuildFlags: cfg.BuildFlags,
	}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found for %s", strings.Join(patterns, " "))
	}
	if err := checkErrors(pkgs, cfg.GeneratedSuffix); err != nil {
		return nil, err
	}
	var (
		errs   []error
		sets   []*FlagSet
		byName = make(map[string]*FlagSet)
	)
	for _, pkg := range pkgs {
		found, err := fromSyntax(pkg)
		errs = append(errs, err)
		for _, fs := range found {
			byName[fs.PkgPath+"."+fs.Name] = fs
			sets = append(sets, fs)
		}
	}
	if m := cfg.Manifest; m != nil {
		for _, mt := range m.Types {
			fs, err := fromManifest(pkgs, byName, m, mt)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if _, ok := byName[fs.PkgPath+"."+fs.Name]; !ok {
				byName[fs.PkgPath+"."+fs.Name] = fs
				sets = append(sets, fs)
			}
		}
	}
	sort.Slice(sets, func(i, j int) bool {
		if sets[i].PkgPath != sets[j].PkgPath {
			return sets[i].PkgPath < sets[j].PkgPath
		}
		return sets[i].Name < sets[j].Name
	})
	return sets, errors.Join(errs...)
}

// checkErrors reports the package errors, skipping type errors in generated files.
func checkErrors(pkgs []*packages.Package, suffix string) error {
	var errs []error
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			if suffix != "" && e.Kind == packages.TypeError && inGeneratedFile(e.Pos, suffix) {
				continue
			}
			errs = append(errs, fmt.Errorf("package %s: %s", pkg.PkgPath, e))
		}
	})
	return errors.Join(errs...)
}

// inGeneratedFile reports if an error position "file:line:col" is in a generated file.
func inGeneratedFile(pos, suffix string) bool {
	file := pos
	if i := strings.Index(file, ".go:"); i >= 0 {
		file = file[:i+len(".go")]
	}
	return strings.HasSuffix(file, suffix)
}

// fromSyntax walks the type declarations of pkg looking for directives.
func fromSyntax(pkg *packages.Package) ([]*FlagSet, error) {
	var (
		errs []error
		sets []*FlagSet
	)
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				groups := []*ast.CommentGroup{ts.Doc}
				if !gd.Lparen.IsValid() {
					groups = append(groups, gd.Doc)
				}
				ds := directives(pkg.Fset, groups...)
				if len(ds) == 0 {
					continue
				}
				fs, err := flagSetOf(pkg, ts)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				fs.Directives = ds
				sets = append(sets, fs)
			}
		}
	}
	return sets, errors.Join(errs...)
}

// flagSetOf resolves the declared type of ts.
func flagSetOf(pkg *packages.Package, ts *ast.TypeSpec) (*FlagSet, error) {
	pos := pkg.Fset.Position(ts.Pos())
	switch {
	case ts.Assign.IsValid():
		return nil, &FlagSetError{Type: ts.Name.Name, Pos: pos, Message: "type aliases are not supported"}
	case ts.TypeParams != nil && ts.TypeParams.NumFields() > 0:
		return nil, &FlagSetError{Type: ts.Name.Name, Pos: pos, Message: "generic types are not supported"}
	}
	obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
	if !ok {
		return nil, &FlagSetError{Type: ts.Name.Name, Pos: pos, Message: "type information not available"}
	}
	return named(obj, pos)
}

// fromManifest resolves a manifest entry against the loaded packages.
func fromManifest(pkgs []*packages.Package, known map[string]*FlagSet, m *Manifest, mt *ManifestType) (*FlagSet, error) {
	d := mt.Directive(m)
	for _, pkg := range pkgs {
		if mt.Package != "" && mt.Package != pkg.PkgPath {
			continue
		}
		if fs, ok := known[pkg.PkgPath+"."+mt.Name]; ok {
			fs.Directives = append(fs.Directives, d)
			return fs, nil
		}
		if pkg.Types == nil {
			continue
		}
		obj, ok := pkg.Types.Scope().Lookup(mt.Name).(*types.TypeName)
		if !ok {
			continue
		}
		fs, err := named(obj, pkg.Fset.Position(obj.Pos()))
		if err != nil {
			return nil, err
		}
		fs.Directives = []*Directive{d}
		return fs, nil
	}
	return nil, &FlagSetError{Type: mt.Name, Pos: d.Pos, Message: "type not found in the loaded packages"}
}

func named(obj *types.TypeName, pos token.Position) (*FlagSet, error) {
	if obj.IsAlias() {
		return nil, &FlagSetError{Type: obj.Name(), Pos: pos, Message: "type aliases are not supported"}
	}
	nt, ok := obj.Type().(*types.Named)
	if !ok {
		return nil, &FlagSetError{Type: obj.Name(), Pos: pos, Message: "not a named type"}
	}
	if nt.TypeParams().Len() > 0 {
		return nil, &FlagSetError{Type: obj.Name(), Pos: pos, Message: "generic types are not supported"}
	}
	fs, err := NewFlagSet(nt, pos)
	if err != nil {
		return nil, err
	}
	fs.Dir = filepath.Dir(pos.Filename)
	return fs, nil
}
