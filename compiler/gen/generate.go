package gen

import (
	"context"
	"errors"
	"go/token"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/atomflag/compiler/load"
)

// Generator turns loaded flag sets into wrapper files. Declarations are
// independent: a rejected declaration produces no file and does not stop
// the others.
type Generator struct {
	cfg    *Config
	writer *FileWriter
}

// NewGenerator creates a new Generator. A nil config uses the defaults.
func NewGenerator(cfg *Config) *Generator {
	if cfg == nil {
		cfg = MustNewConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Generator{
		cfg:    cfg,
		writer: NewFileWriter(),
	}
}

// Metrics returns the writer metrics accumulated by this generator.
func (g *Generator) Metrics() WriterMetrics {
	return g.writer.Metrics()
}

// Wrappers resolves and synthesizes the wrapper of every flag set. It
// returns the wrappers that succeeded and the joined declaration errors.
func (g *Generator) Wrappers(sets []*load.FlagSet) ([]*Wrapper, error) {
	var (
		errs     []error
		wrappers = make([]*Wrapper, 0, len(sets))
	)
	for _, fs := range sets {
		w, err := Synthesize(fs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		wrappers = append(wrappers, w)
	}
	return wrappers, errors.Join(errs...)
}

// Synthesize resolves the configuration of fs and builds its wrapper.
// Errors are wrapped in a DeclarationError naming fs.
func Synthesize(fs *load.FlagSet) (*Wrapper, error) {
	o, err := ResolveOwnership(fs)
	if err != nil {
		return nil, NewDeclarationError(fs.Name, directivePos(fs), err)
	}
	w, err := NewWrapper(fs, o)
	if err != nil {
		return nil, NewDeclarationError(fs.Name, fs.Pos, err)
	}
	return w, nil
}

// directivePos returns the position of the offending directive, falling
// back to the declaration itself.
func directivePos(fs *load.FlagSet) token.Position {
	if n := len(fs.Directives); n > 0 && fs.Directives[n-1].Pos.IsValid() {
		return fs.Directives[n-1].Pos
	}
	return fs.Pos
}

// Generate writes one file per flag set next to its declaration.
func (g *Generator) Generate(ctx context.Context, sets []*load.FlagSet) error {
	wrappers, declErr := g.Wrappers(sets)

	errs := make([]error, len(wrappers))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Workers)
	for i, w := range wrappers {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			errs[i] = g.generate(w)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	err := errors.Join(append([]error{declErr}, errs...)...)
	m := g.writer.Metrics()
	g.cfg.Logger.Info("generation finished",
		zap.Int("declarations", len(sets)),
		zap.Int("written", m.FilesWritten),
		zap.Int("unchanged", m.FilesUnchanged),
		zap.Bool("failed", err != nil),
	)
	return err
}

// generate emits and writes the file of a single wrapper.
func (g *Generator) generate(w *Wrapper) error {
	path := filepath.Join(w.FlagSet.Dir, w.FileName(g.cfg.Suffix))
	changed, err := g.writer.Write(Emit(w, g.cfg.Header), path)
	if err != nil {
		return NewDeclarationError(w.FlagSet.Name, w.FlagSet.Pos, err)
	}
	g.cfg.Logger.Debug("wrapper generated",
		zap.String("type", w.FlagSet.PkgPath+"."+w.FlagSet.Name),
		zap.String("wrapper", w.Name),
		zap.Stringer("ownership", w.Ownership),
		zap.String("file", path),
		zap.Bool("changed", changed),
	)
	return nil
}
