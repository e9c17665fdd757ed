package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ucom-dev/ucom/internal/config"
	ucomerrors "github.com/ucom-dev/ucom/internal/errors"
	"github.com/ucom-dev/ucom/pkg/bind"
	"github.com/ucom-dev/ucom/pkg/component"
	"github.com/ucom-dev/ucom/pkg/persist"

	// SQL drivers of the sqlite, postgres and mysql backends.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// project is a loaded ucom project.
type project struct {
	cfg    *config.Config
	logger *slog.Logger
}

// loadProject loads the configuration of the project in dir, or of the
// project containing the working directory when dir is empty. The
// configured logger becomes the default logger.
func loadProject(dir string) (*project, error) {
	var (
		cfg *config.Config
		err error
	)
	if dir == "" {
		cfg, err = config.LoadFromWorkingDir()
	} else {
		cfg, err = config.Load(dir)
	}
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return &project{cfg: cfg, logger: logger}, nil
}

// newLogger returns a text or JSON logger at the configured level.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// sanitizer returns the policy of the html directive, or nil for none.
func sanitizer(mode string) *bluemonday.Policy {
	switch mode {
	case config.SanitizeNone:
		return nil
	case config.SanitizeStrict:
		return bluemonday.StrictPolicy()
	default:
		return bluemonday.UGCPolicy()
	}
}

// walker returns a directive walker configured for the project.
func (p *project) walker() *bind.Walker {
	opts := []bind.WalkerOption{
		bind.WithPrefix(p.cfg.Prefix),
		bind.WithLogger(p.logger),
	}
	if policy := sanitizer(p.cfg.HTML.Sanitize); policy != nil {
		opts = append(opts, bind.WithSanitizer(policy))
	}
	return bind.NewWalker(opts...)
}

// manager returns a component manager loading from the components
// directory.
func (p *project) manager(logger *slog.Logger, plugins ...any) *component.Manager {
	return component.NewManager(
		component.WithLoader(component.FSLoader{FS: os.DirFS(p.cfg.ComponentsPath())}),
		component.WithLogger(logger),
		component.WithPlugins(plugins...),
	)
}

// entry is one component found in the components directory.
type entry struct {
	// Path is the slash-separated path relative to the components
	// directory.
	Path  string
	Ident component.Identity
	Err   error
}

// scan lists the components of the project, sorted by path. A directory
// ending in .com is one component; other files count when they carry the
// configured extension.
func (p *project) scan() ([]entry, error) {
	root := p.cfg.ComponentsPath()
	if st, err := os.Stat(root); err != nil || !st.IsDir() {
		return nil, ucomerrors.New("E401").WithDetail(root)
	}

	ext := p.cfg.Components.Ext
	var out []entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		switch {
		case d.IsDir() && strings.HasSuffix(rel, component.DirSuffix):
			ident, err := component.Resolve("", rel)
			out = append(out, entry{Path: rel, Ident: ident, Err: err})
			return fs.SkipDir
		case d.IsDir() || !strings.HasSuffix(rel, ext):
			return nil
		}

		ident, err := component.Resolve("", strings.TrimSuffix(rel, ext)+component.FileSuffix)
		ident.Resolved = rel
		out = append(out, entry{Path: rel, Ident: ident, Err: err})
		return nil
	})
	if err != nil {
		return nil, ucomerrors.New("E401").WithDetail(root).Wrap(err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// define loads and defines the component of e with m.
func (p *project) define(ctx context.Context, m *component.Manager, loader component.Loader, e entry) (*component.Definition, error) {
	if e.Err != nil {
		return nil, e.Err
	}
	tpl, err := loader.Load(ctx, e.Ident.Resolved)
	if err != nil {
		return nil, err
	}
	return m.Define(ctx, e.Ident.Name, tpl)
}

// codeOf maps a definition failure to its error code.
func codeOf(err error) string {
	var fe *component.FetchError
	switch {
	case errors.As(err, &fe):
		return "E201"
	case errors.Is(err, component.ErrTemplateDSD):
		return "E202"
	case errors.Is(err, component.ErrInvalidName):
		return "E204"
	case errors.Is(err, component.ErrScript):
		return "E203"
	case errors.Is(err, component.ErrPlugin):
		return "E206"
	default:
		return "E201"
	}
}

// openStorage opens the configured persist backend. The returned function
// releases it.
func (p *project) openStorage(ctx context.Context) (persist.Storage, func() error, error) {
	pc := p.cfg.Persist
	noop := func() error { return nil }

	switch pc.Backend {
	case config.BackendMemory:
		return persist.NewMemoryStorage(), noop, nil

	case config.BackendSQLite, config.BackendPostgres, config.BackendMySQL:
		dialect, err := persist.ParseDialect(pc.Backend)
		if err != nil {
			return nil, nil, ucomerrors.New("E302").Wrap(err)
		}
		// Backend names double as the registered driver names.
		db, err := sql.Open(pc.Backend, pc.DSN)
		if err != nil {
			return nil, nil, ucomerrors.New("E130").Wrap(err)
		}
		s := persist.NewSQLStorage(db, persist.WithTableName(pc.Table), persist.WithDialect(dialect))
		if err := s.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, ucomerrors.New("E131").WithDetail("creating table " + pc.Table).Wrap(err)
		}
		return s, db.Close, nil

	case config.BackendS3:
		return persist.NewS3Storage(newS3Client(), pc.Bucket, pc.KeyPrefix), noop, nil
	}
	return nil, nil, ucomerrors.New("E302").WithDetail(pc.Backend)
}
