package component

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/gosimple/slug"

	"github.com/ucom-dev/ucom/pkg/dom"
)

const (
	// AutoNamePrefix prefixes the names of anonymous components.
	AutoNamePrefix = "ucom"

	// FileSuffix is the extension of a component file.
	FileSuffix = ".html"

	// DirSuffix marks a component directory holding name.html.
	DirSuffix = ".com"
)

var nameRE = regexp.MustCompile(`^[a-z][a-z0-9]*-[a-z0-9-]*$`)

// ValidName reports whether name is a valid custom element name.
func ValidName(name string) bool {
	return nameRE.MatchString(name)
}

// Identity names a component and where its template lives.
type Identity struct {
	Name     string
	Resolved string
}

// Definition is an immutable defined component.
type Definition struct {
	name     string
	resolved string
	template *dom.Node
}

// Name returns the custom element name.
func (d *Definition) Name() string { return d.name }

// Resolved returns the location the template was loaded from, or "" for
// templates defined inline.
func (d *Definition) Resolved() string { return d.resolved }

// Template returns a deep copy of the pristine template.
func (d *Definition) Template() *dom.Node { return d.template.Clone(true) }

// Resolve maps a component path to its identity. The component name is the
// file name without extension, normalized to lowercase kebab-case. A
// directory path ending in .com resolves to name.html inside it. Relative
// paths are resolved against base, which may be a URL or a directory.
func Resolve(base, p string) (Identity, error) {
	ext := ""
	switch {
	case strings.HasSuffix(p, FileSuffix):
		ext = FileSuffix
	case strings.HasSuffix(p, DirSuffix):
		ext = DirSuffix
	default:
		return Identity{}, fmt.Errorf("%w: %q has no %s or %s suffix", ErrInvalidName, p, FileSuffix, DirSuffix)
	}

	name := slug.Make(strings.TrimSuffix(path.Base(p), ext))
	if !ValidName(name) {
		return Identity{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if ext == DirSuffix {
		p += "/" + name + FileSuffix
	}

	return Identity{Name: name, Resolved: resolveAgainst(base, p)}, nil
}

func resolveAgainst(base, p string) string {
	if base == "" {
		return path.Clean(p)
	}
	if u, err := url.Parse(base); err == nil && u.Scheme != "" {
		ref, err := url.Parse(p)
		if err != nil {
			return p
		}
		return u.ResolveReference(ref).String()
	}
	if path.IsAbs(p) {
		return path.Clean(p)
	}
	return path.Join(base, p)
}
