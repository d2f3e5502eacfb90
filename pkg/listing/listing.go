// Package listing enumerates the immediate children of a directory for the
// graph engine.
//
// A [Lister] never recurses and never fails: an unreadable or vanished
// directory lists as empty, and the failure is reported through
// [observability.Listing] instead of being returned. The engine treats "no
// listing" exactly like "empty directory".
//
// [FSLister] reads any [afero.Fs]; [NewOSLister] wraps the real filesystem and
// tests use afero.NewMemMapFs.
package listing

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/matzehuels/dirgraph/pkg/observability"
)

// Entry is one immediate child of a listed directory.
type Entry struct {
	Name  string // Base name
	Key   string // Full path, usable as the key for a nested listing
	IsDir bool
	Ext   string // Extension without the leading dot, empty for none
}

// Lister returns the immediate children of the directory identified by key.
// Implementations must not recurse and must return an empty slice on failure.
type Lister interface {
	List(key string, includeHidden bool) []Entry
}

// Func adapts a plain function to the Lister interface.
type Func func(key string, includeHidden bool) []Entry

// List calls f.
func (f Func) List(key string, includeHidden bool) []Entry { return f(key, includeHidden) }

// FSLister lists directories on an afero filesystem.
type FSLister struct {
	fs afero.Fs
}

// NewFSLister creates a lister over fs.
func NewFSLister(fs afero.Fs) *FSLister {
	return &FSLister{fs: fs}
}

// NewOSLister creates a lister over the host filesystem.
func NewOSLister() *FSLister {
	return NewFSLister(afero.NewOsFs())
}

// List returns the children of key, directories first, then by
// case-insensitive name. Entries whose name starts with '.' are skipped
// unless includeHidden is set.
func (l *FSLister) List(key string, includeHidden bool) []Entry {
	infos, err := afero.ReadDir(l.fs, key)
	if err != nil {
		observability.Listing().OnListError(key, err)
		return []Entry{}
	}

	entries := make([]Entry, 0, len(infos))
	for _, fi := range infos {
		name := fi.Name()
		if !includeHidden && IsHidden(name) {
			continue
		}
		path := filepath.Join(key, name)
		isDir := fi.IsDir()
		// Symlinks to directories list as directories.
		if fi.Mode()&fs.ModeSymlink != 0 {
			if target, err := l.fs.Stat(path); err == nil {
				isDir = target.IsDir()
			}
		}
		entries = append(entries, Entry{
			Name:  name,
			Key:   path,
			IsDir: isDir,
			Ext:   Ext(name),
		})
	}
	Sort(entries)
	return entries
}

// Sort orders entries directories first, then by lowercase name.
func Sort(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}
			return 1
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}

// IsHidden reports whether name is a dotfile.
func IsHidden(name string) bool { return strings.HasPrefix(name, ".") }

// Ext returns the extension of name without the leading dot.
// Dotfiles without a further dot, like ".bashrc", have no extension.
func Ext(name string) string {
	if IsHidden(name) && strings.Count(name, ".") == 1 {
		return ""
	}
	return strings.TrimPrefix(filepath.Ext(name), ".")
}
