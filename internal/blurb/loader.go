package blurb

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"
)

// Sink receives each document as soon as it has been loaded.
// The aggregation state implements it.
type Sink interface {
	Add(doc *Document) error
}

// Loader discovers and parses blurb files from a filesystem.
type Loader struct {
	fs  billy.Filesystem
	log zerolog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger that receives per-file and per-change progress.
func WithLogger(log zerolog.Logger) LoaderOption {
	return func(l *Loader) {
		l.log = log
	}
}

// NewLoader creates a Loader reading from fs. Progress logging is
// disabled unless WithLogger is given.
func NewLoader(fs billy.Filesystem, opts ...LoaderOption) *Loader {
	l := &Loader{fs: fs, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// IsBlurbFile reports whether name looks like a blurb file: a visible file
// with a .yaml or .yml extension.
func IsBlurbFile(name string) bool {
	base := path.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(path.Ext(base))
	return ext == ".yaml" || ext == ".yml"
}

// Discover lists the blurb files directly inside dir (no recursion),
// sorted by file name so that load order does not depend on the platform.
func (l *Loader) Discover(dir string) ([]string, error) {
	infos, err := l.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading blurb directory %s: %w", dir, err)
	}

	var files []string
	for _, info := range infos {
		if info.IsDir() || !IsBlurbFile(info.Name()) {
			continue
		}
		files = append(files, l.fs.Join(dir, info.Name()))
	}
	sort.Strings(files)

	l.log.Debug().Str("dir", dir).Int("files", len(files)).Msg("discovered blurb files")
	return files, nil
}

// LoadFile opens and parses a single blurb file.
func (l *Loader) LoadFile(name string) (*Document, error) {
	f, err := l.fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening blurb file: %w", err)
	}
	defer f.Close()

	l.log.Info().Str("file", name).Msg("processing blurb file")

	doc, err := Parse(name, f)
	if err != nil {
		return nil, err
	}

	for _, c := range doc.Changes {
		l.log.Info().
			Str("category", c.Category.String()).
			Str("issue", c.Issue).
			Str("description", c.Description).
			Msg("change")
	}
	return doc, nil
}

// LoadDir loads every blurb file in dir, in discovery order, handing each
// document to sink. It stops at the first file that fails to load or that
// sink rejects, so a bad blurb never produces partial results.
// Returns the number of documents loaded.
func (l *Loader) LoadDir(dir string, sink Sink) (int, error) {
	files, err := l.Discover(dir)
	if err != nil {
		return 0, err
	}

	for i, name := range files {
		doc, err := l.LoadFile(name)
		if err != nil {
			return i, err
		}
		if err := sink.Add(doc); err != nil {
			return i, fmt.Errorf("%s: %w", name, err)
		}
	}
	return len(files), nil
}
