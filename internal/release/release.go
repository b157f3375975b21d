// Package release runs the blurbs pipeline: load every blurb file, aggregate,
// order, and render the release notes and changelog. Both documents are fully
// rendered in memory before anything is written, so a validation failure
// never leaves a partial RELEASE.txt or CHANGES.txt behind.
package release

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ariel-frischer/blurbs/internal/aggregate"
	"github.com/ariel-frischer/blurbs/internal/blurb"
	"github.com/ariel-frischer/blurbs/internal/logging"
	"github.com/ariel-frischer/blurbs/internal/render"
	"github.com/ariel-frischer/blurbs/internal/shortlog"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Options configures a run.
type Options struct {
	// Input is the filesystem blurb files are read from.
	Input    billy.Filesystem
	InputDir string
	// Output is the filesystem artifacts are written to.
	Output    billy.Filesystem
	OutputDir string

	// Renderer defaults to the embedded templates.
	Renderer render.Renderer

	Version         string
	PreviousVersion string

	Shortlog shortlog.Source
	// RepoDir is the repository path used by the git shortlog.
	RepoDir string

	// Getenv and Now default to os.Getenv and time.Now.
	Getenv func(string) string
	Now    func() time.Time
}

// Artifact is one rendered document.
type Artifact struct {
	Name    string
	Content []byte
}

// Result describes a completed run.
type Result struct {
	State     *aggregate.State
	Release   render.ReleaseView
	Changelog render.ChangelogView
	Artifacts []Artifact
	// Written lists the artifact paths, empty for Check.
	Written []string
}

// Run loads, validates and renders, then writes both artifacts.
func Run(ctx context.Context, opts Options) (*Result, error) {
	res, err := Check(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	written, err := writeArtifacts(opts.Output, opts.OutputDir, res.Artifacts)
	if err != nil {
		return nil, err
	}
	res.Written = written

	log := logging.FromContext(ctx)
	for _, p := range written {
		log.Info().Str("path", p).Msg("wrote artifact")
	}
	return res, nil
}

// Check runs the whole pipeline except writing the artifacts.
func Check(ctx context.Context, opts Options) (*Result, error) {
	opts = withDefaults(opts)
	log := logging.FromContext(ctx)

	state := aggregate.NewState()
	loader := blurb.NewLoader(opts.Input, blurb.WithLogger(*log))
	n, err := loader.LoadDir(opts.InputDir, state)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Int("documents", n).
		Int("changes", state.ChangeCount()).
		Msg("loaded blurbs")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meta, err := buildMetadata(state, opts)
	if err != nil {
		return nil, err
	}

	releaseView := render.BuildReleaseView(state, meta)
	changelogView, err := render.BuildChangelogView(state, meta)
	if err != nil {
		return nil, err
	}

	artifacts := make([]Artifact, 0, 2)
	for _, job := range []struct {
		template string
		data     any
	}{
		{render.ReleaseTemplate, releaseView},
		{render.ChangelogTemplate, changelogView},
	} {
		var buf bytes.Buffer
		if err := opts.Renderer.Render(job.template, job.data, &buf); err != nil {
			return nil, fmt.Errorf("rendering %s: %w", render.ArtifactName(job.template), err)
		}
		artifacts = append(artifacts, Artifact{Name: render.ArtifactName(job.template), Content: buf.Bytes()})
	}

	return &Result{
		State:     state,
		Release:   releaseView,
		Changelog: changelogView,
		Artifacts: artifacts,
	}, nil
}

func withDefaults(opts Options) Options {
	if opts.Renderer == nil {
		opts.Renderer = render.NewTemplateRenderer(nil)
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Shortlog == "" {
		opts.Shortlog = shortlog.SourceBlurbs
	}
	if opts.InputDir == "" {
		opts.InputDir = "."
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	return opts
}

// buildMetadata computes the shortlog and timestamp shared by both views.
func buildMetadata(state *aggregate.State, opts Options) (render.Metadata, error) {
	date, err := render.Timestamp(opts.Getenv, opts.Now)
	if err != nil {
		return render.Metadata{}, err
	}

	var contributors []shortlog.Contributor
	switch opts.Shortlog {
	case shortlog.SourceBlurbs:
		contributors, err = shortlog.FromState(state)
	case shortlog.SourceGit:
		contributors, err = shortlog.FromGit(opts.RepoDir, opts.PreviousVersion)
	case shortlog.SourceNone:
	default:
		err = fmt.Errorf("unknown shortlog source %q", opts.Shortlog)
	}
	if err != nil {
		return render.Metadata{}, fmt.Errorf("building shortlog: %w", err)
	}

	return render.Metadata{
		Version:         opts.Version,
		PreviousVersion: opts.PreviousVersion,
		Shortlog:        shortlog.Format(contributors),
		Date:            date,
	}, nil
}

// writeArtifacts writes every artifact to a temporary file first and renames
// them into place once all writes succeeded. Existing artifacts are replaced.
func writeArtifacts(fs billy.Filesystem, dir string, artifacts []Artifact) ([]string, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	tmp := make([]string, len(artifacts))
	for i, a := range artifacts {
		tmp[i] = fs.Join(dir, "."+a.Name+".tmp")
		if err := util.WriteFile(fs, tmp[i], a.Content, 0o644); err != nil {
			removeAll(fs, tmp[:i+1])
			return nil, fmt.Errorf("writing %s: %w", a.Name, err)
		}
	}

	written := make([]string, len(artifacts))
	for i, a := range artifacts {
		written[i] = fs.Join(dir, a.Name)
		if err := fs.Rename(tmp[i], written[i]); err != nil {
			removeAll(fs, tmp[i:])
			return nil, fmt.Errorf("replacing %s: %w", written[i], err)
		}
	}
	return written, nil
}

func removeAll(fs billy.Filesystem, paths []string) {
	for _, p := range paths {
		_ = fs.Remove(p)
	}
}
