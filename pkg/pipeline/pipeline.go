// Package pipeline turns a scene file into rendered artifacts.
//
// It is shared by the CLI and the render server. A run has two stages:
//
//  1. Build: lay out the heatmap cells in the data panel, attach and render
//     the color ramp legend (see [BuildScene])
//  2. Render: export the scene in one or more formats (SVG, PNG, JSON)
//
// A [Runner] wraps both stages with an artifact cache keyed by the scene's
// content hash, so repeated renders of the same scene are served from cache.
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, scene, pipeline.Options{Formats: []string{"svg"}})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ramplegend/pkg/cache"
	"github.com/matzehuels/ramplegend/pkg/errors"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ArtifactTTL is how long rendered artifacts stay cached.
const ArtifactTTL = 7 * 24 * time.Hour

// Options controls a pipeline run.
type Options struct {
	// Formats defaults to svg.
	Formats []string `json:"formats,omitempty"`
	// Scale is the PNG pixel ratio; zero means 1.
	Scale float64 `json:"scale,omitempty"`
	// Interactive embeds the anchor script in SVG output.
	Interactive bool `json:"interactive,omitempty"`
	// Refresh skips cache reads; fresh results are still stored.
	Refresh bool `json:"refresh,omitempty"`
	// Source is recorded in JSON output.
	Source string `json:"source,omitempty"`

	Logger *log.Logger `json:"-"`
	// Clock drives the scene's animations; nil means time.Now.
	Clock func() time.Time `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is nil when every artifact came from cache.
	Scene *Scene

	// SceneHash is the content hash of the scene file.
	SceneHash string

	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats Stats

	// CacheHit reports that every artifact came from cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Cells      int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return nil
}

// ArtifactKeyOpts returns the cache key options for one format. Options that
// do not affect a format's bytes are left out so they share entries.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatPNG:
		k.Scale = o.Scale
	case FormatSVG:
		k.Interactive = o.Interactive
	case FormatJSON:
		k.Source = o.Source
	}
	return k
}
