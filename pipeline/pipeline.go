// Package pipeline orchestrates a full comparison run: discover the artifact
// ids of both guide versions, carry removed artifacts into the current output,
// merge the shared artifact pages, and annotate the artifact index with
// version membership.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/fhirtools/igdiff/composer"
	"github.com/fhirtools/igdiff/differ"
	"github.com/fhirtools/igdiff/htmldoc"
	"github.com/fhirtools/igdiff/igerrors"
	"github.com/fhirtools/igdiff/merger"
	"github.com/fhirtools/igdiff/snapshot"
)

// Pipeline wires the extraction, diffing, composition, and merging stages for
// one configured comparison.
type Pipeline struct {
	cfg    *Config
	logger zerolog.Logger

	extractor *snapshot.Extractor
	differ    *differ.Differ
	composer  *composer.Composer
	merger    *merger.Merger
}

// New builds a Pipeline from a validated configuration.
func New(cfg *Config, logger zerolog.Logger) *Pipeline {
	d := differ.New()
	d.SuppressChildren = cfg.SuppressChildren()

	m := merger.New(cfg.Comparison.PreviousVersion, cfg.Comparison.CurrentVersion)
	m.Logger = logger

	return &Pipeline{
		cfg:       cfg,
		logger:    logger,
		extractor: snapshot.New(),
		differ:    d,
		composer:  composer.New(cfg.Comparison.PreviousVersion, cfg.Comparison.CurrentVersion),
		merger:    m,
	}
}

// RunResult summarizes a pipeline run.
type RunResult struct {
	// Shared, Added, and Removed count artifact ids by version membership.
	Shared  int `json:"shared" yaml:"shared"`
	Added   int `json:"added" yaml:"added"`
	Removed int `json:"removed" yaml:"removed"`

	// Processed lists the artifacts whose pages were merged successfully.
	Processed []string `json:"processed" yaml:"processed"`
	// Failed maps artifact ids to the error that aborted them. A failed
	// artifact never aborts the batch.
	Failed map[string]error `json:"-" yaml:"-"`
}

// Run executes the full pipeline. It returns an error only when the run as a
// whole cannot proceed; per-artifact failures are collected in the result.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	previousIDs, err := CollectProfileIDs(p.cfg.PreviousFSHDir(), p.logger)
	if err != nil {
		return nil, fmt.Errorf("discovering previous artifacts: %w", err)
	}
	currentIDs, err := CollectProfileIDs(p.cfg.CurrentFSHDir(), p.logger)
	if err != nil {
		return nil, fmt.Errorf("discovering current artifacts: %w", err)
	}

	shared := sortedIntersection(previousIDs, currentIDs)
	result := &RunResult{
		Shared:  len(shared),
		Added:   len(currentIDs) - len(shared),
		Removed: len(previousIDs) - len(shared),
		Failed:  make(map[string]error),
	}
	p.logger.Info().
		Int("shared", result.Shared).
		Int("added", result.Added).
		Int("removed", result.Removed).
		Msg("artifact discovery complete")

	if err := UpdateArtifactIndex(p.cfg, previousIDs, currentIDs, p.logger); err != nil {
		return nil, fmt.Errorf("updating artifact index: %w", err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.WorkerCount())
	for _, artifactID := range shared {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			err := p.processArtifact(artifactID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.logger.Error().Str("artifact", artifactID).Err(err).Msg("artifact processing failed")
				result.Failed[artifactID] = err
				return nil
			}
			p.logger.Info().Str("artifact", artifactID).Msg("artifact processed")
			result.Processed = append(result.Processed, artifactID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(result.Processed)

	if err := AnnotateVersions(p.cfg, previousIDs, currentIDs); err != nil {
		return nil, fmt.Errorf("annotating artifact versions: %w", err)
	}
	return result, nil
}

// processArtifact merges one shared artifact's pages and writes the merged
// page over the current version's file. The first run snapshots both original
// pages next to the output; later runs always start from those snapshots so
// the merge does not compound.
func (p *Pipeline) processArtifact(artifactID string) error {
	page := artifactPage(artifactID)
	prevCache := filepath.Join(p.cfg.CurrentOutputDir(),
		fmt.Sprintf("StructureDefinition-%s-prev-orig.html", artifactID))
	currCache := filepath.Join(p.cfg.CurrentOutputDir(),
		fmt.Sprintf("StructureDefinition-%s-curr-orig.html", artifactID))

	prevDoc, err := loadCached(filepath.Join(p.cfg.PreviousOutputDir(), page), prevCache)
	if err != nil {
		return err
	}
	currDoc, err := loadCached(filepath.Join(p.cfg.CurrentOutputDir(), page), currCache)
	if err != nil {
		return err
	}

	previous := p.extractor.Extract(prevDoc)
	current := p.extractor.Extract(currDoc)
	diff := p.differ.Diff(previous, current)

	guide, err := p.composer.Compose(diff.Changes, p.cfg.MappingsFor(artifactID))
	if err != nil {
		return err
	}
	if err := composer.InjectGuide(currDoc, guide); err != nil {
		if !errors.Is(err, igerrors.ErrRegion) {
			return err
		}
		p.logger.Warn().Str("artifact", artifactID).Msg("page has no tab container, migration guide not injected")
	}

	if err := p.merger.MergeTables(prevDoc, currDoc, p.cfg.Tables); err != nil {
		return err
	}
	if err := p.merger.MergeTabs(prevDoc, currDoc, p.cfg.Tabs); err != nil {
		return err
	}

	return currDoc.WriteFile(filepath.Join(p.cfg.CurrentOutputDir(), page))
}

// loadCached loads the snapshot copy at cachePath, creating it from src first
// if this is the initial run.
func loadCached(src, cachePath string) (*htmldoc.Document, error) {
	if _, err := os.Stat(cachePath); err != nil {
		if err := copyFile(src, cachePath); err != nil {
			return nil, &igerrors.DocumentError{Path: src, Message: "caching original page", Cause: err}
		}
	}
	return htmldoc.Load(cachePath)
}

// sortedIntersection returns the ids present in both sets, sorted.
func sortedIntersection(a, b map[string]struct{}) []string {
	var out []string
	for id := range a {
		if _, ok := b[id]; ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
