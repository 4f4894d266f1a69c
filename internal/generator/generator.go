// Package generator drives a generation policy, the record synthesizer and
// the SQL formatter to produce a complete seed script.
package generator

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/rand/v2"

	"go.uber.org/zap"

	"pkg.jsn.cam/seceventgen/internal/event"
	"pkg.jsn.cam/seceventgen/pkg/sqlfmt"
	"pkg.jsn.cam/seceventgen/pkg/taxonomy"
)

// Config holds everything a run needs
type Config struct {
	Taxonomy *taxonomy.Taxonomy
	Policy   string // registry name; empty uses DefaultPolicy
	Count    int    // record cap
	Seed     uint64

	Table       string
	Clear       sqlfmt.ClearMode
	ColumnList  bool
	CreateTable bool

	Event event.Options
}

// Stats summarizes a finished run
type Stats struct {
	Rows       int
	Malicious  int
	Bytes      int64
	Categories map[string]int
	Severities map[event.Severity]int
}

// ProgressReporter receives one tick per emitted record
type ProgressReporter interface {
	Add(num int) error
}

// Option customizes a Generator
type Option func(*Generator)

// WithProgress reports each emitted record to p
func WithProgress(p ProgressReporter) Option {
	return func(g *Generator) { g.progress = p }
}

// WithLogger sets the logger used for run diagnostics
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// Generator writes one seed script. It is single-use and not safe for
// concurrent use.
type Generator struct {
	header   sqlfmt.Header
	policy   Policy
	synth    *event.Synthesizer
	progress ProgressReporter
	log      *zap.Logger
	ran      bool
}

// NewSource returns the seeded random source shared by the policy, the
// synthesizer and token generation
func NewSource(seed uint64) *rand.ChaCha8 {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	return rand.NewChaCha8(key)
}

// New validates cfg and prepares a run
func New(cfg Config, opts ...Option) (*Generator, error) {
	if cfg.Taxonomy == nil {
		return nil, ErrNoTaxonomy
	}
	if err := cfg.Taxonomy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid taxonomy: %w", err)
	}
	if cfg.Count < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, cfg.Count)
	}

	header := sqlfmt.Header{
		Table:       cfg.Table,
		Columns:     event.Columns,
		Clear:       cfg.Clear,
		ColumnList:  cfg.ColumnList,
		CreateTable: cfg.CreateTable,
	}
	if err := header.Validate(); err != nil {
		return nil, err
	}

	name := cfg.Policy
	if name == "" {
		name = DefaultPolicy
	}
	policy, err := Get(name)
	if err != nil {
		return nil, err
	}

	src := NewSource(cfg.Seed)
	rng := rand.New(src)

	synth, err := event.NewSynthesizer(rng, src, cfg.Event)
	if err != nil {
		return nil, err
	}

	policy.Init(cfg.Taxonomy, cfg.Count, rng)
	if policy.Count() < 1 {
		return nil, ErrNoRecords
	}

	g := &Generator{
		header: header,
		policy: policy,
		synth:  synth,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Count returns the number of records Run will emit
func (g *Generator) Count() int {
	return g.policy.Count()
}

// Run writes the header followed by one tuple per record. Every tuple but
// the last ends with a comma; the last ends the statement.
func (g *Generator) Run(w io.Writer) (Stats, error) {
	if g.ran {
		return Stats{}, ErrAlreadyStarted
	}
	g.ran = true

	stats := Stats{
		Categories: make(map[string]int),
		Severities: make(map[event.Severity]int),
	}

	n, err := g.header.WriteTo(w)
	stats.Bytes += n
	if err != nil {
		return stats, fmt.Errorf("failed to write header: %w", err)
	}

	total := g.policy.Count()
	g.log.Debug("Generating records",
		zap.Int("count", total),
		zap.String("policy", g.policy.Description()),
	)

	for id := 1; id <= total; id++ {
		rec, err := g.synth.Record(int64(id), g.policy.Next())
		if err != nil {
			return stats, fmt.Errorf("record %d: %w", id, err)
		}

		line := rec.Tuple() + sqlfmt.Terminator(id == total) + "\n"
		written, err := io.WriteString(w, line)
		stats.Bytes += int64(written)
		if err != nil {
			return stats, fmt.Errorf("failed to write record %d: %w", id, err)
		}

		stats.Rows++
		stats.Categories[rec.Category]++
		stats.Severities[rec.Severity]++
		if rec.Malicious {
			stats.Malicious++
		}

		if g.progress != nil {
			if err := g.progress.Add(1); err != nil {
				g.log.Debug("Progress update failed", zap.Error(err))
			}
		}
	}

	return stats, nil
}
