// Package config resolves run settings from defaults, a .env file, the
// process environment and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"pkg.jsn.cam/seceventgen/internal/event"
	"pkg.jsn.cam/seceventgen/internal/generator"
	"pkg.jsn.cam/seceventgen/internal/output"
	"pkg.jsn.cam/seceventgen/internal/util"
	"pkg.jsn.cam/seceventgen/pkg/sqlfmt"
)

// EnvPrefix prefixes every environment variable the tool reads
const EnvPrefix = "SECEVENTS_"

// DateLayout is the accepted base date format
const DateLayout = "2006-01-02"

// Defaults
const (
	DefaultCount     = 300
	DefaultBaseDate  = "2023-01-01"
	DefaultTable     = "security_events"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "console"
)

var (
	ErrInvalidValue = errors.New("invalid configuration value")
	ErrHelp         = flag.ErrHelp
)

// Config is a fully validated run configuration
type Config struct {
	Count        int
	BaseDate     time.Time
	Table        string
	Policy       string
	Seed         uint64
	SeedSet      bool // false: Seed was derived from the clock
	TaxonomyPath string
	Clear        sqlfmt.ClearMode
	ColumnList   bool
	CreateTable  bool
	Actors       event.ActorStyle
	Compression  output.Compression
	Progress     bool
	LogLevel     string
	LogFormat    string
	ListPolicies bool
}

// Lookup returns the value of an environment variable and whether it is set
type Lookup func(key string) (string, bool)

// Environment returns a Lookup over the process environment backed by the
// variables in dotenvPath. Process variables win. A missing file is not an
// error.
func Environment(dotenvPath string) (Lookup, error) {
	fileVars, err := godotenv.Read(dotenvPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", dotenvPath, err)
		}
		fileVars = map[string]string{}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}, nil
}

// raw holds settings before typed validation
type raw struct {
	count        int
	baseDate     string
	table        string
	policy       string
	seed         string
	taxonomyPath string
	clear        string
	columnList   bool
	createTable  bool
	actors       string
	compression  string
	progress     bool
	logLevel     string
	logFormat    string
	listPolicies bool
}

func defaults() raw {
	return raw{
		count:       DefaultCount,
		baseDate:    DefaultBaseDate,
		table:       DefaultTable,
		policy:      generator.DefaultPolicy,
		clear:       string(sqlfmt.ClearTruncate),
		columnList:  true,
		actors:      string(event.ActorsNumbered),
		compression: string(output.CompressNone),
		logLevel:    DefaultLogLevel,
		logFormat:   DefaultLogFormat,
	}
}

// Parse resolves the configuration for a run. Usage and flag errors are
// written to stderr. Parse returns ErrHelp when -h was requested.
func Parse(name string, args []string, lookup Lookup, stderr io.Writer) (*Config, error) {
	r := defaults()
	if err := r.applyEnv(lookup); err != nil {
		return nil, err
	}

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.IntVar(&r.count, "count", r.count, "Number of records to generate (cap for the weighted policy)")
	flags.StringVar(&r.baseDate, "base-date", r.baseDate, "Start of the one-year timestamp window (YYYY-MM-DD)")
	flags.StringVar(&r.table, "table", r.table, "Target table name")
	flags.StringVar(&r.policy, "policy", r.policy, "Generation policy: "+strings.Join(generator.List(), ", "))
	flags.StringVar(&r.seed, "seed", r.seed, "Random seed (unset: derived from the clock)")
	flags.StringVar(&r.taxonomyPath, "taxonomy", r.taxonomyPath, "Path to a taxonomy YAML file (default: built-in)")
	flags.StringVar(&r.clear, "clear", r.clear, "Table clearing statement: truncate, delete or none")
	flags.BoolVar(&r.columnList, "columns", r.columnList, "Name the columns in the INSERT statement")
	flags.BoolVar(&r.createTable, "create-table", r.createTable, "Emit CREATE TABLE IF NOT EXISTS before inserting")
	flags.StringVar(&r.actors, "actors", r.actors, "Actor identifiers: numbered or realistic")
	flags.StringVar(&r.compression, "compress", r.compression, "Compress stdout: none, gzip, zstd or lz4")
	flags.BoolVar(&r.progress, "progress", r.progress, "Show a progress bar on stderr")
	flags.StringVar(&r.logLevel, "log-level", r.logLevel, "Log level: debug, info, warn, error")
	flags.StringVar(&r.logFormat, "log-format", r.logFormat, "Log format: console or json")
	flags.BoolVar(&r.listPolicies, "list-policies", false, "List generation policies and exit")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage of %s:\n", name)
		fmt.Fprintf(stderr, "\nWrites a SQL script seeding a table with synthetic security events to stdout.\n")
		fmt.Fprintf(stderr, "Every flag can also be set with %s<FLAG> (dashes become underscores),\n", EnvPrefix)
		fmt.Fprintf(stderr, "in the environment or in a .env file.\n\nOptions:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  %s -seed 42 > seed.sql\n", name)
		fmt.Fprintf(stderr, "  %s -policy uniform -count 10000 -clear delete -create-table | sqlite3 test.db\n", name)
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %v", ErrInvalidValue, flags.Args())
	}

	return r.validate()
}

func (r *raw) applyEnv(lookup Lookup) error {
	if lookup == nil {
		return nil
	}

	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q", ErrInvalidValue, EnvPrefix, key, v)
		}
		*dst = b
		return nil
	}

	if v, ok := lookup(EnvPrefix + "COUNT"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %sCOUNT=%q", ErrInvalidValue, EnvPrefix, v)
		}
		r.count = n
	}
	str("BASE_DATE", &r.baseDate)
	str("TABLE", &r.table)
	str("POLICY", &r.policy)
	str("SEED", &r.seed)
	str("TAXONOMY", &r.taxonomyPath)
	str("CLEAR", &r.clear)
	str("ACTORS", &r.actors)
	str("COMPRESS", &r.compression)
	str("LOG_LEVEL", &r.logLevel)
	str("LOG_FORMAT", &r.logFormat)

	for key, dst := range map[string]*bool{
		"COLUMNS":      &r.columnList,
		"CREATE_TABLE": &r.createTable,
		"PROGRESS":     &r.progress,
	} {
		if err := boolean(key, dst); err != nil {
			return err
		}
	}
	return nil
}

func (r *raw) validate() (*Config, error) {
	cfg := &Config{
		Count:        r.count,
		Table:        r.table,
		Policy:       r.policy,
		TaxonomyPath: r.taxonomyPath,
		ColumnList:   r.columnList,
		CreateTable:  r.createTable,
		Progress:     r.progress,
		LogLevel:     strings.ToLower(r.logLevel),
		LogFormat:    strings.ToLower(r.logFormat),
		ListPolicies: r.listPolicies,
	}

	if cfg.ListPolicies {
		return cfg, nil
	}

	if cfg.Count < 1 {
		return nil, fmt.Errorf("%w: count must be at least 1, got %d", ErrInvalidValue, cfg.Count)
	}

	base, err := time.Parse(DateLayout, r.baseDate)
	if err != nil {
		return nil, fmt.Errorf("%w: base date %q must be YYYY-MM-DD", ErrInvalidValue, r.baseDate)
	}
	cfg.BaseDate = base

	if err := sqlfmt.ValidateTable(cfg.Table); err != nil {
		return nil, err
	}
	if _, err := generator.Get(cfg.Policy); err != nil {
		return nil, err
	}

	if r.seed != "" {
		seed, err := strconv.ParseUint(r.seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: seed %q must be a non-negative integer", ErrInvalidValue, r.seed)
		}
		cfg.Seed = seed
		cfg.SeedSet = true
	} else {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	if cfg.Clear, err = sqlfmt.ParseClearMode(r.clear); err != nil {
		return nil, err
	}
	if cfg.Actors, err = event.ParseActorStyle(r.actors); err != nil {
		return nil, err
	}
	if cfg.Compression, err = output.ParseCompression(r.compression); err != nil {
		return nil, err
	}

	if !util.ValidLevel(cfg.LogLevel) {
		return nil, fmt.Errorf("%w: log level %q", ErrInvalidValue, r.logLevel)
	}
	if cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("%w: log format %q", ErrInvalidValue, r.logFormat)
	}

	return cfg, nil
}
