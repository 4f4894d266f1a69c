package event

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	mrand "math/rand"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jaswdr/faker/v2"

	"pkg.jsn.cam/seceventgen/pkg/taxonomy"
)

// ActorStyle selects how user identifiers are produced
type ActorStyle string

const (
	ActorsNumbered  ActorStyle = "numbered"  // user1..user200
	ActorsRealistic ActorStyle = "realistic" // faker usernames
)

var ErrUnknownActorStyle = errors.New("unknown actor style")

// ParseActorStyle validates an actor style name
func ParseActorStyle(s string) (ActorStyle, error) {
	switch a := ActorStyle(strings.ToLower(strings.TrimSpace(s))); a {
	case ActorsNumbered, ActorsRealistic:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownActorStyle, s)
	}
}

const (
	actorRate       = 0.8
	maliciousRate   = 0.15
	correlationRate = 0.3
	actorPoolSize   = 200

	narrativeTokenLen   = 6
	correlationTokenLen = 8
	correlationPrefix   = "corr-"
)

// Category and subcategory names with dedicated narrative or severity rules
const (
	categoryThreat       = "threat"
	subcategoryFailed    = "failed"
	subcategoryLockout   = "lockout"
	subcategoryPrivilege = "privileged"
)

var targets = []string{
	"CRM",
	"API Gateway",
	"Database",
	"Firewall",
	"Admin Panel",
	"Mobile App",
}

var (
	threatSeverities  = []Severity{SeverityHigh, SeverityCritical}
	defaultSeverities = []Severity{SeverityLow, SeverityMedium, SeverityHigh}
)

// Options configure a Synthesizer
type Options struct {
	BaseDate time.Time // start of the one-year window
	Actors   ActorStyle
	Pool     *AddressPool // nil uses DefaultAddressPool
}

// Synthesizer fills in the random fields of a record. It owns no state beyond
// its random sources and is not safe for concurrent use.
type Synthesizer struct {
	rng    *rand.Rand
	tokens io.Reader
	base   time.Time
	span   int64 // window length in seconds
	pool   *AddressPool
	actor  func() string
}

// NewSynthesizer creates a synthesizer drawing numbers from rng and token
// bytes from tokens. Both should come from the same seeded source for
// reproducible output.
func NewSynthesizer(rng *rand.Rand, tokens io.Reader, opts Options) (*Synthesizer, error) {
	if opts.BaseDate.IsZero() {
		return nil, errors.New("base date is required")
	}

	s := &Synthesizer{
		rng:    rng,
		tokens: tokens,
		base:   opts.BaseDate,
		span:   int64(opts.BaseDate.AddDate(1, 0, 0).Sub(opts.BaseDate) / time.Second),
		pool:   opts.Pool,
	}
	if s.pool == nil {
		s.pool = DefaultAddressPool()
	}

	switch opts.Actors {
	case ActorsNumbered, "":
		s.actor = func() string {
			return "user" + strconv.Itoa(1+s.rng.IntN(actorPoolSize))
		}
	case ActorsRealistic:
		fake := faker.NewWithSeed(mrand.NewSource(rng.Int64()))
		s.actor = func() string {
			return fake.Internet().User()
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownActorStyle, opts.Actors)
	}

	return s, nil
}

// Window returns the half-open time range timestamps are drawn from
func (s *Synthesizer) Window() (start, end time.Time) {
	return s.base, s.base.Add(time.Duration(s.span) * time.Second)
}

// Record synthesizes the record with the given id for a taxonomy pair
func (s *Synthesizer) Record(id int64, p taxonomy.Pair) (Record, error) {
	r := Record{
		ID:          id,
		Time:        s.base.Add(time.Duration(s.rng.Int64N(s.span)) * time.Second),
		Category:    p.Category,
		Subcategory: p.Subcategory,
		SourceIP:    s.pool.Addr(s.rng),
		Target:      targets[s.rng.IntN(len(targets))],
		Severity:    s.severity(p),
	}

	if s.rng.Float64() < actorRate {
		actor := s.actor()
		r.Actor = &actor
	}

	narrative, err := s.narrative(p)
	if err != nil {
		return Record{}, err
	}
	r.Narrative = narrative

	r.Malicious = s.rng.Float64() < maliciousRate

	if s.rng.Float64() < correlationRate {
		tok, err := s.token(correlationTokenLen)
		if err != nil {
			return Record{}, err
		}
		corr := correlationPrefix + tok
		r.CorrelationID = &corr
	}

	return r, nil
}

func (s *Synthesizer) severity(p taxonomy.Pair) Severity {
	switch {
	case p.Category == categoryThreat:
		return threatSeverities[s.rng.IntN(len(threatSeverities))]
	case p.Subcategory == subcategoryLockout || p.Subcategory == subcategoryPrivilege:
		return SeverityHigh
	default:
		return defaultSeverities[s.rng.IntN(len(defaultSeverities))]
	}
}

func (s *Synthesizer) narrative(p taxonomy.Pair) (string, error) {
	switch {
	case p.Subcategory == subcategoryFailed:
		return fmt.Sprintf("Failed login attempt %d", 1+s.rng.IntN(5)), nil
	case p.Category == categoryThreat:
		return "Detected " + strings.ReplaceAll(p.Subcategory, "_", " ") + " pattern", nil
	default:
		tok, err := s.token(narrativeTokenLen)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("System %s event %s", p.Category, tok), nil
	}
}

// token returns n lowercase hex characters taken from a random UUID.
// n must not exceed 12: later digits include the version nibble.
func (s *Synthesizer) token(n int) (string, error) {
	id, err := uuid.NewRandomFromReader(s.tokens)
	if err != nil {
		return "", fmt.Errorf("failed to read random token: %w", err)
	}
	return hex.EncodeToString(id[:])[:n], nil
}
