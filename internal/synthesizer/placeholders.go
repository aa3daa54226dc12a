package synthesizer

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Fixed placeholder values.
const (
	DefaultArrayCount     = 3
	PlaceholderString     = "placeholder"
	PlaceholderIdentifier = "identifier"
	PlaceholderNumber     = 0.5
	PlaceholderInteger    = 1000
	PlaceholderBoolean    = false

	identifierSuffix = "id"
)

// Placeholders supplies the scalar values and array sizing used while
// synthesizing. Arrays get ArrayCount()+1 elements.
type Placeholders interface {
	Boolean() bool
	String(propertyName string) string
	Number() float64
	Integer() int64
	ArrayCount() int
}

// FixedPlaceholders yields the same values on every call.
type FixedPlaceholders struct {
	Count int
}

// NewFixedPlaceholders returns fixed placeholders with the given array count.
// A negative count falls back to DefaultArrayCount.
func NewFixedPlaceholders(count int) FixedPlaceholders {
	if count < 0 {
		count = DefaultArrayCount
	}
	return FixedPlaceholders{Count: count}
}

func (FixedPlaceholders) Boolean() bool { return PlaceholderBoolean }

// String returns the identifier placeholder for identifier-like property
// names and the generic placeholder otherwise.
func (FixedPlaceholders) String(propertyName string) string {
	if IsIdentifierName(propertyName) {
		return PlaceholderIdentifier
	}
	return PlaceholderString
}

func (FixedPlaceholders) Number() float64 { return PlaceholderNumber }

func (FixedPlaceholders) Integer() int64 { return PlaceholderInteger }

func (p FixedPlaceholders) ArrayCount() int { return p.Count }

// IsIdentifierName reports whether name ends in "id", ignoring case.
func IsIdentifierName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), identifierSuffix)
}

// RandomPlaceholders draws values from a seeded source. Two instances with
// the same seed produce the same sequence.
type RandomPlaceholders struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPlaceholders creates random placeholders. A zero seed uses the
// current time.
func NewRandomPlaceholders(seed int64) *RandomPlaceholders {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomPlaceholders{rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomPlaceholders) Boolean() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Intn(2) == 1
}

// String returns a UUID built from the seeded source.
func (p *RandomPlaceholders) String(string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	id, err := uuid.NewRandomFromReader(p.rng)
	if err != nil {
		return PlaceholderString
	}
	return id.String()
}

// Number returns a value in [0, 1).
func (p *RandomPlaceholders) Number() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64()
}

// Integer returns a value in [0, 100].
func (p *RandomPlaceholders) Integer() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Int63n(101)
}

// ArrayCount returns 2 or 3.
func (p *RandomPlaceholders) ArrayCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return 2 + p.rng.Intn(2)
}
