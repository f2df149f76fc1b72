package recurrence

import (
	"fmt"
	"sync"
	"time"

	"github.com/teambition/rrule-go"
)

// EngineOptions tunes occurrence expansion.
type EngineOptions struct {
	// MaxOccurrences caps how many occurrences a single expansion may
	// produce. 0 means DefaultMaxOccurrences.
	MaxOccurrences int
	// CacheSize caps the number of memoized expansions. 0 disables the
	// cache.
	CacheSize int
	// CacheTTL is how long memoized expansions stay valid.
	CacheTTL time.Duration
}

// DefaultEngineOptions are reasonable for interactive use: bounded
// expansion with a small memo cache.
var DefaultEngineOptions = EngineOptions{
	MaxOccurrences: DefaultMaxOccurrences,
	CacheSize:      256,
	CacheTTL:       15 * time.Minute,
}

const DefaultMaxOccurrences = 1000

type cacheEntry struct {
	occurrences []time.Time
	expiresAt   time.Time
}

// Engine expands rules into concrete occurrence times. It is safe for
// concurrent use; the memo cache is guarded by a mutex and entries expire
// lazily on access.
type Engine struct {
	opts EngineOptions

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewEngine returns an engine with DefaultEngineOptions.
func NewEngine() *Engine {
	return NewEngineWithOptions(DefaultEngineOptions)
}

// NewEngineWithOptions returns an engine with the given options.
func NewEngineWithOptions(opts EngineOptions) *Engine {
	if opts.MaxOccurrences <= 0 {
		opts.MaxOccurrences = DefaultMaxOccurrences
	}
	e := &Engine{opts: opts}
	if opts.CacheSize > 0 {
		e.cache = make(map[string]cacheEntry)
	}
	return e
}

// ExpandBetween returns the occurrence start times of rule, anchored at
// dtstart, that fall within [rangeStart, rangeEnd], inclusive of the range
// start. Output is capped at MaxOccurrences.
func (e *Engine) ExpandBetween(dtstart time.Time, rule *Rule, rangeStart, rangeEnd time.Time) ([]time.Time, error) {
	if rule == nil {
		if !dtstart.Before(rangeStart) && !dtstart.After(rangeEnd) {
			return []time.Time{dtstart}, nil
		}
		return nil, nil
	}

	key := fmt.Sprintf("%d|%s|%d|%d",
		dtstart.UnixNano(), rule.RRule(), rangeStart.UnixNano(), rangeEnd.UnixNano())
	if cached, ok := e.cacheGet(key); ok {
		return cached, nil
	}

	set, err := ruleSet(dtstart, rule)
	if err != nil {
		return nil, err
	}

	occurrences := set.Between(rangeStart, rangeEnd, true)
	if len(occurrences) > e.opts.MaxOccurrences {
		occurrences = occurrences[:e.opts.MaxOccurrences]
	}

	e.cachePut(key, occurrences)
	return occurrences, nil
}

// Next returns the first occurrence at or after t, or the zero time if the
// rule has no further occurrences.
func (e *Engine) Next(dtstart time.Time, rule *Rule, t time.Time) (time.Time, error) {
	if rule == nil {
		if !dtstart.Before(t) {
			return dtstart, nil
		}
		return time.Time{}, nil
	}
	set, err := ruleSet(dtstart, rule)
	if err != nil {
		return time.Time{}, err
	}
	return set.After(t, true), nil
}

// ruleSet builds an rrule-go rule set anchored at dtstart.
func ruleSet(dtstart time.Time, rule *Rule) (*rrule.Set, error) {
	text := fmt.Sprintf("DTSTART:%s\nRRULE:%s",
		dtstart.UTC().Format("20060102T150405Z"), rule.RRule())
	set, err := rrule.StrToRRuleSet(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRule, rule.RRule(), err)
	}
	return set, nil
}

func (e *Engine) cacheGet(key string) ([]time.Time, bool) {
	if e.cache == nil {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	entry, ok := e.cache[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(e.cache, key)
		return nil, false
	}
	return entry.occurrences, true
}

func (e *Engine) cachePut(key string, occurrences []time.Time) {
	if e.cache == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.cache) >= e.opts.CacheSize {
		// drop an arbitrary entry; the cache is a memo, not an LRU
		for k := range e.cache {
			delete(e.cache, k)
			break
		}
	}
	e.cache[key] = cacheEntry{
		occurrences: occurrences,
		expiresAt:   time.Now().Add(e.opts.CacheTTL),
	}
}
