package agent

import (
	"strings"
	"time"
)

// DefaultCacheTTL bounds how long a resolved identity is reused before the
// process tree is inspected again.
const DefaultCacheTTL = 3 * time.Second

// ProcessInfo describes an observed process. Any field may be empty when
// the host could not inspect it; identification degrades instead of
// failing.
type ProcessInfo struct {
	Path     string
	Name     string
	Args     []string
	Children []ProcessInfo
}

type compiledDescriptor struct {
	desc     *Descriptor
	patterns []Matcher
	titles   []Matcher
}

type cacheEntry struct {
	desc *Descriptor // nil means "no agent", which is also cached
	at   time.Time
}

// Identifier resolves pane processes to agent descriptors, memoizing
// results per surface for a short TTL so the (comparatively expensive)
// process-tree walk doesn't run on every polling tick.
//
// An Identifier is not safe for concurrent use; the polling loop owns it.
type Identifier struct {
	compiled []compiledDescriptor
	ttl      time.Duration
	cache    map[string]cacheEntry
}

// NewIdentifier compiles the descriptor set. A non-positive ttl falls back
// to DefaultCacheTTL.
func NewIdentifier(descriptors []Descriptor, ttl time.Duration) *Identifier {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	compiled := make([]compiledDescriptor, len(descriptors))
	for i := range descriptors {
		d := &descriptors[i]
		pats := d.Patterns
		if len(pats) == 0 {
			// A descriptor without explicit patterns matches on its own name.
			pats = []string{d.Name}
		}
		compiled[i] = compiledDescriptor{
			desc:     d,
			patterns: CompileAll(pats),
			titles:   CompileAll(d.TitlePatterns),
		}
	}

	return &Identifier{
		compiled: compiled,
		ttl:      ttl,
		cache:    make(map[string]cacheEntry),
	}
}

// Identify resolves the agent running on a surface, or nil when none is
// recognized. Resolution order: cached entry, foreground process (path,
// then name, then argv), immediate children, pane title. The result,
// including a miss, is cached against surfaceID until the TTL elapses.
func (id *Identifier) Identify(surfaceID string, proc *ProcessInfo, title string, now time.Time) *Descriptor {
	if e, ok := id.cache[surfaceID]; ok && now.Sub(e.at) < id.ttl {
		return e.desc
	}

	desc := id.resolve(proc, title)
	id.cache[surfaceID] = cacheEntry{desc: desc, at: now}
	return desc
}

// Forget drops the cached identity for a surface, forcing recomputation on
// the next query. Called when a surface disappears.
func (id *Identifier) Forget(surfaceID string) {
	delete(id.cache, surfaceID)
}

func (id *Identifier) resolve(proc *ProcessInfo, title string) *Descriptor {
	if proc != nil {
		for _, c := range id.compiled {
			if matchProcess(c.patterns, proc) {
				return c.desc
			}
		}
		// Agents are often launched through a wrapper (node, npx, uv, a
		// shell script); check one level of children before giving up.
		for _, c := range id.compiled {
			for i := range proc.Children {
				if matchProcess(c.patterns, &proc.Children[i]) {
					return c.desc
				}
			}
		}
	}

	if title != "" {
		for _, c := range id.compiled {
			if MatchAny(title, c.titles) {
				return c.desc
			}
		}
	}

	return nil
}

func matchProcess(patterns []Matcher, p *ProcessInfo) bool {
	if MatchAny(p.Path, patterns) {
		return true
	}
	if MatchAny(p.Name, patterns) {
		return true
	}
	if len(p.Args) > 0 && MatchAny(strings.Join(p.Args, " "), patterns) {
		return true
	}
	return false
}
