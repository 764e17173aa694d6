package envlog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/philipp01105/swaplog/core"
)

// Directive sets the level for every target starting with Target. An
// empty Target is the default for targets no other directive matches.
type Directive struct {
	Target string
	Level  core.LevelFilter
}

// ParseDirectives parses a comma-separated list such as
// "warn,net/http=debug,db=off". A bare level sets the default, a bare
// target enables everything for it. Malformed directives are skipped and
// reported in errs; the rest still apply.
func ParseDirectives(spec string) (dirs []Directive, errs []error) {
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		target, level, hasLevel := strings.Cut(part, "=")
		target = strings.TrimSpace(target)
		if !hasLevel {
			// "info" is a default level, "net/http" is a target.
			if lf, err := core.ParseLevelFilter(target); err == nil {
				dirs = append(dirs, Directive{Level: lf})
			} else {
				dirs = append(dirs, Directive{Target: target, Level: core.TraceFilter})
			}
			continue
		}

		if target == "" || strings.Contains(level, "=") {
			errs = append(errs, fmt.Errorf("invalid logging spec %q", part))
			continue
		}
		lf, err := core.ParseLevelFilter(level)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid logging spec %q: %w", part, err))
			continue
		}
		dirs = append(dirs, Directive{Target: target, Level: lf})
	}
	return dirs, errs
}

// Filter decides per target. It is immutable once built.
type Filter struct {
	// sorted longest target first so the first match is the most specific
	directives []Directive
	max        core.LevelFilter
}

// DefaultFilter is used when no usable directive was given.
const DefaultFilter = core.ErrorFilter

func newFilter(dirs []Directive) Filter {
	if len(dirs) == 0 {
		dirs = []Directive{{Level: DefaultFilter}}
	}

	// Later directives for the same target win.
	byTarget := make(map[string]int, len(dirs))
	var uniq []Directive
	for _, d := range dirs {
		if i, ok := byTarget[d.Target]; ok {
			uniq[i] = d
			continue
		}
		byTarget[d.Target] = len(uniq)
		uniq = append(uniq, d)
	}

	sort.SliceStable(uniq, func(i, j int) bool {
		return len(uniq[i].Target) > len(uniq[j].Target)
	})

	most := core.OffFilter
	for _, d := range uniq {
		most = most.MoreVerbose(d.Level)
	}
	return Filter{directives: uniq, max: most}
}

// Enabled reports whether a record with this metadata passes.
func (f Filter) Enabled(md core.Metadata) bool {
	for _, d := range f.directives {
		if strings.HasPrefix(md.Target, d.Target) {
			return d.Level.Allows(md.Level)
		}
	}
	return false
}

// MaxLevel is the most verbose level any directive lets through.
func (f Filter) MaxLevel() core.LevelFilter {
	return f.max
}

// Directives returns a copy of the effective directives, most specific first.
func (f Filter) Directives() []Directive {
	out := make([]Directive, len(f.directives))
	copy(out, f.directives)
	return out
}

// String renders the filter back into directive syntax.
func (f Filter) String() string {
	parts := make([]string, 0, len(f.directives))
	for _, d := range f.directives {
		if d.Target == "" {
			parts = append(parts, d.Level.String())
		} else {
			parts = append(parts, d.Target+"="+d.Level.String())
		}
	}
	return strings.Join(parts, ",")
}
