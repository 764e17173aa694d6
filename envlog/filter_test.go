package envlog

import (
	"testing"

	"github.com/philipp01105/swaplog/core"
)

func TestParseDirectives(t *testing.T) {
	tests := []struct {
		spec     string
		want     []Directive
		wantErrs int
	}{
		{"", nil, 0},
		{"info", []Directive{{Level: core.InfoFilter}}, 0},
		{"net/http", []Directive{{Target: "net/http", Level: core.TraceFilter}}, 0},
		{"warn, db=debug ,cache=off", []Directive{
			{Level: core.WarnFilter},
			{Target: "db", Level: core.DebugFilter},
			{Target: "cache", Level: core.OffFilter},
		}, 0},
		{"db=loud,info", []Directive{{Level: core.InfoFilter}}, 1},
		{"=info", nil, 1},
		{"a=b=c", nil, 1},
		{",,", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, errs := ParseDirectives(tt.spec)
			if len(errs) != tt.wantErrs {
				t.Errorf("ParseDirectives(%q) errs = %v, want %d", tt.spec, errs, tt.wantErrs)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseDirectives(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("directive %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFilter_Enabled(t *testing.T) {
	dirs, _ := ParseDirectives("warn,net=info,net/http=debug,net/http/pprof=off")
	f := newFilter(dirs)

	tests := []struct {
		target string
		level  core.Level
		want   bool
	}{
		{"main", core.InfoLevel, false},
		{"main", core.WarnLevel, true},
		{"net/dns", core.InfoLevel, true},
		{"net/dns", core.DebugLevel, false},
		{"net/http", core.DebugLevel, true},
		{"net/http/client", core.DebugLevel, true},
		{"net/http/pprof", core.ErrorLevel, false},
		{"", core.WarnLevel, true},
	}

	for _, tt := range tests {
		md := core.Metadata{Level: tt.level, Target: tt.target}
		if got := f.Enabled(md); got != tt.want {
			t.Errorf("Enabled(%+v) = %v, want %v", md, got, tt.want)
		}
	}

	if got := f.MaxLevel(); got != core.DebugFilter {
		t.Errorf("MaxLevel() = %v, want debug", got)
	}
}

func TestFilter_DefaultIsError(t *testing.T) {
	f := newFilter(nil)
	if f.MaxLevel() != DefaultFilter {
		t.Errorf("MaxLevel() = %v, want %v", f.MaxLevel(), DefaultFilter)
	}
	if f.Enabled(core.Metadata{Level: core.WarnLevel}) {
		t.Error("warn should be filtered by the default")
	}
	if !f.Enabled(core.Metadata{Level: core.ErrorLevel, Target: "x"}) {
		t.Error("error should pass the default")
	}
}

func TestFilter_TargetsOnlyDisableOthers(t *testing.T) {
	dirs, _ := ParseDirectives("db=info")
	f := newFilter(dirs)
	if f.Enabled(core.Metadata{Level: core.ErrorLevel, Target: "web"}) {
		t.Error("targets without a directive should be off when only targets are given")
	}
	if !f.Enabled(core.Metadata{Level: core.InfoLevel, Target: "db"}) {
		t.Error("db=info should let info through")
	}
}

func TestFilter_LaterDirectiveWins(t *testing.T) {
	dirs, _ := ParseDirectives("info,db=debug,db=error")
	f := newFilter(dirs)
	if f.Enabled(core.Metadata{Level: core.WarnLevel, Target: "db"}) {
		t.Error("db=error should override db=debug")
	}
	if got := f.String(); got != "db=error,info" {
		t.Errorf("String() = %q", got)
	}
	if got := len(f.Directives()); got != 2 {
		t.Errorf("Directives() len = %d, want 2", got)
	}
}

func TestFilter_AllOff(t *testing.T) {
	dirs, _ := ParseDirectives("off")
	f := newFilter(dirs)
	if f.MaxLevel() != core.OffFilter {
		t.Errorf("MaxLevel() = %v, want off", f.MaxLevel())
	}
	if f.Enabled(core.Metadata{Level: core.PanicLevel}) {
		t.Error("off should filter everything")
	}
}
