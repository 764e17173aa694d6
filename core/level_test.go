package core

import "testing"

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{TraceLevel, "TRACE"},
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Level.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLevelFilter_Allows(t *testing.T) {
	tests := []struct {
		filter LevelFilter
		level  Level
		want   bool
	}{
		{InfoFilter, DebugLevel, false},
		{InfoFilter, InfoLevel, true},
		{InfoFilter, ErrorLevel, true},
		{TraceFilter, TraceLevel, true},
		{ErrorFilter, WarnLevel, false},
		{OffFilter, PanicLevel, false},
		{OffFilter, TraceLevel, false},
	}

	for _, tt := range tests {
		if got := tt.filter.Allows(tt.level); got != tt.want {
			t.Errorf("%v.Allows(%v) = %v, want %v", tt.filter, tt.level, got, tt.want)
		}
	}
}

func TestLevelFilter_MoreVerbose(t *testing.T) {
	if got := InfoFilter.MoreVerbose(DebugFilter); got != DebugFilter {
		t.Errorf("MoreVerbose = %v, want debug", got)
	}
	if got := OffFilter.MoreVerbose(ErrorFilter); got != ErrorFilter {
		t.Errorf("MoreVerbose = %v, want error", got)
	}
	if got := WarnFilter.MoreVerbose(OffFilter); got != WarnFilter {
		t.Errorf("MoreVerbose = %v, want warn", got)
	}
}

func TestParseLevelFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    LevelFilter
		wantErr bool
	}{
		{"off", OffFilter, false},
		{"TRACE", TraceFilter, false},
		{"Debug", DebugFilter, false},
		{" info ", InfoFilter, false},
		{"warning", WarnFilter, false},
		{"error", ErrorFilter, false},
		{"loud", OffFilter, true},
		{"", OffFilter, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevelFilter(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevelFilter(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevelFilter(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevelFilter_String(t *testing.T) {
	if got := OffFilter.String(); got != "off" {
		t.Errorf("OffFilter.String() = %q", got)
	}
	if got := WarnFilter.String(); got != "warn" {
		t.Errorf("WarnFilter.String() = %q", got)
	}
}
