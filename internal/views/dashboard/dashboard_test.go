package dashboard

import (
	"strings"
	"testing"

	"github.com/blastline/console/internal/api"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{12400, "12.4K"},
		{999999, "1000.0K"},
		{1000000, "1.0M"},
		{2500000, "2.5M"},
	}
	for _, tt := range tests {
		if got := formatCount(tt.n); got != tt.want {
			t.Errorf("formatCount(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestRenderVolumeToleratesOddCounters(t *testing.T) {
	m := New(nil)
	m.metrics = &api.Metrics{Volume: []api.VolumePoint{
		{Day: "Mon", Sent: 10, Delivered: 15}, // backend counters mid-update
		{Day: "Tue", Sent: 0, Delivered: 3},
		{Day: "Wed", Sent: 5, Delivered: 5},
	}}

	out := m.renderVolume()
	for _, day := range []string{"Mon", "Tue", "Wed"} {
		if !strings.Contains(out, day) {
			t.Errorf("day %s missing from chart", day)
		}
	}
}

func TestRenderVolumeEmpty(t *testing.T) {
	m := New(nil)
	m.metrics = &api.Metrics{}
	if out := m.renderVolume(); !strings.Contains(out, "No volume data") {
		t.Errorf("empty series rendered %q", out)
	}
}
