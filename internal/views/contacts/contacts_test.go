package contacts

import (
	"reflect"
	"testing"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"vip", []string{"vip"}},
		{"vip, retail", []string{"vip", "retail"}},
		{" vip ,, retail , ", []string{"vip", "retail"}},
	}
	for _, tt := range tests {
		if got := parseTags(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseTags(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
