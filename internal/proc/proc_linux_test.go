//go:build linux

package proc

import (
	"reflect"
	"testing"
)

func TestSplitCmdline(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{
			name: "typical argv",
			data: "node\x00/usr/local/bin/claude\x00--continue\x00",
			want: []string{"node", "/usr/local/bin/claude", "--continue"},
		},
		{
			name: "single element no trailing nul",
			data: "zsh",
			want: []string{"zsh"},
		},
		{
			name: "empty",
			data: "",
			want: nil,
		},
		{
			name: "only nuls",
			data: "\x00\x00",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitCmdline([]byte(tt.data))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitCmdline(%q) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}

func TestParsePPIDFromStat(t *testing.T) {
	tests := []struct {
		name string
		stat string
		ppid int
		ok   bool
	}{
		{
			name: "plain comm",
			stat: "1234 (bash) S 42 1234 1234 34816 1234 4194304",
			ppid: 42,
			ok:   true,
		},
		{
			name: "comm with spaces and parens",
			stat: "99 (tmux: server (1)) S 7 99 99 0 -1 4194368",
			ppid: 7,
			ok:   true,
		},
		{
			name: "truncated",
			stat: "1234 (bash)",
			ok:   false,
		},
		{
			name: "garbage",
			stat: "not a stat line",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ppid, ok := parsePPIDFromStat(tt.stat)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && ppid != tt.ppid {
				t.Errorf("ppid = %d, want %d", ppid, tt.ppid)
			}
		})
	}
}
