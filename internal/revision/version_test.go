package revision

import (
	"fmt"
	"math"
	"testing"
)

func TestNextVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"v0.0", "v1.0"},
		{"v1.0", "v2.0"},
		{"v3.0", "v4.0"},
		{"v41.0", "v42.0"},
		{"V7.0", "v8.0"},
		{"v3", "v4.0"},
		{"3.0", "v4.0"},
		{"v3.9", "v4.0"},
		{"", "v1.0"},
		{"draft", "v1.0"},
		{"vX.0", "v1.0"},
		{"v-2.0", "v1.0"},
		{"v007.0", "v8.0"},
		{"v9.0", "v10.0"},
		{"v9223372036854775807.0", "v9223372036854775808.0"},
		{"v99999999999999999999.0", "v100000000000000000000.0"},
		{" v5.0 ", "v6.0"},
	}
	for _, tt := range tests {
		if got := NextVersion(tt.in); got != tt.want {
			t.Errorf("NextVersion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNextVersionNeverSkips(t *testing.T) {
	v := InitialVersion
	for k := 1; k < 50; k++ {
		want := fmt.Sprintf("v%d.0", k)
		if v != want {
			t.Fatalf("after %d commits got %q, want %q", k-1, v, want)
		}
		v = NextVersion(v)
	}
}

func TestMajorVersion(t *testing.T) {
	if got := MajorVersion("v12.0"); got != 12 {
		t.Errorf("MajorVersion(v12.0) = %d, want 12", got)
	}
	if got := MajorVersion("garbage"); got != 0 {
		t.Errorf("MajorVersion(garbage) = %d, want 0", got)
	}
	if got := MajorVersion("v99999999999999999999.0"); got != math.MaxInt {
		t.Errorf("MajorVersion(huge) = %d, want %d", got, math.MaxInt)
	}
}
