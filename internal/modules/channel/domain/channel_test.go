package domain

import "testing"

func TestNormalizeID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		raw       int64
		broadcast bool
		want      int64
	}{
		{"broadcast gets -100 prefix", 1234567890, true, -1001234567890},
		{"non-broadcast gets plain negative sign", 1234567890, false, -1234567890},
		{"already negative kept as-is", -1001234567890, true, -1001234567890},
		{"zero kept as-is", 0, false, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := NormalizeID(c.raw, c.broadcast); got != c.want {
				t.Errorf("NormalizeID(%d, %v) = %d, want %d", c.raw, c.broadcast, got, c.want)
			}
		})
	}
}

func TestSameChannel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b int64
		want bool
	}{
		{-1001234567890, 1234567890, true},
		{-1234567890, 1234567890, true},
		{-1001234567890, -1234567890, true},
		{-1001234567890, -1001234567890, true},
		{-1001234567890, 999999, false},
	}

	for _, c := range cases {
		if got := SameChannel(c.a, c.b); got != c.want {
			t.Errorf("SameChannel(%d, %d) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestNeedsResolution(t *testing.T) {
	t.Parallel()

	ch := &Channel{Handle: "@promodeals"}
	if !ch.NeedsResolution() {
		t.Error("channel with handle and no id should need resolution")
	}
	if ch.CleanHandle() != "promodeals" {
		t.Errorf("CleanHandle = %q", ch.CleanHandle())
	}

	ch.ChannelID = -1001234567890
	if ch.NeedsResolution() {
		t.Error("resolved channel should not need resolution")
	}
	if ch.Origin() != "promodeals" {
		t.Errorf("Origin = %q, want handle", ch.Origin())
	}

	byID := &Channel{ChannelID: -1001234567890}
	if byID.Origin() != "-1001234567890" {
		t.Errorf("Origin = %q, want numeric id", byID.Origin())
	}
}
