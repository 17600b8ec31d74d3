package member

import "testing"

func TestIsActive(t *testing.T) {
	active := true
	inactive := false

	cases := []struct {
		name string
		m    Member
		want bool
	}{
		{name: "nil flag defaults to active", m: Member{}, want: true},
		{name: "explicit true", m: Member{Active: &active}, want: true},
		{name: "explicit false", m: Member{Active: &inactive}, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.m.IsActive(); got != tc.want {
				t.Fatalf("IsActive() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		name string
		m    Member
		want string
	}{
		{name: "prefers name", m: Member{Name: "Barão", Nick: "barao"}, want: "Barão"},
		{name: "falls back to nick", m: Member{Nick: "barao"}, want: "barao"},
		{name: "unknown when both empty", m: Member{}, want: "Unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.m.DisplayName(); got != tc.want {
				t.Fatalf("DisplayName() = %q, want %q", got, tc.want)
			}
		})
	}
}
