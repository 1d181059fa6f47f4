package pagination

import "testing"

func TestClampLimit(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{"zero falls back to default", 0, DefaultLimit},
		{"negative falls back to default", -5, DefaultLimit},
		{"within range passes through", 42, 42},
		{"above max is capped", 5000, MaxLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampLimit(tc.in); got != tc.want {
				t.Fatalf("ClampLimit(%d) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestNewFloorsNegativeOffset(t *testing.T) {
	page := New(10, -3)
	if page.Limit != 10 {
		t.Fatalf("expected limit 10, got %d", page.Limit)
	}
	if page.Offset != 0 {
		t.Fatalf("expected offset 0, got %d", page.Offset)
	}
}
