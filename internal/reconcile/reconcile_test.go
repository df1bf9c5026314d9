package reconcile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDiffReferences(t *testing.T) {
	tests := []struct {
		name        string
		current     []string
		desired     []string
		wantAdded   []string
		wantRemoved []string
	}{
		{
			name:      "empty to items",
			current:   nil,
			desired:   []string{"c1", "p1"},
			wantAdded: []string{"c1", "p1"},
		},
		{
			name:        "items to empty",
			current:     []string{"c1", "p1"},
			desired:     []string{},
			wantRemoved: []string{"c1", "p1"},
		},
		{
			name:    "no change",
			current: []string{"c1", "p1"},
			desired: []string{"p1", "c1"},
		},
		{
			name:        "mixed",
			current:     []string{"c1", "c2", "p1"},
			desired:     []string{"c2", "p2", "c3"},
			wantAdded:   []string{"p2", "c3"},
			wantRemoved: []string{"c1", "p1"},
		},
		{
			name:        "duplicates count once",
			current:     []string{"c1", "c1", "c2"},
			desired:     []string{"c3", "c3"},
			wantAdded:   []string{"c3"},
			wantRemoved: []string{"c1", "c2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := DiffReferences(tt.current, tt.desired)

			if d := cmp.Diff(tt.wantAdded, diff.Added, cmpopts.EquateEmpty()); d != "" {
				t.Errorf("Added mismatch (-want +got):\n%s", d)
			}
			if d := cmp.Diff(tt.wantRemoved, diff.Removed, cmpopts.EquateEmpty()); d != "" {
				t.Errorf("Removed mismatch (-want +got):\n%s", d)
			}
			wantEmpty := len(tt.wantAdded) == 0 && len(tt.wantRemoved) == 0
			if diff.IsEmpty() != wantEmpty {
				t.Errorf("IsEmpty() = %v, want %v", diff.IsEmpty(), wantEmpty)
			}
		})
	}
}

func TestRetain(t *testing.T) {
	tests := []struct {
		name      string
		selected  []string
		available []string
		want      []string
	}{
		{"all present", []string{"c1", "p1"}, []string{"p1", "c1", "c2"}, []string{"c1", "p1"}},
		{"item left the cart", []string{"c1", "p1"}, []string{"p1"}, []string{"p1"}},
		{"cart emptied", []string{"c1"}, nil, []string{}},
		{"empty id dropped", []string{"", "c1"}, []string{"", "c1"}, []string{"c1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Retain(tt.selected, tt.available)
			if d := cmp.Diff(tt.want, got); d != "" {
				t.Errorf("Retain() mismatch (-want +got):\n%s", d)
			}
		})
	}
}
