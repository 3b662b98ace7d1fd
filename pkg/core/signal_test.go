package core

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAppendValidation(t *testing.T) {
	tests := []struct {
		name      string
		rt        float64
		mz        float64
		intensity float64
		extras    []string
		wantField string
	}{
		{
			name: "valid row",
			rt:   5.23, mz: 266.121324, intensity: 88319,
			extras: []string{"a", "b"},
		},
		{
			name: "zero rt allowed",
			rt:   0, mz: 100.0, intensity: 1.0,
			extras: []string{"a", "b"},
		},
		{
			name: "NaN rt",
			rt:   math.NaN(), mz: 100.0, intensity: 1.0,
			extras: []string{"a", "b"}, wantField: "rt",
		},
		{
			name: "infinite rt",
			rt:   math.Inf(1), mz: 100.0, intensity: 1.0,
			extras: []string{"a", "b"}, wantField: "rt",
		},
		{
			name: "zero mz",
			rt:   1.0, mz: 0, intensity: 1.0,
			extras: []string{"a", "b"}, wantField: "mz",
		},
		{
			name: "negative mz",
			rt:   1.0, mz: -5.0, intensity: 1.0,
			extras: []string{"a", "b"}, wantField: "mz",
		},
		{
			name: "NaN mz",
			rt:   1.0, mz: math.NaN(), intensity: 1.0,
			extras: []string{"a", "b"}, wantField: "mz",
		},
		{
			name: "NaN intensity",
			rt:   1.0, mz: 100.0, intensity: math.NaN(),
			extras: []string{"a", "b"}, wantField: "intensity",
		},
		{
			name: "extras arity mismatch",
			rt:   1.0, mz: 100.0, intensity: 1.0,
			extras: []string{"a"}, wantField: "extras",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewSignalTable([]string{"name", "formula"})
			err := table.Append(tt.rt, tt.mz, tt.intensity, tt.extras)

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Append() unexpected error: %v", err)
				}
				return
			}

			var sigErr *InvalidSignalError
			if !errors.As(err, &sigErr) {
				t.Fatalf("Append() error = %v, want *InvalidSignalError", err)
			}
			if sigErr.Field != tt.wantField {
				t.Errorf("error field = %q, want %q", sigErr.Field, tt.wantField)
			}
			if sigErr.Row != 0 {
				t.Errorf("error row = %d, want 0", sigErr.Row)
			}
		})
	}
}

func TestOriginalIndexAssignment(t *testing.T) {
	table := NewSignalTable(nil)
	for i := 0; i < 5; i++ {
		if err := table.Append(float64(i), 100.0, 1.0, nil); err != nil {
			t.Fatalf("Append() row %d: %v", i, err)
		}
	}

	for i := 0; i < table.Len(); i++ {
		if got := table.Row(i).OriginalIndex; got != i {
			t.Errorf("row %d OriginalIndex = %d, want %d", i, got, i)
		}
	}
}

func TestSelectPreservesOriginalOrder(t *testing.T) {
	table := NewSignalTable([]string{"tag"})
	tags := []string{"first", "second", "third", "fourth"}
	for i, tag := range tags {
		if err := table.Append(float64(i), 100.0+float64(i), 1.0, []string{tag}); err != nil {
			t.Fatalf("Append() row %d: %v", i, err)
		}
	}

	sub := table.Select(map[int]struct{}{3: {}, 0: {}, 2: {}})

	if sub.Len() != 3 {
		t.Fatalf("Select() len = %d, want 3", sub.Len())
	}
	var got []string
	for i := 0; i < sub.Len(); i++ {
		got = append(got, sub.Row(i).Extras[0])
	}
	want := []string{"first", "third", "fourth"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Select() row order mismatch (-want +got):\n%s", diff)
	}

	// Row identities survive selection.
	if sub.Row(1).OriginalIndex != 2 {
		t.Errorf("selected row OriginalIndex = %d, want 2", sub.Row(1).OriginalIndex)
	}
}

func TestReindexDoesNotShareRows(t *testing.T) {
	table := NewSignalTable([]string{"tag"})
	if err := table.Append(1.0, 100.0, 1.0, []string{"x"}); err != nil {
		t.Fatalf("Append(): %v", err)
	}

	out := table.Reindex([]int{0, 0})
	if out.Len() != 2 {
		t.Fatalf("Reindex() len = %d, want 2", out.Len())
	}
	if table.Len() != 1 {
		t.Errorf("input table len changed to %d", table.Len())
	}
	if diff := cmp.Diff(table.Columns(), out.Columns()); diff != "" {
		t.Errorf("columns mismatch (-in +out):\n%s", diff)
	}
}
