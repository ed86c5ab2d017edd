// SPDX-License-Identifier: MIT
package hierarchy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"

	"gitlab.com/fisherprime/ecshierarchy/table"
)

func TestBuildSource_Build(t *testing.T) {
	type args struct {
		ctx  context.Context
		list []Builder[string]
	}

	tests := []struct {
		name string
		args args

		ordered bool
		// wantChildren maps a value to the values of its children, in order.
		wantChildren map[string][]string
		wantRoots    []string
		wantErr      error
	}{
		{
			name: "unordered",
			args: args{context.Background(), []Builder[string]{
				NewDefaultBuilder("4", "2"),
				NewDefaultBuilder("2", "1"),
				NewDefaultBuilder("3", "1"),
				NewDefaultBuilder("1", ""),
				NewDefaultBuilder("5", "4"),
			}},
			wantChildren: map[string][]string{"1": {"2", "3"}, "2": {"4"}, "4": {"5"}},
			wantRoots:    []string{"1"},
		},
		{
			name: "ordered",
			args: args{context.Background(), []Builder[string]{
				NewDefaultBuilder("1", ""),
				NewDefaultBuilder("2", "1"),
				NewDefaultBuilder("3", "2"),
				NewDefaultBuilder("4", "1"),
			}},
			ordered:      true,
			wantChildren: map[string][]string{"1": {"2", "4"}, "2": {"3"}},
			wantRoots:    []string{"1"},
		},
		{
			name: "forest",
			args: args{context.Background(), []Builder[string]{
				NewDefaultBuilder("a", ""),
				NewDefaultBuilder("b", ""),
				NewDefaultBuilder("c", "b"),
				NewDefaultBuilder("d", "a"),
			}},
			wantChildren: map[string][]string{"a": {"d"}, "b": {"c"}},
			wantRoots:    []string{"a", "b"},
		},
		{
			name:    "empty",
			args:    args{context.Background(), []Builder[string]{}},
			wantErr: ErrEmptyHierarchySrc,
		},
		{
			name:    "missing root node",
			args:    args{context.Background(), []Builder[string]{NewDefaultBuilder("1", "3")}},
			wantErr: ErrMissingRootNode,
		},
		{
			name: "duplicate value",
			args: args{context.Background(), []Builder[string]{
				NewDefaultBuilder("1", ""),
				NewDefaultBuilder("2", "1"),
				NewDefaultBuilder("2", "1"),
			}},
			wantErr: ErrDuplicateValue,
		},
		{
			name: "unknown parent",
			args: args{context.Background(), []Builder[string]{
				NewDefaultBuilder("1", ""),
				NewDefaultBuilder("2", "9"),
			}},
			wantErr: ErrLocateParents,
		},
		{
			name: "ordered out of order",
			args: args{context.Background(), []Builder[string]{
				NewDefaultBuilder("1", ""),
				NewDefaultBuilder("3", "2"),
				NewDefaultBuilder("2", "1"),
			}},
			ordered: true,
			wantErr: ErrLocateParents,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := table.New()
			h := New[tree](w)

			b := NewBuildSource[tree, string](
				WithBuilders[tree](tt.args.list),
				WithOrdered[tree, string](tt.ordered),
				WithBuildDebug[tree, string](true),
			)

			index, err := b.Build(tt.args.ctx, h)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrBuildHierarchy)
				assert.ErrorIs(t, err, ErrInvalidHierarchySrc)
				assert.Nil(t, index)
				assert.Equal(t, 0, w.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, b.Len())
			assert.Len(t, index, len(tt.args.list))

			valueOf := func(e table.Entity) string {
				k, err := table.Get[Key[string]](w, e)
				require.NoError(t, err)
				return k.Value
			}

			for parent, want := range tt.wantChildren {
				got := []string{}
				for _, child := range h.Children(index[parent]).Collect() {
					got = append(got, valueOf(child))
				}
				assert.Equal(t, want, got, "children of %q", parent)
			}

			roots := []string{}
			for _, root := range h.Roots() {
				roots = append(roots, valueOf(root))
			}
			assert.ElementsMatch(t, tt.wantRoots, roots)
		})
	}
}

func TestBuildSource_BuildRollback(t *testing.T) {
	w := table.New()
	h := New[tree](w)

	root := w.Spawn()
	child, err := h.AttachNew(root)
	require.NoError(t, err)
	before := w.Len()

	list := []Builder[string]{
		NewDefaultBuilder("a", ""),
		NewDefaultBuilder("b", "a"),
		NewDefaultBuilder("c", "b"),
		NewDefaultBuilder("x", "missing"),
	}
	b := NewBuildSource[tree, string](WithBuilders[tree](list))

	index, err := b.Build(context.Background(), h)
	assert.ErrorIs(t, err, ErrLocateParents)
	assert.Nil(t, index)

	assert.Equal(t, before, w.Len())
	assert.Equal(t, 0, table.Count[Key[string]](w))
	assert.Equal(t, []table.Entity{root}, h.Roots())
	assert.Equal(t, []table.Entity{child}, h.Children(root).Collect())
	requireConsistent(t, h)
}

func TestBuildSource_WithBuildersCopies(t *testing.T) {
	list := []Builder[int]{
		NewDefaultBuilder(1, 0),
		NewDefaultBuilder(3, 2),
		NewDefaultBuilder(2, 1),
		NewDefaultBuilder(4, 1),
	}
	want := slices.Clone(list)

	b := NewBuildSource[tree, int](WithBuilders[tree](list))
	_, err := b.Build(context.Background(), New[tree](table.New()))
	require.NoError(t, err)

	assert.Equal(t, 0, b.Len())
	assert.Equal(t, want, list)
}

func TestBuildSource_BuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBuildSource[tree, int](WithBuilders[tree]([]Builder[int]{NewDefaultBuilder(1, 0)}))

	_, err := b.Build(ctx, New[tree](table.New()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildSource_Cut(t *testing.T) {
	b := NewBuildSource[tree, int](WithBuilders[tree]([]Builder[int]{
		NewDefaultBuilder(1, 0),
		NewDefaultBuilder(2, 1),
		NewDefaultBuilder(3, 1),
	}))

	b.Cut(1)
	assert.Equal(t, []int{1, 3}, b.pending())

	b.Cut(0)
	assert.Equal(t, []int{3}, b.pending())
	assert.Equal(t, 1, b.Len())
}
