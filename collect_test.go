// SPDX-License-Identifier: MIT
package hierarchy

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/fisherprime/ecshierarchy/table"
)

func TestHierarchy_CollectDescendants(t *testing.T) {
	f := newFixture(t)
	h := New[tree](f.w, WithPoolSize[tree](2), WithDebug[tree](true))

	dead := f.w.Spawn()
	require.NoError(t, f.w.Despawn(dead))

	tests := []struct {
		name    string
		roots   []table.Entity
		want    map[table.Entity][]table.Entity
		wantErr error
	}{
		{
			name:  "none",
			roots: nil,
			want:  map[table.Entity][]table.Entity{},
		},
		{
			name:  "several",
			roots: []table.Entity{f.root, f.child2, f.child4},
			want: map[table.Entity][]table.Entity{
				f.root:   {f.child1, f.child2, f.child3, f.child4, f.child5},
				f.child2: {f.child3, f.child4},
				f.child4: nil,
			},
		},
		{
			name:  "dead root",
			roots: []table.Entity{f.child3, dead},
			want: map[table.Entity][]table.Entity{
				f.child3: {f.child4},
			},
			wantErr: ErrNoSuchEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.CollectDescendants(context.Background(), tt.roots...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHierarchy_CollectDescendantsCancelled(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.h.CollectDescendants(ctx, f.root, f.child2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHierarchy_CollectDescendantsLogs(t *testing.T) {
	f := newFixture(t)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	h := New[tree](f.w, WithLogger[tree](logger), WithDebug[tree](true))

	dead := f.w.Spawn()
	require.NoError(t, f.w.Despawn(dead))

	_, err := h.CollectDescendants(context.Background(), f.root, dead)
	assert.ErrorIs(t, err, ErrNoSuchEntity)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "collected the descendants of 1/2 root(s)", hook.LastEntry().Message)
}
