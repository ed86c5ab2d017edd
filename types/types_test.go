// SPDX-License-Identifier: MIT
package types

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStack(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{name: "empty", count: 0},
		{name: "inline", count: InlineCap - 1},
		{name: "exactly inline", count: InlineCap},
		{name: "spilled", count: InlineCap*3 + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Stack[int]
			for index := 0; index < tt.count; index++ {
				s.Push(index)
			}
			require.Equal(t, tt.count, s.Len())

			for index := tt.count - 1; index >= 0; index-- {
				top := s.Top()
				require.NotNil(t, top)
				assert.Equal(t, index, *top)

				got, ok := s.Pop()
				require.True(t, ok)
				assert.Equal(t, index, got)
			}

			_, ok := s.Pop()
			assert.False(t, ok)
			assert.Nil(t, s.Top())
		})
	}
}

func TestStack_TopUpdate(t *testing.T) {
	var s Stack[int]
	for index := 0; index < InlineCap+2; index++ {
		s.Push(index)
	}

	*s.Top() = 42
	got, _ := s.Pop()
	assert.Equal(t, 42, got)

	for s.Len() > 0 {
		s.Pop()
	}

	// Spilled capacity is reused once drained.
	for index := 0; index < InlineCap+2; index++ {
		s.Push(index)
	}
	assert.Equal(t, InlineCap+1, *s.Top())
}

func TestQueue(t *testing.T) {
	var q Queue[int]

	// Interleave pushes & pops so the ring wraps before growing.
	next, want := 0, 0
	for round := 0; round < 5; round++ {
		for index := 0; index < 6; index++ {
			q.Push(next)
			next++
		}
		for index := 0; index < 3; index++ {
			got, ok := q.Pop()
			require.True(t, ok)
			assert.Equal(t, want, got)
			want++
		}
	}

	assert.Equal(t, next-want, q.Len())
	for q.Len() > 0 {
		got, _ := q.Pop()
		assert.Equal(t, want, got)
		want++
	}

	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestMonitorChannels(t *testing.T) {
	errFailed := errors.New("failed")

	tests := []struct {
		name       string
		operations int
		failures   int
		wantErr    error
	}{
		{name: "all done", operations: 3},
		{name: "one failure", operations: 3, failures: 1, wantErr: errFailed},
		{name: "invalid count", operations: 0, wantErr: ErrInvalidGoroutineCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := make(chan struct{}, tt.operations)
			errChan := make(chan error, tt.operations)
			for index := 0; index < tt.operations; index++ {
				if index < tt.failures {
					errChan <- errFailed
					continue
				}
				done <- struct{}{}
			}

			err := MonitorChannels(context.Background(), tt.operations, done, errChan, "operation")
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMonitorChannels_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := MonitorChannels(ctx, 1, make(chan struct{}), make(chan error), "operation")
	assert.ErrorIs(t, err, context.Canceled)
}
