package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueItemStatus_Transitions(t *testing.T) {
	assert.True(t, QueueCheckedIn.CanTransitionTo(QueuePreCalled))
	assert.True(t, QueuePreCalled.CanTransitionTo(QueueCalled))
	assert.True(t, QueueCalled.CanTransitionTo(QueueStarted))
	assert.True(t, QueueCalled.CanTransitionTo(QueueNoShow))
	assert.True(t, QueueCalled.CanTransitionTo(QueueSkipped))
	assert.True(t, QueueSkipped.CanTransitionTo(QueueCalled))
	assert.True(t, QueueStarted.CanTransitionTo(QueueFinished))

	assert.False(t, QueueCheckedIn.CanTransitionTo(QueueStarted))
	assert.False(t, QueueCheckedIn.CanTransitionTo(QueueNoShow))
	assert.False(t, QueueStarted.CanTransitionTo(QueueCalled))

	for _, s := range []QueueItemStatus{QueueFinished, QueueCancelled, QueueLeft, QueueNoShow} {
		assert.True(t, s.IsTerminal(), s)
		assert.ErrorIs(t, s.ValidateTransition(QueueCheckedIn), ErrInvalidTransition)
	}
}

func TestQueueScopeKey(t *testing.T) {
	tm := int64(7)

	assert.Equal(t, "q:1:7", QueueScopeKey(1, &tm, AssignmentPerStaff))
	assert.Equal(t, "q:1:unassigned", QueueScopeKey(1, nil, AssignmentPerStaff))
	assert.Equal(t, "q:1", QueueScopeKey(1, &tm, AssignmentGlobalPull))
}

func TestQueueItem_GraceElapsed(t *testing.T) {
	expires := at("10:05")
	item := &QueueItem{Status: QueueCalled, CallExpiresAt: &expires}

	assert.False(t, item.GraceElapsed(at("10:04")))
	assert.True(t, item.GraceElapsed(at("10:05")))

	item.Status = QueueStarted
	assert.False(t, item.GraceElapsed(at("10:06")))
}
