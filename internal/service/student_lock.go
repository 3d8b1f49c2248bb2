package service

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// studentLocker serializes submissions per student id. Two concurrent
// submissions for the same student would otherwise both read the same
// pre-update analytics row and lose one of the updates.
type studentLocker struct {
	sems sync.Map // student id -> *semaphore.Weighted(1)
}

func newStudentLocker() *studentLocker {
	return &studentLocker{}
}

// Acquire blocks until the student's slot is free or ctx is done.
func (l *studentLocker) Acquire(ctx context.Context, studentID string) error {
	sem, _ := l.sems.LoadOrStore(studentID, semaphore.NewWeighted(1))
	return sem.(*semaphore.Weighted).Acquire(ctx, 1)
}

// Release frees the student's slot. Must only be called after a successful
// Acquire for the same id.
func (l *studentLocker) Release(studentID string) {
	if sem, ok := l.sems.Load(studentID); ok {
		sem.(*semaphore.Weighted).Release(1)
	}
}
