package queue

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/storewatch/internal/domain"
	"sync"
	"time"
)

var _ jobRepo = &jobRepoMock{}

type jobRepoMock struct {
	EnqueueFunc      func(ctx context.Context, job *domain.Job) (bool, error)
	ClaimFunc        func(ctx context.Context, id uuid.UUID) (bool, error)
	CompleteFunc     func(ctx context.Context, id uuid.UUID) error
	RescheduleFunc   func(ctx context.Context, id uuid.UUID, at time.Time, errMsg string) error
	MarkFailedFunc   func(ctx context.Context, id uuid.UUID, errMsg string) error
	ListReadyFunc    func(ctx context.Context, now time.Time, limit int) ([]domain.Job, error)
	SweepFunc        func(ctx context.Context, olderThan time.Time) (int64, error)
	ReclaimStaleFunc func(ctx context.Context, claimedBefore time.Time, maxAttempts int) (int64, error)
	StatsFunc        func(ctx context.Context) (domain.JobStats, error)

	calls struct {
		Enqueue []struct {
			Job *domain.Job
		}
		Claim []struct {
			ID uuid.UUID
		}
		Complete []struct {
			ID uuid.UUID
		}
		Reschedule []struct {
			ID     uuid.UUID
			At     time.Time
			ErrMsg string
		}
		MarkFailed []struct {
			ID     uuid.UUID
			ErrMsg string
		}
		ListReady []struct {
			Now   time.Time
			Limit int
		}
		Sweep []struct {
			OlderThan time.Time
		}
		ReclaimStale []struct {
			ClaimedBefore time.Time
			MaxAttempts   int
		}
		Stats []struct{}
	}
	lockEnqueue      sync.RWMutex
	lockClaim        sync.RWMutex
	lockComplete     sync.RWMutex
	lockReschedule   sync.RWMutex
	lockMarkFailed   sync.RWMutex
	lockListReady    sync.RWMutex
	lockSweep        sync.RWMutex
	lockReclaimStale sync.RWMutex
	lockStats        sync.RWMutex
}

func (mock *jobRepoMock) Enqueue(ctx context.Context, job *domain.Job) (bool, error) {
	if mock.EnqueueFunc == nil {
		panic("jobRepoMock.EnqueueFunc: method is nil but jobRepo.Enqueue was just called")
	}
	callInfo := struct {
		Job *domain.Job
	}{Job: job}
	mock.lockEnqueue.Lock()
	mock.calls.Enqueue = append(mock.calls.Enqueue, callInfo)
	mock.lockEnqueue.Unlock()
	return mock.EnqueueFunc(ctx, job)
}

func (mock *jobRepoMock) EnqueueCalls() []struct {
	Job *domain.Job
} {
	mock.lockEnqueue.RLock()
	calls := mock.calls.Enqueue
	mock.lockEnqueue.RUnlock()
	return calls
}

func (mock *jobRepoMock) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	if mock.ClaimFunc == nil {
		panic("jobRepoMock.ClaimFunc: method is nil but jobRepo.Claim was just called")
	}
	callInfo := struct {
		ID uuid.UUID
	}{ID: id}
	mock.lockClaim.Lock()
	mock.calls.Claim = append(mock.calls.Claim, callInfo)
	mock.lockClaim.Unlock()
	return mock.ClaimFunc(ctx, id)
}

func (mock *jobRepoMock) ClaimCalls() []struct {
	ID uuid.UUID
} {
	mock.lockClaim.RLock()
	calls := mock.calls.Claim
	mock.lockClaim.RUnlock()
	return calls
}

func (mock *jobRepoMock) Complete(ctx context.Context, id uuid.UUID) error {
	if mock.CompleteFunc == nil {
		panic("jobRepoMock.CompleteFunc: method is nil but jobRepo.Complete was just called")
	}
	callInfo := struct {
		ID uuid.UUID
	}{ID: id}
	mock.lockComplete.Lock()
	mock.calls.Complete = append(mock.calls.Complete, callInfo)
	mock.lockComplete.Unlock()
	return mock.CompleteFunc(ctx, id)
}

func (mock *jobRepoMock) CompleteCalls() []struct {
	ID uuid.UUID
} {
	mock.lockComplete.RLock()
	calls := mock.calls.Complete
	mock.lockComplete.RUnlock()
	return calls
}

func (mock *jobRepoMock) Reschedule(ctx context.Context, id uuid.UUID, at time.Time, errMsg string) error {
	if mock.RescheduleFunc == nil {
		panic("jobRepoMock.RescheduleFunc: method is nil but jobRepo.Reschedule was just called")
	}
	callInfo := struct {
		ID     uuid.UUID
		At     time.Time
		ErrMsg string
	}{ID: id, At: at, ErrMsg: errMsg}
	mock.lockReschedule.Lock()
	mock.calls.Reschedule = append(mock.calls.Reschedule, callInfo)
	mock.lockReschedule.Unlock()
	return mock.RescheduleFunc(ctx, id, at, errMsg)
}

func (mock *jobRepoMock) RescheduleCalls() []struct {
	ID     uuid.UUID
	At     time.Time
	ErrMsg string
} {
	mock.lockReschedule.RLock()
	calls := mock.calls.Reschedule
	mock.lockReschedule.RUnlock()
	return calls
}

func (mock *jobRepoMock) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	if mock.MarkFailedFunc == nil {
		panic("jobRepoMock.MarkFailedFunc: method is nil but jobRepo.MarkFailed was just called")
	}
	callInfo := struct {
		ID     uuid.UUID
		ErrMsg string
	}{ID: id, ErrMsg: errMsg}
	mock.lockMarkFailed.Lock()
	mock.calls.MarkFailed = append(mock.calls.MarkFailed, callInfo)
	mock.lockMarkFailed.Unlock()
	return mock.MarkFailedFunc(ctx, id, errMsg)
}

func (mock *jobRepoMock) MarkFailedCalls() []struct {
	ID     uuid.UUID
	ErrMsg string
} {
	mock.lockMarkFailed.RLock()
	calls := mock.calls.MarkFailed
	mock.lockMarkFailed.RUnlock()
	return calls
}

func (mock *jobRepoMock) ListReady(ctx context.Context, now time.Time, limit int) ([]domain.Job, error) {
	if mock.ListReadyFunc == nil {
		panic("jobRepoMock.ListReadyFunc: method is nil but jobRepo.ListReady was just called")
	}
	callInfo := struct {
		Now   time.Time
		Limit int
	}{Now: now, Limit: limit}
	mock.lockListReady.Lock()
	mock.calls.ListReady = append(mock.calls.ListReady, callInfo)
	mock.lockListReady.Unlock()
	return mock.ListReadyFunc(ctx, now, limit)
}

func (mock *jobRepoMock) ListReadyCalls() []struct {
	Now   time.Time
	Limit int
} {
	mock.lockListReady.RLock()
	calls := mock.calls.ListReady
	mock.lockListReady.RUnlock()
	return calls
}

func (mock *jobRepoMock) Sweep(ctx context.Context, olderThan time.Time) (int64, error) {
	if mock.SweepFunc == nil {
		panic("jobRepoMock.SweepFunc: method is nil but jobRepo.Sweep was just called")
	}
	callInfo := struct {
		OlderThan time.Time
	}{OlderThan: olderThan}
	mock.lockSweep.Lock()
	mock.calls.Sweep = append(mock.calls.Sweep, callInfo)
	mock.lockSweep.Unlock()
	return mock.SweepFunc(ctx, olderThan)
}

func (mock *jobRepoMock) SweepCalls() []struct {
	OlderThan time.Time
} {
	mock.lockSweep.RLock()
	calls := mock.calls.Sweep
	mock.lockSweep.RUnlock()
	return calls
}

func (mock *jobRepoMock) ReclaimStale(ctx context.Context, claimedBefore time.Time, maxAttempts int) (int64, error) {
	if mock.ReclaimStaleFunc == nil {
		panic("jobRepoMock.ReclaimStaleFunc: method is nil but jobRepo.ReclaimStale was just called")
	}
	callInfo := struct {
		ClaimedBefore time.Time
		MaxAttempts   int
	}{ClaimedBefore: claimedBefore, MaxAttempts: maxAttempts}
	mock.lockReclaimStale.Lock()
	mock.calls.ReclaimStale = append(mock.calls.ReclaimStale, callInfo)
	mock.lockReclaimStale.Unlock()
	return mock.ReclaimStaleFunc(ctx, claimedBefore, maxAttempts)
}

func (mock *jobRepoMock) ReclaimStaleCalls() []struct {
	ClaimedBefore time.Time
	MaxAttempts   int
} {
	mock.lockReclaimStale.RLock()
	calls := mock.calls.ReclaimStale
	mock.lockReclaimStale.RUnlock()
	return calls
}

func (mock *jobRepoMock) Stats(ctx context.Context) (domain.JobStats, error) {
	if mock.StatsFunc == nil {
		panic("jobRepoMock.StatsFunc: method is nil but jobRepo.Stats was just called")
	}
	mock.lockStats.Lock()
	mock.calls.Stats = append(mock.calls.Stats, struct{}{})
	mock.lockStats.Unlock()
	return mock.StatsFunc(ctx)
}

func (mock *jobRepoMock) StatsCalls() []struct{} {
	mock.lockStats.RLock()
	calls := mock.calls.Stats
	mock.lockStats.RUnlock()
	return calls
}
