package processor

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/storewatch/internal/domain"
	"sync"
)

var _ jobQueue = &jobQueueMock{}

type jobQueueMock struct {
	ListReadyFunc func(ctx context.Context, limit int) ([]domain.Job, error)
	ClaimFunc     func(ctx context.Context, id uuid.UUID) (bool, error)
	CompleteFunc  func(ctx context.Context, id uuid.UUID) error
	FailFunc      func(ctx context.Context, job domain.Job, cause error) error

	calls struct {
		ListReady []struct {
			Limit int
		}
		Claim []struct {
			ID uuid.UUID
		}
		Complete []struct {
			ID uuid.UUID
		}
		Fail []struct {
			Job   domain.Job
			Cause error
		}
	}
	lockListReady sync.RWMutex
	lockClaim     sync.RWMutex
	lockComplete  sync.RWMutex
	lockFail      sync.RWMutex
}

func (mock *jobQueueMock) ListReady(ctx context.Context, limit int) ([]domain.Job, error) {
	if mock.ListReadyFunc == nil {
		panic("jobQueueMock.ListReadyFunc: method is nil but jobQueue.ListReady was just called")
	}
	callInfo := struct {
		Limit int
	}{Limit: limit}
	mock.lockListReady.Lock()
	mock.calls.ListReady = append(mock.calls.ListReady, callInfo)
	mock.lockListReady.Unlock()
	return mock.ListReadyFunc(ctx, limit)
}

func (mock *jobQueueMock) ListReadyCalls() []struct {
	Limit int
} {
	mock.lockListReady.RLock()
	calls := mock.calls.ListReady
	mock.lockListReady.RUnlock()
	return calls
}

func (mock *jobQueueMock) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	if mock.ClaimFunc == nil {
		panic("jobQueueMock.ClaimFunc: method is nil but jobQueue.Claim was just called")
	}
	callInfo := struct {
		ID uuid.UUID
	}{ID: id}
	mock.lockClaim.Lock()
	mock.calls.Claim = append(mock.calls.Claim, callInfo)
	mock.lockClaim.Unlock()
	return mock.ClaimFunc(ctx, id)
}

func (mock *jobQueueMock) ClaimCalls() []struct {
	ID uuid.UUID
} {
	mock.lockClaim.RLock()
	calls := mock.calls.Claim
	mock.lockClaim.RUnlock()
	return calls
}

func (mock *jobQueueMock) Complete(ctx context.Context, id uuid.UUID) error {
	if mock.CompleteFunc == nil {
		panic("jobQueueMock.CompleteFunc: method is nil but jobQueue.Complete was just called")
	}
	callInfo := struct {
		ID uuid.UUID
	}{ID: id}
	mock.lockComplete.Lock()
	mock.calls.Complete = append(mock.calls.Complete, callInfo)
	mock.lockComplete.Unlock()
	return mock.CompleteFunc(ctx, id)
}

func (mock *jobQueueMock) CompleteCalls() []struct {
	ID uuid.UUID
} {
	mock.lockComplete.RLock()
	calls := mock.calls.Complete
	mock.lockComplete.RUnlock()
	return calls
}

func (mock *jobQueueMock) Fail(ctx context.Context, job domain.Job, cause error) error {
	if mock.FailFunc == nil {
		panic("jobQueueMock.FailFunc: method is nil but jobQueue.Fail was just called")
	}
	callInfo := struct {
		Job   domain.Job
		Cause error
	}{Job: job, Cause: cause}
	mock.lockFail.Lock()
	mock.calls.Fail = append(mock.calls.Fail, callInfo)
	mock.lockFail.Unlock()
	return mock.FailFunc(ctx, job, cause)
}

func (mock *jobQueueMock) FailCalls() []struct {
	Job   domain.Job
	Cause error
} {
	mock.lockFail.RLock()
	calls := mock.calls.Fail
	mock.lockFail.RUnlock()
	return calls
}
