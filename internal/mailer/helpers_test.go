package mailer

import (
	"context"
	"sync"
	"time"

	"github.com/mohamedazzim/SympoAzzi/internal/smtp"
	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

// testLogger is a no-op types.Logger for tests.
type testLogger struct{}

func (testLogger) Info(string, ...any)        {}
func (testLogger) Error(string, ...any)       {}
func (testLogger) Warn(string, ...any)        {}
func (l testLogger) With(...any) types.Logger { return l }

// fakeTransport is a scripted smtp.Transport: it returns the queued errors in
// order, then succeeds with the configured message ID.
type fakeTransport struct {
	mu     sync.Mutex
	errs   []error
	msgID  string
	mode   types.TransportMode
	calls  int
	inputs []types.SendInput
}

func newFakeTransport(msgID string, errs ...error) *fakeTransport {
	return &fakeTransport{errs: errs, msgID: msgID, mode: types.ModeLive}
}

func (f *fakeTransport) Send(_ context.Context, input types.SendInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.inputs = append(f.inputs, input)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return "", err
		}
	}
	return f.msgID, nil
}

func (f *fakeTransport) Mode() types.TransportMode { return f.mode }

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var _ smtp.Transport = (*fakeTransport)(nil)

// fakeAuditStore records appended entries and can be scripted to fail.
type fakeAuditStore struct {
	mu      sync.Mutex
	entries []*types.EmailLog
	err     error
}

func (f *fakeAuditStore) Append(_ context.Context, entry *types.EmailLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditStore) all() []*types.EmailLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*types.EmailLog, len(f.entries))
	copy(out, f.entries)
	return out
}

// fakeDirectory returns a fixed user list.
type fakeDirectory struct {
	users []types.User
	err   error
}

func (f *fakeDirectory) ListUsers(_ context.Context) ([]types.User, error) {
	return f.users, f.err
}

// newTestScheduler builds a Scheduler whose sleeps are recorded instead of
// executed.
func newTestScheduler(transport smtp.Transport, policy RetryPolicy) (*Scheduler, *[]time.Duration) {
	s := NewScheduler(transport, policy, testLogger{})
	sleeps := &[]time.Duration{}
	s.sleep = func(d time.Duration) {
		*sleeps = append(*sleeps, d)
	}
	return s, sleeps
}
