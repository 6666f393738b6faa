package usecases

import (
	"context"
	"sync"

	"github.com/keygate-app/keygate/internal/domain/admin"
	"github.com/keygate-app/keygate/internal/domain/client"
	"github.com/keygate-app/keygate/internal/domain/ledger"
	"github.com/keygate-app/keygate/internal/domain/subscription"
)

// memSubscriptionRepo is an in-memory subscription store. Entities are
// copied on read so callers mutate their own snapshot, like rows from a
// real database.
type memSubscriptionRepo struct {
	mu     sync.Mutex
	nextID uint
	subs   map[string]*subscription.Subscription
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{subs: make(map[string]*subscription.Subscription)}
}

func copySubscription(s *subscription.Subscription) *subscription.Subscription {
	return subscription.ReconstructSubscription(
		s.ID(), s.DeviceID(), s.Phone(), s.ClientName(),
		s.Months(), s.ActivationKey(), s.Status(), s.CreatedAt(), s.ExpiresAt(),
	)
}

func (r *memSubscriptionRepo) Create(ctx context.Context, sub *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	if err := sub.SetID(r.nextID); err != nil {
		return err
	}
	r.subs[sub.DeviceID()] = copySubscription(sub)
	return nil
}

func (r *memSubscriptionRepo) GetByDeviceID(ctx context.Context, deviceID string) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.subs[deviceID]; ok {
		return copySubscription(s), nil
	}
	return nil, nil
}

func (r *memSubscriptionRepo) GetByDeviceIDForUpdate(ctx context.Context, deviceID string) (*subscription.Subscription, error) {
	return r.GetByDeviceID(ctx, deviceID)
}

func (r *memSubscriptionRepo) Update(ctx context.Context, sub *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[sub.DeviceID()]; !ok {
		return subscription.ErrNotFound
	}
	r.subs[sub.DeviceID()] = copySubscription(sub)
	return nil
}

func (r *memSubscriptionRepo) ListPending(ctx context.Context) ([]*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*subscription.Subscription
	for _, s := range r.subs {
		if s.IsPending() {
			out = append(out, copySubscription(s))
		}
	}
	return out, nil
}

func (r *memSubscriptionRepo) DeleteAllPending(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for deviceID, s := range r.subs {
		if s.IsPending() {
			delete(r.subs, deviceID)
			count++
		}
	}
	return count, nil
}

// memClientRepo is an in-memory client store keyed by device.
type memClientRepo struct {
	mu      sync.Mutex
	nextID  uint
	clients map[string]*client.Client
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{clients: make(map[string]*client.Client)}
}

func (r *memClientRepo) ResolveOrCreate(ctx context.Context, candidate *client.Client) (*client.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.clients[candidate.DeviceID()]; ok {
		return existing, nil
	}
	r.nextID++
	if err := candidate.SetID(r.nextID); err != nil {
		return nil, err
	}
	r.clients[candidate.DeviceID()] = candidate
	return candidate, nil
}

func (r *memClientRepo) GetByDeviceID(ctx context.Context, deviceID string) (*client.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clients[deviceID], nil
}

func (r *memClientRepo) List(ctx context.Context) ([]*client.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*client.Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	return out, nil
}

// memLedgerRepo is an in-memory append-only ledger.
type memLedgerRepo struct {
	mu      sync.Mutex
	nextID  uint
	entries []*ledger.Entry
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{}
}

func (r *memLedgerRepo) Append(ctx context.Context, entry *ledger.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	if err := entry.SetID(r.nextID); err != nil {
		return err
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memLedgerRepo) ListAll(ctx context.Context, limit int) ([]*ledger.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*ledger.Entry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *memLedgerRepo) ListByDevice(ctx context.Context, deviceID string) ([]*ledger.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ledger.Entry
	for _, e := range r.entries {
		if e.DeviceID() == deviceID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) ListByAdmin(ctx context.Context, adminID uint) ([]*ledger.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ledger.Entry
	for _, e := range r.entries {
		if e.AdminID() == adminID {
			out = append(out, e)
		}
	}
	return out, nil
}

// memAdminRepo is an in-memory admin store keyed by phone.
type memAdminRepo struct {
	mu     sync.Mutex
	nextID uint
	admins map[string]*admin.Admin
}

func newMemAdminRepo() *memAdminRepo {
	return &memAdminRepo{admins: make(map[string]*admin.Admin)}
}

func (r *memAdminRepo) Create(ctx context.Context, a *admin.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.admins[a.Phone()]; ok {
		return admin.ErrPhoneExists
	}
	r.nextID++
	if err := a.SetID(r.nextID); err != nil {
		return err
	}
	r.admins[a.Phone()] = a
	return nil
}

func (r *memAdminRepo) GetByPhone(ctx context.Context, phone string) (*admin.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.admins[phone], nil
}

func (r *memAdminRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.admins)), nil
}

// serialTxManager emulates row locking by serializing whole transactions.
type serialTxManager struct {
	mu sync.Mutex
}

func (m *serialTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

// recordingNotifier captures broadcast calls for assertions.
type recordingNotifier struct {
	mu         sync.Mutex
	newRequest []string
	validated  []string
}

func (n *recordingNotifier) NotifyNewRequest(sub *subscription.Subscription) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.newRequest = append(n.newRequest, sub.DeviceID())
}

func (n *recordingNotifier) NotifyValidated(deviceID, adminName string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.validated = append(n.validated, deviceID+"/"+adminName)
}

func (n *recordingNotifier) newRequestCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.newRequest)
}

func (n *recordingNotifier) validatedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.validated)
}
