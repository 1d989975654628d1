// Package memory holds process-local repository implementations used for
// development and tests. Every store is safe for concurrent use.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/repository"
)

type signatureKey struct {
	email string
	typ   domain.SignerType
}

// SignatureStore keeps signatures in a map guarded by a mutex. The duplicate
// check and the insert happen under the same lock.
type SignatureStore struct {
	mu      sync.RWMutex
	records map[string]domain.SignatureRecord
	keys    map[signatureKey]string
}

func NewSignatureStore() *SignatureStore {
	return &SignatureStore{
		records: make(map[string]domain.SignatureRecord),
		keys:    make(map[signatureKey]string),
	}
}

func (s *SignatureStore) Create(_ context.Context, rec *domain.SignatureRecord) error {
	key := signatureKey{email: domain.EmailKey(rec.Data.ContactEmail()), typ: rec.Type}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		return repository.ErrDuplicateEntry
	}
	rec.ID = uuid.NewString()
	s.records[rec.ID] = *rec
	s.keys[key] = rec.ID
	return nil
}

func (s *SignatureStore) ExistsByEmail(_ context.Context, email string, signerType domain.SignerType) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.keys[signatureKey{email: domain.EmailKey(email), typ: signerType}]
	return ok, nil
}

func (s *SignatureStore) List(_ context.Context) ([]domain.SignatureRecord, error) {
	s.mu.RLock()
	out := make([]domain.SignatureRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out, nil
}

func (s *SignatureStore) GetByID(_ context.Context, id string) (*domain.SignatureRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (s *SignatureStore) UpdateStatus(_ context.Context, id string, status domain.SignatureStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return repository.ErrNotFound
	}
	rec.Status = status
	s.records[id] = rec
	return nil
}

func (s *SignatureStore) PurgeDeleted(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int64
	for id, rec := range s.records {
		if rec.Status != domain.StatusDeleted {
			continue
		}
		delete(s.records, id)
		delete(s.keys, signatureKey{email: domain.EmailKey(rec.Data.ContactEmail()), typ: rec.Type})
		purged++
	}
	return purged, nil
}

func (s *SignatureStore) CountActive(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, rec := range s.records {
		if rec.Status != domain.StatusDeleted {
			count++
		}
	}
	return count, nil
}

// VisitStore is an append-only slice of visits.
type VisitStore struct {
	mu     sync.RWMutex
	visits []domain.VisitRecord
}

func NewVisitStore() *VisitStore {
	return &VisitStore{}
}

func (s *VisitStore) Create(_ context.Context, visit *domain.VisitRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	visit.ID = uuid.NewString()
	s.visits = append(s.visits, *visit)
	return nil
}

func (s *VisitStore) List(_ context.Context) ([]domain.VisitRecord, error) {
	s.mu.RLock()
	out := append([]domain.VisitRecord(nil), s.visits...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (s *VisitStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.visits), nil
}

// AdminStore is the allowlist keyed by normalized email.
type AdminStore struct {
	mu     sync.RWMutex
	admins map[string]domain.AdminUser
}

func NewAdminStore() *AdminStore {
	return &AdminStore{admins: make(map[string]domain.AdminUser)}
}

func (s *AdminStore) Create(_ context.Context, admin *domain.AdminUser) error {
	key := domain.EmailKey(admin.Email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[key]; ok {
		return repository.ErrDuplicateEntry
	}
	admin.ID = uuid.NewString()
	admin.Email = key
	s.admins[key] = *admin
	return nil
}

func (s *AdminStore) GetByEmail(_ context.Context, email string) (*domain.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	admin, ok := s.admins[domain.EmailKey(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &admin, nil
}

func (s *AdminStore) List(_ context.Context) ([]domain.AdminUser, error) {
	s.mu.RLock()
	out := make([]domain.AdminUser, 0, len(s.admins))
	for _, a := range s.admins {
		out = append(out, a)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AddedAt.After(out[j].AddedAt)
	})
	return out, nil
}

func (s *AdminStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, a := range s.admins {
		if a.ID == id {
			delete(s.admins, key)
			return nil
		}
	}
	return repository.ErrNotFound
}

// AccountStore keeps admin credentials keyed by normalized email.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]domain.AdminAccount
	now      func() time.Time
}

func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[string]domain.AdminAccount),
		now:      time.Now,
	}
}

func (s *AccountStore) Create(_ context.Context, account *domain.AdminAccount) error {
	key := domain.EmailKey(account.Email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[key]; ok {
		return repository.ErrDuplicateEntry
	}
	account.ID = uuid.NewString()
	account.Email = key
	account.CreatedAt = s.now().UTC()
	s.accounts[key] = *account
	return nil
}

func (s *AccountStore) GetByEmail(_ context.Context, email string) (*domain.AdminAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[domain.EmailKey(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &account, nil
}

var (
	_ repository.SignatureRepository = (*SignatureStore)(nil)
	_ repository.VisitRepository     = (*VisitStore)(nil)
	_ repository.AdminRepository     = (*AdminStore)(nil)
	_ repository.AccountRepository   = (*AccountStore)(nil)
)
