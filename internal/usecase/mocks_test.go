package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
	"github.com/avanishkumar5035/jobsphere-identity/internal/core/port"
	"github.com/avanishkumar5035/jobsphere-identity/internal/repository"
)

type memoryIdentityRepo struct {
	mu         sync.Mutex
	identities map[string]domain.Identity
}

func newMemoryIdentityRepo() *memoryIdentityRepo {
	return &memoryIdentityRepo{identities: make(map[string]domain.Identity)}
}

func (r *memoryIdentityRepo) Create(_ context.Context, identity domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.identities {
		if existing.Email == identity.Email {
			return repository.ErrDuplicate
		}
	}
	r.identities[identity.ID] = identity
	return nil
}

func (r *memoryIdentityRepo) GetByID(_ context.Context, id string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok := r.identities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := identity
	return &copy, nil
}

func (r *memoryIdentityRepo) GetByEmail(_ context.Context, email string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, identity := range r.identities {
		if identity.Email == email {
			copy := identity
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryIdentityRepo) List(_ context.Context) ([]domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Identity, 0, len(r.identities))
	for _, identity := range r.identities {
		out = append(out, identity)
	}
	return out, nil
}

func (r *memoryIdentityRepo) ListByRole(_ context.Context, role domain.Role) ([]domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Identity
	for _, identity := range r.identities {
		if identity.Role == role {
			out = append(out, identity)
		}
	}
	return out, nil
}

func (r *memoryIdentityRepo) UpdatePassword(_ context.Context, id, passwordHash string, changedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok := r.identities[id]
	if !ok {
		return repository.ErrNotFound
	}
	identity.PasswordHash = passwordHash
	identity.UpdatedAt = changedAt
	r.identities[id] = identity
	return nil
}

func (r *memoryIdentityRepo) UpdateProfile(_ context.Context, id string, patch port.ProfilePatch, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok := r.identities[id]
	if !ok {
		return repository.ErrNotFound
	}
	if patch.Name != nil {
		identity.Name = *patch.Name
	}
	if patch.Phone != nil {
		if identity.Phone == nil || *identity.Phone != *patch.Phone {
			identity.MobileVerified = false
		}
		identity.Phone = patch.Phone
	}
	if patch.Headline != nil {
		identity.Headline = patch.Headline
	}
	if patch.Skills != nil {
		identity.Skills = patch.Skills
	}
	if patch.ResumePath != nil {
		identity.ResumePath = patch.ResumePath
	}
	if patch.CompanyName != nil {
		identity.CompanyName = patch.CompanyName
	}
	if patch.CompanyWebsite != nil {
		identity.CompanyWebsite = patch.CompanyWebsite
	}
	if patch.CompanyDescription != nil {
		identity.CompanyDescription = patch.CompanyDescription
	}
	if patch.SavedJobIDs != nil {
		identity.SavedJobIDs = patch.SavedJobIDs
	}
	identity.UpdatedAt = updatedAt
	r.identities[id] = identity
	return nil
}

func (r *memoryIdentityRepo) SetPhone(_ context.Context, id, phone string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok := r.identities[id]
	if !ok {
		return repository.ErrNotFound
	}
	identity.Phone = &phone
	identity.MobileVerified = false
	identity.UpdatedAt = updatedAt
	r.identities[id] = identity
	return nil
}

func (r *memoryIdentityRepo) SetMobileVerified(_ context.Context, id string, verified bool, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok := r.identities[id]
	if !ok {
		return repository.ErrNotFound
	}
	identity.MobileVerified = verified
	identity.UpdatedAt = updatedAt
	r.identities[id] = identity
	return nil
}

func (r *memoryIdentityRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.identities[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.identities, id)
	return nil
}

type otpEntry struct {
	issue domain.OTPIssue
}

type memoryOTPStore struct {
	mu      sync.Mutex
	entries map[string]*otpEntry
	now     func() time.Time
}

func newMemoryOTPStore() *memoryOTPStore {
	return &memoryOTPStore{
		entries: make(map[string]*otpEntry),
		now:     time.Now,
	}
}

func (s *memoryOTPStore) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

func otpKey(slot domain.OTPSlot, identityID string) string {
	return string(slot) + ":" + identityID
}

func (s *memoryOTPStore) Store(_ context.Context, slot domain.OTPSlot, identityID, code string, ttl time.Duration) (*domain.OTPIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	issue := domain.OTPIssue{
		Slot:       slot,
		IdentityID: identityID,
		Code:       code,
		IssuedAt:   now,
		ExpiresAt:  now.Add(ttl),
	}
	s.entries[otpKey(slot, identityID)] = &otpEntry{issue: issue}
	copy := issue
	return &copy, nil
}

func (s *memoryOTPStore) Fetch(_ context.Context, slot domain.OTPSlot, identityID string) (*domain.OTPIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[otpKey(slot, identityID)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := entry.issue
	return &copy, nil
}

func (s *memoryOTPStore) IncrementAttempts(_ context.Context, slot domain.OTPSlot, identityID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[otpKey(slot, identityID)]
	if !ok {
		return 0, repository.ErrNotFound
	}
	entry.issue.Attempts++
	return entry.issue.Attempts, nil
}

func (s *memoryOTPStore) Delete(_ context.Context, slot domain.OTPSlot, identityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := otpKey(slot, identityID)
	if _, ok := s.entries[key]; !ok {
		return repository.ErrNotFound
	}
	delete(s.entries, key)
	return nil
}

type sentMessage struct {
	recipient string
	subject   string
	body      string
}

type recordingGateway struct {
	mu       sync.Mutex
	emails   []sentMessage
	sms      []sentMessage
	degraded bool
}

func (g *recordingGateway) SendEmail(_ context.Context, to, subject, body string) port.DeliveryResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.emails = append(g.emails, sentMessage{recipient: to, subject: subject, body: body})
	if g.degraded {
		return port.DeliveryResult{Degraded: true, Detail: "email provider not configured, message logged"}
	}
	return port.DeliveryResult{Delivered: true}
}

func (g *recordingGateway) SendSMS(_ context.Context, phone, message string) port.DeliveryResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sms = append(g.sms, sentMessage{recipient: phone, body: message})
	if g.degraded {
		return port.DeliveryResult{Degraded: true, Detail: "sms provider not configured, message logged"}
	}
	return port.DeliveryResult{Delivered: true}
}

type recordingPublisher struct {
	mu         sync.Mutex
	registered []domain.IdentityRegisteredEvent
	resets     []domain.PasswordResetRequestedEvent
	changed    []domain.PasswordChangedEvent
	verified   []domain.MobileVerifiedEvent
	deleted    []domain.IdentityDeletedEvent
}

func (p *recordingPublisher) PublishIdentityRegistered(_ context.Context, event domain.IdentityRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registered = append(p.registered, event)
	return nil
}

func (p *recordingPublisher) PublishPasswordResetRequested(_ context.Context, event domain.PasswordResetRequestedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resets = append(p.resets, event)
	return nil
}

func (p *recordingPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changed = append(p.changed, event)
	return nil
}

func (p *recordingPublisher) PublishMobileVerified(_ context.Context, event domain.MobileVerifiedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verified = append(p.verified, event)
	return nil
}

func (p *recordingPublisher) PublishIdentityDeleted(_ context.Context, event domain.IdentityDeletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, event)
	return nil
}
