package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"campus/config"
	"campus/internal/authstate"
	"campus/internal/domain/entity"
	"campus/internal/domain/repository"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(profileFetchTimeout time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.Auth = &config.AuthConfig{
		ProfileFetchTimeout: profileFetchTimeout,
		LoginPath:           "/auth/login",
	}

	return cfg
}

// fakeStateStore is an in-memory persisted mirror.
type fakeStateStore struct {
	mu    sync.Mutex
	token string
	user  *entity.User
	has   bool
}

func (s *fakeStateStore) Load(_ context.Context) (string, *entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.has {
		return "", nil, nil
	}

	return s.token, s.user, nil
}

func (s *fakeStateStore) Save(_ context.Context, token string, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	s.has = true

	return nil
}

func (s *fakeStateStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.has = false

	return nil
}

func (s *fakeStateStore) hasMirror() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.has
}

// fakeProvider is a scriptable identity provider with a real event stream.
type fakeProvider struct {
	mu          sync.Mutex
	session     *entity.Session
	identity    *entity.Identity
	signInErr   error
	sessionErr  error
	identityErr error
	signedOut   bool

	events    chan entity.AuthEvent
	closeOnce sync.Once
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{events: make(chan entity.AuthEvent, 4)}
}

func (p *fakeProvider) SignIn(_ context.Context, _, _ string) (*entity.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.signInErr != nil {
		return nil, p.signInErr
	}

	return p.session, nil
}

func (p *fakeProvider) SignOut(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signedOut = true
	p.session = nil

	return nil
}

func (p *fakeProvider) CurrentSession(_ context.Context) (*entity.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.session, p.sessionErr
}

func (p *fakeProvider) CurrentIdentity(_ context.Context) (*entity.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.identity, p.identityErr
}

func (p *fakeProvider) SubscribeAuthEvents(_ context.Context) (<-chan entity.AuthEvent, func(), error) {
	unsubscribe := func() {
		p.closeOnce.Do(func() { close(p.events) })
	}

	return p.events, unsubscribe, nil
}

func (p *fakeProvider) emit(event entity.AuthEvent) {
	p.events <- event
}

func (p *fakeProvider) wasSignedOut() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.signedOut
}

// fakeProfileRepo is a scriptable profile store. A non-zero delay
// honors context cancellation, mimicking a slow backing query.
type fakeProfileRepo struct {
	profile *entity.Profile
	err     error
	delay   time.Duration

	mu        sync.Mutex
	upserted  *entity.Profile
	upsertErr error
}

func (r *fakeProfileRepo) GetProfileByID(ctx context.Context, _ string) (*entity.Profile, error) {
	if r.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.delay):
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	if r.profile == nil {
		return nil, repository.ErrProfileNotFound
	}

	return r.profile, nil
}

func (r *fakeProfileRepo) UpsertProfile(_ context.Context, profile *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserted = profile

	return nil
}

func (r *fakeProfileRepo) lastUpserted() *entity.Profile {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.upserted
}

// testHarness wires a container and services against the fakes.
type testHarness struct {
	container *authstate.Container
	provider  *fakeProvider
	profiles  *fakeProfileRepo
	states    *fakeStateStore
}

func newTestHarness() *testHarness {
	states := &fakeStateStore{}
	container := authstate.NewContainer(authstate.Params{
		Store:  states,
		Logger: newDiscardLogger(),
	})

	return &testHarness{
		container: container,
		provider:  newFakeProvider(),
		profiles:  &fakeProfileRepo{},
		states:    states,
	}
}

func (h *testHarness) newProfileService(timeout time.Duration) *profileService {
	svc := NewProfileService(ProfileServiceParams{
		Container: h.container,
		Provider:  h.provider,
		Profiles:  h.profiles,
		Config:    newTestConfig(timeout),
		Logger:    newDiscardLogger(),
	})

	return svc.(*profileService)
}
