package identity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"campus/internal/domain/entity"
	domainerrors "campus/internal/domain/errors"
	"campus/internal/domain/repository"
	"campus/internal/domain/service"
	"campus/internal/infra/events"

	"github.com/pkg/errors"
)

// localProvider implements service.IdentityProvider against the
// self-hosted account table: bcrypt for credential checks, JWT for
// session tokens. Used for development and on-prem installs where the
// hosted provider is not available.
type localProvider struct {
	accounts repository.AccountRepository
	hasher   service.PasswordHasher
	tokens   service.TokenService
	bus      *events.Bus
	logger   *slog.Logger

	mu      sync.Mutex
	session *entity.Session
}

// NewLocalProvider creates the self-hosted identity provider.
func NewLocalProvider(
	accounts repository.AccountRepository,
	hasher service.PasswordHasher,
	tokens service.TokenService,
	logger *slog.Logger,
) service.IdentityProvider {
	return &localProvider{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		bus:      events.NewBus(),
		logger:   logger,
	}
}

// SignIn checks the credentials against the account table and mints a
// session token. An unknown email and a wrong password produce the
// same invalid-credentials error.
func (p *localProvider) SignIn(ctx context.Context, email, password string) (*entity.Session, error) {
	account, err := p.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "email_not_found")
		}

		return nil, errors.Wrap(err, "failed to look up account")
	}

	if !p.hasher.Check(password, account.PasswordHash) {
		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "invalid_password")
	}

	token, err := p.tokens.GenerateToken(account.ID, account.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to mint session token")
	}

	session := &entity.Session{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(p.tokens.TokenTTL()),
		IdentityID:  account.ID,
	}

	p.mu.Lock()
	p.session = session
	p.mu.Unlock()

	p.bus.Publish(entity.AuthEvent{Type: entity.AuthEventSignedIn, Session: session})
	p.logger.Info("Provider sign-in succeeded", slog.String("identityID", account.ID))

	return session, nil
}

// SignOut drops the cached session. Local tokens are not revocable;
// they simply expire.
func (p *localProvider) SignOut(_ context.Context) error {
	p.mu.Lock()
	hadSession := p.session != nil
	p.session = nil
	p.mu.Unlock()

	if hadSession {
		p.bus.Publish(entity.AuthEvent{Type: entity.AuthEventSignedOut})
	}

	return nil
}

// CurrentSession returns the cached session, dropping it once expired.
func (p *localProvider) CurrentSession(_ context.Context) (*entity.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session == nil {
		return nil, nil
	}
	if p.session.Expired() {
		p.session = nil

		return nil, nil
	}

	return p.session, nil
}

// CurrentIdentity validates the session token and loads the account
// behind it.
func (p *localProvider) CurrentIdentity(ctx context.Context) (*entity.Identity, error) {
	session, err := p.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	identityID, email, err := p.tokens.ValidateToken(session.AccessToken)
	if err != nil {
		return nil, errors.Wrap(err, "user is not authenticated")
	}

	identity := &entity.Identity{ID: identityID, Email: email}

	account, err := p.accounts.FindByEmail(ctx, email)
	if err != nil {
		// The token already proves the identity; names are optional.
		p.logger.Warn("Failed to load account for identity", slog.Any("error", err))

		return identity, nil
	}

	identity.FirstName = account.FirstName
	identity.LastName = account.LastName

	return identity, nil
}

// SubscribeAuthEvents attaches to the provider's sign-in/sign-out stream.
func (p *localProvider) SubscribeAuthEvents(_ context.Context) (<-chan entity.AuthEvent, func(), error) {
	stream, unsubscribe := p.bus.Subscribe()

	return stream, unsubscribe, nil
}

// Close shuts the event bus down, closing all subscriber channels.
func (p *localProvider) Close() error {
	p.bus.Close()

	return nil
}
