package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"campus/config"
	"campus/internal/domain/entity"
	domainerrors "campus/internal/domain/errors"
	"campus/internal/domain/service"
	"campus/internal/infra/events"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

const (
	signInURL        = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"
	refreshTokenURL  = "https://securetoken.googleapis.com/v1/token"
	signInHTTPTimout = 10 * time.Second
)

// firebaseProvider implements service.IdentityProvider against the
// hosted identity service: password sign-in goes through the Identity
// Toolkit REST endpoint, token verification through the Admin SDK.
type firebaseProvider struct {
	authClient *fbauth.Client
	apiKey     string
	httpClient *http.Client
	bus        *events.Bus
	logger     *slog.Logger

	mu           sync.Mutex
	session      *entity.Session
	refreshToken string
}

// NewFirebaseProvider creates the hosted identity provider client.
func NewFirebaseProvider(ctx context.Context, cfg *config.FirebaseProviderConfig, logger *slog.Logger) (service.IdentityProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("firebase api key is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize firebase app")
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get auth client")
	}

	logger.Info("Firebase identity provider initialized",
		slog.String("project_id", cfg.ProjectID))

	return &firebaseProvider{
		authClient: authClient,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: signInHTTPTimout},
		bus:        events.NewBus(),
		logger:     logger,
	}, nil
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	LocalID      string `json:"localId"`
	ExpiresIn    string `json:"expiresIn"`
}

type identityToolkitError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn exchanges credentials for a session via the password sign-in
// endpoint. Credential rejections map to the invalid-credentials
// domain error so callers can distinguish them from outages.
func (p *firebaseProvider) SignIn(ctx context.Context, email, password string) (*entity.Session, error) {
	payload, err := json.Marshal(signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	body, err := p.post(ctx, signInURL, payload)
	if err != nil {
		return nil, err
	}

	var resp signInResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode sign-in response")
	}

	session := p.sessionFromTokens(resp.IDToken, resp.LocalID, resp.ExpiresIn)

	p.mu.Lock()
	p.session = session
	p.refreshToken = resp.RefreshToken
	p.mu.Unlock()

	p.bus.Publish(entity.AuthEvent{Type: entity.AuthEventSignedIn, Session: session})
	p.logger.Info("Provider sign-in succeeded", slog.String("identityID", session.IdentityID))

	return session, nil
}

// SignOut revokes the refresh tokens for the current identity and
// drops the cached session.
func (p *firebaseProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	session := p.session
	p.session = nil
	p.refreshToken = ""
	p.mu.Unlock()

	if session == nil {
		return nil
	}

	if err := p.authClient.RevokeRefreshTokens(ctx, session.IdentityID); err != nil {
		p.logger.Warn("Failed to revoke refresh tokens", slog.Any("error", err))
	}

	p.bus.Publish(entity.AuthEvent{Type: entity.AuthEventSignedOut})

	return nil
}

// CurrentSession returns the live session, silently refreshing an
// expired access token when a refresh token is on hand. No session is
// not an error.
func (p *firebaseProvider) CurrentSession(ctx context.Context) (*entity.Session, error) {
	p.mu.Lock()
	session := p.session
	refreshToken := p.refreshToken
	p.mu.Unlock()

	if session == nil {
		return nil, nil
	}
	if !session.Expired() {
		return session, nil
	}
	if refreshToken == "" {
		return nil, nil
	}

	refreshed, err := p.refresh(ctx, refreshToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to refresh session")
	}

	return refreshed, nil
}

type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	ExpiresIn    string `json:"expires_in"`
}

func (p *firebaseProvider) refresh(ctx context.Context, refreshToken string) (*entity.Session, error) {
	payload, err := json.Marshal(map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	body, err := p.post(ctx, refreshTokenURL, payload)
	if err != nil {
		return nil, err
	}

	var resp refreshResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode refresh response")
	}

	session := p.sessionFromTokens(resp.IDToken, resp.UserID, resp.ExpiresIn)

	p.mu.Lock()
	p.session = session
	p.refreshToken = resp.RefreshToken
	p.mu.Unlock()

	return session, nil
}

// CurrentIdentity verifies the cached token with the Admin SDK and
// returns the user record behind it. No session yields a nil identity,
// not an error.
func (p *firebaseProvider) CurrentIdentity(ctx context.Context) (*entity.Identity, error) {
	session, err := p.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	token, err := p.authClient.VerifyIDToken(ctx, session.AccessToken)
	if err != nil {
		return nil, errors.Wrap(err, "user is not authenticated")
	}

	record, err := p.authClient.GetUser(ctx, token.UID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user record")
	}

	firstName, lastName := splitDisplayName(record.DisplayName)

	return &entity.Identity{
		ID:        record.UID,
		Email:     record.Email,
		FirstName: firstName,
		LastName:  lastName,
	}, nil
}

// SubscribeAuthEvents attaches to the provider's sign-in/sign-out stream.
func (p *firebaseProvider) SubscribeAuthEvents(_ context.Context) (<-chan entity.AuthEvent, func(), error) {
	stream, unsubscribe := p.bus.Subscribe()

	return stream, unsubscribe, nil
}

// Close shuts the event bus down, closing all subscriber channels.
func (p *firebaseProvider) Close() error {
	p.bus.Close()

	return nil
}

func (p *firebaseProvider) post(ctx context.Context, url string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"?key="+p.apiKey, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "identity endpoint unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, toolkitError(resp.StatusCode, body)
	}

	return body, nil
}

// toolkitError maps an Identity Toolkit error payload onto the domain
// error taxonomy.
func toolkitError(status int, body []byte) error {
	var parsed identityToolkitError
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Error.Message == "" {
		return errors.Errorf("identity endpoint returned status %d", status)
	}

	message := parsed.Error.Message
	switch {
	case strings.HasPrefix(message, "INVALID_PASSWORD"),
		strings.HasPrefix(message, "EMAIL_NOT_FOUND"),
		strings.HasPrefix(message, "INVALID_LOGIN_CREDENTIALS"),
		strings.HasPrefix(message, "USER_DISABLED"):
		return errors.Wrap(domainerrors.ErrInvalidCredentials, strings.ToLower(message))
	case strings.HasPrefix(message, "TOKEN_EXPIRED"),
		strings.HasPrefix(message, "USER_NOT_FOUND"):
		return errors.Wrap(domainerrors.ErrUnauthenticated, strings.ToLower(message))
	default:
		return errors.Errorf("identity endpoint error: %s", message)
	}
}

func (p *firebaseProvider) sessionFromTokens(idToken, identityID, expiresIn string) *entity.Session {
	ttl := time.Hour
	if seconds, err := strconv.Atoi(expiresIn); err == nil && seconds > 0 {
		ttl = time.Duration(seconds) * time.Second
	}

	return &entity.Session{
		AccessToken: idToken,
		ExpiresAt:   time.Now().Add(ttl),
		IdentityID:  identityID,
	}
}

func splitDisplayName(displayName string) (string, string) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return "", ""
	}

	parts := strings.SplitN(displayName, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}

	return parts[0], parts[1]
}
