// Package broker integrates the journal with the Zerodha Kite Connect API.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog"
	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"swing-journal/internal/config"
	apperrors "swing-journal/internal/errors"
)

// Broker wraps a Kite Connect client with persisted session state.
type Broker struct {
	client        *kiteconnect.Client
	apiKey        string
	apiSecret     string
	userID        string
	totpSecret    string
	accessToken   string
	tokenPath     string
	authenticated bool
	instruments   []Instrument
	logger        zerolog.Logger
	mu            sync.RWMutex
}

// Instrument is a tradable symbol known to the broker.
type Instrument struct {
	Ticker   string
	Name     string
	Exchange string
}

// New creates a broker client and loads any saved session from disk.
func New(creds config.BrokerCredentials, tokenPath string, logger zerolog.Logger) *Broker {
	client := kiteconnect.New(creds.APIKey)

	if tokenPath == "" {
		homeDir, _ := os.UserHomeDir()
		tokenPath = filepath.Join(homeDir, ".config", "swing-journal", "session.json")
	}

	b := &Broker{
		client:     client,
		apiKey:     creds.APIKey,
		apiSecret:  creds.APISecret,
		userID:     creds.UserID,
		totpSecret: creds.TOTPSecret,
		tokenPath:  tokenPath,
		logger:     logger,
	}

	_ = b.loadSession()

	return b
}

// sessionData is the persisted session file format.
type sessionData struct {
	AccessToken string    `json:"access_token"`
	UserID      string    `json:"user_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Login reuses a persisted session when one is still valid, otherwise
// returns the login URL the user must visit to obtain a request token.
func (b *Broker) Login(ctx context.Context) error {
	if err := b.loadSession(); err == nil && b.IsAuthenticated() {
		if _, err := b.client.GetUserProfile(); err == nil {
			return nil
		}
	}

	loginURL := b.client.GetLoginURL()
	return fmt.Errorf("%w: visit %s and complete login, then run the login command with the request token",
		apperrors.ErrNotAuthenticated, loginURL)
}

// CompleteLogin exchanges the request token for an access token and
// persists the session.
func (b *Broker) CompleteLogin(ctx context.Context, requestToken string) error {
	session, err := b.client.GenerateSession(requestToken, b.apiSecret)
	if err != nil {
		return apperrors.NewBrokerError("session", "failed to generate session", err)
	}

	b.mu.Lock()
	b.accessToken = session.AccessToken
	b.authenticated = true
	b.client.SetAccessToken(session.AccessToken)
	b.mu.Unlock()

	if err := b.saveSession(session.AccessToken); err != nil {
		b.logger.Warn().Err(err).Msg("failed to persist session")
	}

	return nil
}

// Logout invalidates the session and removes the persisted file.
func (b *Broker) Logout(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.authenticated {
		if _, err := b.client.InvalidateAccessToken(); err != nil {
			b.logger.Warn().Err(err).Msg("failed to invalidate token")
		}
	}

	b.accessToken = ""
	b.authenticated = false

	if err := os.Remove(b.tokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}

	return nil
}

// IsAuthenticated reports whether a broker session is active.
func (b *Broker) IsAuthenticated() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.authenticated
}

// TOTPCode generates the current one-time code from the configured
// TOTP secret, for the interactive login flow.
func (b *Broker) TOTPCode() (string, error) {
	if b.totpSecret == "" {
		return "", apperrors.NewBrokerError("totp", "no TOTP secret configured", nil)
	}
	code, err := totp.GenerateCode(b.totpSecret, time.Now())
	if err != nil {
		return "", apperrors.NewBrokerError("totp", "failed to generate code", err)
	}
	return code, nil
}

func (b *Broker) loadSession() error {
	data, err := os.ReadFile(b.tokenPath)
	if err != nil {
		return err
	}

	var session sessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return err
	}

	if time.Now().After(session.ExpiresAt) {
		return apperrors.ErrSessionExpired
	}

	b.mu.Lock()
	b.accessToken = session.AccessToken
	b.authenticated = true
	b.client.SetAccessToken(session.AccessToken)
	b.mu.Unlock()

	return nil
}

func (b *Broker) saveSession(accessToken string) error {
	dir := filepath.Dir(b.tokenPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	// Kite tokens expire at 6 AM IST the next day.
	loc, _ := time.LoadLocation("Asia/Kolkata")
	now := time.Now().In(loc)
	expiresAt := time.Date(now.Year(), now.Month(), now.Day()+1, 6, 0, 0, 0, loc)

	session := sessionData{
		AccessToken: accessToken,
		UserID:      b.userID,
		ExpiresAt:   expiresAt,
	}

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return os.WriteFile(b.tokenPath, data, 0600)
}

// LTP fetches last traded prices for the given tickers. Tickers are
// looked up on NSE unless already exchange-qualified.
func (b *Broker) LTP(ctx context.Context, tickers []string) (map[string]float64, error) {
	if !b.IsAuthenticated() {
		return nil, apperrors.ErrNotAuthenticated
	}
	if len(tickers) == 0 {
		return map[string]float64{}, nil
	}

	qualified := make([]string, len(tickers))
	for i, t := range tickers {
		qualified[i] = qualifySymbol(t)
	}

	quotes, err := b.client.GetLTP(qualified...)
	if err != nil {
		return nil, apperrors.NewBrokerError("quotes", "failed to fetch prices", err)
	}

	prices := make(map[string]float64, len(tickers))
	for i, t := range tickers {
		if q, ok := quotes[qualified[i]]; ok {
			prices[t] = q.LastPrice
		}
	}
	return prices, nil
}

// SearchInstruments filters the cached instrument dump by a query
// string, matching on ticker or name. The dump is fetched once per
// process and reused.
func (b *Broker) SearchInstruments(ctx context.Context, query string) ([]Instrument, error) {
	if !b.IsAuthenticated() {
		return nil, apperrors.ErrNotAuthenticated
	}

	if err := b.ensureInstruments(); err != nil {
		return nil, err
	}

	query = strings.ToUpper(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	var matches []Instrument
	for _, inst := range b.instruments {
		if strings.Contains(inst.Ticker, query) ||
			strings.Contains(strings.ToUpper(inst.Name), query) {
			matches = append(matches, inst)
			if len(matches) >= 25 {
				break
			}
		}
	}
	return matches, nil
}

func (b *Broker) ensureInstruments() error {
	b.mu.RLock()
	loaded := len(b.instruments) > 0
	b.mu.RUnlock()
	if loaded {
		return nil
	}

	dump, err := b.client.GetInstruments()
	if err != nil {
		return apperrors.NewBrokerError("instruments", "failed to fetch instruments", err)
	}

	instruments := make([]Instrument, 0, len(dump))
	for _, inst := range dump {
		if inst.Exchange != "NSE" && inst.Exchange != "BSE" {
			continue
		}
		instruments = append(instruments, Instrument{
			Ticker:   inst.Tradingsymbol,
			Name:     inst.Name,
			Exchange: inst.Exchange,
		})
	}

	b.mu.Lock()
	b.instruments = instruments
	b.mu.Unlock()
	return nil
}

func qualifySymbol(ticker string) string {
	if strings.Contains(ticker, ":") {
		return ticker
	}
	return "NSE:" + strings.ToUpper(ticker)
}
