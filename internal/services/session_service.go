package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/villagestay/villagestay/internal/ledger"
	"github.com/villagestay/villagestay/internal/models"
	"github.com/villagestay/villagestay/internal/security"
	"github.com/villagestay/villagestay/pkg/errors"
	"github.com/villagestay/villagestay/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// Roles
const (
	RoleAdmin = "admin"
	RoleOwner = "owner"
)

// Account is a login known to the service.
type Account struct {
	Email  string
	UserID string
	Role   string

	passwordHash string
}

// DefaultAccounts are the demo logins. The admin account's user id is the
// literal "admin", which BookingsByOwner treats as every owner.
var DefaultAccounts = []struct {
	Email, Password, UserID, Role string
}{
	{"admin@villagestay.plus", "password", "admin", RoleAdmin},
	{"owner@villagestay.plus", "password", "owner1", RoleOwner},
}

// Session is one logged-in browser. Coins belongs to this session only.
type Session struct {
	ID        string
	UserID    string
	Role      string
	CreatedAt time.Time
	Coins     *ledger.Ledger
}

// StoreDirectory resolves redemption partners.
type StoreDirectory interface {
	KiranaStoreByID(id string) (models.KiranaStore, bool)
}

type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	accounts map[string]Account

	stores        StoreDirectory
	jwtSecret     string
	loginGrant    int64
	listingReward int64
}

type SessionOptions struct {
	JWTSecret          string
	LoginGrantCoins    int64
	ListingRewardCoins int64
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

func NewSessionService(stores StoreDirectory, opts SessionOptions) (*SessionService, error) {
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	s := &SessionService{
		sessions:      make(map[string]*Session),
		accounts:      make(map[string]Account, len(DefaultAccounts)),
		stores:        stores,
		jwtSecret:     opts.JWTSecret,
		loginGrant:    opts.LoginGrantCoins,
		listingReward: opts.ListingRewardCoins,
	}
	for _, a := range DefaultAccounts {
		hash, err := security.HashPassword(a.Password, cost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %s: %w", a.Email, err)
		}
		s.accounts[a.Email] = Account{Email: a.Email, UserID: a.UserID, Role: a.Role, passwordHash: hash}
	}
	return s, nil
}

// Login checks credentials, opens a session with a fresh coin grant and
// returns it together with a signed token.
func (s *SessionService) Login(email, password string) (*Session, string, error) {
	account, ok := s.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok || !security.VerifyPassword(account.passwordHash, password) {
		return nil, "", errors.New(errors.ErrCodeUnauthorized, "invalid email or password")
	}

	id, err := security.GenerateRandomToken(18)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeInternalError, "failed to create session")
	}

	coins := ledger.New()
	coins.Grant(s.loginGrant)
	session := &Session{
		ID:        id,
		UserID:    account.UserID,
		Role:      account.Role,
		CreatedAt: time.Now().UTC(),
		Coins:     coins,
	}

	token, err := security.GenerateJWT(session.UserID, session.Role, session.ID, s.jwtSecret)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeInternalError, "failed to sign token")
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	logger.Info("User logged in", "user_id", session.UserID, "role", session.Role)
	return session, token, nil
}

// Logout zeroes the session's coins and forgets it.
func (s *SessionService) Logout(sessionID string) error {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !ok {
		return errors.New(errors.ErrCodeNotFound, "session not found")
	}
	session.Coins.Reset()

	logger.Info("User logged out", "user_id", session.UserID)
	return nil
}

func (s *SessionService) Session(sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "session not found")
	}
	return session, nil
}

// Authenticate validates a bearer token and resolves its live session.
func (s *SessionService) Authenticate(token string) (*Session, error) {
	claims, err := security.ValidateJWT(token, s.jwtSecret)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUnauthorized, "invalid token")
	}
	session, err := s.Session(claims.SessionID)
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnauthorized, "session expired")
	}
	return session, nil
}

// Redeem spends coins at a kirana store.
func (s *SessionService) Redeem(sessionID, storeID string, amount int64) (int64, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return 0, err
	}
	store, ok := s.stores.KiranaStoreByID(storeID)
	if !ok {
		return 0, errors.New(errors.ErrCodeNotFound, fmt.Sprintf("kirana store %q not found", storeID))
	}

	balance, err := session.Coins.Redeem(amount, fmt.Sprintf("redeemed at %s", store.Name))
	if err != nil {
		logger.Warn("Redemption rejected", "user_id", session.UserID, "store_id", storeID, "amount", amount, "error", err)
		return balance, err
	}

	logger.Info("Coins redeemed", "user_id", session.UserID, "store_id", storeID, "amount", amount, "balance", balance)
	return balance, nil
}

// RewardListing credits the listing reward for a submitted space.
func (s *SessionService) RewardListing(sessionID, listingName string) (int64, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(listingName) == "" {
		return 0, errors.New(errors.ErrCodeValidation, "listing name is required")
	}
	return session.Coins.Credit(s.listingReward, ledger.TxTypeListingReward, "listed "+listingName)
}
