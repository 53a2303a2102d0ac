package commands

import (
	"fmt"
	"sync"

	"github.com/jakechorley/relief-camps/pkg/utils"
)

const sessionDir = "sessions"

type savedSession struct {
	Token string `json:"token"`
}

// SessionKeeper holds the signed-in session token. When persist is set the token
// is also kept in ~/.relief-camps/sessions so it survives between invocations.
type SessionKeeper struct {
	mu      sync.Mutex
	env     string
	persist bool
	loaded  bool
	token   string
}

// NewSessionKeeper creates a keeper for env
func NewSessionKeeper(env string, persist bool) *SessionKeeper {
	return &SessionKeeper{env: env, persist: persist}
}

func (s *SessionKeeper) fileName() string {
	return fmt.Sprintf("session-%s.json", s.env)
}

// Token returns the current token, or "" when nobody is signed in
func (s *SessionKeeper) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persist && !s.loaded {
		var saved savedSession
		if _, err := utils.LoadStateFile(sessionDir, s.fileName(), &saved); err != nil {
			return "", fmt.Errorf("failed to load session: %w", err)
		}
		s.token = saved.Token
		s.loaded = true
	}
	return s.token, nil
}

// Set records a new session token
func (s *SessionKeeper) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.loaded = true
	if !s.persist {
		return nil
	}
	if err := utils.SaveStateFile(sessionDir, s.fileName(), savedSession{Token: token}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear forgets the session token
func (s *SessionKeeper) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.loaded = true
	if !s.persist {
		return nil
	}
	if err := utils.DeleteStateFile(sessionDir, s.fileName()); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
