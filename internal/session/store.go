// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/morganforge/cohort-tui/internal/model"
	"github.com/morganforge/cohort-tui/internal/util"
)

// =============================================================================
// DURABLE STORAGE KEYS
// =============================================================================

// The three session keys are persisted as individual files so another
// cohort process can observe each change independently. The names match
// the platform's browser client, which keeps the two clients' storage
// semantics aligned.
const (
	KeyToken = "token"
	KeyRole  = "userId"
	KeyName  = "name"
)

// Session is an immutable snapshot of the current authentication state.
type Session struct {
	Token       string
	Role        model.Role
	DisplayName string
}

// Authenticated reports whether a token is present. Token presence is
// the authentication predicate used throughout the client.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// =============================================================================
// SESSION STORE
// =============================================================================

// Store is the single source of truth for authentication state. All
// mutation goes through its setters; nothing else touches the session
// directory. The mutex guards against the watcher and monitor
// goroutines racing the UI loop.
type Store struct {
	mu  sync.Mutex
	dir string

	token string
	role  model.Role
	name  string

	// onToken receives the new token on set and "" on clear; the API
	// client hangs its bearer header off this hook.
	onToken func(token string)

	// onChange fires after any state transition so the UI can re-derive
	// its route tree.
	onChange func()
}

// NewStore creates a session store rooted at dir and hydrates it from
// the persisted keys. All three keys are read before the store is
// returned; a missing or corrupt key hydrates as absent, never as an
// error. Role and display name are ignored when no token is present.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	s := &Store{dir: dir}

	token, _ := util.ReadFileString(filepath.Join(dir, KeyToken))
	role, _ := util.ReadFileString(filepath.Join(dir, KeyRole))
	name, _ := util.ReadFileString(filepath.Join(dir, KeyName))

	s.token = token
	if token != "" {
		s.role = model.Role(role)
		s.name = name
	}
	return s, nil
}

// Dir returns the session storage directory.
func (s *Store) Dir() string {
	return s.dir
}

// OnTokenChange registers the hook invoked with the token on every set
// and with "" on every clear. It is called once at registration with
// the current token so a late-constructed API client picks up a
// hydrated session.
func (s *Store) OnTokenChange(fn func(token string)) {
	s.mu.Lock()
	s.onToken = fn
	token := s.token
	s.mu.Unlock()
	if fn != nil {
		fn(token)
	}
}

// OnChange registers a notification hook fired after every state
// transition, including those initiated by other processes.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Current returns a snapshot of the session.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Session{Token: s.token, Role: s.role, DisplayName: s.name}
}

// =============================================================================
// MUTATION
// =============================================================================

// Establish sets token, role, and display name as a single state
// transition. This is what login and signup use; an observer never
// sees a token without its role. On disk the role and name land before
// the token so a watcher waking on the token file finds a complete
// session.
func (s *Store) Establish(token string, role model.Role, name string) error {
	if token == "" {
		return s.Clear()
	}

	s.mu.Lock()
	if err := s.persist(KeyRole, string(role)); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.persist(KeyName, name); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.persist(KeyToken, token); err != nil {
		s.mu.Unlock()
		return err
	}
	s.token = token
	s.role = role
	s.name = name
	onToken, onChange := s.onToken, s.onChange
	s.mu.Unlock()

	if onToken != nil {
		onToken(token)
	}
	if onChange != nil {
		onChange()
	}
	return nil
}

// SetToken stores a token in memory and durable storage and feeds it to
// the bearer hook. An empty token means logout and is equivalent to
// Clear: all three fields are removed atomically.
func (s *Store) SetToken(token string) error {
	if token == "" {
		return s.Clear()
	}

	s.mu.Lock()
	if err := s.persist(KeyToken, token); err != nil {
		s.mu.Unlock()
		return err
	}
	s.token = token
	onToken, onChange := s.onToken, s.onChange
	s.mu.Unlock()

	if onToken != nil {
		onToken(token)
	}
	if onChange != nil {
		onChange()
	}
	return nil
}

// SetRole stores or clears the role. An empty role clears the key.
func (s *Store) SetRole(role model.Role) error {
	s.mu.Lock()
	var err error
	if role == "" {
		err = s.remove(KeyRole)
	} else {
		err = s.persist(KeyRole, string(role))
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.role = role
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange()
	}
	return nil
}

// SetDisplayName stores or clears the display name.
func (s *Store) SetDisplayName(name string) error {
	s.mu.Lock()
	var err error
	if name == "" {
		err = s.remove(KeyName)
	} else {
		err = s.persist(KeyName, name)
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.name = name
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange()
	}
	return nil
}

// Clear removes token, role, and display name from memory and durable
// storage as one cascade and clears the bearer hook. The token file is
// removed first: its disappearance is the logout signal other
// processes act on, and by the time they look, this process has
// already committed to logging out.
func (s *Store) Clear() error {
	s.mu.Lock()
	errToken := s.remove(KeyToken)
	errRole := s.remove(KeyRole)
	errName := s.remove(KeyName)
	s.token = ""
	s.role = ""
	s.name = ""
	onToken, onChange := s.onToken, s.onChange
	s.mu.Unlock()

	if onToken != nil {
		onToken("")
	}
	if onChange != nil {
		onChange()
	}

	// Memory is cleared regardless; report the first storage failure.
	for _, err := range []error{errToken, errRole, errName} {
		if err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// EXTERNAL RECONCILIATION
// =============================================================================

// applyExternal folds a storage change observed from another process
// into in-memory state. A removal of the token key is the cross-process
// logout signal and triggers the full-clear cascade, including removal
// of the role and name keys this process may still have on disk.
func (s *Store) applyExternal(key, value string, present bool) {
	if key == KeyToken && !present {
		// Logout in another process logs this one out too.
		s.mu.Lock()
		s.remove(KeyRole)
		s.remove(KeyName)
		s.token = ""
		s.role = ""
		s.name = ""
		onToken, onChange := s.onToken, s.onChange
		s.mu.Unlock()

		if onToken != nil {
			onToken("")
		}
		if onChange != nil {
			onChange()
		}
		return
	}

	s.mu.Lock()
	switch key {
	case KeyToken:
		s.token = value
	case KeyRole:
		if present {
			s.role = model.Role(value)
		} else {
			s.role = ""
		}
	case KeyName:
		s.name = value
	default:
		s.mu.Unlock()
		return
	}
	var onToken func(string)
	if key == KeyToken {
		onToken = s.onToken
	}
	onChange := s.onChange
	s.mu.Unlock()

	if onToken != nil {
		onToken(value)
	}
	if onChange != nil {
		onChange()
	}
}

// =============================================================================
// STORAGE PRIMITIVES
// =============================================================================

// persist writes one key atomically. Callers hold s.mu.
func (s *Store) persist(key, value string) error {
	return util.AtomicWriteFile(filepath.Join(s.dir, key), []byte(value), 0600)
}

// remove deletes one key; a key that is already absent is not an error.
// Callers hold s.mu.
func (s *Store) remove(key string) error {
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
