// Package session holds the identity of the logged-in user. The user is
// written once at login and only read afterwards.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// UserKey is the storage key holding the JSON encoded user
const UserKey = "user"

var ErrNoUser = errors.New("no user in session")

// User types
const (
	Employee = "Employee"
	Admin    = "Admin"
)

// User is the logged-in user
type User struct {
	Type   string `json:"type"`
	Email  string `json:"email"`
	Status string `json:"status,omitempty"`
}

// Storage is a string key/value store
type Storage interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string)
	RemoveItem(key string)
}

// Login stores u as the logged-in user
func Login(s Storage, u User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshaling user: %w", err)
	}
	s.SetItem(UserKey, string(data))
	return nil
}

// Logout removes the logged-in user
func Logout(s Storage) {
	s.RemoveItem(UserKey)
}

// CurrentUser decodes the logged-in user
func CurrentUser(s Storage) (User, error) {
	var u User
	if s == nil {
		return u, ErrNoUser
	}
	raw, ok := s.GetItem(UserKey)
	if !ok {
		return u, ErrNoUser
	}
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return u, fmt.Errorf("decoding session user: %w", err)
	}
	return u, nil
}

// Memory is an in-memory Storage
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemory returns an empty Memory storage
func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

func (m *Memory) GetItem(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *Memory) SetItem(key, value string) {
	m.mu.Lock()
	m.items[key] = value
	m.mu.Unlock()
}

func (m *Memory) RemoveItem(key string) {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
}

// Clear removes every item
func (m *Memory) Clear() {
	m.mu.Lock()
	m.items = make(map[string]string)
	m.mu.Unlock()
}
