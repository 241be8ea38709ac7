// Package store keeps in-memory editing sessions. A session owns one
// transcription plus the clips most recently generated from it; nothing is
// persisted, the caller re-ingests transcripts on restart.
package store

import (
	"sync"
	"time"

	"github.com/streamkit/caption-engine/internal/transcript"
)

// Session is one editing session. Version increments on every word mutation;
// clips generated under an older version are stale because their indices may
// no longer match the word array.
type Session struct {
	ID            int64
	Transcription *transcript.Transcription
	Clips         transcript.ClipList
	ClipsVersion  uint64
	Version       uint64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ClipsCurrent reports whether the stored clips were generated from the
// current word array.
func (s *Session) ClipsCurrent() bool {
	return s.Clips != nil && s.ClipsVersion == s.Version
}

// Store is a mutex-guarded session map. The transcript core itself is single
// threaded; the store serializes all access to a session.
type Store struct {
	mu       sync.RWMutex
	nextID   int64
	sessions map[int64]*Session
}

// New returns an empty store.
func New() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Create registers a new session for tr and returns it.
func (s *Store) Create(tr *transcript.Transcription) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := time.Now()
	sess := &Session{
		ID:            s.nextID,
		Transcription: tr,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.sessions[sess.ID] = sess
	return sess
}

// Get returns the session with the given id.
func (s *Store) Get(id int64) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Update runs fn on the session under the store lock and bumps its version.
// Returns false when the session does not exist.
func (s *Store) Update(id int64, fn func(*Session)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	fn(sess)
	sess.Version++
	sess.UpdatedAt = time.Now()
	return true
}

// View runs fn on the session under the store lock without bumping the
// version. Clip generation goes through View because clips are derived
// state, not an edit; fn may still write the session's clip cache.
func (s *Store) View(id int64, fn func(*Session)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	fn(sess)
	return true
}

// Delete removes the session with the given id.
func (s *Store) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
