// Package intake validates and reassembles chunked audio uploads.
// All operations are pure: they take a Store value and return a new one,
// so concurrent sessions never share mutable state.
package intake

import (
	"errors"
	"fmt"
	"sort"

	"voice-task-service/internal/models"
)

// Errors returned by assembly.
var (
	ErrUnknownUpload = errors.New("unknown upload session")
	ErrNoChunks      = errors.New("upload session has no chunks")
	ErrUploadClosed  = errors.New("upload session is in a terminal state")
)

// Store indexes upload sessions by upload ID. The zero value is not usable;
// create one with NewStore. Store values are immutable: every transition
// returns a fresh value and leaves the input untouched.
type Store struct {
	sessions map[string]models.UploadSession
}

// NewStore creates an empty upload store.
func NewStore() Store {
	return Store{sessions: map[string]models.UploadSession{}}
}

func (s Store) clone() Store {
	next := Store{sessions: make(map[string]models.UploadSession, len(s.sessions))}
	for id, sess := range s.sessions {
		next.sessions[id] = sess
	}
	return next
}

// Get returns the session for the given upload ID, or nil if unknown.
func (s Store) Get(uploadID string) *models.UploadSession {
	sess, ok := s.sessions[uploadID]
	if !ok {
		return nil
	}
	return &sess
}

// Len returns the number of tracked sessions.
func (s Store) Len() int {
	return len(s.sessions)
}

// InitializeUpload creates a new pending session. If the ID already exists
// the store is returned unchanged; callers must pre-generate unique IDs.
func InitializeUpload(s Store, uploadID, mediaType string) Store {
	if _, exists := s.sessions[uploadID]; exists {
		return s
	}
	next := s.clone()
	next.sessions[uploadID] = models.UploadSession{
		UploadID:  uploadID,
		MediaType: mediaType,
		Status:    models.UploadPending,
	}
	return next
}

// AddChunk appends a chunk to an existing session. Unknown IDs and sessions
// in a terminal state are benign no-ops: the store is returned unchanged.
func AddChunk(s Store, uploadID string, data []byte, sequenceIndex int) Store {
	sess, ok := s.sessions[uploadID]
	if !ok || sess.Status.IsTerminal() {
		return s
	}
	next := s.clone()
	chunks := make([]models.AudioChunk, len(sess.Chunks), len(sess.Chunks)+1)
	copy(chunks, sess.Chunks)
	sess.Chunks = append(chunks, models.AudioChunk{SequenceIndex: sequenceIndex, Data: data})
	next.sessions[uploadID] = sess
	return next
}

// AssembleChunks concatenates the session's chunks in ascending
// sequence-index order into one byte sequence and transitions the session
// to assembled. On failure the session is left as it was, still queryable.
func AssembleChunks(s Store, uploadID string) (Store, []byte, error) {
	sess, ok := s.sessions[uploadID]
	if !ok {
		return s, nil, fmt.Errorf("%w: %s", ErrUnknownUpload, uploadID)
	}
	if sess.Status.IsTerminal() && len(sess.Chunks) == 0 {
		return s, nil, fmt.Errorf("%w: %s (status=%s)", ErrUploadClosed, uploadID, sess.Status)
	}
	if len(sess.Chunks) == 0 {
		return s, nil, fmt.Errorf("%w: %s", ErrNoChunks, uploadID)
	}

	chunks := make([]models.AudioChunk, len(sess.Chunks))
	copy(chunks, sess.Chunks)
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].SequenceIndex < chunks[j].SequenceIndex
	})

	// Every acknowledged index up to the highest must be present exactly once.
	for i, c := range chunks {
		if c.SequenceIndex != i {
			return s, nil, fmt.Errorf("missing chunk at sequence index %d for upload %s", i, uploadID)
		}
	}

	total := 0
	for _, c := range chunks {
		total += len(c.Data)
	}
	audio := make([]byte, 0, total)
	for _, c := range chunks {
		audio = append(audio, c.Data...)
	}

	next := s.clone()
	sess.Status = models.UploadAssembled
	sess.Chunks = chunks
	next.sessions[uploadID] = sess
	return next, audio, nil
}

// MarkFailed transitions a session to failed. No-op for unknown IDs and
// sessions already in a terminal state.
func MarkFailed(s Store, uploadID string) Store {
	sess, ok := s.sessions[uploadID]
	if !ok || sess.Status.IsTerminal() {
		return s
	}
	next := s.clone()
	sess.Status = models.UploadFailed
	next.sessions[uploadID] = sess
	return next
}
