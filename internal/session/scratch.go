package session

import (
	"context"
	"log"
	"sync"
	"time"

	"samplemeta/domain/core"
	"samplemeta/domain/experiment"
	"samplemeta/domain/subject"
)

// Preview is an import result waiting for the user to confirm it.
type Preview struct {
	Token        core.PreviewToken
	ExperimentID core.ExperimentID
	Result       *experiment.ImportResult
	CreatedAt    time.Time
}

// scratch is the state of one session. mu serialises roster commits of the
// session; the store lock only guards the session map.
type scratch struct {
	mu       sync.Mutex
	touched  time.Time
	previews map[core.PreviewToken]Preview
	pending  map[core.ExperimentID]subject.Pending
}

// ScratchStore keeps per-session transient state: import previews and the
// roster records not yet committed. Sessions idle for longer than the TTL
// are dropped.
type ScratchStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[core.SessionID]*scratch
}

// NewScratchStore creates an empty store.
func NewScratchStore(ttl time.Duration) *ScratchStore {
	return &ScratchStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[core.SessionID]*scratch),
	}
}

// session returns the live scratch of id, creating it when create is set.
func (s *ScratchStore) session(id core.SessionID, create bool) *scratch {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sc, ok := s.sessions[id]
	if ok && now.Sub(sc.touched) > s.ttl {
		delete(s.sessions, id)
		ok = false
	}
	if !ok {
		if !create {
			return nil
		}
		sc = &scratch{
			previews: make(map[core.PreviewToken]Preview),
			pending:  make(map[core.ExperimentID]subject.Pending),
		}
		s.sessions[id] = sc
	}
	sc.touched = now
	return sc
}

// PutPreview stores a successful import result and returns its token.
func (s *ScratchStore) PutPreview(id core.SessionID, experimentID core.ExperimentID, result *experiment.ImportResult) core.PreviewToken {
	sc := s.session(id, true)
	token := core.PreviewToken(core.NewID())

	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.previews[token] = Preview{
		Token:        token,
		ExperimentID: experimentID,
		Result:       result,
		CreatedAt:    s.now(),
	}
	return token
}

// GetPreview returns a stored preview without consuming it.
func (s *ScratchStore) GetPreview(id core.SessionID, token core.PreviewToken) (Preview, error) {
	sc := s.session(id, false)
	if sc == nil {
		return Preview{}, core.ErrPreviewNotFound
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	p, ok := sc.previews[token]
	if !ok {
		return Preview{}, core.ErrPreviewNotFound
	}
	return p, nil
}

// TakePreview removes a preview and hands it to fn. If fn fails the preview
// is kept so the user can retry.
func (s *ScratchStore) TakePreview(id core.SessionID, token core.PreviewToken, fn func(Preview) error) error {
	sc := s.session(id, false)
	if sc == nil {
		return core.ErrPreviewNotFound
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	p, ok := sc.previews[token]
	if !ok {
		return core.ErrPreviewNotFound
	}
	if err := fn(p); err != nil {
		return err
	}
	delete(sc.previews, token)
	return nil
}

// SetPending replaces the uncommitted roster records of an experiment.
func (s *ScratchStore) SetPending(id core.SessionID, experimentID core.ExperimentID, pending subject.Pending) {
	sc := s.session(id, true)
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.pending[experimentID] = pending
}

// Pending returns the uncommitted roster records of an experiment.
func (s *ScratchStore) Pending(id core.SessionID, experimentID core.ExperimentID) (subject.Pending, bool) {
	sc := s.session(id, false)
	if sc == nil {
		return subject.Pending{}, false
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	p, ok := sc.pending[experimentID]
	return p, ok
}

// UpdatePending runs fn on the current records while holding the session
// lock and stores what it returns. On error nothing changes.
func (s *ScratchStore) UpdatePending(id core.SessionID, experimentID core.ExperimentID, fn func(subject.Pending) (subject.Pending, error)) error {
	sc := s.session(id, false)
	if sc == nil {
		return core.ErrStaleSelection
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	current, ok := sc.pending[experimentID]
	if !ok {
		return core.ErrStaleSelection
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	if next.Len() == 0 {
		delete(sc.pending, experimentID)
	} else {
		sc.pending[experimentID] = next
	}
	return nil
}

// Len is the number of live sessions.
func (s *ScratchStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// CleanupExpired drops sessions idle for longer than the TTL.
func (s *ScratchStore) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, sc := range s.sessions {
		if now.Sub(sc.touched) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor runs CleanupExpired every interval until ctx is done.
func (s *ScratchStore) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.CleanupExpired(); n > 0 {
					log.Printf("[ScratchStore] dropped %d expired sessions", n)
				}
			}
		}
	}()
}
