package session

import (
	"sync"
	"testing"
	"time"

	"krishi-voice-be/internal/repository/memory"
	"krishi-voice-be/pkg/store"
)

func newTestManager() *Manager {
	return NewManager(memory.NewSessionRepository(time.Minute))
}

func TestGetOrCreateIdempotent(t *testing.T) {
	m := newTestManager()

	first, created := m.GetOrCreate("call-1")
	if !created {
		t.Fatal("first GetOrCreate must report creation")
	}
	second, created := m.GetOrCreate("call-1")
	if created {
		t.Fatal("second GetOrCreate must not create")
	}
	if first != second {
		t.Fatal("expected the same session instance for one call id")
	}
}

func TestGetOrCreateConcurrent(t *testing.T) {
	m := newTestManager()

	const n = 50
	sessions := make([]*store.Session, n)
	var createdCount int
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			s, created := m.GetOrCreate("call-1")
			mu.Lock()
			sessions[i] = s
			if created {
				createdCount++
			}
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	if createdCount != 1 {
		t.Errorf("createdCount = %d, want exactly 1", createdCount)
	}
	for i := 1; i < n; i++ {
		if sessions[i] != sessions[0] {
			t.Fatal("concurrent GetOrCreate returned distinct sessions")
		}
	}
}

func TestAppendTurnOrder(t *testing.T) {
	m := newTestManager()
	m.GetOrCreate("call-1")

	for seq := int64(1); seq <= 5; seq++ {
		if err := m.AppendTurn("call-1", store.Turn{Sequence: seq}); err != nil {
			t.Fatalf("AppendTurn(%d): %v", seq, err)
		}
	}

	sess, found := m.Get("call-1")
	if !found {
		t.Fatal("session vanished")
	}
	if len(sess.Turns) != 5 {
		t.Fatalf("got %d turns, want 5", len(sess.Turns))
	}
	for i, turn := range sess.Turns {
		if turn.Sequence != int64(i+1) {
			t.Errorf("turn %d has sequence %d, want acceptance order", i, turn.Sequence)
		}
	}
}

func TestAppendTurnAfterEnd(t *testing.T) {
	m := newTestManager()
	m.GetOrCreate("call-1")

	if _, found := m.End("call-1"); !found {
		t.Fatal("End should find the live session")
	}
	if err := m.AppendTurn("call-1", store.Turn{Sequence: 1}); err == nil {
		t.Fatal("AppendTurn after End must fail")
	}
}

func TestAppendTurnUnknownCall(t *testing.T) {
	m := newTestManager()
	if err := m.AppendTurn("ghost", store.Turn{Sequence: 1}); err != ErrSessionNotFound {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestEndReturnsFinalState(t *testing.T) {
	m := newTestManager()
	m.GetOrCreate("call-1")
	if err := m.AppendTurn("call-1", store.Turn{Sequence: 1, Answer: "done"}); err != nil {
		t.Fatal(err)
	}

	final, found := m.End("call-1")
	if !found {
		t.Fatal("End should return the session")
	}
	if !final.Ended || len(final.Turns) != 1 {
		t.Errorf("final state = ended:%v turns:%d, want ended with 1 turn", final.Ended, len(final.Turns))
	}
	if _, found := m.Get("call-1"); found {
		t.Error("session should be gone after End")
	}

	// Double hangup is a no-op.
	if _, found := m.End("call-1"); found {
		t.Error("second End should find nothing")
	}
}

func TestAcquireSerializesPerCall(t *testing.T) {
	m := newTestManager()

	var order []int
	var mu sync.Mutex
	var wg sync.WaitGroup

	unlock := m.Acquire("call-1")
	wg.Add(1)
	go func() {
		defer wg.Done()
		u := m.Acquire("call-1")
		defer u()
		mu.Lock()
		order = append(order, 2)
		mu.Unlock()
	}()

	mu.Lock()
	order = append(order, 1)
	mu.Unlock()
	unlock()
	wg.Wait()

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("order = %v, want [1 2]", order)
	}
}

func TestEvictionWaitsForInFlightTurn(t *testing.T) {
	// 100ms inactivity timeout; the repository sweep floor is one second, so
	// the janitor evicts the silent session on its first pass.
	m := NewManager(memory.NewSessionRepository(100 * time.Millisecond))

	evicted := make(chan string, 1)
	m.OnEvicted(func(callID string, sess *store.Session) {
		evicted <- callID
	})

	unlock := m.Acquire("call-1")
	m.GetOrCreate("call-1")

	// Hold the call lock across the eviction sweep, like a turn that is still
	// running when the session times out.
	time.Sleep(1300 * time.Millisecond)
	select {
	case <-evicted:
		t.Fatal("eviction callback ran while the turn still held the call lock")
	default:
	}

	unlock()
	select {
	case callID := <-evicted:
		if callID != "call-1" {
			t.Errorf("evicted callID = %q", callID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("eviction callback never ran after the lock was released")
	}
}

func TestAcquireSurvivesEviction(t *testing.T) {
	m := newTestManager()
	m.GetOrCreate("call-1")

	unlock := m.Acquire("call-1")

	acquired := make(chan struct{})
	go func() {
		u := m.Acquire("call-1")
		close(acquired)
		u()
	}()

	// Evicting the session must not free the held lock: the waiter stays
	// queued behind the holder instead of minting a fresh mutex.
	m.End("call-1")
	select {
	case <-acquired:
		t.Fatal("second Acquire proceeded while the first was still held")
	case <-time.After(100 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second Acquire never proceeded after release")
	}
}

func TestActiveListsLiveSessions(t *testing.T) {
	m := newTestManager()
	m.GetOrCreate("call-1")
	m.GetOrCreate("call-2")
	m.End("call-1")

	active := m.Active()
	if len(active) != 1 || active[0].CallID != "call-2" {
		t.Errorf("Active() = %+v, want only call-2", active)
	}
}
