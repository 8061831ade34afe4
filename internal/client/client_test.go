package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AlumniConnect/AC-Backend/internal/client"
)

// fakePortal is an in-memory stand-in for the server side of the refresh
// contract: login issues a cookie pair, /auth/me honors the current access
// cookie, and /auth/refresh mints a new access cookie from the refresh cookie.
type fakePortal struct {
	mu           sync.Mutex
	validAccess  string
	refreshToken string
	refreshCalls int32
	refreshDelay time.Duration
}

func newFakePortal() *fakePortal {
	return &fakePortal{refreshToken: "refresh-ok", refreshDelay: 100 * time.Millisecond}
}

// invalidateAccess simulates access-token expiry: the cookie the client
// holds stops being accepted.
func (p *fakePortal) invalidateAccess() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.validAccess = "rotated-away"
}

// revokeRefresh simulates refresh-token expiry.
func (p *fakePortal) revokeRefresh() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refreshToken = "no-longer-valid"
}

func (p *fakePortal) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.validAccess = "access-0"
		p.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "access-token", Value: "access-0", Path: "/"})
		http.SetCookie(w, &http.Cookie{Name: "refresh-token", Value: p.refreshToken, Path: "/"})
		json.NewEncoder(w).Encode(map[string]string{"role": "alumni"})
	})

	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("refresh-token")
		p.mu.Lock()
		expected := p.refreshToken
		p.mu.Unlock()
		if err != nil || cookie.Value != expected {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		n := atomic.AddInt32(&p.refreshCalls, 1)
		// Hold the refresh open long enough that concurrent 401s overlap it.
		time.Sleep(p.refreshDelay)

		access := fmt.Sprintf("access-%d", n)
		p.mu.Lock()
		p.validAccess = access
		p.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "access-token", Value: access, Path: "/"})
		fmt.Fprintln(w, "Token refreshed")
	})

	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("access-token")
		p.mu.Lock()
		valid := p.validAccess
		p.mu.Unlock()
		if err != nil || cookie.Value != valid {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"account_id": "acct-1",
			"username":   "jdoe",
			"role":       "alumni",
		})
	})

	return mux
}

func loginTestClient(t *testing.T, srv *httptest.Server) *client.Client {
	t.Helper()
	c, err := client.New(srv.URL)
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}
	if _, err := c.Login(context.Background(), "jdoe", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	return c
}

// TestRefreshThenRetry verifies the basic policy: a call that hits 401 is
// transparently refreshed and retried, and the caller sees only success.
func TestRefreshThenRetry(t *testing.T) {
	portal := newFakePortal()
	portal.refreshDelay = 0
	srv := httptest.NewServer(portal.handler())
	defer srv.Close()

	c := loginTestClient(t, srv)
	portal.invalidateAccess()

	identity, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("Me after access expiry: %v", err)
	}
	if identity.AccountID != "acct-1" || identity.Role != "alumni" {
		t.Errorf("unexpected identity: %+v", identity)
	}
	if calls := atomic.LoadInt32(&portal.refreshCalls); calls != 1 {
		t.Errorf("expected 1 refresh call, got %d", calls)
	}
}

// TestConcurrentCallsSingleFlightRefresh pins the chosen concurrency
// behavior: five simultaneous calls with an expired access token coalesce
// into exactly one refresh, and all five retries succeed.
func TestConcurrentCallsSingleFlightRefresh(t *testing.T) {
	portal := newFakePortal()
	srv := httptest.NewServer(portal.handler())
	defer srv.Close()

	c := loginTestClient(t, srv)
	portal.invalidateAccess()

	const callers = 5
	var wg sync.WaitGroup
	errs := make([]error, callers)
	start := make(chan struct{})

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = c.Me(context.Background())
		}(i)
	}
	close(start)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d: %v", i, err)
		}
	}
	if calls := atomic.LoadInt32(&portal.refreshCalls); calls != 1 {
		t.Errorf("expected exactly 1 refresh call, got %d", calls)
	}
}

// TestWinnerCancellationDoesNotPoisonWaiters verifies that cancelling the
// caller whose context drives the coalesced refresh does not fail the other
// waiters: the refresh completes detached and the second caller succeeds.
func TestWinnerCancellationDoesNotPoisonWaiters(t *testing.T) {
	portal := newFakePortal()
	srv := httptest.NewServer(portal.handler())
	defer srv.Close()

	c := loginTestClient(t, srv)
	portal.invalidateAccess()

	winnerCtx, cancel := context.WithCancel(context.Background())
	winnerDone := make(chan struct{})
	go func() {
		defer close(winnerDone)
		c.Me(winnerCtx)
	}()

	// Let the winner enter the refresh flight, then cancel it mid-refresh
	// and send a second caller in to join the same flight.
	time.Sleep(20 * time.Millisecond)
	waiterDone := make(chan error, 1)
	go func() {
		_, err := c.Me(context.Background())
		waiterDone <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	if err := <-waiterDone; err != nil {
		t.Errorf("waiter should survive the winner's cancellation, got %v", err)
	}
	<-winnerDone

	if calls := atomic.LoadInt32(&portal.refreshCalls); calls != 1 {
		t.Errorf("expected exactly 1 refresh call, got %d", calls)
	}
}

// TestRefreshFailureForcesRelogin verifies that when the refresh itself is
// rejected, the caller gets ErrSessionExpired rather than a silent failure
// or a second retry.
func TestRefreshFailureForcesRelogin(t *testing.T) {
	portal := newFakePortal()
	portal.refreshDelay = 0
	srv := httptest.NewServer(portal.handler())
	defer srv.Close()

	c := loginTestClient(t, srv)
	portal.invalidateAccess()
	portal.revokeRefresh()

	if _, err := c.Me(context.Background()); !errors.Is(err, client.ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
	if calls := atomic.LoadInt32(&portal.refreshCalls); calls != 0 {
		t.Errorf("expected 0 successful refresh calls, got %d", calls)
	}
}
