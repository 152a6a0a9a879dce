package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func newTestClient(t *testing.T, baseURL, token string, timeout time.Duration) *Client {
	t.Helper()
	return NewClient(baseURL, timeout, staticTokens(token), zap.NewNop())
}

func TestDoAttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "tok-123", time.Second)
	if err := c.do(context.Background(), http.MethodGet, "/anything", nil, nil); err != nil {
		t.Fatalf("do() error = %v", err)
	}

	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("expected an X-Request-ID header")
	}
}

func TestDoOmitsBearerWhenLoggedOut(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "", time.Second)
	if err := c.do(context.Background(), http.MethodGet, "/", nil, nil); err != nil {
		t.Fatalf("do() error = %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestDoTimeoutYieldsOfflineError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(t, srv.URL, "", 50*time.Millisecond)

	done := make(chan error, 1)
	go func() {
		done <- c.do(context.Background(), http.MethodGet, "/slow", nil, nil)
	}()

	select {
	case err := <-done:
		apiErr, ok := AsAPIError(err)
		if !ok {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.Kind != KindTransport || !apiErr.Offline {
			t.Errorf("timeout error = %+v, want transport offline", apiErr)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("do() hung past its timeout window")
	}
}

func TestDoUnauthorizedFiresHookOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var fired atomic.Int32
	c := newTestClient(t, srv.URL, "stale", time.Second)
	c.SetUnauthorizedHook(func() { fired.Add(1) })

	err := c.do(context.Background(), http.MethodGet, "/me", nil, nil)
	apiErr, ok := AsAPIError(err)
	if !ok || apiErr.Kind != KindUnauthorized {
		t.Fatalf("expected unauthorized APIError, got %v", err)
	}
	if got := fired.Load(); got != 1 {
		t.Errorf("unauthorized hook fired %d times, want exactly 1", got)
	}
}

func TestDoNonSuccessIsOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"database exploded"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "", time.Second)
	err := c.do(context.Background(), http.MethodGet, "/x", nil, nil)

	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Kind != KindTransport || !apiErr.Offline {
		t.Errorf("5xx error = %+v, want transport offline", apiErr)
	}
	if apiErr.Message != "database exploded" {
		t.Errorf("message = %q, want server-provided message", apiErr.Message)
	}
}

func TestDoApplicationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"slot already booked"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "", time.Second)
	err := c.do(context.Background(), http.MethodPost, "/bookings", map[string]string{"x": "y"}, nil)

	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Kind != KindApplication || apiErr.Offline {
		t.Errorf("application error = %+v, want non-offline application kind", apiErr)
	}
	if apiErr.Message != "slot already booked" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestDoDecodesSuccessPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"t","user":{"name":"Asha","role":"user"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "", time.Second)
	resp, err := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("Login error = %v", err)
	}
	if resp.Token != "t" || resp.User.Name != "Asha" {
		t.Errorf("decoded response = %+v", resp)
	}
}
