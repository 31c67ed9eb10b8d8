package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ebikepoint/erp/apiclient"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *fakeNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *fakeNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.msgs...)
}

type fixture struct {
	store    *apiclient.MemStore
	notifier *fakeNotifier
	expired  atomic.Int32
}

func newClient(t *testing.T, serverURL string, opts ...apiclient.Option) (*apiclient.Client, *fixture) {
	t.Helper()

	f := &fixture{
		store:    apiclient.NewMemStore(),
		notifier: &fakeNotifier{},
	}
	base := []apiclient.Option{
		apiclient.WithNotifier(f.notifier),
		apiclient.WithOnSessionExpired(func() { f.expired.Add(1) }),
	}
	client := apiclient.New(serverURL, f.store, append(base, opts...)...)
	return client, f
}

func TestAttachesBearerWhenTokenPresent(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client, f := newClient(t, srv.URL)
	require.NoError(t, f.store.SetSession("tok-123", "refresh-123", nil))

	require.NoError(t, client.Get(context.Background(), "/things", nil, nil))
	require.Equal(t, "Bearer tok-123", gotAuth)
}

func TestOmitsAuthorizationWhenNoToken(t *testing.T) {
	var gotHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, gotHeader = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client, _ := newClient(t, srv.URL)

	require.NoError(t, client.Get(context.Background(), "/things", nil, nil))
	require.False(t, gotHeader)
}

func TestRefreshAndSingleRetry(t *testing.T) {
	var refreshCalls, dataCalls atomic.Int32
	var retryAuth string

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/token/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		w.Write([]byte(`{"access":"new-token"}`))
	})
	mux.HandleFunc("GET /data", func(w http.ResponseWriter, r *http.Request) {
		if dataCalls.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		retryAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"value":42}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, f := newClient(t, srv.URL)
	require.NoError(t, f.store.SetSession("stale-token", "refresh-abc", nil))

	var out struct {
		Value int `json:"value"`
	}
	require.NoError(t, client.Get(context.Background(), "/data", nil, &out))

	require.Equal(t, 42, out.Value)
	require.Equal(t, int32(1), refreshCalls.Load())
	require.Equal(t, int32(2), dataCalls.Load())

	// The retried request carries the refreshed credential, and the store
	// holds the new value afterwards.
	require.Equal(t, "Bearer new-token", retryAuth)
	require.Equal(t, "new-token", f.store.AccessToken())
	require.Equal(t, "refresh-abc", f.store.RefreshToken())
}

func TestSecondUnauthorizedDoesNotLoop(t *testing.T) {
	var refreshCalls, dataCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/token/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		w.Write([]byte(`{"access":"new-token"}`))
	})
	mux.HandleFunc("GET /data", func(w http.ResponseWriter, r *http.Request) {
		dataCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, f := newClient(t, srv.URL)
	require.NoError(t, f.store.SetSession("stale-token", "refresh-abc", nil))

	err := client.Get(context.Background(), "/data", nil, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, apiclient.StatusOf(err))

	require.Equal(t, int32(1), refreshCalls.Load())
	require.Equal(t, int32(2), dataCalls.Load())

	// The terminal 401 is intentionally silent.
	require.Empty(t, f.notifier.messages())
}

func TestRefreshFailureClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/token/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"refresh token invalid"}`))
	})
	mux.HandleFunc("GET /data", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, f := newClient(t, srv.URL)
	require.NoError(t, f.store.SetSession("stale-token", "bad-refresh", []byte(`{"role":"dealer"}`)))

	err := client.Get(context.Background(), "/data", nil, nil)
	require.ErrorIs(t, err, apiclient.ErrSessionExpired)

	require.Empty(t, f.store.AccessToken())
	require.Empty(t, f.store.RefreshToken())
	require.Empty(t, f.store.Profile())
	require.Equal(t, int32(1), f.expired.Load())
	require.Equal(t, []string{"Session expired. Please login again."}, f.notifier.messages())
}

func TestMissingRefreshTokenClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, f := newClient(t, srv.URL)
	require.NoError(t, f.store.SetSession("stale-token", "", nil))

	err := client.Get(context.Background(), "/data", nil, nil)
	require.ErrorIs(t, err, apiclient.ErrSessionExpired)
	require.Equal(t, int32(1), f.expired.Load())
}

func TestErrorMessagePrecedence(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message wins over detail", `{"message":"stock too low","detail":"ignored"}`, "stock too low"},
		{"detail used when no message", `{"detail":"not found"}`, "not found"},
		{"generic fallback", `{}`, "An error occurred"},
		{"non-json body", `oops`, "An error occurred"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client, f := newClient(t, srv.URL)
			err := client.Post(context.Background(), "/things", map[string]string{"a": "b"}, nil)

			require.Error(t, err)
			require.Equal(t, []string{tc.want}, f.notifier.messages())
		})
	}
}

func TestNetworkFailureNotifies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening any more

	client, f := newClient(t, srv.URL)

	err := client.Get(context.Background(), "/data", nil, nil)
	require.ErrorIs(t, err, apiclient.ErrNetwork)
	require.Equal(t, []string{"Network error. Please check your connection."}, f.notifier.messages())
}

func TestTimeoutSurfacesAsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client, f := newClient(t, srv.URL, apiclient.WithTimeout(20*time.Millisecond))

	err := client.Get(context.Background(), "/slow", nil, nil)
	require.ErrorIs(t, err, apiclient.ErrNetwork)
	require.Equal(t, []string{"Network error. Please check your connection."}, f.notifier.messages())
}

// Concurrent 401s share one refresh call: every waiter retries with the
// single refreshed token.
func TestConcurrentUnauthorizedSharesOneRefresh(t *testing.T) {
	const workers = 5

	var refreshCalls atomic.Int32
	barrier := make(chan struct{})
	var arrived atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/token/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		time.Sleep(100 * time.Millisecond) // widen the coalescing window
		w.Write([]byte(`{"access":"new-token"}`))
	})
	mux.HandleFunc("GET /data", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer new-token" {
			w.Write([]byte(`{"ok":true}`))
			return
		}
		// Hold every first attempt until all workers are in flight, so
		// their 401 handling overlaps.
		if arrived.Add(1) == workers {
			close(barrier)
		}
		<-barrier
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, f := newClient(t, srv.URL)
	require.NoError(t, f.store.SetSession("stale-token", "refresh-abc", nil))

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = client.Get(context.Background(), "/data", nil, nil)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
	}
	require.Equal(t, int32(1), refreshCalls.Load())
	require.Equal(t, "new-token", f.store.AccessToken())
}
