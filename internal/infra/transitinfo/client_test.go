package transitinfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const trainInfoPayload = `[
	{
		"odpt:railway": "odpt.Railway:JR-East.Yamanote",
		"odpt:trainInformationStatus": {"ja": "遅延"},
		"odpt:trainInformationText": {"ja": "車両点検の影響で遅れが出ています。"},
		"dc:date": "2026-03-10T08:05:00+09:00"
	},
	{
		"odpt:railway": "odpt.Railway:TokyoMetro.Ginza",
		"odpt:trainInformationStatus": {"ja": ""},
		"odpt:trainInformationText": {"ja": "平常どおり運転しています。"},
		"dc:date": "2026-03-10T08:05:00+09:00"
	}
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient("test-key")
	c.baseURL = server.URL
	return c, server
}

func TestDelays(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("acl:consumerKey"); got != "test-key" {
			t.Errorf("consumerKey = %q, want test-key", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(trainInfoPayload))
	})

	got, err := c.Delays(context.Background(), "")
	if err != nil {
		t.Fatalf("Delays() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Delays() returned %d entries, want 2", len(got))
	}
	if got[0].Line != "JR-East.Yamanote" {
		t.Errorf("Line = %q, want JR-East.Yamanote", got[0].Line)
	}
	if !got[0].Delayed {
		t.Error("first line should be marked delayed")
	}
	if got[1].Delayed {
		t.Error("second line should not be marked delayed")
	}
	if got[1].Status != "平常運転" {
		t.Errorf("Status = %q, want 平常運転", got[1].Status)
	}
}

func TestDelaysFilter(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(trainInfoPayload))
	})

	got, err := c.Delays(context.Background(), "Yamanote")
	if err != nil {
		t.Fatalf("Delays() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Delays() returned %d entries, want 1", len(got))
	}
	if got[0].Line != "JR-East.Yamanote" {
		t.Errorf("Line = %q, want JR-East.Yamanote", got[0].Line)
	}
}

func TestDelaysUsesCache(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(trainInfoPayload))
	})

	for range 3 {
		if _, err := c.Delays(context.Background(), ""); err != nil {
			t.Fatalf("Delays() error = %v", err)
		}
	}

	if calls != 1 {
		t.Errorf("upstream called %d times, want 1 (cached)", calls)
	}
}

func TestDelaysStaleCacheOnError(t *testing.T) {
	fail := false
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(trainInfoPayload))
	})

	if _, err := c.Delays(context.Background(), ""); err != nil {
		t.Fatalf("Delays() error = %v", err)
	}

	fail = true
	c.fetchedAt = c.fetchedAt.Add(-2 * cacheTTL)

	got, err := c.Delays(context.Background(), "")
	if err != nil {
		t.Fatalf("Delays() after upstream failure error = %v, want stale cache", err)
	}
	if len(got) != 2 {
		t.Errorf("Delays() returned %d entries from stale cache, want 2", len(got))
	}
}

func TestNormalizeLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"JR-East.Yamanote", "jreast.yamanote"},
		{"Tokyo Metro Ginza", "tokyometroginza"},
	}
	for _, tt := range tests {
		if got := normalizeLine(tt.in); got != tt.want {
			t.Errorf("normalizeLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
