package ultradns

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"telegram-dns-assistant/internal/config"
	"telegram-dns-assistant/internal/domain"
	"telegram-dns-assistant/internal/domain/model"
)

// fakeUltraDNS simulates the remote API surface the client drives:
// token auth, zone lookup, export submission and polling, health
// checks.
type fakeUltraDNS struct {
	mu sync.Mutex

	knownZones map[string]bool

	exportSubmissions int
	exportPolls       int
	exportPollsUntil  int // polls that answer PENDING before COMPLETE

	healthSubmissions int
	healthPolls       int
	healthStates      []string // answers per poll, last one repeats

	srv *httptest.Server
}

func newFakeUltraDNS(t *testing.T) *fakeUltraDNS {
	t.Helper()
	f := &fakeUltraDNS{
		knownZones:   map[string]bool{},
		healthStates: []string{"COMPLETED"},
	}
	mux := http.NewServeMux()

	mux.HandleFunc("/v2/authorization/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.FormValue("password") == "wrong" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"errorCode":60001}`)
			return
		}
		fmt.Fprint(w, `{"accessToken":"tok-123","refreshToken":"ref-456"}`)
	})

	mux.HandleFunc("/v1/zones/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/healthchecks") {
			http.NotFound(w, r)
			return
		}
		f.mu.Lock()
		f.healthSubmissions++
		f.mu.Unlock()
		fmt.Fprint(w, `{"location":"/v1/task/hc-1"}`)
	})

	mux.HandleFunc("/v3/zones/", func(w http.ResponseWriter, r *http.Request) {
		zone := strings.TrimPrefix(r.URL.Path, "/v3/zones/")
		f.mu.Lock()
		known := f.knownZones[zone]
		f.mu.Unlock()
		if known {
			fmt.Fprintf(w, `{"properties":{"name":%q}}`, zone)
			return
		}
		fmt.Fprintf(w, `[{"errorCode":1801,"errorMessage":"Zone does not exist in the system."}]`)
	})

	mux.HandleFunc("/v3/zones/export", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.exportSubmissions++
		f.mu.Unlock()
		var body struct {
			ZoneNames []string `json:"zoneNames"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		fmt.Fprint(w, `{"task_id":"task-77","other":"ignored"}`)
	})

	mux.HandleFunc("/tasks/task-77", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.exportPolls++
		n := f.exportPolls
		until := f.exportPollsUntil
		f.mu.Unlock()
		if n <= until {
			fmt.Fprint(w, `{"code":"PENDING","message":"running"}`)
			return
		}
		fmt.Fprint(w, `{"code":"COMPLETE","message":"done"}`)
	})

	mux.HandleFunc("/tasks/task-77/result", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "$ORIGIN example.com.\n@ IN SOA ns1 hostmaster 1 7200 3600 1209600 3600\n")
	})

	mux.HandleFunc("/v1/task/hc-1", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		idx := f.healthPolls
		if idx >= len(f.healthStates) {
			idx = len(f.healthStates) - 1
		}
		state := f.healthStates[idx]
		f.healthPolls++
		f.mu.Unlock()
		fmt.Fprintf(w, `{"state":%q,"resultCode":"OK"}`, state)
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeUltraDNS) client(t *testing.T) *Client {
	t.Helper()
	logger := zerolog.Nop()
	c, err := NewClient(context.Background(), &config.UltraDNSConfig{
		BaseURL:      f.srv.URL,
		Username:     "user",
		Password:     "pass",
		StatusURL:    f.srv.URL + "/status",
		PollInterval: time.Millisecond,
		PollMaxWait:  time.Second,
	}, &logger)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientAuthenticationRejected(t *testing.T) {
	f := newFakeUltraDNS(t)
	logger := zerolog.Nop()
	_, err := NewClient(context.Background(), &config.UltraDNSConfig{
		BaseURL:      f.srv.URL,
		Username:     "user",
		Password:     "wrong",
		PollInterval: time.Millisecond,
		PollMaxWait:  time.Second,
	}, &logger)
	if !errors.Is(err, domain.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
}

func TestDecodeLookupShapes(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		exists  bool
		wantErr bool
	}{
		{"object means exists", `{"properties":{}}`, true, false},
		{"error list means missing", `[{"errorMessage":"nope"}]`, false, false},
		{"list without errorMessage", `[{"weird":true}]`, false, true},
		{"scalar is protocol violation", `"what"`, false, true},
		{"empty body", ``, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := decodeLookup("/v3/zones/x", []byte(tc.body))
			if tc.wantErr {
				var pe *model.ProtocolError
				if !errors.As(err, &pe) {
					t.Fatalf("expected ProtocolError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeLookup: %v", err)
			}
			if res.exists != tc.exists {
				t.Fatalf("exists = %v, want %v", res.exists, tc.exists)
			}
		})
	}
}

func TestZoneExistsIsIdempotent(t *testing.T) {
	f := newFakeUltraDNS(t)
	f.knownZones["example.com"] = true
	c := f.client(t)

	for i := 0; i < 2; i++ {
		if err := c.ZoneExists(context.Background(), "example.com"); err != nil {
			t.Fatalf("ZoneExists call %d: %v", i+1, err)
		}
	}
	if f.exportSubmissions != 0 || f.healthSubmissions != 0 {
		t.Fatalf("existence checks must not submit work")
	}
}

func TestFetchZoneDataUnknownZoneSubmitsNothing(t *testing.T) {
	f := newFakeUltraDNS(t)
	c := f.client(t)

	_, err := c.FetchZoneData(context.Background(), "missing.example")
	if !errors.Is(err, domain.ErrZoneNotFound) {
		t.Fatalf("expected ErrZoneNotFound, got %v", err)
	}
	if f.exportSubmissions != 0 {
		t.Fatalf("no export may be submitted for an unknown zone")
	}

	_, err = c.FetchHealthCheck(context.Background(), "missing.example")
	if !errors.Is(err, domain.ErrZoneNotFound) {
		t.Fatalf("expected ErrZoneNotFound, got %v", err)
	}
	if f.healthSubmissions != 0 {
		t.Fatalf("no health check may be submitted for an unknown zone")
	}
}

func TestFetchZoneDataPollsToCompletion(t *testing.T) {
	f := newFakeUltraDNS(t)
	f.knownZones["example.com"] = true
	f.exportPollsUntil = 2
	c := f.client(t)

	data, err := c.FetchZoneData(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("FetchZoneData: %v", err)
	}
	if !strings.Contains(data, "$ORIGIN example.com.") {
		t.Fatalf("unexpected zone data: %q", data)
	}
	if f.exportPolls != 3 {
		t.Fatalf("expected 3 polls (2 pending + 1 complete), got %d", f.exportPolls)
	}
}

func TestFetchHealthCheckReturnsTerminalBody(t *testing.T) {
	f := newFakeUltraDNS(t)
	f.knownZones["example.com"] = true
	f.healthStates = []string{"IN_PROGRESS", "COMPLETED"}
	c := f.client(t)

	body, err := c.FetchHealthCheck(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("FetchHealthCheck: %v", err)
	}
	if !strings.Contains(body, `"state":"COMPLETED"`) {
		t.Fatalf("terminal response must be the payload, got %q", body)
	}
	if f.healthPolls != 2 {
		t.Fatalf("expected 2 polls, got %d", f.healthPolls)
	}
}

func TestFetchHealthCheckFailedStopsImmediately(t *testing.T) {
	f := newFakeUltraDNS(t)
	f.knownZones["example.com"] = true
	f.healthStates = []string{"FAILED"}
	c := f.client(t)

	_, err := c.FetchHealthCheck(context.Background(), "example.com")
	var rte *model.RemoteTaskError
	if !errors.As(err, &rte) {
		t.Fatalf("expected RemoteTaskError, got %v", err)
	}
	if f.healthPolls != 1 {
		t.Fatalf("FAILED must stop polling, got %d polls", f.healthPolls)
	}
}

func TestExportStateMapping(t *testing.T) {
	cases := []struct {
		raw  string
		want model.TaskState
	}{
		{`{"code":"PENDING"}`, model.TaskPending},
		{`{"code":"COMPLETE"}`, model.TaskSucceeded},
		{`{"code":"ERROR"}`, model.TaskFailed},
		{`{"code":"IN_PROCESS"}`, model.TaskPending},
	}
	for _, tc := range cases {
		got, err := exportTaskState(json.RawMessage(tc.raw))
		if err != nil {
			t.Fatalf("exportTaskState(%s): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("exportTaskState(%s) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestHealthStateMapping(t *testing.T) {
	cases := []struct {
		raw  string
		want model.TaskState
	}{
		{`{"state":"IN_PROGRESS"}`, model.TaskPending},
		{`{"state":"COMPLETED"}`, model.TaskSucceeded},
		{`{"state":"FAILED"}`, model.TaskFailed},
	}
	for _, tc := range cases {
		got, err := healthTaskState(json.RawMessage(tc.raw))
		if err != nil {
			t.Fatalf("healthTaskState(%s): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("healthTaskState(%s) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}
