package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"

	"telegram-dns-assistant/internal/domain"
	"telegram-dns-assistant/internal/domain/model"
)

// fakeAssistantsAPI simulates the thread/message/run surface the
// adapter drives: thread creation, message posting, run polling, and
// the final message listing.
type fakeAssistantsAPI struct {
	runStatus string // terminal status reported for every run
	messages  string // JSON array returned from the message listing

	threadCreates  int
	messageCreates int
	runPolls       int
}

func (f *fakeAssistantsAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/threads", func(w http.ResponseWriter, r *http.Request) {
		f.threadCreates++
		fmt.Fprint(w, `{"id":"thread_1","object":"thread","created_at":1}`)
	})

	mux.HandleFunc("/threads/thread_1/messages", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			f.messageCreates++
			fmt.Fprint(w, `{"id":"msg_user","object":"thread.message","thread_id":"thread_1","role":"user","content":[]}`)
			return
		}
		fmt.Fprintf(w, `{"object":"list","data":%s,"first_id":"","last_id":"","has_more":false}`, f.messages)
	})

	runBody := func() string {
		return fmt.Sprintf(`{"id":"run_1","object":"thread.run","thread_id":"thread_1","assistant_id":"asst_AAAAAAAAAAAA","status":%q,"created_at":1}`, f.runStatus)
	}
	mux.HandleFunc("/threads/thread_1/runs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("openai-poll-after-ms", "5")
		fmt.Fprint(w, runBody())
	})
	mux.HandleFunc("/threads/thread_1/runs/run_1", func(w http.ResponseWriter, r *http.Request) {
		f.runPolls++
		w.Header().Set("openai-poll-after-ms", "5")
		fmt.Fprint(w, runBody())
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		mux.ServeHTTP(w, r)
	})
}

func newTestAdapter(t *testing.T, api *fakeAssistantsAPI) *OpenAIAssistantAdapter {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	logger := zerolog.Nop()
	adapter, err := NewOpenAIAssistantAdapter("sk-test", &logger, option.WithBaseURL(srv.URL+"/"))
	if err != nil {
		t.Fatalf("NewOpenAIAssistantAdapter: %v", err)
	}
	return adapter
}

const textMsg = `{"id":%q,"object":"thread.message","thread_id":"thread_1","role":%q,"content":[{"type":"text","text":{"value":%q,"annotations":[]}}]}`

func TestRunReturnsAssistantText(t *testing.T) {
	api := &fakeAssistantsAPI{
		runStatus: "completed",
		messages: "[" + strings.Join([]string{
			fmt.Sprintf(textMsg, "msg_1", "user", "say hello"),
			fmt.Sprintf(textMsg, "msg_2", "assistant", "Hello"),
		}, ",") + "]",
	}
	adapter := newTestAdapter(t, api)

	got, err := adapter.Run(context.Background(), "asst_AAAAAAAAAAAA", "say hello")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "Hello" {
		t.Fatalf("Run = %q, want %q", got, "Hello")
	}
	if api.threadCreates != 1 || api.messageCreates != 1 {
		t.Fatalf("expected one thread and one message, got %d/%d", api.threadCreates, api.messageCreates)
	}
}

func TestRunConcatenatesTextAndSkipsOtherSegments(t *testing.T) {
	api := &fakeAssistantsAPI{
		runStatus: "completed",
		messages: "[" + strings.Join([]string{
			fmt.Sprintf(textMsg, "msg_1", "assistant", "first part. "),
			`{"id":"msg_2","object":"thread.message","thread_id":"thread_1","role":"assistant","content":[` +
				`{"type":"image_file","image_file":{"file_id":"file_1"}},` +
				`{"type":"text","text":{"value":"second part.","annotations":[]}}]}`,
		}, ",") + "]",
	}
	adapter := newTestAdapter(t, api)

	got, err := adapter.Run(context.Background(), "asst_AAAAAAAAAAAA", "in")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "first part. second part." {
		t.Fatalf("Run = %q", got)
	}
}

func TestRunEmptyAssistantResponse(t *testing.T) {
	// only the user's own message comes back
	api := &fakeAssistantsAPI{
		runStatus: "completed",
		messages:  "[" + fmt.Sprintf(textMsg, "msg_1", "user", "say hello") + "]",
	}
	adapter := newTestAdapter(t, api)

	_, err := adapter.Run(context.Background(), "asst_AAAAAAAAAAAA", "say hello")
	if !errors.Is(err, domain.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestRunFailedRun(t *testing.T) {
	api := &fakeAssistantsAPI{runStatus: "failed", messages: "[]"}
	adapter := newTestAdapter(t, api)

	_, err := adapter.Run(context.Background(), "asst_AAAAAAAAAAAA", "in")
	var re *model.RunError
	if !errors.As(err, &re) {
		t.Fatalf("expected RunError, got %v", err)
	}
	if re.Status != model.RunFailed {
		t.Fatalf("RunError status = %s, want failed", re.Status)
	}
}

func TestRunThreadCreationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"nope"}}`, http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	logger := zerolog.Nop()
	adapter, err := NewOpenAIAssistantAdapter("sk-test", &logger,
		option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("NewOpenAIAssistantAdapter: %v", err)
	}

	_, err = adapter.Run(context.Background(), "asst_AAAAAAAAAAAA", "in")
	var se *model.SessionError
	if !errors.As(err, &se) {
		t.Fatalf("expected SessionError, got %v", err)
	}
	if se.Op != "create thread" {
		t.Fatalf("SessionError op = %q", se.Op)
	}
}

func TestCountTokensNonZero(t *testing.T) {
	api := &fakeAssistantsAPI{runStatus: "completed", messages: "[]"}
	adapter := newTestAdapter(t, api)

	if n := adapter.CountTokens("Analyze the following DNS zone file."); n == 0 {
		t.Fatal("expected a non-zero token count")
	}
}
