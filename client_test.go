package smsdrop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// recordedCall captures one authenticated request seen by the fake
// provider.
type recordedCall struct {
	Method   string
	Path     string
	RawQuery string
	Body     string
	Header   http.Header
}

type callLog struct {
	mu     sync.Mutex
	logins int
	calls  []recordedCall
}

func (l *callLog) record(r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, recordedCall{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Body:     string(body),
		Header:   r.Header.Clone(),
	})
}

func (l *callLog) loginCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.logins
}

func (l *callLog) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

func (l *callLog) last(t *testing.T) recordedCall {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.calls) == 0 {
		t.Fatal("no authenticated calls were recorded")
	}
	return l.calls[len(l.calls)-1]
}

// newTestClient starts a fake provider whose login endpoints always
// succeed and whose authenticated endpoints are served by handler.
func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *callLog) {
	t.Helper()

	log := &callLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" || r.URL.Path == "/token" {
			log.mu.Lock()
			log.logins++
			log.mu.Unlock()
			fmt.Fprint(w, "USERKEY;SECRET")
			return
		}
		log.record(r)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := New("user", "pass", append([]Option{WithBaseURL(srv.URL)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client, log
}

func sendResponse(orderID string) string {
	return fmt.Sprintf(`{"result":"OK","order_id":%q,"total_sent":1}`, orderID)
}

func TestNew_RequiresCredentials(t *testing.T) {
	if _, err := New("", "pass"); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("New(\"\", pass) error = %v, want ErrMissingCredentials", err)
	}
	if _, err := New("user", ""); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("New(user, \"\") error = %v, want ErrMissingCredentials", err)
	}
}

func TestSend_WritesBackOrderID(t *testing.T) {
	client, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, sendResponse("ORD-123"))
	})

	msg := &Message{
		Body:       "hello",
		Recipients: []Destination{Recipient{Number: "+393331234567"}},
	}

	result, err := client.Send(context.Background(), msg)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if result.OrderID != "ORD-123" {
		t.Errorf("result.OrderID = %q, want ORD-123", result.OrderID)
	}
	if msg.OrderID != result.OrderID {
		t.Errorf("msg.OrderID = %q, want %q (write-back)", msg.OrderID, result.OrderID)
	}

	call := log.last(t)
	if call.Method != http.MethodPost || call.Path != "/sms" {
		t.Errorf("call = %s %s, want POST /sms", call.Method, call.Path)
	}
	if call.Header.Get("user_key") != "USERKEY" || call.Header.Get("Session_key") != "SECRET" {
		t.Error("send call is missing session credential headers")
	}
}

func TestSend_AuthenticatesLazilyOnce(t *testing.T) {
	client, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, sendResponse("ORD-1"))
	})

	if count := log.loginCount(); count != 0 {
		t.Fatalf("logins before first call = %d, want 0", count)
	}

	for i := 0; i < 2; i++ {
		msg := &Message{
			Body:       "hello",
			Recipients: []Destination{Recipient{Number: "+393331234567"}},
		}
		if _, err := client.Send(context.Background(), msg); err != nil {
			t.Fatalf("Send() #%d error = %v", i, err)
		}
	}

	if count := log.loginCount(); count != 1 {
		t.Errorf("logins = %d, want exactly 1", count)
	}
}

func TestSend_ParameterizedEndpointAndEncoding(t *testing.T) {
	client, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, sendResponse("ORD-P"))
	})

	msg := &Message{
		Body: "Hi ${name}",
		Recipients: []Destination{
			Recipient{Number: "+391234567890", Variables: map[string]string{"name": "Ann"}},
		},
	}
	if !msg.HasParameters() {
		t.Fatal("HasParameters() = false, want true")
	}

	if _, err := client.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	call := log.last(t)
	if call.Path != "/paramsms" {
		t.Errorf("path = %s, want /paramsms", call.Path)
	}

	// A single-recipient parameterized payload must still encode the
	// recipient list as a JSON object, never an array.
	wantFragment := `"recipients":{"0":{"name":"Ann","number":"+391234567890"}}`
	if !strings.Contains(call.Body, wantFragment) {
		t.Errorf("body %s does not contain %s", call.Body, wantFragment)
	}
	if strings.Contains(call.Body, `"recipients":[`) {
		t.Error("parameterized recipients degraded to a JSON array")
	}
}

func TestSendToGroups_Endpoint(t *testing.T) {
	client, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, sendResponse("ORD-G"))
	})

	msg := &Message{
		Body:       "hello",
		Recipients: []Destination{Group{Name: "customers"}},
	}

	if _, err := client.SendToGroups(context.Background(), msg); err != nil {
		t.Fatalf("SendToGroups() error = %v", err)
	}

	call := log.last(t)
	if call.Path != "/smstogroups" {
		t.Errorf("path = %s, want /smstogroups", call.Path)
	}
	if !strings.Contains(call.Body, `"recipient":["customers"]`) {
		t.Errorf("body %s does not carry the plain group identifier", call.Body)
	}
}

func TestSend_ValidationFailsBeforeAnyNetworkCall(t *testing.T) {
	client, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the provider")
	})

	tests := []struct {
		name string
		msg  *Message
		want error
	}{
		{
			name: "no recipients",
			msg:  &Message{Body: "hello"},
			want: ErrNoRecipients,
		},
		{
			name: "sender on basic tier",
			msg: &Message{
				Body:       "hello",
				Type:       TypeSI,
				Sender:     "MYALIAS",
				Recipients: []Destination{Recipient{Number: "+393331234567"}},
			},
			want: ErrCustomSenderNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Send(context.Background(), tt.msg)
			if !errors.Is(err, tt.want) {
				t.Errorf("Send() error = %v, want %v", err, tt.want)
			}
		})
	}

	if log.loginCount() != 0 || log.callCount() != 0 {
		t.Errorf("logins = %d, calls = %d; validation must precede all network traffic",
			log.loginCount(), log.callCount())
	}
}

func TestStatus_ParsesDeliveryStates(t *testing.T) {
	client, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":"OK","recipients":[
			{"destination":"+393331234567","status":"DELIVERED","delivery_date":"20260830120000"},
			{"destination":"+393337654321","status":"WAITING"}
		]}`)
	})

	states, err := client.Status(context.Background(), "ORD-123")
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}

	call := log.last(t)
	if call.Method != http.MethodGet || call.Path != "/sms/ORD-123" {
		t.Errorf("call = %s %s, want GET /sms/ORD-123", call.Method, call.Path)
	}

	if len(states) != 2 {
		t.Fatalf("states length = %d, want 2", len(states))
	}
	if !states[0].Delivered() {
		t.Error("first recipient should be delivered")
	}
	wantDate := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if !states[0].DeliveryDate.Equal(wantDate) {
		t.Errorf("DeliveryDate = %v, want %v", states[0].DeliveryDate, wantDate)
	}
	if states[1].Delivered() {
		t.Error("second recipient has no delivery date yet")
	}
}

func TestStatus_UnknownOrderYieldsEmpty(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"result":"NOT_FOUND"}`, http.StatusNotFound)
	})

	states, err := client.Status(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Status() error = %v, want nil for unknown orders", err)
	}
	if len(states) != 0 {
		t.Errorf("states length = %d, want 0", len(states))
	}
}

func TestDeleteScheduled(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"result":"OK"}`)
		})

		ok, err := client.DeleteScheduled(context.Background(), "ORD-123")
		if err != nil {
			t.Fatalf("DeleteScheduled() error = %v", err)
		}
		if !ok {
			t.Error("DeleteScheduled() = false, want true")
		}

		call := log.last(t)
		if call.Method != http.MethodDelete || call.Path != "/sms/ORD-123" {
			t.Errorf("call = %s %s, want DELETE /sms/ORD-123", call.Method, call.Path)
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"result":"NOT_FOUND"}`, http.StatusNotFound)
		})

		ok, err := client.DeleteScheduled(context.Background(), "missing")
		if err != nil {
			t.Fatalf("DeleteScheduled() error = %v, want nil for unknown orders", err)
		}
		if ok {
			t.Error("DeleteScheduled() = true, want false")
		}
	})
}

func TestHistory_QueryParameters(t *testing.T) {
	client, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":"OK","smshistory":[
			{"order_id":"ORD-1","create_time":"20260815093000","message_type":"TI",
			 "num_recipients":3,"sender":"MYALIAS","schedule_time":"20260816100000"}
		]}`)
	})

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("from only", func(t *testing.T) {
		if _, err := client.History(context.Background(), from); err != nil {
			t.Fatalf("History() error = %v", err)
		}
		call := log.last(t)
		if call.Path != "/smshistory" {
			t.Errorf("path = %s, want /smshistory", call.Path)
		}
		if call.RawQuery != "from=20260801000000" {
			t.Errorf("query = %q, want exactly from=20260801000000", call.RawQuery)
		}
	})

	t.Run("all parameters in order", func(t *testing.T) {
		to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
		entries, err := client.History(context.Background(), from, WithTo(to), WithPage(2), WithPageSize(50))
		if err != nil {
			t.Fatalf("History() error = %v", err)
		}

		call := log.last(t)
		want := "from=20260801000000&to=20260831000000&pageNumber=2&pageSize=50"
		if call.RawQuery != want {
			t.Errorf("query = %q, want %q", call.RawQuery, want)
		}

		if len(entries) != 1 {
			t.Fatalf("entries length = %d, want 1", len(entries))
		}
		entry := entries[0]
		if entry.OrderID != "ORD-1" || entry.Type != TypeTI || entry.NumRecipients != 3 || entry.Sender != "MYALIAS" {
			t.Errorf("entry = %+v", entry)
		}
		if !entry.CreateTime.Equal(time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC)) {
			t.Errorf("CreateTime = %v", entry.CreateTime)
		}
		if !entry.ScheduleTime.Equal(time.Date(2026, 8, 16, 10, 0, 0, 0, time.UTC)) {
			t.Errorf("ScheduleTime = %v", entry.ScheduleTime)
		}
	})
}

func TestHistory_ErrorsPropagate(t *testing.T) {
	// Unlike Status and DeleteScheduled, History performs no
	// catch-and-convert for provider errors.
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"result":"NOT_FOUND"}`, http.StatusNotFound)
	})

	_, err := client.History(context.Background(), time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("History() error = %v, want ErrNotFound to propagate", err)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := New("user", "wrong", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := client.Login(context.Background()); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestTokenMode(t *testing.T) {
	var tokenCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			tokenCalls++
			fmt.Fprint(w, "USERKEY;TOKEN123")
		case "/sms":
			if r.Header.Get("user_key") != "USERKEY" || r.Header.Get("Access_token") != "TOKEN123" {
				t.Error("send call is missing token credential headers")
			}
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, sendResponse("ORD-T"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	t.Cleanup(srv.Close)

	client, err := New("user", "pass", WithBaseURL(srv.URL), WithAuthMode(AuthToken))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	msg := &Message{
		Body:       "hello",
		Recipients: []Destination{Recipient{Number: "+393331234567"}},
	}
	if _, err := client.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if tokenCalls != 1 {
		t.Errorf("token logins = %d, want 1", tokenCalls)
	}
}

func TestClose_RejectsFurtherOperations(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	if err := client.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	msg := &Message{
		Body:       "hello",
		Recipients: []Destination{Recipient{Number: "+393331234567"}},
	}
	if _, err := client.Send(context.Background(), msg); !errors.Is(err, ErrClientClosed) {
		t.Errorf("Send() after Close error = %v, want ErrClientClosed", err)
	}
	if err := client.Login(context.Background()); !errors.Is(err, ErrClientClosed) {
		t.Errorf("Login() after Close error = %v, want ErrClientClosed", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {},
		WithDefaultMessageType(TypeGP), WithDefaultSender("MYALIAS"), WithEncoding("ucs2"))

	t.Run("fills empty fields", func(t *testing.T) {
		msg := &Message{Body: "hello"}
		client.applyDefaults(msg)
		if msg.Type != TypeGP || msg.Sender != "MYALIAS" || msg.Encoding != "ucs2" {
			t.Errorf("message after defaults = %+v", msg)
		}
	})

	t.Run("keeps explicit fields", func(t *testing.T) {
		msg := &Message{Body: "hello", Type: TypeTI, Sender: "OTHER", Encoding: "gsm"}
		client.applyDefaults(msg)
		if msg.Type != TypeTI || msg.Sender != "OTHER" || msg.Encoding != "gsm" {
			t.Errorf("message after defaults = %+v", msg)
		}
	})

	t.Run("no default sender on basic tier", func(t *testing.T) {
		msg := &Message{Body: "hello", Type: TypeSI}
		client.applyDefaults(msg)
		if msg.Sender != "" {
			t.Errorf("Sender = %q, want empty: SI uses the account alias", msg.Sender)
		}
	})
}

func TestNewRecipientWithVariables(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {},
		WithDefaultRegion("IT"))

	r, err := client.NewRecipientWithVariables("3331234567", map[string]string{"name": "Ann"})
	if err != nil {
		t.Fatalf("NewRecipientWithVariables() error = %v", err)
	}
	if r.Number != "+393331234567" {
		t.Errorf("Number = %q, want +393331234567", r.Number)
	}
	if !r.HasVariable("name") {
		t.Error("variables were not attached")
	}
}
