package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/ashconsole/internal/domain/errors"
	"github.com/polkiloo/ashconsole/internal/domain/model"
	"github.com/polkiloo/ashconsole/internal/domain/repository"
	"github.com/polkiloo/ashconsole/internal/session"
	testhelpers "github.com/polkiloo/ashconsole/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type navigatorStub struct {
	calls atomic.Int32
}

func (n *navigatorStub) ToLogin(context.Context) { n.calls.Add(1) }

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(testhelpers.Envelope(success, message, data))
}

func newTestClient(t *testing.T, srv *httptest.Server, pair model.TokenPair, timeout time.Duration) (*Client, *session.Store, *testhelpers.TokenRepositoryStub, *navigatorStub) {
	t.Helper()
	repo := &testhelpers.TokenRepositoryStub{Pair: pair}
	store, err := session.NewStore(context.Background(), repo, testLogger())
	require.NoError(t, err)
	nav := &navigatorStub{}
	client, err := NewClient(srv.URL, timeout, store, nav, testLogger())
	require.NoError(t, err)
	return client, store, repo, nav
}

func TestNewClientValidatesURL(t *testing.T) {
	_, err := NewClient("://bad-url", time.Second, nil, nil, testLogger())
	assert.Error(t, err)
	_, err = NewClient("/relative", time.Second, nil, nil, testLogger())
	assert.Error(t, err)
}

func TestClientAttachesBearerAndRequestID(t *testing.T) {
	var auth, requestID, accept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		requestID = r.Header.Get("X-Request-ID")
		accept = r.Header.Get("Accept")
		writeEnvelope(w, http.StatusOK, true, "", []model.Order{})
	}))
	defer srv.Close()

	client, _, _, _ := newTestClient(t, srv, model.TokenPair{AccessToken: "tok", RefreshToken: "ref"}, time.Second)

	_, err := client.Get(WithRequestID(context.Background(), "req-1"), getOrdersPath)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, "application/json", accept)

	_, err = client.Get(context.Background(), getOrdersPath)
	require.NoError(t, err)
	assert.NotEmpty(t, requestID, "a request id is generated when none is inbound")
}

func TestClientOmitsBearerWithoutSession(t *testing.T) {
	var auth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Values("Authorization")
		writeEnvelope(w, http.StatusOK, true, "", nil)
	}))
	defer srv.Close()

	client, _, _, _ := newTestClient(t, srv, model.TokenPair{}, time.Second)
	_, err := client.Get(context.Background(), "/anything")
	require.NoError(t, err)
	assert.Empty(t, auth)
}

func TestGetOrdersSkipsUndecodableRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"isSuccess":true,"data":[` +
			`{"id":1,"orderStatus":"Pending"},` +
			`{"id":2,"orderStatus":"Archived"},` +
			`{"id":3,"orderStatus":"Completed"}]}`))
	}))
	defer srv.Close()

	client, _, _, _ := newTestClient(t, srv, model.TokenPair{AccessToken: "tok", RefreshToken: "ref"}, time.Second)

	orders, err := NewOrderGateway(client).GetOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(1), orders[0].ID)
	assert.Equal(t, model.OrderStatusPending, orders[0].Status)
	assert.Equal(t, int64(3), orders[1].ID)
	assert.Equal(t, model.OrderStatusCompleted, orders[1].Status)
}

func TestGetOrdersEmptyDataIsEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", nil)
	}))
	defer srv.Close()

	client, _, _, _ := newTestClient(t, srv, model.TokenPair{AccessToken: "tok", RefreshToken: "ref"}, time.Second)

	orders, err := NewOrderGateway(client).GetOrders(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestClientRefreshesOnceAndReplays(t *testing.T) {
	var refreshes, listCalls atomic.Int32
	var refreshBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case refreshPath:
			refreshes.Add(1)
			_ = json.NewDecoder(r.Body).Decode(&refreshBody)
			writeEnvelope(w, http.StatusOK, true, "", model.TokenPair{AccessToken: "new", RefreshToken: "ref2"})
		case getOrdersPath:
			listCalls.Add(1)
			if r.Header.Get("Authorization") != "Bearer new" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			writeEnvelope(w, http.StatusOK, true, "", []model.Order{{ID: 7, Status: model.OrderStatusPending}})
		}
	}))
	defer srv.Close()

	client, store, repo, nav := newTestClient(t, srv, model.TokenPair{AccessToken: "old", RefreshToken: "ref"}, time.Second)

	orders, err := NewOrderGateway(client).GetOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(7), orders[0].ID)

	assert.Equal(t, int32(1), refreshes.Load())
	assert.Equal(t, int32(2), listCalls.Load())
	assert.Equal(t, "ref", refreshBody["refreshToken"])
	assert.Equal(t, model.TokenPair{AccessToken: "new", RefreshToken: "ref2"}, store.Tokens())
	assert.Equal(t, model.TokenPair{AccessToken: "new", RefreshToken: "ref2"}, repo.Stored())
	assert.Zero(t, nav.calls.Load())
}

func TestClientReturnsOriginal401WhenRefreshFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case refreshPath:
			writeEnvelope(w, http.StatusBadRequest, false, "refresh token expired", nil)
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"isSuccess":false,"message":"token expired"}`))
		}
	}))
	defer srv.Close()

	client, store, repo, nav := newTestClient(t, srv, model.TokenPair{AccessToken: "old", RefreshToken: "ref"}, time.Second)

	_, err := client.Get(context.Background(), getOrdersPath)
	var httpErr *domainErrors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
	assert.Contains(t, string(httpErr.Body), "token expired", "the original response is surfaced, not the refresh failure")

	assert.False(t, store.Authenticated())
	assert.True(t, repo.Stored().Empty())
	assert.Equal(t, int32(1), nav.calls.Load())
}

func TestClientWithoutRefreshTokenTearsDownSession(t *testing.T) {
	var refreshes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == refreshPath {
			refreshes.Add(1)
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, store, _, nav := newTestClient(t, srv, model.TokenPair{AccessToken: "old"}, time.Second)

	_, err := client.Get(context.Background(), getOrdersPath)
	assert.True(t, domainErrors.IsUnauthorized(err))
	assert.Zero(t, refreshes.Load())
	assert.False(t, store.Authenticated())
	assert.Equal(t, int32(1), nav.calls.Load())
}

func TestClientDoesNotRefreshTwice(t *testing.T) {
	var refreshes, listCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == refreshPath {
			refreshes.Add(1)
			writeEnvelope(w, http.StatusOK, true, "", model.TokenPair{AccessToken: "new", RefreshToken: "ref2"})
			return
		}
		listCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, store, _, nav := newTestClient(t, srv, model.TokenPair{AccessToken: "old", RefreshToken: "ref"}, time.Second)

	_, err := client.Get(context.Background(), getOrdersPath)
	assert.True(t, domainErrors.IsUnauthorized(err))
	assert.Equal(t, int32(1), refreshes.Load())
	assert.Equal(t, int32(2), listCalls.Load())
	assert.Equal(t, "new", store.AccessToken(), "the replayed 401 propagates without another teardown")
	assert.Zero(t, nav.calls.Load())
}

func TestClientSkipsRefreshForAccountEndpoints(t *testing.T) {
	var refreshes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == refreshPath {
			refreshes.Add(1)
		}
		writeEnvelope(w, http.StatusUnauthorized, false, "Invalid email or password", nil)
	}))
	defer srv.Close()

	client, _, _, nav := newTestClient(t, srv, model.TokenPair{RefreshToken: "ref"}, time.Second)

	_, err := NewAccountGateway(client).Login(context.Background(), "a@b.c", "nope")
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "Invalid email or password", failure.Message)
	assert.Equal(t, http.StatusUnauthorized, failure.Status)
	assert.Zero(t, refreshes.Load())
	assert.Zero(t, nav.calls.Load())
}

func TestRefreshSkippedWhenTokenAlreadyRenewed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))
	defer srv.Close()

	client, _, _, _ := newTestClient(t, srv, model.TokenPair{AccessToken: "fresh", RefreshToken: "ref"}, time.Second)
	require.NoError(t, client.refresh(context.Background(), "stale"))
}

func TestMultipartSurvivesReplay(t *testing.T) {
	type seen struct {
		contentType string
		services    []string
		file        string
		deadline    string
		wordCount   string
	}
	var attempts []seen
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == refreshPath {
			writeEnvelope(w, http.StatusOK, true, "", model.TokenPair{AccessToken: "new", RefreshToken: "ref2"})
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		f, _, err := r.FormFile("File")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		content, _ := io.ReadAll(f)
		attempts = append(attempts, seen{
			contentType: r.Header.Get("Content-Type"),
			services:    []string{r.FormValue("Services[0]"), r.FormValue("Services[1]")},
			file:        string(content),
			deadline:    r.FormValue("DeadLine"),
			wordCount:   r.FormValue("WordCount"),
		})
		if len(attempts) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeEnvelope(w, http.StatusOK, true, "created", model.Order{ID: 99, Status: model.OrderStatusPending})
	}))
	defer srv.Close()

	client, _, _, _ := newTestClient(t, srv, model.TokenPair{AccessToken: "old", RefreshToken: "ref"}, time.Second)

	words := 300
	form := repository.OrderForm{
		CustomerName:     "Lea",
		CustomerEmail:    "lea@example.com",
		Deadline:         time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC),
		PageCount:        2,
		WordCount:        &words,
		PreferredContact: model.ContactEmail,
		Services:         []string{"Translation", "Editing"},
		File:             &repository.Attachment{Name: "doc.txt", Content: strings.NewReader("hello")},
	}
	order, err := NewOrderGateway(client).MakeOrder(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, int64(99), order.ID)

	require.Len(t, attempts, 2)
	for _, a := range attempts {
		assert.True(t, strings.HasPrefix(a.contentType, "multipart/form-data; boundary="), a.contentType)
		assert.Equal(t, []string{"Translation", "Editing"}, a.services)
		assert.Equal(t, "hello", a.file)
		assert.Equal(t, "2026-11-01T09:00:00Z", a.deadline)
		assert.Equal(t, "300", a.wordCount)
	}
}

func TestUpdateStatusSendsBackendShape(t *testing.T) {
	var body map[string]string
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeEnvelope(w, http.StatusOK, true, "", model.Order{ID: 5, Status: model.OrderStatusCompleted})
	}))
	defer srv.Close()

	client, _, _, _ := newTestClient(t, srv, model.TokenPair{AccessToken: "tok"}, time.Second)
	order, err := NewOrderGateway(client).UpdateStatus(context.Background(), 5, model.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, order.Status)
	assert.Equal(t, http.MethodPatch, method)
	assert.Equal(t, "/api/order/updateStatus/5", path)
	assert.Equal(t, map[string]string{"OrderStatus": "Completed"}, body)
}

func TestClientClassifiesTimeoutAndNetworkErrors(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer slow.Close()

	client, _, _, _ := newTestClient(t, slow, model.TokenPair{}, 20*time.Millisecond)
	_, err := client.Get(context.Background(), "/slow")
	var timeoutErr *domainErrors.TimeoutError
	assert.ErrorAs(t, err, &timeoutErr)

	closed := httptest.NewServer(http.NotFoundHandler())
	client, _, _, _ = newTestClient(t, closed, model.TokenPair{}, time.Second)
	closed.Close()
	_, err = client.Get(context.Background(), "/gone")
	var netErr *domainErrors.NetworkError
	assert.ErrorAs(t, err, &netErr)

	failure := Decode[struct{}](nil, err).failure
	require.NotNil(t, failure)
	assert.True(t, failure.Transport())
}

func TestDecodeEnvelope(t *testing.T) {
	value, err := Decode[int]([]byte(`{"isSuccess":true,"data":3}`), nil).Unwrap()
	require.NoError(t, err)
	assert.Equal(t, 3, value)

	_, err = Decode[int]([]byte(`{"isSuccess":false,"message":"nope"}`), nil).Unwrap()
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "nope", failure.Error())
	assert.Zero(t, failure.Status)

	body := []byte(`{"isSuccess":false,"message":"invalid","errors":{"PageCount":["must be positive"]}}`)
	_, err = Decode[int](nil, &domainErrors.HTTPError{Status: 400, Body: body}).Unwrap()
	require.ErrorAs(t, err, &failure)
	fields, ok := failure.FieldErrors()
	require.True(t, ok)
	assert.Equal(t, []string{"must be positive"}, fields["PageCount"])
	assert.False(t, failure.Transport())

	_, err = Decode[int]([]byte(`not json`), nil).Unwrap()
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "malformed backend response", failure.Message)

	empty, err := Decode[[]int]([]byte(`{"isSuccess":true}`), nil).Unwrap()
	require.NoError(t, err)
	assert.Nil(t, empty)
	_, err = Decode[int](nil, errors.New("boom")).Unwrap()
	assert.EqualError(t, err, "boom")
}
