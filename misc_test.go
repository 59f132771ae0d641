package gocollection

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const _testTimeout = 2 * time.Second

type testRecord struct {
	ID   string `json:"id" gorm:"primaryKey"`
	Name string `json:"name"`
}

func (r testRecord) GetID() string {
	return r.ID
}

func testRecords(ids ...string) []testRecord {
	ret := make([]testRecord, 0, len(ids))
	for _, id := range ids {
		ret = append(ret, testRecord{ID: id, Name: "name " + id})
	}

	return ret
}

func recordIDs(records []testRecord) []string {
	return lo.Map(records, func(r testRecord, _ int) string {
		return r.GetID()
	})
}

func testLogger(t *testing.T) *zap.Logger {
	t.Helper()

	l, err := zap.NewDevelopment()
	require.NoError(t, err)

	return l
}

func testContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), _testTimeout)
	t.Cleanup(cancel)

	return ctx
}

// recordingTransport answers immediately with a canned response and keeps the
// received queries.
type recordingTransport struct {
	mu      sync.Mutex
	queries []Query
	resp    *Response[testRecord]
	err     error
}

func newRecordingTransport(total int, ids ...string) *recordingTransport {
	return &recordingTransport{resp: NewResponse(total, testRecords(ids...))}
}

func (t *recordingTransport) Do(_ context.Context, query Query) (*Response[testRecord], error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.queries = append(t.queries, query)

	return t.resp, t.err
}

func (t *recordingTransport) respond(resp *Response[testRecord], err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resp, t.err = resp, err
}

func (t *recordingTransport) calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.queries)
}

func (t *recordingTransport) lastQuery(tb testing.TB) Query {
	tb.Helper()

	t.mu.Lock()
	defer t.mu.Unlock()

	require.NotEmpty(tb, t.queries, "no query was issued")

	return t.queries[len(t.queries)-1]
}

type stubReply struct {
	resp *Response[testRecord]
	err  error
}

type pendingCall struct {
	query Query
	reply chan stubReply
}

// pendingTransport blocks every call until the test replies to it, so tests
// control the order in which requests settle.
type pendingTransport struct {
	calls chan *pendingCall
}

func newPendingTransport() *pendingTransport {
	return &pendingTransport{calls: make(chan *pendingCall, 8)}
}

func (t *pendingTransport) Do(ctx context.Context, query Query) (*Response[testRecord], error) {
	call := &pendingCall{query: query, reply: make(chan stubReply, 1)}
	t.calls <- call

	select {
	case r := <-call.reply:
		return r.resp, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *pendingTransport) next(tb testing.TB) *pendingCall {
	tb.Helper()

	select {
	case call := <-t.calls:
		return call
	case <-time.After(_testTimeout):
		tb.Fatal("transport was not called")
		return nil
	}
}

// eventRecorder is a Notifier keeping every received event.
type eventRecorder struct {
	mu     sync.Mutex
	events []Event[testRecord]
}

func (r *eventRecorder) Notify(event Event[testRecord]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
}

func (r *eventRecorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()

	ret := make([]EventKind, 0, len(r.events))
	for _, e := range r.events {
		ret = append(ret, e.Kind)
	}

	return ret
}

func (r *eventRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
}

func waitRequest(t *testing.T, req *Request, err error) {
	t.Helper()

	require.NoError(t, err)
	require.NotNil(t, req)
	require.NoError(t, req.Wait(testContext(t)))
}

func newGORMMySQLMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "mysql", db.Debug(), mock, nil
}

func newGORMPostgresMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := postgres.New(postgres.Config{
		Conn: mockDB,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "postgres", db.Debug(), mock, nil
}
