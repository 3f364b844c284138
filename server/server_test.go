package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"edachat/agent"
	"edachat/chart"
	"edachat/dataset"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// scriptedGateway replies with the next canned response.
type scriptedGateway struct {
	mu      sync.Mutex
	replies []string
	err     error
}

func (g *scriptedGateway) Send(_ context.Context, _ string, _ *dataset.Summary) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	if len(g.replies) == 0 {
		return "", nil
	}
	r := g.replies[0]
	g.replies = g.replies[1:]
	return r, nil
}

func newTestServer(t *testing.T, gw agent.Gateway) *httptest.Server {
	t.Helper()
	a := agent.New(gw, agent.WithDispatcher(chart.NewDispatcher(chart.WithSize(320, 240))))
	srv := New(a, Config{Ingest: dataset.Options{ParseDates: true}})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, contentType string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp := do(t, ts, http.MethodPost, "/api/v1/sessions", "", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	s := decode[sessionResponse](t, resp)
	require.NotEmpty(t, s.ID)
	return s.ID
}

const csvBody = "age,city\n31,Lisbon\n45,Porto\n27,Lisbon\n52,Faro\n"

func TestSessionLifecycle(t *testing.T) {
	gw := &scriptedGateway{replies: []string{
		"Here is the distribution.\ntool:histogram",
		"No chart needed.\ntool:none",
	}}
	ts := newTestServer(t, gw)
	id := createSession(t, ts)
	base := "/api/v1/sessions/" + id

	resp := do(t, ts, http.MethodPost, base+"/dataset?name=people.csv", "text/csv", bytes.NewBufferString(csvBody))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	loaded := decode[datasetResponse](t, resp)
	assert.Equal(t, "people.csv", loaded.Name)
	assert.Equal(t, 4, loaded.Rows)
	assert.Equal(t, 2, loaded.Columns)
	assert.Equal(t, "Data loaded: 4 rows, 2 columns.", loaded.Conclusion)

	resp = do(t, ts, http.MethodPost, base+"/questions", "application/json", bytes.NewBufferString(`{"question":"How old?"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ans := decode[answerResponse](t, resp)
	assert.Equal(t, "Here is the distribution.", ans.Text)
	assert.Equal(t, "histogram", ans.Tool)
	require.Len(t, ans.Artifacts, 1)
	assert.Equal(t, "Histogram of age", ans.Artifacts[0].Title)
	png, err := base64.StdEncoding.DecodeString(ans.Artifacts[0].PNGBase64)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	resp = do(t, ts, http.MethodPost, base+"/questions", "application/json", bytes.NewBufferString(`{"question":"Anything else?"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ans = decode[answerResponse](t, resp)
	assert.Equal(t, "No chart needed.", ans.Text)
	assert.Empty(t, ans.Artifacts)

	resp = do(t, ts, http.MethodGet, base+"/memory", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{
		"Data loaded: 4 rows, 2 columns.",
		"Here is the distribution.",
		"No chart needed.",
	}, decode[[]string](t, resp))

	resp = do(t, ts, http.MethodGet, base+"/summary", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum := decode[summaryResponse](t, resp)
	assert.Equal(t, 4, sum.Rows)
	require.Len(t, sum.Columns, 2)
	assert.Equal(t, "age", sum.Columns[0].Name)
	assert.Contains(t, sum.Text, "shape: (4, 2)")

	resp = do(t, ts, http.MethodGet, base+"/report", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	pdf, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	resp = do(t, ts, http.MethodDelete, base, "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, ts, http.MethodGet, base+"/memory", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadMultipart(t *testing.T) {
	ts := newTestServer(t, &scriptedGateway{})
	id := createSession(t, ts)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "people.tsv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("age\tcity\n31\tLisbon\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp := do(t, ts, http.MethodPost, "/api/v1/sessions/"+id+"/dataset", mw.FormDataContentType(), &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	loaded := decode[datasetResponse](t, resp)
	assert.Equal(t, "people.tsv", loaded.Name)
	assert.Equal(t, 2, loaded.Columns)
}

func TestUploadUnsupportedFormat(t *testing.T) {
	ts := newTestServer(t, &scriptedGateway{})
	id := createSession(t, ts)
	resp := do(t, ts, http.MethodPost, "/api/v1/sessions/"+id+"/dataset?name=data.parquet", "application/octet-stream", bytes.NewBufferString("x"))
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestQuestionWithoutDataset(t *testing.T) {
	gw := &scriptedGateway{replies: []string{"unused\ntool:bar"}}
	ts := newTestServer(t, gw)
	id := createSession(t, ts)
	base := "/api/v1/sessions/" + id

	for range 2 {
		resp := do(t, ts, http.MethodPost, base+"/questions", "application/json", bytes.NewBufferString(`{"question":"hi"}`))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "No data loaded.", decode[answerResponse](t, resp).Text)
	}

	resp := do(t, ts, http.MethodGet, base+"/memory", "", nil)
	assert.Empty(t, decode[[]string](t, resp))

	resp = do(t, ts, http.MethodGet, base+"/summary", "", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestQuestionValidation(t *testing.T) {
	ts := newTestServer(t, &scriptedGateway{})
	id := createSession(t, ts)
	base := "/api/v1/sessions/" + id

	resp := do(t, ts, http.MethodPost, base+"/questions", "application/json", bytes.NewBufferString(`{`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, ts, http.MethodPost, base+"/questions", "application/json", bytes.NewBufferString(`{"question":"  "}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, ts, http.MethodPost, "/api/v1/sessions/missing/questions", "application/json", bytes.NewBufferString(`{"question":"x"}`))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, ts, http.MethodDelete, "/api/v1/sessions/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestQuestionGatewayFailure(t *testing.T) {
	gw := &scriptedGateway{err: &agent.GatewayError{Kind: agent.ErrorKindAuth, Provider: "OpenAI", Err: errors.New("401")}}
	ts := newTestServer(t, gw)
	id := createSession(t, ts)
	base := "/api/v1/sessions/" + id

	resp := do(t, ts, http.MethodPost, base+"/dataset", "text/csv", bytes.NewBufferString(csvBody))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, ts, http.MethodPost, base+"/questions", "application/json", bytes.NewBufferString(`{"question":"x"}`))
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "auth", decode[errorResponse](t, resp).Kind)

	resp = do(t, ts, http.MethodGet, base+"/memory", "", nil)
	assert.Len(t, decode[[]string](t, resp), 1, "a failed question leaves memory untouched")
}

func TestScatterAxesFromRequest(t *testing.T) {
	gw := &scriptedGateway{replies: []string{"See plot.\ntool:scatter", "See plot.\ntool:scatter"}}
	ts := newTestServer(t, gw)
	id := createSession(t, ts)
	base := "/api/v1/sessions/" + id

	resp := do(t, ts, http.MethodPost, base+"/dataset", "text/csv",
		bytes.NewBufferString("a,b,c\n1,2,3\n2,4,1\n3,5,0\n"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, ts, http.MethodPost, base+"/questions", "application/json", bytes.NewBufferString(`{"question":"q","x":"c","y":"a"}`))
	ans := decode[answerResponse](t, resp)
	require.Len(t, ans.Artifacts, 1)
	assert.Equal(t, "Scatter plot: c vs a", ans.Artifacts[0].Title)

	resp = do(t, ts, http.MethodPost, base+"/questions", "application/json", bytes.NewBufferString(`{"question":"q","x":"nope","y":"a"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[answerResponse](t, resp).Artifacts)
}

func TestSessionsAreIndependent(t *testing.T) {
	ts := newTestServer(t, &scriptedGateway{})
	a, b := createSession(t, ts), createSession(t, ts)
	require.NotEqual(t, a, b)

	resp := do(t, ts, http.MethodPost, "/api/v1/sessions/"+a+"/dataset", "text/csv", bytes.NewBufferString(csvBody))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, ts, http.MethodGet, "/api/v1/sessions/"+b+"/memory", "", nil)
	assert.Empty(t, decode[[]string](t, resp))
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	srv := New(agent.New(&scriptedGateway{}), Config{Addr: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestExpireIdleSessions(t *testing.T) {
	srv := New(agent.New(&scriptedGateway{}), Config{SessionTTL: time.Minute})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	stale := createSession(t, ts)
	fresh := createSession(t, ts)
	require.Equal(t, 2, srv.Len())

	e, ok := srv.lookup(stale)
	require.True(t, ok)
	e.touch(time.Now().Add(-2 * time.Minute))

	assert.Equal(t, 1, srv.expire(time.Now()))
	_, ok = srv.lookup(fresh)
	assert.True(t, ok)
	resp := do(t, ts, http.MethodGet, "/api/v1/sessions/"+stale+"/memory", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRunJanitor_StopsOnCancel(t *testing.T) {
	for _, ttl := range []time.Duration{0, time.Minute} {
		srv := New(agent.New(&scriptedGateway{}), Config{SessionTTL: ttl})
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- srv.RunJanitor(ctx, time.Millisecond) }()
		cancel()
		assert.NoError(t, <-done)
	}
}
