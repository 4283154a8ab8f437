package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	di "github.com/reoring/defaultinput"
	"github.com/reoring/defaultinput/middleware"
)

func echoBody(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		dm, ok := middleware.DecodedFromContext[any](r.Context())
		if ok {
			w.Header().Set("X-Defaulted", strings.Join(dm.Presence.Defaulted(), ","))
		}
		_, _ = w.Write(b)
	})
}

func TestDefaults_FillsBody(t *testing.T) {
	s := di.Object().
		Field("bar", "hello world").
		Field("opts", di.Object().Field("levitate", true)).
		MustBuild()
	h := middleware.Defaults(s, echoBody(t))

	req := httptest.NewRequest(http.MethodPost, "/greet", strings.NewReader(`{"harry":"WIZARD","opts":{"alert":false}}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, map[string]any{
		"bar":   "hello world",
		"harry": "WIZARD",
		"opts":  map[string]any{"levitate": true, "alert": false},
	}, got)
	assert.Equal(t, "/bar,/opts/levitate", rec.Header().Get("X-Defaulted"))
}

func TestDefaults_EmptyBodyGetsWholeDefault(t *testing.T) {
	s := di.Object().Field("bar", "hello world").MustBuild()
	h := middleware.Defaults(s, echoBody(t))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bar":"hello world"}`, rec.Body.String())
}

func TestDefaults_BadRequest(t *testing.T) {
	s := di.Object().Field("foo", di.Object().Field("bar", 1)).MustBuild()
	cases := map[string]struct {
		body string
		code string
		path string
	}{
		"conflicting type": {`{"foo":"text"}`, di.CodeInvalidType, "/foo"},
		"duplicate key":    {`{"foo":{},"foo":{}}`, di.CodeDuplicateKey, "/foo"},
		"broken json":      {`{"foo":`, di.CodeParseError, "/"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			called := false
			h := middleware.Defaults(s, http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body)))

			assert.False(t, called)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var payload struct {
				Issues []middleware.IssuePayload `json:"issues"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
			require.NotEmpty(t, payload.Issues)
			assert.Equal(t, tc.code, payload.Issues[0].Code)
			assert.Equal(t, tc.path, payload.Issues[0].Path)
		})
	}
}

type countingBody struct {
	r    io.Reader
	read int64
}

func (c *countingBody) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	return n, err
}

func (c *countingBody) Close() error { return nil }

func TestDefaults_BodyCapStopsReading(t *testing.T) {
	limit := middleware.DefaultParseOpt().MaxBytes
	pad := strings.Repeat("x", 8<<20)
	body := &countingBody{r: strings.NewReader(`{"pad":"` + pad + `"}`)}

	called := false
	h := middleware.Defaults(di.Object().Field("a", 1).MustBuild(),
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Body = body
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, called)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.LessOrEqual(t, body.read, limit+1)

	var payload struct {
		Issues []middleware.IssuePayload `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Issues, 1)
	assert.Equal(t, di.CodeTruncated, payload.Issues[0].Code)
	assert.Equal(t, "/", payload.Issues[0].Path)
}

func TestDefaults_BodyAtCapIsAccepted(t *testing.T) {
	opt := middleware.DefaultParseOpt()
	opt.MaxBytes = 16
	body := `{"b":"123456789"}` // 17 bytes
	h := middleware.DefaultsWithOpt(di.Object().Field("a", 1).MustBuild(), opt)(echoBody(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	opt.MaxBytes = int64(len(body))
	h = middleware.DefaultsWithOpt(di.Object().Field("a", 1).MustBuild(), opt)(echoBody(t))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"a":1,"b":"123456789"}`, rec.Body.String())
}

func TestDefaults_DeepBodyIsRejected(t *testing.T) {
	body := `{"a":` + strings.Repeat("[", 100) + strings.Repeat("]", 100) + `}`
	called := false
	h := middleware.Defaults(di.Object().Field("b", 1).MustBuild(),
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	assert.False(t, called)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var payload struct {
		Issues []middleware.IssuePayload `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Issues)
	assert.Equal(t, di.CodeTooDeep, payload.Issues[0].Code)
}

func TestApplyRequest_KeepsOriginalRequest(t *testing.T) {
	s := di.Object().Field("a", 1).MustBuild()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	out, err := middleware.ApplyRequest(req, s, middleware.DefaultParseOpt())
	require.NoError(t, err)
	assert.NotSame(t, req, out)
	assert.Equal(t, int64(len(`{"a":1}`)), out.ContentLength)

	_, ok := middleware.DecodedFromContext[any](req.Context())
	assert.False(t, ok)
	dm, ok := middleware.DecodedFromContext[any](out.Context())
	require.True(t, ok)
	assert.True(t, dm.Presence.DefaultOnly("/a"))
}
