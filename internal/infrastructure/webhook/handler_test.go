package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fanout-agent/internal/application/port/input"
	"fanout-agent/internal/application/port/output"
)

const testSecret = "channel-secret"

// sign computes the platform body signature the SDK verifies.
func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

type fakePipeline struct {
	calls []string
}

func (f *fakePipeline) Reply(_ context.Context, message string) input.ReplyResult {
	f.calls = append(f.calls, message)
	return input.ReplyResult{Text: "pipeline says: " + message}
}

type sentReply struct {
	token, text string
}

type fakeMessenger struct {
	sent []sentReply
}

func (f *fakeMessenger) Reply(_ context.Context, replyToken, text string) error {
	f.sent = append(f.sent, sentReply{token: replyToken, text: text})
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)                          {}
func (nopLogger) Info(string, ...any)                           {}
func (nopLogger) Warn(string, ...any)                           {}
func (nopLogger) Error(string, ...any)                          {}
func (l nopLogger) WithField(string, any) output.LoggerPort     { return l }
func (l nopLogger) WithFields(map[string]any) output.LoggerPort { return l }
func (nopLogger) Close() error                                  { return nil }

func postEvent(t *testing.T, h *Handler, body string, signed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte(body)))
	if signed {
		req.Header.Set(SignatureHeader, sign(testSecret, []byte(body)))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_RejectsBadSignature(t *testing.T) {
	pipeline := &fakePipeline{}
	messenger := &fakeMessenger{}
	h := NewHandler(pipeline, messenger, testSecret, nopLogger{})

	body := `{"events":[{"type":"message","replyToken":"rt","message":{"type":"text","text":"hi"}}]}`
	rec := postEvent(t, h, body, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A signature computed with the wrong secret is just as dead.
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte(body)))
	req.Header.Set(SignatureHeader, sign("other-secret", []byte(body)))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Empty(t, pipeline.calls, "pipeline must not run on unverified events")
	assert.Empty(t, messenger.sent)
}

func TestHandler_TextMessageGoesThroughPipeline(t *testing.T) {
	pipeline := &fakePipeline{}
	messenger := &fakeMessenger{}
	h := NewHandler(pipeline, messenger, testSecret, nopLogger{})

	body := `{"events":[{"type":"message","replyToken":"rt-1","message":{"type":"text","text":"translate this"}}]}`
	rec := postEvent(t, h, body, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"translate this"}, pipeline.calls)
	require.Len(t, messenger.sent, 1)
	assert.Equal(t, "rt-1", messenger.sent[0].token)
	assert.Equal(t, "pipeline says: translate this", messenger.sent[0].text)
}

func TestHandler_PostbackSkipsPipeline(t *testing.T) {
	pipeline := &fakePipeline{}
	messenger := &fakeMessenger{}
	h := NewHandler(pipeline, messenger, testSecret, nopLogger{})

	body := `{"events":[{"type":"postback","replyToken":"rt-2","postback":{"data":"help"}}]}`
	rec := postEvent(t, h, body, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, pipeline.calls, "postbacks are dispatched without the pipeline")
	require.Len(t, messenger.sent, 1)
	assert.Equal(t, "rt-2", messenger.sent[0].token)
	assert.NotEmpty(t, messenger.sent[0].text)
}

func TestHandler_NonTextMessageGetsNotice(t *testing.T) {
	pipeline := &fakePipeline{}
	messenger := &fakeMessenger{}
	h := NewHandler(pipeline, messenger, testSecret, nopLogger{})

	body := `{"events":[{"type":"message","replyToken":"rt-3","message":{"type":"image"}}]}`
	rec := postEvent(t, h, body, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, pipeline.calls)
	require.Len(t, messenger.sent, 1)
	assert.Equal(t, unsupportedTypeNotice, messenger.sent[0].text)
}

func TestHandler_MultipleEventsEachGetOneReply(t *testing.T) {
	pipeline := &fakePipeline{}
	messenger := &fakeMessenger{}
	h := NewHandler(pipeline, messenger, testSecret, nopLogger{})

	body := `{"events":[
		{"type":"message","replyToken":"a","message":{"type":"text","text":"first"}},
		{"type":"follow","replyToken":"b"},
		{"type":"message","replyToken":"c","message":{"type":"text","text":"second"}}
	]}`
	rec := postEvent(t, h, body, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"first", "second"}, pipeline.calls)
	require.Len(t, messenger.sent, 2)
	assert.Equal(t, "a", messenger.sent[0].token)
	assert.Equal(t, "c", messenger.sent[1].token)
}

func TestHandler_MalformedEnvelope(t *testing.T) {
	h := NewHandler(&fakePipeline{}, &fakeMessenger{}, testSecret, nopLogger{})

	rec := postEvent(t, h, `not json`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
