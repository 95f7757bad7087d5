package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hr/meridian/internal/shared"
	"github.com/meridian-hr/meridian/internal/view"
)

type recordingAudit struct {
	logs []shared.AuditLog
}

func (a *recordingAudit) Record(_ context.Context, log shared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func newTestHandler(t *testing.T, audit auditRecorder) *Handler {
	t.Helper()
	templates, err := view.NewEngine()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	codec := NewTokenCodec(testSecret, time.Hour, false)
	return NewHandler(logger, nil, codec, nil, templates, audit)
}

func TestIssueSessionAuditsAction(t *testing.T) {
	audit := &recordingAudit{}
	h := newTestHandler(t, audit)
	account := testAccount()

	for _, action := range []string{"login", "register"} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/auth/"+action, nil)
		require.NoError(t, h.issueSession(w, r, account, action))
	}

	require.Len(t, audit.logs, 2)
	assert.Equal(t, "login", audit.logs[0].Action)
	assert.Equal(t, "register", audit.logs[1].Action)
	for _, log := range audit.logs {
		assert.Equal(t, account.ID, log.ActorID)
		assert.Equal(t, "user", log.Entity)
		assert.Equal(t, account.Email, log.EntityID)
	}
}

func TestIssueSessionSetsCookie(t *testing.T) {
	h := newTestHandler(t, &recordingAudit{})
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/auth/login", nil)

	require.NoError(t, h.issueSession(w, r, testAccount(), "login"))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, CookieName, cookies[0].Name)
}

func TestRenderLoginKeepsContentTypeOnError(t *testing.T) {
	h := newTestHandler(t, &recordingAudit{})
	w := httptest.NewRecorder()

	h.renderLogin(w, loginPageData{Email: "hr@example.com", Errors: map[string]string{"general": "nope"}}, http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "hr@example.com")
}

func TestRenderRegisterKeepsContentTypeOnError(t *testing.T) {
	h := newTestHandler(t, &recordingAudit{})
	w := httptest.NewRecorder()

	h.renderRegister(w, registerPageData{Email: "new@example.com", Errors: map[string]string{"general": "taken"}}, http.StatusConflict)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "text/html; charset=utf-8", w.Result().Header.Get("Content-Type"))
}
