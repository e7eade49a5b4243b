package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbcet/alumnimeet/internal/form"
)

func TestHome_RedirectsToRegister(t *testing.T) {
	env := newTestEnv(t, true)
	resp, body := env.get(t, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/register", resp.Request.URL.Path)
	assert.Contains(t, body, "state=editing")
}

func sessionCookieOf(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	return nil
}

func TestRegisterForm_GetDoesNotStartSession(t *testing.T) {
	env := newTestEnv(t, true)
	for i := 0; i < 3; i++ {
		resp, body := env.get(t, "/register")
		assert.Nil(t, sessionCookieOf(resp))
		assert.Contains(t, body, "state=editing")
		resp, _ = env.get(t, "/api/form")
		assert.Nil(t, sessionCookieOf(resp))
	}
	assert.Equal(t, 0, env.sessions.Len())
}

func TestRegisterSubmit_StartsSession(t *testing.T) {
	env := newTestEnv(t, true)
	env.client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	resp, _ := env.postForm(t, "/register", url.Values{"name": {"Asha"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	c := sessionCookieOf(resp)
	require.NotNil(t, c, "session cookie set")
	assert.True(t, c.HttpOnly)
	assert.NotEmpty(t, c.Value)
	assert.Equal(t, 1, env.sessions.Len())
}

func TestRegisterSubmit_EmptyFormShowsErrors(t *testing.T) {
	env := newTestEnv(t, true)
	resp, body := env.postForm(t, "/register", url.Values{})

	assert.Equal(t, "invalid", resp.Request.URL.Query().Get("error"))
	assert.Contains(t, body, "flash:Please correct the highlighted fields.")
	for _, f := range []string{"name", "courseStudied", "yearOfPassout", "designation", "email", "whatsappNumber", "higherStudies", "consent"} {
		assert.Contains(t, body, "err:"+f+";")
	}
	assert.Empty(t, env.store.records())
}

func TestRegisterSubmit_Success(t *testing.T) {
	env := newTestEnv(t, true)
	_, body := env.postForm(t, "/register", validPost())

	assert.Contains(t, body, "state=succeeded")
	assert.Contains(t, body, "conf:Registration Successful!")
	assert.Contains(t, body, "name=;", "form reset after success")

	recs := env.store.records()
	require.Len(t, recs, 1)
	rec := recs[0]
	assert.Equal(t, "Asha Menon", rec.Name)
	assert.True(t, rec.AttendingEvent)
	assert.Equal(t, 2, rec.AccompanyCount)
	assert.Equal(t, []string{"guest-lecture", "project-guidance"}, rec.Contributions)
	assert.True(t, rec.Consent)

	_, body = env.postForm(t, "/register/dismiss", nil)
	assert.Contains(t, body, "state=editing")
	assert.NotContains(t, body, "conf:")
}

func TestRegisterSubmit_NotAttendingKeepsHiddenValues(t *testing.T) {
	env := newTestEnv(t, true)

	// First post fails on consent so the values stay in the session.
	first := validPost()
	first.Del("consent")
	first.Set("accompanyCount", "3")
	_, body := env.postForm(t, "/register", first)
	require.Contains(t, body, "err:consent;")

	// Attendance unticked: the disabled fieldset is not posted.
	second := validPost()
	second.Del("attendingEvent")
	second.Del("accompanyCount")
	second.Del("foodPreference")
	_, body = env.postForm(t, "/register", second)
	assert.Contains(t, body, "conf:Thank You!")

	recs := env.store.records()
	require.Len(t, recs, 1)
	assert.False(t, recs[0].AttendingEvent)
	assert.Equal(t, 3, recs[0].AccompanyCount)
	assert.Equal(t, "vegetarian", recs[0].FoodPreference)
}

func TestRegisterSubmit_StoreFailureKeepsFields(t *testing.T) {
	env := newTestEnv(t, true)
	env.store.fail(errDown)

	_, body := env.postForm(t, "/register", validPost())
	assert.Contains(t, body, "state=failed")
	assert.Contains(t, body, "flash:"+form.MsgSubmitFailed)
	assert.Contains(t, body, "name=Asha Menon;")
	assert.Contains(t, body, "course:cse;")

	_, body = env.postForm(t, "/register/notice/dismiss", nil)
	assert.Contains(t, body, "state=editing")
	assert.NotContains(t, body, "flash:")
	assert.Contains(t, body, "name=Asha Menon;")

	env.store.fail(nil)
	_, body = env.postForm(t, "/register", validPost())
	assert.Contains(t, body, "state=succeeded")
	assert.Len(t, env.store.records(), 1)
}

func TestRegisterSubmit_UnknownContributionIsBadRequest(t *testing.T) {
	env := newTestEnv(t, true)
	post := validPost()
	post.Add("contributions", "free-lunch")
	resp, _ := env.postForm(t, "/register", post)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, env.store.records())
}

func TestRegisterSubmit_NonNumericAccompanyCountIsBadRequest(t *testing.T) {
	env := newTestEnv(t, true)
	post := validPost()
	post.Del("attendingEvent")
	post.Set("accompanyCount", "abc")
	resp, _ := env.postForm(t, "/register", post)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, env.store.records())
}

func TestRegister_Closed(t *testing.T) {
	env := newTestEnv(t, false)

	resp, body := env.get(t, "/register")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "closed")

	resp, _ = env.postForm(t, "/register", validPost())
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, env.store.records())
}

func TestRegisterSubmit_VariantWithoutToggleIgnoresAttendanceBox(t *testing.T) {
	env := newTestEnv(t, true, form.WithVariant(form.Variant{AttendanceToggle: false}))
	post := validPost()
	post.Del("attendingEvent")

	_, body := env.postForm(t, "/register", post)
	assert.Contains(t, body, "conf:Registration Successful!")
	recs := env.store.records()
	require.Len(t, recs, 1)
	assert.True(t, recs[0].AttendingEvent)
}

func TestConfirmationQR(t *testing.T) {
	env := newTestEnv(t, true)

	resp, _ := env.get(t, "/qr/confirmation.png")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	env.postForm(t, "/register", validPost())
	resp, body := env.get(t, "/qr/confirmation.png")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "\x89PNG", body[:4])
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, true)
	resp, body := env.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
}
