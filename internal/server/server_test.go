package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/resume-form/internal/form"
	"github.com/jonathan/resume-form/internal/imagecapture"
	"github.com/jonathan/resume-form/internal/server/middleware"
	"github.com/jonathan/resume-form/internal/server/ratelimit"
	"github.com/jonathan/resume-form/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	mu    sync.Mutex
	err   error
	calls    int
	ids      []string
	payloads []*types.SubmissionPayload
}

func (f *fakeSubmitter) SubmitResume(_ context.Context, employeeID string, payload *types.SubmissionPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.ids = append(f.ids, employeeID)
	f.payloads = append(f.payloads, payload)
	return f.err
}

// testClient drives a server handler while carrying the session cookie.
type testClient struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func newTestServer(t *testing.T, sub form.Submitter, opts *form.Options) (*Server, *testClient) {
	t.Helper()
	s, err := New(Config{
		Port:        0,
		SessionTTL:  time.Hour,
		FormOptions: opts,
		RateLimit:   &ratelimit.Config{Enabled: false},
	}, sub)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, &testClient{t: t, handler: s.Handler()}
}

func (c *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			c.cookie = cookie
		}
	}
	return w
}

func (c *testClient) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *testClient) postJSON(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

func (c *testClient) page() *goquery.Document {
	c.t.Helper()
	w := c.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(c.t, http.StatusOK, w.Code)
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(c.t, err)
	return doc
}

func (c *testClient) state() form.State {
	c.t.Helper()
	w := c.do(httptest.NewRequest(http.MethodGet, "/form/state", nil))
	require.Equal(c.t, http.StatusOK, w.Code)
	var raw struct {
		Profile  types.ScalarProfile  `json:"profile"`
		Sections types.ResumeSections `json:"sections"`
		Status   string               `json:"status"`
		Notice   *form.Notice         `json:"notice"`
	}
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &raw))
	state := form.State{Profile: raw.Profile, Sections: raw.Sections, Notice: raw.Notice}
	for _, st := range []form.Status{form.StatusIdle, form.StatusSubmitting, form.StatusSucceeded, form.StatusFailed} {
		if st.String() == raw.Status {
			state.Status = st
		}
	}
	return state
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, data := range files {
		part, err := mw.CreateFormFile(name, name+".png")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestHealthEndpoint(t *testing.T) {
	_, c := newTestServer(t, nil, nil)

	w := c.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestIndex_RendersEmptyForm(t *testing.T) {
	_, c := newTestServer(t, nil, nil)

	doc := c.page()
	require.NotNil(t, c.cookie, "session cookie should be issued")

	assert.Equal(t, 5, doc.Find("fieldset.section").Length())
	assert.Equal(t, 0, doc.Find(".item").Length())
	assert.Equal(t, 0, doc.Find("#notice").Length())
	assert.Equal(t, 0, doc.Find("#submit-success, #submit-failure").Length())
	_, disabled := doc.Find("#submit button.submit").Attr("disabled")
	assert.False(t, disabled)
	assert.Equal(t, 1, doc.Find("textarea#aboutMe").Length())
}

func TestUnknownPathIsNotFound(t *testing.T) {
	_, c := newTestServer(t, nil, nil)
	w := c.do(httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfile_SetsFieldsAndRedirects(t *testing.T) {
	_, c := newTestServer(t, nil, nil)

	w := c.postForm("/form/profile", url.Values{"fullName": {"Jane Doe"}, "tagline": {"Stay curious"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	doc := c.page()
	value, _ := doc.Find("input#fullName").Attr("value")
	assert.Equal(t, "Jane Doe", value)
	value, _ = doc.Find("input#tagline").Attr("value")
	assert.Equal(t, "Stay curious", value)
}

func TestProfile_RejectsUnknownField(t *testing.T) {
	_, c := newTestServer(t, nil, nil)

	w := c.postJSON("/form/profile", url.Values{"fullName": {"Jane"}, "nickname": {"J"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, c.state().Profile.FullName)

	w = c.postJSON("/form/profile", url.Values{"profileImage": {"data:image/png;base64,AAAA"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessions_AreIsolated(t *testing.T) {
	s, a := newTestServer(t, nil, nil)
	b := &testClient{t: t, handler: s.Handler()}

	a.postForm("/form/profile", url.Values{"fullName": {"Alice"}})
	b.postForm("/form/profile", url.Values{"fullName": {"Bob"}})

	assert.Equal(t, "Alice", a.state().Profile.FullName)
	assert.Equal(t, "Bob", b.state().Profile.FullName)
	assert.Equal(t, 2, s.sessions.Len())
}

func TestAddItem_TwiceShowsWarning(t *testing.T) {
	_, c := newTestServer(t, nil, nil)

	w := c.postForm("/form/sections/education/items", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	w = c.postForm("/form/sections/education/items", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	doc := c.page()
	assert.Equal(t, 1, doc.Find("#section-education .item").Length())
	assert.Contains(t, doc.Find("#notice").Text(), form.IncompleteItemMessage)
	assert.True(t, doc.Find("#notice").HasClass("alert-warning"))

	// The page removes the warning on its own once it expires.
	expiresIn, ok := doc.Find("#notice").Attr("data-expires-in")
	require.True(t, ok)
	millis, err := strconv.ParseInt(expiresIn, 10, 64)
	require.NoError(t, err)
	assert.Greater(t, millis, int64(0))
	assert.LessOrEqual(t, millis, form.DefaultNoticeDuration.Milliseconds())
	assert.Contains(t, doc.Find("script").Text(), "setTimeout")

	c.postForm("/form/notice/dismiss", nil)
	assert.Equal(t, 0, c.page().Find("#notice").Length())
}

func TestAddItem_StoresPostedEditsFirst(t *testing.T) {
	_, c := newTestServer(t, nil, nil)
	c.postForm("/form/sections/education/items", nil)

	w := c.postForm("/form/sections/education/items", url.Values{
		"education.0.institution": {"MIT"},
		"education.0.degree":      {""},
		"education.0.date":        {""},
		"fullName":                {"Jane Doe"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	state := c.state()
	assert.Nil(t, state.Notice)
	assert.Equal(t, []types.EducationItem{{Institution: "MIT"}, {}}, state.Sections.Education)
	assert.Equal(t, "Jane Doe", state.Profile.FullName)

	doc := c.page()
	assert.Equal(t, 0, doc.Find("#notice").Length())
	value, _ := doc.Find(`#section-education .item input[name="education.0.institution"]`).Attr("value")
	assert.Equal(t, "MIT", value)
	action, _ := doc.Find("#section-education button.add").Attr("formaction")
	assert.Equal(t, "/form/sections/education/items", action)
	assert.Equal(t, "resume", doc.Find("#section-education").Closest("form").AttrOr("id", ""))
}

func TestEdits_SaveAndReject(t *testing.T) {
	_, c := newTestServer(t, nil, nil)
	c.postForm("/form/sections/skills/items", nil)

	w := c.postForm("/form/edits", url.Values{"skills.0.skill": {"Go"}, "skills.0.ratingPercentage": {"90"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, []types.SkillItem{{Skill: "Go", RatingPercentage: "90"}}, c.state().Sections.Skills)

	tests := []struct {
		name   string
		values url.Values
	}{
		{"unknown field", url.Values{"tagline": {"x"}, "skills.0.level": {"high"}}},
		{"unknown section", url.Values{"tagline": {"x"}, "hobbies.0.name": {"chess"}}},
		{"bad index", url.Values{"tagline": {"x"}, "skills.one.skill": {"Go"}}},
		{"image field", url.Values{"tagline": {"x"}, "profileImage": {"data:image/png;base64,AAAA"}}},
		{"unknown key", url.Values{"tagline": {"x"}, "nickname": {"J"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := c.postJSON("/form/edits", tt.values)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, c.state().Profile.Tagline)
		})
	}

	w = c.postJSON("/form/edits", url.Values{"skills.4.skill": {"Rust"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddItem_JSONConflict(t *testing.T) {
	_, c := newTestServer(t, nil, nil)

	require.Equal(t, http.StatusOK, c.postJSON("/form/sections/skills/items", nil).Code)
	w := c.postJSON("/form/sections/skills/items", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, form.IncompleteItemMessage, resp["error"])
}

func TestSetItem_EditThenAdd(t *testing.T) {
	_, c := newTestServer(t, nil, nil)

	c.postForm("/form/sections/workHistory/items", nil)
	w := c.postForm("/form/sections/workHistory/items/0", url.Values{"company": {"Acme"}, "position": {"Dev"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	c.postForm("/form/sections/workHistory/items", nil)

	state := c.state()
	assert.Equal(t, []types.WorkHistoryItem{{Company: "Acme", Position: "Dev"}, {}}, state.Sections.WorkHistory)

	doc := c.page()
	items := doc.Find("#section-workHistory .item")
	assert.Equal(t, 2, items.Length())
	value, _ := items.First().Find(`input[name="workHistory.0.company"]`).Attr("value")
	assert.Equal(t, "Acme", value)
	assert.Equal(t, 1, items.First().Find(`textarea[name="workHistory.0.description"]`).Length())
	assert.Equal(t, "Duration", items.First().Find(`label[for="workHistory-0-date"]`).Text())
}

func TestSetItem_Errors(t *testing.T) {
	_, c := newTestServer(t, nil, nil)
	c.postJSON("/form/sections/skills/items", nil)

	tests := []struct {
		name   string
		path   string
		values url.Values
		status int
	}{
		{"unknown section", "/form/sections/hobbies/items/0", url.Values{"skill": {"Go"}}, http.StatusBadRequest},
		{"non-numeric index", "/form/sections/skills/items/first", url.Values{"skill": {"Go"}}, http.StatusBadRequest},
		{"negative index", "/form/sections/skills/items/-1", url.Values{"skill": {"Go"}}, http.StatusBadRequest},
		{"index out of range", "/form/sections/skills/items/3", url.Values{"skill": {"Go"}}, http.StatusBadRequest},
		{"wrong field", "/form/sections/skills/items/0", url.Values{"company": {"Acme"}}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := c.postJSON(tt.path, tt.values)
			assert.Equal(t, tt.status, w.Code)
		})
	}
	assert.True(t, c.state().Sections.Skills[0].IsEmpty())
}

func TestRemoveItem(t *testing.T) {
	_, c := newTestServer(t, nil, nil)
	for i, name := range []string{"A", "B", "C"} {
		c.postForm("/form/sections/interestsDetails/items", nil)
		c.postForm("/form/sections/interestsDetails/items/"+string(rune('0'+i)), url.Values{"heading": {name}})
	}

	w := c.postForm("/form/sections/interestsDetails/items/1/delete", url.Values{"interestsDetails.2.heading": {"C2"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, []types.InterestItem{{Heading: "A"}, {Heading: "C2"}}, c.state().Sections.InterestsDetails)

	w = c.postJSON("/form/sections/interestsDetails/items/9/delete", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, c.state().Sections.InterestsDetails, 2)
}

func TestSubmit_SuccessShowsAlert(t *testing.T) {
	sub := &fakeSubmitter{}
	_, c := newTestServer(t, sub, nil)

	c.postForm("/form/profile", url.Values{"fullName": {"Jane Doe"}, "employeeId": {"E42"}})
	w := c.postForm("/form/submit", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	assert.Equal(t, 1, sub.calls)
	assert.Equal(t, []string{"E42"}, sub.ids)

	doc := c.page()
	assert.Equal(t, form.SubmitSuccessMessage, strings.TrimSpace(doc.Find("#submit-success").Text()))
	assert.Equal(t, 0, doc.Find("#submit-failure").Length())
}

func TestSubmit_StoresPostedEditsFirst(t *testing.T) {
	sub := &fakeSubmitter{}
	_, c := newTestServer(t, sub, nil)

	w := c.postForm("/form/submit", url.Values{"fullName": {"Jane Doe"}, "employeeId": {"E7"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	require.Len(t, sub.payloads, 1)
	assert.Equal(t, "Jane Doe !", sub.payloads[0].ProfileData.Name)
	assert.Equal(t, []string{"E7"}, sub.ids)
}

func TestSubmit_FailureShowsGenericMessage(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("dial tcp: connection refused")}
	_, c := newTestServer(t, sub, nil)

	w := c.postForm("/form/submit", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	doc := c.page()
	assert.Equal(t, form.SubmitFailureMessage, strings.TrimSpace(doc.Find("#submit-failure").Text()))
	assert.NotContains(t, doc.Text(), "connection refused")

	w = c.postJSON("/form/submit", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, form.SubmitFailureMessage, resp["error"])
}

func TestSubmitStream(t *testing.T) {
	sub := &fakeSubmitter{}
	_, c := newTestServer(t, sub, nil)

	w := c.do(httptest.NewRequest(http.MethodPost, "/form/submit/stream", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	var events []string
	var data []string
	scanner := bufio.NewScanner(w.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			events = append(events, name)
		}
		if payload, ok := strings.CutPrefix(line, "data: "); ok {
			data = append(data, payload)
		}
	}

	assert.Equal(t, []string{"state", "state", "complete"}, events)
	require.Len(t, data, 3)
	assert.JSONEq(t, `{"status":"submitting"}`, data[0])
	assert.JSONEq(t, `{"status":"succeeded","message":"Form submitted successfully!"}`, data[1])
	assert.JSONEq(t, `{"status":"succeeded"}`, data[2])
}

func TestImages_UploadBoth(t *testing.T) {
	_, c := newTestServer(t, nil, nil)

	body, contentType := multipartBody(t, map[string][]byte{
		"profileImage": pngBytes(t),
		"aboutImage":   pngBytes(t),
	})
	req := httptest.NewRequest(http.MethodPost, "/form/images", body)
	req.Header.Set("Content-Type", contentType)
	w := c.do(req)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	state := c.state()
	assert.True(t, strings.HasPrefix(state.Profile.ProfileImage, "data:image/png;base64,"))
	assert.True(t, strings.HasPrefix(state.Profile.AboutImage, "data:image/png;base64,"))

	doc := c.page()
	assert.Equal(t, 2, doc.Find("img.preview").Length())
}

func TestImage_SingleTarget(t *testing.T) {
	_, c := newTestServer(t, nil, nil)

	body, contentType := multipartBody(t, map[string][]byte{"file": pngBytes(t)})
	req := httptest.NewRequest(http.MethodPost, "/form/images/aboutImage", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	w := c.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	state := c.state()
	assert.Empty(t, state.Profile.ProfileImage)
	assert.True(t, strings.HasPrefix(state.Profile.AboutImage, "data:image/png;base64,"))

	body, contentType = multipartBody(t, map[string][]byte{"file": pngBytes(t)})
	req = httptest.NewRequest(http.MethodPost, "/form/images/tagline", body)
	req.Header.Set("Content-Type", contentType)
	assert.Equal(t, http.StatusBadRequest, c.do(req).Code)
}

func TestImage_Rejected(t *testing.T) {
	_, c := newTestServer(t, nil, &form.Options{Image: &imagecapture.Options{
		MaxBytes:     1024,
		AllowedTypes: imagecapture.DefaultAllowedTypes,
	}})

	body, contentType := multipartBody(t, map[string][]byte{"file": []byte("plain text, not an image")})
	req := httptest.NewRequest(http.MethodPost, "/form/images/profileImage", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	assert.Equal(t, http.StatusBadRequest, c.do(req).Code)

	body, contentType = multipartBody(t, map[string][]byte{"file": bytes.Repeat([]byte{0x89}, 4096)})
	req = httptest.NewRequest(http.MethodPost, "/form/images/profileImage", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	assert.Equal(t, http.StatusRequestEntityTooLarge, c.do(req).Code)

	assert.Empty(t, c.state().Profile.ProfileImage)
}

func TestRateLimit_Submit(t *testing.T) {
	s, err := New(Config{
		SessionTTL: time.Hour,
		RateLimit: &ratelimit.Config{
			Enabled:       true,
			DefaultLimit:  1000,
			DefaultWindow: time.Minute,
			Rules:         ratelimit.DefaultRules(),
		},
	}, &fakeSubmitter{})
	require.NoError(t, err)
	defer s.Close()
	c := &testClient{t: t, handler: s.Handler()}

	for i := 0; i < 3; i++ {
		w := c.postForm("/form/submit", nil)
		require.Equal(t, http.StatusSeeOther, w.Code, "submit %d", i+1)
		assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	}

	w := c.postForm("/form/submit", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", &ErrValidation{Field: "Section", Message: "oneof"}, http.StatusBadRequest},
		{"index", &form.IndexError{Section: types.SectionSkills, Index: 2}, http.StatusBadRequest},
		{"field", &form.FieldError{Field: "nickname"}, http.StatusBadRequest},
		{"incomplete", form.ErrIncompleteItem, http.StatusConflict},
		{"in progress", form.ErrSubmitInProgress, http.StatusConflict},
		{"submit failed", errors.Join(form.ErrSubmitFailed, errors.New("boom")), http.StatusBadGateway},
		{"image", &imagecapture.Error{Message: "unsupported type"}, http.StatusBadRequest},
		{"image too large", &imagecapture.Error{Message: "too big", Cause: imagecapture.ErrTooLarge}, http.StatusRequestEntityTooLarge},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestFieldLabel(t *testing.T) {
	assert.Equal(t, "Rating percentage", fieldLabel("ratingPercentage"))
	assert.Equal(t, "Full name", fieldLabel("fullName"))
	assert.Equal(t, "Date", fieldLabel("date"))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "%", itemLabel(types.SectionSkills, "ratingPercentage"))
	assert.Equal(t, "Tech Stack", itemLabel(types.SectionProjects, "subHeading"))
	assert.Equal(t, "Date (e.g. 2017-2021)", itemLabel(types.SectionEducation, "date"))
	assert.Equal(t, "Duration", itemLabel(types.SectionWorkHistory, "date"))
	assert.Equal(t, "Full Name", profileLabel(types.FieldFullName))

	for _, section := range types.SectionNames {
		item, err := types.NewItem(section)
		require.NoError(t, err)
		for _, field := range item.FieldNames() {
			assert.Contains(t, itemLabels[section], field, "%s.%s", section, field)
		}
		assert.NotEmpty(t, addLabels[section])
	}
	for _, field := range types.ScalarFields {
		assert.Contains(t, profileLabels, field)
	}
}

func TestNewPageView_NoticeRemaining(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	state := form.State{Notice: &form.Notice{
		Message:   form.IncompleteItemMessage,
		Severity:  form.SeverityWarning,
		ExpiresAt: now.Add(2500 * time.Millisecond),
	}}
	assert.Equal(t, int64(2500), newPageView(state, now).NoticeMillis)
	assert.Equal(t, int64(0), newPageView(state, now.Add(time.Minute)).NoticeMillis)
	assert.Equal(t, int64(0), newPageView(form.State{}, now).NoticeMillis)
}
