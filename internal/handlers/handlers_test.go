package handlers

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/crypto/bcrypt"

	"trip-guide/internal/client"
	"trip-guide/internal/config"
	"trip-guide/internal/guide"
	"trip-guide/internal/middleware"
	"trip-guide/internal/models"
	"trip-guide/internal/wizard"
)

// fakeCMSServer answers the CMS routes the guide and wizard use.
type fakeCMSServer struct {
	down        atomic.Bool
	failReorder atomic.Bool

	mu      sync.Mutex
	updates []client.TripUpdate
}

func (f *fakeCMSServer) handler() http.Handler {
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
	static := map[string]string{
		"GET /api/trips/slug/greek-isles":  `{"id":7,"slug":"greek-isles","name":"Greek Isles","start_date":"2025-06-10","end_date":"2025-06-15","hero_image_url":"https://img.example/hero.jpg"}`,
		"GET /api/trips":                   `[{"id":7,"slug":"greek-isles","name":"Greek Isles","start_date":"2025-06-10","end_date":"2025-06-15"}]`,
		"GET /api/trips/7/itinerary":       `[{"id":1,"trip_id":7,"date":"2025-06-10","location_name":"Athens","location_type":"embarkation"},{"id":2,"trip_id":7,"date":"2025-06-11","location_name":"Mykonos","location_type":"port","arrival_time":"08:00"}]`,
		"GET /api/trips/7/events":          `[{"id":10,"trip_id":7,"date":"2025-06-10","time":"22:00","title":"White Party","type":"party","party_theme_id":3},{"id":12,"trip_id":7,"date":"2025-06-10","time":"13:00","title":"Sail Away"}]`,
		"GET /api/trips/7/talent":          `[{"id":1,"name":"Alma","category":"Comedian"}]`,
		"GET /api/trips/7/info-sections":   `[{"id":1,"trip_id":7,"title":"Boarding","content":"Bring your passport"}]`,
		"GET /api/trips/7/faqs":            `[{"id":1,"trip_id":7,"question":"Dress code?","answer":"Anything goes"}]`,
		"GET /api/admin/party-themes":      `[{"id":3,"name":"White Party"}]`,
		"GET /api/admin/trips/7":           `{"id":7,"slug":"greek-isles","name":"Greek Isles","start_date":"2025-06-10","end_date":"2025-06-15"}`,
		"GET /api/admin/trips/7/itinerary": `[{"id":1,"trip_id":7,"date":"2025-06-10","location_name":"Athens","location_type":"embarkation"}]`,
		"GET /api/admin/trips/7/events":    `[{"id":10,"trip_id":7,"date":"2025-06-10","time":"22:00","title":"White Party","type":"party","party_theme_id":3,"talent_ids":[1]}]`,
		"GET /api/admin/trips/7/talent":    `[{"id":1,"name":"Alma","category":"Comedian","social_links":{"instagram":"https://instagram.com/alma"}}]`,
		"GET /api/admin/users":             `[{"id":"u-1","email":"ed@trip-guide.test","role":"content_editor","is_active":true}]`,
	}
	for pattern, body := range static {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) { write(w, http.StatusOK, body) })
	}
	mux.HandleFunc("GET /api/trips/slug/{slug}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("slug") == awkwardSlug {
			write(w, http.StatusOK, static["GET /api/trips/slug/greek-isles"])
			return
		}
		write(w, http.StatusNotFound, `{"error":"Trip not found"}`)
	})
	mux.HandleFunc("POST /api/admin/party-themes", func(w http.ResponseWriter, r *http.Request) {
		var in client.PartyTheme
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Name == "Taken" {
			write(w, http.StatusConflict, `{"code":"CONFLICT","message":"A theme with that name exists"}`)
			return
		}
		in.ID = 50
		out, _ := json.Marshal(in)
		write(w, http.StatusCreated, string(out))
	})
	mux.HandleFunc("GET /api/trips/7/updates", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		out, _ := json.Marshal(f.updates)
		f.mu.Unlock()
		write(w, http.StatusOK, string(out))
	})
	mux.HandleFunc("PUT /api/trips/7/updates/reorder", func(w http.ResponseWriter, r *http.Request) {
		if f.failReorder.Load() {
			write(w, http.StatusServiceUnavailable, `{"code":"SERVICE_UNAVAILABLE","message":"try later"}`)
			return
		}
		var body struct {
			Updates []client.UpdateOrder `json:"updates"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		byID := map[int64]client.TripUpdate{}
		for _, u := range f.updates {
			byID[u.ID] = u
		}
		f.updates = f.updates[:0]
		for _, o := range body.Updates {
			u := byID[o.ID]
			u.OrderIndex = o.OrderIndex
			f.updates = append(f.updates, u)
		}
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.down.Load() {
			write(w, http.StatusServiceUnavailable, `{"error":"maintenance"}`)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

type memoryPrefs struct {
	mu   sync.Mutex
	days map[string][]string
}

func (m *memoryPrefs) GetCollapsedDays(_ context.Context, visitor uuid.UUID, slug string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.days[visitor.String()+"/"+slug]...), nil
}

func (m *memoryPrefs) SetCollapsedDays(_ context.Context, p *models.VisitorPreference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.days[p.VisitorID.String()+"/"+p.Slug] = p.CollapsedDays
	return nil
}

type memoryAudit struct {
	mu      sync.Mutex
	entries []*models.AuditEntry
}

func (m *memoryAudit) RecordAudit(_ context.Context, e *models.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.CreatedAt = time.Now()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memoryAudit) RecentAudit(_ context.Context, limit int) ([]*models.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.AuditEntry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

type testEnv struct {
	cms     *fakeCMSServer
	prefs   *memoryPrefs
	audit   *memoryAudit
	cfg     *config.Config
	handler http.Handler
}

const testPassword = "correct horse battery"

// awkwardSlug resolves to the Greek Isles trip and needs quoting in headers.
const awkwardSlug = `isles"; x=1`

func newTestEnv(t *testing.T) *testEnv {
	cms := &fakeCMSServer{updates: []client.TripUpdate{
		{ID: 1, TripID: 7, Title: "Boarding", OrderIndex: 0},
		{ID: 2, TripID: 7, Title: "Weather", OrderIndex: 1},
		{ID: 3, TripID: 7, Title: "Dinner", OrderIndex: 2},
	}}
	srv := httptest.NewServer(cms.handler())
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.New()
	cfg.SessionSecret = "test-secret-0123456789"
	cfg.AdminEmail = "admin@trip-guide.test"
	cfg.AdminPasswordHash = string(hash)
	cfg.StaticDir = ""

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	builder := guide.NewBuilder(c, guide.Options{
		Location: time.UTC,
		Clock:    func() time.Time { return now },
	})
	prefs := &memoryPrefs{days: map[string][]string{}}
	audit := &memoryAudit{}
	editor := wizard.NewEditor(c, wizard.NewAuditLog(audit, nil), nil, nil)

	s := &Server{
		Config: cfg,
		Auth:   NewAuthHandler(cfg, nil),
		Guide:  NewGuideHandler(builder, prefs, nil),
		Admin:  NewAdminHandler(editor, wizard.NewSessions(nil, nil), c, audit, time.UTC, nil),
		Health: NewHealthHandler(nil, nil),
	}
	return &testEnv{cms: cms, prefs: prefs, audit: audit, cfg: cfg, handler: s.Routes()}
}

func (e *testEnv) do(method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)
	return w
}

func (e *testEnv) session(role string) *http.Cookie {
	c, err := middleware.CreateSessionCookie("admin", e.cfg.AdminEmail, role, e.cfg.SessionSecret, false)
	if err != nil {
		panic(err)
	}
	return c
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

func TestGuideRoutes(t *testing.T) {
	Convey("Given a guide server backed by a reachable CMS", t, func() {
		env := newTestEnv(t)

		Convey("When the JSON guide is requested", func() {
			w := env.do(http.MethodGet, "/api/guide/greek-isles", "")

			Convey("Then the view model is returned with a visitor cookie", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decode(w)
				So(body["status"], ShouldEqual, "upcoming")
				So(body["starts_in"], ShouldEqual, "in 1 week")
				So(len(body["itinerary"].([]any)), ShouldEqual, 2)
				So(w.Header().Get("Set-Cookie"), ShouldContainSubstring, middleware.VisitorCookieName)
			})
		})

		Convey("When the HTML page is requested for a tab", func() {
			w := env.do(http.MethodGet, "/trips/greek-isles?tab=schedule", "")

			Convey("Then the schedule tab is rendered", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "text/html")
				So(w.Body.String(), ShouldContainSubstring, "Greek Isles")
				So(w.Body.String(), ShouldContainSubstring, "10:00 PM")
			})
		})

		Convey("When an unknown trip is requested", func() {
			w := env.do(http.MethodGet, "/api/guide/nowhere", "")

			Convey("Then the answer is 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decode(w)["error"], ShouldEqual, "Trip not found")
			})
		})

		Convey("When the schedule is requested without a status", func() {
			w := env.do(http.MethodGet, "/api/guide/greek-isles/schedule", "")

			Convey("Then the computed status is used", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode(w)["status"], ShouldEqual, "upcoming")
			})
		})

		Convey("When an editor previews the schedule with an unknown status", func() {
			w := env.do(http.MethodGet, "/api/guide/greek-isles/schedule?status=later", "", env.session("content_editor"))

			Convey("Then the request is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When an editor previews the schedule as past", func() {
			w := env.do(http.MethodGet, "/api/guide/greek-isles/schedule?status=past", "", env.session("content_editor"))

			Convey("Then the override is echoed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode(w)["status"], ShouldEqual, "past")
			})
		})

		Convey("When a visitor asks for a status override", func() {
			w := env.do(http.MethodGet, "/api/guide/greek-isles/schedule?status=past", "")
			viewer := env.do(http.MethodGet, "/api/guide/greek-isles/schedule?status=past", "", env.session("viewer"))

			Convey("Then the preview is refused", func() {
				So(w.Code, ShouldEqual, http.StatusForbidden)
				So(viewer.Code, ShouldEqual, http.StatusForbidden)
			})
		})

		Convey("When the calendar is downloaded", func() {
			w := env.do(http.MethodGet, "/trips/greek-isles/calendar.ics", "")

			Convey("Then every event is exported", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "text/calendar")
				So(strings.Count(w.Body.String(), "BEGIN:VEVENT"), ShouldEqual, 2)
			})
		})

		Convey("When the calendar slug needs quoting", func() {
			w := env.do(http.MethodGet, "/trips/"+url.PathEscape(awkwardSlug)+"/calendar.ics", "")

			Convey("Then the filename stays a single parameter", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
				So(err, ShouldBeNil)
				So(disposition, ShouldEqual, "attachment")
				So(params, ShouldResemble, map[string]string{"filename": awkwardSlug + ".ics"})
			})
		})

		Convey("When the CMS goes down and no snapshot exists", func() {
			env.cms.down.Store(true)
			w := env.do(http.MethodGet, "/api/guide/greek-isles", "")

			Convey("Then the guide answers 502", func() {
				So(w.Code, ShouldEqual, http.StatusBadGateway)
			})
		})

		Convey("When a visitor collapses a day", func() {
			first := env.do(http.MethodGet, "/api/guide/greek-isles/collapsed", "")
			visitor := first.Result().Cookies()[0]
			w := env.do(http.MethodPut, "/api/guide/greek-isles/collapsed", `{"toggle":"2025-06-11"}`, visitor)

			Convey("Then the day stays collapsed for that visitor only", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode(w)["days"], ShouldResemble, []any{"2025-06-11"})

				g := decode(env.do(http.MethodGet, "/api/guide/greek-isles", "", visitor))
				days := g["itinerary"].([]any)
				So(days[1].(map[string]any)["collapsed"], ShouldBeTrue)

				other := decode(env.do(http.MethodGet, "/api/guide/greek-isles/collapsed", ""))
				So(other["days"], ShouldBeEmpty)
			})
		})

		Convey("When a visitor toggles something that is not a date", func() {
			w := env.do(http.MethodPut, "/api/guide/greek-isles/collapsed", `{"toggle":"tuesday"}`)

			Convey("Then the request is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When health is checked", func() {
			w := env.do(http.MethodGet, "/healthz", "")

			Convey("Then it is ok", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestAuthRoutes(t *testing.T) {
	Convey("Given the login page", t, func() {
		env := newTestEnv(t)

		Convey("When the right credentials are posted", func() {
			form := url.Values{"email": {"Admin@Trip-Guide.test"}, "password": {testPassword}}
			r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := httptest.NewRecorder()
			env.handler.ServeHTTP(w, r)

			Convey("Then a session is issued and the editor lands on /admin", func() {
				So(w.Code, ShouldEqual, http.StatusFound)
				So(w.Header().Get("Location"), ShouldEqual, "/admin")
				var session *http.Cookie
				for _, c := range w.Result().Cookies() {
					if c.Name == middleware.SessionCookieName {
						session = c
					}
				}
				So(session, ShouldNotBeNil)

				dash := env.do(http.MethodGet, "/admin", "", session)
				So(dash.Code, ShouldEqual, http.StatusOK)
				So(dash.Body.String(), ShouldContainSubstring, "Greek Isles")
			})
		})

		Convey("When the wrong password is posted", func() {
			form := url.Values{"email": {"admin@trip-guide.test"}, "password": {"nope"}}
			r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := httptest.NewRecorder()
			env.handler.ServeHTTP(w, r)

			Convey("Then the form is shown again with an error", func() {
				So(w.Code, ShouldEqual, http.StatusUnauthorized)
				So(w.Body.String(), ShouldContainSubstring, "Invalid email or password")
			})
		})

		Convey("When the dashboard is opened without a session", func() {
			w := env.do(http.MethodGet, "/admin", "")

			Convey("Then the browser is sent to the login page", func() {
				So(w.Code, ShouldEqual, http.StatusFound)
				So(w.Header().Get("Location"), ShouldEqual, "/login")
			})
		})
	})
}

func TestAdminWizardRoutes(t *testing.T) {
	Convey("Given a signed-in editor", t, func() {
		env := newTestEnv(t)
		editor := env.session("content_editor")

		Convey("When the wizard API is called without a session", func() {
			w := env.do(http.MethodPost, "/admin/api/party-themes", `{"name":"Neon"}`)

			Convey("Then it answers 401 JSON", func() {
				So(w.Code, ShouldEqual, http.StatusUnauthorized)
			})
		})

		Convey("When a valid party theme is created", func() {
			w := env.do(http.MethodPost, "/admin/api/party-themes", `{"name":"Neon"}`, editor)

			Convey("Then the toast reports success and the write is audited", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				body := decode(w)
				So(body["toast"].(map[string]any)["kind"], ShouldEqual, "success")
				So(body["data"].(map[string]any)["id"], ShouldEqual, 50.0)
				So(env.audit.entries, ShouldHaveLength, 1)
				So(env.audit.entries[0].Action, ShouldEqual, "admin.party_theme.create")
			})
		})

		Convey("When an invalid party theme is submitted", func() {
			w := env.do(http.MethodPost, "/admin/api/party-themes", `{"name":""}`, editor)

			Convey("Then it is rejected with a validation toast", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["toast"].(map[string]any)["title"], ShouldEqual, "Validation Error")
				So(env.audit.entries, ShouldBeEmpty)
			})
		})

		Convey("When the CMS rejects a duplicate", func() {
			w := env.do(http.MethodPost, "/admin/api/party-themes", `{"name":"Taken"}`, editor)

			Convey("Then the CMS message reaches the toast", func() {
				So(w.Code, ShouldEqual, http.StatusConflict)
				So(decode(w)["toast"].(map[string]any)["message"], ShouldEqual, "A theme with that name exists")
			})
		})

		Convey("When the CMS is down", func() {
			env.cms.down.Store(true)
			w := env.do(http.MethodPost, "/admin/api/party-themes", `{"name":"Neon"}`, editor)

			Convey("Then the answer is 502 with the generic toast", func() {
				So(w.Code, ShouldEqual, http.StatusBadGateway)
				So(decode(w)["toast"].(map[string]any)["kind"], ShouldEqual, "error")
			})
		})

		Convey("When a trip's content is loaded for editing", func() {
			w := env.do(http.MethodGet, "/admin/api/trips/7", "", editor)

			Convey("Then every section comes back as prefilled forms", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decode(w)
				So(body["trip"].(map[string]any)["status"], ShouldEqual, "upcoming")
				So(body["itinerary"], ShouldHaveLength, 1)
				event := body["events"].([]any)[0].(map[string]any)
				So(event["party_theme_id"], ShouldEqual, 3.0)
				So(event["talent_ids"], ShouldResemble, []any{1.0})
				So(body["talent"].([]any)[0].(map[string]any)["category"], ShouldEqual, "Comedian")
			})
		})

		Convey("When an editor lists users", func() {
			w := env.do(http.MethodGet, "/admin/api/users", "", editor)

			Convey("Then only admins may", func() {
				So(w.Code, ShouldEqual, http.StatusForbidden)

				w = env.do(http.MethodGet, "/admin/api/users", "", env.session(AdminRole))
				So(w.Code, ShouldEqual, http.StatusOK)
				var users []map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &users), ShouldBeNil)
				So(users, ShouldHaveLength, 1)
				So(users[0]["email"], ShouldEqual, "ed@trip-guide.test")
				So(users[0], ShouldNotContainKey, "password")
			})
		})

		Convey("When an update is moved", func() {
			w := env.do(http.MethodPost, "/admin/api/trips/7/updates/move", `{"from":2,"to":0}`, editor)

			Convey("Then the new order is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				data := decode(w)["data"].([]any)
				So(data[0].(map[string]any)["title"], ShouldEqual, "Dinner")
			})
		})

		Convey("When a move is rejected by the CMS", func() {
			env.cms.failReorder.Store(true)
			w := env.do(http.MethodPost, "/admin/api/trips/7/updates/move", `{"from":2,"to":0}`, editor)

			Convey("Then the server order comes back with the error", func() {
				So(w.Code, ShouldEqual, http.StatusBadGateway)
				data := decode(w)["data"].([]any)
				So(data[0].(map[string]any)["title"], ShouldEqual, "Boarding")
			})
		})

		Convey("When a draft is saved and read back", func() {
			put := env.do(http.MethodPut, "/admin/api/trips/7/draft", `{"step":"events","event":{"title":"Half done","date":"","time":"","type":""}}`, editor)
			get := env.do(http.MethodGet, "/admin/api/trips/7/draft", "", editor)

			Convey("Then the wizard resumes on the same step", func() {
				So(put.Code, ShouldEqual, http.StatusOK)
				So(get.Code, ShouldEqual, http.StatusOK)
				body := decode(get)
				So(body["step"], ShouldEqual, "events")
				So(body["event"].(map[string]any)["title"], ShouldEqual, "Half done")
			})
		})

		Convey("When a draft names an unknown step", func() {
			w := env.do(http.MethodPut, "/admin/api/trips/7/draft", `{"step":"payment"}`, editor)

			Convey("Then it is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When a content editor tries to manage users", func() {
			w := env.do(http.MethodDelete, "/admin/api/users/u-1", "", editor)

			Convey("Then it is forbidden", func() {
				So(w.Code, ShouldEqual, http.StatusForbidden)
			})
		})

		Convey("When the trip id is not a number", func() {
			w := env.do(http.MethodDelete, "/admin/api/trips/abc/events/1", "", editor)

			Convey("Then the answer is 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestErrorStatus(t *testing.T) {
	Convey("Wizard and CMS errors map onto admin API statuses", t, func() {
		cases := map[error]int{
			&wizard.ValidationError{Fields: map[string]string{"name": "Name is required"}}: http.StatusBadRequest,
			wizard.ErrOutOfRange:                                    http.StatusBadRequest,
			&client.APIError{Status: http.StatusNotFound}:           http.StatusNotFound,
			&client.APIError{Status: http.StatusConflict}:           http.StatusConflict,
			&client.APIError{Status: http.StatusUnauthorized}:       http.StatusBadGateway,
			&client.APIError{Status: http.StatusServiceUnavailable}: http.StatusBadGateway,
			client.ErrInvalidResponse:                               http.StatusBadGateway,
			context.Canceled:                                        http.StatusInternalServerError,
		}
		for err, want := range cases {
			So(errorStatus(err), ShouldEqual, want)
		}
	})
}

func TestRoles(t *testing.T) {
	Convey("Given requests carrying different roles", t, func() {
		withRole := func(role string) *http.Request {
			r := httptest.NewRequest(http.MethodGet, "/admin/api/me", nil)
			return r.WithContext(context.WithValue(r.Context(), middleware.UserRoleKey, role))
		}

		Convey("Admins may edit and manage users", func() {
			So(IsAdmin(withRole(AdminRole)), ShouldBeTrue)
			So(IsEditor(withRole("admin")), ShouldBeTrue)
		})

		Convey("Content editors may only edit", func() {
			So(IsEditor(withRole("content_editor")), ShouldBeTrue)
			So(IsAdmin(withRole("content_editor")), ShouldBeFalse)
		})

		Convey("Viewers and anonymous requests may do neither", func() {
			So(IsEditor(withRole("viewer")), ShouldBeFalse)
			So(IsAdmin(httptest.NewRequest(http.MethodGet, "/", nil)), ShouldBeFalse)
		})
	})
}
