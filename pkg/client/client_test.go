package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/planit-ai/planit/pkg/domain"
)

// fakeSession is a minimal Session for tests.
type fakeSession struct {
	mu      sync.Mutex
	token   string
	cleared int
}

func (s *fakeSession) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *fakeSession) ClearAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.cleared++
}

func (s *fakeSession) ClearAuthIf(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != token {
		return false
	}
	s.token = ""
	s.cleared++
	return true
}

func (s *fakeSession) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func TestBearerHeader(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode(domain.AccountProfile{UserID: 3, Nickname: "mina"}) //nolint:errcheck
	}))
	defer srv.Close()

	sess := &fakeSession{token: "test-token"}
	c := New(srv.URL, sess)
	p, err := c.GetProfile(context.Background())
	if err != nil {
		t.Fatalf("GetProfile() error: %v", err)
	}
	if p.Nickname != "mina" {
		t.Errorf("Nickname = %q", p.Nickname)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReqID == "" {
		t.Error("missing X-Request-ID")
	}

	// Token is read per request.
	sess.ClearAuth()
	if _, err := c.GetProfile(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization after logout = %q, want none", gotAuth)
	}
}

func TestUnauthorizedWithToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "token expired"}) //nolint:errcheck
	}))
	defer srv.Close()

	sess := &fakeSession{token: "stale"}
	redirects := 0
	c := New(srv.URL, sess, WithOnUnauthorized(func() { redirects++ }))

	_, err := c.GetMyPage(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Error("IsStatus(401) = false on wrapped error")
	}
	if sess.cleared != 1 {
		t.Errorf("session cleared %d times, want 1", sess.cleared)
	}
	if redirects != 1 {
		t.Errorf("redirect hook ran %d times, want 1", redirects)
	}
}

func TestUnauthorizedForReplacedToken(t *testing.T) {
	sess := &fakeSession{token: "old"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer old" {
			// The user signs in again before the stale request is answered.
			sess.setToken("new")
		}
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "token expired"}) //nolint:errcheck
	}))
	defer srv.Close()

	redirects := 0
	c := New(srv.URL, sess, WithOnUnauthorized(func() { redirects++ }))

	_, err := c.GetMyPage(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if got := sess.AccessToken(); got != "new" {
		t.Errorf("token after late 401 = %q, want the new session kept", got)
	}
	if sess.cleared != 0 || redirects != 0 {
		t.Errorf("cleared=%d redirects=%d, want 0/0", sess.cleared, redirects)
	}
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "bad credentials"}) //nolint:errcheck
	}))
	defer srv.Close()

	sess := &fakeSession{}
	redirects := 0
	c := New(srv.URL, sess, WithOnUnauthorized(func() { redirects++ }))

	_, err := c.Login(context.Background(), "mina_01", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("anonymous 401 reported as session expiry")
	}
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("err = %v, want HTTP 401", err)
	}
	if got := Message(err); got != "bad credentials" {
		t.Errorf("Message = %q", got)
	}
	if sess.cleared != 0 || redirects != 0 {
		t.Errorf("cleared=%d redirects=%d, want 0/0", sess.cleared, redirects)
	}
}

func TestNilSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("unexpected Authorization header")
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	if _, err := c.GetProfile(context.Background()); !IsStatus(err, 401) {
		t.Errorf("err = %v", err)
	}
}

func TestErrorShapes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
		wantMsg  string
	}{
		{"string error", `{"error":"boom"}`, "", "boom"},
		{"flat code", `{"code":"USER_DUPLICATE_NICKNAME","message":"taken"}`, "USER_DUPLICATE_NICKNAME", "taken"},
		{"nested", `{"error":{"code":"TRIP_007","message":"one trip per day"}}`, "TRIP_007", "one trip per day"},
		{"plain text", `gateway down`, "", "gateway down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				io.WriteString(w, tt.body) //nolint:errcheck
			}))
			defer srv.Close()

			c := New(srv.URL, nil)
			_, err := c.CreateTrip(context.Background(), domain.CreateTripRequest{})
			var httpErr *HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("err = %v, want *HTTPError", err)
			}
			if httpErr.Code != tt.wantCode || httpErr.Message != tt.wantMsg {
				t.Errorf("got code=%q msg=%q", httpErr.Code, httpErr.Message)
			}
			if tt.wantCode != "" && !IsCode(err, tt.wantCode) {
				t.Errorf("IsCode(%q) = false", tt.wantCode)
			}
		})
	}
}

func TestTripEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trips/42/itineraries" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, `{"data":{"tripId":42,"itineraries":[{"day":1,"dayId":9,"activities":[{"placeName":"Dotonbori","startTime":"10:00","cost":3}]}]}}`) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeSession{token: "t"})
	trip, err := c.TripItineraries(context.Background(), 42)
	if err != nil {
		t.Fatalf("TripItineraries() error: %v", err)
	}
	if !trip.Ready() || trip.TripID != 42 {
		t.Fatalf("trip = %+v", trip)
	}
	day, ok := trip.Day(1)
	if !ok || day.ID() != 9 || day.Activities[0].PlaceName != "Dotonbori" {
		t.Errorf("day 1 = %+v", day)
	}
}

func TestCreateTripPayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/trips" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		json.NewDecoder(r.Body).Decode(&got)       //nolint:errcheck
		io.WriteString(w, `{"data":{"tripId":7}}`) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	trip, err := c.CreateTrip(context.Background(), domain.CreateTripRequest{
		Title:       "Osaka",
		ArrivalTime: "09:00",
		TravelCity:  "OSAKA_JP",
		TotalBudget: 30,
		TravelTheme: []string{"food"},
		WantedPlace: []string{},
	})
	if err != nil {
		t.Fatal(err)
	}
	if trip.TripID != 7 || trip.Ready() {
		t.Errorf("trip = %+v", trip)
	}
	for _, k := range []string{"title", "arrivalTime", "travelCity", "totalBudget", "travelTheme", "wantedPlace"} {
		if _, ok := got[k]; !ok {
			t.Errorf("payload missing %q: %v", k, got)
		}
	}
}

func TestListPostsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("boardType") != "FREE" || q.Get("sort") != "like" || q.Get("search") != "osaka" || q.Get("page") != "2" || q.Get("size") != "10" {
			t.Errorf("query = %v", q)
		}
		json.NewEncoder(w).Encode(domain.PostPage{ //nolint:errcheck
			Posts:   []domain.PostListItem{{PostID: 1, Title: "hi", CreatedAt: time.Now()}},
			HasMore: true,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	page, err := c.ListPosts(context.Background(), PostQuery{BoardType: "FREE", Sort: "like", Search: "osaka", Page: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Posts) != 1 || !page.HasMore {
		t.Errorf("page = %+v", page)
	}
}

func TestNotifications(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/notifications":
			if r.URL.Query().Get("isRead") != "false" || r.URL.Query().Get("cursor") != "5" {
				t.Errorf("query = %v", r.URL.Query())
			}
			io.WriteString(w, `{"notifications":[{"notificationId":1,"type":"LIKE","postId":2,"previewText":"x","isRead":false,"createdAt":"2026-01-02T03:04:05Z"}],"unreadCount":4,"nextCursor":null}`) //nolint:errcheck
		case r.URL.Path == "/notifications/1/read" && r.Method == http.MethodPatch:
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/notifications/unread-count":
			io.WriteString(w, `{"unreadCount":3}`) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeSession{token: "t"})
	ctx := context.Background()
	cursor := int64(5)
	unread := false
	page, err := c.ListNotifications(ctx, NotificationQuery{Cursor: &cursor, IsRead: &unread})
	if err != nil {
		t.Fatal(err)
	}
	if page.UnreadCount != 4 || page.NextCursor != nil || len(page.Notifications) != 1 {
		t.Errorf("page = %+v", page)
	}
	if err := c.MarkNotificationRead(ctx, 1); err != nil {
		t.Errorf("MarkNotificationRead: %v", err)
	}
	n, err := c.UnreadNotificationCount(ctx)
	if err != nil || n != 3 {
		t.Errorf("UnreadNotificationCount = %d, %v", n, err)
	}
}

func TestSearchPlaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"data":{"items":[{"googlePlaceId":"g1","name":"Osaka Castle","marker":{"lat":34.68,"lng":135.52}}]}}`) //nolint:errcheck
	}))
	defer srv.Close()

	places, err := New(srv.URL, nil).SearchPlaces(context.Background(), "OSAKA_JP", "castle")
	if err != nil {
		t.Fatal(err)
	}
	if len(places) != 1 || places[0].GooglePlaceID != "g1" || places[0].Marker.Lat != 34.68 {
		t.Errorf("places = %+v", places)
	}
}

func TestUploadOmitsBearer(t *testing.T) {
	var gotAuth, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
	}))
	defer srv.Close()

	c := New("http://unused", &fakeSession{token: "secret"})
	err := c.Upload(context.Background(), srv.URL+"/bucket/k.png", "image/png", strings.NewReader("png!"), 4)
	if err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Errorf("bearer leaked to storage host: %q", gotAuth)
	}
	if gotType != "image/png" || gotBody != "png!" {
		t.Errorf("type=%q body=%q", gotType, gotBody)
	}
}

func TestEmptySuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if _, err := New(srv.URL, nil).DeleteProfileImage(context.Background()); err != nil {
		t.Errorf("empty body should not fail: %v", err)
	}
}

func TestRateLimitHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `[]`) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil, WithRateLimit(0.001, 1))
	if _, err := c.ListMyPlans(context.Background()); err != nil {
		t.Fatalf("first request: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.ListMyPlans(ctx); err == nil {
		t.Error("second request should be throttled until the context expires")
	}
}
