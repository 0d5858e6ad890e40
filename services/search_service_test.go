package services

import (
	"context"
	"errors"
	"testing"

	"edubridge_server/models"
)

func newSearchService(store *fakeStore, allowCollegeToCollege, requireQuery bool) *SearchService {
	return &SearchService{
		Dynamo:        store,
		RequestPolicy: models.RequestPolicy{AllowCollegeToCollege: allowCollegeToCollege},
		Policy:        SearchPolicy{RequireQuery: requireQuery, SearchLimit: 50, FeaturedLimit: 20},
	}
}

func TestSearchScopesToTargetCategory(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newSearchService(store, false, false)

	seedUser(t, store, "junior", "Asha", models.CategorySchool)
	seedUser(t, store, "junior2", "Zoe", models.CategorySchool)
	senior := seedUser(t, store, "senior", "Ben", models.CategoryCollege)
	senior.College = "State University"
	if err := store.PutItem(ctx, models.UsersTable, *senior); err != nil {
		t.Fatalf("PutItem: %v", err)
	}

	inactive := seedUser(t, store, "senior2", "Eli", models.CategoryCollege)
	inactive.IsActive = false
	if err := store.PutItem(ctx, models.UsersTable, *inactive); err != nil {
		t.Fatalf("PutItem: %v", err)
	}

	results, err := svc.Search(ctx, "junior", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "senior" {
		t.Errorf("results = %+v, want only the active college student", results)
	}
}

func TestSearchQueryMatching(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newSearchService(store, false, false)

	seedUser(t, store, "junior", "Asha", models.CategorySchool)

	physics := seedUser(t, store, "senior", "Ben", models.CategoryCollege)
	physics.FieldOfStudy = "Physics"
	physics.Interests = []string{"Robotics", "Chess"}
	if err := store.PutItem(ctx, models.UsersTable, *physics); err != nil {
		t.Fatalf("PutItem: %v", err)
	}
	history := seedUser(t, store, "senior2", "Eli", models.CategoryCollege)
	history.FieldOfStudy = "History"
	if err := store.PutItem(ctx, models.UsersTable, *history); err != nil {
		t.Fatalf("PutItem: %v", err)
	}

	for _, query := range []string{"physics", "PHYS", "robot"} {
		results, err := svc.Search(ctx, "junior", query)
		if err != nil {
			t.Fatalf("Search(%q): %v", query, err)
		}
		if len(results) != 1 || results[0].ID != "senior" {
			t.Errorf("Search(%q) = %+v, want the physics student", query, results)
		}
	}

	results, err := svc.Search(ctx, "junior", "nothing matches this")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v, want none", results)
	}
}

func TestSearchAnnotations(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newSearchService(store, false, false)
	connections := newConnectionService(store, &fakeNotifier{}, false)

	seedUser(t, store, "junior", "Asha", models.CategorySchool)
	seedUser(t, store, "sent-to", "Ben", models.CategoryCollege)
	seedUser(t, store, "received-from", "Eli", models.CategoryCollege)
	seedUser(t, store, "connected", "Mia", models.CategoryCollege)
	seedUser(t, store, "stranger", "Noa", models.CategoryCollege)

	if _, err := connections.SendRequest(ctx, "junior", "sent-to", ""); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	// An incoming pending request from a college student.
	request := models.ConnectionRequest{
		RequestID:  "req-incoming",
		SenderID:   "received-from",
		ReceiverID: "junior",
		Status:     models.RequestStatusPending,
		CreatedAt:  "2026-01-01T00:00:00Z",
		UpdatedAt:  "2026-01-01T00:00:00Z",
	}
	if err := store.PutItem(ctx, models.ConnectionRequestsTable, request); err != nil {
		t.Fatalf("PutItem: %v", err)
	}
	connectUsers(t, store, "junior", "connected")

	results, err := svc.Search(ctx, "junior", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	byID := map[string]models.SearchResult{}
	for _, result := range results {
		byID[result.ID] = result
	}
	if len(byID) != 4 {
		t.Fatalf("results = %+v, want 4 candidates", results)
	}
	if r := byID["sent-to"]; !r.RequestSent || r.RequestReceived || r.IsConnected {
		t.Errorf("sent-to annotations = %+v", r)
	}
	if r := byID["received-from"]; r.RequestSent || !r.RequestReceived || r.IsConnected {
		t.Errorf("received-from annotations = %+v", r)
	}
	if r := byID["connected"]; r.RequestSent || r.RequestReceived || !r.IsConnected {
		t.Errorf("connected annotations = %+v", r)
	}
	if r := byID["stranger"]; r.RequestSent || r.RequestReceived || r.IsConnected {
		t.Errorf("stranger annotations = %+v", r)
	}
}

func TestSearchPrivileges(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()

	seedUser(t, store, "senior", "Ben", models.CategoryCollege)
	seedUser(t, store, "senior2", "Eli", models.CategoryCollege)

	restricted := newSearchService(store, false, false)
	if _, err := restricted.Search(ctx, "senior", ""); !errors.Is(err, ErrSearchForbidden) {
		t.Errorf("college search (disabled): got %v, want ErrSearchForbidden", err)
	}

	allowed := newSearchService(store, true, false)
	results, err := allowed.Search(ctx, "senior", "")
	if err != nil {
		t.Fatalf("college search (enabled): %v", err)
	}
	if len(results) != 1 || results[0].ID != "senior2" {
		t.Errorf("results = %+v, want the other college student", results)
	}
}

func TestSearchRequireQuery(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newSearchService(store, false, true)

	seedUser(t, store, "junior", "Asha", models.CategorySchool)
	seedUser(t, store, "senior", "Ben", models.CategoryCollege)

	if _, err := svc.Search(ctx, "junior", "   "); !errors.Is(err, ErrQueryRequired) {
		t.Errorf("empty query: got %v, want ErrQueryRequired", err)
	}
	if _, err := svc.Search(ctx, "junior", "Ben"); err != nil {
		t.Errorf("non-empty query: %v", err)
	}
}

func TestSearchFeaturedSet(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newSearchService(store, false, false)
	svc.Policy.FeaturedLimit = 2

	seedUser(t, store, "junior", "Asha", models.CategorySchool)
	for i, created := range []string{"2026-01-01T00:00:00Z", "2026-01-03T00:00:00Z", "2026-01-02T00:00:00Z"} {
		user := seedUser(t, store, []string{"a", "b", "c"}[i], "Senior", models.CategoryCollege)
		user.CreatedAt = created
		if err := store.PutItem(ctx, models.UsersTable, *user); err != nil {
			t.Fatalf("PutItem: %v", err)
		}
	}

	results, err := svc.Search(ctx, "junior", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want FeaturedLimit", len(results))
	}
	if results[0].ID != "b" || results[1].ID != "c" {
		t.Errorf("featured order = %q, %q, want newest first", results[0].ID, results[1].ID)
	}
}

func TestSearchUnknownRequester(t *testing.T) {
	store := newFakeStore()
	svc := newSearchService(store, false, false)
	if _, err := svc.Search(context.Background(), "ghost", ""); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("got %v, want ErrUserNotFound", err)
	}
}
