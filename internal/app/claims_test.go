package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/paracurve/claimdesk/internal/api"
	"github.com/paracurve/claimdesk/internal/attachment"
	"github.com/paracurve/claimdesk/internal/domain"
	"github.com/paracurve/claimdesk/internal/export"
	"github.com/paracurve/claimdesk/internal/fetch"
	"github.com/paracurve/claimdesk/internal/localstore"
	"github.com/paracurve/claimdesk/internal/notify"
	"github.com/paracurve/claimdesk/internal/workflow"
)

type testEnv struct {
	claims     *ClaimService
	allowances *AllowanceService
	policies   *PolicyService
	org        *OrgService
	center     *notify.Center
	cache      *fetch.Store
}

func newTestEnv(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := api.NewClient(api.Config{BaseURL: srv.URL}, api.StaticToken("test-token"), zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	local, err := localstore.Open(filepath.Join(t.TempDir(), "app.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("localstore.Open: %v", err)
	}
	t.Cleanup(func() { local.Close() })

	cache := fetch.New(time.Minute, zap.NewNop())
	center := notify.NewCenter(10, zap.NewNop())
	exporter := export.NewExcelExporter(zap.NewNop())
	preflight := attachment.NewValidator(0, zap.NewNop())

	return &testEnv{
		claims:     NewClaimService(client, cache, center, local, exporter, zap.NewNop()),
		allowances: NewAllowanceService(client, cache, center, exporter, zap.NewNop()),
		policies:   NewPolicyService(client, cache, center, preflight, zap.NewNop()),
		org:        NewOrgService(client, cache, center, zap.NewNop()),
		center:     center,
		cache:      cache,
	}
}

// routeCounter tallies method+path pairs so tests can assert how often the
// backend was actually consulted.
type routeCounter struct {
	mu   sync.Mutex
	hits map[string]int
}

func newRouteCounter() *routeCounter {
	return &routeCounter{hits: make(map[string]int)}
}

func (rc *routeCounter) count(r *http.Request) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.hits[r.Method+" "+r.URL.Path]++
}

func (rc *routeCounter) get(route string) int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.hits[route]
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func fixtureClaim(id, number string, status domain.Status) domain.Claim {
	return domain.Claim{
		ID:          id,
		Number:      number,
		Type:        domain.ClaimTypeTravel,
		Description: "Berlin onsite",
		Amount:      120.5,
		Currency:    "EUR",
		Status:      status,
		SubmittedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
}

func TestClaimService_List_ServedFromCache(t *testing.T) {
	rc := newRouteCounter()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc.count(r)
		if r.Method == http.MethodGet && r.URL.Path == "/custom-claims/" {
			writeJSON(t, w, http.StatusOK, []domain.Claim{fixtureClaim("c1", "CLM-001", domain.StatusSubmitted)})
			return
		}
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})
	env := newTestEnv(t, handler)

	for i := 0; i < 3; i++ {
		got, err := env.claims.List(context.Background())
		if err != nil {
			t.Fatalf("List #%d: %v", i+1, err)
		}
		if len(got) != 1 || got[0].Number != "CLM-001" {
			t.Fatalf("List #%d = %+v", i+1, got)
		}
	}
	if hits := rc.get("GET /custom-claims/"); hits != 1 {
		t.Fatalf("backend hit %d times, want 1", hits)
	}
}

func TestClaimService_Submit_InvalidatesCollection(t *testing.T) {
	rc := newRouteCounter()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc.count(r)
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/custom-claims/":
			writeJSON(t, w, http.StatusOK, []domain.Claim{})
		case r.Method == http.MethodPost && r.URL.Path == "/custom-claims/":
			writeJSON(t, w, http.StatusCreated, fixtureClaim("c9", "CLM-009", domain.StatusSubmitted))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	env := newTestEnv(t, handler)

	if _, err := env.claims.List(context.Background()); err != nil {
		t.Fatalf("warm List: %v", err)
	}

	in := domain.ClaimInput{Type: domain.ClaimTypeTravel, Description: "Berlin onsite", Amount: 120.5, Currency: "EUR"}
	created, err := env.claims.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if created.Number != "CLM-009" {
		t.Fatalf("created = %+v", created)
	}

	if _, err := env.claims.List(context.Background()); err != nil {
		t.Fatalf("List after submit: %v", err)
	}
	if hits := rc.get("GET /custom-claims/"); hits != 2 {
		t.Fatalf("list fetched %d times, want 2 (cache invalidated by submit)", hits)
	}

	recent := env.center.Recent(1)
	if len(recent) != 1 || recent[0].Level != notify.LevelSuccess {
		t.Fatalf("notifications = %+v, want one success", recent)
	}
}

func TestClaimService_Submit_ValidationStaysLocal(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("request reached backend: %s %s", r.Method, r.URL.Path)
	})
	env := newTestEnv(t, handler)

	_, err := env.claims.Submit(context.Background(), domain.ClaimInput{Type: domain.ClaimTypeMeal, Description: "x", Amount: -3, Currency: "EUR"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if env.center.Len() != 0 {
		t.Fatalf("validation failure must not reach the notification center, got %d entries", env.center.Len())
	}
}

func TestClaimService_Transition_InvalidatesAndNotifies(t *testing.T) {
	rc := newRouteCounter()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc.count(r)
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/custom-claims/c1":
			writeJSON(t, w, http.StatusOK, fixtureClaim("c1", "CLM-001", domain.StatusPendingManager))
		case r.Method == http.MethodGet && r.URL.Path == "/custom-claims/":
			writeJSON(t, w, http.StatusOK, []domain.Claim{fixtureClaim("c1", "CLM-001", domain.StatusPendingManager)})
		case r.Method == http.MethodPost && r.URL.Path == "/custom-claims/c1/transitions":
			var in api.TransitionInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Action != "approve" {
				t.Errorf("transition body = %+v, err %v", in, err)
			}
			writeJSON(t, w, http.StatusOK, fixtureClaim("c1", "CLM-001", domain.StatusPendingHR))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	env := newTestEnv(t, handler)

	if _, err := env.claims.Get(context.Background(), "c1"); err != nil {
		t.Fatalf("warm Get: %v", err)
	}
	if _, err := env.claims.List(context.Background()); err != nil {
		t.Fatalf("warm List: %v", err)
	}

	updated, err := env.claims.Transition(context.Background(), "c1", workflow.ActionApprove, "looks fine")
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if updated.Status != domain.StatusPendingHR {
		t.Fatalf("status = %s, want pending_hr", updated.Status)
	}

	if _, err := env.claims.Get(context.Background(), "c1"); err != nil {
		t.Fatalf("Get after transition: %v", err)
	}
	if _, err := env.claims.List(context.Background()); err != nil {
		t.Fatalf("List after transition: %v", err)
	}
	if hits := rc.get("GET /custom-claims/c1"); hits != 2 {
		t.Fatalf("item fetched %d times, want 2", hits)
	}
	if hits := rc.get("GET /custom-claims/"); hits != 2 {
		t.Fatalf("list fetched %d times, want 2", hits)
	}

	recent := env.center.Recent(1)
	if len(recent) != 1 || recent[0].Level != notify.LevelSuccess {
		t.Fatalf("notifications = %+v, want one success", recent)
	}
}

func TestClaimService_Transition_FailureKeepsCache(t *testing.T) {
	rc := newRouteCounter()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc.count(r)
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/custom-claims/":
			writeJSON(t, w, http.StatusOK, []domain.Claim{fixtureClaim("c1", "CLM-001", domain.StatusSettled)})
		case r.Method == http.MethodPost && r.URL.Path == "/custom-claims/c1/transitions":
			writeJSON(t, w, http.StatusUnprocessableEntity, map[string]string{"message": "claim is already settled"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	env := newTestEnv(t, handler)

	if _, err := env.claims.List(context.Background()); err != nil {
		t.Fatalf("warm List: %v", err)
	}

	_, err := env.claims.Transition(context.Background(), "c1", workflow.ActionApprove, "")
	if err == nil {
		t.Fatal("expected transition to fail")
	}

	if _, err := env.claims.List(context.Background()); err != nil {
		t.Fatalf("List after failed transition: %v", err)
	}
	if hits := rc.get("GET /custom-claims/"); hits != 1 {
		t.Fatalf("list fetched %d times, want 1 (failure must not invalidate)", hits)
	}

	recent := env.center.Recent(1)
	if len(recent) != 1 || recent[0].Level != notify.LevelError {
		t.Fatalf("notifications = %+v, want one error", recent)
	}
	if recent[0].Message != "claim is already settled (status 422)" {
		t.Fatalf("message = %q", recent[0].Message)
	}
}

func TestClaimService_Drafts(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("drafts are local, got request %s %s", r.Method, r.URL.Path)
	}))

	saved, err := env.claims.SaveDraft(domain.ClaimDraft{
		Input: domain.ClaimInput{Type: domain.ClaimTypeMeal, Description: "team lunch", Amount: 42, Currency: "EUR"},
	})
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("draft ID not assigned")
	}

	drafts, err := env.claims.Drafts()
	if err != nil {
		t.Fatalf("Drafts: %v", err)
	}
	if len(drafts) != 1 || drafts[0].Input.Description != "team lunch" {
		t.Fatalf("drafts = %+v", drafts)
	}

	if err := env.claims.DeleteDraft(saved.ID); err != nil {
		t.Fatalf("DeleteDraft: %v", err)
	}
	drafts, err = env.claims.Drafts()
	if err != nil {
		t.Fatalf("Drafts after delete: %v", err)
	}
	if len(drafts) != 0 {
		t.Fatalf("drafts = %+v, want none", drafts)
	}
}

func TestClaimService_Export(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("export is local, got request %s %s", r.Method, r.URL.Path)
	}))

	path := filepath.Join(t.TempDir(), "claims.xlsx")
	rows := []domain.Claim{fixtureClaim("c1", "CLM-001", domain.StatusApproved)}
	if err := env.claims.Export(path, rows); err != nil {
		t.Fatalf("Export: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()
	got, err := f.GetCellValue("Claims", "A2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != "CLM-001" {
		t.Fatalf("A2 = %q, want CLM-001", got)
	}

	recent := env.center.Recent(1)
	if len(recent) != 1 || recent[0].Level != notify.LevelSuccess {
		t.Fatalf("notifications = %+v, want one success", recent)
	}
}

func TestAllowanceService_TransitionRoundTrip(t *testing.T) {
	rc := newRouteCounter()
	fixture := domain.Allowance{
		ID:          "a1",
		Number:      "ALW-001",
		Type:        domain.AllowanceTypeOnCall,
		Period:      "2026-02",
		Amount:      200,
		Currency:    "GBP",
		Status:      domain.StatusPendingManager,
		SubmittedAt: time.Date(2026, 2, 28, 17, 0, 0, 0, time.UTC),
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc.count(r)
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/allowances/":
			writeJSON(t, w, http.StatusOK, []domain.Allowance{fixture})
		case r.Method == http.MethodPost && r.URL.Path == "/allowances/a1/transitions":
			approved := fixture
			approved.Status = domain.StatusApproved
			writeJSON(t, w, http.StatusOK, approved)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	env := newTestEnv(t, handler)

	if _, err := env.allowances.List(context.Background()); err != nil {
		t.Fatalf("warm List: %v", err)
	}
	updated, err := env.allowances.Transition(context.Background(), "a1", workflow.ActionApprove, "")
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if updated.Status != domain.StatusApproved {
		t.Fatalf("status = %s, want approved", updated.Status)
	}
	if _, err := env.allowances.List(context.Background()); err != nil {
		t.Fatalf("List after transition: %v", err)
	}
	if hits := rc.get("GET /allowances/"); hits != 2 {
		t.Fatalf("list fetched %d times, want 2", hits)
	}
}
