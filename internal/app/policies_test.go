package app

import (
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paracurve/claimdesk/internal/attachment"
	"github.com/paracurve/claimdesk/internal/domain"
	"github.com/paracurve/claimdesk/internal/notify"
)

func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 40, 40))); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
}

func fixturePolicy(id, title string) domain.Policy {
	return domain.Policy{
		ID:         id,
		Title:      title,
		Version:    1,
		FileName:   "policy.png",
		Status:     domain.StatusSubmitted,
		UploadedBy: "u1",
		UploadedAt: time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC),
	}
}

func TestPolicyService_Upload(t *testing.T) {
	rc := newRouteCounter()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc.count(r)
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/policies/":
			writeJSON(t, w, http.StatusOK, []domain.Policy{})
		case r.Method == http.MethodPost && r.URL.Path == "/policies/upload":
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("ParseMultipartForm: %v", err)
			}
			if got := r.FormValue("title"); got != "Travel policy" {
				t.Errorf("title = %q", got)
			}
			file, header, err := r.FormFile("file")
			if err != nil {
				t.Errorf("FormFile: %v", err)
			} else {
				file.Close()
				if header.Filename != "receipt-rules.png" {
					t.Errorf("filename = %q", header.Filename)
				}
			}
			writeJSON(t, w, http.StatusCreated, fixturePolicy("p1", "Travel policy"))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	env := newTestEnv(t, handler)

	if _, err := env.policies.List(context.Background()); err != nil {
		t.Fatalf("warm List: %v", err)
	}

	path := filepath.Join(t.TempDir(), "receipt-rules.png")
	writeTestPNG(t, path)

	created, err := env.policies.Upload(context.Background(), path, "Travel policy", "v1 draft")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if created.ID != "p1" {
		t.Fatalf("created = %+v", created)
	}

	if _, err := env.policies.List(context.Background()); err != nil {
		t.Fatalf("List after upload: %v", err)
	}
	if hits := rc.get("GET /policies/"); hits != 2 {
		t.Fatalf("list fetched %d times, want 2 (cache invalidated by upload)", hits)
	}

	recent := env.center.Recent(1)
	if len(recent) != 1 || recent[0].Level != notify.LevelSuccess {
		t.Fatalf("notifications = %+v, want one success", recent)
	}
}

func TestPolicyService_Upload_PreflightRejection(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("rejected file must not reach the backend, got %s %s", r.Method, r.URL.Path)
	}))

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("not a policy"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := env.policies.Upload(context.Background(), path, "Notes", "")
	if !errors.Is(err, attachment.ErrUnsupportedType) {
		t.Fatalf("err = %v, want ErrUnsupportedType", err)
	}

	recent := env.center.Recent(1)
	if len(recent) != 1 || recent[0].Level != notify.LevelError {
		t.Fatalf("notifications = %+v, want one error", recent)
	}
}

func TestPolicyService_Approve(t *testing.T) {
	rc := newRouteCounter()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc.count(r)
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/policies/":
			writeJSON(t, w, http.StatusOK, []domain.Policy{fixturePolicy("p1", "Travel policy")})
		case r.Method == http.MethodPost && r.URL.Path == "/policies/p1/approve":
			approved := fixturePolicy("p1", "Travel policy")
			approved.Status = domain.StatusApproved
			writeJSON(t, w, http.StatusOK, approved)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	env := newTestEnv(t, handler)

	if _, err := env.policies.List(context.Background()); err != nil {
		t.Fatalf("warm List: %v", err)
	}
	approved, err := env.policies.Approve(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != domain.StatusApproved {
		t.Fatalf("status = %s, want approved", approved.Status)
	}
	if _, err := env.policies.List(context.Background()); err != nil {
		t.Fatalf("List after approve: %v", err)
	}
	if hits := rc.get("GET /policies/"); hits != 2 {
		t.Fatalf("list fetched %d times, want 2", hits)
	}
}
