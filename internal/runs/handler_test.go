package runs_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/scribe-works/scribe/internal/runs"
	"github.com/scribe-works/scribe/internal/workflow"
	"github.com/scribe-works/scribe/pkg/middleware"
)

type mockSystem struct {
	startFn  func(ctx context.Context, ownerID uuid.UUID, cmd runs.StartCommand) (*runs.Response, error)
	resumeFn func(ctx context.Context, ownerID uuid.UUID, cmd runs.ResumeCommand) (*runs.Response, error)
	findFn   func(ctx context.Context, ownerID, id uuid.UUID) (*runs.Run, error)
	listFn   func(ctx context.Context, ownerID, documentID uuid.UUID, filters runs.Filters) ([]runs.Run, error)
	sweepFn  func(ctx context.Context) (int64, error)
}

func (m *mockSystem) Handler() *runs.Handler {
	return newTestHandler(m)
}

func (m *mockSystem) Start(ctx context.Context, ownerID uuid.UUID, cmd runs.StartCommand) (*runs.Response, error) {
	return m.startFn(ctx, ownerID, cmd)
}

func (m *mockSystem) Resume(ctx context.Context, ownerID uuid.UUID, cmd runs.ResumeCommand) (*runs.Response, error) {
	return m.resumeFn(ctx, ownerID, cmd)
}

func (m *mockSystem) Find(ctx context.Context, ownerID, id uuid.UUID) (*runs.Run, error) {
	return m.findFn(ctx, ownerID, id)
}

func (m *mockSystem) ListByDocument(ctx context.Context, ownerID, documentID uuid.UUID, filters runs.Filters) ([]runs.Run, error) {
	return m.listFn(ctx, ownerID, documentID, filters)
}

func (m *mockSystem) SweepExpired(ctx context.Context) (int64, error) {
	return m.sweepFn(ctx)
}

func newTestHandler(sys *mockSystem) *runs.Handler {
	return runs.NewHandler(sys, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var testOwner = uuid.MustParse("a7c8f3e1-0d42-4b9f-8f6a-2e5d1c3b4a90")

func setupMux(h *runs.Handler) http.Handler {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return middleware.Owner()(mux)
}

func ownedRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(middleware.OwnerHeader, testOwner.String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func suspendedResponse(runID, documentID uuid.UUID) *runs.Response {
	return &runs.Response{
		RunID:        runID,
		DocumentID:   documentID,
		PipelineKind: workflow.KindGuided,
		Status:       runs.StatusSuspended,
		CurrentStep:  workflow.StepOutline,
		Payload: workflow.OutlinePayload{
			Outline: &workflow.Outline{
				Title:    "Migration Guide",
				Sections: []workflow.OutlineSection{{Heading: "Background"}},
			},
		},
		ExpiresAt: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestHandlerStart(t *testing.T) {
	runID := uuid.New()
	documentID := uuid.New()

	t.Run("starts run and returns suspension", func(t *testing.T) {
		var capturedCmd runs.StartCommand
		var capturedOwner uuid.UUID
		sys := &mockSystem{
			startFn: func(_ context.Context, ownerID uuid.UUID, cmd runs.StartCommand) (*runs.Response, error) {
				capturedOwner = ownerID
				capturedCmd = cmd
				return suspendedResponse(runID, documentID), nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(runs.StartCommand{
			DocumentID:   documentID,
			PipelineKind: workflow.KindGuided,
		})

		rec := httptest.NewRecorder()
		req := ownedRequest("POST", "/workflows/start", bytes.NewReader(body))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if capturedOwner != testOwner {
			t.Errorf("owner = %v, want %v", capturedOwner, testOwner)
		}
		if capturedCmd.DocumentID != documentID {
			t.Errorf("document id = %v, want %v", capturedCmd.DocumentID, documentID)
		}

		var resp runs.Response
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Status != runs.StatusSuspended {
			t.Errorf("status = %q, want suspended", resp.Status)
		}
		if resp.CurrentStep != workflow.StepOutline {
			t.Errorf("step = %q, want %q", resp.CurrentStep, workflow.StepOutline)
		}
	})

	t.Run("unknown pipeline kind returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(runs.StartCommand{
			DocumentID:   documentID,
			PipelineKind: "freeform",
		})

		rec := httptest.NewRecorder()
		req := ownedRequest("POST", "/workflows/start", bytes.NewReader(body))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing document returns 404", func(t *testing.T) {
		sys := &mockSystem{
			startFn: func(_ context.Context, _ uuid.UUID, _ runs.StartCommand) (*runs.Response, error) {
				return nil, runs.ErrDocumentNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(runs.StartCommand{
			DocumentID:   documentID,
			PipelineKind: workflow.KindAutonomous,
		})

		rec := httptest.NewRecorder()
		req := ownedRequest("POST", "/workflows/start", bytes.NewReader(body))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("active run returns 409", func(t *testing.T) {
		sys := &mockSystem{
			startFn: func(_ context.Context, _ uuid.UUID, _ runs.StartCommand) (*runs.Response, error) {
				return nil, runs.ErrActiveRun
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(runs.StartCommand{
			DocumentID:   documentID,
			PipelineKind: workflow.KindGuided,
		})

		rec := httptest.NewRecorder()
		req := ownedRequest("POST", "/workflows/start", bytes.NewReader(body))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("invalid json returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := ownedRequest("POST", "/workflows/start", bytes.NewReader([]byte("not json")))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing identity returns 401", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(runs.StartCommand{
			DocumentID:   documentID,
			PipelineKind: workflow.KindGuided,
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/workflows/start", bytes.NewReader(body))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestHandlerResume(t *testing.T) {
	runID := uuid.New()
	documentID := uuid.New()

	t.Run("resumes run with approval", func(t *testing.T) {
		var capturedCmd runs.ResumeCommand
		sys := &mockSystem{
			resumeFn: func(_ context.Context, _ uuid.UUID, cmd runs.ResumeCommand) (*runs.Response, error) {
				capturedCmd = cmd
				resp := suspendedResponse(runID, documentID)
				resp.CurrentStep = workflow.StepSources
				return resp, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(runs.ResumeCommand{
			RunID:  runID,
			StepID: workflow.StepOutline,
			Resume: workflow.ResumeData{Approved: true},
		})

		rec := httptest.NewRecorder()
		req := ownedRequest("POST", "/workflows/resume", bytes.NewReader(body))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if capturedCmd.RunID != runID {
			t.Errorf("run id = %v, want %v", capturedCmd.RunID, runID)
		}
		if capturedCmd.StepID != workflow.StepOutline {
			t.Errorf("step id = %q, want %q", capturedCmd.StepID, workflow.StepOutline)
		}
		if !capturedCmd.Resume.Approved {
			t.Error("resume should carry approval")
		}
	})

	t.Run("missing step id returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(runs.ResumeCommand{RunID: runID})

		rec := httptest.NewRecorder()
		req := ownedRequest("POST", "/workflows/resume", bytes.NewReader(body))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("step mismatch returns 409", func(t *testing.T) {
		sys := &mockSystem{
			resumeFn: func(_ context.Context, _ uuid.UUID, _ runs.ResumeCommand) (*runs.Response, error) {
				return nil, runs.ErrStepMismatch
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(runs.ResumeCommand{
			RunID:  runID,
			StepID: workflow.StepSections,
			Resume: workflow.ResumeData{Approved: true},
		})

		rec := httptest.NewRecorder()
		req := ownedRequest("POST", "/workflows/resume", bytes.NewReader(body))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("terminal run returns 409", func(t *testing.T) {
		sys := &mockSystem{
			resumeFn: func(_ context.Context, _ uuid.UUID, _ runs.ResumeCommand) (*runs.Response, error) {
				return nil, runs.ErrConflict
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(runs.ResumeCommand{
			RunID:  runID,
			StepID: workflow.StepOutline,
		})

		rec := httptest.NewRecorder()
		req := ownedRequest("POST", "/workflows/resume", bytes.NewReader(body))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("oversized payload returns 413", func(t *testing.T) {
		sys := &mockSystem{
			resumeFn: func(_ context.Context, _ uuid.UUID, _ runs.ResumeCommand) (*runs.Response, error) {
				return nil, runs.ErrPayloadTooLarge
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(runs.ResumeCommand{
			RunID:  runID,
			StepID: workflow.StepOutline,
		})

		rec := httptest.NewRecorder()
		req := ownedRequest("POST", "/workflows/resume", bytes.NewReader(body))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("status = %d, want 413", rec.Code)
		}
	})
}

func TestHandlerFind(t *testing.T) {
	run := runs.Run{
		ID:           uuid.New(),
		DocumentID:   uuid.New(),
		OwnerID:      testOwner,
		PipelineKind: workflow.KindGuided,
		Status:       runs.StatusSuspended,
		CurrentStep:  workflow.StepOutline,
	}

	t.Run("returns run by id", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(_ context.Context, _, id uuid.UUID) (*runs.Run, error) {
				if id != run.ID {
					return nil, runs.ErrNotFound
				}
				return &run, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := ownedRequest("GET", "/workflows/"+run.ID.String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var got runs.Run
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.ID != run.ID {
			t.Errorf("id = %v, want %v", got.ID, run.ID)
		}
	})

	t.Run("invalid uuid returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := ownedRequest("GET", "/workflows/not-a-uuid", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("expired or missing run returns 404", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(_ context.Context, _, _ uuid.UUID) (*runs.Run, error) {
				return nil, runs.ErrNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := ownedRequest("GET", "/workflows/"+uuid.New().String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerListByDocument(t *testing.T) {
	documentID := uuid.New()

	t.Run("passes document id and filters", func(t *testing.T) {
		var capturedDoc uuid.UUID
		var capturedFilters runs.Filters
		sys := &mockSystem{
			listFn: func(_ context.Context, _, docID uuid.UUID, f runs.Filters) ([]runs.Run, error) {
				capturedDoc = docID
				capturedFilters = f
				return []runs.Run{}, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := ownedRequest("GET", "/workflows/document/"+documentID.String()+"?status=suspended", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if capturedDoc != documentID {
			t.Errorf("document id = %v, want %v", capturedDoc, documentID)
		}
		if capturedFilters.Status == nil || *capturedFilters.Status != "suspended" {
			t.Errorf("status filter = %v, want suspended", capturedFilters.Status)
		}
	})

	t.Run("invalid document uuid returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := ownedRequest("GET", "/workflows/document/not-a-uuid", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerRoutes(t *testing.T) {
	sys := &mockSystem{}
	h := newTestHandler(sys)
	group := h.Routes()

	if group.Prefix != "/workflows" {
		t.Errorf("prefix = %q, want /workflows", group.Prefix)
	}

	want := []struct {
		method  string
		pattern string
	}{
		{"POST", "/start"},
		{"POST", "/resume"},
		{"GET", "/{id}"},
		{"GET", "/document/{documentId}"},
	}

	if len(group.Routes) != len(want) {
		t.Fatalf("route count = %d, want %d", len(group.Routes), len(want))
	}

	for i, w := range want {
		r := group.Routes[i]
		if r.Method != w.method || r.Pattern != w.pattern {
			t.Errorf("route[%d] = %s %s, want %s %s", i, r.Method, r.Pattern, w.method, w.pattern)
		}
	}
}
