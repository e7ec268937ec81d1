package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/yuchenghsu/signalguide-backend/internal/dto"
	"github.com/yuchenghsu/signalguide-backend/internal/models"
)

func createGuide(t *testing.T, app *fiber.App, token, docNumber string) models.Guide {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/signal-guides/", token, dto.CreateGuideRequest{
		DocNumber: docNumber,
		Title:     "Guide " + docNumber,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create guide %s: status %d", docNumber, resp.StatusCode)
	}
	return decode[models.Guide](t, resp)
}

func TestGuideEndpointsRequireToken(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/signal-guides/", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token: status %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/signal-guides/", "not-a-jwt", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("garbage token: status %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestGuideCRUDOverHTTP(t *testing.T) {
	app := newTestApp(t)
	admin := adminToken(t, app)

	guide := createGuide(t, app, admin, "SIG-001")

	resp := doJSON(t, app, http.MethodGet, "/api/signal-guides/"+guide.ID.String(), admin, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: status %d", resp.StatusCode)
	}
	got := decode[models.Guide](t, resp)
	if got.DocNumber != "SIG-001" {
		t.Errorf("doc number: %s", got.DocNumber)
	}

	resp = doJSON(t, app, http.MethodPost, "/api/signal-guides/", admin, dto.CreateGuideRequest{
		DocNumber: "SIG-001", Title: "Duplicate",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("duplicate doc number: status %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()

	pinned := true
	resp = doJSON(t, app, http.MethodPatch, "/api/signal-guides/"+guide.ID.String(), admin, dto.UpdateGuideRequest{
		IsPinned: &pinned,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch: status %d", resp.StatusCode)
	}
	if updated := decode[models.Guide](t, resp); !updated.IsPinned {
		t.Error("patch did not pin the guide")
	}

	resp = doJSON(t, app, http.MethodDelete, "/api/signal-guides/"+guide.ID.String(), admin, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete: status %d, want 204", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/signal-guides/"+guide.ID.String(), admin, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("deleted guide: status %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestGuideViewerForbidden(t *testing.T) {
	app := newTestApp(t)
	admin := adminToken(t, app)
	viewer := viewerToken(t, app)

	guide := createGuide(t, app, admin, "SIG-001")

	// Reads are open to any authenticated caller.
	resp := doJSON(t, app, http.MethodGet, "/api/signal-guides/", viewer, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("viewer list: status %d", resp.StatusCode)
	}
	if guides := decode[[]models.Guide](t, resp); len(guides) != 1 {
		t.Errorf("viewer list length: %d", len(guides))
	}

	resp = doJSON(t, app, http.MethodDelete, "/api/signal-guides/"+guide.ID.String(), viewer, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("viewer delete: status %d, want 403", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/signal-guides/"+guide.ID.String(), viewer, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("guide should survive forbidden delete: status %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestGuideListFilters(t *testing.T) {
	app := newTestApp(t)
	admin := adminToken(t, app)

	resp := doJSON(t, app, http.MethodPost, "/api/jobtypes/", admin, dto.JobTypeRequest{Name: "signal"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("job type: status %d", resp.StatusCode)
	}
	jt := decode[models.JobType](t, resp)

	resp = doJSON(t, app, http.MethodPost, "/api/signal-guides/", admin, dto.CreateGuideRequest{
		DocNumber: "SIG-001", Title: "a", JobTypeID: &jt.ID,
	})
	resp.Body.Close()
	createGuide(t, app, admin, "SIG-002")

	resp = doJSON(t, app, http.MethodGet, "/api/signal-guides/?job_type="+jt.ID.String(), admin, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("filtered list: status %d", resp.StatusCode)
	}
	filtered := decode[[]models.Guide](t, resp)
	if len(filtered) != 1 || filtered[0].DocNumber != "SIG-001" {
		t.Errorf("filtered guides: %+v", filtered)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/signal-guides/?job_type=not-a-uuid", admin, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad filter: status %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/signal-guides/?is_pinned=maybe", admin, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad is_pinned: status %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestDevicesByGuideEndpoint(t *testing.T) {
	app := newTestApp(t)
	admin := adminToken(t, app)

	guide := createGuide(t, app, admin, "SIG-001")

	resp := doJSON(t, app, http.MethodPost, "/api/devices/", admin, dto.CreateDeviceRequest{
		GuideID: guide.ID, Name: "relay",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("device: status %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/devices/by-guide/"+guide.ID.String(), admin, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("by-guide: status %d", resp.StatusCode)
	}
	if devices := decode[[]models.Device](t, resp); len(devices) != 1 {
		t.Errorf("devices: %d, want 1", len(devices))
	}

	// An unknown guide is an empty list, not an error.
	resp = doJSON(t, app, http.MethodGet, "/api/devices/by-guide/"+uuid.NewString(), admin, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unknown guide: status %d, want 200", resp.StatusCode)
	}
	if devices := decode[[]models.Device](t, resp); len(devices) != 0 {
		t.Errorf("unknown guide devices: %d, want 0", len(devices))
	}
}

func TestStepListRequiresFaultFilter(t *testing.T) {
	app := newTestApp(t)
	admin := adminToken(t, app)

	guide := createGuide(t, app, admin, "SIG-001")
	resp := doJSON(t, app, http.MethodPost, "/api/devices/", admin, dto.CreateDeviceRequest{
		GuideID: guide.ID, Name: "relay",
	})
	device := decode[models.Device](t, resp)
	resp = doJSON(t, app, http.MethodPost, "/api/faults/", admin, dto.CreateFaultRequest{
		DeviceID: device.ID, Description: "no response",
	})
	fault := decode[models.FaultCase](t, resp)

	resp = doJSON(t, app, http.MethodPost, "/api/steps/", admin, dto.CreateStepRequest{
		FaultCaseID: fault.ID, StepOrder: 1, Instruction: "check fuse",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("step: status %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/steps/", admin, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing fault filter: status %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/steps/?fault="+fault.ID.String(), admin, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("steps: status %d", resp.StatusCode)
	}
	if steps := decode[[]models.ProcedureStep](t, resp); len(steps) != 1 {
		t.Errorf("steps: %d, want 1", len(steps))
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: status %d", resp.StatusCode)
	}
	health := decode[dto.HealthResponse](t, resp)
	if health.Status != "ok" {
		t.Errorf("status field: %q", health.Status)
	}
}
