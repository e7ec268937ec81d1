package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/yuchenghsu/signalguide-backend/internal/config"
	"github.com/yuchenghsu/signalguide-backend/internal/database"
	"github.com/yuchenghsu/signalguide-backend/internal/dto"
	"github.com/yuchenghsu/signalguide-backend/internal/handlers"
	"github.com/yuchenghsu/signalguide-backend/internal/models"
	"github.com/yuchenghsu/signalguide-backend/internal/routes"
	"github.com/yuchenghsu/signalguide-backend/internal/services"
	"github.com/yuchenghsu/signalguide-backend/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPGPort = 5642

var testDB *gorm.DB

func TestMain(m *testing.M) {
	base, err := os.MkdirTemp("", "signalguide-handlers-pg")
	if err != nil {
		log.Fatalf("tempdir: %v", err)
	}

	pg := embeddedpostgres.NewDatabase(embeddedpostgres.DefaultConfig().
		Username("postgres").
		Password("postgres").
		Database("signalguide_test").
		Port(testPGPort).
		DataPath(filepath.Join(base, "pg")).
		RuntimePath(filepath.Join(base, "runtime")).
		StartTimeout(60 * time.Second))

	if err := pg.Start(); err != nil {
		log.Fatalf("embedded postgres start: %v", err)
	}

	dsn := fmt.Sprintf("host=localhost user=postgres password=postgres dbname=signalguide_test port=%d sslmode=disable", testPGPort)
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		pg.Stop()
		log.Fatalf("gorm open: %v", err)
	}

	if err := database.MigrateAll(testDB); err != nil {
		pg.Stop()
		log.Fatalf("migrate: %v", err)
	}
	database.DB = testDB

	code := m.Run()

	if err := pg.Stop(); err != nil {
		log.Printf("embedded postgres stop: %v", err)
	}
	os.RemoveAll(base)
	os.Exit(code)
}

// newTestApp wires the full route tree on a fresh fiber app so each
// test gets its own rate-limiter state.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	if err := testDB.Exec(`TRUNCATE procedure_steps, fault_cases, devices, guides, job_types, refresh_tokens, users, system_logs`).Error; err != nil {
		t.Fatalf("truncate: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:        "test-secret-key-12345",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}
	store, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("storage: %v", err)
	}

	authService := services.NewAuthService(testDB, cfg)
	guideService := services.NewGuideService(testDB, store)
	jobTypeService := services.NewJobTypeService(testDB)
	deviceService := services.NewDeviceService(testDB)
	faultService := services.NewFaultService(testDB)
	stepService := services.NewStepService(testDB, store)

	app := fiber.New()
	routes.Setup(app, cfg, testDB,
		handlers.NewAuthHandler(authService),
		handlers.NewGuideHandler(guideService, store),
		handlers.NewJobTypeHandler(jobTypeService),
		handlers.NewDeviceHandler(deviceService),
		handlers.NewFaultHandler(faultService),
		handlers.NewStepHandler(stepService, store),
		handlers.NewHealthHandler(),
	)
	return app
}

func seedAccount(t *testing.T, employeeID, name, password string, role models.Role) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	user := models.User{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Name:       name,
		Password:   string(hash),
		Role:       role,
	}
	if err := testDB.Create(&user).Error; err != nil {
		t.Fatalf("seed account: %v", err)
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, 30000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

// login seeds an account and returns its access token.
func login(t *testing.T, app *fiber.App, employeeID, password string) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/token/", "", dto.TokenRequest{
		EmployeeID: employeeID,
		Password:   password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", employeeID, resp.StatusCode)
	}
	return decode[dto.TokenResponse](t, resp).Access
}

func adminToken(t *testing.T, app *fiber.App) string {
	t.Helper()
	seedAccount(t, "A0000", "superuser", "admin123", models.RoleAdmin)
	return login(t, app, "A0000", "admin123")
}

func viewerToken(t *testing.T, app *fiber.App) string {
	t.Helper()
	seedAccount(t, "54321", "viewer", "viewer123", models.RoleViewer)
	return login(t, app, "54321", "viewer123")
}
