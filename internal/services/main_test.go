package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/google/uuid"
	"github.com/yuchenghsu/signalguide-backend/internal/authctx"
	"github.com/yuchenghsu/signalguide-backend/internal/config"
	"github.com/yuchenghsu/signalguide-backend/internal/database"
	"github.com/yuchenghsu/signalguide-backend/internal/models"
	"github.com/yuchenghsu/signalguide-backend/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPGPort = 5641

var testDB *gorm.DB

func TestMain(m *testing.M) {
	base, err := os.MkdirTemp("", "signalguide-services-pg")
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

	code := m.Run()

	if err := pg.Stop(); err != nil {
		log.Printf("embedded postgres stop: %v", err)
	}
	os.RemoveAll(base)
	os.Exit(code)
}

func resetTables(t *testing.T) {
	t.Helper()
	err := testDB.Exec(`TRUNCATE procedure_steps, fault_cases, devices, guides, job_types, refresh_tokens, users, system_logs`).Error
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret-key-12345",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

func testStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	return store
}

func adminCtx() authctx.AuthContext {
	return authctx.AuthContext{
		UserID:     uuid.New(),
		EmployeeID: "A0000",
		Name:       "superuser",
		Role:       models.RoleAdmin,
	}
}

func viewerCtx() authctx.AuthContext {
	return authctx.AuthContext{
		UserID:     uuid.New(),
		EmployeeID: "12345",
		Name:       "viewer",
		Role:       models.RoleViewer,
	}
}

// seedUser inserts an account directly, bypassing CreateUser's
// permission check.
func seedUser(t *testing.T, employeeID, name, password string, role models.Role) *models.User {
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
		t.Fatalf("seed user: %v", err)
	}
	return &user
}
