package services

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yuchenghsu/signalguide-backend/internal/dto"
	"github.com/yuchenghsu/signalguide-backend/internal/models"
)

func TestCreateUserEmployeeIDValidation(t *testing.T) {
	resetTables(t)
	svc := NewAuthService(testDB, testConfig())

	cases := []struct {
		employeeID string
		wantErr    error
	}{
		{"12345", nil},
		{"00001", nil},
		{"A0000", nil},
		{"1234", ErrBadEmployeeID},
		{"123456", ErrBadEmployeeID},
		{"abcde", ErrBadEmployeeID},
		{"A0001", ErrBadEmployeeID},
		{"", ErrBadEmployeeID},
		{"12 45", ErrBadEmployeeID},
	}

	for _, tc := range cases {
		_, err := svc.CreateUser(adminCtx(), &dto.CreateUserRequest{
			EmployeeID: tc.employeeID,
			Name:       "tester",
			Password:   "abc123",
			Role:       "viewer",
		})
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("employee_id %q: got %v, want %v", tc.employeeID, err, tc.wantErr)
		}
	}
}

func TestCreateUserPasswordRule(t *testing.T) {
	resetTables(t)
	svc := NewAuthService(testDB, testConfig())

	cases := []struct {
		password string
		ok       bool
	}{
		{"abc12", false},  // too short
		{"123456", false}, // no letter
		{"abc123", true},
		{"abcdef", true},
		{"a23456", true},
		{"", false},
	}

	for i, tc := range cases {
		_, err := svc.CreateUser(adminCtx(), &dto.CreateUserRequest{
			EmployeeID: "1000" + string(rune('0'+i)),
			Name:       "tester",
			Password:   tc.password,
			Role:       "viewer",
		})
		if tc.ok && err != nil {
			t.Errorf("password %q: unexpected error %v", tc.password, err)
		}
		if !tc.ok && !errors.Is(err, ErrWeakPassword) {
			t.Errorf("password %q: got %v, want ErrWeakPassword", tc.password, err)
		}
	}
}

func TestCreateUserChecks(t *testing.T) {
	resetTables(t)
	svc := NewAuthService(testDB, testConfig())

	req := &dto.CreateUserRequest{EmployeeID: "12345", Name: "tester", Password: "abc123", Role: "viewer"}

	if _, err := svc.CreateUser(viewerCtx(), req); !errors.Is(err, ErrForbidden) {
		t.Errorf("viewer create: got %v, want ErrForbidden", err)
	}

	if _, err := svc.CreateUser(adminCtx(), &dto.CreateUserRequest{
		EmployeeID: "12345", Password: "abc123", Role: "viewer",
	}); !errors.Is(err, ErrNameRequired) {
		t.Errorf("empty name: got %v, want ErrNameRequired", err)
	}

	if _, err := svc.CreateUser(adminCtx(), &dto.CreateUserRequest{
		EmployeeID: "12345", Name: "tester", Password: "abc123", Role: "boss",
	}); !errors.Is(err, ErrBadRole) {
		t.Errorf("bad role: got %v, want ErrBadRole", err)
	}

	if _, err := svc.CreateUser(adminCtx(), req); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateUser(adminCtx(), req); !errors.Is(err, ErrEmployeeIDTaken) {
		t.Errorf("duplicate: got %v, want ErrEmployeeIDTaken", err)
	}
}

func TestAuthenticate(t *testing.T) {
	resetTables(t)
	svc := NewAuthService(testDB, testConfig())
	seedUser(t, "54321", "chen", "abc123", models.RoleAdmin)

	if _, err := svc.Authenticate(&dto.TokenRequest{EmployeeID: "99999", Password: "abc123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown id: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate(&dto.TokenRequest{EmployeeID: "54321", Password: "wrong1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}

	resp, err := svc.Authenticate(&dto.TokenRequest{EmployeeID: "54321", Password: "abc123"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if resp.EmployeeID != "54321" || resp.Name != "chen" || resp.Role != "admin" {
		t.Errorf("response fields: %+v", resp)
	}
	if resp.Access == "" || resp.Refresh == "" {
		t.Error("token pair should not be empty")
	}

	token, err := jwt.Parse(resp.Access, func(tok *jwt.Token) (interface{}, error) {
		return []byte(testConfig().JWTSecret), nil
	})
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["employee_id"] != "54321" || claims["name"] != "chen" || claims["role"] != "admin" {
		t.Errorf("claims: %v", claims)
	}
}

func TestRefreshRotation(t *testing.T) {
	resetTables(t)
	svc := NewAuthService(testDB, testConfig())
	seedUser(t, "54321", "chen", "abc123", models.RoleViewer)

	resp, err := svc.Authenticate(&dto.TokenRequest{EmployeeID: "54321", Password: "abc123"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	second, err := svc.Refresh(&dto.RefreshRequest{Refresh: resp.Refresh})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if second.Access == "" || second.Refresh == "" {
		t.Error("refreshed pair should not be empty")
	}

	// The first refresh token was revoked on use.
	if _, err := svc.Refresh(&dto.RefreshRequest{Refresh: resp.Refresh}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("reused token: got %v, want ErrInvalidToken", err)
	}

	if _, err := svc.Refresh(&dto.RefreshRequest{Refresh: "bogus"}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("bogus token: got %v, want ErrInvalidToken", err)
	}
}

func TestChangePassword(t *testing.T) {
	resetTables(t)
	svc := NewAuthService(testDB, testConfig())
	user := seedUser(t, "54321", "chen", "abc123", models.RoleViewer)

	ctx := viewerCtx()
	ctx.UserID = user.ID
	ctx.EmployeeID = user.EmployeeID

	err := svc.ChangePassword(ctx, &dto.ChangePasswordRequest{OldPassword: "nope99", NewPassword: "def456"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong old password: got %v, want ErrInvalidCredentials", err)
	}

	err = svc.ChangePassword(ctx, &dto.ChangePasswordRequest{OldPassword: "abc123", NewPassword: "short"})
	if !errors.Is(err, ErrWeakPassword) {
		t.Errorf("short new password: got %v, want ErrWeakPassword", err)
	}

	if err := svc.ChangePassword(ctx, &dto.ChangePasswordRequest{OldPassword: "abc123", NewPassword: "def456"}); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := svc.Authenticate(&dto.TokenRequest{EmployeeID: "54321", Password: "abc123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Error("old password should no longer authenticate")
	}
	if _, err := svc.Authenticate(&dto.TokenRequest{EmployeeID: "54321", Password: "def456"}); err != nil {
		t.Errorf("new password should authenticate: %v", err)
	}
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	resetTables(t)
	svc := NewAuthService(testDB, testConfig())

	if err := svc.EnsureBootstrapAdmin(""); err != nil {
		t.Fatalf("no password configured: %v", err)
	}
	var count int64
	testDB.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("no account expected, got %d", count)
	}

	if err := svc.EnsureBootstrapAdmin("root123"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	var user models.User
	if err := testDB.Where("employee_id = ?", BootstrapEmployeeID).First(&user).Error; err != nil {
		t.Fatalf("bootstrap account missing: %v", err)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("bootstrap role: got %s", user.Role)
	}

	// Idempotent on restart.
	if err := svc.EnsureBootstrapAdmin("other456"); err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}
	testDB.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("bootstrap should not duplicate, got %d accounts", count)
	}
}
