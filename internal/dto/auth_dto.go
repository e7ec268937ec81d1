package dto

type TokenRequest struct {
	EmployeeID string `json:"employee_id"`
	Password   string `json:"password"`
}

// TokenResponse mirrors what the login form expects: the token pair plus
// the display fields of the authenticated account.
type TokenResponse struct {
	Access     string `json:"access"`
	Refresh    string `json:"refresh"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	EmployeeID string `json:"employee_id"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type CreateUserRequest struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Password   string `json:"password"`
	Role       string `json:"role"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
