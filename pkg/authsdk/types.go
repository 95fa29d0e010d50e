package authsdk

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the JSON error envelope returned by every endpoint.
type ErrorResponse struct {
	// Error is the machine-readable code (e.g. "email_in_use")
	Error string `json:"error"`

	// ErrorDescription is a human-readable message
	ErrorDescription string `json:"error_description"`
}

// MessageResponse is returned by endpoints whose only output is a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Registration Types
// ============================================================================

// RegisterRequest registers a student account.
type RegisterRequest struct {
	Username        string `json:"username" example:"alice"`
	Email           string `json:"email" example:"alice@example.com"`
	FullName        string `json:"fullName" example:"Alice Example"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// RegisterInstructorRequest registers an instructor account. The
// instructor sets a password after confirming their email.
type RegisterInstructorRequest struct {
	Username string `json:"username" example:"bob"`
	Email    string `json:"email" example:"bob@example.com"`
	FullName string `json:"fullName" example:"Bob Example"`
}

// RegisterResponse carries the new account ID.
type RegisterResponse struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// ============================================================================
// Login Types
// ============================================================================

// Login outcomes reported in LoginResponse.Status.
const (
	LoginStatusSuccess                = "success"
	LoginStatusPasswordChangeRequired = "password_change_required"
	LoginStatusTwoFactorRequired      = "two_factor_required"
)

// LoginRequest authenticates with email and password.
type LoginRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password"`
}

// LoginResponse is the result of a login or 2FA verification. Which
// fields are set depends on Status.
type LoginResponse struct {
	Status string `json:"status" enums:"success,password_change_required,two_factor_required"`

	// success
	Token             string   `json:"token,omitempty"`
	ExpiresAt         int64    `json:"expiresAt,omitempty"` // epoch seconds
	UserID            string   `json:"userId,omitempty"`
	ProfilePictureURL string   `json:"profilePictureUrl,omitempty"`
	Username          string   `json:"username"`
	Email             string   `json:"email"`
	FullName          string   `json:"fullName"`
	Roles             []string `json:"roles"`

	// password_change_required
	Message    string `json:"message,omitempty"`
	ResetToken string `json:"resetToken,omitempty"`

	// two_factor_required
	TempToken string `json:"tempToken,omitempty"`
}

// VerifyTwoFactorLoginRequest completes a two_factor_required login.
type VerifyTwoFactorLoginRequest struct {
	TempToken string `json:"tempToken"`
	Code      string `json:"code" example:"123456"`
}

// ============================================================================
// Two-Factor Types
// ============================================================================

// TwoFactorCodeRequest carries a 6-digit TOTP code.
type TwoFactorCodeRequest struct {
	Code string `json:"code" example:"123456"`
}

// TwoFactorStatusResponse reports whether 2FA is enabled.
type TwoFactorStatusResponse struct {
	Enabled bool `json:"enabled"`
}

// ============================================================================
// Password Types
// ============================================================================

// ForgotPasswordRequest asks for a reset link by email.
type ForgotPasswordRequest struct {
	Email string `json:"email" example:"alice@example.com"`
}

// ResetPasswordRequest applies a new password using an emailed token.
type ResetPasswordRequest struct {
	Email           string `json:"email" example:"alice@example.com"`
	Token           string `json:"token"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// VerifyPasswordRequest checks the caller's password, e.g. before a
// sensitive action.
type VerifyPasswordRequest struct {
	Password string `json:"password"`
}

// VerifyPasswordResponse reports whether the password matched.
type VerifyPasswordResponse struct {
	Valid bool `json:"valid"`
}

// ChangePasswordRequest replaces the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`

	// TempTokens indicates the 2FA temp-token store status (Redis when
	// configured, otherwise the database)
	TempTokens string `json:"tempTokens"`
}
