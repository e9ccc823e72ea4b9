package authsdk

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	NameOrEmail string `json:"name_or_email"`
	Password    string `json:"password"`
}

// TokenResponse is the success body of login and refresh. The refresh token
// itself travels in an HTTP-only cookie, never here.
type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int         `json:"expires_in"`
	User        UserSummary `json:"user"`
}

type UserSummary struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenant_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Permissions maps resource code to the caller's effective action bits.
type Permissions map[string]PermissionBits

type PermissionBits struct {
	Create bool `json:"create"`
	Read   bool `json:"read"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
	Export bool `json:"export"`
	Import bool `json:"import"`
	Print  bool `json:"print"`
}

type Tenant struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	OrgCount    int    `json:"org_count"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

type CreateTenantRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type UpdateTenantRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	OrgCount    int    `json:"org_count"`
}

type Role struct {
	ID          string `json:"id"`
	TenantID    string `json:"tenant_id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at"`
}

type CreateRoleRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SetRolePrivilegeRequest grants action bits on one resource to a role.
type SetRolePrivilegeRequest struct {
	ResourceID string         `json:"resource_id"`
	Grants     PermissionBits `json:"grants"`
}

type User struct {
	ID          string `json:"id"`
	TenantID    string `json:"tenant_id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Active      bool   `json:"active"`
	LastLoginAt string `json:"last_login_at,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type RegisterUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Password  string `json:"password"`
}

type ChangeStatusRequest struct {
	Active bool `json:"active"`
}

type AssignRoleRequest struct {
	RoleID string `json:"role_id"`
}

type Application struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Edition     string `json:"edition,omitempty"`
	Version     string `json:"version,omitempty"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at"`
}

type CreateApplicationRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Edition     string `json:"edition,omitempty"`
	Version     string `json:"version,omitempty"`
}

type AppResource struct {
	ID            string         `json:"id"`
	ApplicationID string         `json:"application_id"`
	Code          string         `json:"code"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Capabilities  PermissionBits `json:"capabilities"`
	Active        bool           `json:"active"`
	CreatedAt     string         `json:"created_at"`
}

type CreateAppResourceRequest struct {
	Code         string         `json:"code"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	Capabilities PermissionBits `json:"capabilities"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}
