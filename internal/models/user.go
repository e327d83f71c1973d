package models

// Role is user role
type Role string

// user roles
const (
	RoleUser         Role = "USER"
	RoleAdmin        Role = "ADMIN"
	RolePaymentAdmin Role = "PAYMENT_ADMIN"
	RoleServiceOrder Role = "SERVICE_ORDER"
)

// IsAdminRole reports whether role may manage orders and users
func IsAdminRole(role Role) bool {
	return role == RoleAdmin || role == RoleServiceOrder
}

// CanManagePayments reports whether role may see and refund payments
func CanManagePayments(role Role) bool {
	return role == RoleAdmin || role == RolePaymentAdmin || role == RoleServiceOrder
}

// Address is postal address of a user
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// User is payload of registration
type User struct {
	ID        uint64    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	Addresses []Address `json:"addresses,omitempty"`
	Role      Role      `json:"role,omitempty"`
}

// UserProfile is user entity without credentials
type UserProfile struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// UserPatch is payload of PUT /users/{id}
type UserPatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Role  *Role   `json:"role,omitempty"`
}

// LoginRequest is payload of POST /auth/signin
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is result of a successful sign in
type AuthResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
}
