package models

import "time"

const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

// User is the marketplace account record, keyed by verified email.
type User struct {
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"name,omitempty" json:"name,omitempty"`
	Image        string    `bson:"image,omitempty" json:"image,omitempty"`
	Role         string    `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	LastLoggedIn time.Time `bson:"last_loggedin" json:"lastLoggedIn"`
}

// SellerRequest is a pending become-seller application.
type SellerRequest struct {
	Email       string    `bson:"email" json:"email"`
	RequestedAt time.Time `bson:"requested_at" json:"requestedAt"`
}

// UpsertUserRequest is sent on login.
type UpsertUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// UpdateRoleRequest is the admin role-change payload.
type UpdateRoleRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=customer seller admin"`
}
