package model

import "time"

// Roles stored in users.role and carried in the JWT role claim.
const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

// Batches. Employees belong to batch A or B, which decides their
// designated-seat days under the bi-weekly rotation. Admins and a few
// special accounts carry BatchNone and never qualify for designated
// seats.
const (
	BatchA    = "A"
	BatchB    = "B"
	BatchNone = "NONE"
)

// User represents an application user record as stored in the `users`
// table. The json tags are omitted here because these structs are used
// by the repository layer; handlers define separate response types
// with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – RoleAdmin or RoleEmployee.
//  Batch        – BatchA, BatchB or BatchNone.
//  Squad        – free-form team label, may be empty.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	Batch        string    // users.batch
	Squad        string    // users.squad
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
