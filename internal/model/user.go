package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleBuyer        Role = "buyer"
	RoleProfessional Role = "professional"
	RoleSeller       Role = "seller"
	RoleContractor   Role = "contractor"
	RoleAdmin        Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleProfessional, RoleSeller, RoleContractor, RoleAdmin:
		return true
	}
	return false
}

// NeedsApproval reports whether accounts with this role must be reviewed
// by an admin before they can act in that role.
func (r Role) NeedsApproval() bool {
	return r == RoleProfessional || r == RoleSeller || r == RoleContractor
}

type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role         Role               `bson:"role" json:"role"`
	Status       ApprovalStatus     `bson:"status" json:"status"`
	CompanyName  string             `bson:"companyName,omitempty" json:"companyName,omitempty"`
	Profession   string             `bson:"profession,omitempty" json:"profession,omitempty"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
