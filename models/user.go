package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role is the fixed set of login roles. Stored as its string value.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleDataWarehouse Role = "data_warehouse"
	RoleTeacher       Role = "teacher"
	RoleSupervisor    Role = "supervisor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDataWarehouse, RoleTeacher, RoleSupervisor:
		return true
	}
	return false
}

type User struct {
	ID           uint   `gorm:"primarykey"`
	Username     string `gorm:"size:50;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Salt         string `gorm:"size:255;not null"`
	Role         Role   `gorm:"size:20;not null"`
	IsActive     bool   `gorm:"default:true"`
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// SetPassword salts and hashes a plaintext password. The bcrypt salt is kept
// in its own column as well so the schema matches the shared database.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	// A bcrypt hash is $2a$cost$ followed by the 22-character salt and the
	// 31-character digest; the salt is the first 29 bytes of the string.
	u.Salt = string(hash[:29])
	return nil
}

// CheckPassword re-hashes the supplied plaintext with the stored salt and
// compares the result to the stored hash in constant time.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
