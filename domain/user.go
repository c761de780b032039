// Package domain contains core concepts of the messaging system.
// No runtime, network, or transport logic should be added here.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContactStatus is the placeholder status text shown for every contact.
const ContactStatus = "Hey there! I'm using Beepit"

// AppUser is a registered account. Only the user directory mutates it.
type AppUser struct {
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	Password   string    `json:"-"`
	ContactIDs []string  `json:"contactIds"`
	CreatedAt  time.Time `json:"createdAt"`
	Online     bool      `json:"online"`
}

func NewAppUser(username, password string) AppUser {
	return AppUser{
		UserID:     uuid.NewString(),
		Username:   username,
		Password:   password,
		ContactIDs: nil,
		CreatedAt:  time.Now(),
		Online:     false,
	}
}

// Contact is a derived view of another user, computed on demand from a
// user's contact-id list. It is never stored.
type Contact struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Status   string `json:"status"`
	Online   bool   `json:"online"`
}
