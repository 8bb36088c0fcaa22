package users

import "time"

type User struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile is what /me returns for the bearer.
type Profile struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	DocumentCount int    `json:"documentCount"`
}
