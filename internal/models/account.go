package models

import "time"

type Account struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	Role         string    `json:"role"`
	Organization string    `json:"organization"`
	CreatedAt    time.Time `json:"created_at"`
}

type WatchedLocation struct {
	ID         string     `json:"id"`
	City       string     `json:"city"`
	Coordinate Coordinate `json:"coordinate"`
	CreatedAt  time.Time  `json:"created_at"`
}
