package models

import "time"

// Identity is an account confirmed by the identity provider.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Session is the bearer token issued after a successful sign-in.
type Session struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	User        Identity  `json:"user"`
	NewUser     bool      `json:"newUser,omitempty"`
}

// Credentials is the email/password pair of sign-up and sign-in.
type Credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// FederatedCredentials carries a third-party token (e.g. a Google id_token).
type FederatedCredentials struct {
	ProviderID string `json:"providerId" binding:"required"`
	IDToken    string `json:"idToken" binding:"required"`
	RequestURI string `json:"requestUri"`
}
