package models

import "github.com/dmitrijs2005/gophbooks/internal/common"

type User struct {
	ID   string
	Role string
}

func (u User) IsAdmin() bool { return u.Role == common.RoleAdmin }

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResult is the body of a successful POST /login. UserID and Role are
// optional; the client falls back to access-token claims when they are empty.
type LoginResult struct {
	TokenPair
	UserID string `json:"userId"`
	Role   string `json:"role"`
}
