package model

import "github.com/golang-jwt/jwt"

// UserClaims are the JWT claims accepted by the admin API.
type UserClaims struct {
	UserName string `json:"user_name"`
	IsStaff  bool   `json:"is_staff"`
	jwt.StandardClaims
}
