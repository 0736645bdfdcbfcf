package utils

import (
	"time"

	"subtitle-widget/domain/model"
	"subtitle-widget/infrastructure/logger"

	"github.com/golang-jwt/jwt"
)

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// GenerateStaffToken signs an admin API token for userName valid for ttl.
func GenerateStaffToken(userName string, ttl time.Duration, secretKey string) (string, error) {
	now := GetCurrentTime()
	claims := model.UserClaims{
		UserName: userName,
		IsStaff:  true,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
			Subject:   userName,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return tokenString, nil
}
