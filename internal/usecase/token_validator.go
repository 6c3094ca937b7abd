package usecase

import (
	"clinic-scheduler/internal/domain/user"
	"clinic-scheduler/internal/pkg/jwt"
	"clinic-scheduler/internal/usecase/commands"
)

// TokenValidator turns a bearer token into the actor booking commands run as
type TokenValidator interface {
	ValidateToken(tokenString string) (commands.Actor, error)
}

type jwtTokenValidator struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &jwtTokenValidator{jwtService: jwtService}
}

func (t *jwtTokenValidator) ValidateToken(tokenString string) (commands.Actor, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return commands.Actor{}, err
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return commands.Actor{}, jwt.ErrInvalidToken
	}

	return commands.Actor{UserID: claims.UserID, Role: role}, nil
}
