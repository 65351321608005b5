package handler

import (
	"github.com/identihub/identity-service/internal/core/domain"
	"github.com/identihub/identity-service/internal/core/ports"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type loginResponse struct {
	*ports.TokenPair
	User *domain.User `json:"user"`
}
