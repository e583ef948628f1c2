package dto

import (
	"net/url"
	"strings"
)

type RegisterRequest struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
}

func RegisterRequestFromForm(form url.Values) RegisterRequest {
	return RegisterRequest{
		Username:  strings.TrimSpace(form.Get("username")),
		Email:     strings.TrimSpace(form.Get("email")),
		Password1: form.Get("password1"),
		Password2: form.Get("password2"),
	}
}

type LoginRequest struct {
	Username string
	Password string
}

func LoginRequestFromForm(form url.Values) LoginRequest {
	return LoginRequest{
		Username: strings.TrimSpace(form.Get("username")),
		Password: form.Get("password"),
	}
}
