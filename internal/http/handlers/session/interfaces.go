package session

import "context"

const pkg = "sessionHandler/"

const AuthTokenHeader = "auth-token"

type SessionCreator interface {
	Login(ctx context.Context, login string, password string) (string, error)
}

type SessionDeleter interface {
	Logout(ctx context.Context, authHeader string) error
}
