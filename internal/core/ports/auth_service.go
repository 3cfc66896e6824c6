package ports

import "context"

// RegisterInput carries a registration request into the service layer.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput carries a login request into the service layer.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token string
	Role  string
	Email string
	Name  string
	ID    int
}

// AuthService implements registration and login for both principal classes.
type AuthService interface {
	RegisterAdmin(ctx context.Context, in RegisterInput) (string, error)
	RegisterUser(ctx context.Context, in RegisterInput) (string, error)
	LoginAdmin(ctx context.Context, in LoginInput) (*LoginResult, error)
	LoginUser(ctx context.Context, in LoginInput) (*LoginResult, error)
}
