package auth

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

// LoginInput carries the login form fields.
type LoginInput struct {
	Email    string
	Password string
}
