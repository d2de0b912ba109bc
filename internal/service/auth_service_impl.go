package service

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// authServiceImpl checks credentials against a single configured operator
// account. The password is held only as a bcrypt hash.
type authServiceImpl struct {
	username     string
	passwordHash []byte
}

// NewAuthService creates an AuthService for the configured operator.
func NewAuthService(username string, passwordHash []byte) AuthService {
	return &authServiceImpl{username: username, passwordHash: passwordHash}
}

// Login compares the username in constant time and the password against the
// bcrypt hash. Both checks always run so timing does not leak which failed.
func (s *authServiceImpl) Login(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}
