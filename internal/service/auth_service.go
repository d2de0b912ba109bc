package service

// AuthService は管理者の認証に関するビジネスロジックのインターフェース
type AuthService interface {
	// Login verifies the operator credentials. On mismatch it returns
	// ErrInvalidCredentials without revealing which part was wrong.
	Login(username, password string) error
}
