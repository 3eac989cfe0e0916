package services

// PasswordService определяет интерфейс для хеширования и проверки паролей.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}
