package config

import "time"

// JWTConfig содержит настройки для JWT токенов.
type JWTConfig struct {
	SecretKey       string `yaml:"secret_key" env:"MEMORA_JWT_SECRET_KEY" env-default:"xK9mP2vL5nQ8rT1wY4zB7cF0hJ3kM6pS9uV2xA5dG8jN1qR4tW7zC0eH3iL6oU9"`
	AccessTokenTTL  string `yaml:"access_token_ttl" env:"MEMORA_JWT_ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL string `yaml:"refresh_token_ttl" env:"MEMORA_JWT_REFRESH_TOKEN_TTL" env-default:"24h"`
	BCryptCost      int    `yaml:"bcrypt_cost" env:"MEMORA_BCRYPT_COST" env-default:"10"`
}

// GetAccessTokenTTL возвращает продолжительность времени жизни access токена.
func (c *JWTConfig) GetAccessTokenTTL() time.Duration {
	duration, err := time.ParseDuration(c.AccessTokenTTL)
	if err != nil {
		return 15 * time.Minute
	}
	return duration
}

// GetRefreshTokenTTL возвращает продолжительность времени жизни refresh токена.
func (c *JWTConfig) GetRefreshTokenTTL() time.Duration {
	duration, err := time.ParseDuration(c.RefreshTokenTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}
