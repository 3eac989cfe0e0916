package config

import (
	"time"

	"memora/pkg/db/redis"
)

// RedisConfig содержит настройки подключения к Redis.
type RedisConfig struct {
	Host     string        `yaml:"host" env:"MEMORA_REDIS_HOST" env-default:"redis"`
	Port     int           `yaml:"port" env:"MEMORA_REDIS_PORT" env-default:"6379"`
	Password string        `yaml:"password" env:"MEMORA_REDIS_PASSWORD" env-default:""`
	DB       int           `yaml:"db" env:"MEMORA_REDIS_DB" env-default:"0"`
	PoolSize int           `yaml:"pool_size" env:"MEMORA_REDIS_POOL_SIZE" env-default:"10"`
	Timeout  time.Duration `yaml:"timeout" env:"MEMORA_REDIS_TIMEOUT" env-default:"5s"`
}

// ToClientConfig преобразует настройки в конфигурацию клиента Redis.
func (r *RedisConfig) ToClientConfig() *redis.Config {
	return &redis.Config{
		Host:     r.Host,
		Port:     r.Port,
		Password: r.Password,
		DB:       r.DB,
		PoolSize: r.PoolSize,
		Timeout:  r.Timeout,
	}
}
