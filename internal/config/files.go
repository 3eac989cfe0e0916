package config

// FileUploadConfig содержит допустимые границы размера загружаемых файлов.
type FileUploadConfig struct {
	MinSizeBytes int64 `yaml:"min_size_bytes" env:"MEMORA_FILES_MIN_SIZE_BYTES" env-default:"100"`
	MaxSizeBytes int64 `yaml:"max_size_bytes" env:"MEMORA_FILES_MAX_SIZE_BYTES" env-default:"52428800"`
}
