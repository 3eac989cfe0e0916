package services

import "context"

// ImageCompressor - точка расширения для уменьшения размера изображений
// перед сохранением. Реализации обязаны возвращать содержимое того же
// формата, что и на входе.
type ImageCompressor interface {
	Compress(ctx context.Context, data []byte, mime string) ([]byte, error)
}

// NopCompressor - реализация по умолчанию, возвращающая данные без изменений.
type NopCompressor struct{}

// NewNopCompressor создает компрессор-заглушку.
func NewNopCompressor() *NopCompressor {
	return &NopCompressor{}
}

// Compress возвращает входные данные без изменений.
func (c *NopCompressor) Compress(_ context.Context, data []byte, _ string) ([]byte, error) {
	return data, nil
}
