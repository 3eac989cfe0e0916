// Package services contains the pure domain services of the files module:
// binary signature detection, upload validation and the image compression
// capability.
package services

import (
	"bytes"
	"strings"
)

// signature связывает префикс магических байтов с каноническим MIME типом.
type signature struct {
	prefix []byte
	mime   string
}

// Таблица известных сигнатур. Порядок имеет значение: более длинные и более
// специфичные префиксы идут первыми.
var knownSignatures = []signature{
	{prefix: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, mime: "image/png"},
	{prefix: []byte{0xFF, 0xD8, 0xFF}, mime: "image/jpeg"},
	{prefix: []byte{0x47, 0x49, 0x46, 0x38}, mime: "image/gif"},
}

// Контейнерные форматы: RIFF и ISO-BMFF различаются не по префиксу,
// а по байтам на фиксированных смещениях.
var (
	riffHeader = []byte{0x52, 0x49, 0x46, 0x46} // "RIFF"
	webpFourCC = []byte{0x57, 0x45, 0x42, 0x50} // "WEBP" по смещению 8
	aviFourCC  = []byte{0x41, 0x56, 0x49, 0x20} // "AVI " по смещению 8
	ftypBox    = []byte{0x66, 0x74, 0x79, 0x70} // "ftyp" по смещению 4
)

// SignatureDetector определяет MIME тип по содержимому буфера.
// Чистая функция байтов: без состояния и побочных эффектов.
type SignatureDetector struct{}

// NewSignatureDetector создает новый детектор сигнатур.
func NewSignatureDetector() *SignatureDetector {
	return &SignatureDetector{}
}

// DetectMime возвращает MIME тип, подтвержденный содержимым буфера.
// Если ни одна известная сигнатура не совпала, возвращается заявленный
// клиентом тип, приведенный к нижнему регистру.
func (d *SignatureDetector) DetectMime(data []byte, declaredMime string) string {
	if mime, ok := d.DetectSignature(data); ok {
		return mime
	}
	return strings.ToLower(declaredMime)
}

// DetectSignature возвращает MIME тип по сигнатуре и признак того,
// что сигнатура действительно была найдена.
func (d *SignatureDetector) DetectSignature(data []byte) (string, bool) {
	for _, sig := range knownSignatures {
		if len(data) >= len(sig.prefix) && bytes.Equal(data[:len(sig.prefix)], sig.prefix) {
			return sig.mime, true
		}
	}

	// RIFF контейнер: WebP и AVI начинаются одинаково,
	// различаются по fourCC на смещении 8.
	if len(data) >= 12 && bytes.Equal(data[:4], riffHeader) {
		switch {
		case bytes.Equal(data[8:12], webpFourCC):
			return "image/webp", true
		case bytes.Equal(data[8:12], aviFourCC):
			return "video/avi", true
		}
	}

	// ISO-BMFF: блок "ftyp" на смещении 4 после длины блока.
	if len(data) >= 8 && bytes.Equal(data[4:8], ftypBox) {
		return "video/mp4", true
	}

	return "", false
}
