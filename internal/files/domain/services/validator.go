package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"memora/internal/files/domain/entities"
)

// RejectionReason - код причины отказа в загрузке файла.
type RejectionReason string

// Причины отказа валидатора. Первая непройденная проверка определяет причину.
const (
	ReasonBadFilename       RejectionReason = "bad_filename"
	ReasonReservedName      RejectionReason = "reserved_filename"
	ReasonBadExtension      RejectionReason = "extension_not_allowed"
	ReasonUnsupportedType   RejectionReason = "unsupported_content_type"
	ReasonMimeMismatch      RejectionReason = "mime_extension_mismatch"
	ReasonSizeOutOfRange    RejectionReason = "size_out_of_range"
	ReasonCorruptedContent  RejectionReason = "corrupted_content"
	ReasonSignatureMismatch RejectionReason = "signature_mismatch"
)

// Параметры валидации по умолчанию.
const (
	DefaultMinSizeBytes = int64(100)
	DefaultMaxSizeBytes = int64(50 * 1024 * 1024)

	maxFilenameLength = 255

	// Окно и порог эвристики поврежденного содержимого: первые
	// entropyWindow байт должны содержать не менее minDistinctBytes
	// различных значений.
	entropyWindow    = 1000
	minDistinctBytes = 10
)

// invalidFilenameChars - символы, запрещенные в имени файла.
const invalidFilenameChars = `<>:"/\|?*`

// reservedNames - зарезервированные имена устройств, недопустимые
// в качестве основы имени файла (без расширения), без учета регистра.
var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// allowedMimesByExtension - таблица перекрестной проверки: какие заявленные
// MIME типы допустимы для каждого расширения.
var allowedMimesByExtension = map[string][]string{
	".jpg":  {"image/jpeg", "image/jpg"},
	".jpeg": {"image/jpeg", "image/jpg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".webp": {"image/webp"},
	".mp4":  {"video/mp4"},
	".mov":  {"video/quicktime", "video/mov"},
	".avi":  {"video/avi", "video/x-msvideo"},
	".wmv":  {"video/wmv", "video/x-ms-wmv"},
	".webm": {"video/webm"},
}

// ValidationError описывает отказ валидатора с конкретной причиной.
type ValidationError struct {
	Reason  RejectionReason
	Message string
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("file validation failed (%s): %s", e.Reason, e.Message)
}

// ValidationResult - результат успешной валидации: канонический MIME тип
// и классификация файла.
type ValidationResult struct {
	Mime string
	Kind entities.FileKind
}

// FileValidator принимает или отклоняет кандидата на загрузку.
// Решение - чистая функция входных данных и настроенных границ размера,
// поэтому экземпляр безопасен для конкурентного использования.
type FileValidator struct {
	detector *SignatureDetector
	minSize  int64
	maxSize  int64
}

// NewFileValidator создает валидатор с указанными границами размера.
// Неположительные границы заменяются значениями по умолчанию.
func NewFileValidator(detector *SignatureDetector, minSizeBytes, maxSizeBytes int64) *FileValidator {
	if minSizeBytes <= 0 {
		minSizeBytes = DefaultMinSizeBytes
	}
	if maxSizeBytes <= 0 {
		maxSizeBytes = DefaultMaxSizeBytes
	}
	return &FileValidator{
		detector: detector,
		minSize:  minSizeBytes,
		maxSize:  maxSizeBytes,
	}
}

// Validate прогоняет кандидата через все проверки в фиксированном порядке
// и останавливается на первой непройденной. Структурные проверки имени
// выполняются до декларативных (MIME/расширение), содержимое
// инспектируется последним.
func (v *FileValidator) Validate(data []byte, filename, declaredMime string) (*ValidationResult, *ValidationError) {
	ext, vErr := v.checkFilename(filename)
	if vErr != nil {
		return nil, vErr
	}

	if vErr := v.checkDeclaredMime(ext, declaredMime); vErr != nil {
		return nil, vErr
	}

	if vErr := v.checkSize(int64(len(data))); vErr != nil {
		return nil, vErr
	}

	if vErr := v.checkContent(data); vErr != nil {
		return nil, vErr
	}

	validMime, vErr := v.checkSignature(data, ext, declaredMime)
	if vErr != nil {
		return nil, vErr
	}

	kind, err := ClassifyMime(validMime)
	if err != nil {
		// Недостижимо после пройденных проверок: допустимые MIME типы
		// всегда image/* или video/*.
		return nil, &ValidationError{
			Reason:  ReasonUnsupportedType,
			Message: err.Error(),
		}
	}

	return &ValidationResult{Mime: validMime, Kind: kind}, nil
}

// checkFilename проверяет структурную корректность имени файла и
// возвращает его расширение в нижнем регистре.
func (v *FileValidator) checkFilename(filename string) (string, *ValidationError) {
	if filename == "" {
		return "", &ValidationError{Reason: ReasonBadFilename, Message: "filename is empty"}
	}
	if len(filename) > maxFilenameLength {
		return "", &ValidationError{
			Reason:  ReasonBadFilename,
			Message: fmt.Sprintf("filename exceeds %d characters", maxFilenameLength),
		}
	}
	if strings.ContainsAny(filename, invalidFilenameChars) {
		return "", &ValidationError{Reason: ReasonBadFilename, Message: "filename contains invalid characters"}
	}
	for _, r := range filename {
		if r < 0x20 {
			return "", &ValidationError{Reason: ReasonBadFilename, Message: "filename contains control characters"}
		}
	}
	if strings.HasPrefix(filename, ".") || strings.HasPrefix(filename, " ") ||
		strings.HasSuffix(filename, ".") || strings.HasSuffix(filename, " ") {
		return "", &ValidationError{Reason: ReasonBadFilename, Message: "filename starts or ends with a dot or space"}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedMimesByExtension[ext]; !ok {
		return "", &ValidationError{
			Reason:  ReasonBadExtension,
			Message: fmt.Sprintf("extension %q is not allowed", ext),
		}
	}

	stem := strings.ToUpper(strings.TrimSuffix(filename, filepath.Ext(filename)))
	if _, ok := reservedNames[stem]; ok {
		return "", &ValidationError{
			Reason:  ReasonReservedName,
			Message: fmt.Sprintf("filename %q is a reserved device name", filename),
		}
	}

	return ext, nil
}

// checkDeclaredMime проверяет, что заявленный тип вообще поддерживается
// и допустим для данного расширения.
func (v *FileValidator) checkDeclaredMime(ext, declaredMime string) *ValidationError {
	if declaredMime == "" {
		return &ValidationError{Reason: ReasonUnsupportedType, Message: "content type is empty"}
	}

	declared := strings.ToLower(declaredMime)

	supported := false
	for _, mimes := range allowedMimesByExtension {
		for _, mime := range mimes {
			if mime == declared {
				supported = true
				break
			}
		}
	}
	if !supported {
		return &ValidationError{
			Reason:  ReasonUnsupportedType,
			Message: fmt.Sprintf("content type %q is not supported", declaredMime),
		}
	}

	for _, mime := range allowedMimesByExtension[ext] {
		if mime == declared {
			return nil
		}
	}
	return &ValidationError{
		Reason:  ReasonMimeMismatch,
		Message: fmt.Sprintf("content type %q does not match extension %q", declaredMime, ext),
	}
}

// checkSize проверяет, что размер находится в настроенных границах.
func (v *FileValidator) checkSize(size int64) *ValidationError {
	if size < v.minSize || size > v.maxSize {
		return &ValidationError{
			Reason:  ReasonSizeOutOfRange,
			Message: fmt.Sprintf("size %d bytes is outside the allowed range [%d, %d]", size, v.minSize, v.maxSize),
		}
	}
	return nil
}

// checkContent отсекает вырожденное содержимое: пустые буферы, буферы из
// одного повторяющегося байта и буферы с аномально низким разнообразием
// значений в начале файла.
func (v *FileValidator) checkContent(data []byte) *ValidationError {
	if len(data) == 0 {
		return &ValidationError{Reason: ReasonCorruptedContent, Message: "file content is empty"}
	}

	uniform := true
	for _, b := range data {
		if b != data[0] {
			uniform = false
			break
		}
	}
	if uniform {
		return &ValidationError{Reason: ReasonCorruptedContent, Message: "file content is a single repeated byte"}
	}

	window := data
	if len(window) > entropyWindow {
		window = window[:entropyWindow]
	}
	var seen [256]bool
	distinct := 0
	for _, b := range window {
		if !seen[b] {
			seen[b] = true
			distinct++
			if distinct >= minDistinctBytes {
				return nil
			}
		}
	}
	return &ValidationError{
		Reason:  ReasonCorruptedContent,
		Message: fmt.Sprintf("file header contains only %d distinct byte values", distinct),
	}
}

// checkSignature сверяет фактическую сигнатуру содержимого с заявленным
// типом и возвращает канонический валидированный MIME. Если ни одна
// известная сигнатура не найдена, проверка снисходительна: решение уже
// принято декларативными проверками выше, и валидированным типом
// становится заявленный в нижнем регистре.
func (v *FileValidator) checkSignature(data []byte, ext, declaredMime string) (string, *ValidationError) {
	detected, found := v.detector.DetectSignature(data)
	if !found {
		return strings.ToLower(declaredMime), nil
	}

	declared := strings.ToLower(declaredMime)
	if detected == declared {
		return detected, nil
	}

	// Сигнатура может давать канонический тип, отличный от заявленного
	// синонима (image/jpg против image/jpeg). Содержимое считается
	// согласованным, если обнаруженный тип допустим для расширения файла.
	for _, mime := range allowedMimesByExtension[ext] {
		if mime == detected {
			return detected, nil
		}
	}

	return "", &ValidationError{
		Reason:  ReasonSignatureMismatch,
		Message: fmt.Sprintf("content signature %q contradicts declared type %q", detected, declaredMime),
	}
}

// ClassifyMime относит валидированный MIME тип к виду файла.
// Любой тип вне image/* и video/* означает нарушение инварианта валидатора.
func ClassifyMime(mime string) (entities.FileKind, error) {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return entities.KindImagen, nil
	case strings.HasPrefix(mime, "video/"):
		return entities.KindVideo, nil
	default:
		return "", fmt.Errorf("mime type %q cannot be classified", mime)
	}
}
