package util

import "errors"

var (
	ErrLessonNotFound    = errors.New("lesson not found")
	ErrInvalidLanguage   = errors.New("unsupported language")
	ErrInvalidStatus     = errors.New("invalid progress status")
	ErrInvalidImageExt   = errors.New("only .png, .jpg, .jpeg and .webp images are allowed")
	ErrTutorNotAvailable = errors.New("AI tutor API key not configured")
	ErrWhatsAppDisabled  = errors.New("WhatsApp credentials not configured")
	ErrStorage           = errors.New("storage unavailable")
	ErrReservedEvent     = errors.New("event type is recorded by the server")
)
