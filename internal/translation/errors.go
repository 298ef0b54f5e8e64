package translation

import "fmt"

// ValidationError ошибка валидации payload до начала записи.
// Key указывает на проблемный ключ формы.
type ValidationError struct {
	Key    string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed on %q: %s", e.Key, e.Reason)
}

func newValidationError(key, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Key: key, Reason: fmt.Sprintf(format, args...)}
}
