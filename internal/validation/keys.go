package validation

import (
	"errors"
	"fmt"
	"regexp"
)

// ComponentKeyPattern определяет допустимый формат ключа проекта/модуля на сервере:
// латинские буквы, цифры, '-', '_', '.', ':'
var ComponentKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)

// ServerIDPattern определяет допустимый идентификатор сервера в конфигурации
var ServerIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,64}$`)

const (
	// MaxComponentKeyLen максимальная длина ключа компонента
	MaxComponentKeyLen = 400
)

var (
	// ErrInvalidComponentKey indicates a malformed project or module key
	ErrInvalidComponentKey = errors.New("invalid component key")
	// ErrInvalidServerID indicates a malformed server id
	ErrInvalidServerID = errors.New("invalid server id")
)

// ValidateComponentKey проверяет ключ проекта или модуля.
// Ключ не может состоять только из цифр (сервер отвергает такие ключи).
func ValidateComponentKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidComponentKey)
	}

	if len(key) > MaxComponentKeyLen {
		return fmt.Errorf("%w: key must not exceed %d characters", ErrInvalidComponentKey, MaxComponentKeyLen)
	}

	if !ComponentKeyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q can only contain letters, numbers, '-', '_', '.' and ':'", ErrInvalidComponentKey, key)
	}

	if onlyDigits(key) {
		return fmt.Errorf("%w: %q must contain at least one non-digit character", ErrInvalidComponentKey, key)
	}

	return nil
}

// ValidateServerID проверяет идентификатор сервера: 1-64 символа из букв, цифр, '-', '_', '.'
func ValidateServerID(id string) error {
	if !ServerIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidServerID, id)
	}
	return nil
}

func onlyDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
