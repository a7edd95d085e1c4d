package i18n

import "errors"

var (
	ErrEmptyLanguage   = errors.New("i18n: language cannot be empty")
	ErrEmptyNamespace  = errors.New("i18n: namespace cannot be empty")
	ErrInvalidFile     = errors.New("i18n: invalid translation file")
	ErrInvalidLanguage = errors.New("i18n: invalid language tag")
)
