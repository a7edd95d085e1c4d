package ui

import "errors"

// ErrConfirmReplaced is returned by Confirm when a newer dialog replaced it.
var ErrConfirmReplaced = errors.New("ui: confirmation replaced by a newer one")
