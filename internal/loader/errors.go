package loader

import "errors"

// ErrEmptyROM is returned for a ROM file without data.
var ErrEmptyROM = errors.New("rom is empty")
