package bead

import "errors"

var (
	ErrInvalidDimension   = errors.New("invalid dimension")
	ErrBufferSizeMismatch = errors.New("buffer size mismatch")
	ErrEmptyPalette       = errors.New("empty palette")
)
