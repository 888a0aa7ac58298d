// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"errors"
	"fmt"
)

// ErrDecode is the category of every payload shape mismatch.
var ErrDecode = errors.New("decode error")

var (
	ErrTooManyItems       = errors.New("too many items")
	ErrDuplicateItem      = errors.New("duplicate item")
	ErrFieldNotPopulated  = errors.New("field is not populated")
	ErrEmptyPayload       = fmt.Errorf("%w: empty payload", ErrDecode)
	ErrTrailingBytes      = fmt.Errorf("%w: trailing bytes", ErrDecode)
	ErrInsufficientLength = errors.New("insufficient length")
	ErrInvalidSize        = errors.New("invalid size")
	ErrUnexpectedOpcode   = fmt.Errorf("%w: unexpected opcode", ErrDecode)
)
