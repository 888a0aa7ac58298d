// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrCorruptValue = errors.New("corrupt stored value")
	ErrInvalidFees  = errors.New("invalid protocol fees")
)
