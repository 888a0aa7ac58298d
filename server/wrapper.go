// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import "net/http"

type Wrapper interface {
	// WrapHandler wraps an http.Handler.
	WrapHandler(h http.Handler) http.Handler
}

// WrapperFunc adapts a function to a [Wrapper].
type WrapperFunc func(h http.Handler) http.Handler

func (f WrapperFunc) WrapHandler(h http.Handler) http.Handler {
	return f(h)
}
