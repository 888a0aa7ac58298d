// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"errors"

	"github.com/ava-labs/hyperdex/actions"
	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/guard"
	"github.com/ava-labs/hyperdex/registry"
)

var (
	ErrReentrant = errors.New("dispatcher re-entered")
	ErrClosed    = errors.New("dispatcher closed")
)

// ErrorCategory groups dispatch failures for callers that branch on the kind
// of failure rather than the exact error.
type ErrorCategory uint8

const (
	NoError ErrorCategory = iota
	DecodeError
	AuthorizationError
	InvalidCommandError
	EmergencyError
	DomainValidationError
	ExternalCapabilityError
	InternalError
)

func (c ErrorCategory) String() string {
	switch c {
	case NoError:
		return "none"
	case DecodeError:
		return "decode"
	case AuthorizationError:
		return "authorization"
	case InvalidCommandError:
		return "invalid_command"
	case EmergencyError:
		return "emergency"
	case DomainValidationError:
		return "domain_validation"
	case ExternalCapabilityError:
		return "external_capability"
	default:
		return "internal"
	}
}

// Category maps [err] to its category. Reentrancy is internal even when a
// collaborator wraps it, as is anything unrecognized.
func Category(err error) ErrorCategory {
	switch {
	case err == nil:
		return NoError
	case errors.Is(err, ErrReentrant), errors.Is(err, ErrClosed):
		return InternalError
	case errors.Is(err, codec.ErrDecode):
		return DecodeError
	case errors.Is(err, guard.ErrEmergency):
		return EmergencyError
	case errors.Is(err, guard.ErrUnauthorized):
		return AuthorizationError
	case errors.Is(err, registry.ErrInvalidCommand):
		return InvalidCommandError
	case errors.Is(err, actions.ErrExternalCapability):
		return ExternalCapabilityError
	case errors.Is(err, actions.ErrDomainValidation):
		return DomainValidationError
	default:
		return InternalError
	}
}
