// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"errors"
	"fmt"
)

// Categories. Every handler error wraps exactly one of these.
var (
	ErrDomainValidation   = errors.New("domain validation failed")
	ErrExternalCapability = errors.New("external capability check failed")
)

var (
	// Treasury and authority
	ErrInvalidTreasury  = fmt.Errorf("%w: treasury must be a contract address", ErrDomainValidation)
	ErrTreasuryInactive = fmt.Errorf("%w: treasury not active", ErrDomainValidation)
	ErrInvalidTimelock  = fmt.Errorf("%w: treasury timelock out of range", ErrDomainValidation)
	ErrInvalidAuthority = fmt.Errorf("%w: authority must be a contract address", ErrDomainValidation)
	ErrInvalidRole      = fmt.Errorf("%w: unknown role", ErrDomainValidation)

	// Templates and pools
	ErrInvalidFeeRate    = fmt.Errorf("%w: fee rate above maximum", ErrDomainValidation)
	ErrInvalidTickSize   = fmt.Errorf("%w: tick size is zero", ErrDomainValidation)
	ErrInvalidPriceRange = fmt.Errorf("%w: invalid price range", ErrDomainValidation)
	ErrTemplateNotFound  = fmt.Errorf("%w: template does not exist", ErrDomainValidation)
	ErrTemplateDisabled  = fmt.Errorf("%w: template disabled", ErrDomainValidation)
	ErrPoolNotFound      = fmt.Errorf("%w: pool does not exist", ErrDomainValidation)
	ErrPoolExists        = fmt.Errorf("%w: pool already exists", ErrDomainValidation)
	ErrUnsortedTokens    = fmt.Errorf("%w: base must sort before quote", ErrDomainValidation)
	ErrPriceOutOfRange   = fmt.Errorf("%w: price outside template range", ErrDomainValidation)
	ErrInvalidTakeRate   = fmt.Errorf("%w: take rate above maximum", ErrDomainValidation)
	ErrInvalidNewPoolLiq = fmt.Errorf("%w: new pool liquidity is zero", ErrDomainValidation)

	// Routers, nonces and surplus
	ErrInvalidRouter  = fmt.Errorf("%w: router is empty", ErrDomainValidation)
	ErrNoCallpaths    = fmt.Errorf("%w: no callpaths", ErrDomainValidation)
	ErrAdminCallpath  = fmt.Errorf("%w: administrative callpath cannot be approved", ErrDomainValidation)
	ErrZeroDeposit    = fmt.Errorf("%w: deposit is zero", ErrDomainValidation)
	ErrInvalidOracle  = fmt.Errorf("%w: oracle must be a contract address", ErrDomainValidation)
	ErrSelfTransfer   = fmt.Errorf("%w: surplus transfer to self", ErrDomainValidation)
	ErrSameSidePocket = fmt.Errorf("%w: side pocket to same salt", ErrDomainValidation)

	// Capabilities and collaborators
	ErrAuthorityNotAccepted = fmt.Errorf("%w: target does not accept authority", ErrExternalCapability)
	ErrOracleUnavailable    = fmt.Errorf("%w: oracle not found", ErrExternalCapability)
	ErrOracleRejected       = fmt.Errorf("%w: oracle rejected", ErrExternalCapability)
	ErrCollaborator         = fmt.Errorf("%w: collaborator call failed", ErrExternalCapability)

	// Registry construction
	ErrUnknownCommand = errors.New("unknown command name")
	ErrUnsafeCommand  = errors.New("command not allowed in safe registry")
)
