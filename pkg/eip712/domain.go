// Copyright 2025 The Ethersign Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eip712

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// DomainTypeName is the conventional name of the domain struct type.
const DomainTypeName = "EIP712Domain"

var (
	uint256Type, _ = NewUint(256)
	bytes32Type, _ = NewBytes(32)
)

type domainParams struct {
	name              *string
	version           *string
	chainID           *big.Int
	verifyingContract *common.Address
	salt              []byte
}

// DomainOption sets one field of the domain struct built by MakeDomain.
type DomainOption func(*domainParams)

// WithName sets the domain name.
func WithName(name string) DomainOption {
	return func(p *domainParams) { p.name = &name }
}

// WithVersion sets the domain version.
func WithVersion(version string) DomainOption {
	return func(p *domainParams) { p.version = &version }
}

// WithChainID sets the domain chain id.
func WithChainID(chainID *big.Int) DomainOption {
	return func(p *domainParams) { p.chainID = chainID }
}

// WithVerifyingContract sets the verifying contract address.
func WithVerifyingContract(address common.Address) DomainOption {
	return func(p *domainParams) { p.verifyingContract = &address }
}

// WithSalt sets the domain salt. The salt is a bytes32 value.
func WithSalt(salt []byte) DomainOption {
	return func(p *domainParams) { p.salt = salt }
}

// MakeDomain builds the conventional EIP712Domain struct instance. Per the
// standard, a field that is not supplied is omitted from the struct
// entirely; the supplied fields keep the fixed order name, version,
// chainId, verifyingContract, salt. At least one field must be given.
func MakeDomain(opts ...DomainOption) (*Struct, error) {
	var p domainParams
	for _, o := range opts {
		o(&p)
	}

	var members []Member
	values := make(map[string]interface{})
	if p.name != nil {
		members = append(members, Member{Name: "name", Type: NewString()})
		values["name"] = *p.name
	}
	if p.version != nil {
		members = append(members, Member{Name: "version", Type: NewString()})
		values["version"] = *p.version
	}
	if p.chainID != nil {
		members = append(members, Member{Name: "chainId", Type: uint256Type})
		values["chainId"] = p.chainID
	}
	if p.verifyingContract != nil {
		members = append(members, Member{Name: "verifyingContract", Type: NewAddress()})
		values["verifyingContract"] = *p.verifyingContract
	}
	if p.salt != nil {
		members = append(members, Member{Name: "salt", Type: bytes32Type})
		values["salt"] = p.salt
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: at least one domain field must be given", ErrInvalidDeclaration)
	}

	t, err := NewStructType(DomainTypeName, members)
	if err != nil {
		return nil, err
	}
	return t.New(values)
}

// defaultDomain is process-wide state read by SignableBytes and
// ToTypedData when no explicit domain is supplied. The package makes no
// atomicity guarantee around it: synchronizing mutation against
// concurrent hashing calls is the caller's responsibility.
var defaultDomain *Struct

// SetDefaultDomain sets the process-wide default domain. A nil value
// clears it.
func SetDefaultDomain(domain *Struct) { defaultDomain = domain }

// DefaultDomain returns the process-wide default domain, or nil if none
// is set.
func DefaultDomain() *Struct { return defaultDomain }

func resolveDomain(domain *Struct) (*Struct, error) {
	if domain != nil {
		return domain, nil
	}
	if defaultDomain != nil {
		return defaultDomain, nil
	}
	return nil, fmt.Errorf("%w: provide a domain or call SetDefaultDomain", ErrMissingDomain)
}
