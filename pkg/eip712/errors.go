// Copyright 2025 The Ethersign Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eip712

import "errors"

var (
	// ErrInvalidDeclaration is returned for invalid type declarations:
	// out-of-range integer widths and byte lengths, malformed struct
	// member lists and domains declared without any field.
	ErrInvalidDeclaration = errors.New("invalid type declaration")

	// ErrInvalidValue is returned when a value cannot be encoded by the
	// declared type of its member.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnknownField is returned on access to a member name the struct
	// type does not declare.
	ErrUnknownField = errors.New("unknown field")

	// ErrDeleteNotSupported is returned on any attempt to remove a member
	// value from a struct instance.
	ErrDeleteNotSupported = errors.New("delete not supported")

	// ErrUnknownType is returned when typed data deserialization cannot
	// resolve a type reference.
	ErrUnknownType = errors.New("unknown type")

	// ErrMissingDomain is returned when an operation needs a domain and
	// neither an explicit nor a default domain is available.
	ErrMissingDomain = errors.New("missing domain")

	// ErrNotSerializable is returned by the JSON renderer for value kinds
	// it does not recognize.
	ErrNotSerializable = errors.New("value not serializable")
)
