// Copyright 2025 The Ethersign Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eip712 implements typed structured data hashing and signing
// payload construction as specified by EIP-712. Struct types are declared
// from ordered member lists, instances hold concrete values, and the
// package derives canonical type signatures, type hashes, struct hashes
// and the final signable byte sequence. Typed data messages can be
// round-tripped to and from the JSON-compatible wire form.
package eip712

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

// Type is a member type of an EIP-712 struct. Every type has a canonical
// solidity-like name and encodes values into exactly 32 bytes.
type Type interface {
	// TypeName returns the canonical solidity-like name of the type.
	TypeName() string
	// EncodeValue encodes the given value into its 32-byte representation.
	// A nil value is substituted with the type's zero value first.
	EncodeValue(value interface{}) ([]byte, error)
}

type addressType struct{}

// NewAddress returns the address type.
func NewAddress() Type { return addressType{} }

func (addressType) TypeName() string { return "address" }

// EncodeValue encodes an address like an unsigned 160-bit integer,
// right-aligned into 32 bytes. Accepted inputs are common.Address, raw
// bytes, hex strings and integer values.
func (addressType) EncodeValue(value interface{}) ([]byte, error) {
	if value == nil {
		value = 0
	}
	var n *big.Int
	switch v := value.(type) {
	case common.Address:
		n = new(big.Int).SetBytes(v.Bytes())
	case []byte:
		n = new(big.Int).SetBytes(v)
	case string:
		b, err := decodeHex(v)
		if err != nil {
			return nil, err
		}
		n = new(big.Int).SetBytes(b)
	default:
		var err error
		n, err = toBigInt(value)
		if err != nil {
			return nil, err
		}
	}
	return encodeUint(n, 160)
}

type booleanType struct{}

// NewBoolean returns the bool type.
func NewBoolean() Type { return booleanType{} }

func (booleanType) TypeName() string { return "bool" }

func (booleanType) EncodeValue(value interface{}) ([]byte, error) {
	if value == nil {
		value = false
	}
	b, ok := value.(bool)
	if !ok {
		return nil, fmt.Errorf("%w: bool must be true or false, got %T", ErrInvalidValue, value)
	}
	n := big.NewInt(0)
	if b {
		n = big.NewInt(1)
	}
	return encodeUint(n, 256)
}

type bytesType struct {
	length int
}

// NewBytes returns a bytes type. Length zero declares the dynamic bytes
// type; lengths 1 through 32 declare the fixed bytesN types.
func NewBytes(length int) (Type, error) {
	if length < 0 || length > 32 {
		return nil, fmt.Errorf("%w: byte length must be between 0 and 32, got %d", ErrInvalidDeclaration, length)
	}
	return bytesType{length: length}, nil
}

func (t bytesType) TypeName() string {
	if t.length == 0 {
		return "bytes"
	}
	return fmt.Sprintf("bytes%d", t.length)
}

// EncodeValue right-pads fixed bytesN values to 32 bytes and hashes
// dynamic bytes values. Hex strings are decoded to raw bytes first.
func (t bytesType) EncodeValue(value interface{}) ([]byte, error) {
	if value == nil {
		value = []byte{}
	}
	b, err := toBytes(value)
	if err != nil {
		return nil, err
	}
	if t.length == 0 {
		return crypto.Keccak256(b), nil
	}
	if len(b) > t.length {
		return nil, fmt.Errorf("%w: %s given %d bytes", ErrInvalidValue, t.TypeName(), len(b))
	}
	return common.RightPadBytes(b, 32), nil
}

type intType struct {
	bits int
}

// NewInt returns a signed integer type of the given bit width. The width
// must be a multiple of 8 between 8 and 256.
func NewInt(bits int) (Type, error) {
	if err := checkBits(bits); err != nil {
		return nil, err
	}
	return intType{bits: bits}, nil
}

func (t intType) TypeName() string { return fmt.Sprintf("int%d", t.bits) }

// EncodeValue validates the value at the declared width and encodes it as
// a big-endian two's-complement number sign-extended into 32 bytes.
func (t intType) EncodeValue(value interface{}) ([]byte, error) {
	if value == nil {
		value = 0
	}
	n, err := toBigInt(value)
	if err != nil {
		return nil, err
	}
	max := new(big.Int).Lsh(big.NewInt(1), uint(t.bits-1))
	min := new(big.Int).Neg(max)
	max.Sub(max, big.NewInt(1))
	if n.Cmp(min) < 0 || n.Cmp(max) > 0 {
		return nil, fmt.Errorf("%w: %s overflows %s", ErrInvalidValue, n, t.TypeName())
	}
	return math.U256Bytes(new(big.Int).Set(n)), nil
}

type stringType struct{}

// NewString returns the string type.
func NewString() Type { return stringType{} }

func (stringType) TypeName() string { return "string" }

func (stringType) EncodeValue(value interface{}) ([]byte, error) {
	if value == nil {
		value = ""
	}
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: string expected, got %T", ErrInvalidValue, value)
	}
	return crypto.Keccak256([]byte(s)), nil
}

type uintType struct {
	bits int
}

// NewUint returns an unsigned integer type of the given bit width. The
// width must be a multiple of 8 between 8 and 256.
func NewUint(bits int) (Type, error) {
	if err := checkBits(bits); err != nil {
		return nil, err
	}
	return uintType{bits: bits}, nil
}

func (t uintType) TypeName() string { return fmt.Sprintf("uint%d", t.bits) }

// EncodeValue validates the value at the declared width and encodes it as
// a big-endian unsigned number zero-extended into 32 bytes.
func (t uintType) EncodeValue(value interface{}) ([]byte, error) {
	if value == nil {
		value = 0
	}
	n, err := toBigInt(value)
	if err != nil {
		return nil, err
	}
	b, err := encodeUint(n, t.bits)
	if err != nil {
		return nil, fmt.Errorf("%w: %s overflows %s", ErrInvalidValue, n, t.TypeName())
	}
	return b, nil
}

type arrayType struct {
	member      Type
	fixedLength int
}

// NewArray returns an array type over the given member type. A fixed
// length of zero declares a dynamically sized array.
func NewArray(member Type, fixedLength int) Type {
	return arrayType{member: member, fixedLength: fixedLength}
}

func (t arrayType) TypeName() string {
	if t.fixedLength > 0 {
		return fmt.Sprintf("%s[%d]", t.member.TypeName(), t.fixedLength)
	}
	return t.member.TypeName() + "[]"
}

// EncodeValue concatenates the member encoding of every element in
// sequence order and hashes the concatenation. Struct members contribute
// their struct hash. Fixed-length arrays reject a mismatched element
// count.
func (t arrayType) EncodeValue(value interface{}) ([]byte, error) {
	if value == nil {
		value = []interface{}{}
	}
	elems, err := toSlice(value)
	if err != nil {
		return nil, err
	}
	if t.fixedLength > 0 && len(elems) != t.fixedLength {
		return nil, fmt.Errorf("%w: %s given %d elements", ErrInvalidValue, t.TypeName(), len(elems))
	}
	var enc []byte
	for i, e := range elems {
		b, err := t.member.EncodeValue(e)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		enc = append(enc, b...)
	}
	return crypto.Keccak256(enc), nil
}

var solidityTypeRE = regexp.MustCompile(`^([a-z]+)([0-9]+)?(\[([0-9]+)?\])?$`)

// FromSolidityType parses a solidity-like primitive type name, such as
// "uint256", "bytes32" or "address[4]", into its Type. Names that do not
// refer to a primitive type yield a nil Type so that callers can treat
// them as struct type references. An invalid width on a recognized
// primitive is a declaration error.
func FromSolidityType(name string) (Type, error) {
	m := solidityTypeRE.FindStringSubmatch(name)
	if m == nil {
		return nil, nil
	}
	base, size, suffix, length := m[1], m[2], m[3], m[4]

	var t Type
	var err error
	switch base {
	case "address":
		if size != "" {
			return nil, nil
		}
		t = NewAddress()
	case "bool":
		if size != "" {
			return nil, nil
		}
		t = NewBoolean()
	case "string":
		if size != "" {
			return nil, nil
		}
		t = NewString()
	case "bytes":
		var n int
		if n, err = atoiDefault(size, 0); err == nil {
			t, err = NewBytes(n)
		}
	case "int":
		var n int
		if n, err = atoiDefault(size, 256); err == nil {
			t, err = NewInt(n)
		}
	case "uint":
		var n int
		if n, err = atoiDefault(size, 256); err == nil {
			t, err = NewUint(n)
		}
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if suffix != "" {
		n, err := atoiDefault(length, 0)
		if err != nil {
			return nil, err
		}
		t = NewArray(t, n)
	}
	return t, nil
}

// atoiDefault parses a width or length atom, substituting def for the
// empty string. A string of digits too large for int is a declaration
// error, not a silent fallback.
func atoiDefault(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid size %q: %v", ErrInvalidDeclaration, s, err)
	}
	return n, nil
}

func checkBits(bits int) error {
	if bits < 8 || bits > 256 || bits%8 != 0 {
		return fmt.Errorf("%w: integer width must be a multiple of 8 between 8 and 256, got %d", ErrInvalidDeclaration, bits)
	}
	return nil
}

func encodeUint(n *big.Int, bits int) ([]byte, error) {
	if n.Sign() < 0 || n.BitLen() > bits {
		return nil, fmt.Errorf("%w: %s overflows uint%d", ErrInvalidValue, n, bits)
	}
	return math.PaddedBigBytes(n, 32), nil
}

func toBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return v, nil
	case int:
		return big.NewInt(int64(v)), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case float64:
		// JSON numbers decode as float64. Only integral values are valid.
		n, acc := new(big.Float).SetFloat64(v).Int(nil)
		if acc != big.Exact {
			return nil, fmt.Errorf("%w: non-integral number %v", ErrInvalidValue, v)
		}
		return n, nil
	case json.Number:
		n, ok := math.ParseBig256(v.String())
		if !ok {
			return nil, fmt.Errorf("%w: cannot parse %q as an integer", ErrInvalidValue, v)
		}
		return n, nil
	case string:
		n, ok := math.ParseBig256(v)
		if !ok {
			return nil, fmt.Errorf("%w: cannot parse %q as an integer", ErrInvalidValue, v)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%w: integer expected, got %T", ErrInvalidValue, value)
	}
}

func toBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case common.Hash:
		return v.Bytes(), nil
	case string:
		return decodeHex(v)
	default:
		return nil, fmt.Errorf("%w: bytes expected, got %T", ErrInvalidValue, value)
	}
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hex string: %v", ErrInvalidValue, err)
	}
	return b, nil
}

func toSlice(value interface{}) ([]interface{}, error) {
	if s, ok := value.([]interface{}); ok {
		return s, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: sequence expected, got %T", ErrInvalidValue, value)
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}
