// Copyright 2025 The Ethersign Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eip712

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// Member is a single named field declaration of a struct type.
type Member struct {
	Name string
	Type Type
}

// StructType describes a named EIP-712 struct type with an ordered list of
// member declarations. The declaration order is significant: it defines
// the canonical type signature and the data encoding layout. Member types
// may be primitive types, array types or other struct types.
type StructType struct {
	name    string
	members []Member
}

// NewStructType declares a struct type from ordered member declarations.
func NewStructType(name string, members []Member) (*StructType, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty struct type name", ErrInvalidDeclaration)
	}
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if m.Name == "" {
			return nil, fmt.Errorf("%w: empty member name in %s", ErrInvalidDeclaration, name)
		}
		if m.Type == nil {
			return nil, fmt.Errorf("%w: nil type for member %s.%s", ErrInvalidDeclaration, name, m.Name)
		}
		if _, ok := seen[m.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate member %s.%s", ErrInvalidDeclaration, name, m.Name)
		}
		seen[m.Name] = struct{}{}
	}
	t := &StructType{name: name, members: make([]Member, len(members))}
	copy(t.members, members)
	return t, nil
}

// Name returns the struct type name.
func (t *StructType) Name() string { return t.name }

// TypeName implements Type.
func (t *StructType) TypeName() string { return t.name }

// Members returns the member declarations in declaration order.
func (t *StructType) Members() []Member {
	out := make([]Member, len(t.members))
	copy(out, t.members)
	return out
}

func (t *StructType) member(name string) (Member, bool) {
	for _, m := range t.members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// signature returns the type signature of this struct alone, without any
// referenced struct types appended.
func (t *StructType) signature() string {
	var b strings.Builder
	b.WriteString(t.name)
	b.WriteByte('(')
	for i, m := range t.members {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(m.Type.TypeName())
		b.WriteByte(' ')
		b.WriteString(m.Name)
	}
	b.WriteByte(')')
	return b.String()
}

// EncodeType returns the canonical resolved type signature: this struct's
// signature followed by the signature of every transitively referenced
// struct type, in ascending order by type name, excluding the type
// itself.
func (t *StructType) EncodeType() string {
	var refs []*StructType
	t.gatherReferenceStructs(&refs)
	sort.Slice(refs, func(i, j int) bool { return refs[i].name < refs[j].name })

	sig := t.signature()
	for _, r := range refs {
		if r == t {
			continue
		}
		sig += r.signature()
	}
	return sig
}

// gatherReferenceStructs collects every distinct struct type reachable
// through direct struct members and through array-of-struct members,
// depth first, deduplicated by descriptor identity.
func (t *StructType) gatherReferenceStructs(acc *[]*StructType) {
	for _, m := range t.members {
		var ref *StructType
		switch mt := m.Type.(type) {
		case *StructType:
			ref = mt
		case arrayType:
			if st, ok := mt.member.(*StructType); ok {
				ref = st
			}
		}
		if ref == nil || containsStruct(*acc, ref) {
			continue
		}
		*acc = append(*acc, ref)
		ref.gatherReferenceStructs(acc)
	}
}

func containsStruct(list []*StructType, t *StructType) bool {
	for _, s := range list {
		if s == t {
			return true
		}
	}
	return false
}

// TypeHash returns the keccak256 hash of the resolved type signature.
func (t *StructType) TypeHash() []byte {
	return crypto.Keccak256([]byte(t.EncodeType()))
}

// EncodeValue implements Type for struct-typed members: the value must be
// an instance of a struct type with an identical signature and encodes as
// that instance's struct hash.
func (t *StructType) EncodeValue(value interface{}) ([]byte, error) {
	s, ok := value.(*Struct)
	if !ok {
		return nil, fmt.Errorf("%w: %s instance expected, got %T", ErrInvalidValue, t.name, value)
	}
	if s.typ.signature() != t.signature() {
		return nil, fmt.Errorf("%w: %s instance expected, got %s", ErrInvalidValue, t.name, s.typ.name)
	}
	return s.HashStruct()
}

// New constructs an instance of the struct type. Values are taken from the
// given map by member name; missing members are left unset and encode as
// their type's zero value. Raw nested maps are recursively constructed for
// struct-typed members, both directly and as elements of struct arrays.
// Keys that do not match a declared member are ignored.
func (t *StructType) New(values map[string]interface{}) (*Struct, error) {
	s := &Struct{typ: t, values: make(map[string]interface{}, len(t.members))}
	for _, m := range t.members {
		v, err := constructValue(m.Type, values[m.Name])
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t.name, m.Name, err)
		}
		s.values[m.Name] = v
	}
	return s, nil
}

func constructValue(typ Type, value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	switch mt := typ.(type) {
	case *StructType:
		if raw, ok := value.(map[string]interface{}); ok {
			return mt.New(raw)
		}
	case arrayType:
		st, ok := mt.member.(*StructType)
		if !ok {
			break
		}
		elems, ok := value.([]interface{})
		if !ok {
			break
		}
		out := make([]interface{}, len(elems))
		for i, e := range elems {
			v, err := constructValue(st, e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	return value, nil
}

// Struct is an instance of a struct type: the type descriptor paired with
// concrete member values.
type Struct struct {
	typ    *StructType
	values map[string]interface{}
}

// Type returns the instance's struct type.
func (s *Struct) Type() *StructType { return s.typ }

// EncodeValue returns the struct-level data encoding: the concatenation,
// in declaration order, of every member's 32-byte encoding. Struct-typed
// members contribute their struct hash. The result is not hashed.
func (s *Struct) EncodeValue() ([]byte, error) {
	enc := make([]byte, 0, len(s.typ.members)*32)
	for _, m := range s.typ.members {
		b, err := m.Type.EncodeValue(s.values[m.Name])
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", s.typ.name, m.Name, err)
		}
		enc = append(enc, b...)
	}
	return enc, nil
}

// HashStruct returns keccak256(typeHash || encodedData).
func (s *Struct) HashStruct() ([]byte, error) {
	enc, err := s.EncodeValue()
	if err != nil {
		return nil, err
	}
	return crypto.Keccak256(s.typ.TypeHash(), enc), nil
}

// SignableBytes returns the signing payload 0x19 0x01 || domainHash ||
// structHash as specified by EIP-712. The layout is load-bearing for
// external verifiers and is always exactly 66 bytes. A nil domain falls
// back to the default domain set with SetDefaultDomain.
func (s *Struct) SignableBytes(domain *Struct) ([]byte, error) {
	domain, err := resolveDomain(domain)
	if err != nil {
		return nil, err
	}
	dh, err := domain.HashStruct()
	if err != nil {
		return nil, err
	}
	sh, err := s.HashStruct()
	if err != nil {
		return nil, err
	}
	b := make([]byte, 0, 66)
	b = append(b, 0x19, 0x01)
	b = append(b, dh...)
	b = append(b, sh...)
	return b, nil
}

// Get returns the value of the named member.
func (s *Struct) Get(name string) (interface{}, error) {
	if _, ok := s.typ.member(name); !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, s.typ.name, name)
	}
	return s.values[name], nil
}

// Set assigns the value of the named member. The value is validated
// against the member's declared type before it is stored: struct members
// by signature comparison, everything else by a trial encode.
func (s *Struct) Set(name string, value interface{}) error {
	m, ok := s.typ.member(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, s.typ.name, name)
	}
	if st, ok := m.Type.(*StructType); ok {
		v, ok := value.(*Struct)
		if !ok || v.typ.signature() != st.signature() {
			return fmt.Errorf("%w: member %s.%s expects a %s instance, got %T", ErrInvalidValue, s.typ.name, name, st.name, value)
		}
	} else if _, err := m.Type.EncodeValue(value); err != nil {
		return fmt.Errorf("member %s.%s: %w", s.typ.name, name, err)
	}
	s.values[name] = value
	return nil
}

// Delete always fails: the member set of a struct instance is fixed by
// its type and entries cannot be removed.
func (s *Struct) Delete(name string) error {
	return fmt.Errorf("%w: %s.%s", ErrDeleteNotSupported, s.typ.name, name)
}

// Equal reports whether both instances have identical resolved type
// signatures and identical struct-level encodings. The domain is not part
// of the comparison. Instances whose values cannot be encoded are never
// equal.
func (s *Struct) Equal(other *Struct) bool {
	if s == other {
		return true
	}
	if other == nil {
		return false
	}
	if s.typ.EncodeType() != other.typ.EncodeType() {
		return false
	}
	a, err := s.EncodeValue()
	if err != nil {
		return false
	}
	b, err := other.EncodeValue()
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// HashKey returns a commutative hash of the instance suitable for keying
// containers: the hash of the type name combined with the exclusive-or of
// per-member name and value hashes. Member order does not influence the
// result; member presence and values do.
func (s *Struct) HashKey() uint64 {
	h := fnvString(s.typ.name)
	for k, v := range s.values {
		h ^= fnvString(k) ^ hashValue(v)
	}
	return h
}

// DataMap returns the instance's values as a plain nested map. Nested
// struct instances and sequences are converted recursively.
func (s *Struct) DataMap() map[string]interface{} {
	out := make(map[string]interface{}, len(s.values))
	for k, v := range s.values {
		out[k] = dataValue(v)
	}
	return out
}

func dataValue(v interface{}) interface{} {
	switch x := v.(type) {
	case *Struct:
		return x.DataMap()
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = dataValue(e)
		}
		return out
	default:
		return v
	}
}

func fnvString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func hashValue(v interface{}) uint64 {
	switch x := v.(type) {
	case nil:
		return 0
	case *Struct:
		return x.HashKey()
	case string:
		return fnvString(x)
	case []byte:
		return fnvString(string(x))
	case []interface{}:
		h := fnvString("[]")
		for i, e := range x {
			h ^= uint64(i+1) * hashValue(e)
		}
		return h
	default:
		return fnvString(fmt.Sprintf("%v", x))
	}
}
