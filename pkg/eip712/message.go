// Copyright 2025 The Ethersign Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eip712

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// TypedDataField is the wire form of a single member declaration.
type TypedDataField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TypedDataTypes maps struct type names to their ordered member
// declarations.
type TypedDataTypes map[string][]TypedDataField

// TypedData is the transmission form of a struct instance and its domain,
// as specified for EIP-712 messages.
type TypedData struct {
	PrimaryType string                 `json:"primaryType"`
	Types       TypedDataTypes         `json:"types"`
	Domain      map[string]interface{} `json:"domain"`
	Message     map[string]interface{} `json:"message"`
}

// ToTypedData converts the instance and its domain into the typed data
// message form. The type table covers the domain type, the primary type
// and every transitively referenced struct type; member lists keep
// declaration order. A nil domain falls back to the default domain.
func (s *Struct) ToTypedData(domain *Struct) (*TypedData, error) {
	domain, err := resolveDomain(domain)
	if err != nil {
		return nil, err
	}

	structs := []*StructType{domain.typ, s.typ}
	domain.typ.gatherReferenceStructs(&structs)
	s.typ.gatherReferenceStructs(&structs)

	types := make(TypedDataTypes, len(structs))
	for _, t := range structs {
		fields := make([]TypedDataField, len(t.members))
		for i, m := range t.members {
			fields[i] = TypedDataField{Name: m.Name, Type: m.Type.TypeName()}
		}
		types[t.name] = fields
	}

	return &TypedData{
		PrimaryType: s.typ.name,
		Types:       types,
		Domain:      domain.DataMap(),
		Message:     s.DataMap(),
	}, nil
}

// MarshalTypedDataJSON renders the instance and its domain as typed data
// JSON. Byte values are rendered as 0x-prefixed lowercase hex strings;
// value kinds the renderer does not recognize fail with
// ErrNotSerializable.
func (s *Struct) MarshalTypedDataJSON(domain *Struct) ([]byte, error) {
	td, err := s.ToTypedData(domain)
	if err != nil {
		return nil, err
	}
	return json.Marshal(td)
}

// MarshalJSON implements json.Marshaler. Byte values in the domain and
// message maps are rendered as 0x-prefixed hex strings.
func (t *TypedData) MarshalJSON() ([]byte, error) {
	domain, err := sanitizeMap(t.Domain)
	if err != nil {
		return nil, err
	}
	message, err := sanitizeMap(t.Message)
	if err != nil {
		return nil, err
	}
	type alias TypedData
	return json.Marshal(&alias{
		PrimaryType: t.PrimaryType,
		Types:       t.Types,
		Domain:      domain,
		Message:     message,
	})
}

func sanitizeMap(m map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		sv, err := sanitizeValue(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = sv
	}
	return out, nil
}

func sanitizeValue(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return hexutil.Encode(x), nil
	case common.Address:
		return hexutil.Encode(x.Bytes()), nil
	case common.Hash:
		return hexutil.Encode(x.Bytes()), nil
	case *big.Int:
		return x, nil
	case string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v, nil
	case map[string]interface{}:
		return sanitizeMap(x)
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, e := range x {
			sv, err := sanitizeValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = sv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotSerializable, v)
	}
}

var referenceTypeRE = regexp.MustCompile(`^([a-zA-Z0-9_]+)(\[([0-9]+)?\])?$`)

// FromTypedData reconstructs the message struct instance and the domain
// instance from their typed data form. Struct type descriptors are
// rebuilt from the declarations in td.Types for the duration of this call
// only: primitive member types are resolved directly, struct references
// (direct or array-wrapped) are patched in a second pass once every
// declared type exists.
func FromTypedData(td *TypedData) (message, domain *Struct, err error) {
	type pending struct {
		structName string
		index      int
		typeName   string
	}
	structs := make(map[string]*StructType, len(td.Types))
	var unresolved []pending

	for name, fields := range td.Types {
		members := make([]Member, len(fields))
		for i, f := range fields {
			t, err := FromSolidityType(f.Type)
			if err != nil {
				return nil, nil, fmt.Errorf("%s.%s: %w", name, f.Name, err)
			}
			members[i] = Member{Name: f.Name, Type: t}
			if t == nil {
				unresolved = append(unresolved, pending{structName: name, index: i, typeName: f.Type})
			}
		}
		structs[name] = &StructType{name: name, members: members}
	}

	for _, p := range unresolved {
		m := referenceTypeRE.FindStringSubmatch(p.typeName)
		if m == nil {
			return nil, nil, fmt.Errorf("%w: %s.%s declared as %q", ErrUnknownType, p.structName, td.Types[p.structName][p.index].Name, p.typeName)
		}
		ref, ok := structs[m[1]]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s referenced by %s", ErrUnknownType, p.typeName, p.structName)
		}
		var t Type = ref
		if m[2] != "" {
			n, err := atoiDefault(m[3], 0)
			if err != nil {
				return nil, nil, fmt.Errorf("%s.%s: %w", p.structName, td.Types[p.structName][p.index].Name, err)
			}
			t = NewArray(ref, n)
		}
		structs[p.structName].members[p.index].Type = t
	}

	primaryType, ok := structs[td.PrimaryType]
	if !ok {
		return nil, nil, fmt.Errorf("%w: primary type %s", ErrUnknownType, td.PrimaryType)
	}
	domainType, ok := structs[DomainTypeName]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownType, DomainTypeName)
	}

	message, err = primaryType.New(td.Message)
	if err != nil {
		return nil, nil, err
	}
	domain, err = domainType.New(td.Domain)
	if err != nil {
		return nil, nil, err
	}
	return message, domain, nil
}

// ParseTypedDataJSON decodes typed data JSON and reconstructs the message
// and domain struct instances. Numbers are decoded as json.Number so that
// integer values beyond float64 precision survive intact.
func ParseTypedDataJSON(data []byte) (message, domain *Struct, err error) {
	var td TypedData
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&td); err != nil {
		return nil, nil, err
	}
	return FromTypedData(&td)
}
