package eip712

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/crypto"
)

// Dependencies returns primaryType and every declared type it transitively
// references. The found set doubles as the cycle guard: a type is expanded
// once, so self-referential and mutually recursive declarations terminate.
func (td *TypedData) Dependencies(primaryType string, found []string) []string {
	includes := func(arr []string, str string) bool {
		for _, obj := range arr {
			if obj == str {
				return true
			}
		}
		return false
	}

	primaryType = bareTypeName(primaryType)
	if includes(found, primaryType) {
		return found
	}
	if td.Types[primaryType] == nil {
		return found
	}
	found = append(found, primaryType)
	for _, field := range td.Types[primaryType] {
		for _, dep := range td.Dependencies(field.typeName(), found) {
			if !includes(found, dep) {
				found = append(found, dep)
			}
		}
	}
	return found
}

// EncodeType renders the canonical signature of primaryType: its own
// single-type signature followed by the signature of every dependency,
// sorted lexicographically. The ordering is part of the wire format.
func (td *TypedData) EncodeType(primaryType string) ([]byte, error) {
	if td.Types[primaryType] == nil {
		return nil, fmt.Errorf("%w: %q", ErrUndeclaredType, primaryType)
	}

	deps := td.Dependencies(primaryType, []string{})
	slicedDeps := deps[1:]
	sort.Strings(slicedDeps)
	deps = append([]string{primaryType}, slicedDeps...)

	var buffer bytes.Buffer
	for _, dep := range deps {
		buffer.WriteString(dep)
		buffer.WriteString("(")
		for i, obj := range td.Types[dep] {
			if i > 0 {
				buffer.WriteString(",")
			}
			buffer.WriteString(obj.Type)
			buffer.WriteString(" ")
			buffer.WriteString(obj.Name)
		}
		buffer.WriteString(")")
	}
	return buffer.Bytes(), nil
}

// TypeHash is the Keccak-256 digest of the canonical signature. It depends
// only on the declarations and primaryType, so it is safe to memoize.
func (td *TypedData) TypeHash(primaryType string) ([]byte, error) {
	enc, err := td.EncodeType(primaryType)
	if err != nil {
		return nil, err
	}
	return crypto.Keccak256(enc), nil
}
