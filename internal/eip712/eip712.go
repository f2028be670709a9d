// Package eip712 implements the EIP-712 typed structured data hashing
// scheme: user-declared record types plus a signing domain and a message
// instance are reduced to a single deterministic 32-byte Keccak-256 hash.
//
// The pipeline is pure: the same declarations, domain, primary type and
// message always produce byte-identical output, so results are safe to
// memoize and requests can be hashed concurrently without coordination.
package eip712

import (
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// domainTypeName is the pseudo-type the signing context is hashed as.
const domainTypeName = "EIP712Domain"

// withDomainType returns td with an EIP712Domain declaration present,
// synthesizing one from the domain's populated fields when the caller did
// not declare it. The receiver is not mutated.
func (td *TypedData) withDomainType() *TypedData {
	if _, ok := td.Types[domainTypeName]; ok {
		return td
	}
	types := make(Types, len(td.Types)+1)
	for name, fields := range td.Types {
		types[name] = fields
	}
	types[domainTypeName] = td.Domain.fieldTypes()
	clone := *td
	clone.Types = types
	return &clone
}

// HashDomain computes the domain separator: HashStruct of the signing
// context against the EIP712Domain pseudo-type.
func (td *TypedData) HashDomain() (hexutil.Bytes, error) {
	if err := td.Domain.validate(); err != nil {
		return nil, err
	}
	scoped := td.withDomainType()
	return scoped.HashStruct(domainTypeName, scoped.Domain.Map())
}

// HashStructuredData computes the final signing hash:
//
//	keccak256(0x19 ++ 0x01 ++ hashStruct(domain) ++ hashStruct(message))
//
// No partial result is ever returned: any validation or encoding failure
// abandons the computation.
func HashStructuredData(td *TypedData) (ethcommon.Hash, error) {
	if err := td.Types.validate(); err != nil {
		return ethcommon.Hash{}, err
	}
	domainSeparator, err := td.HashDomain()
	if err != nil {
		return ethcommon.Hash{}, fmt.Errorf("failed to hash domain: %w", err)
	}
	typedDataHash, err := td.withDomainType().HashStruct(td.PrimaryType, td.Message)
	if err != nil {
		return ethcommon.Hash{}, fmt.Errorf("failed to hash message: %w", err)
	}
	rawData := []byte(fmt.Sprintf("\x19\x01%s%s", string(domainSeparator), string(typedDataHash)))
	return ethcommon.BytesToHash(crypto.Keccak256(rawData)), nil
}
