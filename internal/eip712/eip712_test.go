package eip712

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Reference values for the canonical "Mail" example published with the
// EIP-712 specification.
const (
	mailDomainSeparator = "0xf2cee375fa42b42143804025fc449deafd50cc031ca257e0b194a650a912090f"
	mailStructHash      = "0xc52c0ee5d84264471806290a3f2c4cecfc5490626bf912d01f240d7a274b371e"
	mailSigningHash     = "0xbe609aee343fb3c4b28e1df9e632fca64fcfaede20f02e86244efddf30957bd2"
)

func TestMailDomainSeparator(t *testing.T) {
	td := mailTypedData(t)

	separator, err := td.HashDomain()
	if err != nil {
		t.Fatalf("failed to hash domain: %v", err)
	}
	if hexutil.Encode(separator) != mailDomainSeparator {
		t.Errorf("domain separator mismatch:\n got %s\nwant %s", hexutil.Encode(separator), mailDomainSeparator)
	}
}

func TestMailStructHash(t *testing.T) {
	td := mailTypedData(t)

	structHash, err := td.HashStruct(td.PrimaryType, td.Message)
	if err != nil {
		t.Fatalf("failed to hash struct: %v", err)
	}
	if hexutil.Encode(structHash) != mailStructHash {
		t.Errorf("struct hash mismatch:\n got %s\nwant %s", hexutil.Encode(structHash), mailStructHash)
	}
}

func TestMailSigningHash(t *testing.T) {
	td := mailTypedData(t)

	digest, err := HashStructuredData(td)
	if err != nil {
		t.Fatalf("failed to hash structured data: %v", err)
	}
	if digest.Hex() != mailSigningHash {
		t.Errorf("signing hash mismatch:\n got %s\nwant %s", digest.Hex(), mailSigningHash)
	}
}

func TestDeterminism(t *testing.T) {
	td := mailTypedData(t)

	first, err := HashStructuredData(td)
	if err != nil {
		t.Fatalf("failed to hash structured data: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := HashStructuredData(td)
		if err != nil {
			t.Fatalf("iteration %d failed: %v", i, err)
		}
		if again != first {
			t.Fatalf("iteration %d produced %s, expected %s", i, again.Hex(), first.Hex())
		}
	}
}

func TestDeclarationOrderIndependence(t *testing.T) {
	// Same envelope with the type declarations in the opposite textual
	// order. The canonical signature sorts dependencies, so the digest
	// must not depend on how the declarations were listed.
	reorderedEnvelope := `{
		"primaryType": "Mail",
		"domain": {
			"name": "Ether Mail",
			"version": "1",
			"chainId": "0x1",
			"verifyingContract": "0xCcCCccccCCCCcCCCCCCcCcCccCcCCCcCcccccccC"
		},
		"message": {
			"from": { "name": "Cow", "wallet": "0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826" },
			"to": { "name": "Bob", "wallet": "0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB" },
			"contents": "Hello, Bob!"
		},
		"types": {
			"Mail": [
				{ "name": "from", "type": "Person" },
				{ "name": "to", "type": "Person" },
				{ "name": "contents", "type": "string" }
			],
			"Person": [
				{ "name": "name", "type": "string" },
				{ "name": "wallet", "type": "address" }
			],
			"EIP712Domain": [
				{ "name": "name", "type": "string" },
				{ "name": "version", "type": "string" },
				{ "name": "chainId", "type": "uint256" },
				{ "name": "verifyingContract", "type": "address" }
			]
		}
	}`

	td := mailTypedData(t)
	reordered, err := ParseTypedData([]byte(reorderedEnvelope))
	if err != nil {
		t.Fatalf("failed to parse reordered envelope: %v", err)
	}

	a, err := HashStructuredData(td)
	if err != nil {
		t.Fatalf("failed to hash original: %v", err)
	}
	b, err := HashStructuredData(reordered)
	if err != nil {
		t.Fatalf("failed to hash reordered: %v", err)
	}
	if a != b {
		t.Error("re-ordering type declarations must not change the hash")
	}
	if a.Hex() != mailSigningHash {
		t.Errorf("signing hash mismatch:\n got %s\nwant %s", a.Hex(), mailSigningHash)
	}
}

func TestFieldOrderSignificance(t *testing.T) {
	td := mailTypedData(t)
	swapped := mailTypedData(t)
	swapped.Types["Person"] = []Type{
		{Name: "wallet", Type: "address"},
		{Name: "name", Type: "string"},
	}

	a, err := HashStructuredData(td)
	if err != nil {
		t.Fatalf("failed to hash original: %v", err)
	}
	b, err := HashStructuredData(swapped)
	if err != nil {
		t.Fatalf("failed to hash swapped: %v", err)
	}
	if a == b {
		t.Error("re-ordering fields within a type must change the hash")
	}
}

func TestDomainTypeSynthesis(t *testing.T) {
	// Without an explicit EIP712Domain declaration the field list is
	// synthesized from the populated domain fields, matching the explicit
	// declaration in the canonical envelope.
	td := mailTypedData(t)
	implicit := mailTypedData(t)
	delete(implicit.Types, "EIP712Domain")

	a, err := td.HashDomain()
	if err != nil {
		t.Fatalf("failed to hash explicit domain: %v", err)
	}
	b, err := implicit.HashDomain()
	if err != nil {
		t.Fatalf("failed to hash implicit domain: %v", err)
	}
	if hexutil.Encode(a) != hexutil.Encode(b) {
		t.Errorf("synthesized domain type must match the canonical declaration: %s vs %s",
			hexutil.Encode(a), hexutil.Encode(b))
	}
}

func TestDomainRequiresChainID(t *testing.T) {
	td := mailTypedData(t)
	td.Domain.ChainId = nil
	if _, err := td.HashDomain(); err == nil {
		t.Error("expected missing chainId to be rejected")
	}
}
