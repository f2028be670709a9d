package eip712

import (
	"errors"
	"testing"
)

func TestIdentifierGrammar(t *testing.T) {
	invalid := []string{"unint bytes32", "Seun\\[]", "", "9lives", "uint bytes32"}
	for _, tc := range invalid {
		if identRegex.MatchString(tc) {
			t.Errorf("expected %q to fail the identifier grammar", tc)
		}
	}

	valid := []string{"bytes32", "Foo[]", "bytes1", "bytes32[][]", "_under", "$dollar", "Person[3]"}
	for _, tc := range valid {
		if !identRegex.MatchString(tc) {
			t.Errorf("expected %q to pass the identifier grammar", tc)
		}
	}
}

func TestTypesValidate(t *testing.T) {
	good := Types{
		"Person": {
			{Name: "name", Type: "string"},
			{Name: "wallet", Type: "address"},
		},
	}
	if err := good.validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	bad := Types{
		"Order": {
			{Name: "amount", Type: "uint bytes32"},
		},
	}
	err := bad.validate()
	if !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
	}

	badName := Types{
		"Order": {
			{Name: "my amount", Type: "uint256"},
		},
	}
	if err := badName.validate(); !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("expected ErrInvalidIdentifier for field name, got %v", err)
	}
}

const mailEnvelope = `{
	"primaryType": "Mail",
	"domain": {
		"name": "Ether Mail",
		"version": "1",
		"chainId": "0x1",
		"verifyingContract": "0xCcCCccccCCCCcCCCCCCcCcCccCcCCCcCcccccccC"
	},
	"message": {
		"from": {
			"name": "Cow",
			"wallet": "0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826"
		},
		"to": {
			"name": "Bob",
			"wallet": "0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB"
		},
		"contents": "Hello, Bob!"
	},
	"types": {
		"EIP712Domain": [
			{ "name": "name", "type": "string" },
			{ "name": "version", "type": "string" },
			{ "name": "chainId", "type": "uint256" },
			{ "name": "verifyingContract", "type": "address" }
		],
		"Person": [
			{ "name": "name", "type": "string" },
			{ "name": "wallet", "type": "address" }
		],
		"Mail": [
			{ "name": "from", "type": "Person" },
			{ "name": "to", "type": "Person" },
			{ "name": "contents", "type": "string" }
		]
	}
}`

func TestParseTypedData(t *testing.T) {
	td, err := ParseTypedData([]byte(mailEnvelope))
	if err != nil {
		t.Fatalf("failed to parse envelope: %v", err)
	}
	if td.PrimaryType != "Mail" {
		t.Errorf("expected primary type Mail, got %q", td.PrimaryType)
	}
	if len(td.Types["Mail"]) != 3 {
		t.Errorf("expected 3 Mail fields, got %d", len(td.Types["Mail"]))
	}
	if td.Domain.Name != "Ether Mail" {
		t.Errorf("unexpected domain name %q", td.Domain.Name)
	}
}

func TestParseTypedDataUnknownFields(t *testing.T) {
	withExtraTop := `{"types":{},"primaryType":"Mail","domain":{"chainId":1},"message":{},"surprise":true}`
	if _, err := ParseTypedData([]byte(withExtraTop)); err == nil {
		t.Error("expected unknown top-level field to be rejected")
	}

	withExtraDomain := `{"types":{},"primaryType":"Mail","domain":{"chainId":1,"nonce":7},"message":{}}`
	if _, err := ParseTypedData([]byte(withExtraDomain)); err == nil {
		t.Error("expected unknown domain field to be rejected")
	}
}

func TestParseTypedDataInvalidIdentifier(t *testing.T) {
	envelope := `{
		"types": {
			"Order": [ { "name": "amount", "type": "uint bytes32" } ]
		},
		"primaryType": "Order",
		"domain": { "chainId": 1 },
		"message": {}
	}`
	_, err := ParseTypedData([]byte(envelope))
	if !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
	}
}

func TestDomainMapPresence(t *testing.T) {
	td, err := ParseTypedData([]byte(mailEnvelope))
	if err != nil {
		t.Fatalf("failed to parse envelope: %v", err)
	}
	dataMap := td.Domain.Map()
	if _, ok := dataMap["salt"]; ok {
		t.Error("absent salt must not appear in the domain map")
	}
	for _, key := range []string{"name", "version", "chainId", "verifyingContract"} {
		if _, ok := dataMap[key]; !ok {
			t.Errorf("expected %q in the domain map", key)
		}
	}
}
