package eip712

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
)

// identRegex matches a solidity identifier with the addition of '[' & ']',
// so plain names, array-suffixed names and nested array suffixes all pass.
var identRegex = regexp.MustCompile(`^[a-zA-Z_$][a-zA-Z_$0-9\[\]]*$`)

// Type is a single (name, type) field declaration.
type Type struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// typeName returns the bare type with all trailing array suffixes stripped,
// e.g. "Person[3][]" -> "Person".
func (t *Type) typeName() string {
	return bareTypeName(t.Type)
}

func bareTypeName(encType string) string {
	if i := strings.Index(encType, "["); i != -1 {
		return encType[:i]
	}
	return encType
}

// Types maps a type name to its ordered field list. Field order is
// semantically significant; the order of keys is not.
type Types map[string][]Type

// validate checks every field name and type string against the identifier
// grammar. Declaration only checks syntax: whether a referenced type
// actually exists is decided at encode time.
func (t Types) validate() error {
	for typeKey, typeArr := range t {
		if !identRegex.MatchString(typeKey) {
			return fmt.Errorf("%w: type name %q", ErrInvalidIdentifier, typeKey)
		}
		for _, typeObj := range typeArr {
			if !identRegex.MatchString(typeObj.Name) {
				return fmt.Errorf("%w: field name %q in type %q", ErrInvalidIdentifier, typeObj.Name, typeKey)
			}
			if !identRegex.MatchString(typeObj.Type) {
				return fmt.Errorf("%w: field type %q in type %q", ErrInvalidIdentifier, typeObj.Type, typeKey)
			}
		}
	}
	return nil
}

// TypedDataMessage is the untyped value tree the message arrives as.
type TypedDataMessage = map[string]interface{}

// TypedDataDomain describes the signing context.
type TypedDataDomain struct {
	Name              string                `json:"name"`
	Version           string                `json:"version"`
	ChainId           *math.HexOrDecimal256 `json:"chainId"`
	VerifyingContract string                `json:"verifyingContract"`
	Salt              string                `json:"salt,omitempty"`
}

func (domain *TypedDataDomain) validate() error {
	if domain.ChainId == nil {
		return fmt.Errorf("%w: domain chainId must be specified", ErrFieldMismatch)
	}
	if len(domain.Name) == 0 && len(domain.Version) == 0 && len(domain.VerifyingContract) == 0 && len(domain.Salt) == 0 {
		return fmt.Errorf("%w: domain is undefined", ErrFieldMismatch)
	}
	return nil
}

// Map converts the domain into the message shape HashStruct consumes,
// keeping only the fields that are present.
func (domain *TypedDataDomain) Map() map[string]interface{} {
	dataMap := map[string]interface{}{}
	if domain.ChainId != nil {
		dataMap["chainId"] = domain.ChainId
	}
	if len(domain.Name) > 0 {
		dataMap["name"] = domain.Name
	}
	if len(domain.Version) > 0 {
		dataMap["version"] = domain.Version
	}
	if len(domain.VerifyingContract) > 0 {
		dataMap["verifyingContract"] = domain.VerifyingContract
	}
	if len(domain.Salt) > 0 {
		dataMap["salt"] = domain.Salt
	}
	return dataMap
}

// fieldTypes synthesizes the EIP712Domain declaration from whichever domain
// fields are present, in the fixed order name, version, chainId,
// verifyingContract, salt. It is used when the caller's declarations do not
// include an explicit EIP712Domain entry.
func (domain *TypedDataDomain) fieldTypes() []Type {
	var fields []Type
	if len(domain.Name) > 0 {
		fields = append(fields, Type{Name: "name", Type: "string"})
	}
	if len(domain.Version) > 0 {
		fields = append(fields, Type{Name: "version", Type: "string"})
	}
	if domain.ChainId != nil {
		fields = append(fields, Type{Name: "chainId", Type: "uint256"})
	}
	if len(domain.VerifyingContract) > 0 {
		fields = append(fields, Type{Name: "verifyingContract", Type: "address"})
	}
	if len(domain.Salt) > 0 {
		fields = append(fields, Type{Name: "salt", Type: "bytes32"})
	}
	return fields
}

// TypedData is the full request envelope: declarations, signing context,
// primary type and the message instance.
type TypedData struct {
	Types       Types            `json:"types"`
	PrimaryType string           `json:"primaryType"`
	Domain      TypedDataDomain  `json:"domain"`
	Message     TypedDataMessage `json:"message"`

	// MaxDepth bounds recursion while encoding. Zero means DefaultMaxDepth.
	MaxDepth int `json:"-"`
}

// ParseTypedData decodes a request envelope, rejecting unknown fields in
// both the envelope and the domain.
func ParseTypedData(data []byte) (*TypedData, error) {
	var td TypedData
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&td); err != nil {
		return nil, fmt.Errorf("failed to decode typed data: %w", err)
	}
	if err := td.Types.validate(); err != nil {
		return nil, err
	}
	return &td, nil
}
