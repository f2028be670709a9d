package eip712

import (
	"bytes"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

// DefaultMaxDepth bounds message recursion when TypedData.MaxDepth is unset.
const DefaultMaxDepth = 32

func (td *TypedData) depthLimit() int {
	if td.MaxDepth > 0 {
		return td.MaxDepth
	}
	return DefaultMaxDepth
}

// HashStruct computes keccak256(typeHash ++ encodeData(value)) for one
// record instance.
func (td *TypedData) HashStruct(primaryType string, data TypedDataMessage) (hexutil.Bytes, error) {
	if err := td.Types.validate(); err != nil {
		return nil, err
	}
	encodedData, err := td.EncodeData(primaryType, data, 1)
	if err != nil {
		return nil, err
	}
	return crypto.Keccak256(encodedData), nil
}

// EncodeData produces the type hash word followed by one 32-byte word per
// declared field, in declaration order. The value's key set must exactly
// equal the declared field set.
func (td *TypedData) EncodeData(primaryType string, data map[string]interface{}, depth int) (hexutil.Bytes, error) {
	if depth > td.depthLimit() {
		return nil, fmt.Errorf("%w: depth exceeds %d while encoding %q", ErrStructureTooLarge, td.depthLimit(), primaryType)
	}
	fields, ok := td.Types[primaryType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUndeclaredType, primaryType)
	}
	if len(data) > len(fields) {
		for key := range data {
			if !declaresField(fields, key) {
				return nil, fmt.Errorf("%w: extra field %q for type %q", ErrFieldMismatch, key, primaryType)
			}
		}
	}

	buffer := bytes.Buffer{}
	typeHash, err := td.TypeHash(primaryType)
	if err != nil {
		return nil, err
	}
	buffer.Write(typeHash)

	for _, field := range fields {
		encValue, ok := data[field.Name]
		if !ok {
			return nil, fmt.Errorf("%w: missing field %q for type %q", ErrFieldMismatch, field.Name, primaryType)
		}
		word, err := td.encodeField(field.Type, field.Name, encValue, depth)
		if err != nil {
			return nil, err
		}
		buffer.Write(word)
	}
	return buffer.Bytes(), nil
}

// encodeField turns one (type, value) pair into its 32-byte word. Arrays
// hash the concatenation of their element words, records hash their
// EncodeData, primitives pack directly.
func (td *TypedData) encodeField(encType, path string, encValue interface{}, depth int) ([]byte, error) {
	if depth > td.depthLimit() {
		return nil, fmt.Errorf("%w: depth exceeds %d at %q", ErrStructureTooLarge, td.depthLimit(), path)
	}

	class, err := classifyType(encType, td.Types)
	if err != nil {
		return nil, err
	}

	switch class.kind {
	case kindArray:
		arrayValue, ok := encValue.([]interface{})
		if !ok {
			return nil, unexpectedTypeError(encType, path, encValue)
		}
		if class.size >= 0 && len(arrayValue) != class.size {
			return nil, fmt.Errorf("%w: %q expects %d elements, got %d at %q",
				ErrArrayLengthMismatch, encType, class.size, len(arrayValue), path)
		}
		arrayBuffer := bytes.Buffer{}
		for i, item := range arrayValue {
			word, err := td.encodeField(class.elem, fmt.Sprintf("%s[%d]", path, i), item, depth+1)
			if err != nil {
				return nil, err
			}
			arrayBuffer.Write(word)
		}
		return crypto.Keccak256(arrayBuffer.Bytes()), nil

	case kindRecord:
		mapValue, ok := encValue.(map[string]interface{})
		if !ok {
			return nil, unexpectedTypeError(encType, path, encValue)
		}
		encodedData, err := td.EncodeData(class.name, mapValue, depth+1)
		if err != nil {
			return nil, err
		}
		return crypto.Keccak256(encodedData), nil

	default:
		return encodePrimitiveValue(class.name, path, encValue)
	}
}

// encodePrimitiveValue packs one primitive value into a 32-byte word:
// integers, addresses and bool are right-aligned (left-padded), bytesN is
// left-aligned (right-padded), string and bytes contribute their digest.
func encodePrimitiveValue(encType, path string, encValue interface{}) ([]byte, error) {
	switch encType {
	case "address":
		stringValue, ok := encValue.(string)
		if !ok {
			return nil, unexpectedTypeError(encType, path, encValue)
		}
		if !common.IsHexAddress(stringValue) {
			return nil, fmt.Errorf("%w: %q is not a valid address at %q", ErrInvalidHexEncoding, stringValue, path)
		}
		retval := make([]byte, 32)
		copy(retval[12:], common.HexToAddress(stringValue).Bytes())
		return retval, nil

	case "bool":
		boolValue, ok := encValue.(bool)
		if !ok {
			return nil, unexpectedTypeError(encType, path, encValue)
		}
		if boolValue {
			return math.PaddedBigBytes(common.Big1, 32), nil
		}
		return math.PaddedBigBytes(common.Big0, 32), nil

	case "string":
		strVal, ok := encValue.(string)
		if !ok {
			return nil, unexpectedTypeError(encType, path, encValue)
		}
		return crypto.Keccak256([]byte(strVal)), nil

	case "bytes":
		byteValue, err := parseBytes(encValue)
		if err != nil {
			return nil, fmt.Errorf("%w at %q", err, path)
		}
		return crypto.Keccak256(byteValue), nil
	}

	if strings.HasPrefix(encType, "bytes") {
		length, err := parseBytesWidth(encType)
		if err != nil {
			return nil, err
		}
		byteValue, err := parseBytes(encValue)
		if err != nil {
			return nil, fmt.Errorf("%w at %q", err, path)
		}
		if len(byteValue) != length {
			return nil, fmt.Errorf("%w: %q expects %d bytes, got %d at %q",
				ErrInvalidHexEncoding, encType, length, len(byteValue), path)
		}
		retval := make([]byte, 32)
		copy(retval, byteValue)
		return retval, nil
	}

	if strings.HasPrefix(encType, "int") || strings.HasPrefix(encType, "uint") {
		b, err := parseInteger(encType, path, encValue)
		if err != nil {
			return nil, err
		}
		return math.U256Bytes(new(big.Int).Set(b)), nil
	}

	return nil, fmt.Errorf("%w: unrecognized type %q at %q", ErrUndeclaredType, encType, path)
}

// parseBytes accepts the hex string form the envelope delivers, plus raw
// byte slices for programmatic callers.
func parseBytes(encValue interface{}) ([]byte, error) {
	switch v := encValue.(type) {
	case string:
		b, err := hexutil.Decode(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHexEncoding, v)
		}
		return b, nil
	case []byte:
		return v, nil
	case hexutil.Bytes:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %v is not a byte value", ErrUnexpectedType, encValue)
	}
}

// parseInteger parses a uintN/intN value from any of the forms the message
// may carry it in and enforces the declared bit width.
func parseInteger(encType, path string, encValue interface{}) (*big.Int, error) {
	length, signed, err := parseIntegerWidth(encType)
	if err != nil {
		return nil, err
	}

	var b *big.Int
	switch v := encValue.(type) {
	case *math.HexOrDecimal256:
		b = (*big.Int)(v)
	case *big.Int:
		b = v
	case string:
		var hexIntValue math.HexOrDecimal256
		if err := hexIntValue.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer for type %q at %q", ErrUnexpectedType, v, encType, path)
		}
		b = (*big.Int)(&hexIntValue)
	case float64:
		if float64(int64(v)) != v {
			return nil, fmt.Errorf("%w: non-integral number %v for type %q at %q", ErrUnexpectedType, v, encType, path)
		}
		b = big.NewInt(int64(v))
	}
	if b == nil {
		return nil, fmt.Errorf("%w: %v/%v is not an integer for type %q at %q",
			ErrUnexpectedType, encValue, reflect.TypeOf(encValue), encType, path)
	}

	if signed {
		// intN covers [-2^(N-1), 2^(N-1)-1]; the minimum is asymmetric.
		limit := new(big.Int).Lsh(big.NewInt(1), uint(length-1))
		max := new(big.Int).Sub(limit, big.NewInt(1))
		min := new(big.Int).Neg(limit)
		if b.Cmp(min) < 0 || b.Cmp(max) > 0 {
			return nil, fmt.Errorf("%w: value outside the range of %q at %q", ErrIntegerOverflow, encType, path)
		}
		return b, nil
	}
	if b.Sign() == -1 {
		return nil, fmt.Errorf("%w: negative value for unsigned type %q at %q", ErrIntegerOverflow, encType, path)
	}
	if b.BitLen() > length {
		return nil, fmt.Errorf("%w: value of %q wider than %d bits at %q", ErrIntegerOverflow, encType, length, path)
	}
	return b, nil
}

func declaresField(fields []Type, name string) bool {
	for _, field := range fields {
		if field.Name == name {
			return true
		}
	}
	return false
}

func unexpectedTypeError(encType, path string, encValue interface{}) error {
	return fmt.Errorf("%w: provided value '%v' doesn't match type %q at %q", ErrUnexpectedType, encValue, encType, path)
}
