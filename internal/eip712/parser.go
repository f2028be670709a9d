package eip712

import (
	"fmt"
	"strconv"
	"strings"
)

// fieldKind tags the shape of a declared field type after classification.
type fieldKind int

const (
	kindAtom fieldKind = iota
	kindRecord
	kindArray
)

// fieldClass is the resolved form of a type string: either an array with an
// element type (and optional fixed size), a declared record, or an atom
// (primitive). Classification happens once per field at encode time instead
// of scattering string comparisons through the encoder.
type fieldClass struct {
	kind fieldKind

	// array
	elem string
	size int // -1 when dynamic

	// record / atom
	name string
}

// classifyType resolves a type string against the declarations. Each
// trailing bracket pair is one array nesting level; the rightmost group is
// the outermost dimension, so "uint256[2][3]" is a fixed-3 array of
// "uint256[2]".
func classifyType(encType string, types Types) (fieldClass, error) {
	if strings.HasSuffix(encType, "]") {
		open := strings.LastIndex(encType, "[")
		if open <= 0 {
			return fieldClass{}, fmt.Errorf("%w: malformed array type %q", ErrInvalidIdentifier, encType)
		}
		inner := encType[open+1 : len(encType)-1]
		size := -1
		if inner != "" {
			n, err := strconv.Atoi(inner)
			if err != nil || n < 0 {
				return fieldClass{}, fmt.Errorf("%w: malformed array size in %q", ErrInvalidIdentifier, encType)
			}
			size = n
		}
		return fieldClass{kind: kindArray, elem: encType[:open], size: size}, nil
	}
	if _, ok := types[encType]; ok {
		return fieldClass{kind: kindRecord, name: encType}, nil
	}
	return fieldClass{kind: kindAtom, name: encType}, nil
}

// parseIntegerWidth returns the bit width of a uintN/intN type name and
// whether it is signed. Bare "uint" and "int" alias width 256.
func parseIntegerWidth(encType string) (width int, signed bool, err error) {
	signed = strings.HasPrefix(encType, "int")
	lengthStr := strings.TrimPrefix(strings.TrimPrefix(encType, "u"), "int")
	if lengthStr == "" {
		return 256, signed, nil
	}
	width, atoiErr := strconv.Atoi(lengthStr)
	if atoiErr != nil {
		return 0, signed, fmt.Errorf("%w: invalid integer size on %q", ErrUndeclaredType, encType)
	}
	if width < 8 || width > 256 || width%8 != 0 {
		return 0, signed, fmt.Errorf("%w: invalid integer width %d in %q", ErrUndeclaredType, width, encType)
	}
	return width, signed, nil
}

// parseBytesWidth returns N for a bytesN type name, 1 <= N <= 32.
func parseBytesWidth(encType string) (int, error) {
	lengthStr := strings.TrimPrefix(encType, "bytes")
	width, err := strconv.Atoi(lengthStr)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid size on bytes type %q", ErrUndeclaredType, encType)
	}
	if width < 1 || width > 32 {
		return 0, fmt.Errorf("%w: invalid bytes width %d in %q", ErrUndeclaredType, width, encType)
	}
	return width, nil
}
