package gffxml

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Liareth/anphillia-tools/gff"
	"github.com/Liareth/anphillia-tools/internal/xmltext"
)

// floatDigits is the number of fractional digits written for Float and
// Double values. The exact binary value is rounded half to even.
const floatDigits = 6

// formatScalar returns the text form of a value that has one.
func formatScalar(v gff.Value) (string, error) {
	switch v := v.(type) {
	case gff.Byte:
		return strconv.FormatUint(uint64(v), 10), nil
	case gff.Char:
		return strconv.FormatInt(int64(v), 10), nil
	case gff.Word:
		return strconv.FormatUint(uint64(v), 10), nil
	case gff.Short:
		return strconv.FormatInt(int64(v), 10), nil
	case gff.DWord:
		return strconv.FormatUint(uint64(v), 10), nil
	case gff.Int:
		return strconv.FormatInt(int64(v), 10), nil
	case gff.DWord64:
		return strconv.FormatUint(uint64(v), 10), nil
	case gff.Int64:
		return strconv.FormatInt(int64(v), 10), nil
	case gff.Float:
		return strconv.FormatFloat(float64(v), 'f', floatDigits, 32), nil
	case gff.Double:
		return strconv.FormatFloat(float64(v), 'f', floatDigits, 64), nil
	case gff.String:
		if err := checkText(string(v)); err != nil {
			return "", err
		}
		return string(v), nil
	case gff.ResRef:
		if err := gff.ValidateResRef(string(v)); err != nil {
			return "", err
		}
		if err := checkText(string(v)); err != nil {
			return "", err
		}
		return string(v), nil
	}
	return "", fmt.Errorf("%w: %T has no text form", ErrUnknownKind, v)
}

// checkText rejects text that XML cannot carry.
func checkText(s string) error {
	if err := xmltext.Check(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidText, err)
	}
	return nil
}

// parseScalar decodes text as a value of kind k.
func parseScalar(k gff.Kind, text string) (gff.Value, error) {
	switch k {
	case gff.KindByte:
		n, err := parseUint(text, 8)
		if err != nil {
			return nil, err
		}
		return gff.Byte(n), nil
	case gff.KindChar:
		n, err := parseInt(text, 8)
		if err != nil {
			return nil, err
		}
		return gff.Char(n), nil
	case gff.KindWord:
		n, err := parseUint(text, 16)
		if err != nil {
			return nil, err
		}
		return gff.Word(n), nil
	case gff.KindShort:
		n, err := parseInt(text, 16)
		if err != nil {
			return nil, err
		}
		return gff.Short(n), nil
	case gff.KindDWord:
		n, err := parseUint(text, 32)
		if err != nil {
			return nil, err
		}
		return gff.DWord(n), nil
	case gff.KindInt:
		n, err := parseInt(text, 32)
		if err != nil {
			return nil, err
		}
		return gff.Int(n), nil
	case gff.KindDWord64:
		n, err := parseUint(text, 64)
		if err != nil {
			return nil, err
		}
		return gff.DWord64(n), nil
	case gff.KindInt64:
		n, err := parseInt(text, 64)
		if err != nil {
			return nil, err
		}
		return gff.Int64(n), nil
	case gff.KindFloat:
		f, err := parseFloat(text, 32)
		if err != nil {
			return nil, err
		}
		return gff.Float(f), nil
	case gff.KindDouble:
		f, err := parseFloat(text, 64)
		if err != nil {
			return nil, err
		}
		return gff.Double(f), nil
	case gff.KindString:
		return gff.String(text), nil
	case gff.KindResRef:
		if err := gff.ValidateResRef(text); err != nil {
			return nil, err
		}
		return gff.ResRef(text), nil
	}
	return nil, fmt.Errorf("%w: %v has no text form", ErrUnknownKind, k)
}

func parseUint(text string, bits int) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(text), 10, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a %d-bit unsigned integer", ErrParse, text, bits)
	}
	return n, nil
}

func parseInt(text string, bits int) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(text), 10, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a %d-bit integer", ErrParse, text, bits)
	}
	return n, nil
}

func parseFloat(text string, bits int) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), bits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a %d-bit float", ErrParse, text, bits)
	}
	return f, nil
}
