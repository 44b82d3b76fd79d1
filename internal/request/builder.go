// Package request turns raw field values into validated print requests.
package request

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"djp.chapter42.de/printerbridge/internal/data"
	perrors "djp.chapter42.de/printerbridge/internal/errors"
	"github.com/spf13/cast"
)

// Build validates raw field values for kind and returns the request to dispatch.
// Missing optional fields get their defaults, so every request of a kind carries the same keys.
func Build(kind data.Kind, raw map[string]interface{}) (data.PrintRequest, error) {
	specs, ok := kindFields[kind]
	if !ok {
		return data.PrintRequest{}, perrors.NewUnknownKindError(string(kind))
	}

	payload := make(map[string]interface{}, len(specs))
	known := make(map[string]struct{}, len(specs))
	for _, s := range specs {
		known[s.name] = struct{}{}

		v, err := coerce(s, raw[s.name])
		if err != nil {
			return data.PrintRequest{}, err
		}
		if s.required != "" && strings.TrimSpace(v.(string)) == "" {
			return data.PrintRequest{}, perrors.NewValidationError(s.name, s.required)
		}
		payload[s.name] = v
	}

	// Unknown keys go through untouched so the schema can name them.
	for k, v := range raw {
		if _, ok := known[k]; !ok {
			payload[k] = v
		}
	}

	if kind == data.KindBarcode {
		if err := validateBarcodeFields(payload); err != nil {
			return data.PrintRequest{}, err
		}
	}

	if err := validateSchema(kind, payload); err != nil {
		return data.PrintRequest{}, err
	}

	if kind == data.KindQRCode {
		if err := checkQRCapacity(payload["data"].(string), payload["error_correction"].(int)); err != nil {
			return data.PrintRequest{}, err
		}
	}

	return data.PrintRequest{Kind: kind, Data: payload}, nil
}

func coerce(s fieldSpec, v interface{}) (interface{}, error) {
	if v == nil {
		return s.def, nil
	}

	switch s.typ {
	case fieldBool:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return nil, perrors.NewValidationError(s.name, "must be true or false")
		}
		return b, nil

	case fieldInt:
		if str, ok := v.(string); ok {
			str = strings.TrimSpace(str)
			if str == "" {
				return s.def, nil
			}
			// base 10 only: "010" is ten, "0x2" is not a number
			n, err := strconv.ParseInt(str, 10, 0)
			if err != nil {
				return nil, perrors.NewValidationError(s.name, "must be a whole number")
			}
			return int(n), nil
		}
		if f, ok := v.(float64); ok && f != math.Trunc(f) {
			return nil, perrors.NewValidationError(s.name, "must be a whole number")
		}
		n, err := cast.ToIntE(v)
		if err != nil {
			return nil, perrors.NewValidationError(s.name, "must be a whole number")
		}
		return n, nil

	default:
		str, err := cast.ToStringE(v)
		if err != nil {
			return nil, perrors.NewValidationError(s.name, fmt.Sprintf("must be text, got %T", v))
		}
		if s.trim {
			str = strings.TrimSpace(str)
			if str == "" {
				if def, ok := s.def.(string); ok {
					return def, nil
				}
			}
		}
		return str, nil
	}
}

func validateBarcodeFields(payload map[string]interface{}) error {
	code := payload["barcode_type"].(int)
	if _, ok := barcodeRules[BarcodeType(code)]; !ok {
		return perrors.NewValidationError("barcode_type", fmt.Sprintf("unsupported barcode type %d", code))
	}
	if msg := ValidateBarcode(BarcodeType(code), payload["barcode_data"].(string)); msg != "" {
		return perrors.NewValidationError("barcode_data", msg)
	}
	return nil
}
