package request

import (
	"strings"
	"testing"

	"djp.chapter42.de/printerbridge/internal/data"
	perrors "djp.chapter42.de/printerbridge/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireValidationError(t *testing.T, err error, field, message string) {
	t.Helper()
	require.Error(t, err)
	e := perrors.Normalize(err)
	assert.Equal(t, perrors.ErrCodeValidationFailed, e.Code)
	assert.Equal(t, field, e.Field)
	if message != "" {
		assert.Equal(t, message, e.Message)
	}
}

func TestBuildTextDefaults(t *testing.T) {
	req, err := Build(data.KindText, map[string]interface{}{"message": "Hello printer"})
	require.NoError(t, err)

	assert.Equal(t, data.KindText, req.Kind)
	assert.Equal(t, map[string]interface{}{
		"message":   "Hello printer",
		"text_size": "M",
		"alignment": "L",
		"bold":      false,
		"underline": false,
		"inverse":   false,
		"rotation":  0,
	}, req.Data)
}

func TestBuildCoercesJSONAndFormValues(t *testing.T) {
	req, err := Build(data.KindText, map[string]interface{}{
		"message":   "  keep my spaces ",
		"text_size": "L",
		"alignment": " C ",
		"bold":      "true",
		"underline": true,
		"rotation":  float64(1),
	})
	require.NoError(t, err)

	assert.Equal(t, "  keep my spaces ", req.Data["message"])
	assert.Equal(t, "C", req.Data["alignment"])
	assert.Equal(t, true, req.Data["bold"])
	assert.Equal(t, 1, req.Data["rotation"])

	req, err = Build(data.KindFeed, map[string]interface{}{"lines": "5"})
	require.NoError(t, err)
	assert.Equal(t, 5, req.Data["lines"])
}

func TestBuildRejectsEmptyPrimaryField(t *testing.T) {
	cases := []struct {
		kind    data.Kind
		raw     map[string]interface{}
		field   string
		message string
	}{
		{data.KindText, map[string]interface{}{"message": "   "}, "message", "Please enter some text"},
		{data.KindRotatedText, map[string]interface{}{}, "message", "Please enter some text"},
		{data.KindLabelText, map[string]interface{}{"message": "\t"}, "message", "Please enter label text"},
		{data.KindTwoColumn, map[string]interface{}{"left_text": "Total"}, "right_text", "Please enter the right column text"},
		{data.KindTableRow, map[string]interface{}{"col2": "x"}, "col1", "Please enter at least the first column"},
		{data.KindQRCode, map[string]interface{}{"data": " "}, "data", "Please enter QR code data"},
		{data.KindBarcode, map[string]interface{}{"barcode_type": 8, "barcode_data": "  "}, "barcode_data", "Please enter barcode data"},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			_, err := Build(tc.kind, tc.raw)
			requireValidationError(t, err, tc.field, tc.message)
		})
	}
}

func TestBuildSchemaViolations(t *testing.T) {
	_, err := Build(data.KindText, map[string]interface{}{"message": "x", "text_size": "XL"})
	requireValidationError(t, err, "text_size", "")

	_, err = Build(data.KindText, map[string]interface{}{"message": "x", "rotation": 2})
	requireValidationError(t, err, "rotation", "")

	_, err = Build(data.KindQRCode, map[string]interface{}{"data": "x", "size": 5})
	requireValidationError(t, err, "size", "")

	_, err = Build(data.KindFeed, map[string]interface{}{"lines": 0})
	requireValidationError(t, err, "lines", "")

	_, err = Build(data.KindText, map[string]interface{}{"message": "x", "font": "B"})
	requireValidationError(t, err, "font", "")

	_, err = Build(data.KindFeed, map[string]interface{}{"lines": 1.5})
	requireValidationError(t, err, "lines", "must be a whole number")

	_, err = Build(data.KindText, map[string]interface{}{"message": "x", "bold": "maybe"})
	requireValidationError(t, err, "bold", "must be true or false")
}

func TestBuildLabelAcceptsExtraLarge(t *testing.T) {
	req, err := Build(data.KindLabelText, map[string]interface{}{"message": "PANTRY", "size": "XL"})
	require.NoError(t, err)
	assert.Equal(t, "XL", req.Data["size"])
	assert.Equal(t, 1, req.Data["spacing"])

	_, err = Build(data.KindText, map[string]interface{}{"message": "x", "text_size": "XL"})
	assert.Error(t, err)
}

func TestBuildUnknownKind(t *testing.T) {
	_, err := Build(data.Kind("poster"), map[string]interface{}{"message": "x"})
	assert.True(t, perrors.Is(err, perrors.ErrCodeUnknownKind))
}

func TestBuildSeparatorAndFeed(t *testing.T) {
	req, err := Build(data.KindSeparator, nil)
	require.NoError(t, err)
	assert.Empty(t, req.Data)

	req, err = Build(data.KindFeed, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"lines": 3}, req.Data)
}

func TestBuildQRCapacity(t *testing.T) {
	req, err := Build(data.KindQRCode, map[string]interface{}{"data": "https://www.home-assistant.io", "label": "HA"})
	require.NoError(t, err)
	assert.Equal(t, 2, req.Data["size"])
	assert.Equal(t, 1, req.Data["error_correction"])

	_, err = Build(data.KindQRCode, map[string]interface{}{
		"data":             strings.Repeat("A", 3000),
		"error_correction": 3,
	})
	requireValidationError(t, err, "data", "QR data too long for error correction H")
}

func TestBuildRoundTrip(t *testing.T) {
	inputs := map[data.Kind]map[string]interface{}{
		data.KindText:        {"message": "Hi", "bold": true, "alignment": "R"},
		data.KindRotatedText: {"message": "Side", "inverse": true},
		data.KindTwoColumn:   {"left_text": "Coffee", "right_text": "2.50", "fill_dots": false},
		data.KindTableRow:    {"col1": "A", "col2": "B", "col3": "C"},
		data.KindBarcode:     {"barcode_type": 0, "barcode_data": "01234567890"},
		data.KindQRCode:      {"data": "wifi", "size": 4, "error_correction": 0, "label": "Guest"},
		data.KindLabelText:   {"message": "Spices", "size": "L", "spacing": 2},
		data.KindFeed:        {"lines": 7},
		data.KindSeparator:   {},
	}

	for kind, raw := range inputs {
		t.Run(string(kind), func(t *testing.T) {
			first, err := Build(kind, raw)
			require.NoError(t, err)
			assert.ElementsMatch(t, FieldNames(kind), keys(first.Data))

			second, err := Build(first.Kind, first.Fields())
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestBuildNumericStringsAreDecimal(t *testing.T) {
	req, err := Build(data.KindFeed, map[string]interface{}{"lines": "010"})
	require.NoError(t, err)
	assert.Equal(t, 10, req.Data["lines"])

	req, err = Build(data.KindBarcode, map[string]interface{}{"barcode_type": " 08 ", "barcode_data": "ABC"})
	require.NoError(t, err)
	assert.Equal(t, 8, req.Data["barcode_type"])

	_, err = Build(data.KindBarcode, map[string]interface{}{"barcode_type": "0x2", "barcode_data": "400638133393"})
	requireValidationError(t, err, "barcode_type", "must be a whole number")

	_, err = Build(data.KindFeed, map[string]interface{}{"lines": "2.5"})
	requireValidationError(t, err, "lines", "must be a whole number")
}
