package request

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// BarcodeType is the ESC/POS barcode system index sent as barcode_type.
type BarcodeType int

const (
	BarcodeUPCA BarcodeType = iota
	BarcodeUPCE
	BarcodeEAN13
	BarcodeEAN8
	BarcodeCODE39
	BarcodeITF
	BarcodeCODABAR
	BarcodeCODE93
	BarcodeCODE128
)

type barcodeRule struct {
	name     string
	validate func(string) bool
	message  string
}

func matches(expr string) func(string) bool {
	re := regexp.MustCompile(expr)
	return re.MatchString
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

var barcodeRules = map[BarcodeType]barcodeRule{
	BarcodeUPCA:   {name: "UPC-A", validate: matches(`^\d{11,12}$`), message: "UPC-A requires 11-12 digits"},
	BarcodeUPCE:   {name: "UPC-E", validate: matches(`^\d{6,8}$`), message: "UPC-E requires 6-8 digits"},
	BarcodeEAN13:  {name: "EAN13", validate: matches(`^\d{12,13}$`), message: "EAN13 requires 12-13 digits"},
	BarcodeEAN8:   {name: "EAN8", validate: matches(`^\d{7,8}$`), message: "EAN8 requires 7-8 digits"},
	BarcodeCODE39: {name: "CODE39", validate: matches(`^[0-9A-Z\-.\s$/+%]+$`), message: "CODE39 allows only 0-9, A-Z, space and - . $ / + %"},
	BarcodeITF: {name: "ITF", message: "ITF requires an even number of digits", validate: func(s string) bool {
		return digitsOnly.MatchString(s) && len(s)%2 == 0
	}},
	BarcodeCODABAR: {name: "CODABAR"},
	BarcodeCODE93:  {name: "CODE93"},
	BarcodeCODE128: {name: "CODE128", message: "2-255 characters required", validate: func(s string) bool {
		n := utf8.RuneCountInString(s)
		return n >= 2 && n <= 255
	}},
}

func (t BarcodeType) String() string {
	if rule, ok := barcodeRules[t]; ok {
		return rule.name
	}
	return fmt.Sprintf("BarcodeType(%d)", int(t))
}

// ValidateBarcode checks data against the format of the barcode type.
// It returns the message to show when the data does not fit, or "" when it does.
// Types without a format rule accept any non-empty data.
func ValidateBarcode(t BarcodeType, data string) string {
	rule, ok := barcodeRules[t]
	if !ok {
		return fmt.Sprintf("unsupported barcode type %d", int(t))
	}
	if data == "" {
		return "Please enter barcode data"
	}
	if rule.validate == nil || rule.validate(data) {
		return ""
	}
	return rule.message
}
