package request

import (
	"fmt"

	perrors "djp.chapter42.de/printerbridge/internal/errors"
	qrcode "github.com/skip2/go-qrcode"
)

var qrLevels = map[int]qrcode.RecoveryLevel{
	0: qrcode.Low,
	1: qrcode.Medium,
	2: qrcode.High,
	3: qrcode.Highest,
}

var qrLevelNames = map[int]string{0: "L", 1: "M", 2: "Q", 3: "H"}

// checkQRCapacity makes sure the data fits into a QR symbol at the chosen error correction.
func checkQRCapacity(content string, errorCorrection int) error {
	level, ok := qrLevels[errorCorrection]
	if !ok {
		return perrors.NewValidationError("error_correction", fmt.Sprintf("unsupported error correction %d", errorCorrection))
	}
	if _, err := qrcode.New(content, level); err != nil {
		return perrors.NewValidationError("data",
			fmt.Sprintf("QR data too long for error correction %s", qrLevelNames[errorCorrection]))
	}
	return nil
}
