package data

import "time"

// Kind names the type of content a PrintRequest prints.
type Kind string

const (
	KindText        Kind = "text"
	KindRotatedText Kind = "rotated_text"
	KindTwoColumn   Kind = "two_column"
	KindTableRow    Kind = "table_row"
	KindBarcode     Kind = "barcode"
	KindQRCode      Kind = "qr_code"
	KindLabelText   Kind = "label_text"
	KindFeed        Kind = "feed"
	KindSeparator   Kind = "separator"
)

// Kinds lists every supported kind in display order.
var Kinds = []Kind{
	KindText, KindRotatedText, KindTwoColumn, KindTableRow, KindBarcode,
	KindQRCode, KindLabelText, KindFeed, KindSeparator,
}

var kindActions = map[Kind]string{
	KindText:        "print_text",
	KindRotatedText: "print_rotated_text",
	KindTwoColumn:   "print_two_column",
	KindTableRow:    "print_table_row",
	KindBarcode:     "print_barcode",
	KindQRCode:      "print_qr_code",
	KindLabelText:   "print_label_text",
	KindFeed:        "feed_paper",
	KindSeparator:   "print_separator",
}

// Action returns the printer action the kind is dispatched as, or "" for an unknown kind.
func (k Kind) Action() string {
	return kindActions[k]
}

func (k Kind) Valid() bool {
	_, ok := kindActions[k]
	return ok
}

// Actions that take no payload.
const (
	ActionTestPrint    = "test_print"
	ActionWakePrinter  = "wake_printer"
	ActionSleepPrinter = "sleep_printer"
)

var PlainActions = []string{ActionTestPrint, ActionWakePrinter, ActionSleepPrinter}

// PrintRequest is a validated request ready to be sent as service data.
type PrintRequest struct {
	Kind Kind                   `json:"kind"`
	Data map[string]interface{} `json:"data"`
}

// Fields returns a copy of the request data, suitable to rebuild the same request.
func (r PrintRequest) Fields() map[string]interface{} {
	out := make(map[string]interface{}, len(r.Data))
	for k, v := range r.Data {
		out[k] = v
	}
	return out
}

// QueueJob is a PrintRequest waiting for, or going through, dispatch.
type QueueJob struct {
	ID         string       `json:"id"`
	Service    string       `json:"service"`
	Request    PrintRequest `json:"request"`
	EnqueuedAt time.Time    `json:"enqueued_at"`
}
