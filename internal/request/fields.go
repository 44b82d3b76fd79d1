package request

import "djp.chapter42.de/printerbridge/internal/data"

type fieldType int

const (
	fieldString fieldType = iota
	fieldBool
	fieldInt
)

type fieldSpec struct {
	name     string
	typ      fieldType
	def      interface{}
	required string // message shown when the trimmed value is empty
	trim     bool
}

func text(name string, required string) fieldSpec {
	return fieldSpec{name: name, typ: fieldString, def: "", required: required}
}

func enum(name string, def string) fieldSpec {
	return fieldSpec{name: name, typ: fieldString, def: def, trim: true}
}

func flag(name string, def bool) fieldSpec {
	return fieldSpec{name: name, typ: fieldBool, def: def}
}

func number(name string, def int) fieldSpec {
	return fieldSpec{name: name, typ: fieldInt, def: def}
}

var kindFields = map[data.Kind][]fieldSpec{
	data.KindText: {
		text("message", "Please enter some text"),
		enum("text_size", "M"),
		enum("alignment", "L"),
		flag("bold", false),
		flag("underline", false),
		flag("inverse", false),
		number("rotation", 0),
	},
	data.KindRotatedText: {
		text("message", "Please enter some text"),
		enum("text_size", "M"),
		enum("alignment", "L"),
		flag("bold", false),
		flag("underline", false),
		flag("inverse", false),
	},
	data.KindTwoColumn: {
		text("left_text", "Please enter the left column text"),
		text("right_text", "Please enter the right column text"),
		flag("fill_dots", true),
		enum("text_size", "M"),
	},
	data.KindTableRow: {
		text("col1", "Please enter at least the first column"),
		text("col2", ""),
		text("col3", ""),
		text("col4", ""),
		enum("text_size", "M"),
	},
	data.KindBarcode: {
		number("barcode_type", int(BarcodeCODE128)),
		{name: "barcode_data", typ: fieldString, def: "", required: "Please enter barcode data", trim: true},
	},
	data.KindQRCode: {
		text("data", "Please enter QR code data"),
		number("size", 2),
		number("error_correction", 1),
		text("label", ""),
	},
	data.KindLabelText: {
		text("message", "Please enter label text"),
		enum("size", "M"),
		number("spacing", 1),
	},
	data.KindFeed: {
		number("lines", 3),
	},
	data.KindSeparator: {},
}

// FieldNames lists the payload keys of a kind.
func FieldNames(kind data.Kind) []string {
	specs := kindFields[kind]
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.name)
	}
	return names
}
