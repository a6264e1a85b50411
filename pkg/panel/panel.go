// Package panel holds the sign-geometry and text-row value types consumed
// by the layout builder in pkg/mep. They are plain value types; the
// alignment and spacing arithmetic lives in pkg/mep's layout builder.
package panel

// Geometry describes the physical sign the layout builder lays text out
// for: led/pixel counts for the panel and its default font, and the
// environmental capability counts carried in status responses.
type Geometry struct {
	FontW, FontH   uint16
	PanelW, PanelH uint16
	Fans           uint8
	Backlights     uint8
	LedBoards      uint16
	OpsHumidity    uint16
	OpsTempLo      int8
	OpsTempHi      int8
}

// HAlign is a row's horizontal alignment.
type HAlign int

const (
	HLeft HAlign = iota
	HCenter
	HRight
)

// VAlign is a page's vertical alignment.
type VAlign int

const (
	VTop VAlign = iota
	VCenter
	VBottom
)

// ColorKind selects which variant of ColorSpec is populated.
type ColorKind int

const (
	ColorNone ColorKind = iota
	ColorBasic
	ColorRGBY
)

// ColorSpec is a row's color setting: unset, a basic single-letter color
// (index 1..5: red, green, blue, yellow, white), or an RGBY quad of hex
// digit characters.
type ColorSpec struct {
	Kind       ColorKind
	BasicIndex uint8
	RGBY       [4]byte
}

// TextRow is one row of text within a TextPage.
type TextRow struct {
	Text        []byte
	ColSpacing  uint8
	HAlign      HAlign
	CompactFont bool
	ScrollSpeed uint8
	Color       ColorSpec
}

// DurationUnit selects the unit a page's Duration is expressed in.
type DurationUnit int

const (
	DurationSeconds DurationUnit = iota
	DurationTenths
)

// TextPage is one page of a (possibly multi-page) text message.
type TextPage struct {
	Rows          []TextRow
	RowSpacing    uint8
	VAlign        VAlign
	Truncate      bool
	BlinkingText  bool
	Antialias     uint8
	Duration      uint8
	DurationUnit  DurationUnit
	FlashingLamps bool
}
