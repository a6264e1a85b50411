package mep

import (
	"fmt"

	"github.com/aesysnet/mepcodec/pkg/command"
	"github.com/aesysnet/mepcodec/pkg/frame"
	"github.com/aesysnet/mepcodec/pkg/panel"
	"github.com/aesysnet/mepcodec/pkg/proto"
)

// Text builds a nice-begin/nice-end VIS_EXTENSIBLE group carrying up to 255
// pages of drawing commands, positioned according to geo.
func Text(kind proto.FrameKind, tranId proto.TransactionId, geo panel.Geometry, pages []panel.TextPage) ([]byte, error) {
	if len(pages) == 0 || len(pages) > 255 || geo.FontW == 0 || geo.FontH == 0 {
		return nil, fmt.Errorf("mep: invalid text message parameters: %w", ErrInvalidArgument)
	}

	var stream []byte
	for _, page := range pages {
		header := make([]byte, 5)
		duration := page.Duration
		if duration == 0 {
			duration = 1
		}
		var params uint8
		if page.FlashingLamps {
			params |= 1
		}
		if page.DurationUnit == panel.DurationTenths {
			params |= 2
		}

		header[0] = duration
		header[1] = params
		header[2] = 0x00

		body, err := addTextProperties(page, geo)
		if err != nil {
			return nil, err
		}
		if len(stream)+5+len(body) > proto.MaxPayloadLen {
			return nil, fmt.Errorf("mep: text message exceeds payload ceiling: %w", ErrBadFrame)
		}

		header[3] = byte(len(body) >> 8)
		header[4] = byte(len(body))
		stream = append(stream, header...)
		stream = append(stream, body...)
	}

	groupHeader := []byte{0x01, 0x00, byte(len(pages))}
	visExtData := append(groupHeader, stream...)

	payload := command.EncodeSet(command.SetRecord{Code: customSetText})
	payload = append(payload, command.EncodeSet(command.SetRecord{Code: codeVisExtensible})...)
	payload = append(payload, command.EncodeSet(command.SetRecord{Code: codeVisExtensible, Data: visExtData})...)
	payload = append(payload, command.EncodeSet(command.SetRecord{Code: codeVisExtensible, Offset: uint32(len(visExtData))})...)

	if len(payload) > proto.MaxPayloadLen {
		return nil, fmt.Errorf("mep: text message exceeds payload ceiling: %w", ErrBadFrame)
	}
	return frame.Build(kind, proto.AddressBroadcast, tranId, proto.CmdSet, payload)
}

// addTextProperties renders the drawing-command stream for one page:
// blink/antialias flags, then per-row position/color/spacing/font commands
// followed by the row's literal text bytes.
func addTextProperties(page panel.TextPage, geo panel.Geometry) ([]byte, error) {
	var buf []byte
	appendCmd := func(b []byte) error {
		if len(buf)+len(b) > proto.MaxPayloadLen {
			return fmt.Errorf("mep: drawing command stream overflow: %w", ErrBadFrame)
		}
		buf = append(buf, b...)
		return nil
	}

	if page.BlinkingText {
		if err := appendCmd([]byte{0x17, 0x41}); err != nil {
			return nil, err
		}
	}
	if page.Antialias >= 1 && page.Antialias <= 9 {
		if err := appendCmd([]byte{0x17, 0x42, '0' + page.Antialias}); err != nil {
			return nil, err
		}
	}

	rowSpacing := page.RowSpacing
	if rowSpacing > 9 || len(page.Rows) == 1 {
		rowSpacing = 0
	}
	lpdv := int(geo.FontH) + int(rowSpacing)

	rows := len(page.Rows)
	if page.Truncate && lpdv > 0 {
		// When the panel can't fit even one computed row, keep the full
		// row count rather than clamping to zero.
		if computed := (int(geo.PanelH) + int(rowSpacing)) / lpdv; computed != 0 && rows >= computed {
			rows = computed
		}
	}

	vAlign := int(geo.PanelH) - (lpdv*rows - int(rowSpacing))
	if vAlign > int(geo.PanelH) || vAlign < 0 || page.VAlign == panel.VTop {
		vAlign = 0
	} else if page.VAlign == panel.VCenter {
		vAlign /= 2
	}

	for r := 0; r < rows && r < len(page.Rows); r++ {
		row := page.Rows[r]

		colSpacing := row.ColSpacing
		if colSpacing > 9 {
			colSpacing = 0
		}
		lpdh := int(geo.FontW) + int(colSpacing)

		cols := len(row.Text)
		if page.Truncate && !row.CompactFont && lpdh > 0 {
			if computed := (int(geo.PanelW) + int(colSpacing)) / lpdh; computed != 0 && cols >= computed {
				cols = computed
			}
		}

		hAlign := int(geo.PanelW) - (lpdh*cols - int(colSpacing))
		if hAlign > int(geo.PanelW) || hAlign < 0 || row.HAlign == panel.HLeft || row.CompactFont {
			hAlign = 0
		} else if row.HAlign == panel.HCenter {
			hAlign /= 2
		}

		if err := appendCmd(colorCommand(row.Color)); err != nil {
			return nil, err
		}
		if row.ScrollSpeed >= 1 && row.ScrollSpeed <= 9 {
			if err := appendCmd([]byte{0x17, 0x53, 0x48, '0' + row.ScrollSpeed}); err != nil {
				return nil, err
			}
		}
		if err := appendCmd(positionCommand(vAlign, hAlign)); err != nil {
			return nil, err
		}
		if err := appendCmd([]byte{0x17, 0x46, 0x31, '0' + colSpacing, '0' + rowSpacing}); err != nil {
			return nil, err
		}
		if row.CompactFont {
			if err := appendCmd([]byte{0x17, 0x4F}); err != nil {
				return nil, err
			}
		}

		text := row.Text
		if cols < len(text) {
			text = text[:cols]
		}
		if err := appendCmd(text); err != nil {
			return nil, err
		}

		vAlign += lpdv
	}

	return buf, nil
}

func positionCommand(vAlign, hAlign int) []byte {
	return []byte{0x17, 0x51,
		hexDigit(vAlign, 2), hexDigit(vAlign, 1), hexDigit(vAlign, 0),
		hexDigit(hAlign, 2), hexDigit(hAlign, 1), hexDigit(hAlign, 0),
	}
}

func hexDigit(v int, pos int) byte {
	const digits = "0123456789ABCDEF"
	return digits[(v>>(4*pos))&0xF]
}

func colorCommand(c panel.ColorSpec) []byte {
	switch c.Kind {
	case panel.ColorBasic:
		if c.BasicIndex >= 1 && c.BasicIndex <= 5 {
			return []byte{0x17, 0x43, '0' + c.BasicIndex}
		}
	case panel.ColorRGBY:
		if isHexDigit(c.RGBY[0]) && isHexDigit(c.RGBY[1]) && isHexDigit(c.RGBY[2]) && isHexDigit(c.RGBY[3]) {
			return []byte{0x17, 0x44, c.RGBY[0], c.RGBY[1], c.RGBY[2], c.RGBY[3]}
		}
	}
	return nil
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
