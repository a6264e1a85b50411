package mep

import (
	"testing"

	"github.com/aesysnet/mepcodec/pkg/panel"
	"github.com/aesysnet/mepcodec/pkg/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S5 — Text page alignment: panel 60x16, font 5x7, rows "HI"/"OK",
// rowSpacing=1 colSpacing=1, center/center alignment.
func TestTextPageAlignmentScenario(t *testing.T) {
	geo := panel.Geometry{FontW: 5, FontH: 7, PanelW: 60, PanelH: 16}
	page := panel.TextPage{
		RowSpacing: 1,
		VAlign:     panel.VCenter,
		Rows: []panel.TextRow{
			{Text: []byte("HI"), ColSpacing: 1, HAlign: panel.HCenter},
			{Text: []byte("OK"), ColSpacing: 1, HAlign: panel.HCenter},
		},
	}

	raw, err := Text(proto.PPTP, 1, geo, []panel.TextPage{page})
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	assertContainsSubsequence(t, raw, []byte{0x17, 0x51, '0', '0', '0', '0', '1', '8'})
	assertContainsSubsequence(t, raw, []byte{0x17, 0x51, '0', '0', '8', '0', '1', '8'})
}

func assertContainsSubsequence(t *testing.T, haystack, needle []byte) {
	t.Helper()
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return
		}
	}
	t.Fatalf("subsequence %x not found in %x", needle, haystack)
}

func TestTextRejectsZeroPages(t *testing.T) {
	geo := panel.Geometry{FontW: 5, FontH: 7, PanelW: 60, PanelH: 16}
	_, err := Text(proto.PPTP, 1, geo, nil)
	require.Error(t, err)
}

func TestTextRejectsZeroFont(t *testing.T) {
	geo := panel.Geometry{FontW: 0, FontH: 7, PanelW: 60, PanelH: 16}
	page := panel.TextPage{Rows: []panel.TextRow{{Text: []byte("HI")}}}
	_, err := Text(proto.PPTP, 1, geo, []panel.TextPage{page})
	require.Error(t, err)
}

func TestTextBasicColorDigitIsOneToFive(t *testing.T) {
	cmd := colorCommand(panel.ColorSpec{Kind: panel.ColorBasic, BasicIndex: 1})
	assert.Equal(t, []byte{0x17, 0x43, '1'}, cmd)

	cmd = colorCommand(panel.ColorSpec{Kind: panel.ColorBasic, BasicIndex: 5})
	assert.Equal(t, []byte{0x17, 0x43, '5'}, cmd)
}

func TestTextCompactFontDisablesHorizontalAlignment(t *testing.T) {
	geo := panel.Geometry{FontW: 5, FontH: 7, PanelW: 60, PanelH: 16}
	page := panel.TextPage{
		Rows: []panel.TextRow{
			{Text: []byte("HI"), HAlign: panel.HCenter, CompactFont: true},
		},
	}
	body, err := addTextProperties(page, geo)
	require.NoError(t, err)
	assertContainsSubsequence(t, body, []byte{0x17, 0x51})
	// hAlign forced to 0 despite HCenter because CompactFont is set.
	idx := indexOf(body, []byte{0x17, 0x51})
	require.GreaterOrEqual(t, idx, 0)
	hField := body[idx+5 : idx+8]
	assert.Equal(t, []byte("000"), hField)
}

func indexOf(haystack, needle []byte) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
