package ipfire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSpeedReport(t *testing.T) {
	down, up, err := parseSpeedReport("<data><rxb>1000</rxb><txb>500</txb></data>")
	require.NoError(t, err)
	require.Equal(t, int64(1000), down)
	require.Equal(t, int64(500), up)
}

func TestParseSpeedReportIgnoresUnknownElements(t *testing.T) {
	body := `<speed><iface>red0</iface><rxb>42</rxb><extra><nested>1</nested></extra><txb>7</txb></speed>`

	down, up, err := parseSpeedReport(body)
	require.NoError(t, err)
	require.Equal(t, int64(42), down)
	require.Equal(t, int64(7), up)
}

func TestParseSpeedReportFirstOccurrenceWins(t *testing.T) {
	body := `<data><rxb>100</rxb><txb>200</txb><rxb>999</rxb><txb>999</txb></data>`

	down, up, err := parseSpeedReport(body)
	require.NoError(t, err)
	require.Equal(t, int64(100), down)
	require.Equal(t, int64(200), up)
}

func TestParseSpeedReportTrimsWhitespace(t *testing.T) {
	down, up, err := parseSpeedReport("<data><rxb> 12 </rxb><txb>\n34\n</txb></data>")
	require.NoError(t, err)
	require.Equal(t, int64(12), down)
	require.Equal(t, int64(34), up)
}

func TestParseSpeedReportErrors(t *testing.T) {
	cases := map[string]string{
		"empty body":      "",
		"not xml":         "It works!",
		"unterminated":    "<data><rxb>1</rxb>",
		"missing rxb":     "<data><txb>500</txb></data>",
		"missing txb":     "<data><rxb>1000</rxb></data>",
		"non-numeric rxb": "<data><rxb>fast</rxb><txb>500</txb></data>",
		"non-numeric txb": "<data><rxb>1000</rxb><txb>1.5e3</txb></data>",
		"wrong case tags": "<data><RXB>1000</RXB><TXB>500</TXB></data>",
		"empty rxb":       "<data><rxb></rxb><txb>500</txb></data>",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := parseSpeedReport(body)
			require.ErrorIs(t, err, ErrBadPayload)
		})
	}
}
