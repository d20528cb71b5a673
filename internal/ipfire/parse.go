package ipfire

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Tag names in the speed.cgi report. Case-sensitive, first occurrence wins.
const (
	tagReceived    = "rxb"
	tagTransmitted = "txb"
)

// parseSpeedReport extracts the two cumulative counters (kilobytes) from a
// speed.cgi XML body. Unknown elements are ignored; a missing counter,
// non-numeric content or malformed XML fails with ErrBadPayload.
func parseSpeedReport(body string) (downKB, upKB int64, err error) {
	dec := xml.NewDecoder(strings.NewReader(body))

	var haveDown, haveUp bool
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %v", ErrBadPayload, err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case tagReceived:
			if haveDown {
				continue
			}
			downKB, err = decodeCounter(dec, &se)
			if err != nil {
				return 0, 0, err
			}
			haveDown = true
		case tagTransmitted:
			if haveUp {
				continue
			}
			upKB, err = decodeCounter(dec, &se)
			if err != nil {
				return 0, 0, err
			}
			haveUp = true
		}
	}

	if !haveDown || !haveUp {
		return 0, 0, fmt.Errorf("%w: missing %s/%s elements", ErrBadPayload, tagReceived, tagTransmitted)
	}

	return downKB, upKB, nil
}

func decodeCounter(dec *xml.Decoder, se *xml.StartElement) (int64, error) {
	var text string
	if err := dec.DecodeElement(&text, se); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not a base-10 counter: %q", ErrBadPayload, se.Name.Local, text)
	}
	return v, nil
}
