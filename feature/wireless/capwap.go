package wireless

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// AccessPoint is one capwap-data record.
type AccessPoint struct {
	Name      string `xml:"name"`
	IPAddr    string `xml:"ip-addr"`
	MAC       string `xml:"wtp-mac"`
	Serial    string `xml:"device-detail>static-info>board-data>wtp-serial-num"`
	EnetMAC   string `xml:"device-detail>static-info>board-data>wtp-enet-mac"`
	Model     string `xml:"device-detail>static-info>ap-models>model"`
	SWVersion string `xml:"device-detail>wtp-version>sw-version"`
	Location  string `xml:"ap-location>location"`
	SiteTag   string `xml:"tag-info>site-tag>site-tag-name"`
	PolicyTag string `xml:"tag-info>policy-tag-info>policy-tag-name"`
	RFTag     string `xml:"tag-info>rf-tag>rf-tag-name"`
}

// ParseCapwap extracts every capwap-data element from r, wherever it sits in
// the reply.
func ParseCapwap(r io.Reader) ([]AccessPoint, error) {
	dec := xml.NewDecoder(r)

	var aps []AccessPoint
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return aps, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse capwap data: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "capwap-data" {
			continue
		}

		var ap AccessPoint
		if err := dec.DecodeElement(&ap, &start); err != nil {
			return nil, fmt.Errorf("failed to decode capwap record: %w", err)
		}
		ap.trim()
		aps = append(aps, ap)
	}
}

func (ap *AccessPoint) trim() {
	for _, f := range []*string{
		&ap.Name, &ap.IPAddr, &ap.MAC, &ap.Serial, &ap.EnetMAC, &ap.Model,
		&ap.SWVersion, &ap.Location, &ap.SiteTag, &ap.PolicyTag, &ap.RFTag,
	} {
		*f = strings.TrimSpace(*f)
	}
}
