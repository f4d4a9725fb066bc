// internal/discovery/vendors.go
package discovery

import (
	"fmt"
	"strconv"
	"strings"
)

type vendorInfo struct {
	name     string
	products map[uint16]string
}

// knownVendors maps USB vendor IDs of ESC/POS printer makers to their names and models
var knownVendors = map[uint16]vendorInfo{
	0x04B8: {name: "Seiko Epson", products: map[uint16]string{
		0x0202: "TM-T88IV",
		0x0203: "TM-T88V",
		0x0214: "TM-T88VI",
		0x0215: "TM-T20III",
		0x0216: "TM-T82III",
		0x0217: "TM-M30",
	}},
	0x0519: {name: "Star Micronics", products: map[uint16]string{
		0x0001: "TSP143III",
		0x0002: "TSP143IIIU",
		0x0003: "TSP654II",
	}},
	0x1CBE: {name: "Citizen", products: map[uint16]string{
		0x0001: "CT-S310II",
		0x0002: "CT-S4000",
	}},
	0x1504: {name: "Bixolon", products: map[uint16]string{
		0x0006: "SRP-330II",
		0x0007: "SRP-350III",
	}},
	0x0416: {name: "Winbond (generic POS-58/80)", products: map[uint16]string{
		0x5011: "POS-80",
	}},
}

// identify returns vendor and model names and a confidence for a VID/PID pair
func identify(vid, pid uint16) (vendor, model string, confidence float64) {
	info, ok := knownVendors[vid]
	if !ok {
		return "", "", 0
	}
	if m, ok := info.products[pid]; ok {
		return info.name, m, 0.95
	}
	return info.name, "", 0.8
}

// parseHexID parses "04B8" or "0x04b8" as reported by serial enumerators
func parseHexID(s string) (uint16, bool) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, false
	}
	return uint16(n), true
}

func formatID(id uint16) string { return fmt.Sprintf("0x%04x", id) }
