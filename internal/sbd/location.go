package sbd

import (
	"encoding/binary"
	"fmt"
)

const (
	maxLatDeg         = 90
	maxLonDeg         = 180
	maxThousandthsMin = 59999
)

// MoLocation is the decoded mobile-originated location estimate.
type MoLocation struct {
	// North is true for northern latitudes, false for southern.
	North bool
	// East is true for eastern longitudes, false for western.
	East bool
	// LatDeg is the unsigned latitude degrees, 0 through 90.
	LatDeg uint8
	// LatThousandthsMin is the latitude fraction in thousandths of a minute,
	// 0 through 59999.
	LatThousandthsMin uint16
	// LonDeg is the unsigned longitude degrees, 0 through 180.
	LonDeg uint8
	// LonThousandthsMin is the longitude fraction in thousandths of a minute.
	LonThousandthsMin uint16
	// CEPKm is the Circular Error Probable radius in kilometers.
	CEPKm uint32
}

// ReservedBitsError reports a location format byte with reserved bits set.
type ReservedBitsError struct {
	Byte uint8
}

func (e ReservedBitsError) Error() string {
	return fmt.Sprintf("location format byte 0x%02x has reserved bits set", e.Byte)
}

// FieldRangeError reports a location subfield outside its documented range.
type FieldRangeError struct {
	Field string
	Value uint32
	Max   uint32
}

func (e FieldRangeError) Error() string {
	return fmt.Sprintf("location %s is %d, maximum is %d", e.Field, e.Value, e.Max)
}

// ParseMoLocation decodes the 11-byte location element content. Byte 0 carries
// the NSI flag in bit 0 (0 = north) and the EWI flag in bit 1 (0 = east); the
// remaining bits are reserved and must be zero.
func ParseMoLocation(raw [11]byte) (MoLocation, error) {
	var loc MoLocation
	if reserved := raw[0] &^ 0x03; reserved != 0 {
		return loc, ReservedBitsError{Byte: raw[0]}
	}
	loc.North = raw[0]&0x01 == 0
	loc.East = raw[0]&0x02 == 0

	loc.LatDeg = raw[1]
	if loc.LatDeg > maxLatDeg {
		return MoLocation{}, FieldRangeError{Field: "latitude degrees", Value: uint32(loc.LatDeg), Max: maxLatDeg}
	}
	loc.LatThousandthsMin = binary.BigEndian.Uint16(raw[2:4])
	if loc.LatThousandthsMin > maxThousandthsMin {
		return MoLocation{}, FieldRangeError{Field: "latitude thousandths of a minute", Value: uint32(loc.LatThousandthsMin), Max: maxThousandthsMin}
	}
	loc.LonDeg = raw[4]
	if loc.LonDeg > maxLonDeg {
		return MoLocation{}, FieldRangeError{Field: "longitude degrees", Value: uint32(loc.LonDeg), Max: maxLonDeg}
	}
	loc.LonThousandthsMin = binary.BigEndian.Uint16(raw[5:7])
	if loc.LonThousandthsMin > maxThousandthsMin {
		return MoLocation{}, FieldRangeError{Field: "longitude thousandths of a minute", Value: uint32(loc.LonThousandthsMin), Max: maxThousandthsMin}
	}
	loc.CEPKm = binary.BigEndian.Uint32(raw[7:11])
	return loc, nil
}

// LatitudeDeg returns the latitude in signed decimal degrees, negative south.
func (l MoLocation) LatitudeDeg() float64 {
	dd := float64(l.LatDeg) + float64(l.LatThousandthsMin)/1000.0/60.0
	if !l.North {
		return -dd
	}
	return dd
}

// LongitudeDeg returns the longitude in signed decimal degrees, negative west.
func (l MoLocation) LongitudeDeg() float64 {
	dd := float64(l.LonDeg) + float64(l.LonThousandthsMin)/1000.0/60.0
	if !l.East {
		return -dd
	}
	return dd
}
