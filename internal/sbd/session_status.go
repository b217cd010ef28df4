package sbd

import "fmt"

// SessionStatus is the outcome of a mobile-originated SBD session, as reported
// by the Iridium gateway in the MO header. The known codes form a closed set;
// codes outside it are preserved verbatim so a decoded message re-encodes to
// the same bytes, but SessionStatusFromCode rejects them when a status is
// constructed rather than read off the wire.
type SessionStatus uint8

const (
	// SessionStatusOk indicates the session completed successfully.
	SessionStatusOk SessionStatus = 0
	// SessionStatusOkMobileTerminatedTooLarge indicates a successful MO
	// transfer with a queued MT message too large for a single session.
	SessionStatusOkMobileTerminatedTooLarge SessionStatus = 1
	// SessionStatusOkLocationUnacceptableQuality indicates a successful MO
	// transfer with a location of unacceptable quality.
	SessionStatusOkLocationUnacceptableQuality SessionStatus = 2
	// SessionStatusTimeout indicates the session timed out before completion.
	SessionStatusTimeout SessionStatus = 10
	// SessionStatusMobileOriginatedTooLarge indicates the MO message was too
	// large to transfer in a single session.
	SessionStatusMobileOriginatedTooLarge SessionStatus = 12
	// SessionStatusRFLinkLoss indicates an RF link loss during the session.
	SessionStatusRFLinkLoss SessionStatus = 13
	// SessionStatusIMEIProtocolAnomaly indicates an IMEI protocol anomaly.
	SessionStatusIMEIProtocolAnomaly SessionStatus = 14
	// SessionStatusProhibited indicates the IMEI is prohibited from accessing
	// the gateway.
	SessionStatusProhibited SessionStatus = 15
)

var sessionStatusNames = map[SessionStatus]string{
	SessionStatusOk:                            "Ok",
	SessionStatusOkMobileTerminatedTooLarge:    "OkMobileTerminatedTooLarge",
	SessionStatusOkLocationUnacceptableQuality: "OkLocationUnacceptableQuality",
	SessionStatusTimeout:                       "Timeout",
	SessionStatusMobileOriginatedTooLarge:      "MobileOriginatedTooLarge",
	SessionStatusRFLinkLoss:                    "RFLinkLoss",
	SessionStatusIMEIProtocolAnomaly:           "IMEIProtocolAnomaly",
	SessionStatusProhibited:                    "Prohibited",
}

// SessionStatusFromCode maps a status byte to a SessionStatus, rejecting codes
// outside the documented set. Use this when building messages to send; decoding
// keeps unknown codes and flags them through Known instead, since messages may
// originate from hardware revisions this codec has never heard of.
func SessionStatusFromCode(code uint8) (SessionStatus, error) {
	status := SessionStatus(code)
	if !status.Known() {
		return 0, UnknownSessionStatusError{Code: code}
	}
	return status, nil
}

// Known reports whether the status code belongs to the documented set.
func (s SessionStatus) Known() bool {
	_, ok := sessionStatusNames[s]
	return ok
}

func (s SessionStatus) String() string {
	if name, ok := sessionStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint8(s))
}
