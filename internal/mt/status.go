package mt

import "fmt"

// MessageStatus is the gateway's verdict in an MT confirmation. Zero through
// 50 means the payload was accepted at that position in the device's MT
// queue; the negative values form a closed set of failure reasons.
type MessageStatus int16

const (
	// MessageStatusInvalidIMEI rejects a malformed IMEI field.
	MessageStatusInvalidIMEI MessageStatus = -1
	// MessageStatusUnknownIMEI rejects an IMEI not known to the gateway.
	MessageStatusUnknownIMEI MessageStatus = -2
	// MessageStatusPayloadOversized rejects a payload above the MT maximum.
	MessageStatusPayloadOversized MessageStatus = -3
	// MessageStatusPayloadMissing rejects a message without a payload.
	MessageStatusPayloadMissing MessageStatus = -4
	// MessageStatusMTQueueFull rejects a payload for a full MT queue.
	MessageStatusMTQueueFull MessageStatus = -5
	// MessageStatusMTResourcesUnavailable reports exhausted gateway resources.
	MessageStatusMTResourcesUnavailable MessageStatus = -6
	// MessageStatusProtocolViolation reports a violation of the DirectIP protocol.
	MessageStatusProtocolViolation MessageStatus = -7
	// MessageStatusRingAlertsDisabled rejects a ring alert for a device with
	// ring alerts disabled.
	MessageStatusRingAlertsDisabled MessageStatus = -8
	// MessageStatusSSDNotAttached rejects a message for a device that is not
	// attached to the network.
	MessageStatusSSDNotAttached MessageStatus = -9
	// MessageStatusSourceAddressRejected rejects the sender's IP address.
	MessageStatusSourceAddressRejected MessageStatus = -10
	// MessageStatusMTMSNOutOfRange rejects an assigned MTMSN outside 1-65535.
	MessageStatusMTMSNOutOfRange MessageStatus = -11
	// MessageStatusCertificateRejected rejects the client certificate.
	MessageStatusCertificateRejected MessageStatus = -12
)

const maxQueuePosition = 50

var messageStatusNames = map[MessageStatus]string{
	MessageStatusInvalidIMEI:            "InvalidIMEI",
	MessageStatusUnknownIMEI:            "UnknownIMEI",
	MessageStatusPayloadOversized:       "PayloadOversized",
	MessageStatusPayloadMissing:         "PayloadMissing",
	MessageStatusMTQueueFull:            "MTQueueFull",
	MessageStatusMTResourcesUnavailable: "MTResourcesUnavailable",
	MessageStatusProtocolViolation:      "ProtocolViolation",
	MessageStatusRingAlertsDisabled:     "RingAlertsDisabled",
	MessageStatusSSDNotAttached:         "SSDNotAttached",
	MessageStatusSourceAddressRejected:  "SourceAddressRejected",
	MessageStatusMTMSNOutOfRange:        "MTMSNOutOfRange",
	MessageStatusCertificateRejected:    "CertificateRejected",
}

// InvalidMessageStatusError reports a confirmation status outside the valid set.
type InvalidMessageStatusError struct {
	Status int16
}

func (e InvalidMessageStatusError) Error() string {
	return fmt.Sprintf("invalid message status: %d", e.Status)
}

// Success reports whether the status is a queue position rather than a failure.
func (s MessageStatus) Success() bool {
	return s >= 0 && s <= maxQueuePosition
}

// Validate rejects statuses that are neither a queue position nor a named
// failure reason.
func (s MessageStatus) Validate() error {
	if s.Success() {
		return nil
	}
	if _, ok := messageStatusNames[s]; ok {
		return nil
	}
	return InvalidMessageStatusError{Status: int16(s)}
}

func (s MessageStatus) String() string {
	if s.Success() {
		return fmt.Sprintf("QueuePosition(%d)", int16(s))
	}
	if name, ok := messageStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Invalid(%d)", int16(s))
}
