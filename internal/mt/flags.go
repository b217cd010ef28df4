package mt

// Disposition flag bit positions. Bit 2 was never assigned; it and every bit
// above 5 are ignored on decode and always zero on encode.
const (
	flagFlushQueue     = 1 << 0
	flagSendRingAlert  = 1 << 1
	flagUpdateLocation = 1 << 3
	flagHighPriority   = 1 << 4
	flagAssignMTMSN    = 1 << 5
)

// DispositionFlags are the client-controlled actions carried in the MT header.
type DispositionFlags struct {
	// FlushQueue deletes all MT payloads queued for the device.
	FlushQueue bool
	// SendRingAlert sends a ring alert with no associated payload.
	SendRingAlert bool
	// UpdateLocation updates the device location from the message.
	UpdateLocation bool
	// HighPriority places the payload at the front of the queue.
	HighPriority bool
	// AssignMTMSN uses the client message id as the MTMSN.
	AssignMTMSN bool
}

// DecodeDispositionFlags unpacks the five flag bits from a 16-bit field.
func DecodeDispositionFlags(code uint16) DispositionFlags {
	return DispositionFlags{
		FlushQueue:     code&flagFlushQueue != 0,
		SendRingAlert:  code&flagSendRingAlert != 0,
		UpdateLocation: code&flagUpdateLocation != 0,
		HighPriority:   code&flagHighPriority != 0,
		AssignMTMSN:    code&flagAssignMTMSN != 0,
	}
}

// Encode packs the five flags into a 16-bit field with all other bits zero,
// so DecodeDispositionFlags(f.Encode()) always returns f.
func (f DispositionFlags) Encode() uint16 {
	var code uint16
	if f.FlushQueue {
		code |= flagFlushQueue
	}
	if f.SendRingAlert {
		code |= flagSendRingAlert
	}
	if f.UpdateLocation {
		code |= flagUpdateLocation
	}
	if f.HighPriority {
		code |= flagHighPriority
	}
	if f.AssignMTMSN {
		code |= flagAssignMTMSN
	}
	return code
}
