package pulses

// EventCode is the event type column of the time tagger dump.
type EventCode string

const (
	TRIGGER_CODE   EventCode = "4"
	CHANNEL_A_CODE EventCode = "1"
	CHANNEL_B_CODE EventCode = "2"
)

type EventRecord struct {
	Type      EventCode
	Timestamp int64
}

type DetectionChannel struct {
	Code  EventCode `json:"code"`
	Label string    `json:"label"`
}

// ChannelSet tells the extractor which code resets the reference time and
// which codes produce delays. Detection order is the output order.
type ChannelSet struct {
	Trigger   EventCode          `json:"trigger"`
	Detection []DetectionChannel `json:"detection"`
}

func DefaultChannelSet() ChannelSet {
	return ChannelSet{
		Trigger: TRIGGER_CODE,
		Detection: []DetectionChannel{
			{Code: CHANNEL_A_CODE, Label: "Z Basis"},
			{Code: CHANNEL_B_CODE, Label: "X Basis"},
		},
	}
}

func (c ChannelSet) Validate() error {
	if c.Trigger == "" {
		return &ErrInvalidConfiguration{Field: "trigger_code", Reason: "empty trigger code"}
	}
	if len(c.Detection) == 0 {
		return &ErrInvalidConfiguration{Field: "channels", Reason: "no detection channels"}
	}
	seen := make(map[EventCode]bool, len(c.Detection))
	for _, ch := range c.Detection {
		if ch.Code == "" {
			return &ErrInvalidConfiguration{Field: "channels", Reason: "empty channel code"}
		}
		if ch.Code == c.Trigger {
			return &ErrInvalidConfiguration{Field: "channels", Reason: "channel " + string(ch.Code) + " is also the trigger code"}
		}
		if seen[ch.Code] {
			return &ErrInvalidConfiguration{Field: "channels", Reason: "duplicated channel " + string(ch.Code)}
		}
		seen[ch.Code] = true
	}
	return nil
}
