package pulses

import (
	"golang.org/x/exp/constraints"
)

// Timestamps are in ns, delays are reported in us.
const UNIT_DIVISOR float64 = 1_000_000

// RawDelays holds unscaled delays (timestamp units) per detection code.
type RawDelays map[EventCode][]int64

type ChannelDelays struct {
	Channel DetectionChannel
	Delays  []float64
}

// DelayResult keeps the channels in the order of the ChannelSet used to
// build it.
type DelayResult struct {
	Channels []ChannelDelays
}

func (r DelayResult) ForCode(code EventCode) []float64 {
	for _, ch := range r.Channels {
		if ch.Channel.Code == code {
			return ch.Delays
		}
	}
	return nil
}

func (r DelayResult) ForLabel(label string) []float64 {
	for _, ch := range r.Channels {
		if ch.Channel.Label == label {
			return ch.Delays
		}
	}
	return nil
}

// ExtractRawDelays measures every detection against the last trigger seen in
// stream order. Detections before the first trigger are measured against 0.
// Records with codes outside the channel set are ignored.
func ExtractRawDelays(records []EventRecord, channels ChannelSet) RawDelays {
	raw := newRawDelays(channels)
	scanDelays(records, channels.Trigger, 0, raw)
	return raw
}

func scanDelays(records []EventRecord, trigger EventCode, triggerTime int64, raw RawDelays) {
	for _, record := range records {
		if record.Type == trigger {
			triggerTime = record.Timestamp
			continue
		}
		if delays, ok := raw[record.Type]; ok {
			raw[record.Type] = append(delays, record.Timestamp-triggerTime)
		}
	}
}

func newRawDelays(channels ChannelSet) RawDelays {
	raw := make(RawDelays, len(channels.Detection))
	for _, ch := range channels.Detection {
		raw[ch.Code] = make([]int64, 0)
	}
	return raw
}

func ScaleDelays(raw RawDelays, channels ChannelSet, divisor float64) DelayResult {
	result := DelayResult{Channels: make([]ChannelDelays, 0, len(channels.Detection))}
	for _, ch := range channels.Detection {
		result.Channels = append(result.Channels, ChannelDelays{
			Channel: ch,
			Delays:  scaleValues(raw[ch.Code], divisor),
		})
	}
	return result
}

func ExtractDelays(records []EventRecord, channels ChannelSet, divisor float64) DelayResult {
	return ScaleDelays(ExtractRawDelays(records, channels), channels, divisor)
}

type number interface {
	constraints.Integer | constraints.Float
}

func scaleValues[T number](values []T, divisor float64) []float64 {
	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = float64(v) / divisor
	}
	return scaled
}

func sumValues[T number](values []T) T {
	var total T
	for _, v := range values {
		total += v
	}
	return total
}
