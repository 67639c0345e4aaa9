package pulses

import (
	"fmt"
	"time"
)

type DelayAnalysis struct {
	Records    int
	Delays     DelayResult
	Histograms []ChannelHistogram
}

// AnalyzeDelays reads config.FileIn, extracts the delays for channels and
// fills one histogram per channel.
func AnalyzeDelays(config Configuration, channels ChannelSet) (DelayAnalysis, error) {
	if err := channels.Validate(); err != nil {
		return DelayAnalysis{}, err
	}

	records, err := ReadEventFile(config.FileIn, config.HeaderLines)
	if err != nil {
		return DelayAnalysis{}, err
	}

	start := time.Now()
	var result DelayResult
	if config.Parallel {
		result = ExtractDelaysParallel(records, channels, config.UnitDivisor, config.NumWorkers)
	} else {
		result = ExtractDelays(records, channels, config.UnitDivisor)
	}
	if config.Verbosity > 0 {
		message := fmt.Sprintf("Delays extracted from %d records in %d ms", len(records), time.Since(start).Milliseconds())
		logger.Info(message, "analysis")
	}

	histograms, err := HistogramDelays(result, config.NBins, config.RangeMin, config.RangeMax)
	if err != nil {
		return DelayAnalysis{}, err
	}
	return DelayAnalysis{Records: len(records), Delays: result, Histograms: histograms}, nil
}

func LogSummary(analysis DelayAnalysis, logger Logger) {
	logger.Info(fmt.Sprintf("Records processed: %d", analysis.Records), "summary")
	for _, ch := range analysis.Histograms {
		h := ch.Histogram
		message := fmt.Sprintf("%s (code %s): %d delays binned, %d below %g, %d above %g",
			ch.Channel.Label, ch.Channel.Code, h.Entries(), h.Underflow, h.Min, h.Overflow, h.Max)
		logger.Info(message, "summary")
	}
}
