package pulses

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	HEADER_LINES        = 2
	N_BINS              = 200
	RANGE_MIN           = 0.0
	RANGE_MAX           = 20.0
	WAVEFORM_SKIP_ROWS  = 15
	WAVEFORM_TIME_SCALE = 1e6
)

type Configuration struct {
	Verbosity  int  `json:"verbosity"`
	NumWorkers int  `json:"num_workers"`
	Parallel   bool `json:"parallel"`

	FileIn      string             `json:"file_in"`
	FileOut     string             `json:"file_out"`
	HeaderLines int                `json:"header_lines"`
	UnitDivisor float64            `json:"unit_divisor"`
	NBins       int                `json:"n_bins"`
	RangeMin    float64            `json:"range_min"`
	RangeMax    float64            `json:"range_max"`
	TriggerCode EventCode          `json:"trigger_code"`
	Channels    []DetectionChannel `json:"channels"`

	WaveformFileIn    string  `json:"waveform_file_in"`
	WaveformFileOut   string  `json:"waveform_file_out"`
	WaveformSkipRows  int     `json:"waveform_skip_rows"`
	WaveformTimeScale float64 `json:"waveform_time_scale"`
	WaveformTimeMin   float64 `json:"waveform_time_min"`
	WaveformTimeMax   float64 `json:"waveform_time_max"`
	WaveformVoltMin   float64 `json:"waveform_volt_min"`
	WaveformVoltMax   float64 `json:"waveform_volt_max"`

	WriteHDF5           bool   `json:"write_hdf5"`
	FileOutHDF5         string `json:"file_out_hdf5"`
	WaveformFileOutHDF5 string `json:"waveform_file_out_hdf5"`
	CompressionLevel    int    `json:"compression_level"`

	NoDB      bool   `json:"no_db"`
	RunNumber int    `json:"run_number"`
	Host      string `json:"host"`
	User      string `json:"user"`
	Passwd    string `json:"pass"`
	DBName    string `json:"dbname"`
}

var configuration = DefaultConfiguration()

func GetConfiguration() Configuration {
	return configuration
}

func SetConfiguration(config Configuration) {
	configuration = config
}

func DefaultConfiguration() Configuration {
	var config Configuration

	config.Verbosity = 0
	config.NumWorkers = 1
	config.Parallel = false

	config.FileIn = "Data_pulses_delay.txt"
	config.FileOut = "Delay_Distribution.pdf"
	config.HeaderLines = HEADER_LINES
	config.UnitDivisor = UNIT_DIVISOR
	config.NBins = N_BINS
	config.RangeMin = RANGE_MIN
	config.RangeMax = RANGE_MAX
	defaults := DefaultChannelSet()
	config.TriggerCode = defaults.Trigger
	config.Channels = defaults.Detection

	config.WaveformFileIn = "waveform_data.txt"
	config.WaveformFileOut = "Waveform.pdf"
	config.WaveformSkipRows = WAVEFORM_SKIP_ROWS
	config.WaveformTimeScale = WAVEFORM_TIME_SCALE
	config.WaveformTimeMin = -180
	config.WaveformTimeMax = 180
	config.WaveformVoltMin = -17
	config.WaveformVoltMax = 17

	config.WriteHDF5 = false
	config.FileOutHDF5 = "pulses.h5"
	config.WaveformFileOutHDF5 = "waveform.h5"
	config.CompressionLevel = 4

	config.NoDB = true
	config.RunNumber = 0
	config.Host = "localhost"
	config.User = "pulsesreader"
	config.Passwd = "readonly"
	config.DBName = "PULSES"
	return config
}

// LoadConfiguration returns the defaults overridden by the JSON file. An
// empty filename means defaults only.
func LoadConfiguration(filename string) (Configuration, error) {
	config := DefaultConfiguration()
	if filename == "" {
		return config, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, fmt.Errorf("error parsing %s: %w", filename, err)
	}
	return config, nil
}

func (c Configuration) ChannelSet() ChannelSet {
	return ChannelSet{Trigger: c.TriggerCode, Detection: c.Channels}
}

func (c Configuration) Validate() error {
	switch {
	case c.UnitDivisor <= 0:
		return &ErrInvalidConfiguration{Field: "unit_divisor", Reason: "must be positive"}
	case c.NBins <= 0:
		return &ErrInvalidConfiguration{Field: "n_bins", Reason: "must be positive"}
	case c.RangeMax <= c.RangeMin:
		return &ErrInvalidConfiguration{Field: "range_max", Reason: "must be greater than range_min"}
	case c.HeaderLines < 0:
		return &ErrInvalidConfiguration{Field: "header_lines", Reason: "must not be negative"}
	case c.WaveformSkipRows < 0:
		return &ErrInvalidConfiguration{Field: "waveform_skip_rows", Reason: "must not be negative"}
	case c.NumWorkers < 1:
		return &ErrInvalidConfiguration{Field: "num_workers", Reason: "at least one worker is needed"}
	case c.WriteHDF5 && c.FileOutHDF5 == c.WaveformFileOutHDF5:
		return &ErrInvalidConfiguration{Field: "waveform_file_out_hdf5", Reason: "must differ from file_out_hdf5, both files are truncated on write"}
	}
	return c.ChannelSet().Validate()
}

func PrintConfiguration(config Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Header lines: %d", config.HeaderLines), "config")
	logger.Info(fmt.Sprintf("Unit divisor: %g", config.UnitDivisor), "config")
	logger.Info(fmt.Sprintf("Bins: %d in [%g, %g]", config.NBins, config.RangeMin, config.RangeMax), "config")
	logger.Info(fmt.Sprintf("Trigger code: %s", config.TriggerCode), "config")
	for _, ch := range config.Channels {
		logger.Info(fmt.Sprintf("Channel %s: %s", ch.Code, ch.Label), "config")
	}
	logger.Info(fmt.Sprintf("Waveform file in: %s", config.WaveformFileIn), "config")
	logger.Info(fmt.Sprintf("Waveform file out: %s", config.WaveformFileOut), "config")
	logger.Info(fmt.Sprintf("Waveform skip rows: %d", config.WaveformSkipRows), "config")
	logger.Info(fmt.Sprintf("Write HDF5: %t", config.WriteHDF5), "config")
	logger.Info(fmt.Sprintf("File out HDF5: %s", config.FileOutHDF5), "config")
	logger.Info(fmt.Sprintf("Waveform file out HDF5: %s", config.WaveformFileOutHDF5), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("Run number: %d", config.RunNumber), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
	logger.Info(fmt.Sprintf("Parallel: %t", config.Parallel), "config")
}
