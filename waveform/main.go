package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	pulses "github.com/next-exp/pulses_go/pkg"
	"github.com/next-exp/pulses_go/pkg/plots"
	"github.com/next-exp/pulses_go/pkg/storage"
)

var configuration pulses.Configuration

var logger pulses.StdLogger

func init() {
	logger = pulses.NewStdLogger(os.Stdout, os.Stderr)
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	fileIn := flag.String("in", "", "Waveform file, overrides the configuration")
	fileOut := flag.String("out", "", "Output plot, overrides the configuration")
	flag.Parse()

	var err error
	configuration, err = pulses.LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		os.Exit(1)
	}
	if *fileIn != "" {
		configuration.WaveformFileIn = *fileIn
	}
	if *fileOut != "" {
		configuration.WaveformFileOut = *fileOut
	}
	if err := configuration.Validate(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	pulses.SetConfiguration(configuration)
	pulses.SetLogger(logger)
	if configuration.Verbosity > 0 {
		pulses.PrintConfiguration(configuration, logger)
	}

	waveform, err := pulses.ReadWaveformFile(configuration.WaveformFileIn, configuration.WaveformSkipRows, configuration.WaveformTimeScale)
	if err != nil {
		var missing *pulses.ErrMissingInput
		if errors.As(err, &missing) {
			logger.Error(fmt.Sprintf("Error: Input file %s does not exist.", missing.Filename))
			return
		}
		message := fmt.Errorf("Error reading waveform: %w", err)
		logger.Error(message.Error())
		os.Exit(1)
	}

	ranges := plots.WaveformRange{
		TimeMin: configuration.WaveformTimeMin,
		TimeMax: configuration.WaveformTimeMax,
		VoltMin: configuration.WaveformVoltMin,
		VoltMax: configuration.WaveformVoltMax,
	}
	if err := plots.RenderWaveform(waveform, ranges, configuration.WaveformFileOut); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	logger.Info(fmt.Sprintf("Waveform saved to %s", configuration.WaveformFileOut), "main")

	if configuration.WriteHDF5 {
		writer, err := storage.NewWriter(configuration.WaveformFileOutHDF5, configuration.CompressionLevel)
		if err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
		err = writer.WriteWaveform(waveform)
		if closeErr := writer.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			message := fmt.Errorf("Error writing HDF5 file: %w", err)
			logger.Error(message.Error())
			os.Exit(1)
		}
		logger.Info(fmt.Sprintf("Waveform samples saved to %s", configuration.WaveformFileOutHDF5), "main")
	}
}
