package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	pulses "github.com/next-exp/pulses_go/pkg"
	"github.com/next-exp/pulses_go/pkg/plots"
	"github.com/next-exp/pulses_go/pkg/storage"
)

var configuration pulses.Configuration

var (
	logger         pulses.StdLogger
	VerbosityLevel int
)

func init() {
	logger = pulses.NewStdLogger(os.Stdout, os.Stderr)
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	fileIn := flag.String("in", "", "Input file, overrides the configuration")
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
		configuration.FileIn = *fileIn
	}
	if *fileOut != "" {
		configuration.FileOut = *fileOut
	}
	if err := configuration.Validate(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	pulses.SetConfiguration(configuration)
	pulses.SetLogger(logger)

	VerbosityLevel = configuration.Verbosity
	if VerbosityLevel > 0 {
		pulses.PrintConfiguration(configuration, logger)
	}

	channels, err := loadChannels()
	if err != nil {
		message := fmt.Errorf("Error reading channels from database: %w", err)
		logger.Error(message.Error())
		os.Exit(1)
	}

	start := time.Now()
	analysis, err := pulses.AnalyzeDelays(configuration, channels)
	if err != nil {
		var missing *pulses.ErrMissingInput
		if errors.As(err, &missing) {
			logger.Error(fmt.Sprintf("Error: Input file %s does not exist.", missing.Filename))
			return
		}
		message := fmt.Errorf("Error analysing delays: %w", err)
		logger.Error(message.Error())
		os.Exit(1)
	}
	pulses.LogSummary(analysis, logger)

	if err := plots.RenderDelayHistogram(analysis.Histograms, configuration.FileOut); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	logger.Info(fmt.Sprintf("Histogram saved to %s", configuration.FileOut), "main")

	if configuration.WriteHDF5 {
		if err := writeHDF5(analysis); err != nil {
			message := fmt.Errorf("Error writing HDF5 file: %w", err)
			logger.Error(message.Error())
			os.Exit(1)
		}
		logger.Info(fmt.Sprintf("Delays saved to %s", configuration.FileOutHDF5), "main")
	}

	if VerbosityLevel > 0 {
		logger.Info(fmt.Sprintf("Total time: %d ms", time.Since(start).Milliseconds()), "main")
	}
}

func loadChannels() (pulses.ChannelSet, error) {
	if configuration.NoDB {
		return configuration.ChannelSet(), nil
	}
	dbConn, err := pulses.ConnectToDatabase(configuration.User, configuration.Passwd, configuration.Host, configuration.DBName)
	if err != nil {
		return pulses.ChannelSet{}, fmt.Errorf("error connecting to database: %w", err)
	}
	defer dbConn.Close()
	return pulses.GetChannelsFromDB(dbConn, configuration.RunNumber)
}

func writeHDF5(analysis pulses.DelayAnalysis) (err error) {
	writer, err := storage.NewWriter(configuration.FileOutHDF5, configuration.CompressionLevel)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := writer.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := writer.WriteRunInfo(configuration.RunNumber, analysis.Records); err != nil {
		return err
	}
	if err := writer.WriteDelays(analysis.Delays); err != nil {
		return err
	}
	return writer.WriteHistograms(analysis.Histograms)
}
