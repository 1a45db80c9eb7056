package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"Lasernet/cmd/lasernet/config"
	"Lasernet/internel/logging"
	"Lasernet/internel/utils"
	"Lasernet/pkg/async"
	"Lasernet/pkg/device"
	"Lasernet/pkg/layers"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
)

var (
	validColor = color.New(color.Bold, color.FgGreen)
	errorColor = color.New(color.Bold, color.FgRed)
	statsColor = color.New(color.FgCyan)
)

func printReport(r layers.Report) {
	if r.Err == nil && r.Result.Valid {
		validColor.Print(r.String())
	} else {
		errorColor.Print(r.String())
	}
	statsColor.Print(r.Stats())
	fmt.Println()
}

func main() {
	config_path_var := flag.String("c", "", "Set the config file (.yaml or .toml)")
	message_var := flag.String("m", "", "Set the message, overriding the config")
	driver_var := flag.String("d", "", "Set the line driver: sim, loopback, gpio or asio")
	dump_var := flag.Bool("dump", false, "Print the code table before sending")
	stream_path_var := flag.String("stream", "", "Write the encoded stream to this file")
	flag.Parse()

	logging.ConfigureRuntime()

	var cfg *config.Config
	if *config_path_var != "" {
		var err error
		if cfg, err = config.LoadConfig(*config_path_var); err != nil {
			log.Fatal().Err(err).Str("path", *config_path_var).Msg("failed to load config")
		}
	} else {
		cfg = config.Default()
	}
	if *message_var != "" {
		cfg.Message = *message_var
	}
	if *driver_var != "" {
		cfg.Line.Driver = *driver_var
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	message, err := cfg.LoadMessage()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load message")
	}

	line, err := config.CreateLine(cfg)
	if err != nil {
		if errors.Is(err, device.ErrLineUnavailable) {
			log.Fatal().Err(err).Str("driver", cfg.Line.Driver).Msg("cannot acquire the line")
		}
		log.Fatal().Err(err).Msg("failed to open the line")
	}

	link, closeCapture, err := config.CreateLink(cfg, message, line)
	if err != nil {
		line.Close()
		log.Fatal().Err(err).Msg("failed to set up the link")
	}
	defer closeCapture()

	if *dump_var {
		link.Tree.Dump(os.Stdout)
	}
	if *stream_path_var != "" {
		if err := utils.WriteBits(*stream_path_var, link.Transmitter.Bits); err != nil {
			log.Error().Err(err).Msg("failed to write the stream")
		}
	}

	done := link.Start()

	go func() {
		for report := range link.Reports {
			printReport(report)
		}
	}()

	log.Info().Str("driver", cfg.Line.Driver).Msg("running, press Ctrl+C or Enter to stop")
	select {
	case <-async.First(async.Exit(), async.EnterKey()):
		link.Stop()
		line.Close()
		err = <-done
	case err = <-done:
		line.Close()
	}
	if err != nil {
		log.Error().Err(err).Msg("link stopped")
	}
}
