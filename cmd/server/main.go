package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/maptools/geoport/internal/config"
	"github.com/maptools/geoport/internal/logger"
	"github.com/maptools/geoport/internal/server"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE"    description:"Path to configuration file"`
	Addr       string `short:"a" long:"addr"   env:"LISTEN_ADDRESS" description:"Address to listen on (overrides config)"`
	Port       int    `short:"p" long:"port"   env:"LISTEN_PORT"    description:"Port to listen on (overrides config)"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg := config.Default()
	if opts.ConfigFile != "" {
		loaded, err := config.Load(opts.ConfigFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		cfg = loaded
	}

	if opts.Addr != "" {
		cfg.Listen = opts.Addr
	}
	if opts.Port > 0 {
		cfg.Port = opts.Port
	}

	srvCtx := server.NewServerContext(cfg)

	// Routes
	mux := http.NewServeMux()
	mux.HandleFunc("/api/import", srvCtx.HandleImport)
	mux.HandleFunc("/api/convert", srvCtx.HandleConvert)
	mux.HandleFunc("/api/formats", srvCtx.HandleFormats)

	handler := server.RequestLogger(mux)

	listenAddr := fmt.Sprintf("%s:%d", cfg.Listen, cfg.Port)
	log.Info().
		Str("addr", listenAddr).
		Int64("max_body_bytes", cfg.MaxBodyBytes).
		Msg("Conversion server started")

	if err := http.ListenAndServe(listenAddr, handler); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
