// Command personapi serves the person API.
//
// Run:
//
//	go run ./cmd/personapi
//
// Generate the OpenAPI spec:
//
//	go run ./cmd/personapi -spec                     # print JSON to stdout
//	go run ./cmd/personapi -spec -yaml -o api.yaml   # write YAML to a file
//
// Configuration comes from PERSONAPI_* environment variables (and .env).
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/bjaus/personapi/api"
	"github.com/bjaus/personapi/internal/config"
	"github.com/bjaus/personapi/internal/logger"
	"github.com/bjaus/personapi/internal/server"
)

func main() {
	specFlag := flag.Bool("spec", false, "Print the OpenAPI spec and exit")
	outFlag := flag.String("o", "", "Output file for the spec (requires -spec)")
	yamlFlag := flag.Bool("yaml", false, "Write the spec as YAML instead of JSON")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
		l.Fatal().Err(err).Msg("could not load config")
	}

	log := logger.New(cfg, os.Stderr)

	if *specFlag {
		r := server.NewRouter(cfg, log)
		if err := writeSpec(r, *outFlag, *yamlFlag, log); err != nil {
			log.Fatal().Err(err).Msg("spec generation failed")
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func writeSpec(r *api.Router, outFile string, asYAML bool, log zerolog.Logger) error {
	var w io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile) //nolint:gosec // user-provided CLI flag
		if err != nil {
			return err
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close output file")
			}
		}()
		w = f
	}
	if asYAML {
		return r.WriteSpecYAML(w)
	}
	return r.WriteSpec(w)
}
