// Command declared checks parameter declaration files and exports their
// OpenAPI parameter objects.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	declared "github.com/parametry/declared"
	"github.com/parametry/declared/decl"
	"github.com/parametry/declared/diag"
	"github.com/parametry/declared/openapi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "check":
		os.Exit(checkCmd(os.Args[2:]))
	case "export":
		os.Exit(exportCmd(os.Args[2:]))
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "declared CLI\n\nUsage:\n  declared check -f params.yaml [-watch]\n  declared export -f params.yaml [-o out.json]")
}

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func checkCmd(args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var file string
	var watch bool
	fs.StringVar(&file, "f", "", "declaration file to check")
	fs.BoolVar(&watch, "watch", false, "keep watching the file and re-check on change")
	_ = fs.Parse(args)
	if file == "" {
		fs.Usage()
		return 2
	}
	logger := newLogger()

	if watch {
		h, err := decl.NewHolder(file, logger)
		if err != nil {
			logger.Error().Err(err).Msg("declaration failed to load")
			return 1
		}
		defer h.Stop()
		h.OnChange(func(set *declared.ParamSet) {
			logger.Info().Int("params", set.Len()).Msg("declaration ok")
		})
		if err := h.WatchFile(); err != nil {
			logger.Error().Err(err).Msg("watch failed")
			return 1
		}
		logger.Info().Int("params", h.Get().Len()).Str("file", file).Msg("declaration ok")
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		return 0
	}

	set, err := decl.LoadFile(file, declared.CompileOpt{Sink: diag.Logger(logger)})
	if err != nil {
		if iss, ok := declared.AsIssues(err); ok {
			logger.Warn().Int("issues", len(iss)).Int("params", set.Len()).
				Msg("declaration compiled with issues")
			return 1
		}
		logger.Error().Err(err).Msg("declaration failed to load")
		return 1
	}
	logger.Info().Int("params", set.Len()).Str("file", file).Msg("declaration ok")
	return 0
}

func exportCmd(args []string) int {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	var file string
	var out string
	fs.StringVar(&file, "f", "", "declaration file to export")
	fs.StringVar(&out, "o", "", "output filename (default stdout)")
	_ = fs.Parse(args)
	if file == "" {
		fs.Usage()
		return 2
	}
	logger := newLogger()

	set, err := decl.LoadFile(file)
	if err != nil {
		if _, ok := declared.AsIssues(err); !ok {
			logger.Error().Err(err).Msg("declaration failed to load")
			return 1
		}
		logger.Warn().Msg("declaration compiled with issues, exporting survivors")
	}

	params := openapi.Parameters(set)
	data, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		logger.Error().Err(err).Msg("encode failed")
		return 1
	}
	data = append(data, '\n')
	if out == "" {
		_, _ = os.Stdout.Write(data)
		return 0
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		logger.Error().Err(err).Msg("write failed")
		return 1
	}
	logger.Info().Str("path", out).Int("params", len(params)).Msg("exported")
	return 0
}
