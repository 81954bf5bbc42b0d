package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"pixel-steganography/carrier"
	"pixel-steganography/compression"
	"pixel-steganography/config"
	"pixel-steganography/handlers"
	"pixel-steganography/imaging"
	"pixel-steganography/models"
	"pixel-steganography/observability"
	"pixel-steganography/stego"
)

type logFlags struct {
	verbose bool
	quiet   bool
}

func (l *logFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&l.verbose, "v", false, "log frame field boundaries")
	fs.BoolVar(&l.quiet, "q", false, "disable logging")
}

func (l *logFlags) logger(stderr io.Writer) zerolog.Logger {
	level := observability.LevelFromEnv(zerolog.InfoLevel)
	switch {
	case l.quiet:
		level = zerolog.Disabled
	case l.verbose:
		level = zerolog.DebugLevel
	}
	return observability.InitLoggerTo(stderr, "pixsteg", level, observability.FormatConsole)
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func runEncode(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("enc", stderr)
	format := fs.String("format", imaging.FormatPNG, "output image format: png, bmp, tiff or qoi")
	useZstd := fs.Bool("zstd", false, "zstd-compress the file before hiding it")
	var lf logFlags
	lf.register(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := expectArgs("enc", fs.Args(), 3, 3); err != nil {
		return err
	}
	filePath, imagePath, outputDir := fs.Arg(0), fs.Arg(1), fs.Arg(2)
	logger := lf.logger(stderr)

	fileData, err := readFile(filePath)
	if err != nil {
		return err
	}
	imageData, err := readFile(imagePath)
	if err != nil {
		return err
	}
	if err := checkDir(outputDir); err != nil {
		return err
	}

	cover, err := carrier.Load(imagePath, imageData)
	if err != nil {
		return err
	}
	outFormat, err := cover.OutputFormat(*format)
	if err != nil {
		return err
	}

	payload := models.Payload{FileName: filepath.Base(filePath), Data: fileData}
	if *useZstd {
		if payload, err = compression.Compress(payload); err != nil {
			return err
		}
		logger.Debug().Int("original", len(fileData)).Int("compressed", len(payload.Data)).Msg("payload compressed")
	}

	if err := stego.NewCodec(logger).Encode(cover.Surface, payload); err != nil {
		return err
	}
	out, err := cover.Encode(outFormat)
	if err != nil {
		return err
	}

	outPath := filepath.Join(outputDir, "encoded."+outFormat)
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("%w: %v", errIO, err)
	}

	event := logger.Info().
		Str("file", payload.FileName).
		Int("bytes", len(payload.Data)).
		Str("carrier", cover.Metadata.Format).
		Int("capacity", cover.Capacity(payload.FileName)).
		Str("output", outPath)
	if original, err := carrier.Load(imagePath, imageData); err == nil {
		event = event.Float64("psnr", imaging.CalculatePSNR(original.Surface, cover.Surface))
	}
	event.Msg("file embedded")

	fmt.Fprintln(stdout, outPath)
	return nil
}

func runDecode(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("dec", stderr)
	unzstd := fs.Bool("unzstd", false, "decompress a file hidden with enc -zstd")
	var lf logFlags
	lf.register(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := expectArgs("dec", fs.Args(), 2, 2); err != nil {
		return err
	}
	imagePath, outputDir := fs.Arg(0), fs.Arg(1)
	logger := lf.logger(stderr)

	imageData, err := readFile(imagePath)
	if err != nil {
		return err
	}
	if err := checkDir(outputDir); err != nil {
		return err
	}

	cover, err := carrier.Load(imagePath, imageData)
	if err != nil {
		return err
	}
	payload, err := stego.NewCodec(logger).Decode(cover.Surface)
	if err != nil {
		return err
	}
	if *unzstd {
		if payload, err = compression.Decompress(payload); err != nil {
			return err
		}
	}

	name, ok := payload.SafeFileName()
	if !ok {
		return fmt.Errorf("embedded file name %q is not usable: %w", payload.FileName, stego.ErrMalformedFrame)
	}
	outPath := filepath.Join(outputDir, name)
	if err := os.WriteFile(outPath, payload.Data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", errIO, err)
	}

	logger.Info().Str("file", name).Int("bytes", len(payload.Data)).Str("output", outPath).Msg("file extracted")
	fmt.Fprintln(stdout, outPath)
	return nil
}

func runCapacity(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("cap", stderr)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := expectArgs("cap", fs.Args(), 1, 2); err != nil {
		return err
	}
	imagePath := fs.Arg(0)

	imageData, err := readFile(imagePath)
	if err != nil {
		return err
	}
	cover, err := carrier.Load(imagePath, imageData)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s %dx%d: %d bytes\n",
		cover.Metadata.Format, cover.Metadata.Width, cover.Metadata.Height, cover.Capacity(fs.Arg(1)))
	return nil
}

func runServe(args []string, stderr io.Writer) error {
	fs := newFlagSet("serve", stderr)
	configPath := fs.String("config", "", "TOML configuration file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := expectArgs("serve", fs.Args(), 0, 0); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %v", errIO, err)
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	level, _ := observability.ParseLevel(cfg.Log.Level)
	logger := observability.InitLoggerTo(stderr, "pixsteg-server", level, cfg.Log.Format)

	router := handlers.NewRouter(cfg, logger)

	logger.Info().Str("addr", cfg.Server.Addr).Msg("server starting")
	logger.Info().Msg("POST /api/v1/stego/insert   - hide secret_file in cover_file (returns stego carrier)")
	logger.Info().Msg("POST /api/v1/stego/extract  - recover the file hidden in stego_file")
	logger.Info().Msg("POST /api/v1/stego/capacity - bytes cover_file can hold")
	logger.Info().Msg("GET  /api/v1/health         - health check")
	logger.Info().Msg("GET  /metrics               - Prometheus metrics")

	if err := router.Run(cfg.Server.Addr); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errIO, err)
	}
	return data, nil
}

func checkDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", errIO, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", errIO, path)
	}
	return nil
}
