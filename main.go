package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"pixel-steganography/carrier"
	"pixel-steganography/compression"
	"pixel-steganography/imaging"
	"pixel-steganography/stego"
)

const (
	exitOK = iota
	exitInternal
	exitUsage
	exitIO
	exitCapacity
	exitMalformed
	exitRange
)

var (
	errUsage = errors.New("usage")
	errIO    = errors.New("i/o error")
)

const usageText = `Usage:
  pixsteg enc [-format png|bmp|tiff|qoi] [-zstd] [-v|-q] <filePath> <imagePath> <outputDirectory>
  pixsteg dec [-unzstd] [-v|-q] <imagePath> <outputDirectory>
  pixsteg cap <imagePath> [fileName]
  pixsteg serve [-config pixsteg.toml]

enc hides a file in the low bits of an image, a PCM .wav or an .mp3 and
writes encoded.<format> to the output directory (audio is always written as
encoded.wav). dec recovers the hidden file into the output directory under
its embedded name.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, "No command specified.\n\n", usageText)
		return exitUsage
	}

	var err error
	switch args[0] {
	case "enc":
		err = runEncode(args[1:], stdout, stderr)
	case "dec":
		err = runDecode(args[1:], stdout, stderr)
	case "cap":
		err = runCapacity(args[1:], stdout, stderr)
	case "serve":
		err = runServe(args[1:], stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usageText)
		return exitOK
	default:
		err = fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
	if err == nil {
		return exitOK
	}

	code := exitCode(err)
	fmt.Fprintf(stderr, "Error: %v\n", err)
	if code == exitUsage {
		fmt.Fprint(stderr, "\n", usageText)
	}
	return code
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, errUsage):
		return exitUsage
	case errors.Is(err, errIO),
		errors.Is(err, carrier.ErrUnsupportedCarrier),
		errors.Is(err, imaging.ErrUnsupportedFormat):
		return exitIO
	case errors.Is(err, stego.ErrCapacityExceeded):
		return exitCapacity
	case errors.Is(err, stego.ErrMalformedFrame), errors.Is(err, compression.ErrCorrupt):
		return exitMalformed
	case errors.Is(err, stego.ErrRange):
		return exitRange
	default:
		return exitInternal
	}
}

// expectArgs fails with errUsage unless between least and most positional
// arguments are given.
func expectArgs(command string, args []string, least, most int) error {
	if len(args) < least || len(args) > most {
		expected := fmt.Sprint(least)
		if most > least {
			expected = fmt.Sprintf("%d to %d", least, most)
		}
		return fmt.Errorf("%w: %s expects %s arguments, received %d", errUsage, command, expected, len(args))
	}
	return nil
}
