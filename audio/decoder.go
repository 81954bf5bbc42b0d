// Package audio exposes PCM WAV files as stego carriers
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tosone/minimp3"

	"pixel-steganography/models"
)

const (
	// SamplesPerPixel is how many PCM samples stand in for one pixel: their
	// low bytes play the red, green and blue channels.
	SamplesPerPixel = 3

	pcmFormat = 1
)

var (
	ErrNotPCM  = errors.New("not a PCM WAV file")
	ErrNoAudio = errors.New("no decodable audio frames")
)

type AudioDecoder struct{}

func NewAudioDecoder() *AudioDecoder {
	return &AudioDecoder{}
}

// DecodeWAV reads every sample of a PCM WAV file.
func (ad *AudioDecoder) DecodeWAV(wavData []byte) (*PCMSurface, error) {
	decoder := wav.NewDecoder(bytes.NewReader(wavData))
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("failed to decode WAV: %w", ErrNotPCM)
	}
	if decoder.WavAudioFormat != pcmFormat {
		return nil, fmt.Errorf("WAV audio format %d: %w", decoder.WavAudioFormat, ErrNotPCM)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode WAV: %w", err)
	}

	totalSamples := len(buf.Data)
	channels := int(decoder.NumChans)
	sampleRate := int(decoder.SampleRate)
	var duration float64
	if channels > 0 && sampleRate > 0 {
		duration = float64(totalSamples/channels) / float64(sampleRate)
	}

	metadata := &models.AudioMetadata{
		SampleRate:   sampleRate,
		Channels:     channels,
		BitDepth:     int(decoder.BitDepth),
		Duration:     duration,
		TotalSamples: totalSamples,
	}
	return &PCMSurface{buf: buf, metadata: metadata}, nil
}

// DecodeMP3 decodes an MP3 file into 16-bit PCM. The stego result is written
// as WAV because re-encoding to MP3 would discard the low bits.
func (ad *AudioDecoder) DecodeMP3(mp3Data []byte) (*PCMSurface, error) {
	if len(mp3Data) == 0 {
		return nil, fmt.Errorf("failed to decode MP3: %w", ErrNoAudio)
	}
	decoder, data, err := minimp3.DecodeFull(mp3Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}
	defer decoder.Close()
	if decoder.Channels <= 0 || decoder.SampleRate <= 0 || len(data) < 2 {
		return nil, fmt.Errorf("failed to decode MP3: %w", ErrNoAudio)
	}

	// minimp3 yields interleaved little-endian 16-bit samples
	samples := make([]int, len(data)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(data[2*i:])))
	}

	surface := NewPCMSurface(samples, decoder.SampleRate, decoder.Channels, 16)
	surface.metadata.Duration = float64(len(samples)/decoder.Channels) / float64(decoder.SampleRate)
	return surface, nil
}

// EncodeWAV writes the surface back as a WAV file with the original format.
func (ad *AudioDecoder) EncodeWAV(surface *PCMSurface) ([]byte, error) {
	metadata := surface.metadata

	// wav.NewEncoder needs a WriteSeeker
	tempFile, err := os.CreateTemp("", "pixsteg_*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	encoder := wav.NewEncoder(tempFile, metadata.SampleRate, metadata.BitDepth, metadata.Channels, pcmFormat)
	if err := encoder.Write(surface.buf); err != nil {
		return nil, fmt.Errorf("failed to encode WAV: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to close WAV encoder: %w", err)
	}

	if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind WAV data: %w", err)
	}
	wavData, err := io.ReadAll(tempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read WAV data: %w", err)
	}
	return wavData, nil
}

// NewPCMSurface wraps raw interleaved samples, mostly for building carriers
// from generated audio.
func NewPCMSurface(samples []int, sampleRate, channels, bitDepth int) *PCMSurface {
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}
	metadata := &models.AudioMetadata{
		SampleRate:   sampleRate,
		Channels:     channels,
		BitDepth:     bitDepth,
		TotalSamples: len(samples),
	}
	return &PCMSurface{buf: buf, metadata: metadata}
}

// PCMSurface presents interleaved samples as a single row of pixels.
// Samples beyond the last full group of three are never touched.
type PCMSurface struct {
	buf      *audio.IntBuffer
	metadata *models.AudioMetadata
}

func (s *PCMSurface) Metadata() models.AudioMetadata {
	return *s.metadata
}

func (s *PCMSurface) Samples() []int {
	return s.buf.Data
}

func (s *PCMSurface) Width() int {
	return len(s.buf.Data) / SamplesPerPixel
}

func (s *PCMSurface) Height() int {
	if s.Width() == 0 {
		return 0
	}
	return 1
}

func (s *PCMSurface) Pixel(x, _ int) color.NRGBA {
	i := x * SamplesPerPixel
	return color.NRGBA{
		R: uint8(s.buf.Data[i]),
		G: uint8(s.buf.Data[i+1]),
		B: uint8(s.buf.Data[i+2]),
		A: 0xFF,
	}
}

// SetPixel replaces the low byte of each sample. Alpha has no sample to
// live in and is ignored.
func (s *PCMSurface) SetPixel(x, _ int, c color.NRGBA) {
	i := x * SamplesPerPixel
	s.buf.Data[i] = s.buf.Data[i]&^0xFF | int(c.R)
	s.buf.Data[i+1] = s.buf.Data[i+1]&^0xFF | int(c.G)
	s.buf.Data[i+2] = s.buf.Data[i+2]&^0xFF | int(c.B)
}
