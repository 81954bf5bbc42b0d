// Package models contain needed models
package models

import (
	"path"
	"strings"
)

// Payload is the file hidden inside a carrier: its name and its bytes.
type Payload struct {
	FileName string
	Data     []byte
}

// SafeFileName reduces the embedded name to a bare file name that can be
// joined to an output directory. It reports false when nothing usable is
// left.
func (p Payload) SafeFileName() (string, bool) {
	if strings.ContainsRune(p.FileName, 0) {
		return "", false
	}
	name := path.Base(strings.ReplaceAll(p.FileName, "\\", "/"))
	switch name {
	case ".", "..", "/":
		return "", false
	}
	return name, true
}

// StegoResponse represents the response of a failed or JSON-only request
type StegoResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CapacityResponse represents the response of a capacity query
type CapacityResponse struct {
	Success       bool   `json:"success"`
	Format        string `json:"format"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Pixels        int    `json:"pixels"`
	CapacityBytes int    `json:"capacity_bytes"`
}

// CarrierMetadata describes a loaded carrier
type CarrierMetadata struct {
	Format string
	Width  int
	Height int
}

// Pixels returns the number of symbols the carrier can hold
func (m CarrierMetadata) Pixels() int {
	return m.Width * m.Height
}

// AudioMetadata represents metadata about a WAV carrier
type AudioMetadata struct {
	SampleRate   int
	Channels     int
	BitDepth     int
	Duration     float64
	TotalSamples int
}

// StegoConfig represents configuration for one insert operation
type StegoConfig struct {
	OutputFormat string
	Compress     bool
}

// ExtractConfig represents configuration for one extract operation
type ExtractConfig struct {
	Decompress bool
}
