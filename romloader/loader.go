// Package romloader handles loading capture files from various sources,
// including compressed archives (ZIP, 7z, gzip, tar.gz, RAR).
package romloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Magic bytes for format detection
var (
	magicCapture = []byte("egbcCapture\x00")
	magicZIP     = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd  = []byte{0x50, 0x4B, 0x05, 0x06} // empty zip
	magic7z      = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip    = []byte{0x1F, 0x8B}
	magicRAR     = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"
)

// CaptureExtension is the file extension of frame captures.
const CaptureExtension = ".gbcap"

// Maximum capture size (256MB safety limit, roughly 15000 frames)
const maxCaptureSize = 256 * 1024 * 1024

// ErrNoCaptureFile is returned when no capture file is found in an archive
var ErrNoCaptureFile = errors.New("no " + CaptureExtension + " file found in archive")

// ErrUnsupportedFormat is returned for unrecognized file formats
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrFileTooLarge is returned when extracted content exceeds size limit
var ErrFileTooLarge = errors.New("file exceeds maximum size limit")

// formatType represents the detected file format
type formatType int

const (
	formatUnknown formatType = iota
	formatRawCapture
	formatZIP
	format7z
	formatGzip
	formatRAR
)

// LoadCapture loads a capture from a file path. It automatically detects and
// extracts from archives. Returns the capture data, the filename of the
// capture (useful for display), and any error encountered.
func LoadCapture(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	// Read header for magic byte detection
	header := make([]byte, 16)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, "", fmt.Errorf("failed to read file header: %w", err)
	}
	header = header[:n]

	format := detectFormat(header, path)

	// Reset file position
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("failed to seek file: %w", err)
	}

	switch format {
	case formatRawCapture:
		data, err := limitedRead(f)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read capture: %w", err)
		}
		return data, filepath.Base(path), nil

	case formatZIP:
		return extractFromZIP(path)

	case format7z:
		return extractFrom7z(path)

	case formatGzip:
		return extractFromGzip(path)

	case formatRAR:
		return extractFromRAR(path)

	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Signatures checked in order; the first prefix match wins.
var formatMagic = []struct {
	magic  []byte
	format formatType
}{
	{magicCapture, formatRawCapture},
	{magicZIP, formatZIP},
	{magicZIPEnd, formatZIP},
	{magicRAR, formatRAR},
	{magic7z, format7z},
	{magicGzip, formatGzip},
}

// Name suffixes used when no signature matches. Compound suffixes come
// before the single extensions they end with.
var formatSuffixes = []struct {
	suffix string
	format formatType
}{
	{".tar.gz", formatGzip},
	{".tgz", formatGzip},
	{".gz", formatGzip},
	{CaptureExtension, formatRawCapture},
	{".zip", formatZIP},
	{".7z", format7z},
	{".rar", formatRAR},
}

// detectFormat determines the file format from the header, falling back
// to the file name.
func detectFormat(header []byte, path string) formatType {
	for _, m := range formatMagic {
		if bytes.HasPrefix(header, m.magic) {
			return m.format
		}
	}

	name := strings.ToLower(filepath.Base(path))
	for _, s := range formatSuffixes {
		if strings.HasSuffix(name, s.suffix) {
			return s.format
		}
	}
	return formatUnknown
}

// isCaptureFile checks if a filename has the capture extension (case-insensitive)
func isCaptureFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), CaptureExtension)
}

// limitedRead reads from r up to maxCaptureSize bytes, returning an error if exceeded
func limitedRead(r io.Reader) ([]byte, error) {
	lr := io.LimitReader(r, maxCaptureSize+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if len(data) > maxCaptureSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
