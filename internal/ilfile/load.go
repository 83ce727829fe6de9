package ilfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
)

// Format selects the encoding of a program graph file.
type Format uint8

const (
	FormatTOML Format = iota + 1
	FormatPack
)

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".ilpk":
		return FormatPack, nil
	}
	return 0, fmt.Errorf("%s: unknown program graph extension (want .toml or .ilpk)", path)
}

// Load reads and links the program graph at path.
func Load(path string) (*Program, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	file, err := Decode(bufio.NewReader(f), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	prog, err := Link(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

// Decode reads a File without linking it.
func Decode(r io.Reader, format Format) (*File, error) {
	var file File
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&file); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case FormatPack:
		if err := msgpack.NewDecoder(r).Decode(&file); err != nil {
			return nil, fmt.Errorf("failed to decode msgpack: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %d", format)
	}
	return &file, nil
}

// Encode writes f as msgpack, stamping the current schema version.
func Encode(w io.Writer, f *File) error {
	out := *f
	out.Schema = SchemaVersion
	return msgpack.NewEncoder(w).Encode(&out)
}

// Convert rewrites the graph at src into dst, choosing formats by extension.
// Only msgpack output is supported.
func Convert(src, dst string) error {
	srcFormat, err := FormatForPath(src)
	if err != nil {
		return err
	}
	if format, err := FormatForPath(dst); err != nil || format != FormatPack {
		return fmt.Errorf("%s: output must be an .ilpk file", dst)
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	file, err := Decode(bufio.NewReader(in), srcFormat)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}
	// the result must still link
	if _, err := Link(file); err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)
	if err := Encode(w, file); err != nil {
		out.Close()
		return fmt.Errorf("%s: %w", dst, err)
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
