package asset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

// MaxEnvironmentDim caps each environment map dimension, the same way
// GLBLoader.MaxBytes caps model sources: a corrupt or hostile
// resolution line must fail the load, not size an allocation.
const MaxEnvironmentDim = 32768

// Package errors for environment map decoding.
var (
	// ErrNotRadiance is returned when the source is not a Radiance
	// RGBE file.
	ErrNotRadiance = errors.New("asset: not a Radiance HDR file")

	// ErrBadScanline is returned when an RGBE scanline is corrupt.
	ErrBadScanline = errors.New("asset: corrupt RGBE scanline")
)

// Environment is a decoded HDR equirectangular environment map:
// linear RGB float32 triples in row-major order.
type Environment struct {
	Width  int
	Height int

	// Pixels holds Width*Height*3 float32 values, R then G then B.
	Pixels []float32
}

// At returns the linear RGB value at (x, y).
func (e *Environment) At(x, y int) (r, g, b float32) {
	i := (y*e.Width + x) * 3
	return e.Pixels[i], e.Pixels[i+1], e.Pixels[i+2]
}

// LoadEnvironment reads a Radiance .hdr equirectangular map from the
// source and decodes it to linear float RGB.
func LoadEnvironment(ctx context.Context, src Source) (*Environment, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	env, err := DecodeHDR(rc)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", src.Name(), err)
	}
	return env, nil
}

// DecodeHDR decodes a Radiance RGBE stream. Both RLE and flat scanline
// encodings are handled.
func DecodeHDR(r io.Reader) (*Environment, error) {
	br := bufio.NewReader(r)

	magic, err := br.ReadString('\n')
	if err != nil {
		return nil, ErrNotRadiance
	}
	magic = strings.TrimRight(magic, "\n")
	if magic != "#?RADIANCE" && magic != "#?RGBE" {
		return nil, ErrNotRadiance
	}

	// Header: variable lines until a blank line, then the resolution line.
	formatSeen := false
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("reading header: %w", err)
		}
		line = strings.TrimRight(line, "\n")
		if line == "" {
			break
		}
		if strings.HasPrefix(line, "FORMAT=") {
			f := strings.TrimPrefix(line, "FORMAT=")
			if f != "32-bit_rle_rgbe" {
				return nil, fmt.Errorf("asset: unsupported HDR format %q", f)
			}
			formatSeen = true
		}
	}
	if !formatSeen {
		return nil, fmt.Errorf("asset: HDR header missing FORMAT line")
	}

	resLine, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("reading resolution: %w", err)
	}
	var height, width int
	if _, err := fmt.Sscanf(strings.TrimSpace(resLine), "-Y %d +X %d", &height, &width); err != nil {
		return nil, fmt.Errorf("asset: unsupported HDR orientation %q", strings.TrimSpace(resLine))
	}
	if width <= 0 || height <= 0 || width > MaxEnvironmentDim || height > MaxEnvironmentDim {
		return nil, fmt.Errorf("asset: invalid HDR dimensions %dx%d", width, height)
	}

	env := &Environment{
		Width:  width,
		Height: height,
		Pixels: make([]float32, width*height*3),
	}
	scan := make([]byte, width*4)
	for y := 0; y < height; y++ {
		if err := readScanline(br, scan, width); err != nil {
			return nil, err
		}
		row := env.Pixels[y*width*3:]
		for x := 0; x < width; x++ {
			r, g, b := rgbeToFloat(scan[x*4], scan[x*4+1], scan[x*4+2], scan[x*4+3])
			row[x*3] = r
			row[x*3+1] = g
			row[x*3+2] = b
		}
	}
	return env, nil
}

// readScanline fills scan with width RGBE quads, handling both the new
// RLE encoding (per-component runs) and flat RGBE rows.
func readScanline(br *bufio.Reader, scan []byte, width int) error {
	var head [4]byte
	if _, err := io.ReadFull(br, head[:]); err != nil {
		return fmt.Errorf("reading scanline: %w", err)
	}

	// New-style RLE: 0x02 0x02 then the 16-bit width.
	if head[0] == 2 && head[1] == 2 && width >= 8 && width <= 0x7fff {
		if int(head[2])<<8|int(head[3]) != width {
			return ErrBadScanline
		}
		// Four separate component planes.
		for c := 0; c < 4; c++ {
			x := 0
			for x < width {
				n, err := br.ReadByte()
				if err != nil {
					return fmt.Errorf("reading scanline: %w", err)
				}
				if n > 128 {
					// Run of a repeated byte.
					count := int(n) - 128
					v, err := br.ReadByte()
					if err != nil {
						return fmt.Errorf("reading scanline: %w", err)
					}
					if x+count > width {
						return ErrBadScanline
					}
					for i := 0; i < count; i++ {
						scan[(x+i)*4+c] = v
					}
					x += count
				} else {
					count := int(n)
					if count == 0 || x+count > width {
						return ErrBadScanline
					}
					for i := 0; i < count; i++ {
						v, err := br.ReadByte()
						if err != nil {
							return fmt.Errorf("reading scanline: %w", err)
						}
						scan[(x+i)*4+c] = v
					}
					x += count
				}
			}
		}
		return nil
	}

	// Flat RGBE: the four bytes already read are the first pixel.
	copy(scan[:4], head[:])
	if width > 1 {
		if _, err := io.ReadFull(br, scan[4:width*4]); err != nil {
			return fmt.Errorf("reading scanline: %w", err)
		}
	}
	return nil
}

// rgbeToFloat converts one RGBE pixel to linear float RGB.
func rgbeToFloat(r, g, b, e byte) (float32, float32, float32) {
	if e == 0 {
		return 0, 0, 0
	}
	f := float32(math.Ldexp(1, int(e)-136)) // 128 bias + 8 mantissa bits
	return float32(r) * f, float32(g) * f, float32(b) * f
}
