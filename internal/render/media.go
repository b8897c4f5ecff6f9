// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// mediaPrefix is where a .docx archive keeps its embedded images.
const mediaPrefix = "word/media/"

// ShrinkDocx copies the .docx archive at src to dst, re-encoding embedded
// JPEG images at the given quality and, when optimizePNG is set, PNGs at
// best compression. An image is only replaced when the re-encoded form is
// smaller; undecodable images are copied through untouched.
func ShrinkDocx(src, dst string, quality int, optimizePNG bool) error {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("opening docx %s: %w", src, err)
	}
	defer zr.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			zw.Close()
			return fmt.Errorf("reading %s from docx: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			zw.Close()
			return fmt.Errorf("reading %s from docx: %w", f.Name, err)
		}

		if strings.HasPrefix(f.Name, mediaPrefix) {
			data = shrinkImage(f.Name, data, quality, optimizePNG)
		}

		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate})
		if err != nil {
			zw.Close()
			return fmt.Errorf("writing %s to docx: %w", f.Name, err)
		}
		if _, err := w.Write(data); err != nil {
			zw.Close()
			return fmt.Errorf("writing %s to docx: %w", f.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing docx: %w", err)
	}
	return nil
}

// shrinkImage re-encodes one embedded image, keeping the original bytes
// whenever decoding fails or re-encoding does not shrink them.
func shrinkImage(name string, data []byte, quality int, optimizePNG bool) []byte {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			return data
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return data
		}
		if buf.Len() >= len(data) {
			return data
		}
		return buf.Bytes()

	case ".png":
		if !optimizePNG {
			return data
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return data
		}
		var buf bytes.Buffer
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return data
		}
		if buf.Len() >= len(data) {
			return data
		}
		return buf.Bytes()

	default:
		return data
	}
}
