package imgcodec

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"strings"
)

const (
	// DefaultJPEGQuality はインライン画像の JPEG 再エンコード品質です。
	DefaultJPEGQuality = 85

	dataURIPrefix = "data:"
	base64Marker  = ";base64,"
)

// ErrInvalidDataURI は data URI として解釈できない文字列に対して返されます。
var ErrInvalidDataURI = errors.New("data URI の形式が不正です")

// Codec は画像をインライン用の data URI に変換します。
type Codec interface {
	MIMEType() string
	DataURI(img image.Image) (string, error)
}

// JPEGCodec は非可逆圧縮でサイズを抑えるコーデックです。
type JPEGCodec struct {
	Quality int
}

// NewJPEGCodec は既定品質の JPEG コーデックを返します。
func NewJPEGCodec() JPEGCodec {
	return JPEGCodec{Quality: DefaultJPEGQuality}
}

func (c JPEGCodec) MIMEType() string { return "image/jpeg" }

// DataURI はアルファを除去した上で JPEG にエンコードします。
func (c JPEGCodec) DataURI(img image.Image) (string, error) {
	quality := c.Quality
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, Flatten(img), &jpeg.Options{Quality: quality}); err != nil {
		return "", fmt.Errorf("JPEG エンコードに失敗しました: %w", err)
	}
	return encode(c.MIMEType(), buf.Bytes()), nil
}

// PNGCodec は可逆圧縮のコーデックです。
type PNGCodec struct{}

func (PNGCodec) MIMEType() string { return "image/png" }

// DataURI はアルファを除去した上で PNG にエンコードします。
func (c PNGCodec) DataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Flatten(img)); err != nil {
		return "", fmt.Errorf("PNG エンコードに失敗しました: %w", err)
	}
	return encode(c.MIMEType(), buf.Bytes()), nil
}

// Flatten は画像を白背景に合成し、アルファを持たない RGBA 画像として返します。
func Flatten(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	return dst
}

// DecodeImage は PNG/JPEG/GIF のバイト列をデコードします。
func DecodeImage(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}
	return img, format, nil
}

// ParseDataURI は base64 形式の data URI を MIME タイプとペイロードに分解します。
func ParseDataURI(uri string) (string, []byte, error) {
	if !strings.HasPrefix(uri, dataURIPrefix) {
		return "", nil, ErrInvalidDataURI
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, dataURIPrefix), base64Marker)
	if !ok || header == "" {
		return "", nil, ErrInvalidDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return header, data, nil
}

func encode(mimeType string, data []byte) string {
	return dataURIPrefix + mimeType + base64Marker + base64.StdEncoding.EncodeToString(data)
}
