package pdf

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const (
	logoName   = "logo"
	logoMM     = 14.0
	logoPixels = 192
)

// rasterizeLogo draws SVG markup onto a transparent PNG whose longer side is
// logoPixels, keeping the view box aspect ratio.
func rasterizeLogo(markup string) ([]byte, float64, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(markup), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, 0, err
	}
	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		return nil, 0, errors.New("logo has no view box")
	}

	w, h := logoPixels, logoPixels
	if vw > vh {
		h = max(1, int(float64(logoPixels)*vh/vw))
	} else {
		w = max(1, int(float64(logoPixels)*vw/vh))
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.Draw(rasterx.NewDasher(w, h, rasterx.NewScannerGV(w, h, img, img.Bounds())), 1)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), vw / vh, nil
}
