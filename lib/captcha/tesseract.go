package captcha

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// TesseractOracle recognizes captcha text with a local tesseract install
// via gosseract. A fresh client is created per call; the captchas are tiny
// so setup cost is negligible next to the network round-trip.
type TesseractOracle struct {
	// tesseract language, "eng" when empty
	Language string
}

func (o TesseractOracle) Recognize(ctx context.Context, imagePath string) (Reading, error) {
	if err := ctx.Err(); err != nil {
		return Reading{}, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if o.Language != "" {
		if err := client.SetLanguage(o.Language); err != nil {
			return Reading{}, fmt.Errorf("set language: %w", err)
		}
	}
	// captcha images are a single line of glyphs
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return Reading{}, fmt.Errorf("set page seg mode: %w", err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return Reading{}, fmt.Errorf("set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return Reading{}, fmt.Errorf("recognize: %w", err)
	}

	confidence := 0.0
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err == nil && len(boxes) > 0 {
		for _, b := range boxes {
			confidence += b.Confidence
		}
		confidence /= float64(len(boxes)) * 100
	}

	return Reading{Text: text, Confidence: confidence}, nil
}
