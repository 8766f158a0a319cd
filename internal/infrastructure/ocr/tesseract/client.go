// Package tesseract talks to a tesseract HTTP sidecar. Recognition runs out
// of process so the worker binary stays free of cgo training-data baggage.
package tesseract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/anandks07/docflow/internal/core/domain"
	"github.com/anandks07/docflow/internal/core/ports"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type recognizeResponse struct {
	Text  string `json:"text"`
	Words []struct {
		Text   string `json:"text"`
		Left   int    `json:"left"`
		Top    int    `json:"top"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"words"`
}

// Recognize sends one prepared page image and returns recognized text with
// word boxes in image pixel coordinates.
func (c *Client) Recognize(ctx context.Context, img image.Image, lang domain.Language) (ports.OCRResult, error) {
	body, contentType, err := encodeRequest(img, languageProfile(lang))
	if err != nil {
		return ports.OCRResult{}, fmt.Errorf("encode ocr request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ocr", body)
	if err != nil {
		return ports.OCRResult{}, fmt.Errorf("create ocr request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.OCRResult{}, fmt.Errorf("tesseract ocr request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return ports.OCRResult{}, newStatusError("ocr", resp)
	}

	var decoded recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.OCRResult{}, fmt.Errorf("decode ocr response: %w", err)
	}

	result := ports.OCRResult{Text: strings.TrimSpace(decoded.Text)}
	for _, w := range decoded.Words {
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		result.Words = append(result.Words, ports.OCRWord{
			Text:   w.Text,
			Left:   w.Left,
			Top:    w.Top,
			Width:  w.Width,
			Height: w.Height,
		})
	}
	return result, nil
}

func encodeRequest(img image.Image, profile string) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", "page.png")
	if err != nil {
		return nil, "", err
	}
	if err := png.Encode(part, img); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("lang", profile); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}

// languageProfile maps the detected document language to tesseract traineddata
// profiles. Malayalam documents mix scripts in practice, so both profiles load.
func languageProfile(lang domain.Language) string {
	if lang == domain.LanguageMalayalam {
		return "mal+eng"
	}
	return "eng"
}
