package ocr

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// TesseractProvider implements OCR by running the tesseract CLI with TSV
// output, which carries per-word confidences and line membership
type TesseractProvider struct {
	tesseractPath string
	language      string
}

// NewTesseractProvider creates a new Tesseract OCR provider.
// tesseractPath defaults to "tesseract" (resolved through PATH) and language to "eng".
func NewTesseractProvider(tesseractPath, language string) *TesseractProvider {
	if tesseractPath == "" {
		tesseractPath = "tesseract"
	}
	if language == "" {
		language = "eng"
	}

	return &TesseractProvider{
		tesseractPath: tesseractPath,
		language:      language,
	}
}

// Recognize extracts text lines from an image using Tesseract
func (p *TesseractProvider) Recognize(ctx context.Context, img image.Image) ([]Line, error) {
	data, err := encodePNG(img)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "ocr_image_*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to write temp image: %w", err)
	}

	// tesseract input.png stdout -l eng tsv
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.tesseractPath, tmp.Name(), "stdout", "-l", p.language, "tsv")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("tesseract command failed: %w, output: %s", err, stderr.String())
	}

	return parseTSV(stdout.Bytes())
}

// GetProviderName returns the name of the provider
func (p *TesseractProvider) GetProviderName() string {
	return "Tesseract OCR"
}

// TSV columns: level page_num block_num par_num line_num word_num left top width height conf text
const (
	tsvLevel = iota
	tsvPage
	tsvBlock
	tsvPar
	tsvLine
	tsvWord
	tsvLeft
	tsvTop
	tsvWidth
	tsvHeight
	tsvConf
	tsvText
	tsvColumns
)

const tsvWordLevel = "5"

// parseTSV groups word rows into lines, keeping the order in which tesseract
// reports them. A line's confidence is the mean of its word confidences.
func parseTSV(data []byte) ([]Line, error) {
	type acc struct {
		words []string
		conf  float64
	}

	var order []string
	groups := make(map[string]*acc)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	first := true
	for scanner.Scan() {
		row := strings.TrimRight(scanner.Text(), "\r")
		if first {
			first = false
			if strings.HasPrefix(row, "level") {
				continue
			}
		}

		cols := strings.SplitN(row, "\t", tsvColumns)
		if len(cols) < tsvColumns || cols[tsvLevel] != tsvWordLevel {
			continue
		}

		text := strings.TrimSpace(cols[tsvText])
		conf, err := strconv.ParseFloat(cols[tsvConf], 64)
		if err != nil || conf < 0 || text == "" {
			continue
		}

		key := strings.Join(cols[tsvPage:tsvWord], ".")
		g, ok := groups[key]
		if !ok {
			g = &acc{}
			groups[key] = g
			order = append(order, key)
		}
		g.words = append(g.words, text)
		g.conf += conf
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tesseract output: %w", err)
	}

	lines := make([]Line, 0, len(order))
	for _, key := range order {
		g := groups[key]
		lines = append(lines, Line{
			Text:       strings.Join(g.words, " "),
			Confidence: clampConfidence(g.conf / float64(len(g.words)) / 100),
		})
	}
	return lines, nil
}
