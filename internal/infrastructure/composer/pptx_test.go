package composer

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/banguela/school-admin/internal/core/domain"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 178, G: 34, B: 34, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestComposePPTXParts(t *testing.T) {
	req := baseRequest(domain.FormatPPTX)
	req.Charts = []domain.ChartArtifact{
		{Kind: domain.ChartBar, Title: "Médias", PNG: tinyPNG(t)},
		{Kind: domain.ChartPie, Title: "Distribuição", PNG: tinyPNG(t)},
	}

	artifact, err := New().Compose(context.Background(), req)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(artifact.Payload), int64(len(artifact.Payload)))
	if err != nil {
		t.Fatalf("payload is not a zip archive: %v", err)
	}

	parts := make(map[string]bool, len(reader.File))
	var slides int
	for _, f := range reader.File {
		parts[f.Name] = true
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slides++
		}
	}

	for _, want := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/theme/theme1.xml",
	} {
		if !parts[want] {
			t.Errorf("missing archive part %s", want)
		}
	}
	// One text slide plus one slide per chart.
	if slides != 3 {
		t.Errorf("slides = %d, want 3", slides)
	}
	if !parts["ppt/media/image1.png"] || !parts["ppt/media/image2.png"] {
		t.Error("chart images should be embedded as media parts")
	}
}
