package agreement

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderPDFProducesPDFBytes(t *testing.T) {
	text := FallbackText(PlaceholderMap(sampleEmployee(), mapperNow))

	pdf, err := RenderPDF(text)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("expected a PDF header, got %q", pdf[:8])
	}
	if len(pdf) < 1000 {
		t.Fatalf("suspiciously small PDF: %d bytes", len(pdf))
	}
}

func TestRenderPDFDeterministic(t *testing.T) {
	text := FallbackText(PlaceholderMap(sampleEmployee(), mapperNow))

	first, err := RenderPDF(text)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, err := RenderPDF(text)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("identical input must produce identical PDF bytes")
	}
}

func TestRenderPDFPaginatesLongContent(t *testing.T) {
	short, err := RenderPDF("EMPLOYMENT AGREEMENT\n\nshort body")
	if err != nil {
		t.Fatalf("short render: %v", err)
	}

	var sb strings.Builder
	sb.WriteString("EMPLOYMENT AGREEMENT\n\nTERMS AND CONDITIONS\n")
	for i := 0; i < 200; i++ {
		sb.WriteString("1. A fairly long clause that wraps across the page width and pushes content far beyond a single A4 page of rendered agreement text.\n")
	}
	long, err := RenderPDF(sb.String())
	if err != nil {
		t.Fatalf("long render: %v", err)
	}

	// multi-page output carries more page objects
	if bytes.Count(long, []byte("/Type /Page")) <= bytes.Count(short, []byte("/Type /Page")) {
		t.Fatal("expected long content to span more pages")
	}
}

func TestRenderPDFClassifiesLines(t *testing.T) {
	if classifyLine("EMPLOYMENT AGREEMENT") != lineTitle {
		t.Fatal("title keyword should classify as title")
	}
	if classifyLine("SALARY BREAKDOWN") != lineSection {
		t.Fatal("known heading should classify as section")
	}
	if classifyLine("3. A numbered term.") != lineTerm {
		t.Fatal("digit-period prefix should classify as term")
	}
	if classifyLine("• Own uptime") != lineTerm {
		t.Fatal("bullet prefix should classify as term")
	}
	if classifyLine("Plain sentence.") != lineBody {
		t.Fatal("everything else is body text")
	}
	if classifyLine("   ") != lineBlank {
		t.Fatal("whitespace-only lines are blank")
	}
}
