package tools

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// encodePNG produces a real PNG payload of the given dimensions
func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeEmptyReply(t *testing.T) {
	content := normalizeCallResult(nil)

	if content.Kind != ContentText {
		t.Fatal("expected text content for empty reply")
	}
	if content.Text != "" {
		t.Errorf("expected empty text, got %q", content.Text)
	}
}

func TestNormalizeTextJoined(t *testing.T) {
	content := normalizeCallResult([]mcp.Content{
		&mcp.TextContent{Text: "a"},
		&mcp.TextContent{Text: "b"},
	})

	if content.Kind != ContentText {
		t.Fatal("expected text content")
	}
	if content.Text != "a\nb" {
		t.Errorf("expected text parts joined by newline, got %q", content.Text)
	}
}

func TestNormalizeFirstPNGWins(t *testing.T) {
	first := encodePNG(t, 2, 3)
	second := encodePNG(t, 10, 10)

	content := normalizeCallResult([]mcp.Content{
		&mcp.ImageContent{Data: first, MIMEType: "image/png"},
		&mcp.ImageContent{Data: second, MIMEType: "image/png"},
	})

	if content.Kind != ContentImage {
		t.Fatal("expected image content")
	}
	if !bytes.Equal(content.Image.Data, first) {
		t.Error("expected the first PNG to be captured")
	}
	if content.Image.Width != 2 || content.Image.Height != 3 {
		t.Errorf("expected 2x3 dimensions, got %dx%d", content.Image.Width, content.Image.Height)
	}
	if content.Image.MIMEType != "image/png" {
		t.Errorf("unexpected mime type %s", content.Image.MIMEType)
	}
}

func TestNormalizeNonPNGDegradesToText(t *testing.T) {
	content := normalizeCallResult([]mcp.Content{
		&mcp.ImageContent{Data: []byte{0xff, 0xd8}, MIMEType: "image/jpeg"},
		&mcp.TextContent{Text: "hello"},
	})

	if content.Kind != ContentText {
		t.Fatal("expected text content, non-PNG images are never captured")
	}
	if !strings.Contains(content.Text, "image/jpeg") {
		t.Errorf("expected placeholder naming the mime type, got %q", content.Text)
	}
	if !strings.Contains(content.Text, "hello") {
		t.Errorf("expected literal text to survive, got %q", content.Text)
	}
}

func TestNormalizeImageWinsOverText(t *testing.T) {
	content := normalizeCallResult([]mcp.Content{
		&mcp.TextContent{Text: "caption"},
		&mcp.ImageContent{Data: encodePNG(t, 1, 1), MIMEType: "image/png"},
	})

	if content.Kind != ContentImage {
		t.Error("expected the captured PNG to win over accumulated text")
	}
}

func TestNormalizeResourcesIgnored(t *testing.T) {
	content := normalizeCallResult([]mcp.Content{
		&mcp.EmbeddedResource{},
		&mcp.TextContent{Text: "still here"},
	})

	if content.Kind != ContentText || content.Text != "still here" {
		t.Errorf("expected resource parts to be ignored, got %+v", content)
	}
}

func TestNormalizeUndecodableImage(t *testing.T) {
	// Declared PNG but garbage bytes: captured anyway, zero dimensions
	content := normalizeCallResult([]mcp.Content{
		&mcp.ImageContent{Data: []byte("not a png"), MIMEType: "image/png"},
	})

	if content.Kind != ContentImage {
		t.Fatal("expected image content")
	}
	if content.Image.Width != 0 || content.Image.Height != 0 {
		t.Error("expected zero dimensions for undecodable payload")
	}
}
