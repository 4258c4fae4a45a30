package tools

import (
	"bytes"
	"fmt"
	"image/png"
	"log"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ContentKind discriminates the variants of ResultContent.
type ContentKind int

const (
	// ContentText is plain text content.
	ContentText ContentKind = iota
	// ContentImage is a single PNG image.
	ContentImage
)

// Image is a decoded tool result image with size metadata. Width and Height
// are zero when the payload could not be decoded.
type Image struct {
	Data     []byte
	MIMEType string
	Width    int
	Height   int
}

// ResultContent is the single unified content value delivered to the agent
// loop. Exactly one variant is populated.
type ResultContent struct {
	Kind  ContentKind
	Text  string
	Image *Image
}

// TextResult builds a text ResultContent.
func TextResult(text string) ResultContent {
	return ResultContent{Kind: ContentText, Text: text}
}

// ImageResult builds an image ResultContent.
func ImageResult(img *Image) ResultContent {
	return ResultContent{Kind: ContentImage, Image: img}
}

// Output wraps a tool run's result. Structured is a secondary slot for
// machine-readable output; context server tools leave it empty.
type Output struct {
	Content    ResultContent
	Structured map[string]any
}

// normalizeCallResult folds a reply's heterogeneous content parts into one
// ResultContent. Text parts concatenate in order, joined by newlines. The
// first image/png part wins as the image result; later images are dropped
// with a warning, non-PNG images degrade to a placeholder text line, and
// resource parts are ignored. An empty reply yields empty text, not an
// error — replies come from external processes and an unexpected shape must
// never fail the call.
func normalizeCallResult(parts []mcp.Content) ResultContent {
	var captured *Image
	var textParts []string

	for _, part := range parts {
		switch p := part.(type) {
		case *mcp.TextContent:
			textParts = append(textParts, p.Text)

		case *mcp.ImageContent:
			if p.MIMEType == "image/png" {
				if captured == nil {
					captured = decodeImage(p.Data, p.MIMEType)
				} else {
					log.Printf("multiple images in tool response, only processing the first one")
				}
			} else {
				log.Printf("tool returned non-PNG image (%s), representing as text", p.MIMEType)
				textParts = append(textParts, fmt.Sprintf("Tool returned an image of type %s (content not displayed in this view)", p.MIMEType))
			}

		case *mcp.EmbeddedResource, *mcp.ResourceLink:
			log.Printf("ignoring resource content in tool response, not supported")

		default:
			log.Printf("ignoring unsupported %T content in tool response", part)
		}
	}

	if captured != nil {
		return ImageResult(captured)
	}
	return TextResult(strings.Join(textParts, "\n"))
}

// decodeImage reads the PNG header for size metadata. Decoding failure is
// non-fatal; the raw bytes still flow through with zero dimensions.
func decodeImage(data []byte, mimeType string) *Image {
	img := &Image{Data: data, MIMEType: mimeType}
	if config, err := png.DecodeConfig(bytes.NewReader(data)); err == nil {
		img.Width = config.Width
		img.Height = config.Height
	} else {
		log.Printf("could not decode image dimensions: %v", err)
	}
	return img
}
