package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/disintegration/imaging"
	"github.com/example/flashcards/internal/apperr"
	"github.com/example/flashcards/pkg/models"
	"github.com/sashabaranov/go-openai"
)

// MaxImageEdge is the longest edge, in pixels, of an image sent for analysis
const MaxImageEdge = 1024

const visionSystemPrompt = "You are a language learning assistant. Extract only the most prominent word visible in the image " +
	"and provide its definition and part of speech. Return ONLY a JSON array with a single object containing " +
	"'word', 'pos' (n, v, or adj), and 'definition' fields."

const visionUserPrompt = "Please identify the most prominent word in this image and provide its definition " +
	"and part of speech (n, v, adj). Return as JSON array with a single item."

var jsonArray = regexp.MustCompile(`(?s)\[.*\]`)

// ImageAnalyzer recognizes words in pictures
type ImageAnalyzer struct {
	client  *Client
	maxEdge int
}

// NewImageAnalyzer creates an analyzer using the client's vision model
func NewImageAnalyzer(client *Client) *ImageAnalyzer {
	return &ImageAnalyzer{client: client, maxEdge: MaxImageEdge}
}

// Analyze sends the image to the vision model and returns the words it found.
// An empty result means no word was recognized and is not an error.
func (a *ImageAnalyzer) Analyze(ctx context.Context, image []byte) ([]models.WordCandidate, error) {
	jpeg, err := PrepareImage(image, a.maxEdge)
	if err != nil {
		return nil, err
	}
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpeg)

	req := openai.ChatCompletionRequest{
		Model: a.client.config.VisionModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: visionSystemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: visionUserPrompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	}

	ctx, cancel := a.client.attemptContext(ctx)
	defer cancel()

	content, err := a.client.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	return ParseCandidates(content)
}

// ParseCandidates extracts the first JSON array from a model reply
func ParseCandidates(content string) ([]models.WordCandidate, error) {
	match := jsonArray.FindString(content)
	if match == "" {
		return nil, &apperr.MalformedResponseError{Reason: "no JSON array in response"}
	}
	var candidates []models.WordCandidate
	if err := json.Unmarshal([]byte(match), &candidates); err != nil {
		return nil, &apperr.MalformedResponseError{Reason: "word list is not valid JSON", Err: err}
	}
	if candidates == nil {
		candidates = []models.WordCandidate{}
	}
	return candidates, nil
}

// PrepareImage decodes any supported image, shrinks it so that neither edge
// exceeds maxEdge and re-encodes it as JPEG
func PrepareImage(data []byte, maxEdge int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if maxEdge > 0 && (bounds.Dx() > maxEdge || bounds.Dy() > maxEdge) {
		img = imaging.Fit(img, maxEdge, maxEdge, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
