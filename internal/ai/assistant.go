package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/sashabaranov/go-openai"
)

// ErrEmptyMessage is returned when the assistant is asked nothing
var ErrEmptyMessage = errors.New("message cannot be empty")

const assistantPrompt = "You are a helpful dictionary assistant. When users ask about words, provide detailed explanations " +
	"including definitions, examples, synonyms, and usage tips. Focus on being clear and educational."

// Reply is an assistant answer in markdown and rendered HTML
type Reply struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

// Assistant answers free-form questions about words
type Assistant struct {
	client *Client
}

// NewAssistant creates a dictionary assistant using the client's chat model
func NewAssistant(client *Client) *Assistant {
	return &Assistant{client: client}
}

// Ask sends a single message and returns the answer. Failures are not retried.
func (a *Assistant) Ask(ctx context.Context, message string) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, ErrEmptyMessage
	}

	ctx, cancel := a.client.attemptContext(ctx)
	defer cancel()

	content, err := a.client.Complete(ctx, openai.ChatCompletionRequest{
		Model: a.client.config.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: assistantPrompt},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
	})
	if err != nil {
		return Reply{}, err
	}
	return Reply{Markdown: content, HTML: RenderMarkdown(content)}, nil
}

// RenderMarkdown converts markdown to HTML, opening links in a new tab
func RenderMarkdown(md string) string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.HardLineBreak
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return string(markdown.ToHTML([]byte(md), p, renderer))
}
