package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sniff-cli/internal/core/domain"
)

// defaultHistoryLimit caps recent_classifications when no limit is given.
const defaultHistoryLimit = 20

// ClassifyFileInput is the input schema for the classify_file tool.
type ClassifyFileInput struct {
	Path string `json:"path" jsonschema:"absolute path of the file to classify"`
}

// ClassifyBytesInput is the input schema for the classify_bytes tool.
type ClassifyBytesInput struct {
	Name string `json:"name,omitempty" jsonschema:"label recorded for the classification (default upload)"`
	Data string `json:"data" jsonschema:"base64-encoded leading bytes of the file"`
}

// ClassificationOutput describes one classification.
type ClassificationOutput struct {
	ID           string   `json:"id"`
	Path         string   `json:"path"`
	Format       string   `json:"format"`
	Extension    string   `json:"extension,omitempty"`
	Recognised   bool     `json:"recognised"`
	Size         int64    `json:"size" jsonschema:"file size in bytes, or the number of bytes supplied to classify_bytes"`
	Probed       []string `json:"probed"`
	ClassifiedAt string   `json:"classified_at"`
}

// ListFormatsInput is the (empty) input schema for the list_formats tool.
type ListFormatsInput struct{}

// ListFormatsOutput is the output schema for the list_formats tool.
type ListFormatsOutput struct {
	Formats []FormatOutput `json:"formats"`
	Count   int            `json:"count"`
}

// FormatOutput describes one registered format.
type FormatOutput struct {
	ID          string `json:"id"`
	Extension   string `json:"extension"`
	Description string `json:"description,omitempty"`
	HeaderLen   int    `json:"header_len"`
}

// HistoryInput is the input schema for the recent_classifications tool.
type HistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of classifications to return (default 20)"`
}

// HistoryOutput is the output schema for the recent_classifications tool.
type HistoryOutput struct {
	Classifications []ClassificationOutput `json:"classifications"`
	Count           int                    `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classify_file",
		Description: "Identify the binary format of a local data file from its signature bytes",
	}, s.handleClassifyFile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classify_bytes",
		Description: "Identify the binary format of base64-encoded leading bytes of a file",
	}, s.handleClassifyBytes)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_formats",
		Description: "List the recognised formats in detection priority order",
	}, s.handleListFormats)

	if s.ports.History != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "recent_classifications",
			Description: "List recently classified files, newest first",
		}, s.handleHistory)
	}
}

// handleClassifyFile handles the classify_file tool invocation.
func (s *Server) handleClassifyFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ClassifyFileInput,
) (*mcp.CallToolResult, ClassificationOutput, error) {
	if input.Path == "" {
		return nil, ClassificationOutput{}, fmt.Errorf("path is required: %w", domain.ErrInvalidInput)
	}

	c, err := s.ports.Classifier.Classify(ctx, input.Path)
	if err != nil {
		return nil, ClassificationOutput{}, err
	}
	return nil, toClassificationOutput(c), nil
}

// handleClassifyBytes handles the classify_bytes tool invocation.
func (s *Server) handleClassifyBytes(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ClassifyBytesInput,
) (*mcp.CallToolResult, ClassificationOutput, error) {
	data, err := base64.StdEncoding.DecodeString(input.Data)
	if err != nil {
		return nil, ClassificationOutput{}, fmt.Errorf("decoding data: %w: %w", domain.ErrInvalidInput, err)
	}

	name := input.Name
	if name == "" {
		name = "upload"
	}

	c, err := s.ports.Classifier.ClassifyStream(ctx, name, bytes.NewReader(data))
	if err != nil {
		return nil, ClassificationOutput{}, err
	}
	return nil, toClassificationOutput(c), nil
}

// handleListFormats handles the list_formats tool invocation.
func (s *Server) handleListFormats(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListFormatsInput,
) (*mcp.CallToolResult, ListFormatsOutput, error) {
	formats := s.formats()
	return nil, ListFormatsOutput{Formats: formats, Count: len(formats)}, nil
}

// handleHistory handles the recent_classifications tool invocation.
func (s *Server) handleHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	history, err := s.ports.History.History(ctx, limit)
	if err != nil {
		return nil, HistoryOutput{}, err
	}

	output := HistoryOutput{
		Classifications: make([]ClassificationOutput, len(history)),
		Count:           len(history),
	}
	for i := range history {
		output.Classifications[i] = toClassificationOutput(&history[i])
	}
	return nil, output, nil
}

func (s *Server) formats() []FormatOutput {
	formats := s.ports.Classifier.Formats()
	out := make([]FormatOutput, len(formats))
	for i, f := range formats {
		out[i] = FormatOutput{
			ID:          f.ID,
			Extension:   f.Extension,
			Description: f.Description,
			HeaderLen:   f.HeaderLen,
		}
	}
	return out
}

func toClassificationOutput(c *domain.Classification) ClassificationOutput {
	probed := c.Probed
	if probed == nil {
		probed = []string{}
	}
	return ClassificationOutput{
		ID:           c.ID,
		Path:         c.Path,
		Format:       c.Label(),
		Extension:    c.Extension,
		Recognised:   c.Recognised(),
		Size:         c.Size,
		Probed:       probed,
		ClassifiedAt: c.ClassifiedAt.Format(time.RFC3339),
	}
}
