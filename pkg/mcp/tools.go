package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/codemend/pkg/refactor"
	"github.com/Sumatoshi-tech/codemend/pkg/rewrite"
	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

// Tool name constants.
const (
	ToolNameList  = "codemend_list"
	ToolNameApply = "codemend_apply"
	ToolNameRules = "codemend_rules"
)

// Input size limits.
const (
	// MaxCodeInputBytes is the default limit for inline code input (1 MB).
	MaxCodeInputBytes = 1 << 20

	defaultPath = "snippet.cs"
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptyCode indicates the code parameter is empty.
	ErrEmptyCode = errors.New("code parameter is required and must not be empty")
	// ErrCodeTooLarge indicates the code input exceeds the size limit.
	ErrCodeTooLarge = errors.New("code input exceeds maximum size")
	// ErrInvalidSelection indicates offset or length fall outside the code.
	ErrInvalidSelection = errors.New("selection is outside the code")
	// ErrEmptyKey indicates the key parameter is empty.
	ErrEmptyKey = errors.New("key parameter is required and must not be empty")
	// ErrActionNotOffered indicates no action with the requested key applies.
	ErrActionNotOffered = errors.New("no action with this key is offered at the selection")
)

// ListInput is the input schema for the codemend_list tool.
type ListInput struct {
	Code   string `json:"code"             jsonschema:"C# source code"`
	Path   string `json:"path,omitempty"   jsonschema:"optional file name used for language detection (default: snippet.cs)"`
	Offset int    `json:"offset"           jsonschema:"byte offset of the caret or selection start"`
	Length int    `json:"length,omitempty" jsonschema:"selection length in bytes (default: 0, a caret)"`
}

// ApplyInput is the input schema for the codemend_apply tool.
type ApplyInput struct {
	Code   string `json:"code"             jsonschema:"C# source code"`
	Path   string `json:"path,omitempty"   jsonschema:"optional file name used for language detection (default: snippet.cs)"`
	Offset int    `json:"offset"           jsonschema:"byte offset of the caret or selection start"`
	Length int    `json:"length,omitempty" jsonschema:"selection length in bytes (default: 0, a caret)"`
	Key    string `json:"key"              jsonschema:"equivalence key returned by codemend_list"`
}

type selection struct {
	code   string
	path   string
	offset int
	length int
}

// RulesInput is the input schema for the codemend_rules tool.
type RulesInput struct{}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// ActionInfo describes one offered action.
type ActionInfo struct {
	Title string `json:"title"`
	Key   string `json:"key"`
	Rule  string `json:"rule"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// ListResult is the codemend_list payload.
type ListResult struct {
	Actions []ActionInfo `json:"actions"`
	Skipped []string     `json:"skipped,omitempty"`
}

// ApplyResult is the codemend_apply payload.
type ApplyResult struct {
	Title string `json:"title"`
	Code  string `json:"code"`
	Edits int    `json:"edits"`
	// RenameStart and RenameEnd locate a freshly introduced name the
	// caller may want to rename.
	RenameStart *int `json:"rename_start,omitempty"`
	RenameEnd   *int `json:"rename_end,omitempty"`
}

// RuleInfo describes one catalog rule.
type RuleInfo struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Enabled bool   `json:"enabled"`
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

func (s *Server) validateSelection(in selection) error {
	if in.code == "" {
		return ErrEmptyCode
	}

	if len(in.code) > s.deps.MaxCodeBytes {
		return fmt.Errorf("%w: %s (max %s)", ErrCodeTooLarge,
			humanize.Bytes(uint64(len(in.code))), humanize.Bytes(uint64(s.deps.MaxCodeBytes)))
	}

	if in.offset < 0 || in.length < 0 || in.offset+in.length > len(in.code) {
		return fmt.Errorf("%w: [%d, %d) in %d bytes", ErrInvalidSelection, in.offset, in.offset+in.length, len(in.code))
	}

	return nil
}

// dispatch parses the code and lists the actions at the selection.
func (s *Server) dispatch(ctx context.Context, in selection) (refactor.Result, error) {
	if err := s.validateSelection(in); err != nil {
		return refactor.Result{}, err
	}

	path := in.path
	if path == "" {
		path = defaultPath
	}

	root, err := s.deps.Parser.Parse(ctx, path, []byte(in.code))
	if err != nil {
		return refactor.Result{}, fmt.Errorf("parse: %w", err)
	}

	doc := refactor.NewDocument(path, root, s.deps.Provider)

	res, err := s.deps.Engine.Dispatch(ctx, refactor.Request{
		Document: doc,
		Span:     syntax.NewSpan(in.offset, in.length),
		Settings: s.deps.Settings,
	})
	if err != nil {
		return refactor.Result{}, fmt.Errorf("dispatch: %w", err)
	}

	for _, failure := range res.Failures {
		s.logger().ErrorContext(ctx, "rule failed", "rule", failure.RuleID, "error", failure.Err)
	}

	return res, nil
}

func (s *Server) handleList(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input ListInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	res, err := s.dispatch(ctx, selection{input.Code, input.Path, input.Offset, input.Length})
	if err != nil {
		return errorResult(err)
	}

	out := ListResult{Actions: make([]ActionInfo, 0, len(res.Actions))}

	for _, a := range res.Actions {
		out.Actions = append(out.Actions, ActionInfo{
			Title: a.Title,
			Key:   a.EquivalenceKey,
			Rule:  a.RuleID,
			Start: a.Span.Start,
			End:   a.Span.End,
		})
	}

	for _, failure := range res.Failures {
		out.Skipped = append(out.Skipped, failure.RuleID)
	}

	return jsonResult(out)
}

func (s *Server) handleApply(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input ApplyInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Key == "" {
		return errorResult(ErrEmptyKey)
	}

	res, err := s.dispatch(ctx, selection{input.Code, input.Path, input.Offset, input.Length})
	if err != nil {
		return errorResult(err)
	}

	for _, a := range res.Actions {
		if a.EquivalenceKey != input.Key {
			continue
		}

		rewritten, computeErr := a.Compute(ctx)
		if computeErr != nil {
			return errorResult(fmt.Errorf("apply %s: %w", input.Key, computeErr))
		}

		out := ApplyResult{
			Title: a.Title,
			Code:  rewritten.Text(),
			Edits: len(rewrite.Edits(input.Code, rewritten.Text())),
		}

		if span, ok := rewritten.RenameTarget(); ok {
			out.RenameStart, out.RenameEnd = &span.Start, &span.End
		}

		return jsonResult(out)
	}

	return errorResult(fmt.Errorf("%w: %s", ErrActionNotOffered, input.Key))
}

func (s *Server) handleRules(
	_ context.Context, _ *mcpsdk.CallToolRequest, _ RulesInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	regs := s.deps.Engine.Registry().Registrations()
	out := make([]RuleInfo, len(regs))

	for i, reg := range regs {
		out[i] = RuleInfo{ID: reg.ID, Title: reg.Title, Enabled: s.deps.Settings.Enabled(reg.ID)}
	}

	return jsonResult(out)
}
