// Package newsdesk composes the page walker, the flattener and the
// completion client into the three editorial operations the API exposes.
package newsdesk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/newsdesk/internal/completion"
	"github.com/dgallion1/newsdesk/internal/doctree"
)

// User-facing failure messages.
const (
	MsgNotionFailed     = "Notionデータの取得に失敗しました。"
	MsgTopicsFailed     = "ニューストピック生成に失敗しました。"
	MsgCompletionFailed = "APIエラーが発生しました。"
	MsgTitleMissing     = "タイトルが指定されていません。"
	MsgNoMessages       = "No messages provided"
)

var (
	ErrTitleMissing = errors.New(MsgTitleMissing)
	ErrNoMessages   = errors.New(MsgNoMessages)
)

// Completer is the subset of the completion client the desk needs.
type Completer interface {
	Complete(ctx context.Context, system, user string, opts completion.Options) (string, error)
	Chat(ctx context.Context, messages []completion.Message) (string, error)
}

// Desk runs the topic, evaluation and chat operations.
type Desk struct {
	walker     *doctree.Walker
	completer  Completer
	genOpts    completion.Options
	rootPageID string
	log        *slog.Logger
}

// Config holds the desk's fixed parameters.
type Config struct {
	RootPageID  string
	MaxTokens   int
	Temperature float64
}

func New(walker *doctree.Walker, completer Completer, cfg Config, log *slog.Logger) *Desk {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Desk{
		walker:    walker,
		completer: completer,
		genOpts: completion.Options{
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		},
		rootPageID: cfg.RootPageID,
		log:        log,
	}
}

// Topics is the result of a topic run.
type Topics struct {
	NewsTopics []string      `json:"newsTopics"`
	NotionData *doctree.Node `json:"notionData"`
}

// NotionError means the root page could not be walked.
type NotionError struct{ Err error }

func (e *NotionError) Error() string { return fmt.Sprintf("notion: %v", e.Err) }
func (e *NotionError) Unwrap() error { return e.Err }

// CompletionError carries a completion failure together with the message
// shown to API callers.
type CompletionError struct {
	Public string
	Err    error
}

func (e *CompletionError) Error() string { return fmt.Sprintf("completion: %v", e.Err) }
func (e *CompletionError) Unwrap() error { return e.Err }

// RootPageID returns the page walked when no page id is supplied.
func (d *Desk) RootPageID() string { return d.rootPageID }

// Topics walks the tree under pageID, flattens it and asks the model for
// headline candidates. An empty pageID selects the configured root.
func (d *Desk) Topics(ctx context.Context, pageID string) (*Topics, error) {
	if pageID == "" {
		pageID = d.rootPageID
	}

	tree, err := d.walker.Walk(ctx, pageID)
	if err != nil {
		d.log.Error("notion walk failed", "page_id", pageID, "error", err)
		return nil, &NotionError{Err: err}
	}

	text := doctree.Flatten(tree)
	out, err := d.completer.Complete(ctx, TopicsSystemPrompt, text, d.genOpts)
	if err != nil {
		d.log.Error("topic generation failed", "page_id", pageID, "error", err)
		return nil, &CompletionError{Public: publicMessage(err), Err: err}
	}

	return &Topics{
		NewsTopics: SplitTopics(out),
		NotionData: tree,
	}, nil
}

// EvaluateTitle asks the model to judge a headline. The model's raw text is
// returned without parsing.
func (d *Desk) EvaluateTitle(ctx context.Context, title string) (string, error) {
	if title == "" {
		return "", ErrTitleMissing
	}
	out, err := d.completer.Complete(ctx, EvaluationSystemPrompt, BuildEvaluationPrompt(title), d.genOpts)
	if err != nil {
		d.log.Error("title evaluation failed", "error", err)
		return "", &CompletionError{Public: publicMessage(err), Err: err}
	}
	return out, nil
}

// Chat forwards the history and returns it with the assistant reply
// appended. The caller's slice is not modified.
func (d *Desk) Chat(ctx context.Context, history []completion.Message) ([]completion.Message, error) {
	if len(history) == 0 {
		return nil, ErrNoMessages
	}
	for i, m := range history {
		if !completion.ValidRole(m.Role) {
			return nil, &InvalidMessageError{Index: i, Role: m.Role}
		}
	}

	reply, err := d.completer.Chat(ctx, history)
	if err != nil {
		d.log.Error("chat completion failed", "messages", len(history), "error", err)
		return nil, &CompletionError{Public: err.Error(), Err: err}
	}

	out := make([]completion.Message, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, completion.Message{Role: completion.RoleAssistant, Content: reply})
	return out, nil
}

// InvalidMessageError rejects a history entry with an unknown role.
type InvalidMessageError struct {
	Index int
	Role  string
}

func (e *InvalidMessageError) Error() string {
	return fmt.Sprintf("invalid role %q at message %d", e.Role, e.Index)
}

// SplitTopics splits model output into lines, dropping blank ones.
func SplitTopics(s string) []string {
	topics := make([]string, 0)
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			topics = append(topics, line)
		}
	}
	return topics
}

func publicMessage(err error) string {
	if errors.Is(err, completion.ErrNoChoices) {
		return MsgTopicsFailed
	}
	return MsgCompletionFailed
}
