package nodes

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alt-coder/pocketgraph/core"
)

// InputNode reads one line per run into shared[Key]. It returns
// core.ActionRetry on a blank line and ActionExit at end of input.
type InputNode struct {
	Key    string
	Prompt string
	Output io.Writer

	reader *bufio.Reader
}

// NewInputNode reads lines from r, writing prompt to w before each read.
func NewInputNode(r io.Reader, w io.Writer, prompt string, opts ...core.NodeOption) *core.Node[struct{}, *string] {
	node := &InputNode{
		Key:    DefaultInputKey,
		Prompt: prompt,
		Output: w,
		reader: bufio.NewReader(r),
	}
	return core.NewNode[struct{}, *string](node, append([]core.NodeOption{core.WithName("input")}, opts...)...)
}

func (n *InputNode) Prep(context.Context, core.Shared) (struct{}, error) {
	return struct{}{}, nil
}

// Exec returns nil at end of input.
func (n *InputNode) Exec(ctx context.Context, _ struct{}) (*string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n.Output != nil && n.Prompt != "" {
		fmt.Fprint(n.Output, n.Prompt)
	}

	line, err := n.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		return nil, nil
	}
	line = strings.TrimSpace(line)
	return &line, nil
}

func (n *InputNode) Post(_ context.Context, shared core.Shared, _ struct{}, line *string) (core.Action, error) {
	if line == nil {
		return ActionExit, nil
	}
	if *line == "" {
		return core.ActionRetry, nil
	}
	shared[orKey(n.Key, DefaultInputKey)] = *line
	return core.ActionDefault, nil
}
