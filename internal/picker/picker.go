package picker

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/dmitrijs2005/imgdrop/internal/prompt"
	"github.com/dmitrijs2005/imgdrop/internal/uploader"
)

// PromptPicker asks for a file path on the terminal. An empty answer or a
// closed input cancels the pick.
type PromptPicker struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPromptPicker(in *bufio.Reader, out io.Writer) *PromptPicker {
	return &PromptPicker{in: in, out: out}
}

func (p *PromptPicker) Pick(ctx context.Context, mediaType string) (*uploader.Handle, error) {
	path, err := prompt.GetSimpleText(p.in, "Path to image (empty to cancel)", p.out)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}
	return Inspect(path, mediaType)
}

// StaticPicker always picks the same path.
type StaticPicker struct {
	Path string
}

func (p StaticPicker) Pick(ctx context.Context, mediaType string) (*uploader.Handle, error) {
	if p.Path == "" {
		return nil, nil
	}
	return Inspect(p.Path, mediaType)
}
