package agent

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// echo answers every question by repeating it.
func echo(asked *[]string) func(context.Context, ...*genai.Part) (*genai.Content, error) {
	return func(_ context.Context, parts ...*genai.Part) (*genai.Content, error) {
		*asked = append(*asked, parts[0].Text)
		return &genai.Content{Parts: []*genai.Part{{Text: "you said "}, {Text: parts[0].Text}}}, nil
	}
}

func TestAgent_Loop(t *testing.T) {
	var out bytes.Buffer
	var asked []string
	a := New(&out, strings.NewReader("\nwhat about AAPL?\nbye\nnever asked\n"))
	a.ask = echo(&asked)

	require.NoError(t, a.loop(context.Background(), []string{"  ", "plan 1000"}))

	assert.Equal(t, []string{"plan 1000", "what about AAPL?"}, asked)
	assert.Contains(t, out.String(), "you said plan 1000")
	assert.Contains(t, out.String(), "you said what about AAPL?")
	assert.NotContains(t, out.String(), "never asked")
}

func TestAgent_LoopEndOfInput(t *testing.T) {
	var out bytes.Buffer
	var asked []string
	a := New(&out, strings.NewReader("hello"))
	a.ask = echo(&asked)
	a.Render = strings.ToUpper

	require.NoError(t, a.loop(context.Background(), nil))
	assert.Equal(t, []string{"hello"}, asked)
	assert.Contains(t, out.String(), "YOU SAID HELLO")
}

func TestAgent_LoopError(t *testing.T) {
	a := New(&bytes.Buffer{}, strings.NewReader("hello\n"))
	boom := errors.New("quota exceeded")
	a.ask = func(context.Context, ...*genai.Part) (*genai.Content, error) { return nil, boom }

	assert.ErrorIs(t, a.loop(context.Background(), nil), boom)
}
