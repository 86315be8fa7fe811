// Package agent implements an interactive assistant, backed by Gemini, that
// answers questions about a portfolio and its rebalancing.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"google.golang.org/genai"
)

const prompt = "assist> "

// exitWords end the session.
var exitWords = []string{"bye", "exit", "quit"}

// Agent is the AI assistant that handles the chat session.
type Agent struct {
	Facilitator *Expert
	Experts     []*Expert

	// Render formats the markdown answers before they are printed, they are
	// printed as is when nil.
	Render func(md string) string

	w   io.Writer
	in  *bufio.Scanner
	ask func(context.Context, ...*genai.Part) (*genai.Content, error)
}

// New creates an Agent reading the user's questions from r and writing the
// answers to w. The facilitator consults the experts to answer.
func New(w io.Writer, r io.Reader, experts ...*Expert) *Agent {
	a := &Agent{
		Experts:     experts,
		Facilitator: newFacilitator(experts...),
		w:           w,
		in:          bufio.NewScanner(r),
	}
	a.ask = a.Facilitator.Ask
	return a
}

// Start creates the chats of every expert.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return fmt.Errorf("cannot start expert %s: %w", e.Name, err)
		}
	}
	return a.Facilitator.Start(ctx, client)
}

// Run starts the chats and then the interactive session. prompts are asked
// first, as if the user had typed them.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if err := a.Start(ctx, client); err != nil {
		return err
	}
	return a.loop(ctx, prompts)
}

func (a *Agent) loop(ctx context.Context, prompts []string) error {
	fmt.Fprintf(a.w, "Welcome to rebal assist. Type '%s' to exit.\n", exitWords[0])
	for {
		input, ok := a.next(&prompts)
		if !ok {
			return a.in.Err()
		}
		if slices.Contains(exitWords, strings.ToLower(input)) {
			return nil
		}

		content, err := a.ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		answer := text(content)
		if a.Render != nil {
			answer = a.Render(answer)
		}
		fmt.Fprintln(a.w, answer)
	}
}

// next returns the next non blank question, from prompts first and then from
// the user. It returns false at the end of the input.
func (a *Agent) next(prompts *[]string) (string, bool) {
	for {
		fmt.Fprint(a.w, prompt)
		var input string
		if len(*prompts) > 0 {
			input, *prompts = strings.TrimSpace((*prompts)[0]), (*prompts)[1:]
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
			return input, true
		}
		if !a.in.Scan() {
			return "", false
		}
		if input = strings.TrimSpace(a.in.Text()); input != "" {
			return input, true
		}
	}
}

// text concatenates the text parts of content.
func text(content *genai.Content) string {
	var b strings.Builder
	for _, p := range content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
