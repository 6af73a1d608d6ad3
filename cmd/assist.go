package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"google.golang.org/genai"

	"github.com/ksahni/folio/renderer"
)

const assistModel = "gemini-2.0-flash"

const assistPreamble = `You are a portfolio analyst. The user will hand you a
markdown valuation report comparing their equity portfolio against a
benchmark index. Comment on it: how the portfolio did against the benchmark,
what drove the result, and anything in the warnings worth acting on.
Be concise and concrete.`

// assistCmd holds the flags for the 'assist' subcommand.
type assistCmd struct {
	reportFlags
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "ask Gemini to comment on the report" }
func (*assistCmd) Usage() string {
	return `folio assist [-portfolio <file>] [question...]

  Builds the report and asks Gemini for commentary. Extra arguments are
  appended as a question. Requires GEMINI_API_KEY in the environment.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f, loadConfig())
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, err := c.buildReport(ctx, newLogger(loadConfig()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building report: %v\n", err)
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	chat, err := client.Chats.Create(ctx, assistModel, nil, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error starting chat:", err)
		return subcommands.ExitFailure
	}

	prompt := assistPreamble + "\n\n" + renderer.ReportMarkdown(report)
	if f.NArg() > 0 {
		prompt += "\n\nQuestion: " + strings.Join(f.Args(), " ")
	}

	resp, err := chat.Send(ctx, &genai.Part{Text: prompt})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Gemini request failed:", err)
		return subcommands.ExitFailure
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		fmt.Fprintln(os.Stderr, "Gemini returned no answer")
		return subcommands.ExitFailure
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	printMarkdown(sb.String())
	return subcommands.ExitSuccess
}
