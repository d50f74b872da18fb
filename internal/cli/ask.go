package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphgazer/graphgazer/pkg/cache"
	"github.com/graphgazer/graphgazer/pkg/oracle"
	"github.com/graphgazer/graphgazer/pkg/summary"
)

// askCommand creates the ask command for one-shot AI questions about a graph.
func (c *CLI) askCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "ask [graph.json] [question]",
		Short: "Ask the AI assistant a question about a graph",
		Long: `Ask the AI assistant a question about a graph.

The graph is summarized and sent along with the question; the assistant
answers in plain language and may suggest follow-up actions. Requires an
API key (see api_key_env in ~/.config/graphgazer/config.toml, default
OPENAI_API_KEY). Answers are cached locally.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAsk(cmd.Context(), args[0], args[1], noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runAsk summarizes the graph, resolves the answer, and prints it.
func (c *CLI) runAsk(ctx context.Context, input, question string, noCache bool) error {
	g, err := loadGraph(c.Logger, input)
	if err != nil {
		return err
	}
	contextSummary := summary.Graph(g)

	cfg, err := oracleSettings()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	collab, err := oracle.NewOpenAI(cfg)
	if err != nil {
		return err
	}

	store, err := newCache(noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()

	resp, cached, err := resolveAnswer(ctx, collab, store, question, contextSummary)
	if err != nil {
		return err
	}

	fmt.Println(StyleValue.Render(resp.Explanation))
	if len(resp.SuggestedActions) > 0 {
		fmt.Println()
		fmt.Println(StyleDim.Render("Suggested actions:"))
		for _, a := range resp.SuggestedActions {
			fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleHighlight.Render(a.Label))
		}
	}
	if cached {
		c.Logger.Debug("Answer served from cache")
	}
	return nil
}

// resolveAnswer returns the oracle response, consulting the cache first.
func resolveAnswer(ctx context.Context, collab oracle.Collaborator, store cache.Cache, question, contextSummary string) (oracle.Response, bool, error) {
	key := cache.OracleKey(question, contextSummary)
	if data, hit, err := store.Get(ctx, key); err == nil && hit {
		var resp oracle.Response
		if json.Unmarshal(data, &resp) == nil {
			return resp, true, nil
		}
	}

	spinner := newSpinnerWithContext(ctx, "Thinking...")
	spinner.Start()
	resp, err := collab.Explain(ctx, oracle.Request{Query: question, Context: contextSummary})
	if err != nil {
		spinner.StopWithError("Assistant request failed")
		return oracle.Response{}, false, err
	}
	spinner.Stop()

	if data, merr := json.Marshal(resp); merr == nil {
		_ = store.Set(ctx, key, data, cache.DefaultTTL)
	}
	return resp, false, nil
}
