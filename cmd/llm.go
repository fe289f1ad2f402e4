package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathmind/internal/llm"
	"github.com/abhisek/pathmind/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM requests",
	Long: `Every call to the content provider is recorded with its purpose,
token usage and latency. These commands read that log.`,
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := store.QueryOpts{}
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		opts.Purpose, _ = cmd.Flags().GetString("purpose")
		opts.Topic, _ = cmd.Flags().GetString("topic")
		if since, _ := cmd.Flags().GetDuration("since"); since > 0 {
			opts.From = time.Now().Add(-since)
		}
		failed, _ := cmd.Flags().GetBool("failed")
		asJSON, _ := cmd.Flags().GetBool("json")

		return withEvents(cmd, func(ctx context.Context, events store.EventRepo) error {
			records, err := events.QueryLLMEvents(ctx, opts)
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			if failed {
				records = onlyFailed(records)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			return printEvents(cmd.OutOrStdout(), records)
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one LLM request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		return withEvents(cmd, func(ctx context.Context, events store.EventRepo) error {
			e, err := events.GetLLMEvent(ctx, id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}
			printEvent(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage by purpose and estimated cost by model",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEvents(cmd, func(ctx context.Context, events store.EventRepo) error {
			byPurpose, err := events.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			byModel, err := events.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}
			printUsage(cmd.OutOrStdout(), byPurpose, byModel)
			return nil
		})
	},
}

// withEvents opens the configured database for the duration of fn.
func withEvents(cmd *cobra.Command, fn func(context.Context, store.EventRepo) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(cmd.Context(), s.EventRepo())
}

func onlyFailed(records []store.LLMRequestEventRecord) []store.LLMRequestEventRecord {
	out := records[:0]
	for _, r := range records {
		if !r.Success {
			out = append(out, r)
		}
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printEvents(w io.Writer, records []store.LLMRequestEventRecord) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No LLM requests recorded.")
		return nil
	}

	tw := table(w)
	fmt.Fprintln(tw, "ID\tTIME\tPURPOSE\tTOPIC\tMODEL\tIN\tOUT\tMS\tOK")
	for _, e := range records {
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			e.ID, e.Timestamp.Local().Format(timeLayout), e.Purpose, truncate(e.Topic, 20), truncate(e.Model, 28),
			e.InputTokens, e.OutputTokens, e.LatencyMs, ok)
	}
	return tw.Flush()
}

func printEvent(w io.Writer, e *store.LLMRequestEventRecord) {
	tw := table(w)
	fmt.Fprintf(tw, "ID:\t%d\n", e.ID)
	fmt.Fprintf(tw, "Time:\t%s\n", e.Timestamp.Local().Format(timeLayout))
	fmt.Fprintf(tw, "Provider:\t%s\n", e.Provider)
	fmt.Fprintf(tw, "Model:\t%s\n", e.Model)
	fmt.Fprintf(tw, "Purpose:\t%s\n", e.Purpose)
	if e.Topic != "" {
		fmt.Fprintf(tw, "Topic:\t%s\n", e.Topic)
	}
	fmt.Fprintf(tw, "Tokens:\t%d in / %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(tw, "Latency:\t%dms\n", e.LatencyMs)
	fmt.Fprintf(tw, "Success:\t%v\n", e.Success)
	if e.ErrorMessage != "" {
		fmt.Fprintf(tw, "Error:\t%s\n", e.ErrorMessage)
	}
	tw.Flush()

	section(w, "REQUEST", e.RequestBody)
	section(w, "RESPONSE", e.ResponseBody)
}

func section(w io.Writer, title, body string) {
	rule := strings.Repeat("─", 60)
	if body == "" {
		body = "(not captured)"
	}
	fmt.Fprintf(w, "\n%s\n%s\n%s\n%s\n", rule, title, rule, body)
}

func printUsage(w io.Writer, byPurpose []store.LLMUsageStats, byModel []store.LLMModelUsage) {
	if len(byPurpose) == 0 {
		fmt.Fprintln(w, "No LLM usage recorded yet.")
		return
	}

	fmt.Fprintln(w, "Usage by purpose")
	tw := table(w)
	fmt.Fprintln(tw, "PURPOSE\tCALLS\tINPUT\tOUTPUT\tTOTAL\tAVG MS")
	var calls, in, out int
	for _, st := range byPurpose {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n",
			st.Purpose, st.Calls, st.InputTokens, st.OutputTokens, st.InputTokens+st.OutputTokens, st.AvgLatencyMs)
		calls, in, out = calls+st.Calls, in+st.InputTokens, out+st.OutputTokens
	}
	fmt.Fprintf(tw, "TOTAL\t%d\t%d\t%d\t%d\t\n", calls, in, out, in+out)
	tw.Flush()

	if len(byModel) == 0 {
		return
	}

	fmt.Fprintln(w, "\nEstimated cost (USD)")
	tw = table(w)
	fmt.Fprintln(tw, "MODEL\tCALLS\tINPUT\tOUTPUT\tCOST")
	var total float64
	var unpriced []string
	for _, mu := range byModel {
		cost := "?"
		if price := llm.LookupCost(mu.Model); price != nil {
			c := price.Cost(mu.InputTokens, mu.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, mu.Model)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, cost)
	}
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(tw, "%s\t\t\t\t%s\n", label, formatCost(total))
	tw.Flush()

	if len(unpriced) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unpriced, ", "))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose (e.g. diagnostic-questions, module-content)")
	llmListCmd.Flags().StringP("topic", "t", "", "Only show requests about one topic")
	llmListCmd.Flags().Duration("since", 0, "Only show requests newer than this (e.g. 24h)")
	llmListCmd.Flags().Bool("failed", false, "Only show failed requests")
	llmListCmd.Flags().Bool("json", false, "Print as JSON")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
