package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Harshitk-cp/lide/internal/buildconfig"
	"github.com/Harshitk-cp/lide/internal/client"
	"github.com/Harshitk-cp/lide/internal/domain"
	"github.com/Harshitk-cp/lide/internal/service"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

type clientFactory func() *client.Client

func newAttachCmd(newClient clientFactory) *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Check each line read from stdin as a conversation turn",
		Long: `Attach reads stdin line by line and sends every non-empty line to the
interceptor as one turn of the session. Warnings are printed as they are found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newClient()
			out := cmd.OutOrStdout()

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				reply, err := c.Chat(cmd.Context(), sessionID, line)
				if err != nil {
					return err
				}
				sessionID = reply.SessionID
				printReply(out, reply)
			}
			return scanner.Err()
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session id (default: the server's default session)")
	return cmd
}

func printReply(w io.Writer, reply *service.ChatReply) {
	if reply.Warning == "" {
		fmt.Fprintln(w, okStyle.Render("✓ "+reply.Response))
		return
	}
	fmt.Fprintln(w, warningBox.Render(warningStyle.Render(reply.Warning)))
	fmt.Fprintln(w, dimStyle.Render(reply.Response))
}

func newListCmd(newClient clientFactory) *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := newClient().ListSessions(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(page.Sessions) == 0 {
				fmt.Fprintln(out, dimStyle.Render("no sessions"))
				return nil
			}

			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%-38s %-24s %8s %6s %6s", "ID", "NAME", "MESSAGES", "NODES", "DIAGS")))
			for _, s := range page.Sessions {
				fmt.Fprintf(out, "%-38s %-24s %8d %6d %6d\n", s.ID, truncate(s.Name, 24), s.MessageCount, s.NodeCount, s.Diagnostics)
			}
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%d of %d sessions", len(page.Sessions), page.Total)))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum sessions to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "sessions to skip")
	return cmd
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func newExportCmd(newClient clientFactory) *cobra.Command {
	var format string
	var render bool
	cmd := &cobra.Command{
		Use:   "export SESSION",
		Short: "Export a session as markdown or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			out := cmd.OutOrStdout()

			switch format {
			case service.FormatMarkdown:
				md, err := c.ExportMarkdown(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if render {
					md = renderMarkdown(md)
				}
				fmt.Fprintln(out, md)
				return nil
			case service.FormatJSON:
				exp, err := c.ExportJSON(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(exp)
			}
			return fmt.Errorf("unknown format %q (want markdown or json)", format)
		},
	}
	cmd.Flags().StringVar(&format, "format", service.FormatMarkdown, "export format: markdown or json")
	cmd.Flags().BoolVar(&render, "render", false, "render markdown for the terminal")
	return cmd
}

// renderMarkdown falls back to the raw text when the terminal renderer fails.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	rendered, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(rendered, "\n ")
}

func newAnalyzeCmd(newClient clientFactory) *cobra.Command {
	var mode string
	var maxDiagnostics int
	cmd := &cobra.Command{
		Use:   "analyze TEXT",
		Short: "Analyse a single text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if mode != "" && !domain.ValidProcessingMode(mode) {
				return fmt.Errorf("unknown mode %q (want Map, Fiction or Truth)", mode)
			}
			res, err := newClient().Analyze(cmd.Context(), strings.Join(args, " "), domain.ProcessingMode(mode), maxDiagnostics)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s: %d nodes, %d edges", res.DocID, res.GraphSummary.Nodes, res.GraphSummary.Edges)))
			if len(res.TopDiagnostics) == 0 {
				fmt.Fprintln(out, okStyle.Render("✓ no issues detected"))
			}
			for _, d := range res.TopDiagnostics {
				label := fmt.Sprintf("[%s/%s]", d.Kind, d.Severity)
				fmt.Fprintln(out, severityStyle(d.Severity).Render(label)+" "+d.Message)
			}
			for _, kv := range res.KnowledgeValidations {
				fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%s: %s (%s)", kv.CheckType, kv.Verdict, kv.Rationale)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "processing mode: Map, Fiction or Truth")
	cmd.Flags().IntVar(&maxDiagnostics, "max", 0, "maximum diagnostics to show")
	return cmd
}

func newVersionCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print client and server version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "lide "+buildconfig.String())

			info, err := newClient().Version(cmd.Context())
			if err != nil {
				fmt.Fprintln(out, dimStyle.Render("server: unreachable ("+err.Error()+")"))
				return nil
			}
			fmt.Fprintf(out, "server %s (%s)\n", info["version"], info["commit"])
			return nil
		},
	}
}
