package cli

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/m0th3rfkr/ejecucion-publica/pkg/types/rights"
)

// CheckOptions holds flags of the check command.
type CheckOptions struct {
	Territory string
	AsOf      string
	File      string
}

// NewCheckCommand creates the check command.  Identifiers come from the
// argument list, from --file, or from stdin when the file argument is "-".
func NewCheckCommand(root *RootOptions) *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check [ISRC...]",
		Short: "Resolve the applicable right per track in a territory",
		Example: `  rightscheck check --territory US USRC17607839 GBUM71029604
  rightscheck check --territory GB --as-of 2024-03-01 --file tracks.csv
  cat tracks.txt | rightscheck check --territory DE --file -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, root, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Territory, "territory", "t", "", "territory code, e.g. US (required)")
	f.StringVar(&opts.AsOf, "as-of", "", "evaluation instant, RFC 3339 or YYYY-MM-DD (default: now)")
	f.StringVarP(&opts.File, "file", "f", "", "read identifiers from a file, one per line or CSV (- for stdin)")
	_ = cmd.MarkFlagRequired("territory")

	return cmd
}

func runCheck(cmd *cobra.Command, root *RootOptions, opts *CheckOptions, args []string) error {
	ids := append([]string{}, args...)
	if opts.File != "" {
		fileIDs, err := readIdentifiers(opts.File, cmd.InOrStdin())
		if err != nil {
			return err
		}
		ids = append(ids, fileIDs...)
	}
	if len(ids) == 0 {
		return fmt.Errorf("no track identifiers given; pass them as arguments or via --file")
	}

	var asOf *time.Time
	if opts.AsOf != "" {
		parsed, err := parseAsOf(opts.AsOf)
		if err != nil {
			return err
		}
		asOf = &parsed
	}

	api, err := newAPIClient(root)
	if err != nil {
		return err
	}

	resp, err := api.Lookup(cmd.Context(), rights.LookupRequest{
		TrackIDs:  ids,
		Territory: opts.Territory,
		AsOf:      asOf,
	})
	if err != nil {
		return err
	}

	switch strings.ToLower(root.OutputFormat) {
	case "json":
		return printJSON(cmd, resp)
	case "csv":
		return writeResultCSV(cmd.OutOrStdout(), resp)
	default:
		return writeResultTable(cmd, resp)
	}
}

// parseAsOf accepts RFC 3339 or a bare date.  A bare date means midnight UTC.
func parseAsOf(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse --as-of %q; use RFC 3339 or YYYY-MM-DD", raw)
}

// readIdentifiers pulls identifiers from path ("-" for stdin).  CSV input
// uses the first column; plain input takes one identifier per line, with
// whitespace-separated tokens also accepted.
func readIdentifiers(path string, stdin io.Reader) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("cannot open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.Contains(line, ",") {
			// First CSV column carries the identifier.
			if fields := strings.Split(line, ","); len(fields) > 0 {
				ids = append(ids, strings.TrimSpace(fields[0]))
			}
			continue
		}
		ids = append(ids, strings.Fields(line)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read identifiers: %w", err)
	}
	return ids, nil
}

func writeResultTable(cmd *cobra.Command, resp *rights.LookupResponse) error {
	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		rows = append(rows, []string{
			row.ISRC,
			row.RightType,
			row.EffectiveFrom.Format("2006-01-02"),
			formatEffectiveTo(row.EffectiveTo),
			strings.Join(row.Territories, ","),
			row.OwnerName,
			strOrDash(row.ArtistName),
			strOrDash(row.ProductTitle),
		})
	}
	fmt.Fprint(out, formatTable(
		[]string{"ISRC", "RIGHT TYPE", "FROM", "TO", "TERRITORIES", "OWNER", "ARTIST", "TITLE"},
		rows,
	))

	fmt.Fprintf(out, "\nSummary (%s as of %s):\n", resp.Territory, resp.AsOf.Format(time.RFC3339))
	for _, entry := range resp.Summary {
		fmt.Fprintf(out, "  %-13s %d\n", entry.RightType, entry.Count)
	}
	if len(resp.Unresolved) > 0 {
		fmt.Fprintf(out, "\nNo applicable right: %s\n", strings.Join(resp.Unresolved, ", "))
	}
	if resp.MalformedSkipped > 0 {
		fmt.Fprintf(out, "Skipped %d malformed catalog rows\n", resp.MalformedSkipped)
	}
	return nil
}

func writeResultCSV(w io.Writer, resp *rights.LookupResponse) error {
	cw := csv.NewWriter(w)
	header := []string{
		"isrc", "right_type", "effective_from", "effective_to", "territories",
		"owner_name", "artist_name", "product_title", "imprint_desc",
		"credit_text", "repertoire_owner",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range resp.Rows {
		record := []string{
			row.ISRC,
			row.RightType,
			row.EffectiveFrom.Format(time.RFC3339),
			formatEffectiveTo(row.EffectiveTo),
			strings.Join(row.Territories, ";"),
			row.OwnerName,
			strOrEmpty(row.ArtistName),
			strOrEmpty(row.ProductTitle),
			strOrEmpty(row.ImprintDesc),
			strOrEmpty(row.CreditText),
			strOrEmpty(row.RepertoireOwner),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatEffectiveTo(to *time.Time) string {
	if to == nil {
		return "open"
	}
	return to.Format("2006-01-02")
}

func strOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
