package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/stackscout/stackscout/internal/ingest"
	"github.com/stackscout/stackscout/internal/storage"
)

// --- search ---

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search stored job postings",
	Long: `Search stored job postings.

The --salary filter accepts the same grammar the postings are normalized
with: "100k+" (at least), "80k-120k" (range, matched by overlap), or
"95000" (exact value).

Examples:
  stackscout search --query backend --salary 100k+
  stackscout search --platform lever --salary 80k-120k --limit 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		platform, _ := cmd.Flags().GetString("platform")
		salaryFilter, _ := cmd.Flags().GetString("salary")
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		params := url.Values{}
		if query != "" {
			params.Set("q", query)
		}
		if platform != "" {
			params.Set("platform", platform)
		}
		if salaryFilter != "" {
			params.Set("salary", salaryFilter)
		}
		if limit > 0 {
			params.Set("limit", fmt.Sprintf("%d", limit))
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/jobs?"+params.Encode())
		if err != nil {
			return err
		}

		var jobs []storage.Job
		if err := decodeJSON(resp, &jobs); err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(jobs)
		}

		if len(jobs) == 0 {
			fmt.Println("no matching jobs")
			return nil
		}
		for _, j := range jobs {
			fmt.Printf("%s  %s  %s\n", colorize(colorBold, j.Company), j.Role, formatSalaryBounds(j))
			fmt.Printf("    %s | %s | %s\n", j.SourcePlatform, j.Location, j.SourceURL)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().String("query", "", "free-text search over company, role, description")
	searchCmd.Flags().String("platform", "", "restrict to one source platform")
	searchCmd.Flags().String("salary", "", `salary filter ("100k+", "80k-120k", "95000")`)
	searchCmd.Flags().Int("limit", 0, "maximum results")
	searchCmd.Flags().Bool("json", false, "print raw JSON")
}

// formatSalaryBounds renders the normalized bounds for display, falling
// back to the raw scraped text when nothing parsed.
func formatSalaryBounds(j storage.Job) string {
	if j.SalaryMin == nil && j.SalaryMax == nil {
		if j.Salary != "" {
			return j.Salary
		}
		return "salary n/a"
	}

	sym := currencySymbol(j.SalaryCurrency)
	switch {
	case j.SalaryMax == nil:
		return fmt.Sprintf("%s%s+", sym, humanize.Comma(*j.SalaryMin))
	case j.SalaryMin == nil:
		return fmt.Sprintf("up to %s%s", sym, humanize.Comma(*j.SalaryMax))
	case *j.SalaryMin == *j.SalaryMax:
		return sym + humanize.Comma(*j.SalaryMax)
	default:
		return fmt.Sprintf("%s%s-%s%s", sym, humanize.Comma(*j.SalaryMin), sym, humanize.Comma(*j.SalaryMax))
	}
}

func currencySymbol(code string) string {
	switch code {
	case "USD":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	}
	return ""
}

// --- ingest ---

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Submit a batch of scraped postings",
	Long: `Submit a batch of scraped postings.

The file must contain a JSON array of postings; each posting needs at
least source_platform and source_url. Salary text is stored raw and
normalized server-side.

Example:
  stackscout ingest --file ./scraped.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		if file == "" {
			return fmt.Errorf("--file is required")
		}

		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		var postings []ingest.Posting
		if err := json.Unmarshal(data, &postings); err != nil {
			return fmt.Errorf("parsing %s: %w", file, err)
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/ingest", postings)
		if err != nil {
			return err
		}

		var result struct {
			TaskID string `json:"task_id"`
			Count  int    `json:"count"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Queued %d postings (task %s)", result.Count, result.TaskID)
		return nil
	},
}

func init() {
	ingestCmd.Flags().String("file", "", "JSON file with an array of postings")
}
