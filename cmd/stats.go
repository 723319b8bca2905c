package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/snipbox/internal/store"
	"github.com/abhisek/snipbox/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show snippet statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		dbPath, err := resolveDBPath()
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		st, err := collectStats(cmd.Context(), s)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		return writeStats(out, st, strings.ToLower(format), isTerminal(out))
	},
}

func init() {
	statsCmd.Flags().String("format", "text", "Output format: text, json or yaml")
}

type stats struct {
	Users        int            `json:"users" yaml:"users"`
	Snippets     int            `json:"snippets" yaml:"snippets"`
	Languages    []store.Bucket `json:"languages" yaml:"languages"`
	Complexities []store.Bucket `json:"complexities" yaml:"complexities"`
	Tags         []store.Bucket `json:"tags" yaml:"tags"`
}

const statsTopTags = 10

func collectStats(ctx context.Context, s *store.Store) (stats, error) {
	var (
		st  stats
		err error
	)
	if st.Users, err = s.Users().Count(ctx); err != nil {
		return st, fmt.Errorf("count users: %w", err)
	}
	snips := s.Snippets()
	if st.Snippets, err = snips.Count(ctx); err != nil {
		return st, fmt.Errorf("count snippets: %w", err)
	}
	if st.Languages, err = snips.CountByLanguage(ctx); err != nil {
		return st, fmt.Errorf("count languages: %w", err)
	}
	if st.Complexities, err = snips.CountByComplexity(ctx); err != nil {
		return st, fmt.Errorf("count complexities: %w", err)
	}
	if st.Tags, err = snips.Tags(ctx, statsTopTags); err != nil {
		return st, fmt.Errorf("count tags: %w", err)
	}
	return st, nil
}

func writeStats(w io.Writer, st stats, format string, styled bool) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(st); err != nil {
			return err
		}
		return enc.Close()
	case "text":
	default:
		return fmt.Errorf("invalid format %q: must be text, json or yaml", format)
	}

	if !styled {
		var b strings.Builder
		fmt.Fprintf(&b, "users: %d\nsnippets: %d\n", st.Users, st.Snippets)
		writePlainBuckets(&b, "languages", st.Languages)
		writePlainBuckets(&b, "complexity", st.Complexities)
		writePlainBuckets(&b, "tags", st.Tags)
		_, err := io.WriteString(w, b.String())
		return err
	}

	summary := theme.Title.Render("snipbox") + "\n" +
		theme.Label.Render("Users    ") + theme.Body.Render(strconv.Itoa(st.Users)) + "\n" +
		theme.Label.Render("Snippets ") + theme.Body.Render(strconv.Itoa(st.Snippets))
	sections := []string{theme.Card.Render(summary)}
	for _, sec := range []struct {
		title   string
		buckets []store.Bucket
	}{
		{"Language", st.Languages},
		{"Complexity", st.Complexities},
		{"Tag", st.Tags},
	} {
		if len(sec.buckets) > 0 {
			sections = append(sections, bucketTable(sec.title, sec.buckets))
		}
	}
	_, err := lipgloss.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, sections...))
	return err
}

func writePlainBuckets(b *strings.Builder, title string, buckets []store.Bucket) {
	if len(buckets) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, bk := range buckets {
		fmt.Fprintf(b, "  %-16s %d\n", bk.Key, bk.Count)
	}
}

func bucketTable(title string, buckets []store.Bucket) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(title, "Snippets").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(theme.Primary)
			}
			return s.Foreground(theme.Text)
		})
	for _, bk := range buckets {
		t.Row(bk.Key, strconv.Itoa(bk.Count))
	}
	return t.String()
}
