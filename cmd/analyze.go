package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/snipbox/internal/complexity"
	"github.com/abhisek/snipbox/internal/i18n"
	"github.com/abhisek/snipbox/internal/ui/components"
	"github.com/abhisek/snipbox/internal/ui/theme"
	"github.com/abhisek/snipbox/internal/watch"
)

const stdinName = "-"

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Estimate the complexity of local files",
	Long: `Estimate the time and space complexity of each file. With no files, or
with "-", the code is read from stdin.

Files are analyzed concurrently and reported in argument order. Empty
files are skipped. With --watch, files are re-analyzed whenever they
change.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("lang", "", "Programming language label (default: from file extension)")
	analyzeCmd.Flags().String("locale", "en", "Explanation language: en or vi")
	analyzeCmd.Flags().Bool("details", false, "Show confidence and the deciding rule")
	analyzeCmd.Flags().String("format", "text", "Output format: text, json or yaml")
	analyzeCmd.Flags().Bool("watch", false, "Re-analyze files when they change")
}

type analyzeOptions struct {
	Language string
	Locale   language.Tag
	Details  bool
	Format   string
	// Styled renders text output with lipgloss cards.
	Styled bool
	// Debounce is how long --watch waits for a file to settle.
	Debounce time.Duration
}

// fileReport is one analyzed input as printed by analyze.
type fileReport struct {
	File            string           `json:"file" yaml:"file"`
	Language        string           `json:"language,omitempty" yaml:"language,omitempty"`
	Skipped         bool             `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	TimeComplexity  complexity.Label `json:"timeComplexity,omitempty" yaml:"timeComplexity,omitempty"`
	SpaceComplexity complexity.Label `json:"spaceComplexity,omitempty" yaml:"spaceComplexity,omitempty"`
	Explanation     string           `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Confidence      *float64         `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Rule            string           `json:"rule,omitempty" yaml:"rule,omitempty"`

	result complexity.Result
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	langFlag, _ := cmd.Flags().GetString("lang")
	locale, _ := cmd.Flags().GetString("locale")
	details, _ := cmd.Flags().GetBool("details")
	format, _ := cmd.Flags().GetString("format")
	watchFlag, _ := cmd.Flags().GetBool("watch")

	format = strings.ToLower(format)
	switch format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("invalid format %q: must be text, json or yaml", format)
	}

	files := args
	if len(files) == 0 {
		files = []string{stdinName}
	}
	if watchFlag && slices.Contains(files, stdinName) {
		return errors.New("--watch needs file arguments, stdin cannot be watched")
	}

	out := cmd.OutOrStdout()
	opts := analyzeOptions{
		Language: langFlag,
		Locale:   i18n.Negotiate(locale, ""),
		Details:  details,
		Format:   format,
		Styled:   format == "text" && isTerminal(out),
		Debounce: cfg.Analyze.Debounce,
	}

	reports, err := analyzeFiles(cmd.Context(), files, cmd.InOrStdin(), opts)
	if err != nil {
		return err
	}
	if err := writeReports(out, reports, opts); err != nil {
		return err
	}
	if !watchFlag {
		return nil
	}
	return watchAndAnalyze(cmd.Context(), out, files, opts)
}

// analyzeFiles estimates every file concurrently. Reports keep the order of
// files; the first read error cancels the rest.
func analyzeFiles(ctx context.Context, files []string, stdin io.Reader, opts analyzeOptions) ([]fileReport, error) {
	reports := make([]fileReport, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			code, err := readSource(name, stdin)
			if err != nil {
				return err
			}
			reports[i] = analyzeCode(name, string(code), opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func readSource(name string, stdin io.Reader) ([]byte, error) {
	if name == stdinName {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return b, nil
}

// analyzeCode builds the report for one input. Blank code is skipped
// rather than estimated.
func analyzeCode(name, code string, opts analyzeOptions) fileReport {
	rep := fileReport{File: displayName(name)}
	if strings.TrimSpace(code) == "" {
		rep.Skipped = true
		return rep
	}

	rep.Language = opts.Language
	if rep.Language == "" {
		rep.Language = languageForFile(name)
	}
	res := i18n.Localize(complexity.Estimate(code, rep.Language), opts.Locale)

	rep.result = res
	rep.TimeComplexity = res.Time
	rep.SpaceComplexity = res.Space
	rep.Explanation = res.Explanation
	if opts.Details {
		conf := res.Confidence
		rep.Confidence = &conf
		rep.Rule = res.Rule
	}
	return rep
}

func writeReports(w io.Writer, reports []fileReport, opts analyzeOptions) error {
	switch opts.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		return enc.Close()
	}

	for _, rep := range reports {
		var err error
		if opts.Styled {
			_, err = lipgloss.Fprintln(w, styledReport(rep, opts))
		} else {
			_, err = io.WriteString(w, plainReport(rep, opts))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func styledReport(rep fileReport, opts analyzeOptions) string {
	if rep.Skipped {
		return theme.Hint.Render(rep.File + ": empty, skipped")
	}
	return components.Report{
		Name:    rep.File,
		Result:  rep.result,
		Details: opts.Details,
		Width:   30,
	}.View()
}

func plainReport(rep fileReport, opts analyzeOptions) string {
	if rep.Skipped {
		return rep.File + ": empty, skipped\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: time %s, space %s, %s\n",
		rep.File, rep.TimeComplexity, rep.SpaceComplexity, rep.Explanation)
	if opts.Details {
		fmt.Fprintf(&b, "  confidence %.2f (%s), rule %s\n",
			rep.result.Confidence, complexity.BucketOf(rep.result.Confidence), rep.Rule)
	}
	return b.String()
}

// watchAndAnalyze re-analyzes changed files until ctx is done.
func watchAndAnalyze(ctx context.Context, w io.Writer, files []string, opts analyzeOptions) error {
	var mu sync.Mutex
	handler := func(paths []string) {
		mu.Lock()
		defer mu.Unlock()
		reports := make([]fileReport, 0, len(paths))
		for _, p := range paths {
			code, err := os.ReadFile(p)
			if err != nil {
				logger.Warn("re-read failed", "path", p, "error", err)
				continue
			}
			reports = append(reports, analyzeCode(relPath(p), string(code), opts))
		}
		if err := writeReports(w, reports, opts); err != nil {
			logger.Error("write report", "error", err)
		}
	}

	fw, err := watch.NewFileWatcher(files, opts.Debounce, handler, logger)
	if err != nil {
		return err
	}
	defer fw.Stop()
	fw.Start(ctx)
	logger.Info("watching for changes", "files", len(files))

	<-ctx.Done()
	return nil
}

// relPath shortens an absolute path from the watcher for display.
func relPath(p string) string {
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	if rel, err := filepath.Rel(wd, p); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return p
}

func displayName(name string) string {
	if name == stdinName {
		return "<stdin>"
	}
	return name
}

var extLanguages = map[string]string{
	".c":     "c",
	".cc":    "cpp",
	".cpp":   "cpp",
	".cs":    "csharp",
	".go":    "go",
	".java":  "java",
	".js":    "javascript",
	".jsx":   "javascript",
	".kt":    "kotlin",
	".php":   "php",
	".py":    "python",
	".rb":    "ruby",
	".rs":    "rust",
	".swift": "swift",
	".ts":    "typescript",
	".tsx":   "typescript",
}

// languageForFile guesses a language label from the file extension.
func languageForFile(name string) string {
	return extLanguages[strings.ToLower(filepath.Ext(name))]
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
