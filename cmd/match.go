package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/extract"
	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/report"
	"github.com/spigell/resume-matcher/internal/scoring"
)

var errNoResumes = errors.New("no resume files found")

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank resumes against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().String("job", "", "job description text or path to a job description file")
	matchCmd.Flags().String("resumes", "", "resume file or directory with resumes")
	matchCmd.Flags().IntP("top", "n", 10, "number of candidates to return, 0 means all")
	matchCmd.Flags().Float64("min-score", 0, "minimum match score in percent (0-100)")
	matchCmd.Flags().StringP("output", "o", "", "write results to this JSON file")
	matchCmd.Flags().String("csv", "", "write results to this CSV file")
	matchCmd.Flags().BoolP("interactive", "i", false, "browse results interactively")

	matchCmd.MarkFlagRequired("job")
	matchCmd.MarkFlagRequired("resumes")

	viper.BindPFlag("matching.top", matchCmd.Flags().Lookup("top"))
	viper.BindPFlag("matching.min-score", matchCmd.Flags().Lookup("min-score"))
}

func match(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := bootstrap()
	out := cmd.OutOrStdout()

	jobArg, _ := cmd.Flags().GetString("job")
	resumesArg, _ := cmd.Flags().GetString("resumes")
	outputFile, _ := cmd.Flags().GetString("output")
	csvFile, _ := cmd.Flags().GetString("csv")
	interactive, _ := cmd.Flags().GetBool("interactive")

	if config.Matching.MinScore < 0 || config.Matching.MinScore > 100 {
		logger.Fatal("min-score must be between 0 and 100", zap.Float64("min_score", config.Matching.MinScore))
	}

	paths, err := collectResumes(resumesArg)
	if err != nil {
		logger.Fatal("collecting resumes", zap.String("resumes", resumesArg), zap.Error(err))
	}

	fmt.Fprintf(out, "\nFound %d resume(s)\n", len(paths))
	fmt.Fprintf(out, "Matching candidates to job description...\n\n")

	matcher := matching.New(loadModel(config.NLP, logger), logger)

	results, err := matcher.Match(ctx, jobArg, paths, matching.Options{
		TopN:     config.Matching.Top,
		MinScore: config.Matching.MinScore / 100,
	})
	if err != nil {
		logger.Fatal("matching candidates", zap.Error(err))
	}

	printResults(out, results)

	if outputFile != "" {
		if err := writeFile(outputFile, results.WriteJSON); err != nil {
			logger.Fatal("saving results", zap.String("filename", outputFile), zap.Error(err))
		}
		fmt.Fprintf(out, "\nResults saved to %s\n", outputFile)
	}

	entries := report.FromResults(results)

	if csvFile != "" {
		if err := writeCSV(csvFile, entries); err != nil {
			logger.Fatal("saving csv", zap.String("filename", csvFile), zap.Error(err))
		}
		fmt.Fprintf(out, "CSV saved to %s\n", csvFile)
	}

	if interactive && len(entries) > 0 {
		if err := browse(out, results, entries, logger); err != nil && !errors.Is(err, errExit) {
			logger.Fatal("interactive mode", zap.Error(err))
		}
	}
}

// collectResumes returns the path itself for a file, or every supported
// resume directly inside a directory, sorted by name.
func collectResumes(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%s is not a valid file or directory: %w", path, err)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range dirEntries {
		if e.IsDir() || !extract.IsSupported(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(path, e.Name()))
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", errNoResumes, path)
	}

	sort.Strings(paths)
	return paths, nil
}

func printResults(w io.Writer, results *scoring.Results) {
	line := strings.Repeat("=", 80)

	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "MATCHING RESULTS")
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "\nTop %d Candidates:\n\n", results.Len())

	for i, r := range results.Items {
		fmt.Fprintf(w, "%d. %s\n", i+1, r.Name)
		fmt.Fprintf(w, "   Email: %s\n", r.Email)
		fmt.Fprintf(w, "   Match Score: %v%%\n", r.MatchScore)
		fmt.Fprintf(w, "   Skills Match: %.1f%%\n", r.SkillsMatch*100)
		fmt.Fprintf(w, "   File: %s\n", r.FilePath)
		fmt.Fprintln(w)
	}
}

func writeCSV(path string, entries []report.Entry) error {
	return writeFile(path, func(w io.Writer) error {
		return report.WriteCSV(w, entries)
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
