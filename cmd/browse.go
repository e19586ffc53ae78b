package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/report"
	"github.com/spigell/resume-matcher/internal/scoring"
)

const (
	PromptExit             = "Exit"
	PromptBack             = "back"
	PromptCandidates       = "Browse candidates"
	PromptReportByBand     = "Report by score band"
	PromptResultsToCSVFile = "Dump results to CSV file"

	defaultCSVFile = "resume_matches.csv"
)

var errExit = errors.New("exit requested")

var actionPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptCandidates, PromptReportByBand, PromptResultsToCSVFile, PromptExit},
}

// browse loops over the main menu until the user exits.
func browse(w io.Writer, results *scoring.Results, entries []report.Entry, logger *zap.Logger) error {
	for {
		_, selected, err := actionPrompt.Run()
		if err != nil {
			return err
		}

		if err := handleAction(w, selected, results, entries, logger); err != nil {
			return err
		}
	}
}

func handleAction(w io.Writer, selected string, results *scoring.Results, entries []report.Entry, logger *zap.Logger) error {
	switch selected {
	case PromptExit:
		return errExit
	case PromptCandidates:
		return browseCandidates(w, results, entries)
	case PromptReportByBand:
		printBandReport(w, entries)
	case PromptResultsToCSVFile:
		p := promptui.Prompt{
			Label:   "CSV file",
			Default: defaultCSVFile,
		}

		filename, err := p.Run()
		if err != nil {
			return err
		}

		if err := writeCSV(filename, entries); err != nil {
			return err
		}

		logger.Info("results dumped", zap.String("filename", filename))
	}

	return nil
}

func browseCandidates(w io.Writer, results *scoring.Results, entries []report.Entry) error {
	items := make([]string, 0, len(entries)+1)
	for _, e := range entries {
		items = append(items, candidateLabel(e))
	}

	for {
		candidatePrompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: append(items, PromptBack),
			Size:  10,
		}

		idx, selected, err := candidatePrompt.Run()
		if err != nil {
			return err
		}

		if selected == PromptBack {
			return nil
		}

		if err := printCandidate(w, results.Items[idx]); err != nil {
			return err
		}
	}
}

func candidateLabel(e report.Entry) string {
	return fmt.Sprintf("%d. %s (%v%%)", e.Rank, e.Name, e.MatchScore)
}

func printCandidate(w io.Writer, r *scoring.MatchResult) error {
	fmt.Fprintf(w, "\n%s\n", r.FilePath)
	fmt.Fprintf(w, "Match Score: %v%%  Skills Match: %.1f%%\n", r.MatchScore, r.SkillsMatch*100)

	if r.Candidate == nil {
		return nil
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report.NewProfile(r.Candidate))
}

func printBandReport(w io.Writer, entries []report.Entry) {
	bands := report.ByScoreBand(entries)

	for _, band := range []string{report.StrongBand, report.ModerateBand, report.WeakBand} {
		fmt.Fprintf(w, "\n%s (%d)\n", band, len(bands[band]))
		for _, e := range bands[band] {
			fmt.Fprintf(w, "  %s\n", candidateLabel(e))
		}
	}
	fmt.Fprintln(w)
}
