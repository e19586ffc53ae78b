package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/report"
)

var parseCmd = &cobra.Command{
	Use:   "parse <resume>",
	Short: "Parse a single resume and print the extracted profile as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger, config := bootstrap()

		matcher := matching.New(loadModel(config.NLP, logger), logger)

		candidate, err := matcher.ParseResume(args[0])
		if err != nil {
			logger.Fatal("parsing resume", zap.String("resume_path", args[0]), zap.Error(err))
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report.NewProfile(candidate)); err != nil {
			logger.Fatal("encoding profile", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
