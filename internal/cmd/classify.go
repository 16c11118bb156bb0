package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/Iron-Ham/claudeyes/internal/classifier"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [file]",
	Short: "Classify terminal text once and print the decision",
	Long: `Classify a captured terminal snapshot and print the resulting decision.

Reads the file argument, or stdin when no file is given. Loop detection is
off because a single snapshot has no history.

Examples:
  tmux capture-pane -p -t work | claudeyes classify
  claudeyes classify snapshot.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	decision := classifier.New(classifier.WithLoopDetection(false)).Classify(string(data))
	_, err = fmt.Fprintln(cmd.OutOrStdout(), decision.String())
	return err
}
