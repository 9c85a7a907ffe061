package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/artemis-health/artemis/pkg/sdk"
)

var asdk sdk.SDK

func SetArtemisSDK(s sdk.SDK) {
	asdk = s
}

func NewTrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train [rounds]",
		Short: "Run federated rounds",
		Long: `Run federated rounds across all hospital nodes and checkpoint the result.

Examples:
  # Run a single round
  artemis-cli train

  # Run five rounds
  artemis-cli train 5`,
		Run: func(cmd *cobra.Command, args []string) {
			rounds := 1
			if len(args) > 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				rounds = n
			}

			res, err := asdk.TrainRounds(rounds)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, res)
		},
	}
}

func NewEvaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate global model",
		Long:  `Evaluate the current global model on the held-out test set.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			metrics, err := asdk.Evaluate()
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, metrics)
		},
	}
}

func NewHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show round history",
		Long:  `Show the metrics recorded for every committed round.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			records, err := asdk.History()
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, records)
		},
	}
}

func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show service stats",
		Long:  `Show training round, prediction and model version counters.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			stats, err := asdk.Stats()
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, stats)
		},
	}
}
