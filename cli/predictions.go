package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func NewPredictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "predict <feature>...",
		Short: "Predict risk",
		Long: `Score a single feature vector with the current global model.

Examples:
  artemis-cli predict 0.31 0.11 0.62 0.44 0.09`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			features := make([]float64, len(args))
			for i, arg := range args {
				f, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				features[i] = f
			}

			p, err := asdk.Predict(features)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, p)
		},
	}
}
