package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func NewModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models [save|list|view|latest]",
		Short: "Model versions",
		Long:  `Save, list and view checkpointed global model versions.`,
	}

	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Save model checkpoint",
		Long:  `Persist the current global model as a new version.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			v, err := asdk.SaveModel()
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, v)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List model versions",
		Long:  `List all checkpointed model versions.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			versions, err := asdk.ListModels()
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, versions)
		},
	}

	viewCmd := &cobra.Command{
		Use:   "view <version>",
		Short: "View model version",
		Long:  `View a checkpointed model version by number.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			n, err := strconv.Atoi(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			v, err := asdk.GetModel(n)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, v)
		},
	}

	latestCmd := &cobra.Command{
		Use:   "latest",
		Short: "View latest model version",
		Long:  `View the most recently checkpointed model version.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			v, err := asdk.LatestModel()
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, v)
		},
	}

	cmd.AddCommand(saveCmd)
	cmd.AddCommand(listCmd)
	cmd.AddCommand(viewCmd)
	cmd.AddCommand(latestCmd)

	return cmd
}

func NewHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check service health",
		Long:  `Check coordinator service liveness.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			h, err := asdk.Health()
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, h)
		},
	}
}
