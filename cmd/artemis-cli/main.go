package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/artemis-health/artemis/cli"
	"github.com/artemis-health/artemis/pkg/sdk"
)

const defCoordinatorURL = "http://localhost:8080"

func main() {
	var coordinatorURL string
	var tlsVerification bool

	rootCmd := &cobra.Command{
		Use:   "artemis-cli",
		Short: "Artemis CLI",
		Long:  `Artemis CLI is a command line interface for the federated learning coordinator.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			sdkConf := sdk.Config{
				CoordinatorURL:  coordinatorURL,
				TLSVerification: tlsVerification,
			}
			s := sdk.NewSDK(sdkConf)
			cli.SetArtemisSDK(s)
		},
	}

	rootCmd.PersistentFlags().StringVarP(
		&coordinatorURL,
		"url",
		"u",
		defCoordinatorURL,
		"Coordinator service URL",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&tlsVerification,
		"tls-verification",
		"t",
		false,
		"Verify TLS certificates",
	)

	rootCmd.AddCommand(cli.NewTrainCmd())
	rootCmd.AddCommand(cli.NewEvaluateCmd())
	rootCmd.AddCommand(cli.NewPredictCmd())
	rootCmd.AddCommand(cli.NewHistoryCmd())
	rootCmd.AddCommand(cli.NewStatsCmd())
	rootCmd.AddCommand(cli.NewModelsCmd())
	rootCmd.AddCommand(cli.NewHealthCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
