package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "aquasentry",
	Short: "AquaSentry - Water Quality Health Surveillance System",
	Long: `AquaSentry monitors water quality sensors, scores disease risk with an
ML model and alerts health workers before an outbreak develops.`,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing config.yaml")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
