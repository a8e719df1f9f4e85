package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "careerspark",
	Short: "CareerSpark resume intelligence service",
	Long:  "CareerSpark analyzes resumes with an LLM, finds matching job openings and keeps the results per user.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
