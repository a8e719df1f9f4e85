package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/config"
	"github.com/SahilShaikh-7/careerspark-pplx/internal/repositories"
	"github.com/SahilShaikh-7/careerspark-pplx/internal/services"
)

var (
	reportID     string
	reportFormat string
	reportOut    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export a saved analysis as a text or Excel report",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportID, "id", "", "Resume analysis ID (required)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "txt", "Report format: txt or xlsx")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Output path (defaults to CareerSpark_Report_<name>.<format>)")
	_ = reportCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	id, err := uuid.Parse(reportID)
	if err != nil {
		return fmt.Errorf("invalid resume ID: %w", err)
	}

	format, err := services.ParseReportFormat(reportFormat)
	if err != nil {
		return err
	}

	cfg := config.Load()
	db, err := config.InitDatabase(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	resume, err := repositories.NewResumeRepository(db).FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load resume %s: %w", id, err)
	}

	body, err := services.RenderReport(resume, format)
	if err != nil {
		return err
	}

	out := reportOut
	if out == "" {
		out = services.ReportFilename(resume.Filename, format)
	}
	if err := os.WriteFile(out, body, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Report written to %s\n", out)
	return nil
}
