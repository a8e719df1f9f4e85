package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/services"
)

var (
	analyzeFile   string
	analyzeUserID string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a resume file from the command line",
	Long:  "Run one resume through upload, analysis, job matching and persistence, printing progress and the text report.",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Path to the resume (.pdf, .docx, .doc, .txt)")
	analyzeCmd.Flags().StringVarP(&analyzeUserID, "user-id", "u", "", "Owner user ID (UUID)")
	_ = analyzeCmd.MarkFlagRequired("file")
	_ = analyzeCmd.MarkFlagRequired("user-id")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	userID, err := uuid.Parse(analyzeUserID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}

	if !services.IsSupportedResumeFile(analyzeFile) {
		return fmt.Errorf("unsupported file type: %s", filepath.Ext(analyzeFile))
	}

	data, err := os.ReadFile(analyzeFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", analyzeFile, err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	out := cmd.OutOrStdout()
	observer := services.MultiObserver(
		func(p services.Progress) {
			fmt.Fprintf(out, "[%3d%%] %s\n", p.Percentage, p.Message)
		},
		services.PublishingObserver(app.publisher),
	)

	resume, err := app.pipeline.Submit(ctx, services.Submission{
		File: services.UploadFile{
			Name:        filepath.Base(analyzeFile),
			ContentType: mime.TypeByExtension(filepath.Ext(analyzeFile)),
			Size:        int64(len(data)),
			Data:        data,
		},
		Identity: services.Identity{UserID: userID},
	}, observer)
	if err != nil {
		return err
	}

	if app.jobIndex != nil && len(resume.MatchedJobs) > 0 {
		if err := app.jobIndex.IndexResume(ctx, resume); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to index matched jobs: %v\n", err)
		}
	}

	fmt.Fprintf(out, "\nSaved as %s\n\n", resume.ID)
	fmt.Fprint(out, services.RenderTextReport(resume))
	return nil
}
