package main

import (
	"encoding/json"
	"finsight/dashboard"
	"finsight/services"
	"finsight/types"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze one document and print the dashboard as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defer zap.L().Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("error reading %s: %w", path, err)
		}

		application, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer application.events.Close()

		upload := types.Upload{Name: filepath.Base(path), Size: int64(len(data)), Data: data}
		result, err := application.analysis.Analyze(ctx, services.AnalysisRequest{Upload: &upload})
		if err != nil {
			return fmt.Errorf("%s (%s)", types.UserMessage(err), types.KindOf(err))
		}

		var out any = result
		if raw, _ := cmd.Flags().GetBool("raw"); !raw {
			params := dashboard.Params{}
			params.Entity, _ = cmd.Flags().GetString("entity")
			params.Year, _ = cmd.Flags().GetString("year")
			params.Metric, _ = cmd.Flags().GetString("metric")
			out = dashboard.Build(result, upload.Name, params, application.options)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	analyzeCmd.Flags().String("entity", "", "entity to show (default: Overview)")
	analyzeCmd.Flags().String("year", "", "fiscal year label (default: preferred year present in the data)")
	analyzeCmd.Flags().String("metric", "", "metric label for the cross-entity comparison")
	analyzeCmd.Flags().Bool("raw", false, "print the normalized analysis instead of the dashboard")
}
