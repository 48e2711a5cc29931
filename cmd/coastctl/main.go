package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/counter-map/internal/config"
	"github.com/counter-map/internal/delivery/http/mappage"
	"github.com/counter-map/internal/infrastructure/coast"
	"github.com/counter-map/internal/repository/memory"
	"github.com/counter-map/internal/usecase"
	"github.com/counter-map/internal/usecase/dto"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	outputFile string
	verbose    bool
	interval   int
	watchMode  bool
	format     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "coastctl",
		Short: "Fetch NC counter data and generate a static map page",
		Long: `coastctl fetches the statewide pedestrian and bicycle counter list
from the counts API and generates a static HTML map page.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := generateMapHTML(cmd)
			if err != nil {
				cmd.PrintErrln(fmt.Errorf("failed to generate map: %w", err))
				os.Exit(1)
			}

			if watchMode {
				runWatchMode(cmd)
			}
		},
	}

	// Flags
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "counters.html", "Output HTML file path")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.Flags().IntVarP(&interval, "interval", "i", 900, "Update interval in seconds (minimum 60)")
	rootCmd.Flags().BoolVar(&watchMode, "watch", false, "Continuously regenerate the map page")

	// Additional commands
	addListCmd(rootCmd)
	addExportCmd(rootCmd)
	addRawCmd(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads the config and builds the pieces every command needs.
func bootstrap() (*config.Config, *memory.CounterStore, *usecase.CounterUseCase, *usecase.MapUseCase, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := zap.NewNop()
	counterRepo := coast.NewClient(&cfg.Coast, log)
	store := memory.NewCounterStore()
	mapUC := usecase.NewMapUseCase(cfg.Dashboard.BaseURL, cfg.Search.TempMarkerTTL, log)
	counterUC := usecase.NewCounterUseCase(counterRepo, nil, store, mapUC, log, 0)

	return cfg, store, counterUC, mapUC, nil
}

// generateMapHTML fetches the counter list and writes the map page
func generateMapHTML(cmd *cobra.Command) error {
	cfg, store, counterUC, mapUC, err := bootstrap()
	if err != nil {
		return err
	}

	if verbose {
		cmd.Println("Fetching counter list...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := counterUC.Load(ctx); err != nil {
		return fmt.Errorf("failed to fetch counters: %w", err)
	}

	if verbose {
		cmd.Println(fmt.Sprintf("Generating HTML to %s...", outputFile))
	}

	camera := mapUC.Camera()
	page, err := mappage.Render(
		"NC Pedestrian and Bicycle Counters",
		cfg.Mapbox.AccessToken,
		mapUC.Markers(),
		camera.Latitude, camera.Longitude, camera.Zoom,
	)
	if err != nil {
		return fmt.Errorf("failed to generate HTML: %w", err)
	}

	if err := os.WriteFile(outputFile, page, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputFile, err)
	}

	cmd.Println(fmt.Sprintf("Map page with %d counters saved to %s", store.Len(), outputFile))
	return nil
}

// runWatchMode continuously regenerates the map page
func runWatchMode(cmd *cobra.Command) {
	if interval < 60 {
		interval = 60
	}

	cmd.Println(fmt.Sprintf("Watch mode activated. Updating every %d seconds. Press Ctrl+C to stop.", interval))

	ticker := time.NewTicker(time.Duration(interval) * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		err := generateMapHTML(cmd)
		if err != nil {
			cmd.PrintErrln(fmt.Errorf("update failed: %w", err))
		}
	}
}

// addListCmd adds a 'list' subcommand printing the counter inventory
func addListCmd(rootCmd *cobra.Command) {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List counters from the counts API",
		Run: func(cmd *cobra.Command, args []string) {
			_, store, counterUC, _, err := bootstrap()
			if err != nil {
				cmd.PrintErrln(err)
				os.Exit(1)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := counterUC.Load(ctx); err != nil {
				cmd.PrintErrln(fmt.Errorf("failed to fetch counters: %w", err))
				os.Exit(1)
			}

			counters := store.All()
			if len(counters) == 0 {
				cmd.Println("No counters available.")
				return
			}

			cmd.Println("Counters:")
			for _, c := range counters {
				cmd.Println(fmt.Sprintf("  [%d] %s (%s) at %.5f, %.5f",
					c.CounterID, c.CounterName, c.Vendor, c.Latitude, c.Longitude))
			}
			cmd.Println(fmt.Sprintf("Total: %d", len(counters)))
		},
	}
	rootCmd.AddCommand(listCmd)
}

// addExportCmd adds an 'export' subcommand writing the metadata file
func addExportCmd(rootCmd *cobra.Command) {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export counter metadata to JSON, CSV or XLSX",
		Run: func(cmd *cobra.Command, args []string) {
			_, store, counterUC, _, err := bootstrap()
			if err != nil {
				cmd.PrintErrln(err)
				os.Exit(1)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := counterUC.Load(ctx); err != nil {
				cmd.PrintErrln(fmt.Errorf("failed to fetch counters: %w", err))
				os.Exit(1)
			}

			cfg, err := config.Load()
			if err != nil {
				cmd.PrintErrln(err)
				os.Exit(1)
			}
			exportUC := usecase.NewExportUseCase(
				coast.NewClient(&cfg.Coast, zap.NewNop()), nil, store, zap.NewNop(), 0)

			file, err := exportUC.ExportMetadata(dto.ExportFormat(format))
			if err != nil {
				cmd.PrintErrln(fmt.Errorf("export failed: %w", err))
				os.Exit(1)
			}

			if err := os.WriteFile(file.Name, file.Data, 0o644); err != nil {
				cmd.PrintErrln(fmt.Errorf("failed to write %s: %w", file.Name, err))
				os.Exit(1)
			}
			cmd.Println(fmt.Sprintf("Metadata saved to %s", file.Name))
		},
	}
	exportCmd.Flags().StringVarP(&format, "format", "f", "json", "Export format: json, csv or xlsx")
	rootCmd.AddCommand(exportCmd)
}

// addRawCmd adds a 'raw' subcommand downloading the count archive for one counter
func addRawCmd(rootCmd *cobra.Command) {
	rawCmd := &cobra.Command{
		Use:   "raw <counter-id>",
		Short: "Download the raw count archive for a counter",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				cmd.PrintErrln(fmt.Errorf("invalid counter id %q", args[0]))
				os.Exit(1)
			}

			cfg, store, counterUC, _, err := bootstrap()
			if err != nil {
				cmd.PrintErrln(err)
				os.Exit(1)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := counterUC.Load(ctx); err != nil {
				cmd.PrintErrln(fmt.Errorf("failed to fetch counters: %w", err))
				os.Exit(1)
			}

			exportUC := usecase.NewExportUseCase(
				coast.NewClient(&cfg.Coast, zap.NewNop()), nil, store, zap.NewNop(), 0)

			cmd.Println(fmt.Sprintf("Exporting raw data for counter %d...", id))
			file, err := exportUC.ExportRaw(ctx, id)
			if err != nil {
				cmd.PrintErrln(fmt.Errorf("export failed: %w", err))
				os.Exit(1)
			}

			if err := os.WriteFile(file.Name, file.Data, 0o644); err != nil {
				cmd.PrintErrln(fmt.Errorf("failed to write %s: %w", file.Name, err))
				os.Exit(1)
			}
			cmd.Println(fmt.Sprintf("Archive saved to %s", file.Name))
		},
	}
	rootCmd.AddCommand(rawCmd)
}
