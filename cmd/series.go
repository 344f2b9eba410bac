package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-mgi/internal/grid"
)

// series command flags.
var (
	// seriesTournamentID is the Central Data tournament to list.
	seriesTournamentID string
	// seriesTeam keeps only series with a team whose name contains it.
	seriesTeam string
	// seriesLimit caps printed rows; 0 prints all.
	seriesLimit int
	// seriesFetchID is the series whose files are downloaded.
	seriesFetchID string
)

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "GRID series commands",
}

var seriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List series ids for a tournament (optionally filtered by team name)",
	Args:  cobra.NoArgs,
	RunE:  runSeriesList,
}

var seriesFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download a series' event log and end state into the data directory",
	Long: `Downloads the GRID event log of a series into
<data-dir>/raw/series_<id>/events.jsonl, unpacking .zip and .zst archives,
plus the end state (team names) into end_state.json when available.

Example:
  mgi series fetch --series-id 2616320`,
	Args: cobra.NoArgs,
	RunE: runSeriesFetch,
}

func init() {
	seriesListCmd.Flags().StringVar(&seriesTournamentID, "tournament-id", "", "tournament id (required)")
	seriesListCmd.Flags().StringVar(&seriesTeam, "team", "", `filter by team name substring, e.g. "Cloud9"`)
	seriesListCmd.Flags().IntVar(&seriesLimit, "limit", 20, "max rows to print")
	_ = seriesListCmd.MarkFlagRequired("tournament-id")

	seriesFetchCmd.Flags().StringVar(&seriesFetchID, "series-id", "", "GRID series id (required)")
	_ = seriesFetchCmd.MarkFlagRequired("series-id")

	seriesCmd.AddCommand(seriesListCmd)
	seriesCmd.AddCommand(seriesFetchCmd)
}

func runSeriesList(cmd *cobra.Command, args []string) error {
	cd, err := centralData()
	if err != nil {
		return err
	}
	list, err := cd.SeriesByTournament(cmd.Context(), seriesTournamentID, seriesTeam, grid.DefaultMaxPages)
	if err != nil {
		return fmt.Errorf("list series: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(os.Stdout, "No series found for given filters.")
		return nil
	}

	count := 0
	for _, s := range list {
		fmt.Fprintf(os.Stdout, "%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.StartTimeScheduled, s.TitleShort, s.TournamentName, strings.Join(s.Teams, ", "))
		count++
		if seriesLimit > 0 && count >= seriesLimit {
			break
		}
	}
	fmt.Fprintf(os.Stdout, "\nReturned %d series (filtered).\n", count)
	return nil
}

func runSeriesFetch(cmd *cobra.Command, args []string) error {
	key, err := cfg.RequireGridKey()
	if err != nil {
		return err
	}
	fd := grid.NewFileDownload(grid.NewClient(cfg.GridFileDownloadURL, key, cfg.GridRequestsPerSecond))
	return doFetch(cmd.Context(), fd, seriesFetchID, cfg.RawDir(seriesFetchID))
}

// doFetch downloads the events and end-state files of a series into rawDir.
func doFetch(ctx context.Context, fd *grid.FileDownload, seriesID, rawDir string) error {
	files, err := fd.ListFiles(ctx, seriesID)
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}
	if err := grid.SaveJSON(filepath.Join(rawDir, "files.json"), files); err != nil {
		return fmt.Errorf("save file list: %w", err)
	}

	eventsFile, stateFile := pickFiles(files)
	if eventsFile == nil {
		return fmt.Errorf("series %s: no ready events file among %d files", seriesID, len(files))
	}

	eventsPath := filepath.Join(rawDir, eventsFileName)
	if err := fetchEvents(ctx, fd, *eventsFile, rawDir, eventsPath); err != nil {
		return err
	}
	log.Info().Str("series", seriesID).Str("path", eventsPath).Msg("events downloaded")

	if stateFile == nil {
		log.Warn().Str("series", seriesID).Msg("no end state file, team names will be ids")
		return nil
	}
	statePath := filepath.Join(rawDir, endStateFileName)
	if err := fd.Download(ctx, stateFile.FullURL, statePath); err != nil {
		// Team names are optional; the analysis still runs without them.
		log.Warn().Err(err).Str("series", seriesID).Msg("end state download failed")
		return nil
	}
	log.Info().Str("series", seriesID).Str("path", statePath).Msg("end state downloaded")
	return nil
}

// pickFiles selects the first ready events file and end-state file.
func pickFiles(files []grid.FileInfo) (events, state *grid.FileInfo) {
	for i := range files {
		f := &files[i]
		if f.FullURL == "" || (f.Status != "" && f.Status != "ready") {
			continue
		}
		id := strings.ToLower(f.ID)
		switch {
		case strings.Contains(id, "state"):
			if state == nil {
				state = f
			}
		case strings.Contains(id, "events"):
			if events == nil {
				events = f
			}
		}
	}
	return events, state
}

// fetchEvents downloads an events artifact and unpacks it to eventsPath.
func fetchEvents(ctx context.Context, fd *grid.FileDownload, f grid.FileInfo, rawDir, eventsPath string) error {
	name := strings.ToLower(f.FileName)
	if name == "" {
		name = strings.ToLower(filepath.Base(f.FullURL))
	}

	switch {
	case strings.HasSuffix(name, ".zip"):
		archive := filepath.Join(rawDir, "events.zip")
		if err := fd.Download(ctx, f.FullURL, archive); err != nil {
			return fmt.Errorf("download events: %w", err)
		}
		defer os.Remove(archive)
		if err := grid.ExtractFirstJSONL(archive, eventsPath); err != nil {
			return fmt.Errorf("extract events: %w", err)
		}
	case strings.HasSuffix(name, ".zst"):
		archive := filepath.Join(rawDir, "events.jsonl.zst")
		if err := fd.Download(ctx, f.FullURL, archive); err != nil {
			return fmt.Errorf("download events: %w", err)
		}
		defer os.Remove(archive)
		if err := grid.DecompressZstd(archive, eventsPath); err != nil {
			return fmt.Errorf("decompress events: %w", err)
		}
	default:
		if err := fd.Download(ctx, f.FullURL, eventsPath); err != nil {
			return fmt.Errorf("download events: %w", err)
		}
	}
	return nil
}
