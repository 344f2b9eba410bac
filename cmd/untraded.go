package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-mgi/internal/engine"
	"github.com/pable/go-lol-mgi/internal/events"
	"github.com/pable/go-lol-mgi/internal/model"
	"github.com/pable/go-lol-mgi/internal/report"
	"github.com/pable/go-lol-mgi/internal/storage"
)

const (
	eventsFileName   = "events.jsonl"
	endStateFileName = "end_state.json"
	mistakesFileName = "mistakes_untraded.json"
)

var (
	untradedSeriesID       string
	untradedTop            int
	untradedFightGap       int
	untradedAnswerWindow   int
	untradedPressureWindow int
	untradedContextWindow  int
	untradedNoStore        bool
)

var untradedCmd = &cobra.Command{
	Use:   "untraded",
	Short: "Detect, score and store untraded deaths for a downloaded series",
	Long: `Reads <data-dir>/raw/series_<id>/events.jsonl (and end_state.json for team
names), finds deaths the victim's team never traded in the same fight, correlates
them with map objectives and writes the scored list to
<data-dir>/derived/series_<id>/mistakes_untraded.json.

Examples:
  mgi series fetch --series-id 2616320
  mgi untraded --series-id 2616320 --top 15
  mgi untraded --series-id 2616320 --fight-gap 30 --no-store`,
	Args: cobra.NoArgs,
	RunE: runUntraded,
}

func init() {
	untradedCmd.Flags().StringVar(&untradedSeriesID, "series-id", "", "GRID series id (required)")
	untradedCmd.Flags().IntVar(&untradedTop, "top", engine.DefaultTop, "number of top mistakes to print")
	untradedCmd.Flags().IntVar(&untradedFightGap, "fight-gap", engine.DefaultFightGapSeconds, "max seconds between kills of one fight")
	untradedCmd.Flags().IntVar(&untradedAnswerWindow, "answer-window", engine.DefaultAnswerWindowSeconds, "seconds after a death an objective can answer it")
	untradedCmd.Flags().IntVar(&untradedPressureWindow, "pressure-window", engine.DefaultPressureWindowSeconds, "seconds around a death counted as objective pressure")
	untradedCmd.Flags().IntVar(&untradedContextWindow, "context-window", engine.DefaultContextWindowSeconds, "seconds around a death counted as objective context")
	untradedCmd.Flags().BoolVar(&untradedNoStore, "no-store", false, "skip writing the analysis to the database")
	_ = untradedCmd.MarkFlagRequired("series-id")
}

// untradedParams starts from the configured windows and applies explicit flags.
func untradedParams(cmd *cobra.Command) engine.Params {
	p := cfg.EngineParams()
	flags := cmd.Flags()
	if flags.Changed("top") {
		p.Top = untradedTop
	}
	if flags.Changed("fight-gap") {
		p.FightGap = time.Duration(untradedFightGap) * time.Second
	}
	if flags.Changed("answer-window") {
		p.AnswerWindow = time.Duration(untradedAnswerWindow) * time.Second
	}
	if flags.Changed("pressure-window") {
		p.PressureWindow = time.Duration(untradedPressureWindow) * time.Second
	}
	if flags.Changed("context-window") {
		p.ContextWindow = time.Duration(untradedContextWindow) * time.Second
	}
	return p
}

func runUntraded(cmd *cobra.Command, args []string) error {
	seriesID := untradedSeriesID
	rawDir := cfg.RawDir(seriesID)

	stream, err := events.NewDecoder(log).DecodeFile(filepath.Join(rawDir, eventsFileName))
	if err != nil {
		if errors.Is(err, events.ErrNoEvents) {
			fmt.Fprintf(os.Stderr, "No events for series %s. Run 'mgi series fetch --series-id %s' first.\n", seriesID, seriesID)
		}
		return err
	}
	teamNames, err := events.LoadTeamNames(filepath.Join(rawDir, endStateFileName))
	if err != nil {
		log.Warn().Err(err).Str("series", seriesID).Msg("team names unavailable")
		teamNames = map[string]string{}
	}

	p := untradedParams(cmd)
	log.Debug().
		Str("series", seriesID).
		Int("kills", len(stream.Kills)).
		Int("objectives", len(stream.Objectives)).
		Int("warnings", len(stream.Warnings)).
		Msg("decoded events")

	res := engine.Run(engine.Input{
		Kills:      stream.Kills,
		Objectives: stream.SortedObjectives(),
		TeamNames:  teamNames,
	}, p)
	log.Debug().
		Str("series", seriesID).
		Int("fights", res.Clustered.Count()).
		Int("mistakes", len(res.Mistakes)).
		Msg("classified deaths")

	outPath := filepath.Join(cfg.DerivedDir(seriesID), mistakesFileName)
	if err := report.WriteJSON(outPath, res.Scored); err != nil {
		return fmt.Errorf("write mistakes: %w", err)
	}
	log.Info().Str("path", outPath).Int("mistakes", len(res.Scored)).Msg("wrote mistakes")

	if !untradedNoStore {
		if err := storeAnalysis(seriesID, p, res); err != nil {
			return err
		}
	}

	report.PrintSummary(os.Stdout, seriesID, res.Summary, len(stream.Warnings))
	if len(res.Summary.Top) > 0 {
		report.PrintTopMistakes(os.Stdout, res.Summary.Top)
		fmt.Fprintln(os.Stdout)
	}
	if len(res.Summary.Teams) > 0 {
		report.PrintTeamTable(os.Stdout, res.Summary.Teams)
		fmt.Fprintln(os.Stdout)
	}
	if len(res.Summary.Players) > 0 {
		report.PrintPlayerTable(os.Stdout, res.Summary.Players, teamNames)
	}
	return nil
}

func storeAnalysis(seriesID string, p engine.Params, res *engine.Result) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	rec := model.SeriesRecord{
		SeriesID:        seriesID,
		AnalyzedAt:      storage.FormatTime(time.Now()),
		Kills:           res.Summary.Kills,
		Mistakes:        res.Summary.Mistakes,
		Answered:        res.Summary.Answered,
		FightGapSeconds: int(p.FightGap / time.Second),
		AnswerWindow:    int(p.AnswerWindow / time.Second),
		PressureWindow:  int(p.PressureWindow / time.Second),
		ContextWindow:   int(p.ContextWindow / time.Second),
	}
	runID, err := db.InsertAnalysis(rec, res.Scored, res.Summary.Teams)
	if err != nil {
		return fmt.Errorf("store analysis: %w", err)
	}
	log.Debug().Str("series", seriesID).Str("run_id", runID).Msg("stored analysis")
	return nil
}
