package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-lol-mgi/internal/model"
	"github.com/pable/go-lol-mgi/internal/storage"
)

const explainSystemPrompt = `You are a League of Legends macro analyst. You are given structured data
from a tool that finds untraded deaths in a pro series and a question from a coach.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers, players and timestamps when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable: focus on patterns the team can fix.

Glossary:
- Untraded death: a player died and their team scored no kill later in the same fight.
- Fight: kills separated by at most fightGapSeconds.
- gravityMvp: game-phase weight of the death (25 early, 30 mid, 35 late).
- mgiScore: gravityMvp + 10 if no objective answered the death, + 8 if a major objective
  was taken within the pressure window (else + 3 within the context window), + the
  objective's weight (baron/elder/atakhan 8, drake/herald 5, tower 4, fortifier 3, plate/voidgrub 2).
- answer: an objective the victim's team took within the answer window after the death.`

// explainMistakeLimit bounds the mistakes sent as context.
const explainMistakeLimit = 40

var (
	explainModel  string
	explainAPIKey string
)

var explainCmd = &cobra.Command{
	Use:   "explain <series-prefix> <question>",
	Short: "AI-grounded explanation of a stored analysis (requires ANTHROPIC_API_KEY)",
	Args:  cobra.ExactArgs(2),
	RunE:  runExplain,
}

func init() {
	explainCmd.Flags().StringVar(&explainModel, "model", "", "Anthropic model to use (default from config)")
	explainCmd.Flags().StringVar(&explainAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
}

func runExplain(cmd *cobra.Command, args []string) error {
	prefix, question := args[0], args[1]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	rec, err := db.GetSeriesByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query series: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("no series found with id prefix %q", prefix)
	}

	contextJSON, err := buildSeriesContext(db, rec)
	if err != nil {
		return err
	}

	modelID := explainModel
	if modelID == "" {
		modelID = cfg.AnthropicModel
	}
	return callAnthropic(cmd.Context(), explainAPIKey, modelID, contextJSON, question)
}

// buildSeriesContext serialises the stored analysis of a series for the model.
func buildSeriesContext(db *storage.DB, rec *model.SeriesRecord) (string, error) {
	teams, err := db.GetTeamSummaries(rec.SeriesID)
	if err != nil {
		return "", fmt.Errorf("get team summaries: %w", err)
	}
	rows, err := db.GetMistakes(rec.SeriesID, explainMistakeLimit)
	if err != nil {
		return "", fmt.Errorf("get mistakes: %w", err)
	}

	type teamCtx struct {
		Team         string  `json:"team"`
		Untraded     int     `json:"untraded"`
		Deaths       int     `json:"deaths"`
		UntradedRate float64 `json:"untradedRate"`
		MGIScore     int     `json:"mgiScore"`
	}
	type mistakeCtx struct {
		At       string `json:"at"`
		Victim   string `json:"victim"`
		Team     string `json:"team"`
		Gravity  int    `json:"gravityMvp"`
		MGIScore int    `json:"mgiScore"`
		Answer   string `json:"answer,omitempty"`
		Near     string `json:"near,omitempty"`
		Pressure bool   `json:"pressure"`
		Details  string `json:"details"`
	}

	payload := struct {
		SeriesID        string       `json:"seriesId"`
		Kills           int          `json:"kills"`
		Untraded        int          `json:"untraded"`
		Answered        int          `json:"answered"`
		FightGapSeconds int          `json:"fightGapSeconds"`
		AnswerWindow    int          `json:"answerWindowSeconds"`
		PressureWindow  int          `json:"pressureWindowSeconds"`
		ContextWindow   int          `json:"contextWindowSeconds"`
		Teams           []teamCtx    `json:"teams"`
		TopMistakes     []mistakeCtx `json:"topMistakes"`
	}{
		SeriesID:        rec.SeriesID,
		Kills:           rec.Kills,
		Untraded:        rec.Mistakes,
		Answered:        rec.Answered,
		FightGapSeconds: rec.FightGapSeconds,
		AnswerWindow:    rec.AnswerWindow,
		PressureWindow:  rec.PressureWindow,
		ContextWindow:   rec.ContextWindow,
	}

	for _, t := range teams {
		name := t.TeamName
		if name == "" {
			name = t.TeamID
		}
		payload.Teams = append(payload.Teams, teamCtx{
			Team:         name,
			Untraded:     t.Untraded,
			Deaths:       t.TotalDeaths,
			UntradedRate: round2(t.UntradedRate()),
			MGIScore:     t.TotalMGIScore,
		})
	}
	for _, m := range rows {
		mc := mistakeCtx{
			At:       m.OccurredAt,
			Victim:   m.VictimName,
			Team:     m.VictimTeamName,
			Gravity:  m.GravityMVP,
			MGIScore: m.MGIScore,
			Pressure: m.IsPressureObjective,
			Details:  m.Details,
		}
		if mc.Team == "" {
			mc.Team = m.VictimTeamID
		}
		if m.AnsweredByObjective {
			mc.Answer = fmt.Sprintf("%s %+ds", m.AnswerKind, m.AnswerDelta)
		}
		if m.IsNearObjective {
			mc.Near = fmt.Sprintf("%s %+ds", m.NearKind, m.NearDelta)
		}
		payload.TopMistakes = append(payload.TopMistakes, mc)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal context: %w", err)
	}
	return string(data), nil
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: explainSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed, check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
