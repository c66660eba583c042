package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitroom/models"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/sashabaranov/go-openai"
)

// TrialSummary is one stored styling summary of a trial's conversation.
type TrialSummary struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	TrialID   string    `json:"trialId"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
}

// SummaryStore is the summarizer surface the controllers depend on.
type SummaryStore interface {
	SummarizeTrial(ctx context.Context, trial models.Trial) (TrialSummary, error)
	LatestSummary(ctx context.Context, trialID, userID string) (TrialSummary, error)
}

// SummaryService condenses a trial's conversation into a short styling
// summary via OpenAI chat completion and keeps the results in the
// trial_summaries Postgres table.
type SummaryService struct {
	db     *sql.DB
	openAI *openai.Client
}

func NewSummaryService(postgresURI, openAIKey string) (*SummaryService, error) {
	connStr := postgresURI
	if !strings.Contains(postgresURI, "sslmode=") {
		if strings.Contains(postgresURI, "?") {
			connStr += "&sslmode=disable"
		} else {
			connStr += "?sslmode=disable"
		}
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	if err := ensureSummaryTable(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SummaryService{
		db:     db,
		openAI: openai.NewClient(openAIKey),
	}, nil
}

func ensureSummaryTable(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS trial_summaries (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            trial_id TEXT NOT NULL,
            summary TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )
    `)
	if err != nil {
		return fmt.Errorf("failed to create trial_summaries table: %w", err)
	}
	return nil
}

// SummarizeTrial runs the conversation through the chat model and persists
// the result. Image-only messages contribute a placeholder line so the model
// still sees the turn.
func (s *SummaryService) SummarizeTrial(ctx context.Context, trial models.Trial) (TrialSummary, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: "Summarize this virtual try-on conversation in a few sentences, focusing on the outfits the user explored and the adjustments they asked for.",
		},
	}

	for _, msg := range trial.Messages {
		content := msg.Text
		if content == "" && msg.ImageURL != "" {
			content = "(image)"
		}
		if content == "" {
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Sender,
			Content: content,
		})
	}

	resp, err := s.openAI.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    openai.GPT4TurboPreview,
		Messages: messages,
	})
	if err != nil {
		return TrialSummary{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return TrialSummary{}, fmt.Errorf("no content in summary response")
	}

	summary := TrialSummary{
		ID:        uuid.New().String(),
		UserID:    trial.UserID,
		TrialID:   trial.ID,
		Summary:   resp.Choices[0].Message.Content,
		CreatedAt: time.Now(),
	}

	_, err = s.db.ExecContext(ctx, `
        INSERT INTO trial_summaries (id, user_id, trial_id, summary, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `, summary.ID, summary.UserID, summary.TrialID, summary.Summary, summary.CreatedAt)
	if err != nil {
		return TrialSummary{}, fmt.Errorf("failed to save summary: %w", err)
	}

	return summary, nil
}

func (s *SummaryService) LatestSummary(ctx context.Context, trialID, userID string) (TrialSummary, error) {
	var summary TrialSummary
	err := s.db.QueryRowContext(ctx, `
        SELECT id, user_id, trial_id, summary, created_at
        FROM trial_summaries
        WHERE trial_id = $1 AND user_id = $2
        ORDER BY created_at DESC
        LIMIT 1
    `, trialID, userID).Scan(
		&summary.ID,
		&summary.UserID,
		&summary.TrialID,
		&summary.Summary,
		&summary.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return TrialSummary{}, ErrNotFound
	}
	if err != nil {
		return TrialSummary{}, fmt.Errorf("failed to load summary: %w", err)
	}

	return summary, nil
}
