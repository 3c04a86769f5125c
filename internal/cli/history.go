package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-client/internal/config"
	infraredis "quiz-client/internal/infra/redis"
)

// NewHistoryCmd lists recent quiz results for the configured user.
func NewHistoryCmd(configPath, username *string) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recent quiz results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), *configPath, *username)
		},
	}
}

func runHistory(ctx context.Context, configPath, username string) error {
	if username == "" {
		return errors.New("history needs --username (or QUIZ_USERNAME)")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Redis.Addr == "" {
		return errors.New("history needs a redis address in config")
	}

	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rc.Close()

	limit := cfg.History.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	ttl := config.TTLDuration(cfg.Redis.TTL, 30*24*time.Hour)

	store := infraredis.NewHistoryStore(rc, ttl, limit)
	results, err := store.Results(ctx, username, limit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Printf("No quiz history for %s.\n", username)
		return nil
	}

	for _, result := range results {
		fmt.Printf("%s  quiz %-8s score %d\n",
			result.FinishedAt.Format("2006-01-02 15:04"), result.QuizID, result.Score)
	}
	return nil
}
