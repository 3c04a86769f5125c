package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"quiz-client/internal/client"
	"quiz-client/internal/config"
	"quiz-client/internal/infra/memory"
	"quiz-client/internal/infra/postgres"
	infraredis "quiz-client/internal/infra/redis"
	"quiz-client/internal/protocol"
	"quiz-client/internal/transport/ws"
	"quiz-client/internal/ui"
)

const defaultHistoryLimit = 20

var errOperatorQuit = errors.New("operator quit")

// NewPlayCmd builds the CLI subcommand that joins and plays quizzes.
func NewPlayCmd(configPath, serverURL, username *string, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Join a quiz and play until the operator quits",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath, *serverURL, *username, *verbose)
		},
	}
}

func runPlay(ctx context.Context, configPath, serverFlag, usernameFlag string, verbose bool) error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	serverURL := serverFlag
	if serverURL == "" {
		serverURL = cfg.Server.URL
	}
	if serverURL == "" {
		serverURL = "ws://localhost:8081/ws"
	}

	term := ui.NewTerminal(os.Stdin, os.Stdout)

	name := usernameFlag
	if name == "" {
		if name, err = term.Username(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recorder, cleanup, err := newRecorder(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	socket, err := ws.Dial(ctx, serverURL)
	if err != nil {
		return fmt.Errorf("connect to quiz server: %w", err)
	}
	defer socket.Close()
	socket.WithLogger(log.With().Str("component", "transport").Logger())
	log.Info().Str("server", serverURL).Str("username", name).Msg("connected")

	questionTime := config.TTLDuration(cfg.Quiz.QuestionTime, protocol.DefaultQuestionTime)
	cl := client.New(socket, term, term, name,
		client.WithQuestionTime(questionTime),
		client.WithRecorder(recorder),
		client.WithLogger(log.With().Str("component", "client").Logger()),
	)
	cl.Start()
	defer cl.Close()

	quizID, err := term.QuizID()
	if err != nil || quizID == client.QuitSentinel {
		return nil
	}
	if err := cl.Join(quizID); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return socket.Listen(gctx)
	})
	g.Go(func() error {
		select {
		case <-cl.Done():
			return errOperatorQuit
		case <-gctx.Done():
			return gctx.Err()
		}
	})

	err = g.Wait()
	if err != nil && !errors.Is(err, errOperatorQuit) && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msg("session closed")
	return nil
}

// newRecorder picks the result store from config: Postgres archive when
// a URL is set (migrating first), Redis history when an address is set,
// otherwise an in-process fallback.
func newRecorder(ctx context.Context, cfg config.Config) (client.Recorder, func(), error) {
	limit := cfg.History.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	switch {
	case cfg.Postgres.URL != "":
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return postgres.NewArchive(pool), pool.Close, nil
	case cfg.Redis.Addr != "":
		rc := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ttl := config.TTLDuration(cfg.Redis.TTL, 30*24*time.Hour)
		return infraredis.NewHistoryStore(rc, ttl, limit), func() { _ = rc.Close() }, nil
	default:
		return memory.NewHistoryStore(limit), func() {}, nil
	}
}
