package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/charmbracelet/log"
	"github.com/tomz197/snake/internal/audio"
	"github.com/tomz197/snake/internal/audio/device"
	"github.com/tomz197/snake/internal/config"
	"github.com/tomz197/snake/internal/loop"
	"github.com/tomz197/snake/internal/loop/client"
	"github.com/tomz197/snake/internal/tui"
)

func main() {
	// The terminal belongs to the game while it runs, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("SNAKE_LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, "snake")

	result, err := run(logger)
	if err != nil {
		logger.Error("game error", "err", err)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
	if len(result.Players) > 0 {
		fmt.Println(summary(result))
	}
}

func run(logger *log.Logger) (loop.Result, error) {
	settings := config.FromEnv()
	if err := settings.Validate(); err != nil {
		return loop.Result{}, err
	}
	players := config.GetEnvInt("SNAKE_PLAYERS", 1)
	seed := uint64(config.GetEnvInt("SNAKE_SEED", int(time.Now().UnixNano())))

	var sink audio.Sink = audio.Nop{}
	if !config.GetEnvBool("SNAKE_MUTE", false) {
		sp := device.NewSpeaker(settings.EffectsVolume, settings.MusicVolume, logger)
		if err := sp.Init(); err == nil {
			defer sp.Close()
			sink = sp
		}
	}

	session, err := loop.New(loop.Options{
		Settings: settings,
		Players:  players,
		Sink:     sink,
		Seed:     seed,
		Logger:   logger,
	})
	if err != nil {
		return loop.Result{}, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting session", "players", players, "seed", seed, "ui", config.GetEnv("SNAKE_UI", "ansi"))

	switch ui := config.GetEnv("SNAKE_UI", "ansi"); ui {
	case "tcell":
		err = runTcell(ctx, session, settings, players)
	case "ansi":
		err = runANSI(ctx, session, settings, players)
	default:
		return loop.Result{}, fmt.Errorf("unknown SNAKE_UI %q (want ansi or tcell)", ui)
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	result := session.Result()
	logger.Info("session finished", "scores", result.Scores(), "completed", session.Finished())
	return result, err
}

func runANSI(ctx context.Context, session *loop.Session, settings config.Settings, players int) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	c := client.NewClient(os.Stdin, os.Stdout, client.Options{
		Settings: settings,
		Players:  players,
	})
	c.Start()
	defer c.Close()

	return loop.Run(ctx, session, c, c)
}

func runTcell(ctx context.Context, session *loop.Session, settings config.Settings, players int) error {
	screen, err := tui.Open(settings, players)
	if err != nil {
		return err
	}
	defer screen.Close()

	return loop.Run(ctx, session, screen, screen)
}

func summary(r loop.Result) string {
	if len(r.Players) == 1 {
		return fmt.Sprintf("Final Score: %d", r.Players[0].Score)
	}
	s := "Final Score:"
	for _, p := range r.Players {
		s += fmt.Sprintf(" P%d %d", p.Player+1, p.Score)
	}
	return s
}
