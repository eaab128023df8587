// Command labyrinth runs the Theseus and Minotaur labyrinth game.
//
// It supports these commands:
//  1. "play" – a line-based game in the terminal
//  2. "show" – render a level's start position
//  3. "levels" – list the levels in the levels directory
//  4. "solve" – print the shortest winning command sequence of a level
//  5. "mcp" – serve the game to AI agents as MCP tools over stdio
//
// Flags (or a YAML settings file) control the levels directory, debug logging
// and how long idle MCP sessions are kept.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/mcp-training/labyrinth/config"
	"github.com/wricardo/mcp-training/labyrinth/game/engine"
	"github.com/wricardo/mcp-training/labyrinth/game/highscore"
	"github.com/wricardo/mcp-training/labyrinth/game/levels"
	"github.com/wricardo/mcp-training/labyrinth/game/service"
	"github.com/wricardo/mcp-training/labyrinth/game/session"
	"github.com/wricardo/mcp-training/labyrinth/game/solver"
	"github.com/wricardo/mcp-training/labyrinth/transport/mcp"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Labyrinth"
)

// main loads the environment and runs the selected command.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the services shared by the commands. They are built on first use
// so that help output works without a levels directory.
type app struct {
	settings config.Settings
	logger   *zap.Logger
	levels   *levels.Manager
	sessions *session.Manager
	game     service.GameService
}

func newCommand() *cli.Command {
	a := &app{}
	return &cli.Command{
		Name:    "labyrinth",
		Usage:   "Lead Theseus out of the labyrinth before the Minotaur catches him",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "levels-dir",
				Value:   config.DefaultLevelsDir,
				Usage:   "Directory containing level<N>.json|yaml files",
				Sources: cli.EnvVars("LEVELS_DIR"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "YAML settings file",
				Sources: cli.EnvVars("LABYRINTH_CONFIG"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("LABYRINTH_DEBUG"),
			},
			&cli.DurationFlag{
				Name:    "session-ttl",
				Value:   config.DefaultSessionTTL,
				Usage:   "Idle time after which MCP sessions are removed",
				Sources: cli.EnvVars("SESSION_TTL"),
			},
		},
		After: a.teardown,
		Commands: []*cli.Command{
			{
				Name:  "play",
				Usage: "Play a level in the terminal",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "level",
						Usage: "Level number (0 picks a random level)",
					},
				},
				Action: a.play,
			},
			{
				Name:      "show",
				Usage:     "Render a level's start position",
				ArgsUsage: "<level>",
				Action:    a.show,
			},
			{
				Name:   "levels",
				Usage:  "List the available levels",
				Action: a.listLevels,
			},
			{
				Name:      "solve",
				Usage:     "Print the shortest winning command sequence of a level",
				ArgsUsage: "<level>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "max-turns",
						Value: solver.DefaultMaxTurns,
						Usage: "Give up on solutions longer than this",
					},
					&cli.IntFlag{
						Name:  "max-states",
						Value: solver.DefaultMaxStates,
						Usage: "Give up after exploring this many positions",
					},
				},
				Action: a.solve,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp"},
				Usage:   "Serve the game as MCP tools over stdio",
				Action:  a.serveMCP,
			},
		},
	}
}

// setup resolves the settings and builds the services
func (a *app) setup(cmd *cli.Command) error {
	if a.game != nil {
		return nil
	}

	settings := config.Default()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		settings = loaded
	}
	if cmd.IsSet("levels-dir") {
		settings.LevelsDir = cmd.String("levels-dir")
	}
	if cmd.IsSet("debug") {
		settings.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("session-ttl") {
		settings.SessionTTL = cmd.Duration("session-ttl")
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(settings.Debug)
	if err != nil {
		return errors.WithMessage(err, "create logger")
	}

	levelMgr, err := levels.NewManager(settings.LevelsDir, logger)
	if err != nil {
		return errors.WithMessage(err, "failed to open levels")
	}

	a.settings = settings
	a.logger = logger
	a.levels = levelMgr
	a.sessions = session.NewManager(logger)
	a.game = service.NewGameService(a.sessions, levelMgr, highscore.NewTable(), logger)

	logger.Debug("services initialized",
		zap.String("levels_dir", settings.LevelsDir),
		zap.Int("levels", levelMgr.Count()))
	return nil
}

func (a *app) teardown(ctx context.Context, cmd *cli.Command) error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return nil
}

// newLogger logs to stderr so stdout stays free for the game and for MCP
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func levelArg(cmd *cli.Command) (int, error) {
	arg := cmd.Args().First()
	if arg == "" {
		return 0, errors.New("a level number is required")
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, errors.Errorf("invalid level number %q", arg)
	}
	return n, nil
}

func (a *app) play(ctx context.Context, cmd *cli.Command) error {
	if err := a.setup(cmd); err != nil {
		return err
	}

	level := a.settings.DefaultLevel
	if cmd.IsSet("level") {
		level = cmd.Int("level")
	}

	info, err := a.game.CreateSession(ctx, level)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	printLevel(w, info)
	printPlayHelp(w)

	scanner := bufio.NewScanner(cmd.Root().Reader)
	for {
		fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "q", "quit", "exit":
			return nil
		case "h", "help", "?":
			printPlayHelp(w)
			continue
		case "reset":
			state, err := a.game.Reset(ctx, info.ID)
			if err != nil {
				return err
			}
			printState(w, state)
			continue
		case "n", "next", "prev", "previous":
			step := 1
			if strings.HasPrefix(strings.ToLower(line), "prev") {
				step = -1
			}
			next, err := a.switchLevel(ctx, info, step)
			if err != nil {
				return err
			}
			info = next
			printLevel(w, info)
			continue
		}

		if _, err := engine.ParseDirection(line); err == nil {
			result, err := a.game.Move(ctx, info.ID, line)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, result.Message)
			if result.NewHighscore {
				fmt.Fprintf(w, "New highscore: %d turns!\n", result.Highscore)
			}
			printState(w, result.GameState)
			continue
		}

		if commands, ok := splitCommands(line); ok {
			result, err := a.game.BulkMove(ctx, info.ID, commands)
			if err != nil {
				return err
			}
			printBulkResult(w, result)
			continue
		}

		fmt.Fprintf(w, "Unknown command %q. Type help for the list of commands.\n", line)
	}
}

// switchLevel replaces the session with one on the level step places away,
// wrapping around at either end
func (a *app) switchLevel(ctx context.Context, current *service.SessionInfo, step int) (*service.SessionInfo, error) {
	number := adjacentLevel(a.levels.Numbers(), current.LevelNumber, step)
	info, err := a.game.CreateSession(ctx, number)
	if err != nil {
		return nil, err
	}
	if err := a.game.DeleteSession(ctx, current.ID); err != nil {
		a.logger.Warn("failed to delete previous session", zap.String("session", current.ID), zap.Error(err))
	}
	return info, nil
}

// adjacentLevel returns the level number step places from current in numbers
func adjacentLevel(numbers []int, current, step int) int {
	if len(numbers) == 0 {
		return current
	}
	idx := 0
	for i, n := range numbers {
		if n == current {
			idx = i
			break
		}
	}
	count := len(numbers)
	return numbers[((idx+step)%count+count)%count]
}

// splitCommands turns a run of command letters such as "RRDPL" into commands
func splitCommands(line string) ([]string, bool) {
	commands := make([]string, 0, len(line))
	for _, r := range strings.ToUpper(line) {
		if !strings.ContainsRune("LRUDP", r) {
			return nil, false
		}
		commands = append(commands, string(r))
	}
	return commands, len(commands) > 0
}

func printPlayHelp(w io.Writer) {
	fmt.Fprintln(w, "Commands: l/r/u/d to move, p to pass, a run of letters like RRDP to play several turns,")
	fmt.Fprintln(w, "reset to start over, next/prev to change level, q to quit.")
}

func printLevel(w io.Writer, info *service.SessionInfo) {
	fmt.Fprintf(w, "Level %d: %s\n", info.LevelNumber, info.LevelName)
	if info.Highscore != highscore.NoScore {
		fmt.Fprintf(w, "Best: %d turns\n", info.Highscore)
	}
	fmt.Fprintln(w)
	printState(w, info.GameState)
}

func printState(w io.Writer, state *engine.GameState) {
	for _, line := range state.Board {
		fmt.Fprintln(w, line)
	}
	switch state.Status {
	case engine.Won:
		fmt.Fprintf(w, "You won in %d turns. Type reset to play again or q to quit.\n", state.Turns)
	case engine.Lost:
		fmt.Fprintf(w, "You were caught after %d turns. Type reset to try again or q to quit.\n", state.Turns)
	default:
		fmt.Fprintf(w, "Turn %d\n", state.Turns)
	}
}

func printBulkResult(w io.Writer, result *service.BulkMoveResult) {
	fmt.Fprintf(w, "Played %d of %d moves.\n", result.MovesExecuted, result.RequestedMoves)
	if result.StoppedReason != "" {
		fmt.Fprintf(w, "Stopped: %s\n", result.StoppedReason)
	}
	if result.StopReasonCode == "won" {
		fmt.Fprintf(w, "Theseus escaped in %d turns!\n", result.GameState.Turns)
	}
	if result.NewHighscore {
		fmt.Fprintf(w, "New highscore: %d turns!\n", result.Highscore)
	}
	printState(w, result.GameState)
}

func (a *app) show(ctx context.Context, cmd *cli.Command) error {
	if err := a.setup(cmd); err != nil {
		return err
	}
	number, err := levelArg(cmd)
	if err != nil {
		return err
	}

	level, err := a.levels.Get(number)
	if err != nil {
		return err
	}
	eng, err := engine.NewEngine(level)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	state := eng.GetState()
	fmt.Fprintf(w, "Level %d: %s (%dx%d)\n\n", number, level.Name, state.Width, state.Height)
	for _, line := range state.Board {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "\nTheseus %s, Minotaur %s, exit %s\n", *level.Theseus, *level.Minotaur, *level.Exit)
	return nil
}

func (a *app) listLevels(ctx context.Context, cmd *cli.Command) error {
	if err := a.setup(cmd); err != nil {
		return err
	}

	infos, err := a.game.ListLevels(ctx)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	if len(infos) == 0 {
		fmt.Fprintf(w, "No levels found in %s\n", a.levels.Dir())
		return nil
	}
	for _, info := range infos {
		fmt.Fprintf(w, "%3d  %-24s %2dx%-2d  %s\n", info.Number, info.Name, info.Width, info.Height, info.Filename)
	}
	return nil
}

func (a *app) solve(ctx context.Context, cmd *cli.Command) error {
	if err := a.setup(cmd); err != nil {
		return err
	}
	number, err := levelArg(cmd)
	if err != nil {
		return err
	}

	level, err := a.levels.Get(number)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	solution, err := solver.Solve(level, solver.Options{
		MaxTurns:  cmd.Int("max-turns"),
		MaxStates: cmd.Int("max-states"),
	})
	if errors.Is(err, solver.ErrUnsolvable) {
		fmt.Fprintf(w, "Level %d (%s) has no solution\n", number, level.Name)
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "solve level %d", number)
	}

	fmt.Fprintf(w, "Level %d (%s): %s (%d turns, %d positions explored)\n",
		number, level.Name, solution, solution.Turns, solution.StatesExplored)
	return nil
}

func (a *app) serveMCP(ctx context.Context, cmd *cli.Command) error {
	if err := a.setup(cmd); err != nil {
		return err
	}

	a.logger.Info("starting MCP server",
		zap.String("app", AppName),
		zap.String("version", Version),
		zap.Int("levels", a.levels.Count()))

	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer cancel()
		return mcp.NewServer(a.game, a.logger).ServeStdio()
	})
	group.Go(func() error {
		sessionCleanupRoutine(ctx, a.sessions, a.settings.CleanupInterval, a.settings.SessionTTL, a.logger)
		return nil
	})
	return group.Wait()
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within maxAge, until ctx is done.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, maxAge time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			manager.CleanupExpiredSessions(maxAge)
			stats := manager.Stats()
			logger.Debug("session cleanup",
				zap.Int("active", stats.Active),
				zap.Int64("expired", stats.Expired))
		}
	}
}
