package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klabast/wb-services/programacao/internal/app"
	"github.com/klabast/wb-services/programacao/internal/kv"
	"github.com/klabast/wb-services/programacao/internal/schedule"
	"golang.org/x/term"
)

// ErrAborted is returned when the reset was not confirmed.
var ErrAborted = errors.New("reset aborted")

// stdinIsTerminal reports whether the confirmation prompt can be shown.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Reset handles the reset subcommand. It clears every stored activity after
// asking for confirmation, or immediately with -yes.
func Reset(args []string, stdin io.Reader, stdout io.Writer) error {
	cfg := app.LoadConfig()
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	bindStorageFlags(fs, &cfg)
	yes := fs.Bool("yes", false, "Clear without asking for confirmation")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: programacao reset [OPTIONS]\n\n")
		fmt.Fprintf(fs.Output(), "Removes every activity from the schedule. Catalogs are kept.\n\n")
		fmt.Fprintf(fs.Output(), "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	backing, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer backing.Close()

	var activities []schedule.Activity
	if _, err := kv.LoadJSON(ctx, backing, kv.KeyActivities, &activities); err != nil {
		return fmt.Errorf("load activities: %w", err)
	}
	if len(activities) == 0 {
		fmt.Fprintln(stdout, "Schedule is already empty")
		return nil
	}

	if !*yes {
		if !stdinIsTerminal() {
			return fmt.Errorf("%w: stdin is not a terminal, pass -yes to confirm", ErrAborted)
		}
		fmt.Fprintf(stdout, "Remove all %d activities? [y/N]: ", len(activities))
		answer, _ := bufio.NewReader(stdin).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes", "s", "sim":
		default:
			return ErrAborted
		}
	}

	if err := kv.SaveJSON(ctx, backing, kv.KeyActivities, []schedule.Activity{}); err != nil {
		return fmt.Errorf("clear activities: %w", err)
	}
	fmt.Fprintf(stdout, "Removed %d activities\n", len(activities))
	return nil
}

// bindStorageFlags lets the storage settings from the environment be
// overridden on the command line.
func bindStorageFlags(fs *flag.FlagSet, cfg *app.Config) {
	fs.StringVar(&cfg.StorageBackend, "storage", cfg.StorageBackend, "Storage backend: memory, file, sqlite or redis")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Data directory for the file backend")
	fs.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "Database path for the sqlite backend")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for the redis backend")
	fs.StringVar(&cfg.RedisPrefix, "redis-prefix", cfg.RedisPrefix, "Key prefix for the redis backend")
}
