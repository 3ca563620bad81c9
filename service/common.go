package service

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"blogapi/app/config"
	"blogapi/app/repositories"
	"blogapi/app/repositories/gormstore"
	"blogapi/app/repositories/memory"

	"github.com/spf13/cobra"
)

// settings is the state shared by every subcommand: the environment
// configuration with flag overrides applied, and the logger built from it.
type settings struct {
	cfg    config.Config
	logger *slog.Logger

	// logOutput receives log lines. Defaults to stderr.
	logOutput io.Writer
}

// load reads the environment, applies flags that were set explicitly,
// validates the result and builds the logger.
func (s *settings) load(cmd *cobra.Command) error {
	var cfg config.Config
	if err := config.ParseEnv(&cfg); err != nil {
		return err
	}

	flags := cmd.Flags()
	overrides := []struct {
		name string
		dst  *string
	}{
		{"addr", &cfg.Addr},
		{"storage", &cfg.Storage},
		{"db-path", &cfg.DBPath},
		{"database-url", &cfg.DatabaseURL},
		{"log-level", &cfg.LogLevel},
		{"log-format", &cfg.LogFormat},
	}
	for _, o := range overrides {
		if f := flags.Lookup(o.name); f != nil && f.Changed {
			*o.dst = f.Value.String()
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	out := s.logOutput
	if out == nil {
		out = os.Stderr
	}
	logger, err := cfg.NewLogger(out)
	if err != nil {
		return err
	}

	s.cfg = cfg
	s.logger = logger
	return nil
}

// openStore opens the storage backend selected by the configuration.
func (s *settings) openStore() (repositories.Store, error) {
	switch s.cfg.Storage {
	case config.StorageBadger:
		return repositories.NewRepository(s.cfg.DBPath, s.logger)
	case config.StorageSQLite, config.StoragePostgres:
		opts := gormstore.Options{}
		if s.cfg.Debug() {
			opts.Logger = s.logger
		}
		return gormstore.Open(s.cfg.Storage, s.cfg.DatabaseURL, opts)
	case config.StorageMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", s.cfg.Storage)
	}
}

// requireBadger rejects maintenance commands that only apply to the Badger store.
func (s *settings) requireBadger(command string) error {
	if s.cfg.Storage != config.StorageBadger {
		return fmt.Errorf("%s works on the badger storage only (BLOG_STORAGE=%s)", command, s.cfg.Storage)
	}
	return nil
}

// confirm asks a yes/no question on the command's input. Anything other
// than y or Y is a no.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	response := strings.TrimSpace(line)
	return response == "y" || response == "Y"
}
