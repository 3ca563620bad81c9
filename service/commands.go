package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"blogapi/app/config"
	"blogapi/app/repositories"

	"github.com/spf13/cobra"
)

func newInitCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new empty database",
		Long: `Initialize a new empty database. For badger this creates the database
directory; for sqlite and postgres it creates the tables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initDb(cmd, s)
		},
	}
}

func newCleanCmd(s *settings) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the badger database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return clean(cmd, s, yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newBackupCmd(s *settings) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create a backup of the badger database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return backup(cmd, s, dir)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "data/backups", "Directory the backup file is written to")
	return cmd
}

func newRestoreCmd(s *settings) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore the badger database from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return restore(cmd, s, args[0], yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Replace an existing database without asking")
	return cmd
}

// initDb initializes a new empty database.
func initDb(cmd *cobra.Command, s *settings) error {
	out := cmd.OutOrStdout()

	switch s.cfg.Storage {
	case config.StorageBadger:
		if _, err := os.Stat(s.cfg.DBPath); err == nil {
			fmt.Fprintln(out, "Database already exists. Use 'clean' first if you want to reinitialize.")
			return nil
		}
		if err := os.MkdirAll(s.cfg.DBPath, 0755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	case config.StorageMemory:
		return errors.New("the memory storage has nothing to initialize")
	}

	store, err := s.openStore()
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	fmt.Fprintln(out, "Database initialized successfully")
	return nil
}

// clean removes the database.
func clean(cmd *cobra.Command, s *settings, yes bool) error {
	if err := s.requireBadger("clean"); err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if _, err := os.Stat(s.cfg.DBPath); os.IsNotExist(err) {
		fmt.Fprintln(out, "Database is already clean (does not exist)")
		return nil
	}

	if !yes && !confirm(cmd, "Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Fprintln(out, "Operation cancelled")
		return nil
	}

	if err := os.RemoveAll(s.cfg.DBPath); err != nil {
		return fmt.Errorf("clean database: %w", err)
	}
	fmt.Fprintln(out, "Database cleaned successfully")
	return nil
}

// backup creates a backup of the database.
func backup(cmd *cobra.Command, s *settings, backupDir string) error {
	if err := s.requireBadger("backup"); err != nil {
		return err
	}

	if _, err := os.Stat(s.cfg.DBPath); os.IsNotExist(err) {
		return errors.New("no database exists to backup")
	}
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	repo, err := repositories.NewRepository(s.cfg.DBPath, s.logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	backupFile := filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}
	defer f.Close()

	if err := repo.Backup(f); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync backup file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Database backed up successfully to %s\n", backupFile)
	return nil
}

// restore restores the database from a backup.
func restore(cmd *cobra.Command, s *settings, backupFile string, yes bool) error {
	if err := s.requireBadger("restore"); err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", backupFile)
	}
	if err != nil {
		return fmt.Errorf("stat backup file: %w", err)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", backupFile)
	}

	if _, err := os.Stat(s.cfg.DBPath); err == nil {
		if !yes && !confirm(cmd, "Existing database found. Do you want to replace it?") {
			fmt.Fprintln(out, "Operation cancelled")
			return nil
		}
		if err := os.RemoveAll(s.cfg.DBPath); err != nil {
			return fmt.Errorf("remove existing database: %w", err)
		}
	}

	f, err := os.Open(backupFile)
	if err != nil {
		return fmt.Errorf("open backup file: %w", err)
	}
	defer f.Close()

	repo, err := repositories.NewRepository(s.cfg.DBPath, s.logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		return repo.Load(f)
	}()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Database restored successfully")
	return nil
}
