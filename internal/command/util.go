package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gorm.io/gorm"

	"github.com/todoapp/todo-api/internal/infrastructure/db/postgres"
	"github.com/todoapp/todo-api/internal/pkg/config"
	"github.com/todoapp/todo-api/pkg/logger"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// prompt writes msg to stderr when stdin is a terminal and reads one line.
// With mask set, terminal input is not echoed.
func prompt(cmd *cobra.Command, msg string, mask bool) (string, error) {
	in := cmd.InOrStdin()
	f, isFile := in.(*os.File)
	tty := isFile && term.IsTerminal(int(f.Fd()))
	if tty {
		if _, err := io.WriteString(cmd.ErrOrStderr(), msg); err != nil {
			return "", err
		}
	}
	if mask && tty {
		b, err := readPassword(int(f.Fd()))
		_, _ = io.WriteString(cmd.ErrOrStderr(), "\n")
		return string(b), err
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown-dev"
	}
	ver := "unknown"
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			ver = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if dirty {
		ver += "-dev"
	}
	return ver
}

// openDatabase loads the configuration from ctx and opens the postgres pool.
func openDatabase(ctx context.Context) (*config.Config, *gorm.DB, error) {
	cfg, err := configFrom(ctx)
	if err != nil {
		return nil, nil, err
	}
	db, err := postgres.Connect(ctx, postgres.Config{
		URL:             cfg.Postgres.URL,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnLifetime,
		Timeout:         10 * time.Second,
		Log:             logger.Component("postgres"),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return cfg, db, nil
}
