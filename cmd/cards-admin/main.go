// Command cards-admin выполняет административные операции над базой Cards API:
//
//	cards-admin add-admin
//	cards-admin count-cards <email>
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/cards-api/internal/app/provision"
	"github.com/magabrotheeeer/cards-api/internal/cache"
	"github.com/magabrotheeeer/cards-api/internal/config"
	"github.com/magabrotheeeer/cards-api/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
	subsvc "github.com/magabrotheeeer/cards-api/internal/services/subscription"
	usersvc "github.com/magabrotheeeer/cards-api/internal/services/user"
	"github.com/magabrotheeeer/cards-api/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.MustLoad()
	// Диалог идёт через stdout, поэтому логи пишем в stderr.
	logger := sl.New(cfg.Env, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect to storage", sl.Err(err))
		return 1
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close storage", sl.Err(err))
		}
	}()

	users := usersvc.New(db, rabbitmq.NoopPublisher{}, logger)
	subs := subsvc.New(db, cache.Noop{}, cfg.CacheTTL, logger)
	p := provision.New(users, subs, os.Stdin, os.Stdout, logger)

	if err := p.Run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, provision.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		logger.Error("command failed", sl.Err(err))
		return 1
	}
	return 0
}
