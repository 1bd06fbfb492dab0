package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sounak286/RAKSHA-SATHI/auth"
	"github.com/sounak286/RAKSHA-SATHI/bulletins"
	sqlbulletinsrepo "github.com/sounak286/RAKSHA-SATHI/bulletins/sqlrepo"
	"github.com/sounak286/RAKSHA-SATHI/cache"
	rediscacherepo "github.com/sounak286/RAKSHA-SATHI/cache/redisrepo"
	sqlcacherepo "github.com/sounak286/RAKSHA-SATHI/cache/sqlrepo"
	"github.com/sounak286/RAKSHA-SATHI/gateway"
	sqlgoodworkrepo "github.com/sounak286/RAKSHA-SATHI/goodwork/sqlrepo"
	"github.com/sounak286/RAKSHA-SATHI/internal/config"
	"github.com/sounak286/RAKSHA-SATHI/internal/db"
	"github.com/sounak286/RAKSHA-SATHI/internal/logging"
	"github.com/sounak286/RAKSHA-SATHI/server"
	"github.com/sounak286/RAKSHA-SATHI/token"
	"github.com/sounak286/RAKSHA-SATHI/upstream"
	sqluserrepo "github.com/sounak286/RAKSHA-SATHI/users/sqlrepo"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("stack", string(debug.Stack())).Msgf("Recovered from panic: %v", r)
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.Load(args)
	if err != nil {
		return err
	}
	logCloser, err := logging.Setup(c.Log, c.Server.IsDev())
	if err != nil {
		return err
	}
	defer logCloser.Close()
	displayAppname(c.Server.AppName)

	ctx := context.Background()
	database, err := db.Open(ctx, c.Database, c.Server.DataFolder)
	if err != nil {
		return err
	}
	defer database.Close()

	cacheRepo, closeCache := openCache(ctx, c, database)
	defer closeCache()

	codec, err := token.NewCodec(token.NewHMACSigner(c.Security.JWTSecret))
	if err != nil {
		return err
	}
	userRepo := sqluserrepo.New(database)
	authService, err := auth.NewAuthenticationService(userRepo, codec, auth.WithTokenTTL(c.Security.TokenTTL))
	if err != nil {
		return err
	}

	client, err := upstream.New(c.Upstream)
	if err != nil {
		return err
	}
	gw, err := gateway.New(client, cacheRepo, sqlgoodworkrepo.New(database),
		gateway.WithTimeout(c.Upstream.Timeout),
		gateway.WithLogger(log.Logger.With().Str("component", "gateway").Logger()),
	)
	if err != nil {
		return err
	}
	defer gw.Close()

	bulletinsService, err := bulletins.NewService(sqlbulletinsrepo.New(database))
	if err != nil {
		return err
	}

	handler, err := server.New(c, userRepo, server.Services{
		Auth:      authService,
		Access:    auth.NewAccessControl(codec),
		Gateway:   gw,
		Bulletins: bulletinsService,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              c.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- listenAndServe(srv) }()

	select {
	case err := <-errCh:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

// openCache prefers Redis when it is configured and reachable, otherwise the
// SQL cache table is used.
func openCache(ctx context.Context, c *config.Config, database *db.DB) (cache.Repo, func()) {
	if !c.Redis.Enabled() {
		return sqlcacherepo.New(database), func() {}
	}
	rdb, err := rediscacherepo.Open(ctx, c.Redis)
	if err != nil {
		log.Warn().Err(err).Str("addr", c.Redis.Addr()).Msg("redis unavailable, using the database cache")
		return sqlcacherepo.New(database), func() {}
	}
	log.Info().Str("addr", c.Redis.Addr()).Msg("using redis response cache")
	return rediscacherepo.New(rdb), func() {
		if err := rdb.Close(); err != nil {
			log.Err(err).Msg("redis close")
		}
	}
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	if zerolog.GlobalLevel() > zerolog.InfoLevel {
		return
	}
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
