package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	v1 "github.com/Xunop/book-manager/internal/api/v1"
	"github.com/Xunop/book-manager/internal/config"
	"github.com/Xunop/book-manager/internal/gateway"
	"github.com/Xunop/book-manager/internal/http/ratelimit"
	"github.com/Xunop/book-manager/internal/log"
	"github.com/Xunop/book-manager/internal/mirror"
	"github.com/Xunop/book-manager/internal/search"
	"github.com/Xunop/book-manager/internal/server"
	"github.com/Xunop/book-manager/internal/service"
	"github.com/Xunop/book-manager/internal/store"
	"github.com/Xunop/book-manager/internal/store/db"
	"github.com/Xunop/book-manager/internal/version"
)

const (
	greetingBanner = `
 ____              _
| __ )  ___   ___ | | __
|  _ \ / _ \ / _ \| |/ /
| |_) | (_) | (_) |   <
|____/ \___/ \___/|_|\_\  manager %s
`
)

var (
	configFile string
	host       string
	port       int
	data       string

	rootCmd = &cobra.Command{
		Use:     "book-manager",
		Short:   "Book manager is a small book catalog with a JSON and XML file mirror",
		Version: version.GetCurrentVersion(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			log.Logger = log.NewLogger()
			defer log.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx)
		},
	}
)

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file")
	rootCmd.Flags().StringVar(&host, "host", "", "host to listen on")
	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on")
	rootCmd.Flags().StringVarP(&data, "data", "d", "", "data directory")
}

// loadConfig applies defaults, the config file and then the flags.
func loadConfig(cmd *cobra.Command) error {
	config.GetDefaultOptions()
	if configFile != "" {
		if _, err := config.ParseFile(configFile); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("host") {
		config.Opts.Host = host
	}
	if cmd.Flags().Changed("port") {
		config.Opts.Port = port
	}
	if cmd.Flags().Changed("data") {
		config.Opts.Data = data
	}
	_, err := config.GetConfig()
	return err
}

func run(ctx context.Context) error {
	d, err := db.NewDB(config.Opts.DSN)
	if err != nil {
		log.Error("Error connecting to database", zap.Error(err))
		return err
	}
	defer d.Close()
	if err := d.Migrate(ctx); err != nil {
		log.Error("Error migrating database", zap.Error(err))
		return err
	}

	s := store.NewStore(d.DB, config.Opts.BookCacheSize)
	if err := s.Ping(); err != nil {
		log.Error("Error pinging database", zap.Error(err))
		return err
	}

	m, err := mirror.New(config.Opts.MirrorDir, config.Opts.PreviewLength)
	if err != nil {
		log.Error("Error opening mirror directory", zap.Error(err))
		return err
	}
	syncer := mirror.NewSyncer(s, m)

	var limiter *ratelimit.Limiter
	if config.Opts.SearchRateLimit > 0 {
		limiter = ratelimit.New(config.Opts.SearchRateLimit, config.Opts.SearchRateBurst)
		defer limiter.Stop()
	}

	handler, err := v1.NewHandler(
		service.NewBookService(s, m, syncer),
		search.New(s, m, config.Opts.PageSize, config.Opts.SearchLimit),
		gateway.New(s, m, syncer, config.Opts.DefaultLanguage),
		m,
		limiter,
	)
	if err != nil {
		log.Error("Error loading templates", zap.Error(err))
		return err
	}

	// the snapshot reflects the database from the start
	syncer.Sync(ctx)

	fmt.Printf(greetingBanner, version.GetCurrentVersion())
	_, done := server.StartServer(ctx, s, handler)
	err = <-done
	log.Info("Server stopped")
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
