package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/relcache"
	"github.com/unkn0wn-root/relcache/config"
	rzap "github.com/unkn0wn-root/relcache/log/zap"
)

type app struct {
	cache *relcache.Cache
	log   *zap.Logger
}

func newRootCmd() *cobra.Command {
	var (
		a       app
		url     string
		prefix  string
		envFile string
	)

	root := &cobra.Command{
		Use:          "relcache",
		Short:        "Inspect and reset the query-result cache",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFile(envFile)
			if err != nil {
				return err
			}
			if url != "" {
				cfg.RedisURL = url
			}
			if prefix != "" {
				cfg.Prefix = prefix
			}
			level, err := cfg.Level()
			if err != nil {
				return err
			}

			zc := zap.NewProductionConfig()
			zc.Level = zap.NewAtomicLevelAt(level)
			a.log, err = zc.Build()
			if err != nil {
				return err
			}
			a.log.Debug("loaded config", zap.Stringer("config", cfg))

			opts := cfg.Options()
			opts.Logger = rzap.New(a.log)
			a.cache, err = relcache.New(opts)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if a.cache != nil {
				err = a.cache.Close(cmd.Context())
			}
			if a.log != nil {
				_ = a.log.Sync()
			}
			return err
		},
	}

	root.PersistentFlags().StringVar(&url, "url", "", "redis URL (overrides RELCACHE_REDIS_URL)")
	root.PersistentFlags().StringVar(&prefix, "prefix", "", "key prefix (overrides RELCACHE_PREFIX)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded when present")

	root.AddCommand(
		newFlushCmd(&a),
		newInvalidateCmd(&a),
		newDepsCmd(&a),
		newGetCmd(&a),
	)
	return root
}
