package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackup/pkg/audit"
	"github.com/matzehuels/stackup/pkg/config"
	"github.com/matzehuels/stackup/pkg/errors"
	"github.com/matzehuels/stackup/pkg/observability"
	"github.com/matzehuels/stackup/pkg/pipeline"
	"github.com/matzehuels/stackup/pkg/server"
	"github.com/matzehuels/stackup/pkg/session"
)

// cleanupInterval is how often expired render sessions are removed.
const cleanupInterval = 5 * time.Minute

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve starts the HTTP render API. Board documents posted to /api/renders are
rendered with the configured defaults and kept as render sessions until they
expire. Sessions live in server.session_dir when set, in redis when the cache
backend is redis, and in memory otherwise. Requests are audited to MongoDB
when audit.mongo_uri is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	observability.NewLogHooks(c.Logger).Register()

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	sessions, err := c.newSessionStore(runner)
	if err != nil {
		return err
	}

	sink, err := c.newAuditSink(ctx)
	if err != nil {
		return err
	}
	defer sink.Close(context.WithoutCancel(ctx))

	defaults, err := c.pipelineOptions()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cleanupDone := session.StartCleanup(ctx, sessions, cleanupInterval, c.Logger)

	srv := server.New(runner, sessions, server.Options{
		Render:     defaults,
		SessionTTL: c.Config.Server.SessionTTL.Duration,
		MaxUpload:  int64(c.Config.Server.MaxUploadMB) << 20,
		Audit:      sink,
		Logger:     c.Logger,
	})
	err = srv.ListenAndServe(ctx, addr)
	cancel()
	<-cleanupDone
	return err
}

// newSessionStore picks the session store for the configuration.
func (c *CLI) newSessionStore(runner *pipeline.Runner) (session.Store, error) {
	switch {
	case c.Config.Server.SessionDir != "":
		store, err := session.NewFileStore(c.Config.Server.SessionDir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "session directory %s", c.Config.Server.SessionDir)
		}
		c.Logger.Debug("sessions on disk", "dir", store.Path())
		return store, nil
	case c.Config.Cache.Backend == config.CacheRedis:
		c.Logger.Debug("sessions in redis", "addr", c.Config.Cache.RedisAddr)
		return session.NewCacheStore(runner.Cache, runner.Keyer), nil
	default:
		return session.NewMemoryStore(), nil
	}
}

// newAuditSink connects to MongoDB when an audit URI is configured.
func (c *CLI) newAuditSink(ctx context.Context) (audit.Sink, error) {
	cfg := c.Config.Audit
	if cfg.MongoURI == "" {
		return audit.NopSink{}, nil
	}
	sink, err := audit.NewMongoSink(ctx, cfg.MongoURI, cfg.Database)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect audit database")
	}
	c.Logger.Info("auditing requests", "database", cfg.Database)
	return sink, nil
}
