// Package app wires configuration, storage backends, the coordinator, the
// maintenance scheduler and the interactive shell into one runnable unit.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/tikbook/internal/cli"
	"github.com/dmitrijs2005/tikbook/internal/common"
	"github.com/dmitrijs2005/tikbook/internal/config"
	"github.com/dmitrijs2005/tikbook/internal/events"
	"github.com/dmitrijs2005/tikbook/internal/evidence"
	"github.com/dmitrijs2005/tikbook/internal/jobs"
	"github.com/dmitrijs2005/tikbook/internal/logging"
	"github.com/dmitrijs2005/tikbook/internal/profiles"
	"github.com/dmitrijs2005/tikbook/internal/services"
	"github.com/dmitrijs2005/tikbook/internal/storage/slots"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	coord     *services.Coordinator
	scheduler *jobs.Scheduler
	shell     *cli.App
	closers   []func() error
}

// NewApp opens every backend named in c. On failure, whatever was already
// opened is closed again.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out, logOut io.Writer) (_ *App, err error) {
	app := &App{
		config: c,
		logger: logging.New(logOut, c.LogLevel, c.LogFormat),
	}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	repo, err := app.openSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("slot store init error: %w", err)
	}
	store, err := app.openProfiles(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("profile store init error: %w", err)
	}
	ev, err := app.openEvidence(ctx)
	if err != nil {
		return nil, fmt.Errorf("evidence store init error: %w", err)
	}
	pub, err := app.openPublisher()
	if err != nil {
		return nil, fmt.Errorf("event publisher init error: %w", err)
	}

	if err := services.NewSeeder(store, app.logger).SeedAdmin(ctx, c.AdminIdentifier, c.AdminPassword); err != nil {
		return nil, fmt.Errorf("admin seeding error: %w", err)
	}

	app.coord = services.NewCoordinator(repo, store, ev, pub, app.logger, services.Options{
		SessionSecret:    []byte(c.SessionSecret),
		SessionTTL:       c.SessionTTL,
		UniqueIdentities: c.UniqueIdentities,
	})

	app.scheduler = jobs.NewScheduler(app.logger)
	if err := app.scheduler.RegisterActivityRetention(c.RetentionSchedule, c.ActivityRetention, app.coord); err != nil {
		return nil, err
	}

	sess, err := app.coord.Restore(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrUnauthenticated) {
			return nil, fmt.Errorf("session restore error: %w", err)
		}
		sess = nil
	}
	app.shell = cli.NewApp(app.coord, sess, in, out, app.logger)
	return app, nil
}

func (app *App) openSlots(ctx context.Context) (slots.Repository, error) {
	c := app.config
	switch c.SlotBackend {
	case config.SlotBackendMemory:
		return slots.NewMemoryRepository(), nil
	case config.SlotBackendRedis:
		client := slots.NewRedisClient(c.RedisAddr, c.RedisPassword, c.RedisDB)
		app.closers = append(app.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to reach redis [%s]: %w", c.RedisAddr, err)
		}
		return slots.NewRedisRepository(client, slots.DefaultRedisPrefix), nil
	default:
		db, err := slots.OpenSQLite(ctx, c.DataDSN)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, db.Close)
		return slots.NewSQLiteRepository(db), nil
	}
}

func (app *App) openProfiles(ctx context.Context, repo slots.Repository) (profiles.Store, error) {
	c := app.config
	if c.ProfileBackend != config.ProfileBackendPostgres {
		return profiles.NewCollectionStore(repo, c.SimulatedLatency), nil
	}
	db, err := profiles.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, db.Close)
	return profiles.NewPostgresStore(db), nil
}

func (app *App) openEvidence(ctx context.Context) (evidence.Store, error) {
	c := app.config
	var (
		store evidence.Store
		err   error
	)
	switch c.EvidenceBackend {
	case config.EvidenceBackendS3:
		store, err = evidence.NewS3Store(ctx, evidence.S3Config{
			Region:       c.S3Region,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
		})
	default:
		store, err = evidence.NewFileStore(c.EvidenceDir)
	}
	if err != nil {
		return nil, err
	}

	key, err := c.EvidenceKeyBytes()
	if err != nil {
		return nil, err
	}
	if key != nil {
		return evidence.NewSealedStore(store, key), nil
	}
	return store, nil
}

func (app *App) openPublisher() (events.Publisher, error) {
	if app.config.AMQPURL == "" {
		return events.NopPublisher{}, nil
	}
	pub, err := events.NewAMQPPublisher(app.config.AMQPURL, app.config.AMQPQueue, app.logger)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, pub.Close)
	return pub, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run starts the scheduler and blocks in the shell until the user exits or
// the input ends. Resources are released before returning.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	app.scheduler.Start()
	app.shell.Run(ctx)
	<-app.scheduler.Stop().Done()

	if err := app.Close(); err != nil {
		app.logger.Error(ctx, "failed to release resources", "error", err)
	}
}

// Close releases backends in reverse opening order.
func (app *App) Close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		errs = append(errs, app.closers[i]())
	}
	app.closers = nil
	return errors.Join(errs...)
}
