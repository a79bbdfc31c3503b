package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/storage"
	"github.com/dgraph-io/badger/v4"
	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/log"

	"github.com/getsentry/frameinfo/internal/errorutil"
	"github.com/getsentry/frameinfo/internal/framecount"
	"github.com/getsentry/frameinfo/internal/frameinfo"
	"github.com/getsentry/frameinfo/internal/logutil"
	"github.com/getsentry/frameinfo/internal/sample"
	"github.com/getsentry/frameinfo/internal/storageprovider"
	"github.com/getsentry/frameinfo/internal/storageutil"
)

type environment struct {
	config ServiceConfig

	storage   *storage.Client
	badger    *badger.DB
	snapshots storageutil.ObjectHandler
}

var release string

func newEnvironment(ctx context.Context, cfg ServiceConfig) (*environment, error) {
	e := environment{config: cfg}
	switch {
	case cfg.SnapshotsBucket != "":
		var err error
		e.storage, err = storage.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		e.snapshots = &storageprovider.Gcs{BucketHandle: e.storage.Bucket(cfg.SnapshotsBucket)}
	case cfg.BadgerPath != "":
		var err error
		e.badger, err = badger.Open(badger.DefaultOptions(cfg.BadgerPath).WithLogger(nil))
		if err != nil {
			return nil, err
		}
		e.snapshots = &storageprovider.Badger{DB: e.badger}
	}
	if cfg.SnapshotName != "" && e.snapshots == nil {
		return nil, fmt.Errorf("snapshot %q requested without FRAMECOUNT_BUCKET or FRAMECOUNT_BADGER_PATH", cfg.SnapshotName)
	}
	return &e, nil
}

func (e *environment) shutdown() {
	if e.storage != nil {
		if err := e.storage.Close(); err != nil {
			sentry.CaptureException(err)
		}
	}
	if e.badger != nil {
		if err := e.badger.Close(); err != nil {
			sentry.CaptureException(err)
		}
	}
	sentry.Flush(5 * time.Second)
}

// countFrames feeds every frame of every stack read from r into c and returns
// the number of stacks read.
func countFrames(r io.Reader, c *framecount.Counter) (int, error) {
	var stacks int
	err := sample.Decode(r, func(s sample.Stack) error {
		for _, f := range s.Frames {
			c.Add(frameinfo.FromStackFrame(f), 1)
		}
		stacks++
		return nil
	})
	if err != nil {
		return stacks, err
	}
	if stacks == 0 {
		return 0, errorutil.ErrNoResults
	}
	return stacks, nil
}

func (e *environment) mergeSnapshot(ctx context.Context, c *framecount.Counter) error {
	var previous framecount.Snapshot
	err := storageutil.UnmarshalCompressed(ctx, e.snapshots, e.config.SnapshotName, &previous)
	if err != nil && !errors.Is(err, storageutil.ErrObjectNotFound) {
		return err
	}
	c.Merge(previous)
	return storageutil.CompressedWrite(ctx, e.snapshots, e.config.SnapshotName, c.Snapshot())
}

func writeTop(w io.Writer, entries []framecount.Entry, total uint64) error {
	for _, e := range entries {
		var share float64
		if total > 0 {
			share = float64(e.Count) * 100 / float64(total)
		}
		if _, err := fmt.Fprintf(w, "%d\t%.2f%%\t%s\n", e.Count, share, e.Frame); err != nil {
			return err
		}
	}
	return nil
}

func (e *environment) process(ctx context.Context, r io.Reader, w io.Writer) error {
	c := framecount.New()
	stacks, err := countFrames(r, c)
	if err != nil {
		return err
	}
	log.Debug().Int("stacks", stacks).Int("frames", c.Len()).Msg("stacks read")

	if e.config.SnapshotName != "" {
		if err := e.mergeSnapshot(ctx, c); err != nil {
			return fmt.Errorf("snapshot %q: %w", e.config.SnapshotName, err)
		}
	}
	return writeTop(w, c.Top(e.config.Top), c.Total())
}

func main() {
	os.Exit(run())
}

// run returns the process exit code. An input without stacks is not a failure.
func run() int {
	cfg, err := readConfig()
	logutil.ConfigureLogger(cfg.level())
	if err != nil {
		log.Error().Err(err).Msg("can't read configuration")
		return 1
	}

	err = sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     release,
	})
	if err != nil {
		log.Error().Err(err).Msg("can't initialize sentry")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := newEnvironment(ctx, cfg)
	if err != nil {
		sentry.CaptureException(err)
		log.Error().Err(err).Msg("error setting up environment")
		return 1
	}
	defer env.shutdown()

	in := io.Reader(os.Stdin)
	if cfg.Input != "" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			sentry.CaptureException(err)
			log.Error().Err(err).Str("input", cfg.Input).Msg("can't open input")
			return 1
		}
		defer f.Close()
		in = f
	}

	err = env.process(ctx, in, os.Stdout)
	switch {
	case errors.Is(err, errorutil.ErrNoResults):
		log.Warn().Msg("no stacks to count")
	case err != nil:
		sentry.CaptureException(err)
		log.Error().Err(err).Msg("can't count frames")
		return 1
	}
	return 0
}
