package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"semant/internal/core/diag"
	derrors "semant/internal/core/errors"
	"semant/internal/data/history"
	"semant/internal/data/queue"
	"semant/internal/shared/observability"
)

const (
	historyQueueCapacity = 64
	historyBatchSize     = 8
	historyFlushInterval = 100 * time.Millisecond
)

type historyJob struct {
	inputs  []string
	classes int
	reports []diag.Report
	elapsed time.Duration
}

func (a *App) initHistory() error {
	store, err := history.Open(a.paths.HistoryPath, a.Config.History.BusyTimeout)
	if err != nil {
		code := derrors.CodeInternal
		if history.IsCorruptError(err) {
			code = derrors.CodeValidationError
			slog.Error("history database is corrupt; remove it or set history.path", "path", a.paths.HistoryPath)
		}
		return derrors.AddContext(derrors.Wrap(err, code, "open history"), derrors.CtxPath, a.paths.HistoryPath)
	}
	a.historyStore = store
	a.history = history.NewAdapter(store)
	a.historyQueue = queue.NewMemoryQueue[historyJob](historyQueueCapacity)
	a.startHistoryWorker()
	return nil
}

func (a *App) startHistoryWorker() {
	if a.historyQueue == nil || a.workerCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.workerCancel = cancel
	a.workerDone = make(chan struct{})
	go a.runHistoryWorker(ctx)
}

// runHistoryWorker records queued runs until the queue is closed and
// drained or ctx is cancelled.
func (a *App) runHistoryWorker(ctx context.Context) {
	defer close(a.workerDone)

	for {
		batch, err := a.historyQueue.DequeueBatch(ctx, historyBatchSize, historyFlushInterval)
		for _, job := range batch {
			a.applyHistoryJob(context.WithoutCancel(ctx), job)
		}
		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
			return
		default:
			slog.Warn("history queue dequeue failed", "error", err)
		}
	}
}

func (a *App) applyHistoryJob(ctx context.Context, job historyJob) {
	id, err := a.history.Record(ctx, job.inputs, job.classes, job.reports, job.elapsed)
	if err != nil {
		observability.HistoryWritesTotal.WithLabelValues("error").Inc()
		slog.Warn("failed to record run history", "error", err)
		return
	}
	observability.HistoryWritesTotal.WithLabelValues("ok").Inc()
	slog.Debug("run recorded", derrors.CtxRunID, id)

	cfg, _, _ := a.snapshot()
	if keep := cfg.History.Keep; keep > 0 {
		pruned, err := a.historyStore.Prune(ctx, keep)
		if err != nil {
			slog.Warn("failed to prune run history", "error", err)
		} else if pruned > 0 {
			slog.Debug("pruned run history", "deleted", pruned, "keep", keep)
		}
	}
}

func (a *App) enqueueHistory(job historyJob) {
	if a.historyQueue == nil {
		return
	}
	if a.historyQueue.Enqueue(job) == queue.EnqueueDropped {
		observability.HistoryWritesTotal.WithLabelValues("dropped").Inc()
		slog.Warn("history queue full; run not recorded")
	}
}

// stopHistoryWorker closes the queue and waits for the worker to drain it.
// When ctx expires first the worker is cancelled and pending runs are lost.
func (a *App) stopHistoryWorker(ctx context.Context) error {
	if a.historyQueue == nil {
		return nil
	}
	if err := a.historyQueue.Close(); err != nil {
		return err
	}
	if a.workerDone != nil {
		select {
		case <-a.workerDone:
		case <-ctx.Done():
			a.workerCancel()
			<-a.workerDone
			return ctx.Err()
		}
	}
	if a.workerCancel != nil {
		a.workerCancel()
		a.workerCancel = nil
	}
	a.workerDone = nil
	a.historyQueue = nil
	return nil
}
