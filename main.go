package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/hearing-scheduler/api/handlers"
	"github.com/linesmerrill/hearing-scheduler/api/scheduler"
	"github.com/linesmerrill/hearing-scheduler/config"
	"github.com/linesmerrill/hearing-scheduler/databases"
)

// shutdownTimeout bounds the drain of in-flight requests on SIGINT/SIGTERM
const shutdownTimeout = 30 * time.Second

func main() {
	a := handlers.App{}
	a.Config = *config.New()

	//initialize engine settings, database and router
	if err := a.Initialize(); err != nil {
		log.Fatal(err)
	}

	db := a.DB()
	nightly := scheduler.NewScheduler(
		databases.NewCaseDatabase(db),
		databases.NewJudgeDatabase(db),
		databases.NewScheduleRunDatabase(db),
		databases.NewSchedulerLockDatabase(db),
		a.Engine,
	)
	if err := nightly.Start(a.Config.ScheduleCron); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%v", a.Config.Port),
		Handler: a.Router,
	}
	zap.S().Infow("hearing-scheduler is up and running",
		"port", a.Config.Port,
		"url", a.Config.BaseURL,
	)

	err := serve(ctx, srv, func() {
		nightly.Stop()
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			zap.S().Errorw("failed to disconnect from database", "error", err)
		}
	})
	if err != nil {
		log.Fatal(err)
	}
	zap.S().Info("hearing-scheduler stopped")
}

// serve runs srv until ctx is done or the listener fails, then drains
// in-flight requests and calls cleanup.
func serve(ctx context.Context, srv *http.Server, cleanup func()) error {
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	var err error
	select {
	case err = <-errc:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = srv.Shutdown(shutdownCtx)
		if listenErr := <-errc; err == nil {
			err = listenErr
		}
	}
	cleanup()

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
