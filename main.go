package main

import (
	"math/rand"
	"time"

	"fatigue-go/internal/config"
	"fatigue-go/internal/database"
	"fatigue-go/internal/features"
	"fatigue-go/internal/fusion"
	"fatigue-go/internal/handlers"
	logger "fatigue-go/internal/logging"
	"fatigue-go/internal/metrics"
	"fatigue-go/internal/recommend"
	"fatigue-go/internal/repository"
	"fatigue-go/internal/router"
	"fatigue-go/internal/services"
	"fatigue-go/internal/session"

	"go.uber.org/zap"
)

func main() {
	// Bootstrap with a console logger until the config tells us where the
	// log files go.
	boot := logger.Console()
	if err := config.Init(".", boot); err != nil {
		boot.Fatal("Failed to initialize configuration", zap.Error(err))
	}

	log, err := logger.Init(".", config.Conf.Logging)
	if err != nil {
		boot.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer log.Sync()

	database.Init(log)
	store := repository.Store{}

	// The assembler starts on the identity scaler; a trained artifact or a
	// persisted fit replaces it below.
	assembler := features.NewAssembler()
	engine, trainedScaler := fusion.LoadEngine(
		config.Conf.Model.RegressorPath,
		config.Conf.Model.ScalerPath,
		log,
	)

	refitter := services.NewRefitter(store, assembler, config.Conf.Collector.MetricWindow, log)
	if trainedScaler != nil {
		// The regressor was trained against this standardization; refitting
		// would silently shift every feature under it.
		assembler.SetScaler(trainedScaler)
	} else {
		if err := refitter.Restore(); err != nil {
			log.Warn("Could not restore persisted scaler fit", zap.Error(err))
		}
		if err := refitter.Start(config.Conf.Model.RefitSchedule); err != nil {
			log.Fatal("Failed to start refit scheduler", zap.Error(err))
		}
		defer refitter.Stop()
	}

	params := metrics.KeyboardParams{
		ErrorRateCap:      config.Conf.Scoring.ErrorRateCap,
		ShortTextChars:    config.Conf.Scoring.ShortTextChars,
		ShortTextLeniency: config.Conf.Scoring.ShortTextLeniency,
		PauseThreshold:    config.Conf.Scoring.PauseThreshold,
	}
	orchestrator := session.NewOrchestrator(config.Conf.Collector, params, store, log)
	defer orchestrator.StopAll()

	analyzer := services.NewAnalyzer(orchestrator, assembler, engine, store, config.Conf.Collector.MetricWindow, log)
	selector := recommend.NewSelector(store, rand.New(rand.NewSource(time.Now().UnixNano())), log)

	r := router.Setup(
		log,
		handlers.NewTelemetryHandler(log, orchestrator),
		handlers.NewAnalysisHandler(log, analyzer),
		handlers.NewRecommendationHandler(log, selector),
	)

	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
