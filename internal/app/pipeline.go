package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/specialistvlad/mlgridgo/internal/config"
	"github.com/specialistvlad/mlgridgo/internal/ctxlog"
	"github.com/specialistvlad/mlgridgo/internal/driver"
	"github.com/specialistvlad/mlgridgo/internal/materialize"
)

const (
	modeTraining  = "training"
	modeInference = "inference"

	storeFile  = "file"
	storeRedis = "redis"

	modelNode     = "trained_model"
	reportSaverID = "accuracy_to_json"
)

// defaultRunConfig is the run configuration every loaded file is merged
// over. It matches conf/config.hcl.
func defaultRunConfig() *config.Model {
	return config.FromMap(map[string]any{
		"mode": modeTraining,
		"data": map[string]any{
			"path": "data/01_raw/dataset.csv",
		},
		"model": map[string]any{
			"model_type":   "v1",
			"model_path":   "data/06_models/model.gob",
			"n_estimators": 100,
			"store":        storeFile,
			"redis_addr":   "localhost:6379",
			"redis_key":    "mlgridgo:trained_model",
		},
	})
}

// loadRunConfig builds the run configuration: defaults, then config files,
// then overrides, then --data-path.
func (a *App) loadRunConfig(ctx context.Context) (*config.Model, error) {
	cfg := defaultRunConfig()
	if len(a.config.ConfigPaths) > 0 {
		loaded, err := config.Load(ctx, a.config.ConfigPaths...)
		if err != nil {
			return nil, err
		}
		cfg.Merge(loaded)
	}
	if err := cfg.Apply(a.config.Overrides...); err != nil {
		return nil, err
	}
	if a.config.DataPath != "" {
		if err := cfg.Set("data.path", a.config.DataPath); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// pipeline is everything needed to build and execute one run.
type pipeline struct {
	mode          string
	modelType     string
	modules       []string
	materializers []materialize.Materializer
	finalVars     []string
	inputs        map[string]any
	redis         *redis.Client
}

func (p *pipeline) close() error {
	if p.redis == nil {
		return nil
	}
	return p.redis.Close()
}

// planPipeline turns a run configuration into a pipeline. When dial is
// false a Redis store is configured without contacting the server.
func planPipeline(ctx context.Context, cfg *config.Model, dial bool) (*pipeline, error) {
	logger := ctxlog.FromContext(ctx)

	mode, err := cfg.String("mode")
	if err != nil {
		return nil, err
	}
	if mode != modeTraining && mode != modeInference {
		return nil, fmt.Errorf("unknown mode %q: want %q or %q", mode, modeTraining, modeInference)
	}
	modelType, err := cfg.String("model.model_type")
	if err != nil {
		return nil, err
	}
	dataPath, err := cfg.String("data.path")
	if err != nil {
		return nil, err
	}
	nEstimators, err := cfg.Int("model.n_estimators")
	if err != nil {
		return nil, err
	}
	store, err := cfg.String("model.store")
	if err != nil {
		return nil, err
	}

	p := &pipeline{
		mode:      mode,
		modelType: modelType,
		modules:   pipelineModules(modelType),
		inputs: map[string]any{
			"data_path":    dataPath,
			"n_estimators": nEstimators,
		},
	}

	saverID := "model_to_" + store
	switch store {
	case storeFile:
		path, err := cfg.String("model.model_path")
		if err != nil {
			return nil, err
		}
		if mode == modeInference {
			p.materializers = append(p.materializers, materialize.FromGob(modelNode, path))
		} else {
			p.materializers = append(p.materializers, materialize.ToGob(saverID, path, modelNode))
		}

	case storeRedis:
		addr, err := cfg.String("model.redis_addr")
		if err != nil {
			return nil, err
		}
		key, err := cfg.String("model.redis_key")
		if err != nil {
			return nil, err
		}
		rc := materialize.DefaultRedisConfig()
		rc.Address = addr
		if dial {
			p.redis, err = materialize.NewRedisClient(ctx, rc)
			if err != nil {
				return nil, err
			}
		} else {
			p.redis = redis.NewClient(&redis.Options{Addr: rc.Address})
		}
		if mode == modeInference {
			p.materializers = append(p.materializers, materialize.FromRedis(modelNode, p.redis, key))
		} else {
			p.materializers = append(p.materializers, materialize.ToRedis(saverID, p.redis, key, 0, modelNode))
		}

	default:
		return nil, fmt.Errorf("unknown model store %q: want %q or %q", store, storeFile, storeRedis)
	}

	if mode == modeInference {
		p.finalVars = []string{"predictions"}
	} else {
		p.finalVars = []string{"accuracy", saverID}
		if report, err := cfg.String("evaluation.report_path"); err == nil && report != "" {
			p.materializers = append(p.materializers, materialize.ToJSON(reportSaverID, report, "accuracy"))
			p.finalVars = append(p.finalVars, reportSaverID)
		}
	}

	logger.Debug("Pipeline planned.", "mode", mode, "model_type", modelType, "store", store, "modules", p.modules, "final_vars", p.finalVars)
	return p, nil
}

// newDriver builds a driver for the pipeline from the registered modules.
func (a *App) newDriver(ctx context.Context, p *pipeline) (*driver.Driver, error) {
	mods, err := a.registry.Lookup(p.modules...)
	if err != nil {
		return nil, err
	}
	return driver.NewBuilder().
		WithModules(mods...).
		WithConfig(map[string]any{"mode": p.mode, "model_type": p.modelType}).
		WithMaterializers(p.materializers...).
		WithWorkers(a.config.WorkerCount).
		WithMetrics(a.metrics).
		Build(ctx)
}
