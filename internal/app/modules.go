package app

import (
	"github.com/specialistvlad/mlgridgo/internal/registry"
	"github.com/specialistvlad/mlgridgo/modules/dataprep"
	"github.com/specialistvlad/mlgridgo/modules/evaluation"
	"github.com/specialistvlad/mlgridgo/modules/predictions"
	"github.com/specialistvlad/mlgridgo/modules/split"
	"github.com/specialistvlad/mlgridgo/modules/training_v1"
	"github.com/specialistvlad/mlgridgo/modules/training_v2"
)

// coreModules is the definitive list of all modules that are compiled into
// the mlgridgo binary.
var coreModules = []registry.Module{
	&dataprep.Module{},
	&split.Module{},
	&training_v1.Module{},
	&training_v2.Module{},
	&predictions.Module{},
	&evaluation.Module{},
}

// trainingModule maps model.model_type to the module that trains it.
func trainingModule(modelType string) string {
	if modelType == "v1" {
		return training_v1.Name
	}
	return training_v2.Name
}

// pipelineModules lists the modules of a run, training module last.
func pipelineModules(modelType string) []string {
	return []string{dataprep.Name, split.Name, predictions.Name, evaluation.Name, trainingModule(modelType)}
}
