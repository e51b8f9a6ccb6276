package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/grovelearn/grove"
	"gonum.org/v1/gonum/mat"
)

func decodeConfig(srcConfig string, out interface{}) {
	file, err := os.Open(srcConfig)
	grove.HandleError(err)
	defer func() { grove.HandleError(file.Close()) }()

	decoder := json.NewDecoder(file)
	grove.HandleError(decoder.Decode(out))
}

//optionalInt converts the zero value of a config field into an absent
//parameter.
func optionalInt(value int) *int {
	if value == 0 {
		return nil
	}
	return &value
}

func optionalSeed(value int64) *int64 {
	if value == 0 {
		return nil
	}
	return &value
}

type TrainConfig struct {
	Task                string  `json:"task"`
	FileNameTrainX      string  `json:"filename_train_x"`
	FileNameTrainTarget string  `json:"filename_train_target"`
	FileNameModel       string  `json:"filename_model"`
	Criterion           string  `json:"criterion"`
	MaxDepth            int     `json:"max_depth"`
	MaxLeafNodes        int     `json:"max_leaf_nodes"`
	MinSamplesLeaf      int     `json:"min_samples_leaf"`
	MaxFeatures         int     `json:"max_features"`
	Seed                int64   `json:"seed"`
	RegLambda           float64 `json:"reg_lambda"`
	ShrinkageRate       float64 `json:"shrinkage_rate"`
}

func (trainConfig TrainConfig) params() grove.Params {
	return grove.Params{
		Criterion:      trainConfig.Criterion,
		MaxDepth:       optionalInt(trainConfig.MaxDepth),
		MaxLeafNodes:   optionalInt(trainConfig.MaxLeafNodes),
		MinSamplesLeaf: trainConfig.MinSamplesLeaf,
		MaxFeatures:    optionalInt(trainConfig.MaxFeatures),
		Seed:           optionalSeed(trainConfig.Seed),
	}
}

func train(srcConfig string) {
	var trainConfig TrainConfig
	decodeConfig(srcConfig, &trainConfig)

	log.Println("load train")
	x := grove.ReadNpy(trainConfig.FileNameTrainX)

	switch trainConfig.Task {
	case "regression":
		y := grove.ReadNpy(trainConfig.FileNameTrainTarget)
		reg, err := grove.NewDecisionTreeRegressor(trainConfig.params())
		grove.HandleError(err)
		grove.HandleError(reg.Fit(x, y))
		reg.Save(trainConfig.FileNameModel)
	default:
		y := grove.ReadLabels(trainConfig.FileNameTrainTarget)
		clf, err := grove.NewDecisionTreeClassifier(trainConfig.params())
		grove.HandleError(err)
		grove.HandleError(clf.Fit(x, y))
		clf.Save(trainConfig.FileNameModel)
	}
}

type PredictConfig struct {
	Task               string `json:"task"`
	DataFileName       string `json:"filename_feature_x"`
	ModelFileName      string `json:"filename_model"`
	PredictionFileName string `json:"filename_target"`
	Proba              bool   `json:"proba"`
}

func predict(srcConfig string) {
	var predictConfig PredictConfig
	decodeConfig(srcConfig, &predictConfig)

	x := grove.ReadNpy(predictConfig.DataFileName)

	var prediction *mat.Dense
	switch predictConfig.Task {
	case "regression":
		reg := grove.LoadRegressor(predictConfig.ModelFileName)
		prediction = reg.Predict(x)
	default:
		clf := grove.LoadClassifier(predictConfig.ModelFileName)
		if predictConfig.Proba {
			prediction = clf.PredictProba(x)
		} else {
			labels := clf.Predict(x)
			prediction = mat.NewDense(len(labels), 1, nil)
			for p, label := range labels {
				prediction.Set(p, 0, float64(label))
			}
		}
	}

	grove.WriteNpy(predictConfig.PredictionFileName, prediction)
}

type GraphConfig struct {
	Task          string `json:"task"`
	ModelFileName string `json:"filename_model"`
	FigureType    string `json:"figure_type"`
	FigureName    string `json:"filename_figure"`
}

func graph(srcConfig string) {
	var graphConfig GraphConfig
	decodeConfig(srcConfig, &graphConfig)

	var tree *grove.Tree
	switch graphConfig.Task {
	case "regression":
		tree = grove.LoadRegressor(graphConfig.ModelFileName).Tree
	default:
		tree = grove.LoadClassifier(graphConfig.ModelFileName).Tree
	}

	tree.RenderGraph(graphConfig.FigureName, graphConfig.FigureType)
}

func main() {
	runMode := flag.String("mode", "train", "you can select either 'train', 'predict' or 'graph' modes")
	config := flag.String("config", "grove_config.json", "a config file for the run of the program")

	flag.Parse()

	map[string]func(string){
		"train":   train,
		"predict": predict,
		"graph":   graph,
	}[*runMode](*config)
}
