package grove

import (
	"encoding/json"
	"log"
	"os"

	"gonum.org/v1/gonum/mat"
)

//HandleError interrupts the execution flow in a case of error
func HandleError(err error) {
	if err != nil {
		log.Panic(err)
	}
}

//Height returns the number of rows of a matrix.
func Height(m *mat.Dense) int {
	h, _ := m.Dims()
	return h
}

//saveJSON serializes a model into an indented json file.
func saveJSON(filename string, model interface{}) {
	dest, err := os.Create(filename)
	if err != nil {
		log.Print("can't open file ", filename, " to write")
	}
	HandleError(err)
	defer func() { HandleError(dest.Close()) }()

	modelByteRepr, err := json.MarshalIndent(model, "", "  ")
	HandleError(err)

	_, err = dest.Write(modelByteRepr)
	HandleError(err)
}

//loadJSON deserializes a model from a json file.
func loadJSON(filename string, model interface{}) {
	source, err := os.Open(filename)
	HandleError(err)
	defer func() { HandleError(source.Close()) }()

	decoder := json.NewDecoder(source)
	HandleError(decoder.Decode(model))
}
