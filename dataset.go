package grove

import (
	"log"
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

//ReadNpy reads the content of npy file
func ReadNpy(fileName string) (denseMat *mat.Dense) {
	f, err := os.Open(fileName)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { HandleError(f.Close()) }()

	r, err := npyio.NewReader(f)
	if err != nil {
		log.Fatal(err)
	}

	denseMat = &mat.Dense{}
	HandleError(r.Read(denseMat))
	return
}

//WriteNpy writes a matrix into an npy file.
func WriteNpy(fileName string, m *mat.Dense) {
	dst, err := os.Create(fileName)
	HandleError(err)
	defer func() { HandleError(dst.Close()) }()
	HandleError(npyio.Write(dst, m))
}

//ReadLabels reads an npy file with one value per row and rounds its
//entries into an integer label vector.
func ReadLabels(fileName string) []int {
	raw := ReadNpy(fileName)
	h := Height(raw)
	labels := make([]int, h)
	for p := 0; p < h; p++ {
		labels[p] = int(raw.At(p, 0))
	}
	return labels
}
