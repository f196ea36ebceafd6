//go:build gocv

package imageio

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// CVLoader reads source images through OpenCV. It only exists in builds
// tagged gocv.
type CVLoader struct{}

func (CVLoader) Load(path string) (image.Image, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("opencv could not read %s", path)
	}

	return mat.ToImage()
}

// CVWriter writes cutouts through OpenCV.
type CVWriter struct{}

func (CVWriter) Write(path string, img image.Image) error {
	mat, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return err
	}
	defer mat.Close()

	if !gocv.IMWrite(path, mat) {
		return fmt.Errorf("opencv could not write %s", path)
	}
	return nil
}
