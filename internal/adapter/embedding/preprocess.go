package embedding

import (
	"image"

	"github.com/disintegration/imaging"
)

// CLIP ViT-B/32 visual preprocessing constants. The mean and std match the
// values the model was trained with, applied per channel after scaling
// pixels to [0, 1].
const clipImageSize = 224

var (
	clipMean = [3]float32{0.48145466, 0.4578275, 0.40821073}
	clipStd  = [3]float32{0.26862954, 0.26130258, 0.27577711}
)

// clipTensor converts an image into the CHW float32 layout the CLIP visual
// encoder expects: shortest side resized to 224, center cropped to 224x224,
// scaled to [0, 1] and normalized per channel.
func clipTensor(img image.Image) []float32 {
	resized := resizeShortSide(img, clipImageSize)
	cropped := imaging.CropCenter(resized, clipImageSize, clipImageSize)

	plane := clipImageSize * clipImageSize
	data := make([]float32, 3*plane)
	for y := 0; y < clipImageSize; y++ {
		for x := 0; x < clipImageSize; x++ {
			r, g, b, _ := cropped.At(x, y).RGBA()
			idx := y*clipImageSize + x
			data[idx] = (float32(r>>8)/255.0 - clipMean[0]) / clipStd[0]
			data[plane+idx] = (float32(g>>8)/255.0 - clipMean[1]) / clipStd[1]
			data[2*plane+idx] = (float32(b>>8)/255.0 - clipMean[2]) / clipStd[2]
		}
	}
	return data
}

// resizeShortSide scales the image so its shortest side equals target,
// preserving aspect ratio. Smaller images are scaled up.
func resizeShortSide(img image.Image, target int) *image.NRGBA {
	bounds := img.Bounds()
	if bounds.Dx() < bounds.Dy() {
		return imaging.Resize(img, target, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, target, imaging.Lanczos)
}
