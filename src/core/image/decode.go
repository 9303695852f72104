package image

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"  // 注册GIF解码器
	_ "image/jpeg" // 注册JPEG解码器
	_ "image/png"  // 注册PNG解码器

	_ "golang.org/x/image/bmp"  // 注册BMP解码器
	_ "golang.org/x/image/tiff" // 注册TIFF解码器
	_ "golang.org/x/image/webp" // 注册WEBP解码器
)

// Pixmap 解码后的RGB像素缓冲区,每像素3字节,按行排列
type Pixmap struct {
	Width  int
	Height int
	Pix    []uint8
}

// Decode 将编码的图片字节解码为RGB像素缓冲区,并返回识别出的格式
func Decode(data []byte) (*Pixmap, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("cannot decode image: %v", err)
	}

	bounds := img.Bounds()
	pm := &Pixmap{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pix:    make([]uint8, 0, bounds.Dx()*bounds.Dy()*3),
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			pm.Pix = append(pm.Pix, uint8(r>>8), uint8(g>>8), uint8(b>>8))
		}
	}

	return pm, format, nil
}
