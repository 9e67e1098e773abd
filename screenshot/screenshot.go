// This file is part of Koalastream.
//
// Koalastream is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Koalastream is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Koalastream.  If not, see <https://www.gnu.org/licenses/>.

// Package screenshot renders the picture shown by the video chip of a machine.
// Only the bitmap modes are rendered. In the text modes the screen area is
// filled with the background colour.
package screenshot

import (
	"crypto/sha1"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/vreid/koalastream/curated"
	"github.com/vreid/koalastream/hardware"
	"golang.org/x/image/draw"
)

// dimensions of the rendered image in pixels. the screen area is surrounded by
// the border
const (
	ScreenWidth  = 320
	ScreenHeight = 200
	BorderWidth  = 32
	BorderHeight = 32
	Width        = ScreenWidth + BorderWidth*2
	Height       = ScreenHeight + BorderHeight*2
)

const (
	columns = 40
	rows    = 25
)

// Render the current picture of the machine.
func Render(mc *hardware.Machine) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, Width, Height))

	vic := mc.VIC
	draw.Draw(img, img.Bounds(), image.NewUniform(Palette[vic.BorderColour()]), image.Point{}, draw.Src)
	if !vic.DisplayEnabled() {
		return img
	}

	scr := image.Rect(BorderWidth, BorderHeight, BorderWidth+ScreenWidth, BorderHeight+ScreenHeight)
	bg := vic.BackgroundColour()
	draw.Draw(img, scr, image.NewUniform(Palette[bg]), image.Point{}, draw.Src)
	if !vic.BitmapMode() {
		return img
	}

	bank := mc.CIA2.VICBank()
	bitmap := bank + vic.BitmapOffset()
	screen := bank + vic.ScreenOffset()
	multicolour := vic.MulticolourMode()

	for cy := range rows {
		for cx := range columns {
			cell := uint16(cy*columns + cx)
			names := mc.RAM.Read(screen + cell)
			attr := mc.Colour.Read(cell) & 0x0f

			for line := range 8 {
				b := mc.RAM.Read(bitmap + cell*8 + uint16(line))
				y := BorderHeight + cy*8 + line
				x := BorderWidth + cx*8

				if multicolour {
					for p := range 4 {
						var c uint8
						switch (b >> (6 - p*2)) & 0x03 {
						case 0:
							c = bg
						case 1:
							c = names >> 4
						case 2:
							c = names & 0x0f
						case 3:
							c = attr
						}
						img.SetNRGBA(x+p*2, y, Palette[c])
						img.SetNRGBA(x+p*2+1, y, Palette[c])
					}
				} else {
					for p := range 8 {
						c := names & 0x0f
						if (b>>(7-p))&0x01 == 0x01 {
							c = names >> 4
						}
						img.SetNRGBA(x+p, y, Palette[c])
					}
				}
			}
		}
	}

	return img
}

// Scale the image by the factor. The pixel aspect ratio is preserved.
func Scale(img *image.NRGBA, factor int) *image.NRGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Digest returns the SHA1 of the pixels in the image. Note that the use of
// sha1 is fine for this application because this is not a cryptographic task.
func Digest(img *image.NRGBA) string {
	return fmt.Sprintf("%x", sha1.Sum(img.Pix))
}

// Save the current picture of the machine to a PNG file.
func Save(mc *hardware.Machine, filename string, factor int) (rerr error) {
	f, err := os.Create(filename)
	if err != nil {
		return curated.Errorf("screenshot: %v", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = curated.Errorf("screenshot: %v", err)
		}
	}()

	if err := png.Encode(f, Scale(Render(mc), factor)); err != nil {
		return curated.Errorf("screenshot: %v", err)
	}

	return nil
}
