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

package screenshot_test

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/vreid/koalastream/environment"
	"github.com/vreid/koalastream/hardware"
	"github.com/vreid/koalastream/koala"
	"github.com/vreid/koalastream/screenshot"
	"github.com/vreid/koalastream/test"
)

func setup(t *testing.T) *hardware.Machine {
	t.Helper()
	env, err := environment.NewEnvironment(environment.Label("test"), nil)
	test.DemandSuccess(t, err)
	mc, err := hardware.NewMachine(env)
	test.DemandSuccess(t, err)
	return mc
}

func TestTextMode(t *testing.T) {
	mc := setup(t)
	img := screenshot.Render(mc)
	test.ExpectEquality(t, img.NRGBAAt(0, 0), screenshot.Palette[mc.VIC.BorderColour()])
	test.ExpectEquality(t, img.NRGBAAt(screenshot.BorderWidth, screenshot.BorderHeight),
		screenshot.Palette[mc.VIC.BackgroundColour()])
}

func TestMulticolour(t *testing.T) {
	mc := setup(t)

	disp, err := koala.NewDisplay(mc)
	test.DemandSuccess(t, err)
	disp.EnableBitmap(0)

	mc.Poke(koala.PixelOrigin, 0x1b)
	mc.Poke(koala.ScreenOrigin, 0x12)
	mc.Poke(koala.ColourOrigin, 0x03)
	mc.Poke(koala.PixelOrigin+8*40+7, 0xff)
	mc.Poke(koala.ColourOrigin+40, 0x07)

	img := screenshot.Render(mc)
	x := screenshot.BorderWidth
	y := screenshot.BorderHeight

	test.ExpectEquality(t, img.NRGBAAt(x, y), screenshot.Palette[0])
	test.ExpectEquality(t, img.NRGBAAt(x+1, y), screenshot.Palette[0])
	test.ExpectEquality(t, img.NRGBAAt(x+2, y), screenshot.Palette[1])
	test.ExpectEquality(t, img.NRGBAAt(x+4, y), screenshot.Palette[2])
	test.ExpectEquality(t, img.NRGBAAt(x+7, y), screenshot.Palette[3])
	test.ExpectEquality(t, img.NRGBAAt(x+3, y+15), screenshot.Palette[7])
	test.ExpectEquality(t, img.NRGBAAt(0, 0), screenshot.Palette[0])

	// changing the picture changes the digest
	before := screenshot.Digest(img)
	test.ExpectEquality(t, screenshot.Digest(screenshot.Render(mc)), before)
	disp.SetBackground(6)
	test.ExpectInequality(t, screenshot.Digest(screenshot.Render(mc)), before)
}

func TestSave(t *testing.T) {
	mc := setup(t)
	fn := filepath.Join(t.TempDir(), "shot.png")
	test.DemandSuccess(t, screenshot.Save(mc, fn, 2))

	f, err := os.Open(fn)
	test.DemandSuccess(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, img.Bounds().Dx(), screenshot.Width*2)
	test.ExpectEquality(t, img.Bounds().Dy(), screenshot.Height*2)
}
