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

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/bradleyjkemp/memviz"
	"github.com/vreid/koalastream/curated"
	"github.com/vreid/koalastream/environment"
	"github.com/vreid/koalastream/hardware"
	"github.com/vreid/koalastream/hardware/iec"
	"github.com/vreid/koalastream/hardware/preferences"
	"github.com/vreid/koalastream/logger"
	"github.com/vreid/koalastream/modalflag"
	"github.com/vreid/koalastream/sampleconv"
	"github.com/vreid/koalastream/screenshot"
	"github.com/vreid/koalastream/session"
	"github.com/vreid/koalastream/speaker"
	"github.com/vreid/koalastream/statsview"
	"github.com/vreid/koalastream/terminal"
	"github.com/vreid/koalastream/version"
	"github.com/vreid/koalastream/wavwriter"
)

// exit values
const (
	exitOK      = 0
	exitArgs    = 10
	exitFailure = 20
)

// streamFailure is returned by run() when one of the session operations fails.
// the reason has already been logged by the session
const streamFailure = "%s failed"

func main() {
	// #ctrlc the streaming components never yield so the interrupt is handled
	// in a separate goroutine
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	go func() {
		<-intChan
		fmt.Println("\r")
		os.Exit(exitFailure)
	}()

	os.Exit(launch(os.Args[1:], os.Stdout))
}

// launch parses the arguments and runs the selected mode. returns the value to
// be used with os.Exit()
func launch(args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("RUN", "CONVERT", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return exitOK

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitArgs
	}

	switch md.Mode() {
	case "RUN":
		err = run(md, output)

	case "CONVERT":
		err = convert(md)

	case "VERSION":
		fmt.Fprintln(output, version.String())
	}

	if err != nil {
		if curated.Is(err, streamFailure) {
			fmt.Fprintln(output, "FAIL.")
		} else {
			fmt.Fprintf(output, "* error in %s mode: %s\n", md.String(), err)
		}
		return exitFailure
	}

	return exitOK
}

func run(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	spec := md.AddString("tv", "PAL", "television specification: PAL, NTSC")
	image := md.AddString("image", "vreid.koa", "name of the picture on the disk")
	sample := md.AddString("sample", "vreid.bin", "name of the sample on the disk (empty for none)")
	pacing := md.AddInt("pacing", -1, "raster changes to wait after each row of the picture (-1 for preference)")
	music := md.AddBool("music", false, "play music while the picture loads")
	tempo := md.AddInt("tempo", 0, "music tempo (0 for preference)")
	fastload := md.AddBool("fastload", false, "use fast loader transfer speed")
	hold := md.AddInt("hold", 0, "seconds to hold the picture on screen")
	wav := md.AddString("wav", "", "record audio to wav file")
	audio := md.AddBool("audio", false, "play audio through the host audio device")
	realtime := md.AddBool("realtime", false, "run the machine in real time")
	shot := md.AddString("screenshot", "", "save the final picture to PNG file")
	halt := md.AddBool("halt", false, "wait for a key press on failure")
	log := md.AddBool("log", false, "echo debugging log to stdout")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%v)", statsview.Available()))
	viz := md.AddString("memviz", "", "write graph of session state to dot file")
	prefsString := md.AddString("prefs", "", "additional preferences (key::value; key::value)")

	md.AdditionalHelp("the argument is a directory or a zip file served as disk device 8")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	// set debugging log echo
	if *log {
		logger.SetEcho(output)
	} else {
		logger.SetEcho(nil)
	}

	if *stats {
		statsview.Launch(output)
	}

	if len(md.RemainingArgs()) != 1 {
		return curated.Errorf("asset directory or zip file required for %s mode", md)
	}

	prefs, err := preferences.NewPreferences()
	if err != nil {
		return err
	}
	if *prefsString != "" {
		if err := prefs.Parse(*prefsString); err != nil {
			return err
		}
	}
	if err := prefs.TVSpec.Set(*spec); err != nil {
		return err
	}
	if *fastload {
		if err := prefs.FastLoad.Set(true); err != nil {
			return err
		}
	}
	if *pacing >= 0 {
		if err := prefs.Pacing.Set(*pacing); err != nil {
			return err
		}
	}
	if *tempo > 0 {
		if err := prefs.Tempo.Set(*tempo); err != nil {
			return err
		}
	}
	if err := prefs.Validate(); err != nil {
		return err
	}

	env, err := environment.NewEnvironment(environment.MainEmulation, prefs)
	if err != nil {
		return err
	}

	mc, err := hardware.NewMachine(env)
	if err != nil {
		return err
	}
	mc.SetRealTime(*realtime)

	drv, err := iec.OpenDisk(prefs.Device.Int(), md.GetArg(0), prefs.TransferCyclesPerByte())
	if err != nil {
		return err
	}
	defer drv.Eject()
	if err := mc.IEC.Attach(drv); err != nil {
		return err
	}

	// add audio mixers
	if *wav != "" {
		aw, err := wavwriter.New(env, *wav)
		if err != nil {
			return err
		}
		mc.AddAudioMixer(aw)
	}
	if *audio {
		spk, err := speaker.NewSpeaker(env)
		if err != nil {
			return err
		}
		mc.AddAudioMixer(spk)
	}

	sess, err := session.NewSession(mc)
	if err != nil {
		return err
	}

	err = stream(sess, *image, *sample, prefs.Pacing.Int(), *music, *hold)

	if *shot != "" {
		if err := screenshot.Save(mc, *shot, 2); err != nil {
			return err
		}
	}

	if *viz != "" {
		if err := writeMemviz(*viz, sess); err != nil {
			return err
		}
	}

	if err := mc.EndMixing(); err != nil {
		return err
	}

	if *realtime {
		logger.Logf(env, "koalastream", "measured %.2f fps", mc.MeasuredFPS())
	}

	if err != nil && *halt {
		if _, err := terminal.WaitKey(output, "FAIL. press any key\n"); err != nil {
			logger.Log(env, "koalastream", err)
		}
	}

	return err
}

// stream runs the load and play session
func stream(sess *session.Session, image string, sample string, pacing int, music bool, hold int) error {
	if music {
		sess.MusicInit()
		if !sess.MusicInstallInterrupt() {
			return curated.Errorf(streamFailure, "music")
		}
	}

	if !sess.StreamLoadImage(image, pacing) {
		return curated.Errorf(streamFailure, "picture")
	}

	if sample != "" {
		// the sample is played with interrupts masked so the music is paused
		// for the duration
		if music {
			sess.MusicPause()
		}
		if !sess.LoadSample(sample, sess.Machine().Env().Prefs.Device.Int()) {
			return curated.Errorf(streamFailure, "sample")
		}
		sess.PlaySample()
		if music {
			sess.MusicResume()
		}
	}

	if hold > 0 {
		sess.Clock.WaitVideoSeconds(hold)
	}

	return nil
}

// the state written by writeMemviz()
type sessionState struct {
	Registers hardware.Snapshot
	Cycles    int
	IRQs      int
	Jiffies   int
	Sample    int
	Music     string
}

// writeMemviz writes a graph of the state of the session
func writeMemviz(filename string, sess *session.Session) (rerr error) {
	f, err := os.Create(filename)
	if err != nil {
		return curated.Errorf("memviz: %v", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = curated.Errorf("memviz: %v", err)
		}
	}()

	mc := sess.Machine()
	memviz.Map(f, &sessionState{
		Registers: mc.TakeSnapshot(),
		Cycles:    mc.Cycles(),
		IRQs:      mc.IRQCount(),
		Jiffies:   mc.Kernal.Jiffies(),
		Sample:    sess.Sampler.Size(),
		Music:     sess.Music.String(),
	})

	return nil
}

func convert(md *modalflag.Modes) error {
	md.NewMode()

	rate := md.AddInt("rate", 6000, "playback rate in samples per second")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}

	if len(md.RemainingArgs()) != 2 {
		return curated.Errorf("input and output files required for %s mode", md)
	}

	return sampleconv.Convert(logger.Allow, md.GetArg(0), md.GetArg(1), *rate)
}
