package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"gioui.org/app"
	"go.uber.org/zap"

	tahti "github.com/jkataja/tahti"
	"github.com/jkataja/tahti/oto"
	"github.com/jkataja/tahti/player"
	"github.com/jkataja/tahti/player/gioui"
	"github.com/jkataja/tahti/player/gomidi"
	"github.com/jkataja/tahti/synth"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var memprofile = flag.String("memprofile", "", "write memory profile to `file`")

func main() {
	flag.Parse()
	var f *os.File
	if *cpuprofile != "" {
		var err error
		f, err = os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
	}
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	// without audio there is no way to hear the built-in synthesizer, so a
	// missing audio device is fatal
	audioContext, err := oto.NewContext()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	broker := player.NewBroker()
	midiContext := gomidi.NewContext(logger)
	builtin := synth.Device{Audio: audioContext, SampleRate: oto.SampleRate}
	model := player.NewModel(broker, midiContext, builtin)
	model.Devices().Select().SetValue(0)

	sequencer := player.NewSequencer(broker)
	go sequencer.Run()

	if a := flag.Args(); len(a) > 0 {
		if !tahti.IsSequencePath(a[0]) {
			logger.Warn("not a MIDI file path", zap.String("path", a[0]))
		} else if f, err := os.Open(a[0]); err == nil {
			model.ReadSequence(f)
		} else {
			logger.Warn("could not open file", zap.String("path", a[0]), zap.Error(err))
		}
	}

	playerUi := gioui.NewPlayer(model)
	go func() {
		playerUi.Main()
		player.TrySend(broker.CloseSequencer, struct{}{})
		player.TimeoutReceive(broker.FinishedSequencer, 3*time.Second)
		model.Close()
		audioContext.Close()
		if *cpuprofile != "" {
			pprof.StopCPUProfile()
			f.Close()
		}
		if *memprofile != "" {
			f, err := os.Create(*memprofile)
			if err != nil {
				log.Fatal("could not create memory profile: ", err)
			}
			defer f.Close() // error handling omitted for example
			runtime.GC()    // get up-to-date statistics
			if err := pprof.WriteHeapProfile(f); err != nil {
				log.Fatal("could not write memory profile: ", err)
			}
		}
		os.Exit(0)
	}()
	app.Main()
}
