// Command graphplay builds a small audio graph and streams it to the
// default output device through PortAudio.
//
// Usage:
//
//	graphplay [flags]
//
// Examples:
//
//	graphplay
//	graphplay -freq 220 -wave square -seconds 5
//	graphplay -wave sine -reverb -t60 3
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	pa "github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-audiograph/graph"
	"github.com/cwbudde/algo-audiograph/nodes"
)

func main() {
	var (
		sampleRate = flag.Float64("rate", 44100, "engine sample rate in Hz")
		blockSize  = flag.Int("block", 1024, "engine block size in samples")
		freq       = flag.Float64("freq", 440, "oscillator frequency in Hz")
		wave       = flag.String("wave", "sine", "waveform: sine or square")
		gain       = flag.Float64("gain", 0.2, "output gain")
		seconds    = flag.Float64("seconds", 2, "playback duration")
		reverb     = flag.Bool("reverb", false, "route through the late-reflections reverb")
		t60        = flag.Float64("t60", 1.5, "reverb decay time in seconds")
		verbose    = flag.Bool("v", false, "verbose engine logging")
	)

	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := run(*sampleRate, *blockSize, *freq, *wave, *gain, *seconds, *reverb, *t60); err != nil {
		fmt.Fprintln(os.Stderr, "graphplay:", err)
		os.Exit(1)
	}
}

func run(sampleRate float64, blockSize int, freq float64, wave string, gain, seconds float64, reverb bool, t60 float64) error {
	server, err := graph.NewServer(sampleRate, blockSize)
	if err != nil {
		return err
	}
	defer server.Shutdown()

	if err := buildGraph(server, freq, wave, gain, reverb, t60); err != nil {
		return err
	}

	if err := pa.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}
	defer pa.Terminate()

	if err := server.SetOutputDevice("default", 2, 2); err != nil {
		return err
	}

	block := make([]float64, blockSize*server.OutputChannels())

	stream, err := pa.OpenDefaultStream(0, server.OutputChannels(), sampleRate, blockSize,
		func(out [][]float32) {
			if err := server.ProduceBlock(block); err != nil {
				for c := range out {
					for i := range out[c] {
						out[c][i] = 0
					}
				}

				return
			}

			for c := range out {
				for i := range out[c] {
					out[c][i] = float32(block[i*server.OutputChannels()+c])
				}
			}
		})
	if err != nil {
		return fmt.Errorf("portaudio stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("portaudio start: %w", err)
	}
	defer stream.Stop()

	time.Sleep(time.Duration(seconds * float64(time.Second)))

	return nil
}

func buildGraph(server *graph.Server, freq float64, wave string, gain float64, reverb bool, t60 float64) error {
	var source graph.Node

	switch wave {
	case "sine":
		n, err := nodes.NewSine(server)
		if err != nil {
			return err
		}

		if err := n.SetFloat(nodes.PropOscillatorFrequency, freq); err != nil {
			return err
		}

		source = n
	case "square":
		n, err := nodes.NewSquare(server)
		if err != nil {
			return err
		}

		if err := n.SetFloat(nodes.PropOscillatorFrequency, freq); err != nil {
			return err
		}

		source = n
	default:
		return fmt.Errorf("unknown waveform %q", wave)
	}

	if err := source.NodeBase().SetFloat(graph.PropMul, gain); err != nil {
		return err
	}

	if !reverb {
		return source.NodeBase().ConnectServer(0)
	}

	late, err := nodes.NewLateReflections(server)
	if err != nil {
		return err
	}

	if err := late.SetFloat(nodes.PropLateT60, t60); err != nil {
		return err
	}

	if err := late.SetFloat(nodes.PropLateLFT60, t60); err != nil {
		return err
	}

	// Dry path plus a few reverb lines on the output.
	if err := source.NodeBase().ConnectServer(0); err != nil {
		return err
	}

	if err := source.NodeBase().Connect(0, late, 0); err != nil {
		return err
	}

	for i := 0; i < 4; i++ {
		if err := late.ConnectServer(i); err != nil {
			return err
		}
	}

	return nil
}
