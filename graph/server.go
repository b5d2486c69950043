package graph

import (
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-audiograph/dsp/core"
)

const defaultOutputChannels = 2

// Server owns a graph: the block clock, the node registry, the final
// output connection, and the lock serializing every mutator with block
// production. One Server produces one block at a time; the block size and
// sample rate are immutable.
type Server struct {
	mu  sync.Mutex
	log *logrus.Logger

	sampleRate     float64
	blockSize      int
	outputChannels int

	tickCount uint64

	finalBufs [][]float64
	finalConn *InputConnection

	nodes map[Node]struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithOutputChannels sets the final output channel count (default 2).
func WithOutputChannels(channels int) Option {
	return func(s *Server) {
		if channels > 0 {
			s.outputChannels = channels
		}
	}
}

// WithLogger overrides the server's logger.
func WithLogger(log *logrus.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// NewServer returns a server producing blockSize-sample blocks at
// sampleRate.
func NewServer(sampleRate float64, blockSize int, opts ...Option) (*Server, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("graph: sample rate must be > 0: %f", sampleRate)
	}

	if blockSize <= 0 {
		return nil, fmt.Errorf("graph: block size must be > 0: %d", blockSize)
	}

	s := &Server{
		log:            logrus.StandardLogger(),
		sampleRate:     sampleRate,
		blockSize:      blockSize,
		outputChannels: defaultOutputChannels,
		nodes:          map[Node]struct{}{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.rebuildFinalOutput()

	s.log.WithFields(logrus.Fields{
		"function":    "NewServer",
		"sample_rate": sampleRate,
		"block_size":  blockSize,
		"channels":    s.outputChannels,
	}).Info("Creating audio graph server")

	return s, nil
}

func (s *Server) rebuildFinalOutput() {
	s.finalBufs = make([][]float64, s.outputChannels)
	for i := range s.finalBufs {
		s.finalBufs[i] = make([]float64, s.blockSize)
	}

	old := s.finalConn
	s.finalConn = newInputConnection(nil, s.finalBufs)

	if old != nil {
		// Carry existing connections over to the new endpoint.
		for _, o := range old.incoming {
			o.removeConnected(old)
			s.finalConn.connect(o)
		}
	}
}

// SampleRate returns the server sample rate in Hz.
func (s *Server) SampleRate() float64 { return s.sampleRate }

// BlockSize returns the block size in samples.
func (s *Server) BlockSize() int { return s.blockSize }

// OutputChannels returns the final output channel count.
func (s *Server) OutputChannels() int { return s.outputChannels }

// TickCount returns the monotonic block counter.
func (s *Server) TickCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tickCount
}

// SetOutputDevice reconfigures the final output for a device with the
// given channel count. The device itself is a collaborator that pulls
// ProduceBlock; name and mixAhead are only logged, not stored.
func (s *Server) SetOutputDevice(name string, channels, mixAhead int) error {
	if channels <= 0 {
		return fmt.Errorf("graph: output channels must be > 0: %d", channels)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.outputChannels = channels
	s.rebuildFinalOutput()

	s.log.WithFields(logrus.Fields{
		"function":  "SetOutputDevice",
		"device":    name,
		"channels":  channels,
		"mix_ahead": mixAhead,
	}).Info("Output device configured")

	return nil
}

// finalConnection returns the final output endpoint. Lock held by caller.
func (s *Server) finalConnection() *InputConnection {
	return s.finalConn
}

// FinalConnectionFanIn returns how many output endpoints feed the final
// output.
func (s *Server) FinalConnectionFanIn() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.finalConn.incoming)
}

// ProduceBlock renders one block into out, interleaved, which must hold
// BlockSize*OutputChannels values. It advances the tick counter and pulls
// every node reachable from the final output connection exactly once.
func (s *Server) ProduceBlock(out []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	need := s.blockSize * s.outputChannels
	if len(out) < need {
		return fmt.Errorf("%w: output buffer holds %d of %d samples", ErrRange, len(out), need)
	}

	s.tickCount++

	for _, buf := range s.finalBufs {
		core.Zero(buf)
	}

	s.finalConn.add(true)

	core.Interleave(out[:need], s.finalBufs, s.blockSize)

	return nil
}

// WithLock runs fn while holding the server lock. For host code that
// needs a consistent view across several reads, and for node kinds with
// kind-specific mutators.
func (s *Server) WithLock(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn()
}

// Reset invokes a node's reset hook under the server lock.
func (s *Server) Reset(n Node) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.Reset()
}

// registerNode adds a node to the registry. Called from Base.SetOwner.
func (s *Server) registerNode(n Node) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes[n] = struct{}{}

	s.log.WithFields(logrus.Fields{
		"function": "registerNode",
		"kind":     n.Kind(),
		"nodes":    len(s.nodes),
	}).Debug("Node registered")
}

// unregisterNodeLocked removes a node from the registry. Lock held by
// caller.
func (s *Server) unregisterNodeLocked(n Node) {
	delete(s.nodes, n)
}

// NodeCount returns the number of live registered nodes.
func (s *Server) NodeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.nodes)
}

// Shutdown detaches every node and clears the final output. The server
// must not be used afterwards.
func (s *Server) Shutdown() {
	s.mu.Lock()
	nodes := make([]Node, 0, len(s.nodes))

	for n := range s.nodes {
		nodes = append(nodes, n)
	}
	s.mu.Unlock()

	for _, n := range nodes {
		n.NodeBase().Close()
	}

	s.mu.Lock()
	for _, o := range append([]*OutputConnection(nil), s.finalConn.incoming...) {
		s.finalConn.removeIncoming(o)
		o.removeConnected(s.finalConn)
	}
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"function": "Shutdown",
		"nodes":    len(nodes),
	}).Info("Server shut down")
}
