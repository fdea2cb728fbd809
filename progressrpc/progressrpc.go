// Package progressrpc relays conversion progress and log lines to a
// separate process over gorpc, the Go-native analogue of the two
// GUI callbacks (progress, log) the core pipeline would otherwise
// call in-process.
package progressrpc

import (
	"fmt"
	"sync"

	"github.com/valyala/gorpc"
)

// DefaultAddress is the loopback TCP address the progress relay binds
// to when the caller does not specify one.
const DefaultAddress = "localhost:8302"

const (
	fnReportProgress = "ReportProgress"
	fnReportLog      = "ReportLog"
)

// Event is one progress update: a percent complete and a
// human-readable message.
type Event struct {
	Percent int
	Message string
}

// LogLine is one relayed log record.
type LogLine struct {
	Level   string
	Message string
}

func init() {
	gorpc.RegisterType(&Event{})
	gorpc.RegisterType(&LogLine{})
}

// Server receives progress/log events over gorpc and hands them to
// caller-supplied handlers; it holds the most recent event for
// package statusweb to poll.
type Server struct {
	addr       string
	gorpcSrv   *gorpc.Server
	mu         sync.RWMutex
	last       Event
	onProgress func(Event)
	onLog      func(LogLine)
}

// NewServer builds a progress relay server bound to addr (DefaultAddress
// if empty). onProgress/onLog may be nil.
func NewServer(addr string, onProgress func(Event), onLog func(LogLine)) *Server {
	if addr == "" {
		addr = DefaultAddress
	}
	s := &Server{addr: addr, onProgress: onProgress, onLog: onLog}

	d := gorpc.NewDispatcher()
	d.AddFunc(fnReportProgress, func(e *Event) bool {
		s.ReportProgress(e.Percent, e.Message)
		return true
	})
	d.AddFunc(fnReportLog, func(l *LogLine) bool {
		if s.onLog != nil {
			s.onLog(*l)
		}
		return true
	})

	s.gorpcSrv = gorpc.NewTCPServer(addr, d.NewHandlerFunc())
	return s
}

// Start begins serving in the background; Serve blocks, so it runs on
// its own goroutine and any startup error is sent back on errc.
func (s *Server) Start() <-chan error {
	errc := make(chan error, 1)
	go func() { errc <- s.gorpcSrv.Serve() }()
	return errc
}

// Address returns the bound listen address.
func (s *Server) Address() string {
	return s.addr
}

// Stop shuts the server down.
func (s *Server) Stop() {
	s.gorpcSrv.Stop()
}

// ReportProgress records a progress event and invokes onProgress, the
// same update the gorpc handler applies for a remote caller. Callers
// in the same process (such as a convert.App driving the server
// directly alongside statusweb) can call this instead of dialing a
// Client to themselves.
func (s *Server) ReportProgress(percent int, message string) {
	s.mu.Lock()
	s.last = Event{Percent: percent, Message: message}
	s.mu.Unlock()
	if s.onProgress != nil {
		s.onProgress(Event{Percent: percent, Message: message})
	}
}

// LastEvent returns the most recently received progress event.
func (s *Server) LastEvent() Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Client relays progress and log events to a Server over gorpc.
type Client struct {
	c  *gorpc.Client
	dc *gorpc.DispatcherClient
}

// Dial connects to a progress relay server at addr.
func Dial(addr string) (*Client, error) {
	if addr == "" {
		addr = DefaultAddress
	}
	d := gorpc.NewDispatcher()
	d.AddFunc(fnReportProgress, func(e *Event) bool { return true })
	d.AddFunc(fnReportLog, func(l *LogLine) bool { return true })

	c := gorpc.NewTCPClient(addr)
	c.Start()
	dc := d.NewFuncClient(c)
	if dc == nil {
		c.Stop()
		return nil, fmt.Errorf("progressrpc: could not create dispatcher client for %s", addr)
	}
	return &Client{c: c, dc: dc}, nil
}

// ReportProgress sends a progress event to the connected server.
func (cl *Client) ReportProgress(percent int, message string) error {
	_, err := cl.dc.Call(fnReportProgress, &Event{Percent: percent, Message: message})
	return err
}

// ReportLog sends a log line to the connected server.
func (cl *Client) ReportLog(level, message string) error {
	_, err := cl.dc.Call(fnReportLog, &LogLine{Level: level, Message: message})
	return err
}

// Close tears down the client connection.
func (cl *Client) Close() {
	cl.c.Stop()
}
