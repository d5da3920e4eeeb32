package sh

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/kiss.go/pkg/kiss"
	"github.com/robotalks/kiss.go/pkg/port/dial"
	"github.com/robotalks/kiss.go/pkg/port/uart"
)

// Shell provides ishell backed interactive shell on a KISS host link.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool
	RecvTimeout time.Duration

	Shell  *ishell.Shell
	Config *dial.Config
	Conn   *Conn
}

// Conn is an opened KISS link with a running Client.
type Conn struct {
	Ctx    context.Context
	Cancel func()
	Name   string
	Client *kiss.Client
	Closer io.Closer
}

// FrameOutput is the JSON form of a received frame.
type FrameOutput struct {
	Port uint8  `json:"port"`
	Code string `json:"code"`
	Data string `json:"data"`
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly    bool
	outputJSON  bool
	recvTimeout = time.Second

	// commands
	commands = []*ishell.Cmd{
		&OpenCmd,
		&CloseCmd,
		&RecvCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.DurationVar(&recvTimeout, "recv-timeout", recvTimeout, "Default wait of recv.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *dial.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		RecvTimeout: recvTimeout,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// FormatFrame prints a frame into friendly string for display.
func FormatFrame(f kiss.Frame) string {
	if f.Command.IsReturn() {
		return "Return"
	}
	var w strings.Builder
	fmt.Fprintf(&w, "[%d] %s %d bytes", f.Command.Port(), f.Command.Code(), len(f.Data))
	if len(f.Data) > 0 {
		fmt.Fprintf(&w, ": %s", hex.EncodeToString(f.Data))
		if printable(f.Data) {
			fmt.Fprintf(&w, " %q", string(f.Data))
		}
	}
	return w.String()
}

func printable(data []byte) bool {
	for _, b := range data {
		if b < 0x20 || b > 0x7e {
			return false
		}
	}
	return true
}

// PrintFrame prints a frame in the configured output format.
func (s *Shell) PrintFrame(c *ishell.Context, f kiss.Frame) {
	if s.OutputJSON {
		out, err := json.Marshal(&FrameOutput{
			Port: f.Command.Port(),
			Code: f.Command.Code().String(),
			Data: hex.EncodeToString(f.Data),
		})
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(FormatFrame(f))
}

// Send sends a frame on the current connection.
func Send(c *ishell.Context, f kiss.Frame) error {
	s := ShellFrom(c)
	if s.Conn == nil {
		err := fmt.Errorf("not connected")
		c.Err(err)
		return err
	}
	if err := s.Conn.Client.Send(f); err != nil {
		c.Err(err)
		return err
	}
	if !s.OutputJSON && s.Interactive {
		c.Println("OK")
	}
	return nil
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// OpenLink opens target, either a UART spec or tcp://host:port.
func OpenLink(target string) (io.ReadWriteCloser, error) {
	if strings.HasPrefix(target, "tcp://") {
		return net.Dial("tcp", strings.TrimPrefix(target, "tcp://"))
	}
	device, baud, err := dial.ParseUART(target)
	if err != nil {
		return nil, err
	}
	return uart.Open(device, baud)
}

// Connect opens target and starts a Client on it.
func (s *Shell) Connect(target string) error {
	rw, err := OpenLink(target)
	if err != nil {
		return err
	}
	return s.Attach(target, rw)
}

// Attach starts a Client on an already opened link.
func (s *Shell) Attach(name string, rw io.ReadWriteCloser) error {
	conn := &Conn{Name: name, Client: kiss.NewClient(rw), Closer: rw}
	conn.Ctx, conn.Cancel = context.WithCancel(context.Background())
	s.Disconnect()
	s.Conn = conn
	go func() {
		if err := conn.Client.Run(conn.Ctx); err != nil && err != context.Canceled {
			log.Printf("%s: %v", name, err)
		}
	}()
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", name))
	return nil
}

// Disconnect closes current connection.
func (s *Shell) Disconnect() {
	if s.Conn != nil {
		s.Conn.Cancel()
		s.Conn.Closer.Close()
		s.Conn = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Receive waits up to timeout for count frames, count <= 0 drains
// whatever arrives before timeout.
func (s *Shell) Receive(count int, timeout time.Duration) ([]kiss.Frame, error) {
	if s.Conn == nil {
		return nil, fmt.Errorf("not connected")
	}
	var frames []kiss.Frame
	deadline := time.After(timeout)
	for count <= 0 || len(frames) < count {
		select {
		case f, ok := <-s.Conn.Client.FrameChan():
			if !ok {
				return frames, io.EOF
			}
			frames = append(frames, f)
		case err := <-s.Conn.Client.ErrorChan():
			log.Printf("discarded frame: %v", err)
		case <-deadline:
			return frames, nil
		}
	}
	return frames, nil
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.Serial != "" {
		if s.Interactive {
			s.Shell.Printf("Opening %s ...\n", s.Config.Serial)
		}
		if err := s.Connect(s.Config.Serial); err != nil {
			log.Fatalf("open %q failed: %v", s.Config.Serial, err)
		}
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// OpenCmd opens a KISS link.
	OpenCmd = ishell.Cmd{
		Name:    "open",
		Aliases: []string{"o"},
		Help:    "DEVICE|tcp://HOST:PORT",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			target := s.Config.Serial
			if len(c.Args) > 0 {
				target = c.Args[0]
			}
			if target == "" {
				c.Err(fmt.Errorf("DEVICE required"))
				return
			}
			if err := s.Connect(target); err != nil {
				c.Err(err)
			}
		},
	}

	// CloseCmd closes current link.
	CloseCmd = ishell.Cmd{
		Name:    "close",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}

	// RecvCmd prints received frames.
	RecvCmd = ishell.Cmd{
		Name:    "recv",
		Aliases: []string{"r"},
		Help:    "[COUNT] [TIMEOUT]",
		Func: MustBeConnected(func(c *ishell.Context) {
			s := ShellFrom(c)
			count, timeout := 1, s.RecvTimeout
			if len(c.Args) > 0 {
				if _, err := fmt.Sscanf(c.Args[0], "%d", &count); err != nil {
					c.Err(fmt.Errorf("Invalid COUNT: %v", err))
					return
				}
			}
			if len(c.Args) > 1 {
				val, err := time.ParseDuration(c.Args[1])
				if err != nil {
					c.Err(fmt.Errorf("Invalid TIMEOUT: %v", err))
					return
				}
				timeout = val
			}
			frames, err := s.Receive(count, timeout)
			for _, f := range frames {
				s.PrintFrame(c, f)
			}
			if err != nil {
				c.Err(err)
				return
			}
			if len(frames) == 0 && !s.OutputJSON {
				c.Println("No frames received")
			}
		}),
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	dial.SetupFlags()
	flag.Parse()
	New(dial.NewConfig()).WithAutoConnect(evalOnly).Run(flag.Args()...)
}
