package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/pkg/errors"

	"powerfeed/config"
	"powerfeed/core"
	"powerfeed/host/monitor"
	"powerfeed/host/sim"
	"powerfeed/protocol"
)

var (
	configPath = flag.String("config", "", "JSON configuration file (defaults to the reference board)")
	verbose    = flag.Bool("verbose", false, "Print controller debug messages")
)

var errQuit = errors.New("quit")

func main() {
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		core.SetDebugWriter(func(s string) { fmt.Fprintln(os.Stderr, protocol.LogPrefix+s) })
		core.SetDebugEnabled(true)
	}

	s, err := newSession(cfg, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Power feed bench simulator (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		err := s.exec(scanner.Text())
		if errors.Is(err, errQuit) {
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg, err := config.LoadConfig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load config %s", path)
	}
	return cfg, nil
}

// session is one simulator run
type session struct {
	bench *sim.Bench
	tele  *core.TelemetryWriter
	out   io.Writer
}

func newSession(cfg *config.Config, out io.Writer) (*session, error) {
	bench, err := sim.NewBench(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "start bench")
	}
	s := &session{bench: bench, out: out}
	s.tele = core.NewTelemetryWriter(func(b []byte) { out.Write(b) })
	return s, nil
}

// exec runs one command line; inputs take effect on the next tick
func (s *session) exec(line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return errors.Wrap(err, "parse command")
	}
	if len(args) == 0 {
		return nil
	}

	b := s.bench
	switch cmd := args[0]; cmd {
	case "quit", "exit", "q":
		return errQuit

	case "help", "?":
		printHelp(s.out)

	case "left":
		b.SetDirection(core.DirectionLeft)
	case "right":
		b.SetDirection(core.DirectionRight)
	case "neutral":
		b.SetDirection(core.DirectionNeutral)

	case "rapid", "limit":
		on, err := onOff(args)
		if err != nil {
			return errors.Wrap(err, cmd)
		}
		if cmd == "rapid" {
			b.SetRapid(on)
		} else {
			b.SetLimit(on)
		}

	case "dial":
		if len(args) != 2 {
			return errors.New("usage: dial N")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Wrapf(err, "dial %q", args[1])
		}
		b.Counter.Turn(n)

	case "tick":
		n := 1
		if len(args) > 1 {
			if n, err = strconv.Atoi(args[1]); err != nil || n < 1 {
				return errors.Errorf("tick count must be a positive integer, got %q", args[1])
			}
		}
		if err := b.Tick(n); err != nil {
			return errors.Wrap(err, "tick")
		}
		s.printStatus()

	case "status":
		s.printStatus()

	case "frame":
		s.tele.Report(b.Ctrl.Status())

	case "events":
		for _, evt := range core.Events() {
			fmt.Fprintf(s.out, "%10d %s\n", evt.Clock, core.EventString(evt))
		}

	default:
		return errors.Errorf("unknown command %q (type 'help' for available commands)", cmd)
	}
	return nil
}

func onOff(args []string) (bool, error) {
	if len(args) != 2 {
		return false, errors.New("expected on or off")
	}
	switch strings.ToLower(args[1]) {
	case "on", "1", "true":
		return true, nil
	case "off", "0", "false":
		return false, nil
	}
	return false, errors.Errorf("expected on or off, got %q", args[1])
}

func (s *session) printStatus() {
	st := s.bench.Ctrl.Status()
	fmt.Fprintf(s.out, "[%s] [%s]  %s", s.bench.Display.Line1, s.bench.Display.Line2,
		monitor.FormatReport(st.Report(s.tele.Seq())))
	if st.StepRateHz > 0 {
		fmt.Fprintf(s.out, " hz=%d", st.StepRateHz)
	}
	fmt.Fprintln(s.out)
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "\nAvailable commands:")
	fmt.Fprintln(w, "  left | right | neutral  - Move the direction switch")
	fmt.Fprintln(w, "  rapid on|off            - Hold or release the rapid button")
	fmt.Fprintln(w, "  limit on|off            - Trip or reset the limit switch")
	fmt.Fprintln(w, "  dial N                  - Turn the rate dial N detents (negative to lower)")
	fmt.Fprintln(w, "  tick [N]                - Run N control cycles (default 1)")
	fmt.Fprintln(w, "  status                  - Show the display and motor state")
	fmt.Fprintln(w, "  frame                   - Emit a telemetry frame")
	fmt.Fprintln(w, "  events                  - Dump the control event ring")
	fmt.Fprintln(w, "  quit/exit/q             - Exit the program")
	fmt.Fprintln(w)
}
