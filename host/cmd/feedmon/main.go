package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/pkg/errors"

	"powerfeed/host/monitor"
	"powerfeed/host/serial"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud    = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	capture = flag.String("capture", "", "Append the raw stream to this file")
	quiet   = flag.Bool("quiet", false, "Hide firmware log lines")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	port, err := serial.Open(cfg)
	if err != nil {
		return err
	}

	var captureFile io.WriteCloser
	if *capture != "" {
		f, err := os.OpenFile(*capture, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			port.Close()
			return errors.Wrap(err, "open capture file")
		}
		captureFile = f
	}

	session := monitor.NewSession(port, captureFile)
	defer func() {
		if err := session.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: close: %v\n", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Monitoring power feed on %s (Ctrl-C to stop)\n", *device)

	mon := session.Monitor()
	err = mon.Run(ctx, func(e monitor.Event) {
		printEvent(os.Stdout, e, *quiet)
	})

	st := mon.Stats()
	fmt.Printf("\nreports=%d logs=%d missed=%d bad_frames=%d bad_checksums=%d noise=%d\n",
		st.Reports, st.Logs, st.Missed, st.BadFrames, st.BadChecksums, st.Noise)

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printEvent(w io.Writer, e monitor.Event, quiet bool) {
	switch e.Kind {
	case monitor.EventReport:
		if e.Gap > 0 {
			fmt.Fprintf(w, "  (%d frames missed)\n", e.Gap)
		}
		fmt.Fprintf(w, "%6d  %s\n", e.Report.Seq, monitor.FormatReport(e.Report))
	case monitor.EventLog:
		if !quiet {
			fmt.Fprintf(w, "   log  %s\n", e.Text)
		}
	case monitor.EventBadFrame:
		fmt.Fprintf(w, "   bad  %v: %q\n", e.Err, e.Text)
	case monitor.EventNoise:
	}
}
