package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"
)

var (
	baseDir string
	dataDir string
)

func main() {
	iface := flag.String("iface", "", "capture interface for live game traffic")
	pcapFile := flag.String("pcap", "", "read packets from a capture file instead of a live interface")
	port := flag.Int("port", 0, "game traffic UDP port (overrides settings)")
	debugMode := flag.Bool("debug", false, "verbose/debug logging")
	flag.Parse()

	baseDir = os.Getenv("PWD")
	if baseDir == "" {
		var err error
		if baseDir, err = os.Getwd(); err != nil {
			log.Fatalf("get working directory: %v", err)
		}
	}
	dataDir = filepath.Join(baseDir, "data")

	loadSettings()
	if *iface != "" {
		gs.Interface = *iface
	}
	if *port != 0 {
		gs.Port = *port
	}
	setupLogging(*debugMode)
	defer func() {
		if r := recover(); r != nil {
			logError("panic: %v\n%s", r, debug.Stack())
		}
	}()

	if *pcapFile == "" && gs.Interface == "" {
		log.Fatalf("no capture source: pass -iface or -pcap")
	}

	res := loadResources(filepath.Join(dataDir, "resources"))
	t := newTracker(res)

	h, err := openCapture(gs.Interface, *pcapFile, gs.Port)
	if err != nil {
		log.Fatalf("open capture: %v", err)
	}
	defer h.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if gs.DiscordPresence {
		initDiscordRPC(ctx, t)
	}

	packets := make(chan []byte, 256)
	go captureLoop(ctx, h, packets)

	if *pcapFile != "" {
		consoleMessage("replaying " + *pcapFile)
	} else {
		consoleMessage("capturing on " + gs.Interface)
	}

	run(ctx, t, packets)

	saveSnapshots(t)
	saveSettings()
	consoleMessage(summaryLine(t))
	saveConsoleLog()
}

// run consumes game packets in strict arrival order on this one goroutine;
// aggregation order, and with it last-write-wins fields, is defined by this
// total order. Autosave and the summary are polling timers checked once per
// tick, never true scheduled tasks.
func run(ctx context.Context, t *tracker, packets <-chan []byte) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	lastSave := time.Now()
	lastSummary := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-packets:
			if !ok {
				return
			}
			if gs.Capturing {
				t.dispatchPacket(m)
			}
		case <-ticker.C:
			if time.Since(lastSave) >= time.Duration(gs.AutosaveSeconds)*time.Second {
				lastSave = time.Now()
				saveSnapshots(t)
			}
			if time.Since(lastSummary) >= time.Duration(gs.SummarySeconds)*time.Second {
				lastSummary = time.Now()
				consoleMessage(summaryLine(t))
			}
		}
	}
}
