package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"
)

var (
	errorLogger *log.Logger
	debugLogger *log.Logger
	// debugPacketDumpLen limits how many bytes of a packet payload are logged.
	// A value of 0 dumps the entire payload.
	debugPacketDumpLen = 256

	// dropLimiter throttles malformed-packet warnings; a burst of garbage
	// on the wire should not flood the log.
	dropLimiter = rate.NewLimiter(rate.Every(5*time.Second), 3)
)

func setupLogging(debug bool) {
	logDir := filepath.Join(baseDir, "logs", "errors")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Printf("could not create log directory: %v\n", err)
	}
	ts := time.Now().Format("20060102-150405")

	errPath := filepath.Join(logDir, fmt.Sprintf("error-%s.log", ts))
	errFile, err := os.Create(errPath)
	var errWriter io.Writer = os.Stdout
	if err == nil {
		errWriter = io.MultiWriter(os.Stdout, errFile)
	}
	errorLogger = log.New(errWriter, "", log.LstdFlags)
	log.SetOutput(errWriter)

	setDebugLogging(debug)
}

func logError(format string, v ...interface{}) {
	if errorLogger != nil {
		errorLogger.Printf(format, v...)
	}
}

func logDebug(format string, v ...interface{}) {
	if debugLogger != nil {
		debugLogger.Printf(format, v...)
	}
}

// logDropped records a dropped-packet notice, rate limited. Drops are also
// counted by the tracker so the session summary stays accurate even when
// the log line is suppressed.
func logDropped(format string, v ...interface{}) {
	if dropLimiter.Allow() {
		logError(format, v...)
	}
}

func logDebugPacket(prefix string, data []byte) {
	if debugLogger == nil {
		return
	}
	n := len(data)
	dump := data
	if debugPacketDumpLen > 0 && n > debugPacketDumpLen {
		dump = data[:debugPacketDumpLen]
	}
	debugLogger.Printf("%s len=%d payload=% x", prefix, n, dump)
}

func setDebugLogging(enabled bool) {
	if enabled {
		logDir := filepath.Join(baseDir, "logs", "errors")
		if err := os.MkdirAll(logDir, 0755); err != nil {
			fmt.Printf("could not create log directory: %v\n", err)
		}
		ts := time.Now().Format("20060102-150405")
		dbgPath := filepath.Join(logDir, fmt.Sprintf("debug-%s.log", ts))
		dbgFile, err := os.Create(dbgPath)
		var dbgWriter io.Writer
		if err == nil {
			dbgWriter = io.MultiWriter(os.Stdout, dbgFile)
		} else {
			dbgWriter = os.Stdout
		}
		debugLogger = log.New(dbgWriter, "", log.LstdFlags)
	} else {
		debugLogger = nil
	}
}
