package main

import (
	"log"
	"os"
	"sync"
)

const maxMessages = 1000

var (
	messageMu     sync.Mutex
	messages      []string
	consoleLogger = log.New(os.Stdout, "", log.LstdFlags)
)

// consoleMessage writes a human-readable event notice to stdout and keeps a
// bounded history of recent lines.
func consoleMessage(msg string) {
	if msg == "" {
		return
	}

	messageMu.Lock()
	messages = append(messages, msg)
	if len(messages) > maxMessages {
		messages = messages[len(messages)-maxMessages:]
	}
	messageMu.Unlock()

	consoleLogger.Print(msg)
}

func getConsoleMessages() []string {
	messageMu.Lock()
	defer messageMu.Unlock()

	out := make([]string, len(messages))
	copy(out, messages)
	return out
}
