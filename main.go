package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hyunsol/croquis/internal/alarm"
	"github.com/hyunsol/croquis/internal/logging"
	"github.com/hyunsol/croquis/internal/store"
	"github.com/hyunsol/croquis/internal/tui"
)

func main() {
	checkAlarm := flag.Bool("check-alarm", false, "print alarms due this minute and exit")
	alarmService := flag.Bool("alarm-service", false, "watch alarms in the foreground without the UI")
	dataDir := flag.String("data", "", "data directory (default: per-OS user config dir)")
	flag.Parse()

	dir := *dataDir
	if dir == "" {
		var err error
		dir, err = store.DefaultDataDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	log := logging.NewText(os.Stderr)

	s, err := store.New(dir, store.WithLogger(log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening data store: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	if *checkAlarm {
		checker := alarm.NewChecker(log)
		for _, n := range checker.CheckNow(s.Alarms(), time.Now()) {
			fmt.Printf("%s\t%s\n", n.Title, n.Message)
		}
		return
	}

	if *alarmService {
		stop := alarm.Run(s, alarm.NewChecker(log), nil, 30*time.Second)
		defer stop()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		return
	}

	p := tea.NewProgram(tui.NewApp(s), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
