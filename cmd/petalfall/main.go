package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/petalfall/audio"
	"github.com/lixenwraith/petalfall/config"
	"github.com/lixenwraith/petalfall/engine"
	"github.com/lixenwraith/petalfall/page"
	"github.com/lixenwraith/petalfall/service"
	"github.com/lixenwraith/petalfall/status"
)

func main() {
	cfg, err := config.Load(os.Args[0], os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "petalfall: %v\n", err)
		os.Exit(2)
	}

	if logFile := setupLogging(cfg.Debug); logFile != nil {
		defer logFile.Close()
	}

	playlist, err := config.LoadPlaylist(cfg.Playlist)
	if err != nil {
		fmt.Fprintf(os.Stderr, "petalfall: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.HideCursor()

	// Panic Recovery: terminal is reset before the trace is printed
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			// \r\n survives a terminal still in raw mode
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mPETALFALL CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	if err := run(cfg, playlist, screen); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "petalfall: %v\n", err)
		os.Exit(1)
	}
	screen.Fini()
}

func run(cfg config.Config, playlist config.Playlist, screen tcell.Screen) error {
	reg := status.NewRegistry()
	faults := reg.Int(status.Faults)

	fault := engine.NewFaultHandler(log.Default())
	fault.OnFault(func(engine.Fault) { faults.Add(1) })
	loop := engine.NewLoop(fault)

	gate := audio.NewGate(cfg.Autoplay)
	eng := audio.NewEngine(audio.DefaultConfig(), gate, loop, fault)

	var services []service.Service
	if !cfg.NoAudio {
		services = append(services, eng)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	log.Printf("main: seed %d", seed)

	p, err := page.New(page.Deps{
		Config:    cfg,
		Playlist:  playlist,
		Scheduler: loop,
		Fault:     fault,
		Screen:    screen,
		Registry:  reg,
		Rand:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		Backend:   page.AudioBackend(eng),
		Muter:     eng,
		Gesture:   gate.NoteGesture,
		Services:  services,
		Quit:      loop.Stop,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startErr := make(chan error, 1)
	loop.Post(func() { startErr <- p.Start() })

	// Input polling interacts directly with the terminal, results go back to the loop
	fault.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			loop.Post(func() { p.HandleEvent(ev) })
		}
	})

	runErr := make(chan error, 1)
	go func() { runErr <- loop.Run(ctx) }()

	select {
	case err := <-startErr:
		if err != nil {
			loop.Stop()
			<-runErr
			return err
		}
	case err := <-runErr:
		return ignoreCancel(err)
	}

	err = <-runErr
	p.Stop()
	log.Printf("main: exit, %s", reg.Snapshot())
	return ignoreCancel(err)
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
