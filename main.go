package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"collaboard/internal/config"
	"collaboard/internal/export"
	"collaboard/internal/frame"
	"collaboard/internal/net"
	"collaboard/internal/room"
	"collaboard/internal/session"
	"collaboard/internal/state"
)

const requestTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load(".env")

	createID := flag.String("create", "", "create a room with this id and become its owner")
	joinID := flag.String("join", "", "join an existing room by id")
	exportPath := flag.String("export", "", "write the board to this PDF file on exit")
	cfg := config.MustLoad() // parses the flag set

	if (*createID == "") == (*joinID == "") {
		fmt.Fprintln(os.Stderr, "usage: collaboard -create <roomId> | -join <roomId> [-export board.pdf]")
		os.Exit(2)
	}

	serverURL, err := resolveServer(cfg)
	if err != nil {
		log.Fatalf("no server: %v", err)
	}

	dialCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	link, err := net.DialWS(dialCtx, serverURL)
	cancel()
	if err != nil {
		log.Fatalf("connect: %v", err)
	}

	adapter := net.NewAdapter(link)
	userID := state.NewUserID()
	sched := frame.NewIntervalScheduler(cfg.FrameInterval)
	ctrl := session.NewController(adapter, sched, userID, cfg.Nickname,
		session.WithBrush(cfg.Brush.Color, cfg.Brush.Width))
	adapter.Bind(ctrl)

	go func() {
		if err := link.ReadLoop(adapter.Dispatch); err != nil {
			log.Printf("connection lost: %v", err)
		}
		adapter.Fail()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if *createID != "" {
		err = ctrl.CreateRoom(ctx, *createID)
	} else {
		err = ctrl.JoinRoom(ctx, *joinID)
	}
	if err != nil {
		log.Fatalf("enter room: %v", err)
	}

	terminated := make(chan room.Reason, 1)
	unsub := ctrl.Subscribe(func(v session.View) {
		if v.RoomState == room.Terminated {
			select {
			case terminated <- v.Reason:
			default:
			}
			return
		}
		log.Printf("[view] %d strokes, %d participants, %d remote cursors",
			len(v.CompletedStrokes), len(v.Participants), len(v.RemoteCursors))
	})
	defer unsub()

	log.Printf("in room %s as %q (%s)", ctrl.View().RoomID, cfg.Nickname, userID)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sig:
		log.Println("leaving room")
		if err := ctrl.LeaveRoom(); err != nil {
			log.Printf("leave: %v", err)
		}
	case reason := <-terminated:
		log.Printf("session ended: %s", reason)
	}

	if *exportPath != "" {
		strokes := ctrl.View().CompletedStrokes
		if err := export.PDF(*exportPath, strokes); err != nil {
			log.Printf("export: %v", err)
		} else {
			log.Printf("board written to %s (%d strokes)", *exportPath, len(strokes))
		}
	}

	_ = adapter.Close()
}

// resolveServer returns the configured server URL, falling back to mDNS
// discovery on the local network.
func resolveServer(cfg *config.Config) (string, error) {
	if cfg.ServerURL != "" {
		return cfg.ServerURL, nil
	}
	if !cfg.Discovery.Enabled {
		return "", fmt.Errorf("server_url not configured and discovery disabled")
	}
	log.Println("no server configured, browsing the local network")
	found, err := net.Discover(cfg.Discovery.Window)
	if err != nil {
		return "", err
	}
	if len(found) == 0 {
		return "", fmt.Errorf("no collaboard server found on the local network")
	}
	log.Printf("discovered %s", found[0])
	return "ws://" + found[0] + "/ws", nil
}
