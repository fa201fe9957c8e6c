package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"moviehub/internal/events"
)

// sync-client tails the activity feed: it dials the TCP events server
// and renders each rating/review event as a single human-readable line.
func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "TCP events server address")
	raw := flag.Bool("raw", false, "print event JSON instead of formatted lines")
	flag.Parse()

	for {
		if err := tail(*addr, *raw); err != nil {
			log.Printf("[sync-client] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func tail(addr string, raw bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[sync-client] watching activity on %s", addr)

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Bytes()
		if raw {
			fmt.Println(string(line))
			continue
		}

		var ev events.Event
		if err := json.Unmarshal(line, &ev); err != nil || ev.Type == "" {
			// welcome frames and anything else non-event print as-is
			fmt.Println(string(line))
			continue
		}
		fmt.Println(formatEvent(ev))
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

func formatEvent(ev events.Event) string {
	ts := ev.At.Local().Format("15:04:05")
	switch ev.Type {
	case events.TypeRatingSubmitted:
		return fmt.Sprintf("%s  %s rated movie %s %s", ts, user(ev), ev.MovieID, stars(ev.Rating))
	case events.TypeReviewAdded:
		if ev.Rating > 0 {
			return fmt.Sprintf("%s  %s reviewed movie %s %s", ts, user(ev), ev.MovieID, stars(ev.Rating))
		}
		return fmt.Sprintf("%s  %s reviewed movie %s", ts, user(ev), ev.MovieID)
	default:
		return fmt.Sprintf("%s  %s: movie %s by %s", ts, ev.Type, ev.MovieID, user(ev))
	}
}

func user(ev events.Event) string {
	if ev.UserID == "" {
		return "someone"
	}
	return ev.UserID
}

func stars(n int) string {
	if n < 1 {
		n = 1
	} else if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}
