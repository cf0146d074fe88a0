package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"opschat/pkg/api"
	"opschat/pkg/chat"
	"opschat/pkg/controllers"
	"opschat/pkg/logger"
)

// Session is the interactive chat loop. It adapts terminal input into
// controller commands and controller events into renders, and owns the
// non-fatal degradation of the auxiliary status lookups.
type Session struct {
	controller *controllers.TurnController
	status     *api.Client
	display    *Display
	in         *bufio.Scanner
	serverURL  string

	webAllowed bool
	webReason  string
}

func NewSession(controller *controllers.TurnController, status *api.Client, display *Display, in io.Reader, serverURL string) *Session {
	s := &Session{
		controller: controller,
		status:     status,
		display:    display,
		in:         bufio.NewScanner(in),
		serverURL:  serverURL,
	}
	controller.SetSink(s)
	controller.SetStatusFetcher(status)
	return s
}

// EventSink implementation.

func (s *Session) TurnStarted() {
	s.display.AssistantHeader()
}

func (s *Session) Token(content string) {
	s.display.Token(content)
}

func (s *Session) TurnFinished(msg chat.Message) {
	s.display.Assistant(msg)
}

func (s *Session) RAGStatusUpdated(status *api.RAGStatus) {
	s.display.Info(fmt.Sprintf("rag index: %d documents, %d chunks", status.DocumentCount, status.ChunkCount))
}

// Start runs the read-eval loop until EOF or /quit.
func (s *Session) Start(ctx context.Context) error {
	s.loadStatus(ctx)
	s.display.Welcome(s.controller.Model(), s.serverURL)

	for {
		s.display.Prompt()
		if !s.in.Scan() {
			return s.in.Err()
		}
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := s.command(ctx, line); quit {
				return nil
			}
			continue
		}

		// Submit blocks until the turn reaches a terminal state, so no
		// second turn can start while one is in flight.
		if _, err := s.controller.Submit(ctx, line); err != nil {
			s.display.Error(err.Error())
		}
	}
}

// loadStatus fetches the auxiliary endpoints on startup. Every failure
// degrades to an informational line; none of them is fatal.
func (s *Session) loadStatus(ctx context.Context) {
	log := logger.WithComponent("session")

	if models, err := s.status.Models(ctx); err != nil {
		log.Debug("models lookup failed", "error", err)
		s.display.Info("models: unavailable")
	} else {
		if s.controller.Model() == "" {
			s.controller.SetModel(models.Default)
		}
		s.display.Info(fmt.Sprintf("models: %s", strings.Join(models.Models, ", ")))
	}

	if rag, err := s.status.RAGStatus(ctx); err != nil {
		log.Debug("rag status lookup failed", "error", err)
		s.display.Info("rag: status unavailable")
	} else {
		s.display.Info(fmt.Sprintf("rag: %d documents, %d chunks", rag.DocumentCount, rag.ChunkCount))
	}

	web, err := s.status.WebStatus(ctx)
	switch {
	case err != nil:
		log.Debug("web status lookup failed", "error", err)
		s.webAllowed = false
		s.webReason = "web lookup status unavailable"
	case !web.Configured:
		s.webAllowed = false
		s.webReason = "web lookup is not configured on the server"
	default:
		s.webAllowed = true
	}
	if !s.webAllowed {
		if s.controller.WebEnabled() {
			s.controller.SetWebEnabled(false)
		}
		s.display.Info(fmt.Sprintf("web: off (%s)", s.webReason))
	}
}

// command handles a slash command, returning true when the session should
// end.
func (s *Session) command(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true

	case "/clear":
		if s.confirm("Clear conversation history? This cannot be undone. [y/N]: ") {
			s.controller.Clear()
			s.display.Info("conversation cleared")
		}

	case "/models":
		models, err := s.status.Models(ctx)
		if err != nil {
			s.display.Error("models: unavailable")
			return false
		}
		for _, name := range models.Models {
			marker := "  "
			if name == s.controller.Model() {
				marker = "* "
			}
			s.display.Info(marker + name)
		}

	case "/status":
		s.printStatus(ctx)

	case "/rag":
		on, ok := parseToggle(fields)
		if !ok {
			s.display.Error("usage: /rag on|off")
			return false
		}
		s.controller.SetRAGEnabled(on)
		s.display.Info(fmt.Sprintf("rag: %s", onOff(on)))

	case "/web":
		on, ok := parseToggle(fields)
		if !ok {
			s.display.Error("usage: /web on|off")
			return false
		}
		if on && !s.webAllowed {
			s.display.Error("web: " + s.webReason)
			return false
		}
		s.controller.SetWebEnabled(on)
		s.display.Info(fmt.Sprintf("web: %s", onOff(on)))

	case "/upload":
		if len(fields) < 2 {
			s.display.Error("usage: /upload <path>")
			return false
		}
		s.upload(ctx, fields[1])

	default:
		s.display.Error("unknown command: " + fields[0])
	}
	return false
}

func (s *Session) printStatus(ctx context.Context) {
	if health, err := s.status.Health(ctx); err != nil {
		s.display.Error("health: unreachable")
	} else {
		s.display.Info(fmt.Sprintf("health: %s (ollama %s)", health.Status, health.Ollama))
	}

	if rag, err := s.status.RAGStatus(ctx); err != nil {
		s.display.Info("rag: status unavailable")
	} else {
		s.display.Info(fmt.Sprintf("rag: %d documents, %d chunks", rag.DocumentCount, rag.ChunkCount))
	}

	if s.webAllowed {
		s.display.Info(fmt.Sprintf("web: available, enabled=%v", s.controller.WebEnabled()))
	} else {
		s.display.Info("web: off (" + s.webReason + ")")
	}
}

func (s *Session) upload(ctx context.Context, path string) {
	f, err := os.Open(path)
	if err != nil {
		s.display.Error("upload: " + err.Error())
		return
	}
	defer f.Close()

	resp, err := s.status.UploadDocument(ctx, filepath.Base(path), f)
	if err != nil {
		s.display.Error("upload: " + err.Error())
		return
	}
	s.display.Info(fmt.Sprintf("uploaded %s: %d chunks added (%d total)",
		resp.Filename, resp.ChunksAdded, resp.TotalChunks))
}

func (s *Session) confirm(prompt string) bool {
	fmt.Fprint(s.display.out, prompt)
	if !s.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(s.in.Text()))
	return answer == "y" || answer == "yes"
}

func parseToggle(fields []string) (on, ok bool) {
	if len(fields) != 2 {
		return false, false
	}
	switch fields[1] {
	case "on":
		return true, true
	case "off":
		return false, true
	}
	return false, false
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
