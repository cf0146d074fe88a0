package terminal

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"opschat/pkg/chat"
)

var (
	promptStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	infoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Display renders chat output to a terminal. Finalized assistant messages
// go through the markdown renderer; in-flight tokens are echoed raw so the
// stream stays visibly incremental.
type Display struct {
	out      io.Writer
	renderer *glamour.TermRenderer
}

func NewDisplay(out io.Writer, width int) *Display {
	if width <= 0 {
		width = 80
	}
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	return &Display{out: out, renderer: renderer}
}

func (d *Display) Welcome(model, serverURL string) {
	fmt.Fprintln(d.out, promptStyle.Render("opschat"))
	fmt.Fprintln(d.out, infoStyle.Render(fmt.Sprintf("server: %s  model: %s", serverURL, model)))
	fmt.Fprintln(d.out, infoStyle.Render("commands: /models /status /rag on|off /web on|off /upload <path> /clear /quit"))
	fmt.Fprintln(d.out)
}

func (d *Display) Prompt() {
	fmt.Fprint(d.out, promptStyle.Render("> "))
}

func (d *Display) AssistantHeader() {
	fmt.Fprintln(d.out, assistantStyle.Render("assistant"))
}

// Token echoes one streamed fragment without any markup.
func (d *Display) Token(content string) {
	fmt.Fprint(d.out, content)
}

// Assistant re-renders a finalized message as markdown. Untrusted content
// is handled by the renderer; on render failure the raw text is shown.
func (d *Display) Assistant(msg chat.Message) {
	fmt.Fprintln(d.out)
	rendered, err := d.renderer.Render(msg.Content)
	if err != nil {
		fmt.Fprintln(d.out, msg.Content)
		return
	}
	fmt.Fprint(d.out, rendered)
}

func (d *Display) Info(text string) {
	fmt.Fprintln(d.out, infoStyle.Render(text))
}

func (d *Display) Error(text string) {
	fmt.Fprintln(d.out, errorStyle.Render(text))
}
