package log

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

// prettyHandler writes one line per record:
//
//	<time> <LEVEL> <file:line> <message> key=value ...
//
// Styling is rendered by a lipgloss renderer bound to the output, so writers
// that are not terminals receive plain text.
type prettyHandler struct {
	cfg    config
	style  *prettyStyle
	mu     *sync.Mutex
	attrs  []byte
	prefix string
}

type prettyStyle struct {
	time, source, key, text, number, yes, no lipgloss.Style
	level                                    map[Level]lipgloss.Style
}

func newPrettyHandler(cfg config) *prettyHandler {
	r := lipgloss.NewRenderer(cfg.output)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return &prettyHandler{
		cfg: cfg,
		style: &prettyStyle{
			time:   fg("8"),
			source: fg("8").Italic(true),
			key:    fg("8"),
			text:   fg("6"),
			number: fg("3"),
			yes:    fg("2"),
			no:     fg("1"),
			level: map[Level]lipgloss.Style{
				LevelTrace: fg("5").Bold(true),
				LevelDebug: fg("4").Bold(true),
				LevelInfo:  fg("2").Bold(true),
				LevelWarn:  fg("3").Bold(true),
				LevelError: fg("1").Bold(true),
			},
		},
		mu: &sync.Mutex{},
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.Level(h.cfg.level)
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		if ts := h.cfg.formatTime(r.Time); ts != "" {
			buf.WriteString(h.style.time.Render(ts))
			buf.WriteByte(' ')
		}
	}

	label := strings.ToUpper(Level(r.Level).String())
	buf.WriteString(h.levelStyle(Level(r.Level)).Render(label))
	buf.WriteString(strings.Repeat(" ", max(levelWidth-len(label), 0)))

	if h.cfg.caller {
		if src := r.Source(); src != nil && src.File != "" {
			buf.WriteByte(' ')
			buf.WriteString(h.style.source.Render(filepath.Base(src.File) + ":" + strconv.Itoa(src.Line)))
		}
	}

	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	buf.Write(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.cfg.output.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	buf := bytes.NewBuffer(bytes.Clone(h.attrs))

	for _, a := range attrs {
		c.appendAttr(buf, h.prefix, a)
	}

	c.attrs = buf.Bytes()

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyHandler) appendAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			h.appendAttr(buf, prefix, ga)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(h.style.key.Render(prefix + a.Key + "="))

	switch v := a.Value; v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindDuration:
		buf.WriteString(h.style.number.Render(v.String()))

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(h.style.yes.Render("true"))
		} else {
			buf.WriteString(h.style.no.Render("false"))
		}

	case slog.KindTime:
		buf.WriteString(h.style.text.Render(h.cfg.formatTime(v.Time())))

	default:
		buf.WriteString(h.style.text.Render(quote(v.String())))
	}
}

func (h *prettyHandler) levelStyle(l Level) lipgloss.Style {
	switch {
	case l >= LevelError:
		return h.style.level[LevelError]
	case l >= LevelWarn:
		return h.style.level[LevelWarn]
	case l >= LevelInfo:
		return h.style.level[LevelInfo]
	case l >= LevelDebug:
		return h.style.level[LevelDebug]
	default:
		return h.style.level[LevelTrace]
	}
}

// levelWidth is the column width of the named level labels.
const levelWidth = 5

// quote returns s in quotes unless it reads back as a single bare token.
func quote(s string) string {
	if s == "" {
		return `""`
	}

	for _, r := range s {
		if unicode.IsSpace(r) || r == '"' || r == '=' || !unicode.IsPrint(r) {
			return strconv.Quote(s)
		}
	}

	return s
}
