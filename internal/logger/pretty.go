package logger

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// PrettyOptions configures PrettyHandler.
type PrettyOptions struct {
	Level   slog.Leveler
	NoColor bool
}

// PrettyHandler writes one human-readable line per record:
//
//	15:04:05 INFO  engine ready vocab=27 elapsed=1.5s
//
// Attributes added through With are rendered once and reused.
type PrettyHandler struct {
	opts   PrettyOptions
	w      io.Writer
	mu     *sync.Mutex
	prefix string
	preset []byte
	pal    palette
}

type palette struct {
	time, key, err    *color.Color
	debug, info, warn *color.Color
	fail              *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		time:  color.New(color.FgHiBlack),
		key:   color.New(color.FgCyan),
		err:   color.New(color.FgRed),
		debug: color.New(color.FgHiBlack, color.Bold),
		info:  color.New(color.FgBlue, color.Bold),
		warn:  color.New(color.FgYellow, color.Bold),
		fail:  color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.time, p.key, p.err, p.debug, p.info, p.warn, p.fail} {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return p
}

func NewPrettyHandler(w io.Writer, opts PrettyOptions) *PrettyHandler {
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	return &PrettyHandler{
		opts: opts,
		w:    w,
		mu:   &sync.Mutex{},
		pal:  newPalette(opts.NoColor),
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(h.pal.time.Sprint(r.Time.Format(time.TimeOnly)))
	sb.WriteByte(' ')
	sb.WriteString(h.levelColor(r.Level).Sprintf("%-5s", r.Level.String()))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)
	sb.Write(h.preset)
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&sb, h.prefix, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var sb strings.Builder
	for _, a := range attrs {
		h.writeAttr(&sb, h.prefix, a)
	}
	next := *h
	next.preset = append(append([]byte(nil), h.preset...), sb.String()...)
	return &next
}

// WithGroup qualifies later keys as group.key.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func (h *PrettyHandler) levelColor(level slog.Level) *color.Color {
	switch {
	case level >= slog.LevelError:
		return h.pal.fail
	case level >= slog.LevelWarn:
		return h.pal.warn
	case level >= slog.LevelInfo:
		return h.pal.info
	default:
		return h.pal.debug
	}
}

func (h *PrettyHandler) writeAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			h.writeAttr(sb, prefix, ga)
		}
		return
	}

	sb.WriteByte(' ')
	keyColor := h.pal.key
	if _, isErr := a.Value.Any().(error); isErr {
		keyColor = h.pal.err
	}
	sb.WriteString(keyColor.Sprint(prefix + a.Key))
	sb.WriteByte('=')
	sb.WriteString(formatValue(a.Value))
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return quoteIfNeeded(v.String())
	case slog.KindDuration:
		return v.Duration().Round(time.Microsecond).String()
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'g', 6, 64)
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return quoteIfNeeded(err.Error())
		}
		return quoteIfNeeded(v.String())
	default:
		return v.String()
	}
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
