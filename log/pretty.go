package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyHandler writes colorized records. In text format each record is a
// single line of key=value pairs. In JSON format each record is an indented
// object with one attribute per line. Groups are flattened into dotted keys.
type prettyHandler struct {
	opts   slog.HandlerOptions
	format Format
	mu     *sync.Mutex
	w      io.Writer
	groups []string
	attrs  []prettyAttr
}

// prettyAttr is a resolved leaf attribute with its fully qualified key.
type prettyAttr struct {
	key   string
	value slog.Value
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions, format Format) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		format: format,
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minimum := slog.LevelInfo
	if h.opts.Level != nil {
		minimum = h.opts.Level.Level()
	}

	return level >= minimum
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var attrs []prettyAttr

	builtin := func(a slog.Attr) {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if !a.Equal(slog.Attr{}) {
			attrs = append(attrs, prettyAttr{a.Key, a.Value.Resolve()})
		}
	}

	if !r.Time.IsZero() {
		builtin(slog.Time(slog.TimeKey, r.Time))
	}

	builtin(slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			builtin(slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	builtin(slog.String(slog.MessageKey, r.Message))

	attrs = append(attrs, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		attrs = h.flatten(attrs, h.groups, a)

		return true
	})

	buf := new(bytes.Buffer)

	if h.format == FormatJSON {
		h.writeJSON(buf, r.Level, attrs)
	} else {
		h.writeText(buf, r.Level, attrs)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	c.attrs = slices.Clip(h.attrs)

	for _, a := range attrs {
		c.attrs = h.flatten(c.attrs, h.groups, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(slices.Clip(h.groups), name)

	return &c
}

// flatten appends a to dst, expanding group values into dotted keys.
func (h *prettyHandler) flatten(dst []prettyAttr, groups []string, a slog.Attr) []prettyAttr {
	if h.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
		a = h.opts.ReplaceAttr(groups, a)
	}

	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return dst
	}

	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		if len(members) == 0 {
			return dst
		}

		inner := groups
		if a.Key != "" {
			inner = append(slices.Clip(groups), a.Key)
		}

		for _, m := range members {
			dst = h.flatten(dst, inner, m)
		}

		return dst
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	return append(dst, prettyAttr{key, a.Value})
}

func (h *prettyHandler) writeText(buf *bytes.Buffer, level slog.Level, attrs []prettyAttr) {
	for i, a := range attrs {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(colorGray)
		buf.WriteString(a.key)
		buf.WriteString(colorReset)
		buf.WriteByte('=')
		writeValue(buf, level, a)
	}

	buf.WriteByte('\n')
}

func (h *prettyHandler) writeJSON(buf *bytes.Buffer, level slog.Level, attrs []prettyAttr) {
	buf.WriteString("{\n")

	for i, a := range attrs {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(colorGray)
		buf.WriteString(a.key)
		buf.WriteString(colorReset)
		buf.WriteString(": ")
		writeValue(buf, level, a)
	}

	buf.WriteString("\n}\n")
}

// writeValue colors a value by kind. The level attribute is colored by the
// severity of the record.
func writeValue(buf *bytes.Buffer, level slog.Level, a prettyAttr) {
	color, text := colorCyan, ""

	v := a.value

	switch v.Kind() {
	case slog.KindString:
		text = v.String()

		if a.key == slog.LevelKey {
			color = levelColor(level)
		}

	case slog.KindInt64:
		color, text = colorYellow, strconv.FormatInt(v.Int64(), 10)

	case slog.KindUint64:
		color, text = colorYellow, strconv.FormatUint(v.Uint64(), 10)

	case slog.KindFloat64:
		color, text = colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64)

	case slog.KindBool:
		color, text = colorRed, "false"
		if v.Bool() {
			color, text = colorGreen, "true"
		}

	case slog.KindDuration:
		color, text = colorMagenta, v.Duration().String()

	case slog.KindTime:
		color, text = colorBlue, v.Time().String()

	case slog.KindAny:
		switch x := v.Any().(type) {
		case nil:
			color, text = colorGray, "null"
		case slog.Level:
			color, text = levelColor(x), strings.ToUpper(Level(x).String())
		case error:
			color, text = colorRed, x.Error()
		default:
			text = fmt.Sprint(x)
		}

	default:
		text = v.String()
	}

	buf.WriteString(color)
	buf.WriteString(text)
	buf.WriteString(colorReset)
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}
