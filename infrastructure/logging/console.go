package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var (
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C")).Bold(true)
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	debugStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#BD93F9"))
	timeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4"))
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD")).Bold(true)
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4"))
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F1FA8C"))

	consolePool = buffer.NewPool()
)

// shouldUseColor 配置允许且标准输出是终端时才着色
func shouldUseColor(colorize bool) bool {
	if !colorize {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// consoleEncoder 紧凑的控制台编码器
// 格式: 时间 | 级别 | 分类 | 消息 [key=value, ...]
type consoleEncoder struct {
	*zapcore.MapObjectEncoder
	colored bool
}

func newConsoleEncoder(colored bool) zapcore.Encoder {
	return &consoleEncoder{
		MapObjectEncoder: zapcore.NewMapObjectEncoder(),
		colored:          colored,
	}
}

func (enc *consoleEncoder) Clone() zapcore.Encoder {
	clone := zapcore.NewMapObjectEncoder()
	for k, v := range enc.Fields {
		clone.Fields[k] = v
	}
	return &consoleEncoder{MapObjectEncoder: clone, colored: enc.colored}
}

func (enc *consoleEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := consolePool.Get()

	buf.AppendString(enc.render(timeStyle, entry.Time.Format("15:04:05")))
	buf.AppendString(" | ")
	buf.AppendString(enc.level(entry.Level))
	buf.AppendString(" | ")
	if cat, ok := enc.Fields["category"].(string); ok && cat != "" {
		buf.AppendString(enc.render(categoryStyle, cat))
		buf.AppendString(" | ")
	}
	buf.AppendString(entry.Message)

	extra := zapcore.NewMapObjectEncoder()
	for k, v := range enc.Fields {
		if k != "category" {
			extra.Fields[k] = v
		}
	}
	for _, f := range fields {
		f.AddTo(extra)
	}
	if len(extra.Fields) > 0 {
		enc.writeFields(buf, extra.Fields)
	}

	if entry.Stack != "" {
		buf.AppendByte('\n')
		buf.AppendString(entry.Stack)
	}
	buf.AppendString(zapcore.DefaultLineEnding)
	return buf, nil
}

func (enc *consoleEncoder) writeFields(buf *buffer.Buffer, fields map[string]interface{}) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.AppendString(" [")
	for i, k := range keys {
		if i > 0 {
			buf.AppendString(", ")
		}
		buf.AppendString(enc.render(keyStyle, k))
		buf.AppendByte('=')
		buf.AppendString(enc.render(valueStyle, formatValue(fields[k])))
	}
	buf.AppendByte(']')
}

func (enc *consoleEncoder) level(l zapcore.Level) string {
	text := fmt.Sprintf("%-5s", l.CapitalString())
	switch l {
	case zapcore.DebugLevel:
		return enc.render(debugStyle, text)
	case zapcore.InfoLevel:
		return enc.render(infoStyle, text)
	case zapcore.WarnLevel:
		return enc.render(warnStyle, text)
	default:
		return enc.render(errorStyle, text)
	}
}

func (enc *consoleEncoder) render(style lipgloss.Style, text string) string {
	if !enc.colored {
		return text
	}
	return style.Render(text)
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case error:
		return val.Error()
	case fmt.Stringer:
		return val.String()
	case bool, int64, int, float64:
		return fmt.Sprint(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}
