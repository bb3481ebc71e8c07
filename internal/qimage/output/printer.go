package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/qimage/internal/processor"
	"github.com/fatih/color"
)

type Printer struct {
	out     io.Writer
	errOut  io.Writer
	json    bool
	quiet   bool
	noColor bool
}

type Option func(*Printer)

func WithJSON(json bool) Option {
	return func(p *Printer) {
		p.json = json
	}
}

func WithQuiet(quiet bool) Option {
	return func(p *Printer) {
		p.quiet = quiet
	}
}

func WithNoColor(noColor bool) Option {
	return func(p *Printer) {
		p.noColor = noColor
	}
}

func WithOutput(out io.Writer) Option {
	return func(p *Printer) {
		p.out = out
	}
}

func WithErrOutput(errOut io.Writer) Option {
	return func(p *Printer) {
		p.errOut = errOut
	}
}

func New(opts ...Option) *Printer {
	p := &Printer{
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.noColor {
		color.NoColor = true
	}
	return p
}

func successIcon() string { return color.GreenString("✓") }
func errorIcon() string   { return color.RedString("✗") }
func warnIcon() string    { return color.YellowString("!") }
func infoIcon() string    { return color.CyanString("→") }
func indentIcon() string  { return color.HiBlackString("└─") }

func (p *Printer) IsJSON() bool {
	return p.json
}

func (p *Printer) IsQuiet() bool {
	return p.quiet
}

func (p *Printer) Out() io.Writer {
	return p.out
}

func (p *Printer) ErrOut() io.Writer {
	return p.errOut
}

func (p *Printer) Printf(format string, args ...any) {
	if p.quiet || p.json {
		return
	}
	fmt.Fprintf(p.out, format, args...)
}

func (p *Printer) Success(format string, args ...any) {
	if p.quiet || p.json {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", successIcon(), fmt.Sprintf(format, args...))
}

func (p *Printer) Error(format string, args ...any) {
	if p.json {
		return
	}
	fmt.Fprintf(p.errOut, "%s %s\n", errorIcon(), fmt.Sprintf(format, args...))
}

func (p *Printer) Warn(format string, args ...any) {
	if p.quiet || p.json {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", warnIcon(), fmt.Sprintf(format, args...))
}

func (p *Printer) Info(format string, args ...any) {
	if p.quiet || p.json {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", infoIcon(), fmt.Sprintf(format, args...))
}

func (p *Printer) Indent(format string, args ...any) {
	if p.quiet || p.json {
		return
	}
	fmt.Fprintf(p.out, "  %s %s\n", indentIcon(), fmt.Sprintf(format, args...))
}

func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Printer) PrintResult(result any) error {
	if p.json {
		return p.JSON(result)
	}
	return nil
}

func (p *Printer) KeyValue(key, value string) {
	if p.quiet || p.json {
		return
	}
	fmt.Fprintf(p.out, "  %s: %s\n", color.HiBlackString(key), value)
}

func (p *Printer) Summary(successful, failed int) {
	if p.quiet || p.json {
		return
	}
	fmt.Fprintln(p.out)
	total := successful + failed
	if failed == 0 {
		color.New(color.FgGreen).Fprintf(p.out, "%d/%d completed successfully\n", successful, total)
	} else {
		color.New(color.FgYellow).Fprintf(p.out, "%d/%d completed (%d failed)\n", successful, total, failed)
	}
}

func (p *Printer) ImageWritten(source string, desc *processor.Descriptor) {
	if p.quiet || p.json {
		return
	}
	fmt.Fprintf(p.out, "%s %s %s %s (%dx%d %s)\n",
		successIcon(), source, infoIcon(), desc.Path, desc.Width, desc.Height, desc.Format)
}

// Diagnostics prints each accumulated message on its own line. They are
// printed even in quiet mode.
func (p *Printer) Diagnostics(source string, messages []string) {
	if p.json {
		return
	}
	for _, msg := range messages {
		if source == "" {
			fmt.Fprintf(p.errOut, "%s %s\n", errorIcon(), msg)
			continue
		}
		fmt.Fprintf(p.errOut, "%s %s: %s\n", errorIcon(), source, msg)
	}
}
