package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wilhg/filemcp/pkg/auditstore"
	"github.com/wilhg/filemcp/pkg/errmodel"
	"github.com/wilhg/filemcp/pkg/logging"
	"github.com/wilhg/filemcp/pkg/tool/fsops"
)

// Result is the outcome of one dispatch: an ordered sequence of text
// blocks. Every invocation produces exactly one block today; the slice
// keeps the wire contract open for multi-block results.
type Result struct {
	Blocks []string
}

// Text returns the first block, which is the whole result under the
// current single-block contract.
func (r Result) Text() string {
	if len(r.Blocks) == 0 {
		return ""
	}
	return r.Blocks[0]
}

// Dispatcher executes catalog tools against a file system. It holds no
// per-call state, so a single Dispatcher is safe for any number of
// concurrent invocations; consistency of the underlying files is the host
// OS's problem, not ours.
type Dispatcher struct {
	fsys   afero.Fs
	audit  *auditstore.Store
	tracer trace.Tracer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithAudit enables the invocation audit trail. A nil store leaves
// auditing off.
func WithAudit(st *auditstore.Store) Option {
	return func(d *Dispatcher) { d.audit = st }
}

// NewDispatcher creates a Dispatcher over fsys. Passing nil falls back to
// the OS file system.
func NewDispatcher(fsys afero.Fs, opts ...Option) *Dispatcher {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	d := &Dispatcher{
		fsys:   fsys,
		tracer: otel.Tracer("tool/dispatch"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch executes the tool named name with the given argument map and
// always returns a Result. Unknown tools, bad arguments, and every fault
// the file system raises are rendered as a single "Error: ..." block;
// nothing escapes as a Go error or panic.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) Result {
	ctx, span := d.tracer.Start(ctx, "Dispatcher.Dispatch", trace.WithAttributes(
		attribute.String("tool.name", name),
	))
	defer span.End()

	start := time.Now()
	text, err := d.run(name, args)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("tool.error_category", errmodel.From(err).Category))
		text = errmodel.Text(err)
	}
	d.recordAudit(ctx, name, args, err == nil, time.Since(start))
	return Result{Blocks: []string{text}}
}

// run resolves and executes one operation. The deferred recover upholds
// the never-faults contract even against a panicking afero backend.
func (d *Dispatcher) run(name string, args map[string]any) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errmodel.Host(fmt.Sprintf("internal fault in %s: %v", name, r), map[string]any{"tool": name}, nil)
		}
	}()

	kind, ok := KindForName(name)
	if !ok {
		return "", errmodel.UnknownTool("Unknown tool: "+name, map[string]any{"tool": name})
	}
	if err := validateArgs(kind, args); err != nil {
		return "", err
	}

	path := stringArg(args, "path")
	switch kind {
	case KindReadFile:
		return fsops.ReadFile(d.fsys, path)
	case KindWriteFile:
		return fsops.WriteFile(d.fsys, path, stringArg(args, "content"))
	case KindListDirectory:
		return fsops.ListDirectory(d.fsys, path)
	case KindCreateDirectory:
		return fsops.CreateDirectory(d.fsys, path)
	case KindDeleteFile:
		return fsops.DeleteFile(d.fsys, path)
	case KindFileInfo:
		return fsops.FileInfo(d.fsys, path)
	}
	panic("tool: unhandled kind")
}

// recordAudit writes one audit row per invocation. Audit failures are
// logged and swallowed; they must never change the Result.
func (d *Dispatcher) recordAudit(ctx context.Context, name string, args map[string]any, ok bool, dur time.Duration) {
	if d.audit == nil {
		return
	}
	rec := auditstore.Invocation{
		ID:       uuid.NewString(),
		Tool:     name,
		Path:     stringArg(args, "path"),
		OK:       ok,
		Duration: dur,
		At:       time.Now().UTC(),
	}
	if err := d.audit.Record(ctx, rec); err != nil {
		logging.GetLogger().Warn("audit record failed", "tool", name, "error", err)
	}
}
