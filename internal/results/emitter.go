// internal/results/emitter.go
package results

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/descry-cli/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Emitter records descriptor envelopes for the caller. It owns serialization
// and the output destination; it never inspects descriptor contents.
type Emitter interface {
	// EmitDescribe writes one describe envelope.
	EmitDescribe(env *schemas.DescribeEnvelope) error
	// EmitRefList writes one ref-listing envelope.
	EmitRefList(env *schemas.RefListEnvelope) error
	// Close finalizes the output and releases any underlying file handle.
	Close() error
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error { return nil }

// jsonEmitter writes envelopes as JSON, one document per emit.
type jsonEmitter struct {
	w      io.WriteCloser
	pretty bool
	logger *zap.Logger
}

// NewJSONEmitter creates an emitter writing to outputPath, or stdout when the
// path is empty or "stdout". Stdout is never closed.
func NewJSONEmitter(outputPath string, pretty bool, logger *zap.Logger) (Emitter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var writer io.WriteCloser
	if outputPath == "" || outputPath == "stdout" {
		writer = &nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}

	return &jsonEmitter{
		w:      writer,
		pretty: pretty,
		logger: logger.Named("emitter"),
	}, nil
}

func (e *jsonEmitter) EmitDescribe(env *schemas.DescribeEnvelope) error {
	e.logger.Debug("Emitting describe envelope",
		zap.String("captureId", env.CaptureID),
		zap.Int("elements", len(env.Elements)),
	)
	return e.encode(env)
}

func (e *jsonEmitter) EmitRefList(env *schemas.RefListEnvelope) error {
	e.logger.Debug("Emitting ref list envelope",
		zap.String("captureId", env.CaptureID),
		zap.Int("refs", len(env.Refs)),
	)
	return e.encode(env)
}

func (e *jsonEmitter) encode(v interface{}) error {
	enc := json.NewEncoder(e.w)
	if e.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}
	return nil
}

func (e *jsonEmitter) Close() error {
	return e.w.Close()
}

// InvocationCode renders the illustrative CLI line that reproduces a
// single-ref describe call. It is recorded alongside each descriptor so a
// caller can replay the capture.
func InvocationCode(pageURL, ref string) string {
	return fmt.Sprintf("descry describe %q --ref %s", pageURL, ref)
}
