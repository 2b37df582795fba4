// SPDX-License-Identifier: MPL-2.0

package fmparser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/fmkit/fmkit/pkg/cueutil"
	"github.com/fmkit/fmkit/pkg/featuremodel"
	"github.com/fmkit/fmkit/pkg/types"

	"github.com/charmbracelet/log"
)

// DefaultMaxFileSize caps the size of a model file.
const DefaultMaxFileSize = cueutil.DefaultMaxFileSize

type (
	// Parser reads one feature model format.
	Parser interface {
		// Format returns the format this parser reads.
		Format() Format
		// CheckFormat reports whether path has one of the format's extensions
		// and its content has the format's structure.
		CheckFormat(path string) bool
		// Parse reads the file at path and builds a model.
		Parse(ctx context.Context, path string) (*featuremodel.FeatureModel, error)
	}

	// Options configures a parser.
	Options struct {
		// Logger receives debug output. Nil means silent.
		Logger *log.Logger
		// MaxFileSize rejects larger files. Zero or negative means
		// DefaultMaxFileSize.
		MaxFileSize int64
	}

	// base carries what every reader shares.
	base struct {
		format      Format
		logger      *log.Logger
		maxFileSize int64
	}
)

// New returns the parser for format.
func New(format Format, opts Options) (Parser, error) {
	b := newBase(format, opts)
	switch format {
	case FormatSXFM:
		return &sxfmParser{base: b}, nil
	case FormatFeatureIDE:
		return &featureIDEParser{base: b}, nil
	case FormatXMI:
		return &xmiParser{base: b}, nil
	case FormatGlencoe:
		return &glencoeParser{base: b}, nil
	case FormatDescriptive:
		return &descriptiveParser{base: b}, nil
	case FormatCUE, FormatTOML, FormatYAML, FormatJSON:
		return &documentParser{base: b}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Detect returns the first parser, in Formats order, whose CheckFormat
// accepts path. A file that cannot be stat'ed is reported as such rather than
// as an unsupported format.
func Detect(path string, opts Options) (Parser, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	for _, f := range Formats() {
		p, err := New(f, opts)
		if err != nil {
			return nil, err
		}
		if p.CheckFormat(path) {
			return p, nil
		}
	}
	return nil, &ParseError{Path: path, Err: ErrUnsupportedFormat}
}

// Parse reads path with the parser for format, detecting the format when it
// is FormatNone.
func Parse(ctx context.Context, path string, format Format, opts Options) (*featuremodel.FeatureModel, error) {
	var (
		p   Parser
		err error
	)
	if format == FormatNone {
		p, err = Detect(path, opts)
	} else {
		p, err = New(format, opts)
	}
	if err != nil {
		return nil, err
	}
	return p.Parse(ctx, path)
}

func newBase(format Format, opts Options) base {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	size := opts.MaxFileSize
	if size <= 0 {
		size = DefaultMaxFileSize
	}
	return base{format: format, logger: logger, maxFileSize: size}
}

// Format returns the parser's format.
func (b base) Format() Format { return b.format }

func (b base) hasExtension(path string) bool {
	return slices.Contains(extensions[b.format], types.FilesystemPath(path).Ext())
}

// sniff reads path for a CheckFormat probe. Unreadable files are not a match.
func (b base) sniff(path string) ([]byte, bool) {
	if !b.hasExtension(path) {
		return nil, false
	}
	data, err := b.read(context.Background(), path)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (b base) read(ctx context.Context, path string) ([]byte, error) {
	if err := types.FilesystemPath(path).Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > b.maxFileSize {
		return nil, fmt.Errorf("%w: file size %d bytes exceeds maximum %d bytes", ErrFileTooLarge, info.Size(), b.maxFileSize)
	}
	return os.ReadFile(path)
}

// start logs entry and reads the file, rejecting content that does not
// match the format.
func (b base) start(ctx context.Context, path string, match func([]byte) bool) ([]byte, error) {
	b.logger.Debug("parsing feature model", "file", path, "format", b.format)

	if !b.hasExtension(path) {
		return nil, b.fail(path, fmt.Errorf("%w: extension %q is not one of %v",
			ErrUnsupportedFormat, types.FilesystemPath(path).Ext(), extensions[b.format]))
	}
	data, err := b.read(ctx, path)
	if err != nil {
		return nil, b.fail(path, err)
	}
	if !match(data) {
		return nil, b.fail(path, fmt.Errorf("%w: content is not %s", ErrUnsupportedFormat, b.format))
	}
	return data, nil
}

func (b base) newModel() *featuremodel.FeatureModel {
	return featuremodel.New(featuremodel.Options{Logger: b.logger})
}

// finish wraps a build error, rejects empty models and logs the result.
func (b base) finish(path string, fm *featuremodel.FeatureModel, err error) (*featuremodel.FeatureModel, error) {
	if err != nil {
		return nil, b.fail(path, err)
	}
	if fm.NumOfFeatures() == 0 {
		return nil, b.fail(path, ErrNoFeatures)
	}

	b.logger.Debug("parsed feature model",
		"file", path,
		"format", b.format,
		"name", fm.Name(),
		"features", fm.NumOfFeatures(),
		"relationships", fm.NumOfRelationships(),
		"constraints", fm.NumOfConstraints())
	return fm, nil
}

func (b base) fail(path string, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	return &ParseError{Path: path, Format: b.format, Err: err}
}
