// SPDX-License-Identifier: MPL-2.0

package fmparser

import (
	"context"

	"github.com/fmkit/fmkit/pkg/featuremodel"
	"github.com/fmkit/fmkit/pkg/fmdoc"
)

// documentParser reads fmkit documents written in CUE, TOML, YAML or JSON.
type documentParser struct {
	base
}

// CheckFormat reports whether path has the format's extension and decodes
// as a document. A JSON document must also list features, since any other
// .json file with only a name would decode too.
func (p *documentParser) CheckFormat(path string) bool {
	data, ok := p.sniff(path)
	if !ok {
		return false
	}
	doc, err := p.decode(path, data)
	if err != nil {
		return false
	}
	return p.format != FormatJSON || len(doc.Features) > 0
}

// Parse decodes the document and builds the model from it.
func (p *documentParser) Parse(ctx context.Context, path string) (*featuremodel.FeatureModel, error) {
	data, err := p.start(ctx, path, func([]byte) bool { return true })
	if err != nil {
		return nil, err
	}

	doc, err := p.decode(path, data)
	if err != nil {
		return nil, p.fail(path, err)
	}
	fm, err := doc.Build(featuremodel.Options{Logger: p.logger})
	return p.finish(path, fm, err)
}

func (p *documentParser) decode(path string, data []byte) (*fmdoc.Document, error) {
	switch p.format {
	case FormatCUE:
		return fmdoc.DecodeCUE(data, path, p.maxFileSize)
	case FormatTOML:
		return fmdoc.DecodeTOML(data)
	case FormatJSON:
		return fmdoc.DecodeJSON(data)
	default:
		return fmdoc.DecodeYAML(data)
	}
}
