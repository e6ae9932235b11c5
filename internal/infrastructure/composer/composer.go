// Package composer assembles extracted text, tabular data and chart images
// into downloadable PDF, DOCX, PPTX and XLSX documents. All rendering happens
// against in-memory buffers; nothing touches the filesystem.
package composer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/banguela/school-admin/internal/core/domain"
)

type Composer struct{}

func New() *Composer {
	return &Composer{}
}

func (c *Composer) Compose(_ context.Context, req domain.ComposeRequest) (domain.ExportArtifact, error) {
	var (
		payload []byte
		err     error
	)
	switch req.Format {
	case domain.FormatPDF:
		payload, err = composePDF(req)
	case domain.FormatDOCX:
		payload, err = composeDOCX(req)
	case domain.FormatPPTX:
		payload, err = composePPTX(req)
	case domain.FormatXLSX:
		payload, err = composeXLSX(req)
	default:
		err = domain.WrapError(domain.ErrValidation, "compose", nil)
	}
	if err != nil {
		return domain.ExportArtifact{}, err
	}

	return domain.ExportArtifact{
		ID:        uuid.NewString(),
		Name:      domain.ArtifactName(req.Title, req.Format),
		Format:    req.Format,
		MediaType: req.Format.MediaType(),
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}, nil
}
