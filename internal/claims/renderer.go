package claims

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/motormint/motormint/web"
)

// PDFClient exposes the subset of the report client used by the renderer.
type PDFClient interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// Renderer turns the claim view model into PDF bytes.
type Renderer struct {
	tpl    *template.Template
	client PDFClient
}

// NewRenderer parses the claim report template and wires the PDF client.
func NewRenderer(client PDFClient) (*Renderer, error) {
	if client == nil {
		return nil, fmt.Errorf("claims renderer: pdf client required")
	}
	tpl, err := template.New("claim_report.html").ParseFS(web.Templates, "templates/reports/claim_report.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tpl: tpl, client: client}, nil
}

// Render executes the template and converts the HTML to PDF bytes.
func (r *Renderer) Render(ctx context.Context, data DocumentData) (RenderResult, error) {
	if r == nil || r.tpl == nil || r.client == nil {
		return RenderResult{}, fmt.Errorf("claims renderer not initialised")
	}
	buf := &bytes.Buffer{}
	if err := r.tpl.Execute(buf, data); err != nil {
		return RenderResult{}, err
	}
	pdf, err := r.client.RenderHTML(ctx, buf.String())
	if err != nil {
		return RenderResult{}, err
	}
	return RenderResult{HTML: buf.String(), PDF: pdf, Length: int64(len(pdf))}, nil
}
