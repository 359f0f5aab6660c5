package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/wonny/finbrief/internal/briefing"
	"github.com/wonny/finbrief/internal/contracts"
	"github.com/wonny/finbrief/pkg/logger"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// PageHandler serves the single search page
type PageHandler struct {
	runner   Runner
	markdown goldmark.Markdown
	logger   *logger.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(runner Runner, log *logger.Logger) *PageHandler {
	return &PageHandler{
		runner:   runner,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger:   log,
	}
}

// pageData is what index.html renders
type pageData struct {
	Query       string
	Warning     string
	Briefing    *contracts.Briefing
	SummaryHTML template.HTML
}

// Index renders the empty form
// GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, pageData{})
}

// Submit runs the pipeline within the request and renders the result
// POST /
func (h *PageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, pageData{Warning: briefing.MsgEmptyInput})
		return
	}

	query := r.PostFormValue("company")
	b := h.runner.Run(r.Context(), query, nil)

	data := pageData{Query: b.Query}
	if b.FailureKind == contracts.KindInvalidInput {
		data.Warning = b.Message
		h.render(w, http.StatusOK, data)
		return
	}

	data.Briefing = b
	if b.Succeeded() {
		data.SummaryHTML = h.renderSummary(b.Summary)
	}

	h.render(w, http.StatusOK, data)
}

// renderSummary converts the model's markdown into HTML. Raw HTML in the
// summary is not passed through.
func (h *PageHandler) renderSummary(summary string) template.HTML {
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(summary), &buf); err != nil {
		h.logger.WithError(err).Warn("Failed to render summary markdown")
		return template.HTML("<pre>" + template.HTMLEscapeString(summary) + "</pre>")
	}
	return template.HTML(buf.String())
}

func (h *PageHandler) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.logger.WithError(err).Error("Failed to render page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
