package endpoints

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdfgrid/pdfgrid/internal/api"
	"github.com/pdfgrid/pdfgrid/internal/extract"
	"github.com/pdfgrid/pdfgrid/internal/svcctx"
)

// ParseTextRequest is the body for POST /api/parse/text.
type ParseTextRequest struct {
	DocumentText  string               `json:"document_text"`
	SectionPrompt string               `json:"section_prompt,omitempty"`
	Columns       []extract.ColumnSpec `json:"columns,omitempty"`
	Engine        string               `json:"engine,omitempty"`
	Instructions  string               `json:"instructions,omitempty"`
}

// ParseTextEndpoint handles POST /api/parse/text: the same extraction
// contract as the upload endpoint, but over raw text instead of a file.
// The external strategy is rejected here since there is no file to submit.
type ParseTextEndpoint struct{}

var _ api.Endpoint = (*ParseTextEndpoint)(nil)

func (e *ParseTextEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/parse/text", e.handler
}

func (e *ParseTextEndpoint) RequiresInit() bool { return true }

func (e *ParseTextEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var body ParseTextRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.DocumentText) == "" {
		writeError(w, http.StatusBadRequest, "document_text is required")
		return
	}

	strategy := requestedStrategy(body.Engine)
	if strategy == extract.StrategyExternal {
		writeError(w, http.StatusBadRequest, "external extraction requires a file upload")
		return
	}

	schema := extract.Schema(body.Columns)
	if err := schema.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	engine := svcctx.EngineFrom(r.Context())
	result, err := engine.Extract(r.Context(), extract.Request{
		DocumentText: body.DocumentText,
		SectionHint:  strings.TrimSpace(body.SectionPrompt),
		Schema:       schema,
		Strategy:     strategy,
		Instructions: strings.TrimSpace(body.Instructions),
		RequestID:    uuid.New().String(),
	})
	if err != nil {
		writeExtractionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ParseResponse{
		Success:     true,
		Data:        result.Rows,
		Count:       len(result.Rows),
		PreviewText: sectionPreview(result.Section),
	})
}

func (e *ParseTextEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		sectionPrompt string
		columnsJSON   string
		engineName    string
		instructions  string
	)
	cmd := &cobra.Command{
		Use:   "parse-text <text>",
		Short: "Extract rows from raw text via the running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var columns []extract.ColumnSpec
			if columnsJSON != "" {
				if err := json.Unmarshal([]byte(columnsJSON), &columns); err != nil {
					return err
				}
			}
			client := api.NewClient(getServerURL())
			var resp ParseResponse
			err := client.Post(cmd.Context(), "/api/parse/text", ParseTextRequest{
				DocumentText:  args[0],
				SectionPrompt: sectionPrompt,
				Columns:       columns,
				Engine:        engineName,
				Instructions:  instructions,
			}, &resp)
			if err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&sectionPrompt, "section", "", "Section hint to locate before parsing")
	cmd.Flags().StringVar(&columnsJSON, "columns", "", "Column specs as a JSON array")
	cmd.Flags().StringVar(&engineName, "engine", "rule", "Extraction engine: rule or model")
	cmd.Flags().StringVar(&instructions, "instructions", "", "Extra instructions for the model engine")
	return cmd
}
