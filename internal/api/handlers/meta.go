package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/lide/internal/buildconfig"
	"github.com/Harshitk-cp/lide/internal/domain"
)

// ModelInfo describes the engines behind the pipeline.
type ModelInfo struct {
	Annotator        string `json:"annotator"`
	AugmentProvider  string `json:"augment_provider"`
	AugmentEnabled   bool   `json:"augment_enabled"`
	StorageBackend   string `json:"storage_backend"`
	KnowledgeVersion string `json:"knowledge_version,omitempty"`
}

type MetaHandler struct {
	models  ModelInfo
	plugins func() []domain.PluginInfo
}

func NewMetaHandler(models ModelInfo, plugins func() []domain.PluginInfo) *MetaHandler {
	return &MetaHandler{models: models, plugins: plugins}
}

func (h *MetaHandler) Models(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.models)
}

func (h *MetaHandler) Capabilities(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"processing_modes": []domain.ProcessingMode{domain.ModeMap, domain.ModeFiction, domain.ModeTruth},
		"export_formats":   []string{"json", "markdown"},
		"augmentation":     h.models.AugmentEnabled,
	})
}

func (h *MetaHandler) Plugins(w http.ResponseWriter, _ *http.Request) {
	plugins := h.plugins()
	if plugins == nil {
		plugins = []domain.PluginInfo{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"plugins": plugins})
}

func (h *MetaHandler) Version(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, buildconfig.VersionInfo())
}
