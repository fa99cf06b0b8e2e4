package speech

import "strings"

// DefaultModel is the model used when none is configured. Large-v2 is the
// sweet spot for multi-hour session audio.
const DefaultModel = "large-v2"

// Model describes one entry of the supported model catalog.
type Model struct {
	Name        string `json:"name"`
	GGMLName    string `json:"ggml_name"`
	Description string `json:"description"`
}

// Models lists the recognizer sizes offered to users. Medium trades accuracy
// for speed; the large variants are preferred for session recordings.
func Models() []Model {
	return []Model{
		{Name: "medium", GGMLName: "ggml-medium.bin", Description: "balanced speed and accuracy"},
		{Name: "large-v2", GGMLName: "ggml-large-v2.bin", Description: "high accuracy, default"},
		{Name: "large-v3", GGMLName: "ggml-large-v3.bin", Description: "highest accuracy, slowest"},
	}
}

// LookupModel resolves a user supplied model name against the catalog. An
// empty name resolves to the default; unknown names return false.
func LookupModel(name string) (Model, bool) {
	trimmed := strings.TrimSpace(strings.ToLower(name))
	if trimmed == "" {
		trimmed = DefaultModel
	}
	for _, m := range Models() {
		if m.Name == trimmed {
			return m, true
		}
	}
	return Model{}, false
}
