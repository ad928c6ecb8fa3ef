package weightlog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/2beens/weighttrend/internal/weighttrend"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// HistoryFile is the on-disk history format read by the offline tooling.
// Profile weights are optional.
type HistoryFile struct {
	TargetWeightKg  *float64                     `json:"targetWeightKg" yaml:"targetWeightKg"`
	CurrentWeightKg *float64                     `json:"currentWeightKg" yaml:"currentWeightKg"`
	Entries         []weighttrend.WeightLogEntry `json:"entries" yaml:"entries"`
}

// DecodeHistory reads a history document, either a HistoryFile object or a bare
// array of entries. Entries without an id get a random one.
func DecodeHistory(r io.Reader, format string) (*HistoryFile, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	history := &HistoryFile{}
	switch strings.ToLower(format) {
	case "json":
		if trimmed := strings.TrimSpace(string(raw)); strings.HasPrefix(trimmed, "[") {
			err = json.Unmarshal(raw, &history.Entries)
		} else {
			err = json.Unmarshal(raw, history)
		}
	case "yaml", "yml":
		var node yaml.Node
		if err = yaml.Unmarshal(raw, &node); err == nil {
			if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
				err = node.Decode(&history.Entries)
			} else {
				err = node.Decode(history)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported history format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s history: %w", format, err)
	}

	for i := range history.Entries {
		if history.Entries[i].ID == "" {
			history.Entries[i].ID = uuid.NewString()
		}
	}

	return history, nil
}

// ReadHistoryFile reads a JSON or YAML history file, picking the format by extension.
func ReadHistoryFile(path string) (*HistoryFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	format := strings.TrimPrefix(filepath.Ext(path), ".")
	return DecodeHistory(f, format)
}

func (h *HistoryFile) Profile(userID string) *Profile {
	return &Profile{
		UserID:          userID,
		TargetWeightKg:  h.TargetWeightKg,
		CurrentWeightKg: h.CurrentWeightKg,
	}
}
