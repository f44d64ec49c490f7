package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type MapStyleService interface {
	GetMapStyle(ctx context.Context) ([]byte, error)
}

type mapStyleService struct {
	style     []byte
	publicUrl string
}

// NewMapStyleService serves style as given, pointing its vector sources at
// publicUrl when that is set.
func NewMapStyleService(style []byte, publicUrl string) MapStyleService {
	return &mapStyleService{
		style:     style,
		publicUrl: strings.TrimSuffix(publicUrl, "/"),
	}
}

func (m *mapStyleService) GetMapStyle(ctx context.Context) ([]byte, error) {
	if m.publicUrl == "" {
		return m.style, nil
	}
	return m.rewriteSources()
}

func (m *mapStyleService) rewriteSources() ([]byte, error) {
	var document map[string]any
	if err := json.Unmarshal(m.style, &document); err != nil {
		return nil, fmt.Errorf("failed to parse style: %w", err)
	}

	sources, _ := document["sources"].(map[string]any)
	for _, raw := range sources {
		source, ok := raw.(map[string]any)
		if !ok || source["type"] != "vector" {
			continue
		}
		delete(source, "url")
		source["tiles"] = []string{
			fmt.Sprintf("%s/tiles/{z}/{x}/{y}", m.publicUrl),
		}
	}

	data, err := json.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("failed to encode style: %w", err)
	}
	return data, nil
}
